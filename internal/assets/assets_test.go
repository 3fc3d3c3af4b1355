package assets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/glforest/internal/forest"
	"github.com/Faultbox/glforest/pkg/math"
	"github.com/Faultbox/glforest/pkg/obj"
)

const pine = `o Pine
v -1 0 -1
v 1 0 -1
v 0 0 1
v 0 6 0
usemtl Needles
f 1 2 4
f 2 3 4
usemtl Bark
f 1 3 2
`

const stump = `v 2 0 2
v 4 0 2
v 4 1 4
v 2 1 4
f 1 2 3 4
`

func writeModels(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func testManifest() *Manifest {
	return &Manifest{Categories: map[string]CategorySpec{
		"tree":  {Colors: []RGBA{green, brown}, Files: []string{"pine.obj", "pine.obj"}},
		"stump": {Colors: []RGBA{brown}, Files: []string{"stump.obj"}},
	}}
}

func TestLoadBuildsLibrary(t *testing.T) {
	dir := writeModels(t, map[string]string{"pine.obj": pine, "stump.obj": stump})
	m := NewManager(dir)
	m.SetParallelism(2)

	lib, err := m.Load(context.Background(), testManifest())
	require.NoError(t, err)

	assert.Equal(t, 3, lib.Len())
	assert.Equal(t, 2, lib.VariantCount(forest.Tree))
	assert.Zero(t, lib.VariantCount(forest.DeadTree))
	assert.Equal(t, 1, lib.VariantCount(forest.Stump))

	tree := lib.Variant(forest.Tree, 1)
	require.NotNil(t, tree)
	assert.Equal(t, 1, tree.Index)
	assert.Equal(t, "pine.obj", tree.Name)
	require.Len(t, tree.Parts, 2)
	assert.Equal(t, green, tree.Parts[0].Color)
	assert.Equal(t, brown, tree.Parts[1].Color)
	assert.Equal(t, 9, tree.VertexCount())

	ext := lib.Extents(forest.Stump, 0)
	assert.Equal(t, math.Vec3{X: 2, Y: 0, Z: 2}, ext.Min)
	assert.Equal(t, math.Vec3{X: 4, Y: 1, Z: 4}, ext.Max)

	// both tree variants come from one decode of pine.obj
	first := lib.Variant(forest.Tree, 0)
	assert.Same(t, first.Parts[0].Geometry, tree.Parts[0].Geometry)

	hits, misses := m.Cache().Stats()
	assert.Equal(t, 3, hits+misses)
	assert.GreaterOrEqual(t, misses, 2)
}

func TestConcurrentModelDecodesOnce(t *testing.T) {
	dir := writeModels(t, map[string]string{"pine.obj": pine})
	m := NewManager(dir)

	const callers = 16
	var models [callers]*obj.Model
	var g errgroup.Group
	for i := range callers {
		g.Go(func() error {
			model, err := m.Model("pine.obj")
			models[i] = model
			return err
		})
	}
	require.NoError(t, g.Wait())

	for _, model := range models[1:] {
		assert.Same(t, models[0], model)
	}
}

func TestLibraryIsACatalog(t *testing.T) {
	dir := writeModels(t, map[string]string{"pine.obj": pine, "stump.obj": stump})
	lib, err := NewManager(dir).Load(context.Background(), testManifest())
	require.NoError(t, err)

	var catalog forest.Catalog = lib
	snap := forest.NewGenerator(catalog, 5).Generate(forest.DefaultParams())
	require.NotZero(t, snap.Len())
	for _, p := range snap.Placements {
		assert.NotEqual(t, forest.DeadTree, p.Category)
		assert.NotNil(t, lib.Variant(p.Category, p.Variant))
	}
}

func TestLoadFailureIsFatal(t *testing.T) {
	dir := writeModels(t, map[string]string{
		"pine.obj":   pine,
		"broken.obj": "v 0 0 0\nf 1 2 3\n",
	})
	manifest := &Manifest{Categories: map[string]CategorySpec{
		"tree":      {Colors: []RGBA{green}, Files: []string{"pine.obj"}},
		"dead_tree": {Colors: []RGBA{brown}, Files: []string{"broken.obj"}},
		"stump":     {Colors: []RGBA{brown}, Files: []string{"missing.obj"}},
	}}

	lib, err := NewManager(dir).Load(context.Background(), manifest)
	assert.Error(t, err)
	assert.Nil(t, lib)
}

func TestLoadCancelled(t *testing.T) {
	dir := writeModels(t, map[string]string{"pine.obj": pine})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewManager(dir).Load(ctx, &Manifest{Categories: map[string]CategorySpec{
		"tree": {Colors: []RGBA{green}, Files: []string{"pine.obj"}},
	}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLibraryOutOfRange(t *testing.T) {
	lib := NewLibrary(nil)
	assert.Zero(t, lib.Len())
	assert.Nil(t, lib.Variant(forest.Tree, 0))
	assert.Nil(t, lib.Variant(forest.Category(9), 0))
	assert.Equal(t, forest.Extents{}, lib.Extents(forest.Stump, 3))
}

func TestNewLibraryCompactsIndices(t *testing.T) {
	lib := NewLibrary([]*Variant{
		{Category: forest.Stump, Index: 4, Name: "b"},
		{Category: forest.Stump, Index: 1, Name: "a"},
	})

	require.Equal(t, 2, lib.VariantCount(forest.Stump))
	assert.Equal(t, "a", lib.Variant(forest.Stump, 0).Name)
	assert.Equal(t, "b", lib.Variant(forest.Stump, 1).Name)
	assert.Equal(t, 1, lib.Variant(forest.Stump, 1).Index)
}

func TestDefaultManifest(t *testing.T) {
	m := DefaultManifest()
	require.NoError(t, m.Validate())

	tree, ok := m.Spec(forest.Tree)
	require.True(t, ok)
	assert.Len(t, tree.Files, 4)
	assert.Len(t, tree.Colors, 5)

	dead, _ := m.Spec(forest.DeadTree)
	assert.Len(t, dead.Files, 6)
	stumps, _ := m.Spec(forest.Stump)
	assert.Len(t, stumps.Files, 3)
}

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(`
categories:
  Dead-Tree:
    colors: [[0.5, 0.25, 0, 1]]
    files: [snag.obj]
`))
	require.NoError(t, err)

	spec, ok := m.Spec(forest.DeadTree)
	require.True(t, ok)
	assert.Equal(t, []RGBA{{0.5, 0.25, 0, 1}}, spec.Colors)
	assert.Equal(t, []string{"snag.obj"}, spec.Files)

	_, err = ParseManifest([]byte("categories:\n  rock:\n    files: [a.obj]\n    colors: [[1,1,1,1]]\n"))
	assert.Error(t, err)

	_, err = ParseManifest([]byte("categories:\n  tree:\n    files: [a.obj]\n"))
	assert.Error(t, err)

	_, err = ParseManifest([]byte("categories: [oops"))
	assert.Error(t, err)
}

func TestLoadManifestFile(t *testing.T) {
	m, err := LoadManifest("")
	require.NoError(t, err)
	assert.Len(t, m.Categories, 3)

	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories:\n  stump:\n    colors: [[1,0,0,1]]\n    files: [s.obj]\n"), 0o644))
	m, err = LoadManifest(path)
	require.NoError(t, err)
	assert.Len(t, m.Categories, 1)

	_, err = LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
