package obj

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/glforest/pkg/math"
)

const twoPartTree = `# low poly tree
mtllib tree.mtl
o Tree
v -1 0 -1
v  1 0 -1
v  1 0  1
v -1 0  1
v  0 4  0
vn 0 -1 0
usemtl Trunk
f 1//1 2//1 3//1 4//1
usemtl Leaves
f 1 2 5
f -4 -3 -1
`

func TestDecodeSplitsByMaterial(t *testing.T) {
	m, err := Decode(strings.NewReader(twoPartTree))
	require.NoError(t, err)

	require.Len(t, m.Geometries, 2)
	assert.Equal(t, "tree.mtl", m.MaterialLib)

	trunk := m.Geometries[0]
	assert.Equal(t, "Tree", trunk.Name)
	assert.Equal(t, "Trunk", trunk.Material)
	// quad is split into two triangles
	assert.Equal(t, 6, trunk.VertexCount())
	assert.Len(t, trunk.Normals, len(trunk.Positions))
	assert.Empty(t, trunk.TexCoords)

	leaves := m.Geometries[1]
	assert.Equal(t, "Leaves", leaves.Material)
	assert.Equal(t, 6, leaves.VertexCount())
	assert.Len(t, leaves.Normals, len(leaves.Positions))
}

func TestDecodeMixedNormalsFallBackToFlat(t *testing.T) {
	m, err := Decode(strings.NewReader(twoPartTree))
	require.NoError(t, err)

	assert.Contains(t, m.Warnings, "faces mix normals, using flat normals")
	// the trunk quad faces down
	n := m.Geometries[0].Normals
	assert.InDelta(t, -1, n[1], 1e-6)
}

func TestDecodeNegativeIndices(t *testing.T) {
	m, err := Decode(strings.NewReader(twoPartTree))
	require.NoError(t, err)

	// f -4 -3 -1 resolves to vertices 2, 3, 5
	leaves := m.Geometries[1]
	second := leaves.Positions[9:18]
	assert.Equal(t, []float32{1, 0, -1, 1, 0, 1, 0, 4, 0}, second)
}

func TestDecodeFlatNormals(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	m, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, m.Geometries, 1)

	n := m.Geometries[0].Normals
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 0, n[i*3], 1e-6)
		assert.InDelta(t, 0, n[i*3+1], 1e-6)
		assert.InDelta(t, 1, n[i*3+2], 1e-6)
	}
}

func TestDecodeTexCoords(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
f 1/1 2/2 3/3
`
	m, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1}, m.Geometries[0].TexCoords)
}

func TestDecodeFillsMissingTexCoords(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
vt 0.5 0.5
f 1/1 2/1 3/1
f 2 4 3
`
	m, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, m.Geometries, 1)

	g := m.Geometries[0]
	require.Equal(t, 6, g.VertexCount())
	assert.Equal(t, []float32{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0, 0, 0, 0, 0, 0}, g.TexCoords)
	assert.Equal(t, []float32{1, 0, 0, 1, 1, 0, 0, 1, 0}, g.Positions[9:18])
	assert.Contains(t, m.Warnings, "faces without texture coordinates use (0, 0)")
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"bad number", "v 0 x 0\n", "parseLine 1"},
		{"short vertex", "v 0 0\n", "bad number of coords"},
		{"index out of range", "v 0 0 0\nf 1 2 3\n", "invalid vertex index"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", "line=4"},
		{"degenerate face", "v 0 0 0\nf 1 1\n", "size=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestDecodeWarnsOnUnknownKeyword(t *testing.T) {
	m, err := Decode(strings.NewReader("v 0 0 0\ncstype bspline\n"))
	require.NoError(t, err)
	require.NotEmpty(t, m.Warnings)
	assert.Contains(t, strings.Join(m.Warnings, "\n"), "cstype")
}

func TestExtents(t *testing.T) {
	m, err := Decode(strings.NewReader(twoPartTree))
	require.NoError(t, err)

	min, max, ok := m.Extents()
	require.True(t, ok)
	assert.Equal(t, math.Vec3{X: -1, Y: 0, Z: -1}, min)
	assert.Equal(t, math.Vec3{X: 1, Y: 4, Z: 1}, max)

	_, _, ok = (&Model{}).Extents()
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.obj")
	require.NoError(t, os.WriteFile(path, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, m.Geometries, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.obj"))
	assert.Error(t, err)
}
