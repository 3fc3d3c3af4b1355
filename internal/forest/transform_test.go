package forest

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/glforest/pkg/math"
)

func TestWorldMatrixTranslation(t *testing.T) {
	p := Placement{Position: math.Vec3{X: 100}}
	ext := fullCatalog.Extents(Tree, 0)

	tr := WorldMatrix(p, ext, 0).Translation()
	assert.InDelta(t, 100, tr.X, 1e-5)
	assert.InDelta(t, 0, tr.Y, 1e-5)
	assert.InDelta(t, 0, tr.Z, 1e-5)
}

func TestWorldMatrixOrder(t *testing.T) {
	ext := Extents{Min: math.Vec3{X: 10, Y: 0, Z: 0}, Max: math.Vec3{X: 20, Y: 8, Z: 0}}
	p := Placement{Position: math.Vec3{X: 100}}

	// the object's center lands on the placement position, height is kept
	center := WorldMatrix(p, ext, 0).TransformVec3(math.Vec3{X: 15, Y: 3, Z: 0})
	assert.InDelta(t, 100, center.X, 1e-3)
	assert.InDelta(t, 3, center.Y, 1e-3)
	assert.InDelta(t, 0, center.Z, 1e-3)

	// the orientation turns the object about its local origin only
	p.Rotation = gomath.Pi / 2
	turned := WorldMatrix(p, ext, 0)
	tr := turned.Translation()
	assert.InDelta(t, 85, tr.X, 1e-3)
	assert.InDelta(t, 0, tr.Z, 1e-3)
	tip := turned.TransformVec3(math.Vec3{X: 1})
	assert.InDelta(t, 85, tip.X, 1e-3)
	assert.InDelta(t, -1, tip.Z, 1e-3)

	// the global spin carries the whole placement around the origin
	spun := WorldMatrix(p, ext, gomath.Pi/2/SpinRate).Translation()
	assert.InDelta(t, 0, spun.X, 1e-2)
	assert.InDelta(t, -85, spun.Z, 1e-2)
}

func TestCenterOffset(t *testing.T) {
	ext := Extents{Min: math.Vec3{X: -2, Y: 1, Z: 4}, Max: math.Vec3{X: 4, Y: 5, Z: 8}}

	assert.Equal(t, math.Vec3{X: 1, Y: 3, Z: 6}, ext.Center())
	assert.Equal(t, math.Vec3{X: 6, Y: 4, Z: 4}, ext.Size())
	assert.Equal(t, math.Vec3{X: -1, Y: -3, Z: -6}, ext.CenterOffset(false))
	assert.Equal(t, math.Vec3{X: -1, Y: 0, Z: -6}, ext.CenterOffset(true))
}

func TestFrameResolvesEveryPlacement(t *testing.T) {
	snap := NewGenerator(fullCatalog, 19).Generate(DefaultParams())

	instances := Frame(snap, fullCatalog, 12.5, nil)
	require.Len(t, instances, snap.Len())

	for i, inst := range instances {
		assert.Equal(t, snap.Placements[i], inst.Placement)
		assert.Equal(t, inst.World.NormalMatrix(), inst.Normal)
	}

	again := Frame(snap, fullCatalog, 12.5, instances)
	require.Len(t, again, len(instances))
	assert.Same(t, &instances[0], &again[0], "buffer is reused")
}

func TestFrameEmptySnapshot(t *testing.T) {
	assert.Empty(t, Frame(&Snapshot{}, fullCatalog, 1, nil))
}

func TestGround(t *testing.T) {
	world, normal := Ground(0)
	id := math.Identity()
	for i := range id {
		assert.InDelta(t, id[i], world[i], 1e-6)
		assert.InDelta(t, id[i], normal[i], 1e-6)
	}
}
