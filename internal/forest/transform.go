package forest

import "github.com/Faultbox/glforest/pkg/math"

// SpinRate is the ambient rotation of the whole scene, in radians per second.
const SpinRate = 0.05

// Extents is the axis-aligned local bounding box of an object.
type Extents struct {
	Min math.Vec3
	Max math.Vec3
}

// Size returns the extent along each axis.
func (e Extents) Size() math.Vec3 {
	return e.Max.Sub(e.Min)
}

// Center returns the midpoint of the box.
func (e Extents) Center() math.Vec3 {
	return e.Min.Add(e.Size().Scale(0.5))
}

// CenterOffset returns the translation that moves the box's center to the
// origin. With grounded set the vertical component is zero, so the object
// keeps standing on its own base.
func (e Extents) CenterOffset(grounded bool) math.Vec3 {
	off := e.Center().Scale(-1)
	if grounded {
		off.Y = 0
	}
	return off
}

// GlobalSpin returns the scene rotation shared by every instance at the
// given time.
func GlobalSpin(seconds float32) math.Mat4 {
	return math.RotateY(seconds * SpinRate)
}

// WorldMatrix composes the world transform of one placement as
//
//	spin * recenter * position * orientation
//
// The order is fixed: the object is turned about its own axis, placed, then
// carried around the scene origin by the global spin.
func WorldMatrix(p Placement, ext Extents, seconds float32) math.Mat4 {
	off := ext.CenterOffset(true)
	return GlobalSpin(seconds).
		Mul(math.Translate(off.X, off.Y, off.Z)).
		Mul(math.Translate(p.Position.X, p.Position.Y, p.Position.Z)).
		Mul(math.RotateY(p.Rotation))
}

// Instance is a placement resolved for one frame.
type Instance struct {
	Placement
	World  math.Mat4
	Normal math.Mat4 // inverse-transpose of World
}

// Frame resolves every placement of snap at the given time. Results are
// appended to dst[:0] so callers can reuse the buffer across frames.
func Frame(snap *Snapshot, catalog Catalog, seconds float32, dst []Instance) []Instance {
	dst = dst[:0]
	for _, p := range snap.Placements {
		world := WorldMatrix(p, catalog.Extents(p.Category, p.Variant), seconds)
		dst = append(dst, Instance{
			Placement: p,
			World:     world,
			Normal:    world.NormalMatrix(),
		})
	}
	return dst
}

// Ground returns the world and normal matrices of the ground plane.
func Ground(seconds float32) (world, normal math.Mat4) {
	world = GlobalSpin(seconds)
	return world, world.NormalMatrix()
}
