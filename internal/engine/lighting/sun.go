// Package lighting provides the directional light shared by the GL and
// software renderers.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/glforest/pkg/math"
)

// Directional is a single light infinitely far away, plus a flat ambient
// term. Diffuse intensity is max(n·l, 0)*DiffuseScale + DiffuseBias, so
// faces turned away from the light are never fully dark.
type Directional struct {
	ReverseDir   math.Vec3 // normalized, pointing towards the light
	Ambient      float32
	DiffuseScale float32
	DiffuseBias  float32
}

// Default returns the forest light: up and behind the default camera.
func Default() Directional {
	return Directional{
		ReverseDir:   math.Vec3{X: 0.5, Y: 0.7, Z: 1}.Normalize(),
		Ambient:      0.1,
		DiffuseScale: 0.3,
		DiffuseBias:  0.3,
	}
}

// Shade returns the light intensity reaching a surface with the given
// normal. The normal does not need to be unit length.
func (d Directional) Shade(normal math.Vec3) float32 {
	diffuse := math32.Max(normal.Normalize().Dot(d.ReverseDir), 0)
	return d.Ambient + diffuse*d.DiffuseScale + d.DiffuseBias
}

// Apply scales the RGB channels of color by the shade of normal and keeps
// alpha.
func (d Directional) Apply(color [4]float32, normal math.Vec3) [4]float32 {
	s := d.Shade(normal)
	return [4]float32{
		math32.Min(color[0]*s, 1),
		math32.Min(color[1]*s, 1),
		math32.Min(color[2]*s, 1),
		color[3],
	}
}

// SunDirection converts compass angles in degrees to a direction towards
// the sun. Azimuth turns around the Y axis starting at +Z; elevation is the
// angle above the horizon.
func SunDirection(azimuth, elevation float32) math.Vec3 {
	az := azimuth * math32.Pi / 180
	el := elevation * math32.Pi / 180

	return math.Vec3{
		X: math32.Cos(el) * math32.Sin(az),
		Y: math32.Sin(el),
		Z: math32.Cos(el) * math32.Cos(az),
	}
}

// Angles is the inverse of SunDirection.
func Angles(dir math.Vec3) (azimuth, elevation float32) {
	d := dir.Normalize()
	azimuth = math32.Atan2(d.X, d.Z) * 180 / math32.Pi
	elevation = math32.Asin(math32.Max(-1, math32.Min(d.Y, 1))) * 180 / math32.Pi
	return azimuth, elevation
}
