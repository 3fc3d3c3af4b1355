package raster

import "github.com/Faultbox/glforest/pkg/math"

// clipVertex is a vertex in homogeneous clip space.
type clipVertex [4]float32

// toClip transforms a point by m without the perspective divide.
func toClip(m math.Mat4, p math.Vec3) clipVertex {
	return clipVertex{
		m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
		m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15],
	}
}

// nearDistance is positive on the visible side of the near plane (z > -w).
func (v clipVertex) nearDistance() float32 {
	return v[2] + v[3]
}

func lerpClip(a, b clipVertex, t float32) clipVertex {
	var out clipVertex
	for i := range out {
		out[i] = a[i] + (b[i]-a[i])*t
	}
	return out
}

// clipNear clips a triangle against the near plane and appends the
// resulting polygon (0, 3 or 4 vertices) to dst[:0].
func clipNear(tri [3]clipVertex, dst []clipVertex) []clipVertex {
	dst = dst[:0]
	for i := 0; i < 3; i++ {
		a, b := tri[i], tri[(i+1)%3]
		da, db := a.nearDistance(), b.nearDistance()
		if da >= 0 {
			dst = append(dst, a)
		}
		if (da >= 0) != (db >= 0) {
			dst = append(dst, lerpClip(a, b, da/(da-db)))
		}
	}
	return dst
}

// toScreen performs the perspective divide and maps NDC to pixels with y
// growing downward.
func toScreen(v clipVertex, width, height int) Vertex {
	w := v[3]
	if w <= 0 {
		w = 1e-6
	}
	x, y, z := v[0]/w, v[1]/w, v[2]/w
	return Vertex{
		X: (x + 1) / 2 * float32(width),
		Y: (1 - y) / 2 * float32(height),
		Z: z,
	}
}
