package raster

import "github.com/chewxy/math32"

// Vertex is a point in screen space: X and Y in pixels, Z in normalized
// device depth where smaller is nearer.
type Vertex struct {
	X, Y, Z float32
}

// RasterizeTriangle fills a flat-colored triangle with a depth test. Both
// windings are drawn. Pixels are sampled at their centers.
func RasterizeTriangle(fb *FrameBuffer, v0, v1, v2 Vertex, color [4]uint8) {
	x0, y0, z0 := v0.X, v0.Y, v0.Z
	x1, y1, z1 := v1.X, v1.Y, v1.Z
	x2, y2, z2 := v2.X, v2.Y, v2.Z

	// Bounding box
	minX := int(math32.Floor(math32.Min(math32.Min(x0, x1), x2)))
	maxX := int(math32.Ceil(math32.Max(math32.Max(x0, x1), x2)))
	minY := int(math32.Floor(math32.Min(math32.Min(y0, y1), y2)))
	maxY := int(math32.Ceil(math32.Max(math32.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float32(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float32(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1 - w0 - w1

			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			if z < -1 || z > 1 {
				continue
			}
			zIdx := rowOff + sx
			if z >= fb.Depth[zIdx] {
				continue
			}
			fb.Depth[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = color[0]
			fb.Color[pxIdx+1] = color[1]
			fb.Color[pxIdx+2] = color[2]
			fb.Color[pxIdx+3] = color[3]
		}
	}
}
