package raster

import (
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/glforest/internal/assets"
	"github.com/Faultbox/glforest/internal/engine/camera"
	"github.com/Faultbox/glforest/internal/engine/lighting"
	"github.com/Faultbox/glforest/internal/forest"
	"github.com/Faultbox/glforest/internal/logger"
	"github.com/Faultbox/glforest/pkg/math"
	"github.com/Faultbox/glforest/pkg/obj"
)

// Scene is everything needed to draw one frame.
type Scene struct {
	Snapshot   *forest.Snapshot
	Library    *assets.Library
	Camera     *camera.OrbitCamera
	Light      lighting.Directional
	Seconds    float32
	Background [4]float32
}

// Options sets the output size. The scene is drawn at Supersample times
// the output size and filtered down.
type Options struct {
	Width       int
	Height      int
	Supersample int
}

// Stats counts what a render drew.
type Stats struct {
	Instances int
	Triangles int
}

// RenderForest draws the scene to an image of opts.Width x opts.Height.
func RenderForest(scene Scene, opts Options) (*image.NRGBA, Stats) {
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}
	w, h := opts.Width*ss, opts.Height*ss
	if w <= 0 || h <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0)), Stats{}
	}

	fb := NewFrameBuffer(w, h)
	fb.Clear(scene.Background)

	r := &rasterizer{
		fb:       fb,
		light:    scene.Light,
		viewProj: scene.Camera.ViewProjection(float32(w) / float32(h)),
	}

	if size := scene.Snapshot.PlaneSize; size > 0 {
		ground, groundNormal := forest.Ground(scene.Seconds)
		r.drawGeometry(planeGeometry(size), ground, groundNormal, assets.GroundColor)
	}

	instances := forest.Frame(scene.Snapshot, scene.Library, scene.Seconds, nil)
	for _, inst := range instances {
		v := scene.Library.Variant(inst.Category, inst.Variant)
		if v == nil {
			continue
		}
		for _, p := range v.Parts {
			r.drawGeometry(p.Geometry, inst.World, inst.Normal, p.Color)
		}
	}

	stats := Stats{Instances: len(instances), Triangles: r.triangles}
	logger.Debug("forest rasterized",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("instances", stats.Instances),
		zap.Int("triangles", stats.Triangles),
	)

	img := fb.Image()
	if ss > 1 {
		img = Downsample(img, opts.Width, opts.Height)
	}
	return img, stats
}

type rasterizer struct {
	fb        *FrameBuffer
	light     lighting.Directional
	viewProj  math.Mat4
	poly      []clipVertex
	triangles int
}

// drawGeometry rasterizes every triangle of g, flat shaded with the mean of
// its vertex normals.
func (r *rasterizer) drawGeometry(g *obj.Geometry, world, normal math.Mat4, color assets.RGBA) {
	mvp := r.viewProj.Mul(world)
	hasNormals := len(g.Normals) == len(g.Positions)

	for t := 0; t+2 < g.VertexCount(); t += 3 {
		var tri [3]clipVertex
		var n [3]float32
		for k := 0; k < 3; k++ {
			i := (t + k) * 3
			tri[k] = toClip(mvp, math.Vec3{X: g.Positions[i], Y: g.Positions[i+1], Z: g.Positions[i+2]})
			if hasNormals {
				n[0] += g.Normals[i]
				n[1] += g.Normals[i+1]
				n[2] += g.Normals[i+2]
			}
		}
		if !hasNormals {
			n = [3]float32{0, 1, 0}
		}

		r.poly = clipNear(tri, r.poly)
		if len(r.poly) < 3 {
			continue
		}

		wn := normal.TransformDirection(n)
		shaded := r.light.Apply(color, math.Vec3{X: wn[0], Y: wn[1], Z: wn[2]}.Normalize())
		px := toBytes(shaded)

		a := toScreen(r.poly[0], r.fb.Width, r.fb.Height)
		for k := 1; k+1 < len(r.poly); k++ {
			b := toScreen(r.poly[k], r.fb.Width, r.fb.Height)
			c := toScreen(r.poly[k+1], r.fb.Width, r.fb.Height)
			RasterizeTriangle(r.fb, a, b, c, px)
		}
		r.triangles++
	}
}

// planeGeometry is a square of side size on y = 0, facing up.
func planeGeometry(size float32) *obj.Geometry {
	h := size / 2
	return &obj.Geometry{
		Positions: []float32{
			-h, 0, -h, -h, 0, h, h, 0, -h,
			h, 0, -h, -h, 0, h, h, 0, h,
		},
		Normals: []float32{
			0, 1, 0, 0, 1, 0, 0, 1, 0,
			0, 1, 0, 0, 1, 0, 0, 1, 0,
		},
	}
}
