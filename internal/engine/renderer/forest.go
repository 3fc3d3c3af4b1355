package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/glforest/internal/assets"
	"github.com/Faultbox/glforest/internal/engine/camera"
	"github.com/Faultbox/glforest/internal/engine/debug"
	"github.com/Faultbox/glforest/internal/engine/lighting"
	"github.com/Faultbox/glforest/internal/engine/shader"
	"github.com/Faultbox/glforest/internal/forest"
	"github.com/Faultbox/glforest/internal/logger"
	"github.com/Faultbox/glforest/pkg/obj"
)

const forestVertexShader = `#version 410 core
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;

uniform mat4 uProjection;
uniform mat4 uView;
uniform mat4 uWorld;
uniform mat4 uWorldInverseTranspose;

out vec3 vNormal;

void main() {
    gl_Position = uProjection * uView * uWorld * vec4(aPosition, 1.0);
    vNormal = mat3(uWorldInverseTranspose) * aNormal;
}
`

const forestFragmentShader = `#version 410 core
in vec3 vNormal;

uniform vec4 uDiffuse;
uniform vec3 uReverseLightDir;
uniform float uAmbient;
uniform float uDiffuseScale;
uniform float uDiffuseBias;

out vec4 FragColor;

void main() {
    vec3 normal = normalize(vNormal);
    float diffuse = max(dot(normal, uReverseLightDir), 0.0) * uDiffuseScale + uDiffuseBias;
    FragColor = vec4(uDiffuse.rgb * (uAmbient + diffuse), uDiffuse.a);
}
`

const lineVertexShader = `#version 410 core
layout (location = 0) in vec3 aPosition;

uniform mat4 uMVP;

void main() {
    gl_Position = uMVP * vec4(aPosition, 1.0);
}
`

const lineFragmentShader = `#version 410 core
uniform vec4 uColor;

out vec4 FragColor;

void main() {
    FragColor = uColor;
}
`

var (
	boundsColor    = [4]float32{1, 1, 0, 1}
	latticeColor   = [4]float32{0.8, 0.8, 0.8, 1}
	highlightColor = [4]float32{1, 0.2, 0.2, 1}
)

// ForestOptions toggles the debug overlays.
type ForestOptions struct {
	Bounds  bool // per-instance bounding boxes
	Lattice bool // grid lattice on the ground

	// Highlight outlines the instance at HighlightIndex.
	Highlight      bool
	HighlightIndex int
}

type partMesh struct {
	*mesh
	color assets.RGBA
}

// variantMeshes holds the GPU meshes and overlay of one variant.
type variantMeshes struct {
	parts  []partMesh
	bounds *mesh
}

// ForestRenderer draws forest snapshots.
type ForestRenderer struct {
	program *shader.Program
	lines   *shader.Program

	library  *assets.Library
	variants [][]variantMeshes // [category][variant]

	plane     *mesh
	planeSize float32

	lattice    *mesh
	latticeGen uint64

	instances []forest.Instance
	log       *zap.Logger
}

// NewForestRenderer compiles the forest shaders and uploads every variant
// of lib.
func NewForestRenderer(lib *assets.Library) (*ForestRenderer, error) {
	r := &ForestRenderer{
		library: lib,
		log:     logger.Named("renderer"),
	}

	var err error
	r.program, err = shader.NewProgram("forest", forestVertexShader, forestFragmentShader)
	if err != nil {
		return nil, err
	}
	r.lines, err = shader.NewProgram("lines", lineVertexShader, lineFragmentShader)
	if err != nil {
		r.program.Delete()
		return nil, err
	}

	vertices := 0
	r.variants = make([][]variantMeshes, len(forest.Categories))
	for _, c := range forest.Categories {
		n := lib.VariantCount(c)
		r.variants[c] = make([]variantMeshes, n)
		for i := 0; i < n; i++ {
			v := lib.Variant(c, i)
			vm := variantMeshes{
				bounds: newMesh(debug.BoxWireframe(v.Extents.Min, v.Extents.Max, 0), gl.LINES, gl.STATIC_DRAW, attrib{0, 3}),
			}
			for _, p := range v.Parts {
				vm.parts = append(vm.parts, partMesh{
					mesh:  newMesh(interleave(p.Geometry), gl.TRIANGLES, gl.STATIC_DRAW, attrib{0, 3}, attrib{1, 3}),
					color: p.Color,
				})
				vertices += p.Geometry.VertexCount()
			}
			r.variants[c][i] = vm
		}
	}

	r.plane = newMesh(nil, gl.TRIANGLES, gl.DYNAMIC_DRAW, attrib{0, 3}, attrib{1, 3})
	r.lattice = newMesh(nil, gl.LINES, gl.DYNAMIC_DRAW, attrib{0, 3})

	r.log.Info("forest meshes uploaded",
		zap.Int("variants", lib.Len()),
		zap.Int("vertices", vertices),
	)
	return r, nil
}

// interleave packs positions and normals as [px py pz nx ny nz].
func interleave(g *obj.Geometry) []float32 {
	n := g.VertexCount()
	out := make([]float32, 0, n*6)
	for i := 0; i < n; i++ {
		out = append(out, g.Positions[i*3:i*3+3]...)
		if len(g.Normals) >= (i+1)*3 {
			out = append(out, g.Normals[i*3:i*3+3]...)
		} else {
			out = append(out, 0, 1, 0)
		}
	}
	return out
}

// planeVertices is a square of side size on y = 0, facing up.
func planeVertices(size float32) []float32 {
	h := size / 2
	return []float32{
		-h, 0, -h, 0, 1, 0,
		-h, 0, h, 0, 1, 0,
		h, 0, -h, 0, 1, 0,
		h, 0, -h, 0, 1, 0,
		-h, 0, h, 0, 1, 0,
		h, 0, h, 0, 1, 0,
	}
}

// syncSnapshot rebuilds the ground plane and lattice when the snapshot
// changes size or generation.
func (r *ForestRenderer) syncSnapshot(snap *forest.Snapshot) {
	if snap.PlaneSize != r.planeSize {
		r.planeSize = snap.PlaneSize
		r.plane.upload(planeVertices(snap.PlaneSize), 6, gl.DYNAMIC_DRAW)
		r.log.Debug("ground plane rebuilt", zap.Float32("size", snap.PlaneSize))
	}

	if snap.Generation != r.latticeGen {
		r.latticeGen = snap.Generation
		var lines []float32
		if rows, _ := snap.Shape(); rows > 0 {
			p := snap.Params
			lines = debug.LatticeLines(float32(-p.MaxDistance()), float32(p.Step()), rows, 1)
		}
		r.lattice.upload(lines, 3, gl.DYNAMIC_DRAW)
	}
}

// Render draws snap at time seconds through cam into the bound framebuffer.
func (r *ForestRenderer) Render(snap *forest.Snapshot, seconds float32, cam *camera.OrbitCamera, aspect float32, light lighting.Directional, opts ForestOptions) {
	r.syncSnapshot(snap)

	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix(aspect)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)

	r.program.Use()
	r.program.SetMat4("uProjection", proj)
	r.program.SetMat4("uView", view)
	r.program.SetVec3("uReverseLightDir", light.ReverseDir)
	r.program.SetFloat("uAmbient", light.Ambient)
	r.program.SetFloat("uDiffuseScale", light.DiffuseScale)
	r.program.SetFloat("uDiffuseBias", light.DiffuseBias)

	// the plane is seen from both sides while orbiting
	gl.Disable(gl.CULL_FACE)
	ground, groundNormal := forest.Ground(seconds)
	r.program.SetMat4("uWorld", ground)
	r.program.SetMat4("uWorldInverseTranspose", groundNormal)
	r.program.SetVec4("uDiffuse", assets.GroundColor)
	r.plane.draw()

	r.instances = forest.Frame(snap, r.library, seconds, r.instances)
	for _, inst := range r.instances {
		vm := r.meshes(inst.Category, inst.Variant)
		if vm == nil {
			continue
		}
		r.program.SetMat4("uWorld", inst.World)
		r.program.SetMat4("uWorldInverseTranspose", inst.Normal)
		for _, p := range vm.parts {
			r.program.SetVec4("uDiffuse", p.color)
			p.draw()
		}
	}

	highlight := opts.Highlight && opts.HighlightIndex >= 0 && opts.HighlightIndex < len(r.instances)
	if opts.Bounds || opts.Lattice || highlight {
		viewProj := proj.Mul(view)
		r.lines.Use()
		if opts.Lattice {
			r.lines.SetMat4("uMVP", viewProj.Mul(ground))
			r.lines.SetVec4("uColor", latticeColor)
			r.lattice.draw()
		}
		if opts.Bounds {
			r.lines.SetVec4("uColor", boundsColor)
			for _, inst := range r.instances {
				if vm := r.meshes(inst.Category, inst.Variant); vm != nil {
					r.lines.SetMat4("uMVP", viewProj.Mul(inst.World))
					vm.bounds.draw()
				}
			}
		}
		if highlight {
			inst := r.instances[opts.HighlightIndex]
			if vm := r.meshes(inst.Category, inst.Variant); vm != nil {
				r.lines.SetMat4("uMVP", viewProj.Mul(inst.World))
				r.lines.SetVec4("uColor", highlightColor)
				gl.Disable(gl.DEPTH_TEST)
				vm.bounds.draw()
				gl.Enable(gl.DEPTH_TEST)
			}
		}
	}

	gl.BindVertexArray(0)
}

func (r *ForestRenderer) meshes(c forest.Category, variant int) *variantMeshes {
	if !c.Valid() || variant < 0 || variant >= len(r.variants[c]) {
		return nil
	}
	return &r.variants[c][variant]
}

// Instances returns the instances resolved for the last frame. The slice is
// reused by the next Render.
func (r *ForestRenderer) Instances() []forest.Instance {
	return r.instances
}

// Stats describes the last rendered frame.
func (r *ForestRenderer) Stats() string {
	return fmt.Sprintf("%d instances, plane %.0f", len(r.instances), r.planeSize)
}

// Destroy releases all GL resources.
func (r *ForestRenderer) Destroy() {
	for _, list := range r.variants {
		for _, vm := range list {
			for _, p := range vm.parts {
				p.destroy()
			}
			vm.bounds.destroy()
		}
	}
	r.variants = nil
	r.plane.destroy()
	r.lattice.destroy()
	r.program.Delete()
	r.lines.Delete()
}
