package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/glforest/internal/engine/shader"
	"github.com/Faultbox/glforest/internal/letters"
)

const lettersVertexShader = `#version 410 core
layout (location = 0) in vec2 aPosition;

uniform mat3 uMatrix;

void main() {
    gl_Position = vec4((uMatrix * vec3(aPosition, 1.0)).xy, 0.0, 1.0);
}
`

const lettersFragmentShader = `#version 410 core
uniform vec4 uColor;

out vec4 FragColor;

void main() {
    FragColor = uColor;
}
`

// LettersRenderer draws the letters of an animator, one mesh per shape.
type LettersRenderer struct {
	program *shader.Program
	meshes  map[string]*mesh
}

// NewLettersRenderer compiles the 2D program and uploads each shape.
func NewLettersRenderer(shapes []letters.Shape) (*LettersRenderer, error) {
	program, err := shader.NewProgram("letters", lettersVertexShader, lettersFragmentShader)
	if err != nil {
		return nil, err
	}

	r := &LettersRenderer{
		program: program,
		meshes:  make(map[string]*mesh, len(shapes)),
	}
	for _, s := range shapes {
		r.meshes[s.Name] = newMesh(s.Vertices, gl.TRIANGLES, gl.STATIC_DRAW, attrib{0, 2})
	}
	return r, nil
}

// Render draws every letter with the animator's current state.
func (r *LettersRenderer) Render(a *letters.Animator) {
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	proj := a.Projection()
	r.program.Use()
	for _, l := range a.Letters() {
		m, ok := r.meshes[l.Shape.Name]
		if !ok {
			continue
		}
		r.program.SetMat3("uMatrix", l.Matrix(proj))
		r.program.SetVec4("uColor", l.Color)
		m.draw()
	}
	gl.BindVertexArray(0)
}

// Destroy releases GL resources.
func (r *LettersRenderer) Destroy() {
	for _, m := range r.meshes {
		m.destroy()
	}
	r.meshes = nil
	r.program.Delete()
}
