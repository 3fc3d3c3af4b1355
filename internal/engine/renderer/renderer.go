// Package renderer draws the forest scene and the letter animation with
// OpenGL 4.1 core.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/glforest/internal/logger"
)

// InitGL loads the OpenGL function pointers for the current context.
// It must be called after the context is created.
func InitGL() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)
	return nil
}

// Begin sets the viewport and clears color and depth.
func Begin(width, height int, clear [4]float32) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(clear[0], clear[1], clear[2], clear[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// mesh is a VAO with one interleaved vertex buffer.
type mesh struct {
	vao   uint32
	vbo   uint32
	count int32
	mode  uint32
}

// attrib describes one float attribute of an interleaved vertex.
type attrib struct {
	location uint32
	size     int32
}

// newMesh uploads interleaved float vertices. stride is derived from the
// attribute sizes.
func newMesh(vertices []float32, mode uint32, usage uint32, attribs ...attrib) *mesh {
	m := &mesh{mode: mode}

	var stride int32
	for _, a := range attribs {
		stride += a.size
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)

	var offset int32
	for _, a := range attribs {
		gl.VertexAttribPointer(a.location, a.size, gl.FLOAT, false, stride*4, unsafe.Pointer(uintptr(offset*4)))
		gl.EnableVertexAttribArray(a.location)
		offset += a.size
	}

	m.upload(vertices, stride, usage)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return m
}

// upload replaces the buffer contents. The VAO must be bound or the
// buffer must be bound to ARRAY_BUFFER.
func (m *mesh) upload(vertices []float32, stride int32, usage uint32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	if len(vertices) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, usage)
		m.count = 0
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), usage)
	m.count = int32(len(vertices)) / stride
}

func (m *mesh) draw() {
	if m.count == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	gl.DrawArrays(m.mode, 0, m.count)
}

func (m *mesh) destroy() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
		m.vbo = 0
	}
}
