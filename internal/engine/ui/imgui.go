// Package ui provides ImGui-based user interface components.
package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/glforest/internal/logger"
)

// Backend wraps the ImGui SDL backend.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
}

// NewBackend creates the ImGui window and initializes OpenGL for it.
func NewBackend(title string, width, height int32) (*Backend, error) {
	b := &Backend{}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	b.backend.CreateWindow(title, int(width), int(height))

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init opengl: %w", err)
	}

	logger.Info("ui backend ready",
		zap.String("title", title),
		zap.String("gl_version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("gl_renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)
	return b, nil
}

// Run starts the main render loop.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// SetBgColor sets the clear color behind all ImGui windows.
func (b *Backend) SetBgColor(color [4]float32) {
	b.backend.SetBgColor(imgui.NewVec4(color[0], color[1], color[2], color[3]))
}

// GetViewport returns the main viewport work area.
func GetViewport() (posX, posY, width, height float32) {
	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()
	return workPos.X, workPos.Y, workSize.X, workSize.Y
}

// FramebufferSize returns the window size in physical pixels.
func FramebufferSize() (width, height int) {
	io := imgui.CurrentIO()
	size := io.DisplaySize()
	scale := io.DisplayFramebufferScale()
	return int(size.X * scale.X), int(size.Y * scale.Y)
}

// IsKeyPressed checks if a key was pressed this frame.
func IsKeyPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}

// IsKeyDown checks if a key is currently held down.
func IsKeyDown(key imgui.Key) bool {
	return imgui.IsKeyDown(key)
}

// SceneView shows a GL texture, flipped for OpenGL's bottom-up rows, and
// reports the mouse interaction over it.
type SceneView struct {
	lastMouse imgui.Vec2
}

// ViewInput is the mouse interaction over a SceneView for one frame.
type ViewInput struct {
	Hovered bool
	MouseX  float32 // relative to the image's top-left corner
	MouseY  float32
	DragX   float32
	DragY   float32
	Wheel   float32
	Clicked bool // left button pressed over the image
}

// Draw displays texture at the given size and returns the drag and wheel
// deltas while the image is hovered.
func (v *SceneView) Draw(texture uint32, width, height float32) ViewInput {
	texRef := imgui.NewTextureRefTextureID(imgui.TextureID(texture))
	imgui.ImageWithBgV(
		*texRef,
		imgui.NewVec2(width, height),
		imgui.NewVec2(0, 1), // UV flipped
		imgui.NewVec2(1, 0),
		imgui.NewVec4(0.15, 0.15, 0.15, 1.0),
		imgui.NewVec4(1, 1, 1, 1),
	)

	var in ViewInput
	if !imgui.IsItemHovered() {
		return in
	}
	in.Hovered = true

	mouse := imgui.MousePos()
	origin := imgui.ItemRectMin()
	in.MouseX = mouse.X - origin.X
	in.MouseY = mouse.Y - origin.Y
	in.Clicked = imgui.IsItemClicked()

	if imgui.IsMouseDragging(imgui.MouseButtonLeft) {
		in.DragX = mouse.X - v.lastMouse.X
		in.DragY = mouse.Y - v.lastMouse.Y
	}
	v.lastMouse = mouse
	in.Wheel = imgui.CurrentIO().MouseWheel()
	return in
}
