// Package demo runs the letter animation in its own SDL window.
package demo

import (
	"fmt"
	"strings"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/glforest/internal/config"
	"github.com/Faultbox/glforest/internal/engine/input"
	"github.com/Faultbox/glforest/internal/engine/renderer"
	"github.com/Faultbox/glforest/internal/engine/window"
	"github.com/Faultbox/glforest/internal/letters"
	"github.com/Faultbox/glforest/internal/logger"
)

const lettersTitle = "Letters"

// titleInterval throttles window title updates.
const titleInterval = 100 * time.Millisecond

// Letters is the letter animation application.
type Letters struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.LettersRenderer
	input    *input.Input
	animator *letters.Animator
	log      *zap.Logger

	viewW, viewH int // drawable size in pixels
	lastTitle    time.Time
}

// NewLetters creates the window, GL resources and animator.
func NewLetters(cfg *config.Config) (*Letters, error) {
	l := &Letters{
		cfg: cfg,
		log: logger.Named("letters"),
	}

	l.log.Info("initializing",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	// Create window (this also creates OpenGL context)
	var err error
	l.window, err = window.New(window.Config{
		Title:      lettersTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    cfg.Graphics.Samples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer AFTER window, since OpenGL context must exist
	if err := renderer.InitGL(); err != nil {
		l.window.Close()
		return nil, err
	}

	shapes := letters.Alphabet()
	l.renderer, err = renderer.NewLettersRenderer(shapes)
	if err != nil {
		l.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	l.input = input.New()
	l.animator = letters.NewAnimator(shapes, cfg.Letters.Options())
	l.resize()

	l.log.Info("ready, press Right to start")
	return l, nil
}

// resize matches the viewport to the drawable and the letter space to the
// window's logical size.
func (l *Letters) resize() {
	w, h := l.window.GetSize()
	l.viewW, l.viewH = l.window.DrawableSize()
	l.animator.Resize(float32(w), float32(h))
}

// Run starts the main loop. It returns when the window is closed or Escape
// is pressed.
func (l *Letters) Run() error {
	l.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	for l.running {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		// 1. Process input
		if l.input.Update() {
			l.running = false
			break
		}

		for _, event := range l.input.Events() {
			switch event.Type {
			case input.EventWindowResize:
				l.resize()
			case input.EventKeyDown:
				l.handleKey(event)
			}
		}

		// 2. Advance
		l.animator.Update(dt)
		if now.Sub(l.lastTitle) >= titleInterval {
			l.window.SetTitle(l.title())
			l.lastTitle = now
		}

		// 3. Render
		renderer.Begin(l.viewW, l.viewH, l.cfg.Graphics.ClearColor)
		l.renderer.Render(l.animator)

		// 4. Present
		l.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			l.log.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (l *Letters) handleKey(event input.Event) {
	switch event.Key {
	case sdl.SCANCODE_ESCAPE:
		l.running = false
	case sdl.SCANCODE_RIGHT:
		if !event.Repeat && l.animator.Start() {
			l.log.Info("animation started")
		}
	}
}

// title lists each letter's elapsed time, or a hint before the start.
func (l *Letters) title() string {
	if !l.animator.Playing() {
		return lettersTitle + " (press Right to start)"
	}
	var b strings.Builder
	b.WriteString(lettersTitle)
	for _, lt := range l.animator.Letters() {
		arrow := "↑"
		if lt.MovingDown() {
			arrow = "↓"
		}
		fmt.Fprintf(&b, "  %s %s %s", lt.Shape.Name, lt.Timer(), arrow)
	}
	return b.String()
}

// Close releases all resources.
func (l *Letters) Close() {
	l.log.Info("closing")

	if l.renderer != nil {
		l.renderer.Destroy()
	}
	if l.window != nil {
		l.window.Close()
	}
}
