package letters

import (
	gomath "math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/glforest/pkg/math"
)

func TestShapes(t *testing.T) {
	tests := []struct {
		shape    Shape
		vertices int
	}{
		{ShapeF, 18},
		{ShapeL, 12},
		{ShapeH, 18},
	}

	for _, tt := range tests {
		t.Run(tt.shape.Name, func(t *testing.T) {
			assert.Equal(t, tt.vertices, tt.shape.VertexCount())
			w, h := tt.shape.Bounds()
			assert.Equal(t, float32(100), w)
			assert.Equal(t, float32(150), h)
		})
	}

	names := []string{}
	for _, s := range Alphabet() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"F", "L", "H"}, names)
}

func newTestAnimator() *Animator {
	opts := DefaultOptions()
	opts.Seed = 1
	a := NewAnimator(Alphabet(), opts)
	a.Resize(800, 650) // travel 500
	return a
}

func TestLayoutAndColors(t *testing.T) {
	a := newTestAnimator()
	letters := a.Letters()
	require.Len(t, letters, 3)

	for i, l := range letters {
		assert.Equal(t, float32(100+300*i), l.X)
		assert.Equal(t, float32(1), l.Scale)
		assert.Equal(t, float32(1), l.Color[3])
		for _, c := range l.Color[:3] {
			assert.GreaterOrEqual(t, c, float32(0))
			assert.Less(t, c, float32(1))
		}
	}

	again := NewAnimator(Alphabet(), Options{Seed: 1, Offset: 100, Spacing: 300})
	assert.Equal(t, letters[0].Color, again.Letters()[0].Color)
}

func TestIdleUntilStarted(t *testing.T) {
	a := newTestAnimator()
	a.Update(time.Second)

	f := a.Letters()[0]
	assert.Zero(t, f.Y)
	assert.Zero(t, f.Progress())
	assert.Equal(t, "0.0s", f.Timer())

	require.True(t, a.Start())
	assert.False(t, a.Start(), "second start is ignored")
	assert.True(t, a.Playing())
}

func TestHalfLeg(t *testing.T) {
	a := newTestAnimator()
	a.Start()
	a.Update(time.Second)

	f := a.Letters()[0] // 2s leg
	assert.InDelta(t, 0.5, f.Progress(), 1e-6)
	assert.InDelta(t, 250, f.Y, 1e-3)
	assert.InDelta(t, 1.5, f.Scale, 1e-6)
	assert.InDelta(t, gomath.Pi, f.Rotation, 1e-5)
	assert.True(t, f.MovingDown())
	assert.Equal(t, "1.0s", f.Timer())

	l := a.Letters()[1] // 4s leg
	assert.InDelta(t, 125, l.Y, 1e-3)
	assert.InDelta(t, 1.25, l.Scale, 1e-6)
}

func TestFinishedLegReverses(t *testing.T) {
	a := newTestAnimator()
	a.Start()
	a.Update(2 * time.Second)

	f := a.Letters()[0]
	assert.False(t, f.MovingDown())
	assert.InDelta(t, 500, f.Y, 1e-3)
	assert.InDelta(t, 1, f.Scale, 1e-6)

	a.Update(500 * time.Millisecond)
	assert.InDelta(t, 0.25, f.Progress(), 1e-5)
	assert.InDelta(t, 375, f.Y, 1e-2)
	assert.InDelta(t, -gomath.Pi/2, f.Rotation, 1e-4)
	assert.Equal(t, "0.5s", f.Timer())
}

func TestLeftoverTimeCarriesOver(t *testing.T) {
	a := newTestAnimator()
	a.Start()
	a.Update(5 * time.Second) // F: down, up, then 1s into the next down leg

	f := a.Letters()[0]
	assert.True(t, f.MovingDown())
	assert.InDelta(t, 0.5, f.Progress(), 1e-4)
	assert.InDelta(t, 250, f.Y, 0.1)
	assert.InDelta(t, time.Second, f.Elapsed(), float64(time.Millisecond))
}

func TestTravelClampsToView(t *testing.T) {
	a := newTestAnimator()
	a.Resize(800, 100)
	assert.Zero(t, a.Travel())

	a.Start()
	a.Update(time.Second)
	assert.Zero(t, a.Letters()[0].Y)
}

func TestMatrix(t *testing.T) {
	a := newTestAnimator()
	proj := a.Projection()

	f := a.Letters()[0]
	origin := f.Matrix(proj).TransformPoint(math.Vec2{})
	assert.InDelta(t, -0.75, origin.X, 1e-6)
	assert.InDelta(t, 1, origin.Y, 1e-6)

	// scale applies before rotation and translation
	f.Scale = 2
	corner := f.Matrix(math.Identity3()).TransformPoint(math.Vec2{X: 10, Y: 0})
	assert.InDelta(t, 120, corner.X, 1e-4)
	assert.InDelta(t, 0, corner.Y, 1e-4)
}

func TestZeroPeriodDoesNotStall(t *testing.T) {
	a := NewAnimator([]Shape{ShapeL}, Options{Periods: []time.Duration{0}, Seed: 3})
	a.Resize(200, 300)
	a.Start()

	done := make(chan struct{})
	go func() {
		a.Update(10 * time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("update did not return")
	}
}
