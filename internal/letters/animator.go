package letters

import (
	"fmt"
	gomath "math"
	"math/rand/v2"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/Faultbox/glforest/pkg/math"
)

// Options configures an Animator.
type Options struct {
	// Periods is the duration of one leg per letter. Letters beyond the end
	// of the list reuse the last period.
	Periods []time.Duration
	// LetterHeight is the vertical space reserved for a letter at the
	// bottom of the view.
	LetterHeight float32
	// Offset is the x position of the first letter, Spacing the distance
	// between letters.
	Offset  float32
	Spacing float32
	// Seed picks the letter colors. Zero seeds from the clock.
	Seed uint64
}

// DefaultOptions returns the classic F/L/H timing.
func DefaultOptions() Options {
	return Options{
		Periods:      []time.Duration{2 * time.Second, 4 * time.Second, 6 * time.Second},
		LetterHeight: 150,
		Offset:       100,
		Spacing:      300,
	}
}

// Letter is one animated shape and its current transform.
type Letter struct {
	Shape Shape
	Color [4]float32
	X     float32

	// Current transform, updated by Animator.Update.
	Y        float32
	Rotation float32
	Scale    float32

	period   float32 // seconds
	down     bool
	legTime  float32
	progress float32
	tween    *gween.Tween
}

// Progress returns how far through the current leg the letter is, in [0, 1].
func (l *Letter) Progress() float32 {
	return l.progress
}

// MovingDown reports whether the letter is travelling towards the bottom.
func (l *Letter) MovingDown() bool {
	return l.down
}

// Elapsed returns the time since the current leg started.
func (l *Letter) Elapsed() time.Duration {
	return time.Duration(float64(l.legTime) * float64(time.Second))
}

// Timer formats the leg time the way the on-screen timers show it.
func (l *Letter) Timer() string {
	return fmt.Sprintf("%.1fs", l.Elapsed().Seconds())
}

// Matrix composes proj * translate * rotate * scale for the letter.
func (l *Letter) Matrix(proj math.Mat3) math.Mat3 {
	return proj.
		Translate(l.X, l.Y).
		Rotate(l.Rotation).
		Scale(l.Scale, l.Scale)
}

func (l *Letter) startLeg() {
	l.legTime = 0
	l.tween = gween.New(0, 1, l.period, ease.Linear)
}

// apply derives the transform from the leg progress. A leg travels the full
// height and spins one turn; the scale grows to 1.5 halfway and shrinks back.
func (l *Letter) apply(travel float32) {
	p := l.progress
	turn := float32(2 * gomath.Pi)
	if l.down {
		l.Y = travel * p
		l.Rotation = turn * p
	} else {
		l.Y = travel - travel*p
		l.Rotation = -turn * p
	}
	if p <= 0.5 {
		l.Scale = 1 + p
	} else {
		l.Scale = 2 - p
	}
}

// advance moves the letter dt seconds along its bounce. A finished leg
// reverses direction and carries any leftover time into the next one.
func (l *Letter) advance(dt, travel float32) {
	for dt > 0 {
		step := min(dt, l.period-l.legTime)
		dt -= step
		l.legTime += step

		p, finished := l.tween.Update(step)
		l.progress = p
		if finished || l.legTime >= l.period {
			l.down = !l.down
			l.progress = 0
			l.startLeg()
		}
	}
	l.apply(travel)
}

// minPeriod keeps a zero or negative period from stalling the bounce.
const minPeriod = 0.001

// Animator drives a row of bouncing letters. It is idle until Start is
// called, then advances with every Update.
type Animator struct {
	letters []*Letter
	width   float32
	height  float32
	lh      float32
	playing bool
}

// NewAnimator lays out shapes left to right and gives each a random color.
func NewAnimator(shapes []Shape, opts Options) *Animator {
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	a := &Animator{lh: opts.LetterHeight}
	for i, shape := range shapes {
		period := float32(minPeriod)
		if n := len(opts.Periods); n > 0 {
			period = max(float32(opts.Periods[min(i, n-1)].Seconds()), minPeriod)
		}
		l := &Letter{
			Shape:  shape,
			Color:  [4]float32{rng.Float32(), rng.Float32(), rng.Float32(), 1},
			X:      opts.Offset + float32(i)*opts.Spacing,
			Scale:  1,
			period: period,
			down:   true,
		}
		l.startLeg()
		a.letters = append(a.letters, l)
	}
	return a
}

// Letters returns the animated letters in display order.
func (a *Animator) Letters() []*Letter {
	return a.letters
}

// Resize sets the view size in pixels.
func (a *Animator) Resize(width, height float32) {
	a.width, a.height = width, height
}

// Projection returns the pixel-to-clip matrix for the current view size.
func (a *Animator) Projection() math.Mat3 {
	return math.Projection2D(a.width, a.height)
}

// Travel returns the vertical distance a letter covers in one leg.
func (a *Animator) Travel() float32 {
	return max(a.height-a.lh, 0)
}

// Start begins the animation. It reports false if it was already running.
func (a *Animator) Start() bool {
	if a.playing {
		return false
	}
	a.playing = true
	return true
}

// Playing reports whether Start has been called.
func (a *Animator) Playing() bool {
	return a.playing
}

// Update advances every letter by dt. It does nothing before Start.
func (a *Animator) Update(dt time.Duration) {
	if !a.playing || dt <= 0 {
		return
	}
	secs := float32(dt.Seconds())
	travel := a.Travel()
	for _, l := range a.letters {
		l.advance(secs, travel)
	}
}
