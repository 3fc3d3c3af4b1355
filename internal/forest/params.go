package forest

import (
	"fmt"
	gomath "math"
	"strings"
)

// Mode selects how placements are laid out.
type Mode int

const (
	// ModeGrid steps a jittered square lattice.
	ModeGrid Mode = iota
	// ModeScatter drops a fixed number of objects uniformly over an area.
	ModeScatter
)

// String returns the config name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeGrid:
		return "grid"
	case ModeScatter:
		return "scatter"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts "grid" or "scatter" into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grid", "":
		return ModeGrid, nil
	case "scatter":
		return ModeScatter, nil
	default:
		return 0, fmt.Errorf("unknown layout mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// GridScale converts the forest size slider into the lattice half-width.
const GridScale = 2000

// PlaneMargin scales the ground plane past the outermost placements.
const PlaneMargin = 2.5

// MaxPlacements bounds a single layout. Parameters asking for more produce
// an empty layout instead of exhausting memory.
const MaxPlacements = 250_000

// Params are the user-facing inputs of a layout.
type Params struct {
	Mode          Mode    `yaml:"mode"`
	BaseSpacing   float32 `yaml:"base_spacing"`
	Density       float32 `yaml:"density"`
	ForestSize    float32 `yaml:"forest_size"`
	ScatterCount  int     `yaml:"scatter_count"`
	ScatterExtent float32 `yaml:"scatter_extent"`
	Weights       Weights `yaml:"weights"`
	// Seed makes a layout reproducible. Zero draws from the generator's
	// running source, so every rebuild differs.
	Seed uint64 `yaml:"seed"`
}

// DefaultParams returns the layout the viewer starts with.
func DefaultParams() Params {
	return Params{
		Mode:          ModeGrid,
		BaseSpacing:   500,
		Density:       1,
		ForestSize:    1,
		ScatterCount:  200,
		ScatterExtent: 4000,
		Weights: Weights{
			Tree:     0.6,
			DeadTree: 0.25,
			Stump:    0.15,
		},
	}
}

// Step returns the lattice spacing.
func (p Params) Step() float64 {
	return float64(p.BaseSpacing) * float64(p.Density)
}

// MaxDistance returns the lattice half-width.
func (p Params) MaxDistance() float64 {
	return float64(p.ForestSize) * GridScale
}

// GridSize returns the number of lattice points per axis, or 0 when the
// parameters describe no lattice. Oversized lattices report
// MaxPlacements+1 rather than overflowing.
func (p Params) GridSize() int {
	step, max := p.Step(), p.MaxDistance()
	if !finitePositive(step) || !finitePositive(max) {
		return 0
	}
	n := gomath.Floor(2*max/step+1e-9) + 1
	if n > MaxPlacements {
		return MaxPlacements + 1
	}
	return int(n)
}

// finitePositive rejects zero, negative, NaN and infinite values.
func finitePositive(v float64) bool {
	return v > 0 && !gomath.IsInf(v, 1)
}

// Clone returns a copy of p that shares no maps with it.
func (p Params) Clone() Params {
	p.Weights = p.Weights.Clone()
	return p
}
