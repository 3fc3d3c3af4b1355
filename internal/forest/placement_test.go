package forest

import (
	gomath "math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/glforest/pkg/math"
)

// fakeCatalog gives every category a fixed number of unit-cube variants.
type fakeCatalog map[Category]int

func (f fakeCatalog) VariantCount(c Category) int { return f[c] }

func (f fakeCatalog) Extents(Category, int) Extents {
	return Extents{
		Min: math.Vec3{X: -0.5, Y: -0.5, Z: -0.5},
		Max: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
	}
}

var fullCatalog = fakeCatalog{Tree: 4, DeadTree: 6, Stump: 3}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func TestGridShapeAndBounds(t *testing.T) {
	p := DefaultParams()
	p.BaseSpacing = 500
	p.Density = 1
	p.ForestSize = 0.5 // half-width 1000

	snap := NewGenerator(fullCatalog, 3).Generate(p)

	rows, cols := snap.Shape()
	require.Equal(t, 5, rows)
	require.Equal(t, 5, cols)
	require.Equal(t, 25, snap.Len())

	step := float32(500)
	for i, row := range snap.Rows {
		for j, pl := range row {
			jx := pl.Position.X - (-1000 + float32(i)*step)
			jz := pl.Position.Z - (-1000 + float32(j)*step)
			assert.GreaterOrEqual(t, jx, float32(0))
			assert.LessOrEqual(t, jx, step/1.5+1e-3)
			assert.GreaterOrEqual(t, jz, float32(0))
			assert.LessOrEqual(t, jz, step/1.5+1e-3)
			assert.Zero(t, pl.Position.Y)

			assert.GreaterOrEqual(t, float64(pl.Rotation), 0.0)
			assert.Less(t, float64(pl.Rotation), 2*gomath.Pi)

			assert.True(t, pl.Category.Valid())
			assert.GreaterOrEqual(t, pl.Variant, 0)
			assert.Less(t, pl.Variant, fullCatalog[pl.Category])
		}
	}

	assert.InDelta(t, (1000+500)*PlaneMargin, snap.PlaneSize, 1e-3)
}

func TestGridRowsShareFlatPlacements(t *testing.T) {
	snap := NewGenerator(fullCatalog, 9).Generate(DefaultParams())

	rows, cols := snap.Shape()
	require.Equal(t, 9, rows)
	require.Equal(t, rows*cols, snap.Len())
	assert.Equal(t, snap.Rows[1][2], snap.Placements[1*cols+2])
}

func TestGridSize(t *testing.T) {
	tests := []struct {
		name    string
		spacing float32
		density float32
		size    float32
		want    int
	}{
		{"default", 500, 1, 1, 9},
		{"dense", 500, 0.5, 1, 17},
		{"step wider than forest", 5000, 1, 1, 1},
		{"zero spacing", 0, 1, 1, 0},
		{"negative size", 500, 1, -1, 0},
		{"overflow", 1e-6, 1e-6, 1e6, MaxPlacements + 1},
		{"infinite spacing", float32(gomath.Inf(1)), 1, 1, 0},
		{"infinite size", 500, 1, float32(gomath.Inf(1)), 0},
		{"nan density", 500, float32(gomath.NaN()), 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Params{BaseSpacing: tt.spacing, Density: tt.density, ForestSize: tt.size}
			assert.Equal(t, tt.want, p.GridSize())
		})
	}
}

func TestScatterCountAndExtent(t *testing.T) {
	p := DefaultParams()
	p.Mode = ModeScatter
	p.ScatterCount = 100
	p.ScatterExtent = 750

	snap := NewGenerator(fullCatalog, 5).Generate(p)

	require.Equal(t, 100, snap.Len())
	assert.Nil(t, snap.Rows)
	for _, pl := range snap.Placements {
		assert.GreaterOrEqual(t, pl.Position.X, float32(-750))
		assert.LessOrEqual(t, pl.Position.X, float32(750))
		assert.GreaterOrEqual(t, pl.Position.Z, float32(-750))
		assert.LessOrEqual(t, pl.Position.Z, float32(750))
	}
	assert.InDelta(t, 750*PlaneMargin, snap.PlaneSize, 1e-3)
}

func TestInvalidParamsYieldEmpty(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero spacing", func(p *Params) { p.BaseSpacing = 0 }},
		{"negative density", func(p *Params) { p.Density = -1 }},
		{"zero forest size", func(p *Params) { p.ForestSize = 0 }},
		{"zero count", func(p *Params) { p.Mode = ModeScatter; p.ScatterCount = 0 }},
		{"negative extent", func(p *Params) { p.Mode = ModeScatter; p.ScatterExtent = -10 }},
		{"oversized grid", func(p *Params) { p.Density = 1e-6 }},
		{"oversized scatter", func(p *Params) { p.Mode = ModeScatter; p.ScatterCount = MaxPlacements + 1 }},
		{"infinite extent", func(p *Params) { p.Mode = ModeScatter; p.ScatterExtent = float32(gomath.Inf(1)) }},
		{"nan extent", func(p *Params) { p.Mode = ModeScatter; p.ScatterExtent = float32(gomath.NaN()) }},
		{"infinite spacing", func(p *Params) { p.BaseSpacing = float32(gomath.Inf(1)) }},
	}

	gen := NewGenerator(fullCatalog, 11)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)

			snap := gen.Generate(p)
			assert.Zero(t, snap.Len())
			rows, cols := snap.Shape()
			assert.Zero(t, rows)
			assert.Zero(t, cols)
		})
	}
}

func TestEmptyCatalogYieldsEmpty(t *testing.T) {
	snap := NewGenerator(fakeCatalog{}, 1).Generate(DefaultParams())
	assert.Zero(t, snap.Len())
	assert.Zero(t, snap.Distribution.Len())
}

func TestOnlyPlaceableCategoriesAreDrawn(t *testing.T) {
	catalog := fakeCatalog{Stump: 2}
	snap := NewGenerator(catalog, 21).Generate(DefaultParams())

	require.NotZero(t, snap.Len())
	for _, pl := range snap.Placements {
		assert.Equal(t, Stump, pl.Category)
		assert.Less(t, pl.Variant, 2)
	}
}

func TestRegenerateKeepsShape(t *testing.T) {
	gen := NewGenerator(fullCatalog, 13)
	p := DefaultParams()

	first := gen.Generate(p)
	second := gen.Generate(p)

	r1, c1 := first.Shape()
	r2, c2 := second.Shape()
	assert.Equal(t, r1, r2)
	assert.Equal(t, c1, c2)
	assert.Equal(t, first.Len(), second.Len())
	assert.NotEqual(t, first.Placements, second.Placements)
}

func TestSeedReproducesLayout(t *testing.T) {
	p := DefaultParams()
	p.Seed = 42

	a := NewGenerator(fullCatalog, 1).Generate(p)
	b := NewGenerator(fullCatalog, 2).Generate(p)
	assert.Equal(t, a.Placements, b.Placements)

	p.Seed = 43
	c := NewGenerator(fullCatalog, 1).Generate(p)
	assert.NotEqual(t, a.Placements, c.Placements)
}

func TestGenerateDoesNotAliasWeights(t *testing.T) {
	p := DefaultParams()
	snap := NewGenerator(fullCatalog, 1).Generate(p)

	p.Weights[Tree] = 99
	assert.InDelta(t, 0.6, snap.Params.Weights[Tree], 1e-12)
}

func TestStoreSwapsSnapshots(t *testing.T) {
	store := NewStore(NewGenerator(fullCatalog, 17))

	empty := store.Current()
	require.NotNil(t, empty)
	assert.Zero(t, empty.Len())

	first := store.Rebuild(DefaultParams())
	assert.Same(t, first, store.Current())
	assert.Equal(t, uint64(1), first.Generation)

	p := DefaultParams()
	p.Density = 2
	second := store.Rebuild(p)
	assert.Same(t, second, store.Current())
	assert.Equal(t, uint64(2), second.Generation)

	// the old snapshot is untouched by the rebuild
	assert.Equal(t, 81, first.Len())
	assert.Equal(t, 25, second.Len())
}
