package forest

import (
	gomath "math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/glforest/internal/logger"
	"github.com/Faultbox/glforest/pkg/math"
)

// Catalog describes the variant assets available for placement.
type Catalog interface {
	// VariantCount returns how many variants category c has.
	VariantCount(c Category) int
	// Extents returns the local bounds of one variant.
	Extents(c Category, variant int) Extents
}

// Placement is one generated object instance. It is never modified after
// generation.
type Placement struct {
	Category Category
	Variant  int
	Position math.Vec3
	Rotation float32 // around Y, radians
}

// Snapshot is an immutable layout. Rebuilding produces a new snapshot; the
// old one stays valid for whoever still holds it.
type Snapshot struct {
	Generation   uint64
	Params       Params
	Distribution Distribution

	// Rows mirrors the lattice in grid mode (Rows[i][j] sits at lattice
	// point i on X and j on Z). It is nil in scatter mode.
	Rows [][]Placement

	// Placements lists every placement. In grid mode it is the row-major
	// flattening of Rows and shares their values.
	Placements []Placement

	// PlaneSize is the side of the ground plane under the layout.
	PlaneSize float32
}

// Len returns the number of placements.
func (s *Snapshot) Len() int {
	return len(s.Placements)
}

// Shape returns the lattice dimensions, or (0, 0) outside grid mode.
func (s *Snapshot) Shape() (rows, cols int) {
	if len(s.Rows) == 0 {
		return 0, 0
	}
	return len(s.Rows), len(s.Rows[0])
}

// Generator turns Params into Snapshots.
type Generator struct {
	catalog Catalog
	rng     *rand.Rand
}

// NewGenerator creates a generator over catalog, which must not be nil.
// seed seeds the running source used when Params.Seed is zero; pass 0 to
// seed from the clock.
func NewGenerator(catalog Catalog, seed uint64) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Generator{
		catalog: catalog,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Generate builds a new layout. Parameters that describe nothing (zero,
// negative or non-finite spacing, size, count or extent) yield an empty
// snapshot.
func (g *Generator) Generate(p Params) *Snapshot {
	p = p.Clone()
	snap := &Snapshot{
		Params:       p,
		Distribution: NewDistribution(p.Weights, g.catalog),
	}
	if snap.Distribution.Len() == 0 {
		logger.Debug("no placeable categories, layout is empty")
		return snap
	}

	src := g.source(p.Seed)
	switch p.Mode {
	case ModeScatter:
		g.scatter(snap, src)
	default:
		g.grid(snap, src)
	}
	return snap
}

func (g *Generator) source(seed uint64) Source {
	if seed == 0 {
		return g.rng
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// grid steps the lattice -max..max on X and Z with jitter in [0, step/1.5).
func (g *Generator) grid(snap *Snapshot, src Source) {
	p := snap.Params
	n := p.GridSize()
	if n == 0 {
		logger.Debug("grid parameters describe no lattice",
			zap.Float32("spacing", p.BaseSpacing),
			zap.Float32("density", p.Density),
			zap.Float32("forest_size", p.ForestSize),
		)
		return
	}
	if n*n > MaxPlacements {
		logger.Warn("grid too large, layout is empty",
			zap.Int("per_axis", n),
			zap.Int("limit", MaxPlacements),
		)
		return
	}

	step, max := p.Step(), p.MaxDistance()
	jitter := step / 1.5

	snap.Placements = make([]Placement, 0, n*n)
	for i := 0; i < n; i++ {
		x := -max + float64(i)*step
		for j := 0; j < n; j++ {
			z := -max + float64(j)*step
			c, _ := snap.Distribution.Sample(src)
			px := x + src.Float64()*jitter
			pz := z + src.Float64()*jitter
			snap.Placements = append(snap.Placements, g.place(c, px, pz, src))
		}
	}

	snap.Rows = make([][]Placement, n)
	for i := range snap.Rows {
		snap.Rows[i] = snap.Placements[i*n : (i+1)*n : (i+1)*n]
	}
	snap.PlaneSize = float32((max + float64(p.BaseSpacing)) * PlaneMargin)
}

// scatter drops ScatterCount placements uniformly over
// [-extent, extent) on X and Z.
func (g *Generator) scatter(snap *Snapshot, src Source) {
	p := snap.Params
	extent := float64(p.ScatterExtent)
	if p.ScatterCount <= 0 || !finitePositive(extent) {
		logger.Debug("scatter parameters describe no layout",
			zap.Int("count", p.ScatterCount),
			zap.Float32("extent", p.ScatterExtent),
		)
		return
	}
	if p.ScatterCount > MaxPlacements {
		logger.Warn("scatter too large, layout is empty",
			zap.Int("count", p.ScatterCount),
			zap.Int("limit", MaxPlacements),
		)
		return
	}

	snap.Placements = make([]Placement, 0, p.ScatterCount)
	for i := 0; i < p.ScatterCount; i++ {
		c, _ := snap.Distribution.Sample(src)
		px := -extent + src.Float64()*2*extent
		pz := -extent + src.Float64()*2*extent
		snap.Placements = append(snap.Placements, g.place(c, px, pz, src))
	}
	snap.PlaneSize = float32(extent * PlaneMargin)
}

// fullTurn is 2π rounded to float32, which lands just above 2π.
const fullTurn = float32(2 * gomath.Pi)

// place draws the rotation and variant for a category at (x, 0, z).
func (g *Generator) place(c Category, x, z float64, src Source) Placement {
	rot := float32(src.Float64() * 2 * gomath.Pi)
	if rot >= fullTurn {
		rot = 0
	}
	return Placement{
		Category: c,
		Variant:  src.IntN(g.catalog.VariantCount(c)),
		Position: math.Vec3{X: float32(x), Z: float32(z)},
		Rotation: rot,
	}
}
