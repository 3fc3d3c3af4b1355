package forest

import gomath "math"

// Source is the random source used by the sampler and the generator.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// Normalize scales raw weights so they sum to 1. Negative, NaN and infinite
// weights count as zero. If nothing is left, every entry gets the same share.
func Normalize(raw []float64) []float64 {
	out := make([]float64, len(raw))
	if len(raw) == 0 {
		return out
	}

	var sum float64
	for i, w := range raw {
		if w > 0 && !gomath.IsInf(w, 1) {
			out[i] = w
			sum += w
		}
	}

	if sum == 0 {
		share := 1 / float64(len(raw))
		for i := range out {
			out[i] = share
		}
		return out
	}

	for i := range out {
		out[i] /= sum
	}
	return out
}

// SampleIndex draws one index from normalized weights. It walks the
// cumulative sum and returns the first index whose running total exceeds a
// uniform draw in [0, 1). If rounding leaves the total just short of the
// draw, the last index is returned. Empty weights return -1.
func SampleIndex(weights []float64, src Source) int {
	if len(weights) == 0 {
		return -1
	}

	r := src.Float64()
	var sum float64
	for i, w := range weights {
		sum += w
		if r < sum {
			return i
		}
	}
	return len(weights) - 1
}

// Weighted is one entry of a Distribution.
type Weighted struct {
	Category Category
	Weight   float64
}

// Distribution is a normalized probability distribution over categories,
// kept in canonical category order.
type Distribution struct {
	categories []Category
	weights    []float64
}

// NewDistribution normalizes w over the categories the catalog can place.
// Categories without variants are left out so every sampled category has
// something to draw. A nil catalog keeps every category.
func NewDistribution(w Weights, catalog Catalog) Distribution {
	var d Distribution
	raw := make([]float64, 0, len(Categories))
	for _, c := range Categories {
		if catalog != nil && catalog.VariantCount(c) <= 0 {
			continue
		}
		d.categories = append(d.categories, c)
		raw = append(raw, w[c])
	}
	d.weights = Normalize(raw)
	return d
}

// Len returns the number of categories in the distribution.
func (d Distribution) Len() int {
	return len(d.categories)
}

// Entries returns the (category, probability) pairs in canonical order.
func (d Distribution) Entries() []Weighted {
	out := make([]Weighted, len(d.categories))
	for i, c := range d.categories {
		out[i] = Weighted{Category: c, Weight: d.weights[i]}
	}
	return out
}

// Probability returns the normalized weight of c, or 0 if c is absent.
func (d Distribution) Probability(c Category) float64 {
	for i, dc := range d.categories {
		if dc == c {
			return d.weights[i]
		}
	}
	return 0
}

// Sample draws a category. ok is false only for an empty distribution.
func (d Distribution) Sample(src Source) (c Category, ok bool) {
	i := SampleIndex(d.weights, src)
	if i < 0 {
		return 0, false
	}
	return d.categories[i], true
}
