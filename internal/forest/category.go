// Package forest generates procedural forest layouts: which object goes
// where, and how each placed object is transformed into the scene every frame.
package forest

import (
	"fmt"
	"strings"
)

// Category is a class of procedurally placed object.
type Category int

const (
	Tree Category = iota
	DeadTree
	Stump
)

// Categories lists every category in canonical order. Distributions and
// manifests are always walked in this order.
var Categories = []Category{Tree, DeadTree, Stump}

var categoryNames = [...]string{
	Tree:     "tree",
	DeadTree: "dead_tree",
	Stump:    "stump",
}

// String returns the config/manifest name of the category.
func (c Category) String() string {
	if c.Valid() {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c >= 0 && int(c) < len(categoryNames)
}

// ParseCategory converts a name such as "dead_tree" into a Category.
// Dashes and case are ignored.
func ParseCategory(name string) (Category, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for i, n := range categoryNames {
		if n == norm {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Weights maps each category to its raw, unnormalized selection weight.
type Weights map[Category]float64

// ParseWeights converts name-keyed weights (as found in config files) into
// Weights. Unknown names are an error.
func ParseWeights(raw map[string]float64) (Weights, error) {
	w := make(Weights, len(raw))
	for name, v := range raw {
		c, err := ParseCategory(name)
		if err != nil {
			return nil, err
		}
		w[c] = v
	}
	return w, nil
}

// Names returns the weights keyed by category name.
func (w Weights) Names() map[string]float64 {
	out := make(map[string]float64, len(w))
	for c, v := range w {
		out[c.String()] = v
	}
	return out
}

// Clone returns a copy of w.
func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	for c, v := range w {
		out[c] = v
	}
	return out
}
