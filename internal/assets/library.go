package assets

import (
	"github.com/Faultbox/glforest/internal/forest"
	"github.com/Faultbox/glforest/pkg/obj"
)

// Part is one colored geometry of a variant.
type Part struct {
	Geometry *obj.Geometry
	Color    RGBA
}

// Variant is a loaded model of one category. It is not modified after
// loading.
type Variant struct {
	Category forest.Category
	Index    int
	Name     string
	Parts    []Part
	Extents  forest.Extents
}

// NewVariant paints the geometries of model with palette and computes the
// model's extents.
func NewVariant(c forest.Category, index int, name string, model *obj.Model, palette []RGBA) *Variant {
	v := &Variant{
		Category: c,
		Index:    index,
		Name:     name,
	}
	for i := range model.Geometries {
		part := Part{Geometry: &model.Geometries[i]}
		if len(palette) > 0 {
			part.Color = palette[i%len(palette)]
		}
		v.Parts = append(v.Parts, part)
	}
	if lo, hi, ok := model.Extents(); ok {
		v.Extents = forest.Extents{Min: lo, Max: hi}
	}
	return v
}

// VertexCount returns the number of vertices over all parts.
func (v *Variant) VertexCount() int {
	n := 0
	for _, p := range v.Parts {
		n += p.Geometry.VertexCount()
	}
	return n
}

// Library holds the loaded variants of every category. It implements
// forest.Catalog.
type Library struct {
	variants [][]*Variant // indexed by category
}

// NewLibrary groups variants by category. Each category keeps the order of
// its Index values.
func NewLibrary(variants []*Variant) *Library {
	lib := &Library{variants: make([][]*Variant, len(forest.Categories))}
	for _, v := range variants {
		if !v.Category.Valid() {
			continue
		}
		list := lib.variants[v.Category]
		for len(list) <= v.Index {
			list = append(list, nil)
		}
		list[v.Index] = v
		lib.variants[v.Category] = list
	}

	// drop holes left by sparse indices
	for c, list := range lib.variants {
		kept := list[:0]
		for _, v := range list {
			if v != nil {
				v.Index = len(kept)
				kept = append(kept, v)
			}
		}
		lib.variants[c] = kept
	}
	return lib
}

// VariantCount returns the number of variants of c.
func (l *Library) VariantCount(c forest.Category) int {
	if !c.Valid() {
		return 0
	}
	return len(l.variants[c])
}

// Variant returns one variant, or nil if it does not exist.
func (l *Library) Variant(c forest.Category, index int) *Variant {
	if index < 0 || index >= l.VariantCount(c) {
		return nil
	}
	return l.variants[c][index]
}

// Extents returns the local bounds of a variant. Unknown variants have
// zero extents.
func (l *Library) Extents(c forest.Category, index int) forest.Extents {
	if v := l.Variant(c, index); v != nil {
		return v.Extents
	}
	return forest.Extents{}
}

// All returns every variant in canonical category order.
func (l *Library) All() []*Variant {
	var out []*Variant
	for _, list := range l.variants {
		out = append(out, list...)
	}
	return out
}

// Len returns the total number of variants.
func (l *Library) Len() int {
	n := 0
	for _, list := range l.variants {
		n += len(list)
	}
	return n
}
