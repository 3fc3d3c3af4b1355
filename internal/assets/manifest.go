package assets

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/glforest/internal/forest"
)

// RGBA is a linear color with components in [0, 1].
type RGBA [4]float32

var (
	green = RGBA{0, 1, 0, 1}
	brown = RGBA{0.6, 0.3, 0, 1}
)

// GroundColor paints the plane under the forest.
var GroundColor = RGBA{0, 0.5, 0, 1}

// CategorySpec lists the variant files of one category and the palette its
// parts are painted with. Part i of a model gets Colors[i % len(Colors)].
type CategorySpec struct {
	Colors []RGBA   `yaml:"colors"`
	Files  []string `yaml:"files"`
}

// Manifest maps category names to their variant files.
type Manifest struct {
	Categories map[string]CategorySpec `yaml:"categories"`
}

// DefaultManifest returns the low-poly forest set.
func DefaultManifest() *Manifest {
	return &Manifest{
		Categories: map[string]CategorySpec{
			forest.Tree.String(): {
				Colors: []RGBA{green, green, green, green, brown},
				Files: []string{
					"Low_Poly_Forest_tree01.obj",
					"Low_Poly_Forest_tree02.obj",
					"Low_Poly_Forest_treeBlob01.obj",
					"Low_Poly_Forest_treeBlob02.obj",
				},
			},
			forest.DeadTree.String(): {
				Colors: []RGBA{brown},
				Files: []string{
					"Low_Poly_Forest_tree04.obj",
					"Low_Poly_Forest_tree05.obj",
					"Low_Poly_Forest_tree06.obj",
					"Low_Poly_Forest_tree07.obj",
					"Low_Poly_Forest_treeRoundTop04.obj",
					"Low_Poly_Forest_treeRoundTop06.obj",
				},
			},
			forest.Stump.String(): {
				Colors: []RGBA{brown},
				Files: []string{
					"Low_Poly_Forest_treeBlob04.obj",
					"Low_Poly_Forest_treeTall05.obj",
					"Low_Poly_Forest_treeTall06.obj",
				},
			},
		},
	}
}

// LoadManifest reads a manifest file. An empty path returns the default.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return DefaultManifest(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest decodes and validates manifest YAML.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks category names and that every category with files has
// at least one color.
func (m *Manifest) Validate() error {
	for name, spec := range m.Categories {
		if _, err := forest.ParseCategory(name); err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
		if len(spec.Files) > 0 && len(spec.Colors) == 0 {
			return fmt.Errorf("manifest: category %s has files but no colors", name)
		}
	}
	return nil
}

// Spec returns the entry for c. Names are matched the way ParseCategory
// matches them.
func (m *Manifest) Spec(c forest.Category) (CategorySpec, bool) {
	for name, spec := range m.Categories {
		if parsed, err := forest.ParseCategory(name); err == nil && parsed == c {
			return spec, true
		}
	}
	return CategorySpec{}, false
}
