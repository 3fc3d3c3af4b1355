package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/glforest/internal/forest"
)

// Preset is the part of the config the viewer can save and restore.
type Preset struct {
	Forest   forest.Params  `yaml:"forest"`
	Lighting LightingConfig `yaml:"lighting"`
}

// Preset returns the current forest and lighting settings.
func (c *Config) Preset() Preset {
	return Preset{
		Forest:   c.Forest.Clone(),
		Lighting: c.Lighting,
	}
}

// Apply copies the preset into c.
func (c *Config) Apply(p Preset) {
	c.Forest = p.Forest.Clone()
	c.Lighting = p.Lighting
}

// SavePreset writes p as YAML.
func SavePreset(path string, p Preset) error {
	return writeYAML(path, p)
}

// LoadPreset reads a preset. Missing keys keep the defaults.
func LoadPreset(path string) (Preset, error) {
	def := Default()
	p := def.Preset()

	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("parsing preset %s: %w", path, err)
	}
	return p, nil
}
