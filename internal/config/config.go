// Package config handles loading and saving of the viewer settings.
package config

import (
	"time"

	"github.com/chewxy/math32"

	"github.com/Faultbox/glforest/internal/engine/camera"
	"github.com/Faultbox/glforest/internal/engine/lighting"
	"github.com/Faultbox/glforest/internal/forest"
	"github.com/Faultbox/glforest/internal/letters"
	"github.com/Faultbox/glforest/internal/logger"
	"github.com/Faultbox/glforest/pkg/math"
)

// Config holds all settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Forest   forest.Params  `yaml:"forest"`
	Camera   CameraConfig   `yaml:"camera"`
	Lighting LightingConfig `yaml:"lighting"`
	Letters  LettersConfig  `yaml:"letters"`
	Assets   AssetsConfig   `yaml:"assets"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	Samples    int        `yaml:"samples"` // MSAA samples, 0 disables
	ClearColor [4]float32 `yaml:"clear_color"`
}

// CameraConfig places the orbit camera. Angles are in degrees.
type CameraConfig struct {
	Radius float32 `yaml:"radius"`
	Height float32 `yaml:"height"`
	FOV    float32 `yaml:"fov"`
	Near   float32 `yaml:"near"`
	Far    float32 `yaml:"far"`
}

// LightingConfig holds the directional light.
type LightingConfig struct {
	ReverseDirection [3]float32 `yaml:"reverse_direction"`
	Ambient          float32    `yaml:"ambient"`
	DiffuseScale     float32    `yaml:"diffuse_scale"`
	DiffuseBias      float32    `yaml:"diffuse_bias"`
}

// LettersConfig holds the letter animation settings.
type LettersConfig struct {
	PeriodsMS    []int   `yaml:"periods_ms"`
	LetterHeight float32 `yaml:"letter_height"`
	Offset       float32 `yaml:"offset"`
	Spacing      float32 `yaml:"spacing"`
	Seed         uint64  `yaml:"seed"`
}

// AssetsConfig locates the model files.
type AssetsConfig struct {
	Dir         string `yaml:"dir"`
	Manifest    string `yaml:"manifest"` // empty uses the built-in manifest
	Parallelism int    `yaml:"parallelism"`
}

// OutputConfig drives headless rendering and screenshots.
type OutputConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Supersample int     `yaml:"supersample"`
	Format      string  `yaml:"format"`
	Path        string  `yaml:"path"`
	Seconds     float32 `yaml:"seconds"` // scene time of the shot
	Screenshots string  `yaml:"screenshots"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	light := lighting.Default()
	fileCfg := logger.DefaultFileConfig("")

	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Samples:    4,
			ClearColor: [4]float32{0, 0, 0, 0},
		},
		Forest: forest.DefaultParams(),
		Camera: CameraConfig{
			Radius: 10000,
			Height: 3000,
			FOV:    60,
			Near:   1,
			Far:    1e6,
		},
		Lighting: LightingConfig{
			ReverseDirection: [3]float32{light.ReverseDir.X, light.ReverseDir.Y, light.ReverseDir.Z},
			Ambient:          light.Ambient,
			DiffuseScale:     light.DiffuseScale,
			DiffuseBias:      light.DiffuseBias,
		},
		Letters: LettersConfig{
			PeriodsMS:    []int{2000, 4000, 6000},
			LetterHeight: 150,
			Offset:       100,
			Spacing:      300,
		},
		Assets: AssetsConfig{
			Dir:         "assets",
			Parallelism: 4,
		},
		Output: OutputConfig{
			Width:       1280,
			Height:      720,
			Supersample: 2,
			Format:      "png",
			Path:        "forest.png",
			Screenshots: "screenshots",
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  fileCfg.MaxSizeMB,
			MaxBackups: fileCfg.MaxBackups,
			MaxAgeDays: fileCfg.MaxAgeDays,
			Compress:   fileCfg.Compress,
		},
	}
}

// NewCamera builds the orbit camera described by c.
func (c CameraConfig) NewCamera() *camera.OrbitCamera {
	cam := camera.NewForestCamera(c.Radius, c.Height)
	if c.FOV > 0 {
		cam.FOV = c.FOV * math32.Pi / 180
	}
	if c.Near > 0 {
		cam.Near = c.Near
	}
	if c.Far > cam.Near {
		cam.Far = c.Far
	}
	return cam
}

// Directional returns the light described by l. A zero direction falls
// back to the default light direction.
func (l LightingConfig) Directional() lighting.Directional {
	d := lighting.Default()
	dir := math.Vec3{X: l.ReverseDirection[0], Y: l.ReverseDirection[1], Z: l.ReverseDirection[2]}
	if dir.Length() > 0 {
		d.ReverseDir = dir.Normalize()
	}
	d.Ambient = l.Ambient
	d.DiffuseScale = l.DiffuseScale
	d.DiffuseBias = l.DiffuseBias
	return d
}

// Options converts l to animator options.
func (l LettersConfig) Options() letters.Options {
	opts := letters.DefaultOptions()
	if len(l.PeriodsMS) > 0 {
		opts.Periods = make([]time.Duration, len(l.PeriodsMS))
		for i, ms := range l.PeriodsMS {
			opts.Periods[i] = time.Duration(ms) * time.Millisecond
		}
	}
	if l.LetterHeight > 0 {
		opts.LetterHeight = l.LetterHeight
	}
	opts.Offset = l.Offset
	if l.Spacing > 0 {
		opts.Spacing = l.Spacing
	}
	opts.Seed = l.Seed
	return opts
}

// FileConfig returns the rotating log file settings.
func (l LoggingConfig) FileConfig() logger.FileConfig {
	return logger.FileConfig{
		Path:       l.LogFile,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}
}
