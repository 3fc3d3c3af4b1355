package config

import (
	"flag"
	"fmt"

	"github.com/Faultbox/glforest/internal/forest"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagAssets     = flag.String("assets", "", "Directory holding the model files")
	flagSeed       = flag.Uint64("seed", 0, "Layout seed (0 keeps the configured seed)")
	flagDensity    = flag.Float64("density", 0, "Grid density multiplier")
	flagForestSize = flag.Float64("forest-size", 0, "Grid size multiplier")
	flagMode       = flag.String("mode", "", "Placement mode: grid or scatter")
	flagOut        = flag.String("out", "", "Output image path")
	flagFormat     = flag.String("format", "", "Output image format: png or webp")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
		cfg.Output.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
		cfg.Output.Height = *flagHeight
	}
	if *flagAssets != "" {
		cfg.Assets.Dir = *flagAssets
	}
	if *flagSeed != 0 {
		cfg.Forest.Seed = *flagSeed
	}
	if *flagDensity > 0 {
		cfg.Forest.Density = float32(*flagDensity)
	}
	if *flagForestSize > 0 {
		cfg.Forest.ForestSize = float32(*flagForestSize)
	}
	if *flagMode != "" {
		mode, err := forest.ParseMode(*flagMode)
		if err != nil {
			return fmt.Errorf("-mode: %w", err)
		}
		cfg.Forest.Mode = mode
	}
	if *flagOut != "" {
		cfg.Output.Path = *flagOut
	}
	if *flagFormat != "" {
		cfg.Output.Format = *flagFormat
	}
	return nil
}
