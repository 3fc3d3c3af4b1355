// Package main renders a forest layout to an image without a window.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/glforest/internal/config"
	"github.com/Faultbox/glforest/internal/demo"
	"github.com/Faultbox/glforest/internal/engine/debug"
	"github.com/Faultbox/glforest/internal/logger"
	"github.com/Faultbox/glforest/internal/raster"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.InitWithFileConfig(cfg.Logging.Level, cfg.Logging.FileConfig(), true); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("forestshot failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	out := cfg.Output

	format, err := debug.ParseFormat(out.Format)
	if err != nil {
		return err
	}
	// an explicit extension wins over the configured format
	if filepath.Ext(out.Path) != "" {
		if format, err = debug.FormatFromPath(out.Path); err != nil {
			return err
		}
	}

	lib, err := demo.LoadLibrary(context.Background(), cfg.Assets)
	if err != nil {
		return err
	}
	store := demo.NewStore(lib, cfg.Forest)

	start := time.Now()
	img, stats := raster.RenderForest(raster.Scene{
		Snapshot:   store.Current(),
		Library:    lib,
		Camera:     cfg.Camera.NewCamera(),
		Light:      cfg.Lighting.Directional(),
		Seconds:    out.Seconds,
		Background: cfg.Graphics.ClearColor,
	}, raster.Options{
		Width:       out.Width,
		Height:      out.Height,
		Supersample: out.Supersample,
	})

	if err := debug.SaveImage(out.Path, img, format); err != nil {
		return fmt.Errorf("saving %s: %w", out.Path, err)
	}

	logger.Info("forest rendered",
		zap.String("path", out.Path),
		zap.String("format", string(format)),
		zap.Int("instances", stats.Instances),
		zap.Int("triangles", stats.Triangles),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
