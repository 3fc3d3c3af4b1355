// Package main runs the interactive procedural forest viewer.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/glforest/internal/config"
	"github.com/Faultbox/glforest/internal/demo"
	"github.com/Faultbox/glforest/internal/logger"
)

func main() {
	runtime.LockOSThread()

	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, cfgPath, err := config.LoadWithPath()
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

	logger.Info("=== Forest ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	lib, err := demo.LoadLibrary(context.Background(), cfg.Assets)
	if err != nil {
		logger.Fatal("failed to load assets", zap.Error(err))
	}

	app, err := demo.NewForest(cfg, cfgPath, lib)
	if err != nil {
		logger.Fatal("failed to create viewer", zap.Error(err))
	}
	defer app.Close()

	app.Run()

	logger.Info("viewer closed normally")
}
