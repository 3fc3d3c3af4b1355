package demo

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/glforest/internal/assets"
	"github.com/Faultbox/glforest/internal/config"
	"github.com/Faultbox/glforest/internal/forest"
	"github.com/Faultbox/glforest/internal/logger"
)

// LoadLibrary reads the manifest and every model it names.
func LoadLibrary(ctx context.Context, cfg config.AssetsConfig) (*assets.Library, error) {
	manifest, err := assets.LoadManifest(cfg.Manifest)
	if err != nil {
		return nil, err
	}

	mgr := assets.NewManager(cfg.Dir)
	mgr.SetParallelism(cfg.Parallelism)
	lib, err := mgr.Load(ctx, manifest)
	if err != nil {
		return nil, fmt.Errorf("loading forest assets from %s: %w", cfg.Dir, err)
	}
	return lib, nil
}

// NewStore builds a store over lib and publishes the first layout.
func NewStore(lib *assets.Library, p forest.Params) *forest.Store {
	store := forest.NewStore(forest.NewGenerator(lib, 0))
	snap := store.Rebuild(p.Clone())

	logger.Info("forest generated",
		zap.Stringer("mode", snap.Params.Mode),
		zap.Int("placements", snap.Len()),
		zap.Float32("plane", snap.PlaneSize),
	)
	return store
}
