// Package assets loads the variant models placed by the forest generator.
package assets

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Faultbox/glforest/internal/forest"
	"github.com/Faultbox/glforest/internal/logger"
	"github.com/Faultbox/glforest/pkg/obj"
)

// Manager loads model files relative to a base directory.
type Manager struct {
	dir         string
	parallelism int
	cache       *Cache
	loads       singleflight.Group
}

// NewManager creates a manager rooted at dir.
func NewManager(dir string) *Manager {
	return &Manager{
		dir:         dir,
		parallelism: runtime.NumCPU(),
		cache:       NewCache(),
	}
}

// SetParallelism bounds the number of files decoded at once. Values below
// one mean one.
func (m *Manager) SetParallelism(n int) {
	m.parallelism = max(n, 1)
}

// Dir returns the base directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Cache returns the decoded model cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Model decodes one file, relative to the base directory unless absolute.
func (m *Manager) Model(name string) (*obj.Model, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(m.dir, name)
	}

	if model, ok := m.cache.Get(path); ok {
		return model, nil
	}

	// concurrent requests for one path share a single decode
	v, err, _ := m.loads.Do(path, func() (any, error) {
		if model, ok := m.cache.lookup(path); ok {
			return model, nil
		}
		model, err := obj.Load(path)
		if err != nil {
			return nil, err
		}
		for _, w := range model.Warnings {
			logger.Debug("model warning", zap.String("file", name), zap.String("warning", w))
		}
		m.cache.Set(path, model)
		return model, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*obj.Model), nil
}

// Load decodes every file in the manifest in parallel and builds the
// library. The first failure cancels the remaining loads and is returned.
func (m *Manager) Load(ctx context.Context, manifest *Manifest) (*Library, error) {
	type job struct {
		category forest.Category
		index    int
		file     string
		palette  []RGBA
	}

	var jobs []job
	for _, c := range forest.Categories {
		spec, ok := manifest.Spec(c)
		if !ok {
			continue
		}
		for i, file := range spec.Files {
			jobs = append(jobs, job{category: c, index: i, file: file, palette: spec.Colors})
		}
	}

	start := time.Now()
	variants := make([]*Variant, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(m.parallelism, 1))
	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			model, err := m.Model(j.file)
			if err != nil {
				return fmt.Errorf("loading %s variant %d: %w", j.category, j.index, err)
			}
			variants[i] = NewVariant(j.category, j.index, j.file, model, j.palette)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lib := NewLibrary(variants)
	hits, misses := m.cache.Stats()
	logger.Info("assets loaded",
		zap.Int("variants", lib.Len()),
		zap.Int("tree", lib.VariantCount(forest.Tree)),
		zap.Int("dead_tree", lib.VariantCount(forest.DeadTree)),
		zap.Int("stump", lib.VariantCount(forest.Stump)),
		zap.Int("cache_hits", hits),
		zap.Int("cache_misses", misses),
		zap.Duration("took", time.Since(start)),
	)
	return lib, nil
}

// Cache keeps decoded models by path so a file shared between categories is
// parsed once.
type Cache struct {
	data map[string]*obj.Model
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*obj.Model),
	}
}

// Get retrieves a model from the cache.
func (c *Cache) Get(key string) (*obj.Model, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	model, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return model, ok
}

// lookup is Get without touching the statistics.
func (c *Cache) lookup(key string) (*obj.Model, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	model, ok := c.data[key]
	return model, ok
}

// Set stores a model in the cache.
func (c *Cache) Set(key string, model *obj.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = model
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
