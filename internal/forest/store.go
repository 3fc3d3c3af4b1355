package forest

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/glforest/internal/logger"
)

// Store holds the published layout. Rebuild generates a complete snapshot
// before swapping it in, so a reader sees either the old layout or the new
// one and never a partial rebuild.
type Store struct {
	gen        *Generator
	current    atomic.Pointer[Snapshot]
	generation atomic.Uint64
}

// NewStore creates a store that starts with an empty snapshot.
func NewStore(gen *Generator) *Store {
	s := &Store{gen: gen}
	s.current.Store(&Snapshot{})
	return s
}

// Current returns the published snapshot. It is never nil.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Rebuild discards the current layout and publishes a new one built from p.
func (s *Store) Rebuild(p Params) *Snapshot {
	snap := s.gen.Generate(p)
	snap.Generation = s.generation.Add(1)
	s.current.Store(snap)

	rows, cols := snap.Shape()
	logger.Debug("forest rebuilt",
		zap.Uint64("generation", snap.Generation),
		zap.Stringer("mode", snap.Params.Mode),
		zap.Int("placements", snap.Len()),
		zap.Int("rows", rows),
		zap.Int("cols", cols),
	)
	return snap
}
