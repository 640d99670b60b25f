package live

import (
	"sync"
	"tennis-dashboard/internal/domain"
)

// Store owns the canonical match. Readers only ever get detached copies;
// the engine is the single writer.
type Store struct {
	mu    sync.RWMutex
	match domain.Match
}

func NewStore(initial domain.Match) *Store {
	return &Store{match: initial.Clone()}
}

func NewSeedStore() *Store {
	return NewStore(domain.NewSeedMatch())
}

func (s *Store) Snapshot() domain.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.match.Clone()
}

func (s *Store) update(fn func(m *domain.Match)) domain.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.match)
	return s.match.Clone()
}
