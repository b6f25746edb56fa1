// Package memory provides in-process implementations of the persistent
// store ports. They back tests and local development runs; indexing
// state does not persist between processes.
package memory

import (
	"context"
	"sync"

	"github.com/medalpine/medrag/internal/core/ports/driven"
)

// Ensure RegistryStore implements the interface.
var _ driven.RegistryStore = (*RegistryStore)(nil)

// RegistryStore is an in-memory implementation of driven.RegistryStore.
type RegistryStore struct {
	mu      sync.RWMutex
	indexed map[string]map[string]struct{}
}

// NewRegistryStore creates a new in-memory registry store.
func NewRegistryStore() *RegistryStore {
	return &RegistryStore{
		indexed: make(map[string]map[string]struct{}),
	}
}

// Indexed returns the set of IDs already indexed for a specialty.
func (s *RegistryStore) Indexed(_ context.Context, specialty string) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]struct{}, len(s.indexed[specialty]))
	for id := range s.indexed[specialty] {
		out[id] = struct{}{}
	}
	return out, nil
}

// AddIndexed unions ids into the specialty's entry.
func (s *RegistryStore) AddIndexed(_ context.Context, specialty string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.indexed[specialty]
	if !ok {
		set = make(map[string]struct{}, len(ids))
		s.indexed[specialty] = set
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return nil
}
