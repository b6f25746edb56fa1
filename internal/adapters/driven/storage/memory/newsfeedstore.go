package memory

import (
	"context"
	"sync"

	"github.com/medalpine/medrag/internal/core/domain"
	"github.com/medalpine/medrag/internal/core/ports/driven"
)

// Ensure NewsfeedStore implements the interface.
var _ driven.NewsfeedStore = (*NewsfeedStore)(nil)

// NewsfeedStore is an in-memory implementation of driven.NewsfeedStore.
type NewsfeedStore struct {
	mu      sync.RWMutex
	entries map[string]domain.NewsfeedEntry
}

// NewNewsfeedStore creates a new in-memory newsfeed store.
func NewNewsfeedStore() *NewsfeedStore {
	return &NewsfeedStore{
		entries: make(map[string]domain.NewsfeedEntry),
	}
}

// Get returns the cached entry for a specialty.
func (s *NewsfeedStore) Get(_ context.Context, specialty string) (*domain.NewsfeedEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[specialty]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// Put overwrites the entry for a specialty.
func (s *NewsfeedStore) Put(_ context.Context, specialty string, entry domain.NewsfeedEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[specialty] = entry
	return nil
}
