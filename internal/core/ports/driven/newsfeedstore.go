package driven

import (
	"context"

	"github.com/medalpine/medrag/internal/core/domain"
)

// NewsfeedStore persists the per-specialty cached paper digest.
// Entries are replaced wholesale on refresh, never merged.
type NewsfeedStore interface {
	// Get returns the cached entry for a specialty, or
	// domain.ErrNotFound when none exists.
	Get(ctx context.Context, specialty string) (*domain.NewsfeedEntry, error)

	// Put overwrites the entry for a specialty.
	Put(ctx context.Context, specialty string, entry domain.NewsfeedEntry) error
}
