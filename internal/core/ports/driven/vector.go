package driven

import (
	"context"

	"github.com/medalpine/medrag/internal/core/domain"
)

// MatchFilter restricts a similarity query by chunk metadata.
type MatchFilter struct {
	// Specialties limits matches to chunks tagged with any of these
	// specialties. Empty means no restriction.
	Specialties []string
}

// VectorStore persists embedded chunks and serves similarity queries.
type VectorStore interface {
	// EnsureIndex creates the backing index with the given dimension
	// and cosine metric if it does not already exist.
	EnsureIndex(ctx context.Context, dimensions int) error

	// Upsert writes records to the store. Callers batch records to
	// respect store-side payload limits; a failed call must not undo
	// previously committed batches.
	Upsert(ctx context.Context, records []domain.VectorRecord) error

	// Query returns the topK nearest matches to the vector, optionally
	// filtered by metadata.
	Query(ctx context.Context, vector []float32, topK int, filter *MatchFilter) ([]domain.VectorMatch, error)
}
