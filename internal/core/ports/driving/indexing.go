package driving

import "context"

// Indexer drives the incremental paper-indexing pipeline.
type Indexer interface {
	// IndexPapers indexes up to target new papers for a specialty and
	// returns the number actually indexed. Fewer than requested is not
	// an error; it means the catalog was exhausted.
	IndexPapers(ctx context.Context, niche string, target int) (int, error)
}
