package driven

import "github.com/medalpine/medrag/internal/core/domain"

// Chunker splits article text into overlapping fixed-size windows,
// each independently embeddable.
type Chunker interface {
	// Chunk splits text into chunks for the given paper. Zero-length
	// input yields zero chunks. Chunk indices are assigned in order
	// from zero, so chunk IDs are deterministic per paper.
	Chunk(pmcid, text string) []domain.Chunk
}
