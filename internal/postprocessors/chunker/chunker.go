// Package chunker provides a fixed-size text chunking processor.
package chunker

import (
	"github.com/medalpine/medrag/internal/core/domain"
	"github.com/medalpine/medrag/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// Processor splits article text into fixed-size overlapping chunks.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Chunk splits text into windows of chunkSize characters, each starting
// (chunkSize - overlap) after the previous. Indices run from zero in
// text order, so chunk IDs are deterministic for a given paper.
func (p *Processor) Chunk(pmcid, text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	contentLen := len(text)
	step := p.chunkSize - p.overlap

	chunks := make([]domain.Chunk, 0, contentLen/step+1)
	index := 0

	for start := 0; start < contentLen; start += step {
		end := start + p.chunkSize
		if end > contentLen {
			end = contentLen
		}

		chunks = append(chunks, domain.Chunk{
			PMCID: pmcid,
			Index: index,
			Text:  text[start:end],
		})
		index++
	}

	return chunks
}
