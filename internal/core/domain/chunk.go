package domain

import (
	"fmt"
	"strings"
)

// MaxStoredChunkText bounds the chunk text persisted in vector metadata.
const MaxStoredChunkText = 1000

// Chunk is a fixed-size overlapping window of a paper's text, the unit
// of embedding and retrieval.
type Chunk struct {
	// PMCID identifies the parent paper.
	PMCID string

	// Index is the zero-based position of this chunk within its paper.
	Index int

	// Text is the chunk content, including any specialty prefix applied
	// before embedding.
	Text string
}

// ID returns the globally unique chunk identifier "{pmcid}_{index}".
// It is deterministic given the same paper ID and chunk ordering.
func (c Chunk) ID() string {
	return fmt.Sprintf("%s_%d", c.PMCID, c.Index)
}

// StoredText returns the chunk text truncated to the persisted bound.
func (c Chunk) StoredText() string {
	if len(c.Text) > MaxStoredChunkText {
		return c.Text[:MaxStoredChunkText]
	}
	return c.Text
}

// VectorRecord is the persisted form of an embedded chunk.
type VectorRecord struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata VectorMetadata `json:"metadata"`
}

// VectorMetadata carries the parent paper's fields alongside each vector.
// LastUpdated is epoch seconds so the store can run range filters on it.
type VectorMetadata struct {
	PMCID       string `json:"pmcid"`
	Title       string `json:"title"`
	Specialty   string `json:"specialty"`
	ChunkID     int    `json:"chunk_id"`
	Text        string `json:"text"`
	LastUpdated int64  `json:"last_updated"`
}

// VectorMatch is a similarity hit returned by the vector store.
// Metadata is a loose map: stores round-trip JSON and a malformed match
// must be skippable without failing the whole retrieval.
type VectorMatch struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

// MetaString extracts a string metadata field with a fallback default.
func (m VectorMatch) MetaString(key, fallback string) string {
	v, ok := m.Metadata[key]
	if !ok {
		return fallback
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// MetaEpoch extracts the last_updated epoch-seconds field.
// Returns 0 and false when the field is missing or not numeric.
func (m VectorMatch) MetaEpoch(key string) (int64, bool) {
	v, ok := m.Metadata[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}
