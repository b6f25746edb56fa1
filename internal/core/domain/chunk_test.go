package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkID_Deterministic(t *testing.T) {
	c := Chunk{PMCID: "PMC123", Index: 4}
	assert.Equal(t, "PMC123_4", c.ID())
	assert.Equal(t, c.ID(), c.ID())
}

func TestChunkID_UniquePerIndex(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		id := Chunk{PMCID: "PMC999", Index: i}.ID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate chunk id %s", id)
		seen[id] = struct{}{}
	}
}

func TestStoredText_Truncation(t *testing.T) {
	long := strings.Repeat("a", MaxStoredChunkText+500)
	c := Chunk{Text: long}
	assert.Len(t, c.StoredText(), MaxStoredChunkText)

	short := Chunk{Text: "abstract"}
	assert.Equal(t, "abstract", short.StoredText())
}

func TestVectorMatch_MetaString(t *testing.T) {
	m := VectorMatch{Metadata: map[string]any{
		"title": "Cardiac outcomes",
		"blank": "   ",
		"num":   42,
	}}

	assert.Equal(t, "Cardiac outcomes", m.MetaString("title", "Unknown"))
	assert.Equal(t, "Unknown", m.MetaString("missing", "Unknown"))
	assert.Equal(t, "Unknown", m.MetaString("blank", "Unknown"))
	assert.Equal(t, "Unknown", m.MetaString("num", "Unknown"))
}

func TestVectorMatch_MetaEpoch(t *testing.T) {
	m := VectorMatch{Metadata: map[string]any{
		// JSON decoding yields float64 for numbers.
		"last_updated": float64(1715990400),
		"bad":          "yesterday",
	}}

	epoch, ok := m.MetaEpoch("last_updated")
	require.True(t, ok)
	assert.Equal(t, int64(1715990400), epoch)

	_, ok = m.MetaEpoch("bad")
	assert.False(t, ok)
	_, ok = m.MetaEpoch("missing")
	assert.False(t, ok)
}

func TestFilterSpecialties(t *testing.T) {
	assert.False(t, FilterSpecialties(nil))
	assert.False(t, FilterSpecialties([]string{}))
	assert.False(t, FilterSpecialties([]string{"general"}))
	assert.False(t, FilterSpecialties([]string{"cardiology", "general"}))
	assert.True(t, FilterSpecialties([]string{"cardiology"}))
	assert.True(t, FilterSpecialties([]string{"cardiology", "neurology"}))
}

func TestPaper_LastUpdatedEpoch(t *testing.T) {
	p := Paper{LastUpdated: "1970-01-01 00:00:10"}
	assert.Equal(t, int64(10), p.LastUpdatedEpoch())

	bad := Paper{LastUpdated: "unknown"}
	assert.Equal(t, int64(0), bad.LastUpdatedEpoch())
}
