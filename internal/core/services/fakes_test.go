package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/medalpine/medrag/internal/core/domain"
	"github.com/medalpine/medrag/internal/core/ports/driven"
)

// fakeGenerator answers normalization prompts with normalizeOut and
// everything else with generateOut.
type fakeGenerator struct {
	normalizeOut string
	generateOut  string
	normalizeErr error
	generateErr  error
	prompts      []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if strings.Contains(prompt, "formal clinical terminology") {
		if g.normalizeErr != nil {
			return "", g.normalizeErr
		}
		return g.normalizeOut, nil
	}
	if g.generateErr != nil {
		return "", g.generateErr
	}
	return g.generateOut, nil
}

func (g *fakeGenerator) ModelName() string          { return "fake" }
func (g *fakeGenerator) Ping(context.Context) error { return nil }
func (g *fakeGenerator) Close() error               { return nil }
func (g *fakeGenerator) lastPrompt() string         { return g.prompts[len(g.prompts)-1] }

// fakeEmbedder returns a constant-size vector and records inputs.
// failOnBatch makes the Nth EmbedBatch call fail.
type fakeEmbedder struct {
	err         error
	inputs      []string
	batchCalls  int
	failOnBatch int
}

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.inputs = append(e.inputs, text)
	return []float32{0.1, 0.2, 0.3}, nil
}

func (e *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.batchCalls++
	if e.failOnBatch > 0 && e.batchCalls == e.failOnBatch {
		return nil, fmt.Errorf("fake: embed batch %d failed", e.batchCalls)
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (e *fakeEmbedder) Dimensions() int            { return 3 }
func (e *fakeEmbedder) ModelName() string          { return "fake" }
func (e *fakeEmbedder) Ping(context.Context) error { return nil }
func (e *fakeEmbedder) Close() error               { return nil }

// fakeVectorStore returns canned matches and records upserts.
type fakeVectorStore struct {
	matches    []domain.VectorMatch
	queryErr   error
	upsertErr  error
	upserts    [][]domain.VectorRecord
	lastFilter *driven.MatchFilter
	lastTopK   int
}

func (v *fakeVectorStore) EnsureIndex(context.Context, int) error { return nil }

func (v *fakeVectorStore) Upsert(_ context.Context, records []domain.VectorRecord) error {
	if v.upsertErr != nil {
		return v.upsertErr
	}
	batch := make([]domain.VectorRecord, len(records))
	copy(batch, records)
	v.upserts = append(v.upserts, batch)
	return nil
}

func (v *fakeVectorStore) Query(_ context.Context, _ []float32, topK int, filter *driven.MatchFilter) ([]domain.VectorMatch, error) {
	v.lastTopK = topK
	v.lastFilter = filter
	if v.queryErr != nil {
		return nil, v.queryErr
	}
	return v.matches, nil
}

func (v *fakeVectorStore) upsertedIDs() []string {
	var ids []string
	for _, batch := range v.upserts {
		for _, rec := range batch {
			ids = append(ids, rec.ID)
		}
	}
	return ids
}

// fakeWebSearcher returns canned results and counts calls.
type fakeWebSearcher struct {
	results []driven.WebResult
	err     error
	calls   int
	queries []string
}

func (w *fakeWebSearcher) Search(_ context.Context, query string, max int) ([]driven.WebResult, error) {
	w.calls++
	w.queries = append(w.queries, query)
	if w.err != nil {
		return nil, w.err
	}
	if len(w.results) > max {
		return w.results[:max], nil
	}
	return w.results, nil
}

// fakeCatalog serves the same ID list on every call and records the
// search windows.
type fakeCatalog struct {
	ids     []string
	err     error
	calls   int
	windows []driven.DateWindow
	maxes   []int
}

func (c *fakeCatalog) SearchIDs(_ context.Context, _ string, max int, window driven.DateWindow) ([]string, error) {
	c.calls++
	c.windows = append(c.windows, window)
	c.maxes = append(c.maxes, max)
	if c.err != nil {
		return nil, c.err
	}
	if len(c.ids) > max {
		return c.ids[:max], nil
	}
	return c.ids, nil
}

// fakeArchive resolves IDs against a fixed paper set.
type fakeArchive struct {
	papers map[string]domain.Paper
	err    error
}

func (a *fakeArchive) Resolve(_ context.Context, pmcids []string) ([]domain.Paper, error) {
	if a.err != nil {
		return nil, a.err
	}
	var out []domain.Paper
	for _, id := range pmcids {
		if p, ok := a.papers[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeContent maps archive paths to full text and previews.
type fakeContent struct {
	texts    map[string]string
	previews map[string]string
}

func (f *fakeContent) FullText(_ context.Context, archivePath string) (string, error) {
	text, ok := f.texts[archivePath]
	if !ok || text == "" {
		return "", fmt.Errorf("fake: %s: %w", archivePath, domain.ErrNoContent)
	}
	return text, nil
}

func (f *fakeContent) Preview(_ context.Context, archivePath string, _ int) string {
	if p, ok := f.previews[archivePath]; ok {
		return p
	}
	return "No abstract available"
}
