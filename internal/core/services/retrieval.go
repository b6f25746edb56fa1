package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/medalpine/medrag/internal/core/domain"
	"github.com/medalpine/medrag/internal/core/ports/driven"
	"github.com/medalpine/medrag/internal/logger"
)

// relevanceFloor is the minimum number of relevant context blocks
// below which a triggered query falls back to web search.
const relevanceFloor = 3

// relevanceTerms marks a context block relevant regardless of query
// token overlap.
var relevanceTerms = []string{"treatment", "therapy", "drug", "medication", "management"}

// Metadata fallbacks applied while decoding vector matches.
const (
	unknownPMCID = "Unknown"
	unknownTitle = "Unknown Title"
	noChunkText  = "No content"
)

// RetrievalConfig holds the retrieval engine tunables.
type RetrievalConfig struct {
	// TriggerKeyword enables the web fallback when present in the
	// normalized query.
	TriggerKeyword string

	// WebMaxResults caps supplementary web search hits.
	WebMaxResults int
}

// RetrieveOptions configures a single retrieval.
type RetrieveOptions struct {
	// TopK is the number of vector matches requested.
	TopK int

	// Specialties restricts matches by metadata. The restriction is
	// skipped when empty or containing the general sentinel.
	Specialties []string

	// WebFallback allows the supplementary web search for triggered
	// queries with too few relevant contexts.
	WebFallback bool

	// DedupeByPaper collapses citations by paper ID instead of by the
	// full citation string.
	DedupeByPaper bool
}

// RetrievedContext is the assembled evidence for one generation call.
type RetrievedContext struct {
	// Text is the joined context blocks fed to the generator.
	Text string

	// Sources lists citations in order: vector citations before web
	// URLs. Holds the general-knowledge sentinel when empty.
	Sources []string

	// NormalizedQuery is the clinically normalized form of the input.
	NormalizedQuery string
}

// RetrievalService turns a question into grounded context: normalize,
// embed, similarity-search, and optionally supplement from the web.
type RetrievalService struct {
	generator driven.Generator
	embedder  driven.EmbeddingService
	vectors   driven.VectorStore
	web       driven.WebSearcher
	cfg       RetrievalConfig
}

// NewRetrievalService creates a retrieval service. The web searcher is
// optional; without it triggered queries simply skip the fallback.
func NewRetrievalService(
	generator driven.Generator,
	embedder driven.EmbeddingService,
	vectors driven.VectorStore,
	web driven.WebSearcher,
	cfg RetrievalConfig,
) *RetrievalService {
	if cfg.TriggerKeyword == "" {
		cfg.TriggerKeyword = "alzheimer"
	}
	if cfg.WebMaxResults == 0 {
		cfg.WebMaxResults = 5
	}
	return &RetrievalService{
		generator: generator,
		embedder:  embedder,
		vectors:   vectors,
		web:       web,
		cfg:       cfg,
	}
}

// contextBlock is one decoded piece of evidence.
type contextBlock struct {
	text   string
	source string
	pmcid  string
}

// Retrieve assembles the evidence for a query.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, opts RetrieveOptions) (*RetrievedContext, error) {
	normalized := s.normalize(ctx, query)

	vec, err := s.embedder.Embed(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("services: embed query: %w", err)
	}

	var filter *driven.MatchFilter
	if domain.FilterSpecialties(opts.Specialties) {
		filter = &driven.MatchFilter{Specialties: opts.Specialties}
	}

	matches, err := s.vectors.Query(ctx, vec, opts.TopK, filter)
	if err != nil {
		return nil, fmt.Errorf("services: vector query: %w", err)
	}

	blocks := decodeMatches(matches)

	relevant := countRelevant(blocks, normalized)
	if opts.WebFallback && relevant < relevanceFloor && s.triggered(normalized) {
		blocks = append(blocks, s.webBlocks(ctx, normalized)...)
	}

	return assembleContext(blocks, normalized, opts.DedupeByPaper), nil
}

// normalize converts the query to clinical terminology. Normalization
// failure is degraded, not fatal: the raw query is used instead.
func (s *RetrievalService) normalize(ctx context.Context, query string) string {
	out, err := s.generator.Generate(ctx, normalizePrompt(query), driven.GenerateOptions{
		MaxTokens:   120,
		Temperature: 0.1,
	})
	if err != nil {
		logger.Warn("query normalization failed, using raw query", "error", err)
		return query
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return query
	}
	return out
}

// triggered reports whether the normalized query enables the fallback.
func (s *RetrievalService) triggered(normalized string) bool {
	return strings.Contains(strings.ToLower(normalized), s.cfg.TriggerKeyword)
}

// decodeMatches converts raw vector matches to context blocks. A
// malformed match degrades to fallback fields; it never fails the
// whole retrieval.
func decodeMatches(matches []domain.VectorMatch) []contextBlock {
	blocks := make([]contextBlock, 0, len(matches))
	for _, m := range matches {
		pmcid := m.MetaString("pmcid", unknownPMCID)
		title := m.MetaString("title", unknownTitle)
		text := m.MetaString("text", noChunkText)
		blocks = append(blocks, contextBlock{
			text:   text,
			source: fmt.Sprintf("%s - %s", pmcid, title),
			pmcid:  pmcid,
		})
	}
	return blocks
}

// webBlocks runs the supplementary search and renders hits as context
// blocks. Search failures degrade to no blocks.
func (s *RetrievalService) webBlocks(ctx context.Context, normalized string) []contextBlock {
	if s.web == nil {
		return nil
	}

	results, err := s.web.Search(ctx, buildWebQuery(normalized), s.cfg.WebMaxResults)
	if err != nil {
		logger.Warn("web search fallback failed", "error", err)
		return nil
	}

	blocks := make([]contextBlock, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, contextBlock{
			text:   fmt.Sprintf("Source: Web Search Result (URL: %s)\n%s\n%s", r.Link, r.Title, r.Snippet),
			source: r.Link,
		})
	}
	logger.Debug("web search fallback", "results", len(blocks))
	return blocks
}

// countRelevant counts blocks containing a query token or a treatment
// vocabulary term.
func countRelevant(blocks []contextBlock, normalized string) int {
	tokens := queryTokens(normalized)
	count := 0
	for _, b := range blocks {
		if isRelevant(b.text, tokens) {
			count++
		}
	}
	return count
}

// queryTokens keeps the discriminating words of the normalized query.
func queryTokens(normalized string) []string {
	fields := strings.Fields(strings.ToLower(normalized))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:?!()")
		if len(f) >= 4 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func isRelevant(text string, tokens []string) bool {
	lower := strings.ToLower(text)
	for _, t := range tokens {
		if strings.Contains(lower, t) {
			return true
		}
	}
	for _, t := range relevanceTerms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// assembleContext joins blocks and deduplicates sources in order.
func assembleContext(blocks []contextBlock, normalized string, dedupeByPaper bool) *RetrievedContext {
	texts := make([]string, 0, len(blocks))
	sources := make([]string, 0, len(blocks))
	seen := make(map[string]struct{}, len(blocks))

	for _, b := range blocks {
		texts = append(texts, b.text)

		key := b.source
		if dedupeByPaper && b.pmcid != "" {
			key = b.pmcid
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		sources = append(sources, b.source)
	}

	if len(sources) == 0 {
		sources = []string{domain.GeneralKnowledgeSource}
	}

	return &RetrievedContext{
		Text:            strings.Join(texts, contextSeparator),
		Sources:         sources,
		NormalizedQuery: normalized,
	}
}
