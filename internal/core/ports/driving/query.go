package driving

import (
	"context"

	"github.com/medalpine/medrag/internal/core/domain"
)

// QueryService answers clinician questions and analyzes case studies
// using retrieval-augmented generation.
type QueryService interface {
	// Answer responds to a free-text question grounded in retrieved
	// evidence. Returns domain.ErrEmptyQuery for blank input before
	// any external call is made.
	Answer(ctx context.Context, query string) (*domain.Answer, error)

	// AnalyzeCase produces a structured assessment of a case study,
	// optionally restricted to the given specialties. Sources are
	// deduplicated by paper ID; there is no web fallback.
	AnalyzeCase(ctx context.Context, cs domain.CaseStudy, specialties []string) (*domain.Answer, error)
}
