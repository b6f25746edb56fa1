package driven

import "context"

// WebResult is a single supplementary web search hit.
type WebResult struct {
	Title   string
	Link    string
	Snippet string
}

// WebSearcher runs a supplementary web search when cached retrieval is
// insufficient for a triggered query.
type WebSearcher interface {
	// Search returns up to max results for the constructed query.
	Search(ctx context.Context, query string, max int) ([]WebResult, error)
}
