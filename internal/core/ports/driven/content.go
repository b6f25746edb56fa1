package driven

import "context"

// ContentFetcher downloads a paper's packaged archive and extracts
// usable text from it.
type ContentFetcher interface {
	// FullText extracts the complete article text for indexing,
	// preferring the bundled PDF. Returns domain.ErrNoContent when the
	// archive holds no extractable text; callers skip the paper.
	FullText(ctx context.Context, archivePath string) (string, error)

	// Preview extracts a short content preview for newsfeed display:
	// structured-markup abstract first, PDF first pages as fallback,
	// capped at maxChars. Extraction and parse failures degrade to
	// typed placeholder strings rather than errors.
	Preview(ctx context.Context, archivePath string, maxChars int) string
}
