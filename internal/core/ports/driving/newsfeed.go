package driving

import (
	"context"

	"github.com/medalpine/medrag/internal/core/domain"
)

// NewsfeedService serves the per-specialty digest of recent papers.
type NewsfeedService interface {
	// Papers returns the cached digest when it is fresher than
	// maxAgeMonths (months are treated as 30 days), otherwise fetches,
	// caches, and returns a new digest.
	Papers(ctx context.Context, niche string, maxAgeMonths int) ([]domain.PaperSummary, error)
}
