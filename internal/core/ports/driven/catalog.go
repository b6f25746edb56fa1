package driven

import (
	"context"
	"time"

	"github.com/medalpine/medrag/internal/core/domain"
)

// DateWindow bounds a catalog search by publication date.
// The zero value means "no date restriction".
type DateWindow struct {
	// From is the older edge (inclusive).
	From time.Time

	// To is the newer edge (inclusive).
	To time.Time
}

// IsZero reports whether the window places no restriction.
func (w DateWindow) IsZero() bool {
	return w.From.IsZero() && w.To.IsZero()
}

// CatalogClient searches the literature catalog for open-access papers.
type CatalogClient interface {
	// SearchIDs returns up to max deduplicated accession IDs for a
	// medical niche, newest first, optionally bounded by a date window.
	// An empty result is not an error; it means the catalog is
	// exhausted for the given window.
	SearchIDs(ctx context.Context, niche string, max int, window DateWindow) ([]string, error)
}

// ArchiveIndex resolves accession IDs to paper metadata, including the
// storage location of each paper's packaged archive.
type ArchiveIndex interface {
	// Resolve returns metadata for the IDs found in the catalog's file
	// list, sorted newest first. IDs with no file-list entry are
	// silently absent from the result.
	Resolve(ctx context.Context, pmcids []string) ([]domain.Paper, error)
}
