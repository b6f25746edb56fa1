package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medalpine/medrag/internal/core/domain"
	"github.com/medalpine/medrag/internal/core/ports/driven"
	"github.com/medalpine/medrag/internal/core/ports/driving"
	"github.com/medalpine/medrag/internal/logger"
)

// Ensure NewsfeedService implements the interface.
var _ driving.NewsfeedService = (*NewsfeedService)(nil)

const (
	// newsfeedMaxPapers caps the papers in one digest, newest first.
	newsfeedMaxPapers = 10

	// newsfeedPreviewChars bounds each paper's content preview.
	newsfeedPreviewChars = 1000

	// monthDays treats a month as 30 days for cache freshness.
	monthDays = 30
)

// NewsfeedConfig holds the newsfeed tunables.
type NewsfeedConfig struct {
	// FetchIDs is how many catalog IDs a refresh considers before
	// archive resolution thins them out. Defaults to 100.
	FetchIDs int
}

// NewsfeedService serves the per-specialty digest of recent papers,
// refreshing the cached entry when it goes stale.
type NewsfeedService struct {
	catalog driven.CatalogClient
	archive driven.ArchiveIndex
	content driven.ContentFetcher
	store   driven.NewsfeedStore
	cfg     NewsfeedConfig
	now     func() time.Time
}

// NewNewsfeedService creates a newsfeed service.
func NewNewsfeedService(
	catalog driven.CatalogClient,
	archive driven.ArchiveIndex,
	content driven.ContentFetcher,
	store driven.NewsfeedStore,
	cfg NewsfeedConfig,
) *NewsfeedService {
	if cfg.FetchIDs <= 0 {
		cfg.FetchIDs = 100
	}
	return &NewsfeedService{
		catalog: catalog,
		archive: archive,
		content: content,
		store:   store,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Papers returns the cached digest when fresher than maxAgeMonths,
// otherwise fetches, caches, and returns a new one. A fresh cache hit
// never touches the catalog.
func (s *NewsfeedService) Papers(ctx context.Context, niche string, maxAgeMonths int) ([]domain.PaperSummary, error) {
	if maxAgeMonths <= 0 {
		maxAgeMonths = 6
	}
	cutoff := s.now().AddDate(0, 0, -maxAgeMonths*monthDays)

	entry, err := s.store.Get(ctx, niche)
	switch {
	case err == nil:
		if fetched, ok := domain.ParseArchiveDate(entry.LastFetched); ok && fetched.After(cutoff) {
			logger.Debug("newsfeed cache hit", "niche", niche, "papers", len(entry.Papers))
			return entry.Papers, nil
		}
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("services: read newsfeed cache: %w", err)
	}

	return s.refresh(ctx, niche)
}

// refresh fetches recent papers and overwrites the cached entry.
func (s *NewsfeedService) refresh(ctx context.Context, niche string) ([]domain.PaperSummary, error) {
	ids, err := s.catalog.SearchIDs(ctx, niche, s.cfg.FetchIDs, driven.DateWindow{})
	if err != nil {
		return nil, fmt.Errorf("services: newsfeed catalog search: %w", err)
	}

	papers, err := s.archive.Resolve(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("services: newsfeed metadata: %w", err)
	}
	if len(papers) > newsfeedMaxPapers {
		papers = papers[:newsfeedMaxPapers]
	}

	summaries := make([]domain.PaperSummary, 0, len(papers))
	for _, paper := range papers {
		summaries = append(summaries, domain.PaperSummary{
			PMCID:           paper.PMCID,
			Title:           paper.Title,
			PublicationDate: publicationDate(paper.LastUpdated),
			LastUpdated:     paper.LastUpdated,
			Content:         s.content.Preview(ctx, paper.ArchivePath, newsfeedPreviewChars),
			FullTextURL:     domain.ArticleURL(paper.PMCID),
		})
	}

	entry := domain.NewsfeedEntry{
		Papers:      summaries,
		LastFetched: domain.FormatArchiveDate(s.now()),
	}
	if err := s.store.Put(ctx, niche, entry); err != nil {
		// The digest is already assembled; a failed cache write only
		// costs the next request a refresh.
		logger.Warn("newsfeed cache write failed", "niche", niche, "error", err)
	}

	logger.Info("newsfeed refreshed", "niche", niche, "papers", len(summaries))
	return summaries, nil
}

// publicationDate renders the date part of a catalog timestamp.
func publicationDate(lastUpdated string) string {
	if t, ok := domain.ParseArchiveDate(lastUpdated); ok {
		return t.Format("2006-01-02")
	}
	return lastUpdated
}
