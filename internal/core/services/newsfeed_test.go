package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medalpine/medrag/internal/adapters/driven/storage/memory"
	"github.com/medalpine/medrag/internal/core/domain"
)

type newsfeedFixture struct {
	svc     *NewsfeedService
	catalog *fakeCatalog
	store   *memory.NewsfeedStore
}

func newNewsfeedFixture(papers map[string]domain.Paper, ids []string) *newsfeedFixture {
	previews := make(map[string]string, len(papers))
	for _, p := range papers {
		previews[p.ArchivePath] = "Abstract of " + p.PMCID
	}

	f := &newsfeedFixture{
		catalog: &fakeCatalog{ids: ids},
		store:   memory.NewNewsfeedStore(),
	}
	f.svc = NewNewsfeedService(
		f.catalog,
		&fakeArchive{papers: papers},
		&fakeContent{previews: previews},
		f.store,
		NewsfeedConfig{},
	)
	return f
}

func TestPapers_FreshCacheHitSkipsCatalog(t *testing.T) {
	f := newNewsfeedFixture(testPapers(), []string{"PMC1"})

	cached := domain.NewsfeedEntry{
		Papers:      []domain.PaperSummary{{PMCID: "PMC9", Title: "Cached paper"}},
		LastFetched: domain.FormatArchiveDate(time.Now().AddDate(0, 0, -10)),
	}
	require.NoError(t, f.store.Put(context.Background(), "neurology", cached))

	papers, err := f.svc.Papers(context.Background(), "neurology", 6)
	require.NoError(t, err)

	assert.Equal(t, cached.Papers, papers, "fresh cache returned verbatim")
	assert.Zero(t, f.catalog.calls)
}

func TestPapers_StaleCacheRefreshes(t *testing.T) {
	f := newNewsfeedFixture(testPapers(), []string{"PMC1", "PMC2"})

	stale := domain.NewsfeedEntry{
		Papers:      []domain.PaperSummary{{PMCID: "PMC9"}},
		LastFetched: domain.FormatArchiveDate(time.Now().AddDate(0, 0, -200)),
	}
	require.NoError(t, f.store.Put(context.Background(), "neurology", stale))

	papers, err := f.svc.Papers(context.Background(), "neurology", 6)
	require.NoError(t, err)

	assert.Equal(t, 1, f.catalog.calls)
	require.Len(t, papers, 2)
	assert.Equal(t, "PMC1", papers[0].PMCID)
	assert.Equal(t, "Abstract of PMC1", papers[0].Content)
	assert.Equal(t, "https://www.ncbi.nlm.nih.gov/pmc/articles/PMC1/", papers[0].FullTextURL)
	assert.Equal(t, "2024-06-01", papers[0].PublicationDate)

	// The cache now holds the refreshed digest.
	entry, err := f.store.Get(context.Background(), "neurology")
	require.NoError(t, err)
	assert.Equal(t, papers, entry.Papers)
}

func TestPapers_MissingCacheFetches(t *testing.T) {
	f := newNewsfeedFixture(testPapers(), []string{"PMC3"})

	papers, err := f.svc.Papers(context.Background(), "neurology", 6)
	require.NoError(t, err)

	assert.Equal(t, 1, f.catalog.calls)
	require.Len(t, papers, 1)
	assert.Equal(t, "PMC3", papers[0].PMCID)
}

func TestPapers_CapsAtTenPapers(t *testing.T) {
	papers := make(map[string]domain.Paper, 12)
	ids := make([]string, 0, 12)
	for i := 1; i <= 12; i++ {
		id := fmt.Sprintf("PMC%d", i)
		ids = append(ids, id)
		papers[id] = domain.Paper{
			PMCID:       id,
			ArchivePath: id + ".tar.gz",
			LastUpdated: "2024-01-02 00:00:00",
		}
	}
	f := newNewsfeedFixture(papers, ids)

	got, err := f.svc.Papers(context.Background(), "neurology", 6)
	require.NoError(t, err)
	assert.Len(t, got, 10)
}

func TestPapers_FetchIDsIsConfigurable(t *testing.T) {
	f := newNewsfeedFixture(testPapers(), []string{"PMC1"})
	f.svc.cfg.FetchIDs = 40

	_, err := f.svc.Papers(context.Background(), "neurology", 6)
	require.NoError(t, err)

	require.Len(t, f.catalog.maxes, 1)
	assert.Equal(t, 40, f.catalog.maxes[0])
}

func TestPapers_FetchIDsDefaultsToHundred(t *testing.T) {
	f := newNewsfeedFixture(testPapers(), []string{"PMC1"})

	_, err := f.svc.Papers(context.Background(), "neurology", 6)
	require.NoError(t, err)

	require.Len(t, f.catalog.maxes, 1)
	assert.Equal(t, 100, f.catalog.maxes[0])
}

func TestPapers_CacheWriteFailureStillReturnsDigest(t *testing.T) {
	f := newNewsfeedFixture(testPapers(), []string{"PMC1"})
	f.svc.store = &failingNewsfeedStore{}

	papers, err := f.svc.Papers(context.Background(), "neurology", 6)
	require.NoError(t, err)
	require.Len(t, papers, 1)
}

func TestPapers_CatalogFailureSurfaces(t *testing.T) {
	f := newNewsfeedFixture(testPapers(), nil)
	f.catalog.err = errors.New("catalog down")

	_, err := f.svc.Papers(context.Background(), "neurology", 6)
	require.Error(t, err)
}

// failingNewsfeedStore misses every read and rejects every write.
type failingNewsfeedStore struct{}

func (s *failingNewsfeedStore) Get(context.Context, string) (*domain.NewsfeedEntry, error) {
	return nil, domain.ErrNotFound
}

func (s *failingNewsfeedStore) Put(context.Context, string, domain.NewsfeedEntry) error {
	return errors.New("write rejected")
}
