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

// Ensure IndexingService implements the interface.
var _ driving.Indexer = (*IndexingService)(nil)

// chunkPrefixFormat tags every chunk with its specialty before
// embedding, so specialty terms influence the vector.
const chunkPrefixFormat = "[Medical Specialty: %s] "

// windowRegressDays is the fallback window regression when a batch
// yields no usable publication dates.
const windowRegressDays = 365

// indexingFloor is the hard lower bound of the sliding date window.
// It guarantees termination even on malformed catalog data.
var indexingFloor = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// IndexingDeps bundles the driven ports of the indexing pipeline.
type IndexingDeps struct {
	Catalog  driven.CatalogClient
	Archive  driven.ArchiveIndex
	Content  driven.ContentFetcher
	Embedder driven.EmbeddingService
	Vectors  driven.VectorStore
	Registry driven.RegistryStore
	Chunker  driven.Chunker
}

// IndexingConfig holds the indexing pipeline tunables.
type IndexingConfig struct {
	// UpsertBatch is the vector-store write sub-batch size.
	UpsertBatch int
}

// IndexingService drives the incremental indexing pipeline: discover
// papers in the catalog, extract and chunk their text, embed, and
// persist vectors plus registry state.
type IndexingService struct {
	deps        IndexingDeps
	upsertBatch int
}

// NewIndexingService creates an indexing service.
func NewIndexingService(deps IndexingDeps, cfg IndexingConfig) *IndexingService {
	if cfg.UpsertBatch <= 0 {
		cfg.UpsertBatch = 100
	}
	return &IndexingService{
		deps:        deps,
		upsertBatch: cfg.UpsertBatch,
	}
}

// IndexPapers indexes up to target new papers for a specialty and
// returns the number actually indexed. The registry union is committed
// once, on the way out, so already-indexed work survives a mid-run
// failure.
func (s *IndexingService) IndexPapers(ctx context.Context, niche string, target int) (int, error) {
	if target <= 0 {
		return 0, nil
	}

	already, err := s.deps.Registry.Indexed(ctx, niche)
	if err != nil {
		return 0, fmt.Errorf("services: load indexed registry: %w", err)
	}

	count, newIDs, loopErr := s.indexLoop(ctx, niche, target, already)

	if len(newIDs) > 0 {
		if err := s.deps.Registry.AddIndexed(ctx, niche, newIDs); err != nil {
			if loopErr != nil {
				return count, fmt.Errorf("services: update registry after %v: %w", loopErr, err)
			}
			return count, fmt.Errorf("services: update registry: %w", err)
		}
	}

	logger.Info("indexing finished", "niche", niche, "target", target, "indexed", count)
	return count, loopErr
}

// indexLoop walks the catalog with a sliding date window until the
// target is met or the window bottoms out.
func (s *IndexingService) indexLoop(
	ctx context.Context, niche string, target int, already map[string]struct{},
) (int, []string, error) {
	var newIDs []string
	count := 0
	endDate := time.Now()

	for count < target && !endDate.Before(indexingFloor) {
		batch := 2 * (target - count)
		window := driven.DateWindow{From: indexingFloor, To: endDate}

		ids, err := s.deps.Catalog.SearchIDs(ctx, niche, batch, window)
		if err != nil {
			return count, newIDs, fmt.Errorf("services: catalog search: %w", err)
		}
		if len(ids) == 0 {
			logger.Debug("catalog exhausted", "niche", niche, "window_end", endDate)
			break
		}

		papers, err := s.deps.Archive.Resolve(ctx, ids)
		if err != nil {
			return count, newIDs, fmt.Errorf("services: resolve archive metadata: %w", err)
		}
		if len(papers) == 0 {
			logger.Debug("no archive metadata for batch", "niche", niche, "ids", len(ids))
			break
		}

		var oldest time.Time
		for _, paper := range papers {
			if t, ok := domain.ParseArchiveDate(paper.LastUpdated); ok {
				if oldest.IsZero() || t.Before(oldest) {
					oldest = t
				}
			}
			if count == target {
				continue
			}
			if _, dup := already[paper.PMCID]; dup {
				continue
			}

			indexed, err := s.indexPaper(ctx, niche, paper)
			if err != nil {
				return count, newIDs, err
			}
			if !indexed {
				continue
			}

			already[paper.PMCID] = struct{}{}
			newIDs = append(newIDs, paper.PMCID)
			count++
		}

		// Slide the window past the oldest paper seen; regress a fixed
		// step when the batch carried no parsable dates or no progress.
		if !oldest.IsZero() && oldest.Before(endDate) {
			endDate = oldest
		} else {
			endDate = endDate.AddDate(0, 0, -windowRegressDays)
		}
	}

	return count, newIDs, nil
}

// indexPaper extracts, chunks, embeds, and upserts one paper. A paper
// without extractable text is skipped, not an error.
func (s *IndexingService) indexPaper(ctx context.Context, niche string, paper domain.Paper) (bool, error) {
	text, err := s.deps.Content.FullText(ctx, paper.ArchivePath)
	if err != nil {
		if errors.Is(err, domain.ErrNoContent) {
			logger.Warn("skipping paper without text", "pmcid", paper.PMCID)
		} else {
			logger.Warn("skipping paper after fetch failure", "pmcid", paper.PMCID, "error", err)
		}
		return false, nil
	}

	prefix := fmt.Sprintf(chunkPrefixFormat, niche)
	chunks := s.deps.Chunker.Chunk(paper.PMCID, text)
	if len(chunks) == 0 {
		logger.Warn("skipping paper that produced no chunks", "pmcid", paper.PMCID)
		return false, nil
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		chunks[i].Text = prefix + chunks[i].Text
		texts[i] = chunks[i].Text
	}

	vectors, err := s.deps.Embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return false, fmt.Errorf("services: embed paper %s: %w", paper.PMCID, err)
	}
	if len(vectors) != len(chunks) {
		return false, fmt.Errorf("services: embed paper %s: got %d vectors for %d chunks",
			paper.PMCID, len(vectors), len(chunks))
	}

	epoch := paper.LastUpdatedEpoch()
	records := make([]domain.VectorRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = domain.VectorRecord{
			ID:     chunk.ID(),
			Values: vectors[i],
			Metadata: domain.VectorMetadata{
				PMCID:       paper.PMCID,
				Title:       paper.Title,
				Specialty:   niche,
				ChunkID:     chunk.Index,
				Text:        chunk.StoredText(),
				LastUpdated: epoch,
			},
		}
	}

	// Committed sub-batches survive a later failure; the paper is only
	// counted once every batch landed.
	for start := 0; start < len(records); start += s.upsertBatch {
		end := start + s.upsertBatch
		if end > len(records) {
			end = len(records)
		}
		if err := s.deps.Vectors.Upsert(ctx, records[start:end]); err != nil {
			return false, fmt.Errorf("services: upsert paper %s: %w", paper.PMCID, err)
		}
	}

	logger.Debug("indexed paper", "pmcid", paper.PMCID, "chunks", len(chunks))
	return true, nil
}
