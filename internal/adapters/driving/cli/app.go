package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/medalpine/medrag/internal/adapters/driven/catalog/entrez"
	"github.com/medalpine/medrag/internal/adapters/driven/catalog/oalist"
	"github.com/medalpine/medrag/internal/adapters/driven/content/pmc"
	"github.com/medalpine/medrag/internal/adapters/driven/embedding/ollama"
	"github.com/medalpine/medrag/internal/adapters/driven/llm/gemini"
	fsstore "github.com/medalpine/medrag/internal/adapters/driven/storage/firestore"
	"github.com/medalpine/medrag/internal/adapters/driven/storage/memory"
	"github.com/medalpine/medrag/internal/adapters/driven/vector/pinecone"
	"github.com/medalpine/medrag/internal/adapters/driven/websearch/serper"
	"github.com/medalpine/medrag/internal/config"
	"github.com/medalpine/medrag/internal/core/ports/driven"
	"github.com/medalpine/medrag/internal/core/services"
	"github.com/medalpine/medrag/internal/logger"
	"github.com/medalpine/medrag/internal/postprocessors/chunker"
)

// app holds the wired service graph for one process.
type app struct {
	cfg     *config.Config
	queries *services.AnswerService
	indexer *services.IndexingService
	feed    *services.NewsfeedService
	vectors driven.VectorStore
}

// buildApp loads configuration and wires adapters into services.
func buildApp(ctx context.Context) (*app, error) {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(cfg.LogLevel)

	catalog := entrez.New(entrez.Config{
		BaseURL: cfg.Catalog.BaseURL,
		APIKey:  cfg.Catalog.APIKey,
	})
	archive := oalist.New(oalist.Config{
		BaseURL:   cfg.Catalog.FileServerURL,
		CachePath: cfg.Catalog.FileListPath,
	})
	content := pmc.New(pmc.Config{
		BaseURL: cfg.Catalog.FileServerURL,
	})
	embedder := ollama.NewEmbeddingService(ollama.Config{
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
	})

	generator, err := gemini.New(gemini.Config{
		APIKey: cfg.Generator.APIKey,
		Model:  cfg.Generator.Model,
	})
	if err != nil {
		return nil, err
	}

	vectors, err := pinecone.New(pinecone.Config{
		APIKey:    cfg.Vector.APIKey,
		IndexName: cfg.Vector.IndexName,
		IndexHost: cfg.Vector.IndexHost,
	})
	if err != nil {
		return nil, err
	}
	if err := vectors.EnsureIndex(ctx, cfg.Embedding.Dimensions); err != nil {
		return nil, fmt.Errorf("ensure vector index: %w", err)
	}

	var web driven.WebSearcher
	if cfg.WebSearch.APIKey != "" {
		web, err = serper.New(serper.Config{APIKey: cfg.WebSearch.APIKey})
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("no web search key configured, fallback disabled")
	}

	var registry driven.RegistryStore
	var feedStore driven.NewsfeedStore
	if cfg.Store.ProjectID != "" {
		client, err := fsstore.NewClient(ctx, fsstore.Config{
			ProjectID:       cfg.Store.ProjectID,
			CredentialsFile: cfg.Store.CredentialsFile,
		})
		if err != nil {
			return nil, err
		}
		registry = fsstore.NewRegistryStore(client)
		feedStore = fsstore.NewNewsfeedStore(client)
	} else {
		logger.Warn("no store project configured, indexing state will not persist")
		registry = memory.NewRegistryStore()
		feedStore = memory.NewNewsfeedStore()
	}

	retrieval := services.NewRetrievalService(generator, embedder, vectors, web, services.RetrievalConfig{
		TriggerKeyword: cfg.Retrieval.TriggerKeyword,
		WebMaxResults:  cfg.WebSearch.MaxResults,
	})

	return &app{
		cfg: cfg,
		queries: services.NewAnswerService(retrieval, generator, services.AnswerConfig{
			QueryTopK:      cfg.Retrieval.QueryTopK,
			CaseTopK:       cfg.Retrieval.CaseTopK,
			TriggerKeyword: cfg.Retrieval.TriggerKeyword,
		}),
		indexer: services.NewIndexingService(services.IndexingDeps{
			Catalog:  catalog,
			Archive:  archive,
			Content:  content,
			Embedder: embedder,
			Vectors:  vectors,
			Registry: registry,
			Chunker: chunker.New(
				chunker.WithChunkSize(cfg.Indexing.ChunkSize),
				chunker.WithOverlap(cfg.Indexing.ChunkOverlap),
			),
		}, services.IndexingConfig{UpsertBatch: cfg.Indexing.UpsertBatch}),
		feed: services.NewNewsfeedService(catalog, archive, content, feedStore, services.NewsfeedConfig{
			FetchIDs: cfg.Newsfeed.FetchIDs,
		}),
		vectors: vectors,
	}, nil
}
