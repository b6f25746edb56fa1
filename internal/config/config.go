// Package config loads service configuration from a TOML file with
// environment-variable overrides for secrets and deploy-time settings.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Defaults for the retrieval/indexing tunables. The original system
// carried divergent constants across duplicated modules; they are
// configuration here, never hardcoded in services.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 100
	DefaultQueryTopK    = 10
	DefaultCaseTopK     = 8
	DefaultUpsertBatch  = 100
	DefaultDimensions   = 384
	DefaultListenAddr   = ":8001"

	// DefaultNewsfeedFetchIDs is how many catalog IDs a newsfeed
	// refresh considers; archive resolution thins them before the
	// digest is capped.
	DefaultNewsfeedFetchIDs = 100
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Catalog   CatalogConfig   `toml:"catalog"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Generator GeneratorConfig `toml:"generator"`
	Vector    VectorConfig    `toml:"vector"`
	WebSearch WebSearchConfig `toml:"websearch"`
	Store     StoreConfig     `toml:"store"`
	Indexing  IndexingConfig  `toml:"indexing"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Newsfeed  NewsfeedConfig  `toml:"newsfeed"`
	LogLevel  string          `toml:"log_level"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

// CatalogConfig configures the literature catalog client.
type CatalogConfig struct {
	BaseURL       string `toml:"base_url"`
	FileServerURL string `toml:"file_server_url"`
	APIKey        string `toml:"api_key"`
	FileListPath  string `toml:"file_list_path"`
}

// EmbeddingConfig configures the embedding model client.
type EmbeddingConfig struct {
	BaseURL    string `toml:"base_url"`
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`
}

// GeneratorConfig configures the generative model client.
type GeneratorConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// VectorConfig configures the vector store client.
type VectorConfig struct {
	APIKey    string `toml:"api_key"`
	IndexHost string `toml:"index_host"`
	IndexName string `toml:"index_name"`
}

// WebSearchConfig configures the supplementary web search client.
type WebSearchConfig struct {
	APIKey     string `toml:"api_key"`
	MaxResults int    `toml:"max_results"`
}

// StoreConfig configures the persistent key-value document store.
type StoreConfig struct {
	// ProjectID selects the Firestore project. Empty selects the
	// in-memory store; indexing state then does not persist.
	ProjectID string `toml:"project_id"`

	// CredentialsFile optionally points at a service-account key.
	CredentialsFile string `toml:"credentials_file"`
}

// IndexingConfig holds the indexing pipeline tunables.
type IndexingConfig struct {
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`
	UpsertBatch  int `toml:"upsert_batch"`
}

// RetrievalConfig holds the retrieval engine tunables.
type RetrievalConfig struct {
	QueryTopK int `toml:"query_top_k"`
	CaseTopK  int `toml:"case_top_k"`

	// TriggerKeyword enables the web-search fallback and the treatment
	// augmentation when present in the normalized query.
	TriggerKeyword string `toml:"trigger_keyword"`
}

// NewsfeedConfig holds the newsfeed digest tunables.
type NewsfeedConfig struct {
	FetchIDs int `toml:"fetch_ids"`
}

// Load reads the TOML file at path (missing file is fine: defaults
// apply), then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	envString(&c.Server.ListenAddr, "MEDRAG_LISTEN_ADDR")
	envString(&c.Catalog.APIKey, "NCBI_API_KEY")
	envString(&c.Generator.APIKey, "GEMINI_API_KEY")
	envString(&c.Vector.APIKey, "PINECONE_API_KEY")
	envString(&c.Vector.IndexHost, "PINECONE_INDEX_HOST")
	envString(&c.Vector.IndexName, "PINECONE_INDEX_NAME")
	envString(&c.WebSearch.APIKey, "SERPER_API_KEY")
	envString(&c.Embedding.BaseURL, "OLLAMA_BASE_URL")
	envString(&c.Store.ProjectID, "FIRESTORE_PROJECT_ID")
	envString(&c.Store.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	envString(&c.LogLevel, "MEDRAG_LOG_LEVEL")
	envInt(&c.Retrieval.QueryTopK, "MEDRAG_QUERY_TOP_K")
}

func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.Vector.IndexName == "" {
		c.Vector.IndexName = "medalpine-rag"
	}
	if c.Embedding.Dimensions == 0 {
		c.Embedding.Dimensions = DefaultDimensions
	}
	if c.WebSearch.MaxResults == 0 {
		c.WebSearch.MaxResults = 5
	}
	if c.Indexing.ChunkSize == 0 {
		c.Indexing.ChunkSize = DefaultChunkSize
	}
	if c.Indexing.ChunkOverlap == 0 {
		c.Indexing.ChunkOverlap = DefaultChunkOverlap
	}
	if c.Indexing.UpsertBatch == 0 {
		c.Indexing.UpsertBatch = DefaultUpsertBatch
	}
	if c.Retrieval.QueryTopK == 0 {
		c.Retrieval.QueryTopK = DefaultQueryTopK
	}
	if c.Retrieval.CaseTopK == 0 {
		c.Retrieval.CaseTopK = DefaultCaseTopK
	}
	if c.Retrieval.TriggerKeyword == "" {
		c.Retrieval.TriggerKeyword = "alzheimer"
	}
	if c.Newsfeed.FetchIDs == 0 {
		c.Newsfeed.FetchIDs = DefaultNewsfeedFetchIDs
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
