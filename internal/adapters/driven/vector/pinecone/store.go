// Package pinecone provides a VectorStore adapter over the Pinecone
// REST API.
package pinecone

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/medalpine/medrag/internal/core/domain"
	"github.com/medalpine/medrag/internal/core/ports/driven"
	"github.com/medalpine/medrag/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultControlURL = "https://api.pinecone.io"
	DefaultTimeout    = 30 * time.Second
	DefaultCloud      = "aws"
	DefaultRegion     = "us-east-1"
)

// Config holds configuration for the Pinecone store.
type Config struct {
	// APIKey authenticates both control and data plane calls (required).
	APIKey string

	// IndexName is the index to create or use (required).
	IndexName string

	// IndexHost is the data-plane host of an existing index. When empty
	// it is discovered from the control plane after EnsureIndex.
	IndexHost string

	// ControlURL is the control-plane base URL (default: the public API).
	ControlURL string

	// Cloud and Region select where a newly created index lives.
	Cloud  string
	Region string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Store reads and writes vectors through the Pinecone REST API.
type Store struct {
	control   *resty.Client
	data      *resty.Client
	apiKey    string
	timeout   time.Duration
	indexName string
	cloud     string
	region    string
}

// upsertRequest is the /vectors/upsert request format. The record
// already carries the wire field names.
type upsertRequest struct {
	Vectors []domain.VectorRecord `json:"vectors"`
}

// queryRequest is the /query request format.
type queryRequest struct {
	Vector          []float32      `json:"vector"`
	TopK            int            `json:"topK"`
	IncludeMetadata bool           `json:"includeMetadata"`
	Filter          map[string]any `json:"filter,omitempty"`
}

// queryResponse is the /query response format.
type queryResponse struct {
	Matches []domain.VectorMatch `json:"matches"`
}

// createIndexRequest is the control-plane index creation format.
type createIndexRequest struct {
	Name      string    `json:"name"`
	Dimension int       `json:"dimension"`
	Metric    string    `json:"metric"`
	Spec      indexSpec `json:"spec"`
}

type indexSpec struct {
	Serverless serverlessSpec `json:"serverless"`
}

type serverlessSpec struct {
	Cloud  string `json:"cloud"`
	Region string `json:"region"`
}

// describeIndexResponse is the control-plane index description format.
type describeIndexResponse struct {
	Host string `json:"host"`
}

// New creates a Pinecone store.
func New(cfg Config) (*Store, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("pinecone: API key is required")
	}
	if cfg.IndexName == "" {
		return nil, fmt.Errorf("pinecone: index name is required")
	}
	if cfg.ControlURL == "" {
		cfg.ControlURL = DefaultControlURL
	}
	if cfg.Cloud == "" {
		cfg.Cloud = DefaultCloud
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	s := &Store{
		apiKey:    cfg.APIKey,
		timeout:   cfg.Timeout,
		indexName: cfg.IndexName,
		cloud:     cfg.Cloud,
		region:    cfg.Region,
	}
	s.control = s.newClient(cfg.ControlURL)
	if cfg.IndexHost != "" {
		s.data = s.newClient(normalizeHost(cfg.IndexHost))
	}
	return s, nil
}

// newClient builds a resty client with bounded retry on transient
// failures (connection errors, 429, 5xx).
func (s *Store) newClient(base string) *resty.Client {
	return resty.New().
		SetBaseURL(base).
		SetTimeout(s.timeout).
		SetHeader("Api-Key", s.apiKey).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(8 * time.Second).
		AddRetryCondition(retryTransient)
}

// normalizeHost ensures the data-plane host carries a scheme.
func normalizeHost(host string) string {
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return "https://" + host
}

// retryTransient retries connection errors, 429 and 5xx responses.
func retryTransient(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
}

// EnsureIndex creates the index with a cosine metric if it does not
// exist, then resolves the data-plane host.
func (s *Store) EnsureIndex(ctx context.Context, dimensions int) error {
	resp, err := s.control.R().
		SetContext(ctx).
		SetBody(createIndexRequest{
			Name:      s.indexName,
			Dimension: dimensions,
			Metric:    "cosine",
			Spec: indexSpec{Serverless: serverlessSpec{
				Cloud:  s.cloud,
				Region: s.region,
			}},
		}).
		Post("/indexes")
	if err != nil {
		return fmt.Errorf("pinecone: create index: %w", err)
	}
	switch {
	case resp.StatusCode() == http.StatusConflict:
		logger.Debug("vector index already exists", "index", s.indexName)
	case resp.IsError():
		return fmt.Errorf("pinecone: create index returned status %d: %s", resp.StatusCode(), resp.String())
	default:
		logger.Info("created vector index", "index", s.indexName, "dimensions", dimensions)
	}

	if s.data != nil {
		return nil
	}
	return s.resolveHost(ctx)
}

// resolveHost discovers the index's data-plane host.
func (s *Store) resolveHost(ctx context.Context) error {
	var desc describeIndexResponse
	resp, err := s.control.R().
		SetContext(ctx).
		SetResult(&desc).
		Get("/indexes/" + s.indexName)
	if err != nil {
		return fmt.Errorf("pinecone: describe index: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("pinecone: describe index returned status %d", resp.StatusCode())
	}
	if desc.Host == "" {
		return fmt.Errorf("pinecone: index %q has no host yet", s.indexName)
	}

	s.data = s.newClient(normalizeHost(desc.Host))
	return nil
}

// Upsert writes records to the index.
func (s *Store) Upsert(ctx context.Context, records []domain.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}
	if s.data == nil {
		return fmt.Errorf("pinecone: %w: index host not resolved", domain.ErrVectorStoreUnavailable)
	}

	resp, err := s.data.R().
		SetContext(ctx).
		SetBody(upsertRequest{Vectors: records}).
		Post("/vectors/upsert")
	if err != nil {
		return fmt.Errorf("pinecone: upsert: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("pinecone: upsert returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// Query returns the topK nearest matches, optionally filtered by
// specialty metadata.
func (s *Store) Query(ctx context.Context, vec []float32, topK int, filter *driven.MatchFilter) ([]domain.VectorMatch, error) {
	if s.data == nil {
		return nil, fmt.Errorf("pinecone: %w: index host not resolved", domain.ErrVectorStoreUnavailable)
	}

	req := queryRequest{
		Vector:          vec,
		TopK:            topK,
		IncludeMetadata: true,
	}
	if filter != nil && len(filter.Specialties) > 0 {
		req.Filter = map[string]any{
			"specialty": map[string]any{"$in": filter.Specialties},
		}
	}

	var body queryResponse
	resp, err := s.data.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&body).
		Post("/query")
	if err != nil {
		return nil, fmt.Errorf("pinecone: query: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("pinecone: query returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return body.Matches, nil
}
