// Package serper provides a WebSearcher adapter over the Serper
// search API.
package serper

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/medalpine/medrag/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.WebSearcher = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://google.serper.dev"
	DefaultTimeout = 10 * time.Second
)

// Config holds configuration for the search client.
type Config struct {
	// APIKey authenticates requests (required).
	APIKey string

	// BaseURL is the API base URL (default: the public endpoint).
	BaseURL string

	// Timeout is the per-request timeout (default: 10s).
	Timeout time.Duration
}

// Client runs supplementary web searches.
type Client struct {
	http *resty.Client
}

// searchRequest is the /search request format.
type searchRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num,omitempty"`
}

// searchResponse is the /search response format.
type searchResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// New creates a search client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("serper: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("X-API-KEY", cfg.APIKey).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	return &Client{http: http}, nil
}

// Search returns up to max organic results for the query.
func (c *Client) Search(ctx context.Context, query string, max int) ([]driven.WebResult, error) {
	if max <= 0 {
		return nil, nil
	}

	var body searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(searchRequest{Q: query, Num: max}).
		SetResult(&body).
		Post("/search")
	if err != nil {
		return nil, fmt.Errorf("serper: search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("serper: search returned status %d", resp.StatusCode())
	}

	results := make([]driven.WebResult, 0, max)
	for _, hit := range body.Organic {
		if len(results) == max {
			break
		}
		results = append(results, driven.WebResult{
			Title:   hit.Title,
			Link:    hit.Link,
			Snippet: hit.Snippet,
		})
	}
	return results, nil
}
