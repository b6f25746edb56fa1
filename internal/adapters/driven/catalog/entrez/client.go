// Package entrez provides a CatalogClient adapter over the NCBI
// E-Utilities esearch endpoint.
package entrez

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/medalpine/medrag/internal/core/ports/driven"
	"github.com/medalpine/medrag/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.CatalogClient = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	DefaultTimeout = 10 * time.Second

	// pageSize is the per-request result cap imposed by the API.
	pageSize = 100

	// windowDateLayout is the mindate/maxdate query format.
	windowDateLayout = "2006/01/02"
)

// Request rates allowed by the API with and without a key.
const (
	keyedRPS     = 10
	anonymousRPS = 3
)

// Config holds configuration for the catalog client.
type Config struct {
	// BaseURL is the E-Utilities base (default: the public endpoint).
	BaseURL string

	// APIKey raises the allowed request rate. Optional.
	APIKey string

	// Timeout is the per-request timeout (default: 10s).
	Timeout time.Duration
}

// Client searches the PMC open-access catalog.
type Client struct {
	http    *resty.Client
	apiKey  string
	limiter *rate.Limiter
}

// esearchResponse is the esearch JSON envelope.
type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// New creates a catalog client with bounded retry on transient
// failures (connection errors, 429, 5xx) and fail-fast on other 4xx.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	rps := anonymousRPS
	if cfg.APIKey != "" {
		rps = keyedRPS
	}

	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(8 * time.Second).
		AddRetryCondition(retryTransient)

	return &Client{
		http:    http,
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// retryTransient retries connection errors, 429 and 5xx responses.
// Other client errors fail immediately.
func retryTransient(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
}

// SearchIDs returns up to max deduplicated accession IDs for a niche,
// paginating through the catalog within the given date window.
func (c *Client) SearchIDs(ctx context.Context, niche string, max int, window driven.DateWindow) ([]string, error) {
	if max <= 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, max)
	ids := make([]string, 0, max)
	retstart := 0

	for len(ids) < max {
		retmax := max - len(ids)
		if retmax > pageSize {
			retmax = pageSize
		}

		page, err := c.searchPage(ctx, niche, retstart, retmax, window)
		if err != nil {
			return nil, err
		}

		for _, raw := range page {
			if len(ids) == max {
				break
			}
			id := "PMC" + raw
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}

		// A short page means the window is exhausted.
		if len(page) < retmax {
			break
		}
		retstart += retmax
	}

	logger.Debug("catalog search", "niche", niche, "requested", max, "returned", len(ids))
	return ids, nil
}

func (c *Client) searchPage(ctx context.Context, niche string, retstart, retmax int, window driven.DateWindow) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("entrez: rate limit wait: %w", err)
	}

	req := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"db":       "pmc",
			"term":     niche + "[mesh] AND open access[filter]",
			"retstart": strconv.Itoa(retstart),
			"retmax":   strconv.Itoa(retmax),
			"retmode":  "json",
		})

	if !window.IsZero() {
		req.SetQueryParams(map[string]string{
			"mindate":  window.From.Format(windowDateLayout),
			"maxdate":  window.To.Format(windowDateLayout),
			"datetype": "pdat",
		})
	}
	if c.apiKey != "" {
		req.SetQueryParam("api_key", c.apiKey)
	}

	var body esearchResponse
	resp, err := req.SetResult(&body).Get("/esearch.fcgi")
	if err != nil {
		return nil, fmt.Errorf("entrez: esearch: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("entrez: esearch returned status %d", resp.StatusCode())
	}

	return body.ESearchResult.IDList, nil
}
