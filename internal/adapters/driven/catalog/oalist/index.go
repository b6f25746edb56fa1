// Package oalist resolves accession IDs against the catalog's
// open-access file list, a large CSV mapping each accession ID to its
// archive location and citation metadata.
package oalist

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/medalpine/medrag/internal/core/domain"
	"github.com/medalpine/medrag/internal/core/ports/driven"
	"github.com/medalpine/medrag/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.ArchiveIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultBaseURL  = "https://ftp.ncbi.nlm.nih.gov/pub/pmc"
	DefaultFileName = "oa_file_list.csv"
	DefaultTimeout  = 5 * time.Minute
)

// File-list CSV column headers.
const (
	colFile        = "File"
	colCitation    = "Article Citation"
	colAccessionID = "Accession ID"
	colLastUpdated = "Last Updated (YYYY-MM-DD HH:MM:SS)"
)

// placeholderDate substitutes a blank last-updated field so date
// sorting stays total.
const placeholderDate = "1970-01-01 00:00:00"

// Config holds configuration for the file-list index.
type Config struct {
	// BaseURL is the catalog file server (default: the public mirror).
	BaseURL string

	// CachePath is where the downloaded list is kept. Defaults to
	// oa_file_list.csv in the working directory.
	CachePath string

	// Timeout bounds the one-time list download (default: 5m).
	Timeout time.Duration
}

// Index downloads the file list once and resolves IDs by scanning it.
type Index struct {
	http      *resty.Client
	cachePath string
}

// New creates a file-list index.
func New(cfg Config) *Index {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CachePath == "" {
		cfg.CachePath = DefaultFileName
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(8 * time.Second)

	return &Index{
		http:      http,
		cachePath: cfg.CachePath,
	}
}

// Resolve returns metadata for the given IDs, sorted newest first.
// IDs absent from the file list are silently skipped.
func (idx *Index) Resolve(ctx context.Context, pmcids []string) ([]domain.Paper, error) {
	if len(pmcids) == 0 {
		return nil, nil
	}

	if err := idx.ensureList(ctx); err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(pmcids))
	for _, id := range pmcids {
		wanted[id] = struct{}{}
	}

	papers, err := idx.scan(wanted)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(papers, func(i, j int) bool {
		ti, _ := domain.ParseArchiveDate(papers[i].LastUpdated)
		tj, _ := domain.ParseArchiveDate(papers[j].LastUpdated)
		return ti.After(tj)
	})

	logger.Debug("file list resolved", "requested", len(pmcids), "found", len(papers))
	return papers, nil
}

// ensureList downloads the file list to the cache path if missing.
func (idx *Index) ensureList(ctx context.Context) error {
	if _, err := os.Stat(idx.cachePath); err == nil {
		return nil
	}

	logger.Info("downloading catalog file list", "path", idx.cachePath)
	if dir := filepath.Dir(idx.cachePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("oalist: create cache dir: %w", err)
		}
	}

	resp, err := idx.http.R().
		SetContext(ctx).
		SetOutput(idx.cachePath).
		Get("/" + DefaultFileName)
	if err != nil {
		return fmt.Errorf("oalist: download file list: %w", err)
	}
	if resp.IsError() {
		// Remove the partial file so the next call retries the download.
		_ = os.Remove(idx.cachePath)
		return fmt.Errorf("oalist: file list download returned status %d", resp.StatusCode())
	}
	return nil
}

// scan streams the CSV and collects rows whose accession ID is wanted.
func (idx *Index) scan(wanted map[string]struct{}) ([]domain.Paper, error) {
	f, err := os.Open(idx.cachePath)
	if err != nil {
		return nil, fmt.Errorf("oalist: open file list: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("oalist: read file list header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{colFile, colCitation, colAccessionID, colLastUpdated} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("oalist: file list missing column %q", required)
		}
	}

	var papers []domain.Paper
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A corrupt row shouldn't sink the whole resolution.
			logger.Warn("skipping malformed file list row", "error", err)
			continue
		}

		id := row[cols[colAccessionID]]
		if _, ok := wanted[id]; !ok {
			continue
		}

		lastUpdated := row[cols[colLastUpdated]]
		if lastUpdated == "" {
			lastUpdated = placeholderDate
		}

		papers = append(papers, domain.Paper{
			PMCID:       id,
			Title:       titleFromCitation(row[cols[colCitation]]),
			ArchivePath: row[cols[colFile]],
			LastUpdated: lastUpdated,
		})
	}

	return papers, nil
}

// titleFromCitation takes the citation text up to the first period.
func titleFromCitation(citation string) string {
	if i := strings.Index(citation, "."); i >= 0 {
		return citation[:i]
	}
	return citation
}
