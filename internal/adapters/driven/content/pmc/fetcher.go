// Package pmc fetches open-access article archives from the catalog
// file server and extracts text from their contents.
package pmc

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ledongthuc/pdf"

	"github.com/medalpine/medrag/internal/core/domain"
	"github.com/medalpine/medrag/internal/core/ports/driven"
	"github.com/medalpine/medrag/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.ContentFetcher = (*Fetcher)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://ftp.ncbi.nlm.nih.gov/pub/pmc"
	DefaultTimeout = 2 * time.Minute
)

// Preview placeholders returned instead of errors.
const (
	previewNoAbstract   = "No abstract available"
	previewParseError   = "No abstract available (parsing error)"
	previewNoContent    = "No content available"
	previewNotExtracted = "No content extracted"
)

// previewPDFPages bounds how much of a PDF a preview reads.
const previewPDFPages = 3

// Config holds configuration for the content fetcher.
type Config struct {
	// BaseURL is the catalog file server (default: the public mirror).
	BaseURL string

	// Timeout bounds a single archive download (default: 2m).
	Timeout time.Duration
}

// Fetcher downloads article archives and extracts their text.
type Fetcher struct {
	http *resty.Client
}

// New creates a content fetcher.
func New(cfg Config) *Fetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(4 * time.Second)

	return &Fetcher{http: http}
}

// archive holds the text-bearing members of a downloaded package.
type archive struct {
	nxml []byte
	pdf  []byte
}

// FullText returns the complete body text of the article's PDF.
// It returns domain.ErrNoContent when the archive holds no usable text.
func (f *Fetcher) FullText(ctx context.Context, archivePath string) (string, error) {
	arc, err := f.download(ctx, archivePath)
	if err != nil {
		return "", err
	}

	if len(arc.pdf) > 0 {
		text, err := pdfText(arc.pdf, 0)
		if err != nil {
			logger.Warn("pdf extraction failed", "archive", archivePath, "error", err)
		} else if strings.TrimSpace(text) != "" {
			return text, nil
		}
	}

	// Fall back to the article XML body when there is no readable PDF.
	if len(arc.nxml) > 0 {
		if text := nxmlBodyText(arc.nxml); strings.TrimSpace(text) != "" {
			return text, nil
		}
	}

	return "", fmt.Errorf("pmc: %s: %w", archivePath, domain.ErrNoContent)
}

// Preview returns a short summary of the article, preferring the XML
// abstract and falling back to the first pages of the PDF. It never
// fails; missing or unparsable content degrades to a placeholder.
func (f *Fetcher) Preview(ctx context.Context, archivePath string, maxChars int) string {
	arc, err := f.download(ctx, archivePath)
	if err != nil {
		logger.Warn("preview download failed", "archive", archivePath, "error", err)
		return previewNoContent
	}

	if len(arc.nxml) > 0 {
		abstract, err := nxmlAbstract(arc.nxml)
		if err != nil {
			return previewParseError
		}
		if abstract == "" {
			return previewNoAbstract
		}
		return clip(abstract, maxChars)
	}

	if len(arc.pdf) > 0 {
		text, err := pdfText(arc.pdf, previewPDFPages)
		if err != nil || strings.TrimSpace(text) == "" {
			return previewNotExtracted
		}
		return clip(text, maxChars)
	}

	return previewNoContent
}

// download fetches the archive and collects its .nxml and .pdf members.
func (f *Fetcher) download(ctx context.Context, archivePath string) (*archive, error) {
	resp, err := f.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get("/" + archivePath)
	if err != nil {
		return nil, fmt.Errorf("pmc: download %s: %w", archivePath, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("pmc: download %s returned status %d", archivePath, resp.StatusCode())
	}

	return readArchive(body)
}

// readArchive walks a tar.gz stream, keeping the first .nxml and the
// first .pdf member found.
func readArchive(r io.Reader) (*archive, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("pmc: open archive: %w", err)
	}
	defer gz.Close()

	var arc archive
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("pmc: read archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		switch {
		case arc.nxml == nil && strings.HasSuffix(hdr.Name, ".nxml"):
			arc.nxml, err = io.ReadAll(tr)
		case arc.pdf == nil && strings.HasSuffix(hdr.Name, ".pdf"):
			arc.pdf, err = io.ReadAll(tr)
		}
		if err != nil {
			return nil, fmt.Errorf("pmc: read archive member %s: %w", hdr.Name, err)
		}
	}
	return &arc, nil
}

// pdfText extracts plain text from a PDF. maxPages of 0 reads the
// whole document.
func pdfText(data []byte, maxPages int) (text string, err error) {
	// The PDF parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pmc: pdf parse panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pmc: open pdf: %w", err)
	}

	pages := reader.NumPage()
	if maxPages > 0 && pages > maxPages {
		pages = maxPages
	}

	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// clip truncates s to at most maxChars characters.
func clip(s string, maxChars int) string {
	if maxChars > 0 && len(s) > maxChars {
		return s[:maxChars]
	}
	return s
}
