// Package repository ingests single documents from the document repository,
// which exposes no structured index: the caller supplies the filing metadata
// and the adapter only fetches and extracts the document text.
package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"FilingScanner/internal/config"
	"FilingScanner/internal/domain"
	"FilingScanner/internal/ports"
	"FilingScanner/internal/source"
)

// Adapter downloads one paginated document and extracts its text page by page.
type Adapter struct {
	client     *http.Client
	userAgent  string
	url        string
	company    string
	filingType string
	filingDate time.Time
	logger     *slog.Logger
}

var _ ports.FilingSource = (*Adapter)(nil)

// Factory builds the adapter from one configured source entry. FilingDate is
// optional and defaults to the time of configuration load.
func Factory(cfg config.SourceConfig, deps source.Deps) (ports.FilingSource, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("source %s: repository adapter needs a document url", cfg.Name)
	}

	filingDate := time.Now().UTC()
	if cfg.FilingDate != "" {
		parsed, err := time.Parse("2006-01-02", cfg.FilingDate)
		if err != nil {
			return nil, fmt.Errorf("source %s: bad filing date %q: %w", cfg.Name, cfg.FilingDate, err)
		}
		filingDate = parsed
	}

	company := cfg.Company
	if company == "" {
		company = "Unknown"
	}

	client := deps.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &Adapter{
		client:     client,
		userAgent:  deps.UserAgent,
		url:        cfg.URL,
		company:    company,
		filingType: cfg.FilingType,
		filingDate: filingDate,
		logger:     deps.Logger,
	}, nil
}

// ID reports this adapter's provenance tag.
func (a *Adapter) ID() domain.Source {
	return domain.SourceRepository
}

// Fetch downloads the document and yields exactly one record, or fails when
// the payload is not a well-formed paginated document.
func (a *Adapter) Fetch(ctx context.Context) ([]domain.FilingRecord, error) {
	payload, err := a.download(ctx)
	if err != nil {
		return nil, err
	}

	rawText, err := extractText(payload)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", a.url, err)
	}

	return []domain.FilingRecord{{
		Company:    a.company,
		FilingType: a.filingType,
		FilingDate: a.filingDate,
		Source:     domain.SourceRepository,
		URL:        a.url,
		RawText:    rawText,
	}}, nil
}

func (a *Adapter) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document %s: %w", a.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("document %s returned %s", a.url, resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", a.url, err)
	}
	return payload, nil
}

// extractText concatenates per-page plain text in document order.
func extractText(payload []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	return strings.Join(pages, "\n"), nil
}
