package regulator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"FilingScanner/internal/config"
	"FilingScanner/internal/domain"
	"FilingScanner/internal/ports"
	"FilingScanner/internal/source"
	"FilingScanner/pkg/htmltext"
)

const filingDateLayout = "2006-01-02"

// allowedForms is the fixed allow-list of form types relevant to investment
// disclosure; every other form in the index is skipped.
var allowedForms = map[string]struct{}{
	"13D":  {},
	"13G":  {},
	"D":    {},
	"10-K": {},
	"8-K":  {},
}

// Adapter fetches the regulator's per-filer index document and extracts the
// visible text of each allowed filing's detail page.
type Adapter struct {
	client     *http.Client
	userAgent  string
	filerID    string
	indexURL   string
	archiveURL string
	logger     *slog.Logger
}

var _ ports.FilingSource = (*Adapter)(nil)

// Factory builds the adapter from one configured source entry.
func Factory(cfg config.SourceConfig, deps source.Deps) (ports.FilingSource, error) {
	if cfg.FilerID == "" {
		return nil, fmt.Errorf("source %s: regulator adapter needs a filer id", cfg.Name)
	}
	if cfg.IndexURL == "" || cfg.ArchiveURL == "" {
		return nil, fmt.Errorf("source %s: regulator adapter needs index and archive urls", cfg.Name)
	}

	client := deps.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &Adapter{
		client:     client,
		userAgent:  deps.UserAgent,
		filerID:    cfg.FilerID,
		indexURL:   strings.TrimSuffix(cfg.IndexURL, "/"),
		archiveURL: strings.TrimSuffix(cfg.ArchiveURL, "/"),
		logger:     deps.Logger,
	}, nil
}

// ID reports this adapter's provenance tag.
func (a *Adapter) ID() domain.Source {
	return domain.SourceRegulator
}

// indexDocument mirrors the index JSON: parallel arrays under filings.recent.
type indexDocument struct {
	Filings struct {
		Recent struct {
			Form            []string `json:"form"`
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
		} `json:"recent"`
	} `json:"filings"`
}

// Fetch lists the filer's recent filings and produces one record per allowed
// form. A failure on any detail page abandons the remaining sequence.
func (a *Adapter) Fetch(ctx context.Context) ([]domain.FilingRecord, error) {
	idx, err := a.fetchIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("filer %s: %w", a.filerID, err)
	}

	recent := idx.Filings.Recent
	entries := len(recent.Form)
	if len(recent.AccessionNumber) < entries {
		entries = len(recent.AccessionNumber)
	}
	if len(recent.FilingDate) < entries {
		entries = len(recent.FilingDate)
	}

	var records []domain.FilingRecord
	for i := 0; i < entries; i++ {
		form := recent.Form[i]
		if _, ok := allowedForms[form]; !ok {
			continue
		}

		accession := recent.AccessionNumber[i]
		filingDate, err := time.Parse(filingDateLayout, recent.FilingDate[i])
		if err != nil {
			return nil, fmt.Errorf("filing %s: bad filing date %q: %w", accession, recent.FilingDate[i], err)
		}

		detailURL := a.detailURL(accession)
		rawText, err := a.fetchDetailText(ctx, detailURL)
		if err != nil {
			return nil, fmt.Errorf("filing %s: %w", accession, err)
		}

		records = append(records, domain.FilingRecord{
			Company:    a.filerID,
			FilingType: form,
			FilingDate: filingDate,
			Source:     domain.SourceRegulator,
			URL:        detailURL,
			RawText:    rawText,
		})
	}

	if a.logger != nil {
		a.logger.Debug("regulator index processed", "filer", a.filerID, "entries", entries, "kept", len(records))
	}
	return records, nil
}

func (a *Adapter) detailURL(accession string) string {
	return fmt.Sprintf("%s/edgar/data/%s/%s/%s-index.html",
		a.archiveURL, a.filerID, strings.ReplaceAll(accession, "-", ""), accession)
}

func (a *Adapter) fetchIndex(ctx context.Context) (*indexDocument, error) {
	resp, err := a.get(ctx, fmt.Sprintf("%s/%s.json", a.indexURL, a.filerID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var idx indexDocument
	if err := json.NewDecoder(resp.Body).Decode(&idx); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	return &idx, nil
}

func (a *Adapter) fetchDetailText(ctx context.Context, pageURL string) (string, error) {
	resp, err := a.get(ctx, pageURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse detail page: %w", err)
	}
	return htmltext.FromDocument(doc), nil
}

func (a *Adapter) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", rawURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%s returned %s", rawURL, resp.Status)
	}
	return resp, nil
}
