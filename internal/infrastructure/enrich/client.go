package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"FilingScanner/internal/config"
	"FilingScanner/internal/domain"
	"FilingScanner/internal/ports"
)

const enrichPath = "/api/enrich/investment-summary"

// Client talks to the external summarization/scoring service. Every failure
// is returned to the caller; the pipeline decides that enrichment is
// best-effort.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ ports.Enricher = (*Client)(nil)

// NewClient creates a reusable HTTP client with the configured request ceiling.
func NewClient(cfg config.EnrichmentConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout()},
	}
}

// Enrich requests a summary and investment score for one record. The service
// expects the record serialized as a nested JSON string under RawJson.
func (c *Client) Enrich(ctx context.Context, rec domain.FilingRecord) (domain.Enrichment, error) {
	rawJSON, err := json.Marshal(map[string]string{
		"company":     rec.Company,
		"filing_type": rec.FilingType,
		"filing_date": rec.FilingDate.Format(time.RFC3339),
		"source":      string(rec.Source),
		"url":         rec.URL,
		"raw_text":    rec.RawText,
	})
	if err != nil {
		return domain.Enrichment{}, fmt.Errorf("marshal record: %w", err)
	}

	body, err := json.Marshal(map[string]string{"RawJson": string(rawJSON)})
	if err != nil {
		return domain.Enrichment{}, fmt.Errorf("marshal envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+enrichPath, bytes.NewReader(body))
	if err != nil {
		return domain.Enrichment{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Enrichment{}, fmt.Errorf("call enrichment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Enrichment{}, fmt.Errorf("enrichment service returned %s", resp.Status)
	}

	var payload struct {
		Summary         string `json:"Summary"`
		InvestmentScore any    `json:"InvestmentScore"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Enrichment{}, fmt.Errorf("decode enrichment response: %w", err)
	}

	return domain.Enrichment{
		Summary:         payload.Summary,
		InvestmentScore: coerceScore(payload.InvestmentScore),
	}, nil
}

// coerceScore accepts the score as a JSON number or numeric string and falls
// back to zero for anything else.
func coerceScore(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return 0
}
