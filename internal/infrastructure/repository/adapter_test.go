package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"FilingScanner/internal/config"
	"FilingScanner/internal/source"
)

func newTestAdapter(t *testing.T, server *httptest.Server) *Adapter {
	t.Helper()

	adapter, err := Factory(config.SourceConfig{
		Name:       "repository-test",
		Kind:       config.KindRepository,
		URL:        server.URL + "/doc.pdf",
		Company:    "Acme Corp",
		FilingType: "Prospectus",
		FilingDate: "2023-06-30",
	}, source.Deps{Client: server.Client(), UserAgent: "FilingScanner/test"})
	if err != nil {
		t.Fatalf("Factory error: %v", err)
	}

	return adapter.(*Adapter)
}

func TestFetchFailsOnStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server)

	if _, err := adapter.Fetch(context.Background()); err == nil {
		t.Fatal("expected error on non-success status")
	}
}

func TestFetchFailsOnUnparsablePayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("definitely not a paginated document"))
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server)

	if _, err := adapter.Fetch(context.Background()); err == nil {
		t.Fatal("expected error on unparsable payload")
	}
}

func TestFactoryMetadataDefaults(t *testing.T) {
	t.Parallel()

	adapter, err := Factory(config.SourceConfig{
		Name: "repository-min",
		Kind: config.KindRepository,
		URL:  "https://repository.example/doc.pdf",
	}, source.Deps{})
	if err != nil {
		t.Fatalf("Factory error: %v", err)
	}

	a := adapter.(*Adapter)
	if a.company != "Unknown" {
		t.Fatalf("unexpected default company: %s", a.company)
	}
	if a.filingDate.IsZero() {
		t.Fatal("filing date should default to the current time")
	}
}

func TestFactoryRequiresURL(t *testing.T) {
	t.Parallel()

	if _, err := Factory(config.SourceConfig{Name: "bad", Kind: config.KindRepository}, source.Deps{}); err == nil {
		t.Fatal("expected error without document url")
	}
}

func TestFactoryRejectsBadFilingDate(t *testing.T) {
	t.Parallel()

	_, err := Factory(config.SourceConfig{
		Name:       "bad-date",
		Kind:       config.KindRepository,
		URL:        "https://repository.example/doc.pdf",
		FilingDate: "30/06/2023",
	}, source.Deps{})
	if err == nil {
		t.Fatal("expected error on malformed filing date")
	}
}
