package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"FilingScanner/internal/domain"
	"FilingScanner/internal/ports"
)

type fakeSource struct {
	id   domain.Source
	recs []domain.FilingRecord
	err  error
}

func (f *fakeSource) ID() domain.Source { return f.id }

func (f *fakeSource) Fetch(ctx context.Context) ([]domain.FilingRecord, error) {
	return f.recs, f.err
}

type fakeEnricher struct {
	enrichment domain.Enrichment
	err        error
	calls      int
}

func (f *fakeEnricher) Enrich(ctx context.Context, rec domain.FilingRecord) (domain.Enrichment, error) {
	f.calls++
	return f.enrichment, f.err
}

type fakeStore struct {
	schemaCalls int
	upsertCalls int
	got         []domain.FilingRecord
	err         error
}

func (f *fakeStore) EnsureSchema(ctx context.Context) error {
	f.schemaCalls++
	return nil
}

func (f *fakeStore) UpsertBatch(ctx context.Context, recs []domain.FilingRecord) error {
	f.upsertCalls++
	f.got = append(f.got, recs...)
	return f.err
}

func record(url string, src domain.Source) domain.FilingRecord {
	return domain.FilingRecord{
		Company:    "Acme Corp",
		FilingType: "13D",
		FilingDate: time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC),
		Source:     src,
		URL:        url,
	}
}

func TestRunIsolatesSourceFailures(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	pipeline := NewPipeline(PipelineDeps{
		Sources: []ports.FilingSource{
			&fakeSource{id: domain.SourceNoticeFeed, err: errors.New("feed exploded")},
			&fakeSource{id: domain.SourceRegulator, recs: []domain.FilingRecord{record("https://a/1", domain.SourceRegulator)}},
		},
		Store: store,
	})

	if err := pipeline.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(store.got) != 1 || store.got[0].URL != "https://a/1" {
		t.Fatalf("surviving source records must still persist, got %v", store.got)
	}
}

func TestRunEmptyBatchSkipsStore(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	pipeline := NewPipeline(PipelineDeps{
		Sources: []ports.FilingSource{
			&fakeSource{id: domain.SourceRegulator},
			&fakeSource{id: domain.SourceNoticeFeed},
		},
		Store: store,
	})

	if err := pipeline.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if store.schemaCalls != 0 || store.upsertCalls != 0 {
		t.Fatalf("store must not be contacted for an empty batch: schema=%d upsert=%d",
			store.schemaCalls, store.upsertCalls)
	}
}

func TestRunEnrichmentFailSoft(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	enricher := &fakeEnricher{err: errors.New("service down")}
	pipeline := NewPipeline(PipelineDeps{
		Sources:  []ports.FilingSource{&fakeSource{id: domain.SourceRegulator, recs: []domain.FilingRecord{record("https://a/1", domain.SourceRegulator)}}},
		Enricher: enricher,
		Store:    store,
	})

	if err := pipeline.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if enricher.calls != 1 {
		t.Fatalf("expected one enrichment attempt, got %d", enricher.calls)
	}
	if store.got[0].Summary != "" || store.got[0].InvestmentScore != 0 {
		t.Fatalf("failed enrichment must leave defaults, got %+v", store.got[0])
	}
}

func TestRunAppliesEnrichment(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	pipeline := NewPipeline(PipelineDeps{
		Sources:  []ports.FilingSource{&fakeSource{id: domain.SourceRegulator, recs: []domain.FilingRecord{record("https://a/1", domain.SourceRegulator)}}},
		Enricher: &fakeEnricher{enrichment: domain.Enrichment{Summary: "stake acquired", InvestmentScore: 9.1}},
		Store:    store,
	})

	if err := pipeline.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if store.got[0].Summary != "stake acquired" || store.got[0].InvestmentScore != 9.1 {
		t.Fatalf("enrichment not applied: %+v", store.got[0])
	}
}

func TestRunStoreFailureIsFatal(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(PipelineDeps{
		Sources: []ports.FilingSource{&fakeSource{id: domain.SourceRegulator, recs: []domain.FilingRecord{record("https://a/1", domain.SourceRegulator)}}},
		Store:   &fakeStore{err: errors.New("connection refused")},
	})

	if err := pipeline.Run(context.Background()); err == nil {
		t.Fatal("persistence failure must fail the cycle")
	}
}

func TestRunWithoutStoreIsSoftSkip(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(PipelineDeps{
		Sources: []ports.FilingSource{&fakeSource{id: domain.SourceRegulator, recs: []domain.FilingRecord{record("https://a/1", domain.SourceRegulator)}}},
	})

	if err := pipeline.Run(context.Background()); err != nil {
		t.Fatalf("missing store is a soft skip, got error: %v", err)
	}
}

func TestBuildDigest(t *testing.T) {
	t.Parallel()

	digest := buildDigest([]domain.FilingRecord{record("https://a/1", domain.SourceRegulator)})
	if !strings.Contains(digest, "Ingested 1 filings") {
		t.Fatalf("unexpected digest header: %q", digest)
	}
	if !strings.Contains(digest, "https://a/1") {
		t.Fatalf("digest must list filing urls: %q", digest)
	}
}
