package ports

import (
	"context"
	"time"

	"FilingScanner/internal/domain"
)

// FilingSource pulls filings from one external system. A Fetch that fails
// partway abandons the rest of its sequence; the orchestrator decides how to
// degrade.
type FilingSource interface {
	ID() domain.Source
	Fetch(ctx context.Context) ([]domain.FilingRecord, error)
}

// Enricher asks the external summarization service to derive a summary and
// investment score for one record. Failures are returned, never swallowed;
// the caller owns the fail-soft policy.
type Enricher interface {
	Enrich(ctx context.Context, rec domain.FilingRecord) (domain.Enrichment, error)
}

// FilingStore persists records with insert-or-merge-on-URL semantics: a URL
// already present keeps its identity fields and only takes the new summary
// and investment score. UpsertBatch runs as a single transaction.
type FilingStore interface {
	EnsureSchema(ctx context.Context) error
	UpsertBatch(ctx context.Context, recs []domain.FilingRecord) error
}

// Notifier publishes a human-readable digest of an ingestion cycle.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when ingestion cycles execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
