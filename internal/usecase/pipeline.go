package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"FilingScanner/internal/domain"
	"FilingScanner/internal/ports"
)

// PipelineDeps wires all driven adapters into the ingestion pipeline.
type PipelineDeps struct {
	Sources       []ports.FilingSource
	Enricher      ports.Enricher
	Store         ports.FilingStore
	Notifier      ports.Notifier
	SourceTimeout time.Duration
	Logger        *slog.Logger
}

// Pipeline implements one ingestion cycle: collect from every source with
// per-source failure isolation, enrich best-effort, persist the batch in one
// transaction. Cycles carry no state between runs; "already seen" detection
// is entirely the store's uniqueness constraint.
type Pipeline struct {
	sources       []ports.FilingSource
	enricher      ports.Enricher
	store         ports.FilingStore
	notifier      ports.Notifier
	sourceTimeout time.Duration
	logger        *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		sources:       deps.Sources,
		enricher:      deps.Enricher,
		store:         deps.Store,
		notifier:      deps.Notifier,
		sourceTimeout: deps.SourceTimeout,
		logger:        deps.Logger,
	}
}

// Run executes one cycle. Only persistence failure makes the cycle fail;
// source and enrichment errors degrade their own contribution and are logged.
func (p *Pipeline) Run(ctx context.Context) error {
	batch := p.collect(ctx)
	if len(batch) == 0 {
		p.info("no filings produced, store not contacted")
		return nil
	}

	p.enrichAll(ctx, batch)

	if p.store == nil {
		p.warn("no store configured, skipping persistence", "records", len(batch))
		return nil
	}

	if err := p.store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	if err := p.store.UpsertBatch(ctx, batch); err != nil {
		return fmt.Errorf("persist batch: %w", err)
	}
	p.info("cycle persisted", "records", len(batch))

	p.notify(ctx, batch)
	return nil
}

// collect drives each source under its own timeout; a failing source
// contributes zero records and never aborts the cycle.
func (p *Pipeline) collect(ctx context.Context) []domain.FilingRecord {
	var batch []domain.FilingRecord
	for _, src := range p.sources {
		fetchCtx := ctx
		cancel := func() {}
		if p.sourceTimeout > 0 {
			fetchCtx, cancel = context.WithTimeout(ctx, p.sourceTimeout)
		}

		recs, err := src.Fetch(fetchCtx)
		cancel()
		if err != nil {
			p.warn("source failed, contributing no records", "source", src.ID(), "error", err)
			continue
		}

		p.info("source produced filings", "source", src.ID(), "count", len(recs))
		batch = append(batch, recs...)
	}
	return batch
}

// enrichAll fills derived fields in place; a failed call leaves the record at
// its defaults.
func (p *Pipeline) enrichAll(ctx context.Context, batch []domain.FilingRecord) {
	if p.enricher == nil {
		return
	}

	for i := range batch {
		enrichment, err := p.enricher.Enrich(ctx, batch[i])
		if err != nil {
			p.warn("enrichment failed, keeping defaults", "url", batch[i].URL, "error", err)
			continue
		}
		enrichment.Apply(&batch[i])
	}
}

func (p *Pipeline) notify(ctx context.Context, batch []domain.FilingRecord) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.PublishDigest(ctx, buildDigest(batch)); err != nil {
		p.warn("digest publish failed", "error", err)
	}
}

func buildDigest(recs []domain.FilingRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ingested %d filings\n", len(recs))
	for _, rec := range recs {
		fmt.Fprintf(&b, "- %s %s (%s) score %.2f\n%s\n",
			rec.Company,
			rec.FilingType,
			rec.FilingDate.Format("2006-01-02"),
			rec.InvestmentScore,
			rec.URL)
	}
	return b.String()
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
