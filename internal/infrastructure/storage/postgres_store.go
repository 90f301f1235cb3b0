package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"FilingScanner/internal/domain"
	"FilingScanner/internal/ports"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS investments (
    id SERIAL PRIMARY KEY,
    company TEXT,
    filing_type TEXT,
    filing_date DATE,
    source TEXT,
    url TEXT UNIQUE,
    summary TEXT,
    investment_score DOUBLE PRECISION
)`

// Open prepares a Postgres handle; no connection is established until first use.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// PostgresStore persists filing records into the investments table. The
// unique index on url makes each upsert insert-or-merge: identity fields are
// written once, only summary and investment_score are overwritten on repeat
// ingestion of a known url.
type PostgresStore struct {
	db *sql.DB
}

var _ ports.FilingStore = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the investments table if it is absent.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("store has no database handle")
	}
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create investments table: %w", err)
	}
	return nil
}

// UpsertBatch validates and writes the batch inside one transaction, so a
// crash mid-batch never leaves a partially written record.
func (s *PostgresStore) UpsertBatch(ctx context.Context, recs []domain.FilingRecord) error {
	if s.db == nil {
		return fmt.Errorf("store has no database handle")
	}
	if len(recs) == 0 {
		return nil
	}

	for _, rec := range recs {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("invalid record: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	for _, rec := range recs {
		query, args, err := upsertQuery(rec)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("build upsert for %s: %w", rec.URL, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert %s: %w", rec.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func upsertQuery(rec domain.FilingRecord) (string, []interface{}, error) {
	return sq.Insert("investments").
		Columns("company", "filing_type", "filing_date", "source", "url", "summary", "investment_score").
		Values(rec.Company, rec.FilingType, rec.FilingDate, string(rec.Source), rec.URL, rec.Summary, rec.InvestmentScore).
		Suffix("ON CONFLICT (url) DO UPDATE SET summary = EXCLUDED.summary, investment_score = EXCLUDED.investment_score").
		PlaceholderFormat(sq.Dollar).
		ToSql()
}
