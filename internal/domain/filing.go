package domain

import (
	"fmt"
	"time"
)

// Source identifies which external system produced a filing.
type Source string

const (
	SourceRegulator  Source = "REGULATOR_A"
	SourceRepository Source = "DOCUMENT_REPOSITORY"
	SourceNoticeFeed Source = "NOTICE_FEED"
)

// Known reports whether the source belongs to the closed provenance set.
func (s Source) Known() bool {
	switch s {
	case SourceRegulator, SourceRepository, SourceNoticeFeed:
		return true
	}
	return false
}

// FilingRecord is the canonical entity describing one disclosure filing.
// URL is the natural unique key; Summary and InvestmentScore stay at their
// zero values until enrichment succeeds.
type FilingRecord struct {
	Company         string
	FilingType      string
	FilingDate      time.Time
	Source          Source
	URL             string
	RawText         string
	Summary         string
	InvestmentScore float64
}

// Validate checks the fields the store is allowed to rely on.
func (r FilingRecord) Validate() error {
	if r.URL == "" {
		return fmt.Errorf("filing record has no url")
	}
	if !r.Source.Known() {
		return fmt.Errorf("filing %s: unknown source %q", r.URL, r.Source)
	}
	return nil
}

// Enrichment carries the derived fields produced by the enrichment service.
type Enrichment struct {
	Summary         string
	InvestmentScore float64
}

// Apply copies the derived fields onto the record, leaving identity fields alone.
func (e Enrichment) Apply(r *FilingRecord) {
	r.Summary = e.Summary
	r.InvestmentScore = e.InvestmentScore
}
