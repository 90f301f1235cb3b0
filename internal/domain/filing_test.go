package domain

import "testing"

func TestSourceKnown(t *testing.T) {
	t.Parallel()

	for _, src := range []Source{SourceRegulator, SourceRepository, SourceNoticeFeed} {
		if !src.Known() {
			t.Fatalf("%s should be known", src)
		}
	}
	if Source("SOMETHING_ELSE").Known() {
		t.Fatal("unknown source accepted")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	rec := FilingRecord{Source: SourceRegulator, URL: "https://a/1"}
	if err := rec.Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	if err := (FilingRecord{Source: SourceRegulator}).Validate(); err == nil {
		t.Fatal("record without url accepted")
	}
	if err := (FilingRecord{Source: "BOGUS", URL: "https://a/1"}).Validate(); err == nil {
		t.Fatal("record with unknown source accepted")
	}
}

func TestEnrichmentApplyLeavesIdentityFields(t *testing.T) {
	t.Parallel()

	rec := FilingRecord{Company: "Acme Corp", URL: "https://a/1", Source: SourceRegulator, RawText: "text"}
	Enrichment{Summary: "stake acquired", InvestmentScore: 4.2}.Apply(&rec)

	if rec.Summary != "stake acquired" || rec.InvestmentScore != 4.2 {
		t.Fatalf("derived fields not applied: %+v", rec)
	}
	if rec.Company != "Acme Corp" || rec.RawText != "text" {
		t.Fatalf("identity fields mutated: %+v", rec)
	}
}
