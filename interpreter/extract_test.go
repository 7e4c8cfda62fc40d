package interpreter

import (
	"context"
	"testing"
	"time"
)

func testExtract(t *testing.T, instruction string, intent Intent) *Draft {
	t.Helper()
	e := extractor{now: func() time.Time { return time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC) }}
	draft, err := e.extract(context.Background(), instruction, intent)
	if err != nil {
		t.Fatalf("extract(%q) error: %v", instruction, err)
	}
	return draft
}

func TestExtract_CreateFields(t *testing.T) {
	draft := testExtract(t, "Create new laptop with cost ₹80000 in CSE department", IntentCreate)

	if draft.Fields.Description == nil || *draft.Fields.Description != "laptop" {
		t.Fatalf("expected description laptop, got %v", draft.Fields.Description)
	}
	if draft.Fields.Cost == nil || draft.Fields.Cost.String() != "80000" {
		t.Fatalf("expected cost 80000, got %v", draft.Fields.Cost)
	}
	if draft.Fields.Department == nil || *draft.Fields.Department != "CSE" {
		t.Fatalf("expected department CSE, got %v", draft.Fields.Department)
	}
	if draft.Fields.Location != nil {
		t.Fatalf("no location stated, got %q", *draft.Fields.Location)
	}

	// missing values are enumerated, never invented
	wantMissing := map[string]bool{"location": true, "service tag or identification number": true}
	if len(draft.Missing) != len(wantMissing) {
		t.Fatalf("expected missing %v, got %v", wantMissing, draft.Missing)
	}
	for _, m := range draft.Missing {
		if !wantMissing[m] {
			t.Fatalf("unexpected missing entry %q", m)
		}
	}
}

func TestExtract_CreateWithTagLocationAndDate(t *testing.T) {
	draft := testExtract(t, "Add a new projector with service tag SVT-100 in the physics lab costing Rs. 45,000 for the ECE department, purchased on 3rd March 2024", IntentCreate)

	f := draft.Fields
	if f.Description == nil || *f.Description != "projector" {
		t.Fatalf("expected description projector, got %v", f.Description)
	}
	if f.ServiceTag == nil || *f.ServiceTag != "SVT-100" {
		t.Fatalf("expected service tag SVT-100, got %v", f.ServiceTag)
	}
	if f.Location == nil || *f.Location != "physics lab" {
		t.Fatalf("expected location physics lab, got %v", f.Location)
	}
	if f.Cost == nil || f.Cost.String() != "45000" {
		t.Fatalf("expected cost 45000, got %v", f.Cost)
	}
	if f.Department == nil || *f.Department != "ECE" {
		t.Fatalf("expected department ECE, got %v", f.Department)
	}
	if f.ProcurementDate == nil || f.ProcurementDate.Format("2006-01-02") != "2024-03-03" {
		t.Fatalf("expected procurement date 2024-03-03, got %v", f.ProcurementDate)
	}
	if len(draft.Missing) != 0 {
		t.Fatalf("expected complete draft, missing %v", draft.Missing)
	}
}

func TestExtract_UpdateSetAndFilter(t *testing.T) {
	draft := testExtract(t, "Update cost to ₹1,500 for all computers in CSE department", IntentUpdate)

	if draft.Fields.Cost == nil || draft.Fields.Cost.String() != "1500" {
		t.Fatalf("expected cost-to-set 1500, got %v", draft.Fields.Cost)
	}
	if draft.Filter.Department != "CSE" {
		t.Fatalf("expected filter department CSE, got %q", draft.Filter.Department)
	}
	if draft.Filter.DescriptionLike != "computer" {
		t.Fatalf("expected filter description computer, got %q", draft.Filter.DescriptionLike)
	}
	if len(draft.Missing) != 0 {
		t.Fatalf("expected no missing entries, got %v", draft.Missing)
	}
}

func TestExtract_UpdateWithoutNewValue(t *testing.T) {
	draft := testExtract(t, "update the projector in the physics lab", IntentUpdate)
	if len(draft.Missing) == 0 {
		t.Fatal("expected a missing entry for the value to set")
	}
}

func TestExtract_DeleteFilter(t *testing.T) {
	draft := testExtract(t, "Delete all resources in old building", IntentDelete)

	if draft.Filter.Location != "old building" {
		t.Fatalf("expected filter location old building, got %q", draft.Filter.Location)
	}
	// "resources" is a generic noun, not a description filter
	if draft.Filter.DescriptionLike != "" {
		t.Fatalf("expected no description filter, got %q", draft.Filter.DescriptionLike)
	}
}

func TestExtract_DeleteEverythingIsUnscoped(t *testing.T) {
	draft := testExtract(t, "Delete everything", IntentDelete)
	if !draft.Filter.IsEmpty() {
		t.Fatalf("expected empty filter, got %+v", draft.Filter)
	}
}

func TestExtract_QueryTotalWithLocation(t *testing.T) {
	draft := testExtract(t, "What's the total value of assets in Building A?", IntentQuery)

	if draft.QueryKind != QueryTotal {
		t.Fatalf("expected query kind total, got %s", draft.QueryKind)
	}
	if draft.Filter.Location != "Building A" {
		t.Fatalf("expected filter location Building A, got %q", draft.Filter.Location)
	}
}

func TestExtract_QueryCountWithCostComparison(t *testing.T) {
	draft := testExtract(t, "How many printers costing above ₹10,000 do we have?", IntentQuery)

	if draft.QueryKind != QueryCount {
		t.Fatalf("expected query kind count, got %s", draft.QueryKind)
	}
	if draft.Filter.CostValue == nil || draft.Filter.CostValue.String() != "10000" {
		t.Fatalf("expected cost filter 10000, got %v", draft.Filter.CostValue)
	}
	if draft.Filter.CostOp != "gt" {
		t.Fatalf("expected cost op gt, got %s", draft.Filter.CostOp)
	}
}
