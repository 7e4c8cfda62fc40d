package interpreter

import (
	"strings"
	"testing"

	"github.com/campusworks/assets_backend/models"
	"github.com/shopspring/decimal"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"0", "₹0"},
		{"900", "₹900"},
		{"80000", "₹80,000"},
		{"1500.5", "₹1,500.50"},
		{"1250000", "₹1,250,000"},
		{"-500", "-₹500"},
	}
	for _, tc := range cases {
		d, _ := decimal.NewFromString(tc.in)
		if got := FormatAmount(d); got != tc.expected {
			t.Fatalf("FormatAmount(%s) expected %s, got %s", tc.in, tc.expected, got)
		}
	}
}

func TestComposeMissing_EnumeratesEverything(t *testing.T) {
	draft := &Draft{
		Intent:  IntentCreate,
		Fields:  Fields{Description: strPtr("laptop")},
		Missing: []string{"cost", "location", "department", "service tag or identification number"},
	}
	msg := ComposeMissing(draft)
	for _, want := range draft.Missing {
		if !strings.Contains(msg, want) {
			t.Fatalf("missing-field reply does not mention %q: %s", want, msg)
		}
	}
	if !strings.Contains(msg, "laptop") {
		t.Fatalf("reply should name the resource: %s", msg)
	}
}

func TestComposeCreated_NamesEveryWrittenField(t *testing.T) {
	draft := completeCreateDraft()
	store := &fakeStore{}
	created, err := store.Insert(nil, draft)
	if err != nil {
		t.Fatal(err)
	}
	msg := ComposeCreated(&ExecResult{Intent: IntentCreate, Created: created})

	for _, want := range []string{"laptop", "SVT-9", "₹80,000", "Building A", "CSE"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("created reply does not mention %q: %s", want, msg)
		}
	}
}

func TestComposeUpdated_SurfacesMatchedVsModified(t *testing.T) {
	cost := decimal.NewFromInt(900)
	draft := &Draft{
		Intent: IntentUpdate,
		Fields: Fields{Cost: &cost},
		Filter: models.ResourceFilter{Department: "CSE"},
	}
	msg := ComposeUpdated(draft, &ExecResult{Matched: 5, Modified: 3})
	if !strings.Contains(msg, "5") || !strings.Contains(msg, "3") {
		t.Fatalf("reply must surface both counts: %s", msg)
	}

	same := ComposeUpdated(draft, &ExecResult{Matched: 4, Modified: 4})
	if !strings.Contains(same, "4") {
		t.Fatalf("reply must state the count: %s", same)
	}

	none := ComposeUpdated(draft, &ExecResult{})
	if !strings.Contains(none, "nothing was changed") {
		t.Fatalf("zero-match reply should say nothing changed: %s", none)
	}
}

func TestComposeDeleted(t *testing.T) {
	draft := &Draft{Intent: IntentDelete, Filter: models.ResourceFilter{Location: "old building"}}
	msg := ComposeDeleted(draft, &ExecResult{Deleted: 3})
	if !strings.Contains(msg, "3") || !strings.Contains(msg, "old building") {
		t.Fatalf("delete reply incomplete: %s", msg)
	}
}

func TestSanitizeProse(t *testing.T) {
	if _, ok := SanitizeProse(`{"intent":"query","count":3}`); ok {
		t.Fatal("raw JSON must be rejected")
	}
	if _, ok := SanitizeProse("```json\n{\"count\": 3}\n```"); ok {
		t.Fatal("fenced JSON must be rejected")
	}
	if _, ok := SanitizeProse("   "); ok {
		t.Fatal("blank output must be rejected")
	}

	clean, ok := SanitizeProse("There are 3 laptops in Building A.")
	if !ok || clean != "There are 3 laptops in Building A." {
		t.Fatalf("plain prose rejected: %q %v", clean, ok)
	}

	clean, ok = SanitizeProse("```\nThere are 3 laptops.\n```")
	if !ok || clean != "There are 3 laptops." {
		t.Fatalf("fenced prose should be unwrapped: %q %v", clean, ok)
	}
}
