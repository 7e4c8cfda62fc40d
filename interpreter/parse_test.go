package interpreter

import (
	"testing"
	"time"
)

func TestParseAmount_AcceptsFormattedStrings(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"80000", "80000"},
		{"80,000", "80000"},
		{"₹80,000", "80000"},
		{"Rs. 1,500.50", "1500.5"},
		{"INR 2000", "2000"},
		{"  rs 45,000  ", "45000"},
		{"-500", "-500"},
	}
	for _, tc := range cases {
		d, err := ParseAmount(tc.in)
		if err != nil {
			t.Fatalf("ParseAmount(%q) error: %v", tc.in, err)
		}
		if d.String() != tc.expected {
			t.Fatalf("ParseAmount(%q) expected %s, got %s", tc.in, tc.expected, d.String())
		}
	}
}

func TestParseAmount_RejectsNonNumbers(t *testing.T) {
	for _, in := range []string{"", "abc", "₹", "cheap"} {
		if _, err := ParseAmount(in); err == nil {
			t.Fatalf("ParseAmount(%q) expected error", in)
		}
	}
}

func TestParseDate_NaturalPhrasings(t *testing.T) {
	now := time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		in       string
		expected string
	}{
		{"today", "2026-08-23"},
		{"yesterday", "2026-08-22"},
		{"last month", "2026-07-23"},
		{"last year", "2025-08-23"},
		{"2024-03-03", "2024-03-03"},
		{"13/05/2023", "2023-05-13"},
		{"3rd March 2024", "2024-03-03"},
		{"21st January 2025", "2025-01-21"},
		{"January 2024", "2024-01-01"},
		{"Jan 2, 2024", "2024-01-02"},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in, now)
		if err != nil {
			t.Fatalf("ParseDate(%q) error: %v", tc.in, err)
		}
		if got := d.Format("2006-01-02"); got != tc.expected {
			t.Fatalf("ParseDate(%q) expected %s, got %s", tc.in, tc.expected, got)
		}
	}
}

func TestParseDate_RelativeDatesUseLocalCalendarDay(t *testing.T) {
	// 02:30 IST is still the previous day in UTC; "today" must stay local.
	ist := time.FixedZone("IST", 5*3600+30*60)
	now := time.Date(2026, 8, 23, 2, 30, 0, 0, ist)

	d, err := ParseDate("today", now)
	if err != nil {
		t.Fatalf("ParseDate(today) error: %v", err)
	}
	if got := d.Format("2006-01-02"); got != "2026-08-23" {
		t.Fatalf("expected 2026-08-23, got %s", got)
	}
	if d.Hour() != 0 || d.Location() != ist {
		t.Fatalf("expected midnight in the caller's zone, got %v", d)
	}

	y, err := ParseDate("yesterday", now)
	if err != nil {
		t.Fatalf("ParseDate(yesterday) error: %v", err)
	}
	if got := y.Format("2006-01-02"); got != "2026-08-22" {
		t.Fatalf("expected 2026-08-22, got %s", got)
	}
}

func TestParseDate_RejectsGarbage(t *testing.T) {
	now := time.Now()
	for _, in := range []string{"", "soonish", "the other day"} {
		if _, err := ParseDate(in, now); err == nil {
			t.Fatalf("ParseDate(%q) expected error", in)
		}
	}
}
