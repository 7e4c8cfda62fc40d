package interpreter

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseAmount accepts common user-formatted amounts like:
// - "80,000"
// - "₹80000"
// - "Rs. 1,500.50"
// - "INR 2000"
//
// Keep digits, '.', and a leading '-' only.
func ParseAmount(i string) (decimal.Decimal, error) {
	s := strings.TrimSpace(i)
	if s != "" {
		s = strings.ReplaceAll(s, ",", "")
		s = strings.ReplaceAll(s, "₹", "")
		for _, sym := range []string{"INR", "inr", "Rs.", "rs.", "Rs", "rs", "RS"} {
			s = strings.ReplaceAll(s, sym, "")
		}
		s = strings.TrimSpace(s)
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	}
	// Strip everything except digits and '.'.
	var b strings.Builder
	b.Grow(len(s) + 1)
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		return decimal.Zero, fmt.Errorf("invalid amount %q", i)
	}
	if neg {
		clean = "-" + clean
	}

	val, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, err
	}
	return val, nil
}

// dateLayouts are tried in order against natural phrasings.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"January 2006",
	"Jan 2006",
	"2006",
}

// midnight floors t to the start of its calendar day, in t's location.
// Truncate is not usable here: it floors on the UTC epoch grid and shifts
// the date for zones east of UTC.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate resolves common date phrasings to a calendar date.
// Relative words resolve against the supplied "now".
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".")
	switch strings.ToLower(s) {
	case "today":
		return midnight(now), nil
	case "yesterday":
		return midnight(now.AddDate(0, 0, -1)), nil
	case "last month":
		return midnight(now.AddDate(0, -1, 0)), nil
	case "last year":
		return midnight(now.AddDate(-1, 0, 0)), nil
	}
	// Ordinal suffixes: "3rd March 2024" -> "3 March 2024".
	for _, suf := range []string{"st", "nd", "rd", "th"} {
		for d := 1; d <= 31; d++ {
			s = strings.Replace(s, fmt.Sprintf("%d%s ", d, suf), fmt.Sprintf("%d ", d), 1)
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
