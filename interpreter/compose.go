package interpreter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Composers render every outcome as plain prose. Raw records, JSON, and
// internal status vocabulary never reach the user through these.

// FormatAmount renders a rupee amount with thousands grouping.
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]
	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}
	out := "₹" + grouped.String()
	if len(parts) == 2 && parts[1] != "00" {
		out += "." + parts[1]
	}
	if neg {
		out = "-" + out
	}
	return out
}

// joinNatural renders a list as "a, b and c".
func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

func scopePhrase(criteria []string) string {
	if len(criteria) == 0 {
		return "every record in the inventory"
	}
	return "records with " + joinNatural(criteria)
}

// ComposeMissing enumerates every absent required field in one reply, so the
// user can supply all of them in a single follow-up.
func ComposeMissing(draft *Draft) string {
	subject := "that resource"
	if draft.Fields.Description != nil {
		subject = "the " + *draft.Fields.Description
	}
	verb := "create"
	if draft.Intent == IntentUpdate {
		verb = "update"
	}
	return fmt.Sprintf("I can %s %s once I also have the %s. Could you provide %s?",
		verb, subject, joinNatural(draft.Missing), pluralThatValue(len(draft.Missing)))
}

func pluralThatValue(n int) string {
	if n == 1 {
		return "that value"
	}
	return "those values"
}

// ComposeCreated names every field that was written, so the user can verify
// nothing was invented.
func ComposeCreated(res *ExecResult) string {
	r := res.Created
	var parts []string
	parts = append(parts, fmt.Sprintf("described as %q", r.Description))
	if r.ServiceTag != nil {
		parts = append(parts, "service tag "+*r.ServiceTag)
	}
	if r.IdentificationNumber != nil {
		parts = append(parts, "identification number "+*r.IdentificationNumber)
	}
	parts = append(parts, "cost "+FormatAmount(r.Cost))
	parts = append(parts, "located at "+r.Location)
	parts = append(parts, "assigned to the "+r.Department+" department")
	parts = append(parts, "procurement date "+r.ProcurementDate.Format("2 January 2006"))
	return "Done. I added a new resource " + joinNatural(parts) + "."
}

// ComposeUpdated reports matched and modified separately when they differ.
func ComposeUpdated(draft *Draft, res *ExecResult) string {
	scope := scopePhrase(draft.Filter.Criteria())
	changed := joinNatural(describeChanges(draft.Fields))

	if res.Matched == 0 {
		return fmt.Sprintf("No records matched %s, so nothing was changed.", scope)
	}
	if res.Modified == res.Matched {
		return fmt.Sprintf("Updated %s matching %s: set %s.",
			countNoun(res.Modified, "record"), scope, changed)
	}
	return fmt.Sprintf("%s matched %s, but only %s actually changed (the rest already had those values). I set %s.",
		capitalize(countNoun(res.Matched, "record")), scope, countNoun(res.Modified, "record"), changed)
}

func describeChanges(f Fields) []string {
	var out []string
	if f.Description != nil {
		out = append(out, fmt.Sprintf("description to %q", *f.Description))
	}
	if f.ServiceTag != nil {
		out = append(out, "service tag to "+*f.ServiceTag)
	}
	if f.IdentificationNumber != nil {
		out = append(out, "identification number to "+*f.IdentificationNumber)
	}
	if f.ProcurementDate != nil {
		out = append(out, "procurement date to "+f.ProcurementDate.Format("2 January 2006"))
	}
	if f.Cost != nil {
		out = append(out, "cost to "+FormatAmount(*f.Cost))
	}
	if f.Location != nil {
		out = append(out, "location to "+*f.Location)
	}
	if f.Department != nil {
		out = append(out, "department to "+*f.Department)
	}
	return out
}

func ComposeDeleted(draft *Draft, res *ExecResult) string {
	scope := scopePhrase(draft.Filter.Criteria())
	if res.Deleted == 0 {
		return fmt.Sprintf("No records matched %s, so nothing was deleted.", scope)
	}
	return fmt.Sprintf("Deleted %s matching %s.", countNoun(res.Deleted, "record"), scope)
}

func ComposeQuery(draft *Draft, res *ExecResult) string {
	scope := scopePhrase(draft.Filter.Criteria())

	switch res.QueryKind {
	case QueryCount:
		if res.Count == 0 {
			return fmt.Sprintf("There are no %s.", scope)
		}
		return fmt.Sprintf("There are %s matching %s.", countNoun(res.Count, "resource"), scope)
	case QueryTotal:
		if res.Count == 0 {
			return fmt.Sprintf("No records matched %s, so the total value is %s.", scope, FormatAmount(decimal.Zero))
		}
		return fmt.Sprintf("The total value of %s matching %s is %s.",
			countNoun(res.Count, "resource"), scope, FormatAmount(res.Total))
	default:
		if len(res.Rows) == 0 {
			return fmt.Sprintf("I found no resources matching %s.", scope)
		}
		var lines []string
		for _, r := range res.Rows {
			line := fmt.Sprintf("%s (%s, %s department, %s)", r.Description, r.Location, r.Department, FormatAmount(r.Cost))
			if r.ServiceTag != nil {
				line = fmt.Sprintf("%s (service tag %s, %s, %s department, %s)",
					r.Description, *r.ServiceTag, r.Location, r.Department, FormatAmount(r.Cost))
			}
			lines = append(lines, line)
		}
		return fmt.Sprintf("I found %s matching %s: %s.",
			countNoun(int64(len(res.Rows)), "resource"), scope, joinNatural(lines))
	}
}

// ComposeConfirm asks before a destructive operation that targets every
// record in the inventory.
func ComposeConfirm(draft *Draft) string {
	action := "delete"
	if draft.Intent == IntentUpdate {
		action = "update"
	}
	return fmt.Sprintf("Your instruction would %s every record in the inventory because it names no specific criteria. Reply with the confirmation token to proceed, or narrow the instruction (for example by department or location).", action)
}

func countNoun(n int64, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// SanitizeProse cleans model output for direct display. Returns ok=false
// when the text is structured data (JSON) rather than prose, so the caller
// falls back to a deterministic reply.
func SanitizeProse(s string) (string, bool) {
	s = strings.TrimSpace(s)
	// strip markdown fences the model sometimes wraps answers in
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if i := strings.Index(s, "\n"); i >= 0 && !strings.ContainsAny(s[:i], " \t") {
			s = s[i+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if s == "" {
		return "", false
	}
	if (strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")) && json.Valid([]byte(s)) {
		return "", false
	}
	return s, true
}
