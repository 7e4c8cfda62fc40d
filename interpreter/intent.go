package interpreter

import (
	"regexp"
	"strings"
)

// Intent detection is deterministic keyword/pattern matching; the language
// model is never consulted for control decisions. Anything ambiguous or
// verb-less falls through to the chat path, which cannot mutate data.

var (
	createVerbs = []string{"create", "add", "register", "insert", "new entry"}
	updateVerbs = []string{"update", "set", "change", "modify", "edit", "rename", "move"}
	deleteVerbs = []string{"delete", "remove", "drop", "scrap", "dispose", "discard"}

	questionCues = []string{
		"how many", "how much", "what is", "what's", "whats", "which", "where",
		"who", "when", "show me", "show all", "list", "display", "find",
		"count", "total value", "total cost", "summary", "summarize", "report",
		"tell me", "do we have", "are there", "is there",
	}

	// "add 500 to the cost" style phrasing is an update, not a create.
	updateOverCreate = regexp.MustCompile(`(?i)\b(?:cost|price|location|department|description)\s+to\b`)
)

// containsAny matches needles on word boundaries; "specialist" must not
// trigger the "list" cue.
func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if containsWord(text, n) {
			return true
		}
	}
	return false
}

// containsWord is a boundary-checked strings.Contains. Needles may be
// multi-word phrases; text is already lowercased.
func containsWord(text, needle string) bool {
	for start := 0; ; {
		i := strings.Index(text[start:], needle)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(needle)
		if (i == 0 || !isWordByte(text[i-1])) && (end == len(text) || !isWordByte(text[end])) {
			return true
		}
		start = i + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '\''
}

func startsWithAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.HasPrefix(text, n+" ") || text == n {
			return true
		}
	}
	return false
}

// Classify maps instruction text to an intent. Question phrasing wins over
// mutation verbs appearing mid-sentence ("how many laptops were added?" is a
// question, not a create). No side effects.
func Classify(instruction string) Intent {
	text := strings.ToLower(strings.TrimSpace(instruction))
	if text == "" {
		return IntentChat
	}

	isQuestion := strings.HasSuffix(text, "?") || containsAny(text, questionCues)
	mutationLeads := startsWithAny(text, createVerbs) || startsWithAny(text, updateVerbs) || startsWithAny(text, deleteVerbs)

	// Interrogative phrasing without a leading imperative is informational.
	if isQuestion && !mutationLeads {
		if wantsAggregate(text) {
			return IntentQuery
		}
		return IntentChat
	}

	switch {
	case startsWithAny(text, deleteVerbs):
		return IntentDelete
	case startsWithAny(text, updateVerbs):
		return IntentUpdate
	case startsWithAny(text, createVerbs):
		if updateOverCreate.MatchString(text) && !strings.Contains(text, " new ") {
			return IntentUpdate
		}
		return IntentCreate
	}

	// Mutation verb buried mid-sentence is still a command ("please update
	// the cost ..."), but only when the phrasing is not interrogative.
	if !isQuestion {
		switch {
		case containsAny(text, deleteVerbs):
			return IntentDelete
		case containsAny(text, []string{"update", "change", "modify"}):
			return IntentUpdate
		case containsAny(text, []string{"create", "register"}):
			return IntentCreate
		}
	}

	if wantsAggregate(text) {
		return IntentQuery
	}

	// Uncertain input must never mutate data.
	return IntentChat
}

func wantsAggregate(text string) bool {
	return containsAny(text, []string{
		"how many", "count", "total value", "total cost", "total worth",
		"sum of", "worth of", "show all", "show me", "list", "display",
	})
}
