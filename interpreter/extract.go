package interpreter

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/campusworks/assets_backend/models"
)

// Extraction is best-effort and strictly non-inventive: every value placed in
// the draft is traceable to the instruction text. Absent required values
// surface in Missing; nothing is ever guessed.

var (
	reAmount = `(?:₹|rs\.?\s*|inr\s*)?\s*[\d][\d,]*(?:\.\d+)?`

	reCost     = regexp.MustCompile(`(?i)\b(?:cost(?:ing)?|price|worth)\s*(?:of|is|at|=|:)?\s*(` + reAmount + `)`)
	reCostSet  = regexp.MustCompile(`(?i)\b(?:cost|price)\s*(?:to|=|:)\s*(` + reAmount + `)`)
	reCurrency = regexp.MustCompile(`(?i)(?:₹|rs\.?\s|inr\s)\s*([\d][\d,]*(?:\.\d+)?)`)

	reCostCmp = regexp.MustCompile(`(?i)\bcost(?:ing)?\s+(above|over|more than|greater than|at least|below|under|less than|at most|exactly|equal to)\s*(` + reAmount + `)`)

	// department names are 1-3 words right before "department"/"dept"
	reDeptPhrase   = regexp.MustCompile(`(?i)\b(?:in|of|for|from)\s+(?:the\s+)?([A-Za-z&.]+(?:\s+[A-Za-z&.]+){0,2}?)\s+(?:department|dept)\b`)
	reDeptExplicit = regexp.MustCompile(`(?i)\bdepartment\s*(?:is|=|:)\s*([A-Za-z&.\-]+)`)
	reDeptSet      = regexp.MustCompile(`(?i)\bdepartment\s+to\s+([A-Za-z&.\-]+(?:\s+[A-Za-z&.\-]+)?)`)

	locationCue    = `(?:building|block|lab|laboratory|room|hall|library|office|floor|wing|campus|hostel|auditorium|centre|center)`
	// the optional tail picks up designators like "Building A" or "Room 101"
	// without swallowing the following word
	reLocCue = regexp.MustCompile(`(?i)\b(?:in|at|inside|from)\s+(?:the\s+)?([A-Za-z0-9.\- ]*?` + locationCue + `(?:\s+\d+[A-Za-z0-9]*|\s+[A-Za-z]\b)?)`)
	reLocExplicit  = regexp.MustCompile(`(?i)\blocation\s*(?:is|=|:)\s*([A-Za-z0-9.\- ]+?)(?:\s+(?:and|with|for)\b|[,.?]|$)`)
	reLocSet       = regexp.MustCompile(`(?i)\b(?:location\s+to|move[d]?\s+to|relocate[d]?\s+to)\s+([A-Za-z0-9.\- ]+?)(?:\s+(?:and|with|for)\b|[,.?]|$)`)
	reDescSet      = regexp.MustCompile(`(?i)\bdescription\s+to\s+([^,.?]+)`)
	reServiceTag   = regexp.MustCompile(`(?i)\bservice\s*tag\s*(?:is|=|:|number)?\s*([A-Za-z0-9\-]+)`)
	reServiceSet   = regexp.MustCompile(`(?i)\bservice\s*tag\s+to\s+([A-Za-z0-9\-]+)`)
	reIdentNumber  = regexp.MustCompile(`(?i)\b(?:identification\s*(?:number|no\.?)?|id\s*(?:number|no\.?))\s*(?:is|=|:)?\s*([A-Za-z0-9\-/]+)`)
	reProcuredDate = regexp.MustCompile(`(?i)\b(?:procured|purchased|bought|acquired)\s*(?:on|in|at|:)?\s+([A-Za-z0-9,/\- ]+?)(?:[.?]|$|\s+(?:with|and|for|in|at)\b)`)
	reBeforeDate   = regexp.MustCompile(`(?i)\b(?:procured|purchased|bought|acquired)\s+before\s+([A-Za-z0-9,/\- ]+?)(?:[.?]|$)`)
	reAfterDate    = regexp.MustCompile(`(?i)\b(?:procured|purchased|bought|acquired)\s+(?:after|since)\s+([A-Za-z0-9,/\- ]+?)(?:[.?]|$)`)

	reCreateDesc = regexp.MustCompile(`(?i)^(?:please\s+)?(?:create|add|register|insert)\s+(?:a\s+new\s+|a\s+|an\s+|new\s+)*(.+?)(?:\s+(?:with|in|at|for|to|costing|cost|worth|priced|procured|purchased|bought|under)\b|[,.?]|$)`)
	reAllNoun    = regexp.MustCompile(`(?i)\ball\s+(?:the\s+)?([A-Za-z][A-Za-z\- ]*?)(?:\s+(?:in|at|with|from|where|which|that|costing|cost|procured|purchased)\b|[,.?]|$)`)
)

// genericNouns never become a description filter; they mean "any resource".
var genericNouns = map[string]bool{
	"resource": true, "asset": true, "item": true, "record": true,
	"equipment": true, "entry": true, "entries": true, "everything": true,
	"them": true, "thing": true,
}

type extractor struct {
	llm assistClient
	now func() time.Time
}

// Extract builds a draft operation for the classified intent. It may consult
// the language service for create drafts, but model output is merged only
// when traceable to the instruction text (see mergeAssist).
func (it *Interpreter) Extract(ctx context.Context, instruction string, intent Intent) (*Draft, error) {
	e := extractor{llm: it.assist(), now: it.clock()}
	return e.extract(ctx, instruction, intent)
}

func (e extractor) extract(ctx context.Context, instruction string, intent Intent) (*Draft, error) {
	draft := &Draft{
		Intent:      intent,
		Instruction: instruction,
	}

	switch intent {
	case IntentCreate:
		e.extractCreateFields(instruction, draft)
		draft.Missing = requiredMissing(draft)
		// The model may fill gaps the lexical pass missed, never invent.
		if len(draft.Missing) > 0 && e.llm != nil {
			if err := e.mergeAssist(ctx, draft); err != nil {
				return nil, err
			}
			draft.Missing = requiredMissing(draft)
		}
	case IntentUpdate:
		e.extractSetFields(instruction, draft)
		draft.Filter = e.extractFilter(instruction, draft.Fields)
		draft.Missing = requiredMissing(draft)
	case IntentDelete:
		draft.Filter = e.extractFilter(instruction, Fields{})
	case IntentQuery, IntentChat:
		draft.QueryKind = queryKind(instruction)
		draft.Filter = e.extractFilter(instruction, Fields{})
	}

	return draft, nil
}

func (e extractor) extractCreateFields(text string, draft *Draft) {
	f := &draft.Fields

	if m := reCreateDesc.FindStringSubmatch(text); m != nil {
		desc := strings.TrimSpace(m[1])
		if desc != "" && !genericNouns[strings.ToLower(strings.TrimSuffix(desc, "s"))] {
			f.Description = &desc
		}
	}
	if m := reCost.FindStringSubmatch(text); m != nil {
		if amount, err := ParseAmount(m[1]); err == nil && !amount.IsNegative() {
			f.Cost = &amount
		}
	} else if m := reCurrency.FindStringSubmatch(text); m != nil {
		if amount, err := ParseAmount(m[1]); err == nil && !amount.IsNegative() {
			f.Cost = &amount
		}
	}
	if dept := matchDepartment(text); dept != "" {
		f.Department = &dept
	}
	if loc := matchLocation(text); loc != "" {
		f.Location = &loc
	}
	if m := reServiceTag.FindStringSubmatch(text); m != nil {
		tag := m[1]
		f.ServiceTag = &tag
	}
	if m := reIdentNumber.FindStringSubmatch(text); m != nil {
		id := m[1]
		f.IdentificationNumber = &id
	}
	if m := reProcuredDate.FindStringSubmatch(text); m != nil {
		if d, err := ParseDate(m[1], e.now()); err == nil && !d.After(e.now()) {
			f.ProcurementDate = &d
		}
	}
}

func (e extractor) extractSetFields(text string, draft *Draft) {
	f := &draft.Fields

	if m := reCostSet.FindStringSubmatch(text); m != nil {
		if amount, err := ParseAmount(m[1]); err == nil && !amount.IsNegative() {
			f.Cost = &amount
		}
	}
	if m := reLocSet.FindStringSubmatch(text); m != nil {
		loc := strings.TrimSpace(m[1])
		f.Location = &loc
	}
	if m := reDeptSet.FindStringSubmatch(text); m != nil {
		dept := strings.TrimSpace(m[1])
		// "department to ECE department" keeps just the name
		dept = strings.TrimSuffix(dept, " department")
		f.Department = &dept
	}
	if m := reDescSet.FindStringSubmatch(text); m != nil {
		desc := strings.TrimSpace(m[1])
		f.Description = &desc
	}
	if m := reServiceSet.FindStringSubmatch(text); m != nil {
		tag := m[1]
		f.ServiceTag = &tag
	}
}

// extractFilter finds targeting criteria. Values already claimed as
// fields-to-set are not reused as filter criteria.
func (e extractor) extractFilter(text string, set Fields) models.ResourceFilter {
	var filter models.ResourceFilter

	if dept := matchDepartment(text); dept != "" && (set.Department == nil || *set.Department != dept) {
		filter.Department = dept
	}
	if loc := matchLocation(text); loc != "" && (set.Location == nil || *set.Location != loc) {
		filter.Location = loc
	}
	if m := reServiceTag.FindStringSubmatch(text); m != nil && (set.ServiceTag == nil || *set.ServiceTag != m[1]) {
		filter.ServiceTag = m[1]
	}
	if m := reIdentNumber.FindStringSubmatch(text); m != nil {
		filter.IdentificationNumber = m[1]
	}
	if m := reCostCmp.FindStringSubmatch(text); m != nil {
		if amount, err := ParseAmount(m[2]); err == nil {
			filter.CostOp = costOpFromWord(m[1])
			filter.CostValue = &amount
		}
	}
	if m := reBeforeDate.FindStringSubmatch(text); m != nil {
		if d, err := ParseDate(m[1], e.now()); err == nil {
			filter.ProcuredBefore = &d
		}
	} else if m := reAfterDate.FindStringSubmatch(text); m != nil {
		if d, err := ParseDate(m[1], e.now()); err == nil {
			filter.ProcuredAfter = &d
		}
	}
	if m := reAllNoun.FindStringSubmatch(text); m != nil {
		noun := strings.ToLower(strings.TrimSpace(m[1]))
		noun = strings.TrimSuffix(noun, "s")
		if noun != "" && !genericNouns[noun] {
			filter.DescriptionLike = noun
		}
	}

	return filter
}

func matchDepartment(text string) string {
	if m := reDeptPhrase.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := reDeptExplicit.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func matchLocation(text string) string {
	if m := reLocExplicit.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := reLocCue.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func costOpFromWord(word string) models.CostOp {
	switch strings.ToLower(strings.TrimSpace(word)) {
	case "above", "over", "more than", "greater than":
		return models.CostOpGt
	case "at least":
		return models.CostOpGte
	case "below", "under", "less than":
		return models.CostOpLt
	case "at most":
		return models.CostOpLte
	default:
		return models.CostOpEq
	}
}

func queryKind(text string) QueryKind {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, []string{"how many", "count"}):
		return QueryCount
	case containsAny(lower, []string{"total value", "total cost", "total worth", "worth of", "sum of", "how much"}):
		return QueryTotal
	default:
		return QueryList
	}
}
