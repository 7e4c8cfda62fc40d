package interpreter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/campusworks/assets_backend/llm"
	"github.com/campusworks/assets_backend/models"
	"github.com/shopspring/decimal"
)

type assistClient = llm.Client

// The model only ever fills extraction gaps or phrases answers. Control flow
// (intent, validation, gating) never depends on it, and any value it returns
// is discarded unless traceable to the instruction text.

const assistSystemPrompt = `You extract equipment fields from a campus inventory instruction.
Respond with a single JSON object with exactly these keys:
description, service_tag, identification_number, cost, location, department.
Use null for anything the instruction does not state. Copy values verbatim
from the instruction. Never guess or invent a value.`

const chatSystemPrompt = `You are the assistant of a campus equipment inventory.
Answer the question using only the inventory facts provided. Reply in one or
two plain English sentences. Never output JSON, code, markdown or field names.
If the facts do not answer the question, say so.`

type assistFields struct {
	Description          *string      `json:"description"`
	ServiceTag           *string      `json:"service_tag"`
	IdentificationNumber *string      `json:"identification_number"`
	Cost                 *json.Number `json:"cost"`
	Location             *string      `json:"location"`
	Department           *string      `json:"department"`
}

func mapLLMErr(err error) error {
	if errors.Is(err, llm.ErrTimeout) || errors.Is(err, llm.ErrUnavailable) {
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	}
	return err
}

// mergeAssist asks the model for the fields the lexical pass missed.
// Anything not literally present in the instruction text is dropped.
func (e extractor) mergeAssist(ctx context.Context, draft *Draft) error {
	raw, err := e.llm.CompleteWithSystem(ctx, assistSystemPrompt, draft.Instruction)
	if err != nil {
		return mapLLMErr(err)
	}

	parsed, ok := decodeAssistJSON(raw)
	if !ok {
		// unusable model output; the lexical result stands
		return nil
	}

	f := &draft.Fields
	if f.Description == nil && traceable(draft.Instruction, parsed.Description) {
		f.Description = parsed.Description
	}
	if f.ServiceTag == nil && traceable(draft.Instruction, parsed.ServiceTag) {
		f.ServiceTag = parsed.ServiceTag
	}
	if f.IdentificationNumber == nil && traceable(draft.Instruction, parsed.IdentificationNumber) {
		f.IdentificationNumber = parsed.IdentificationNumber
	}
	if f.Location == nil && traceable(draft.Instruction, parsed.Location) {
		f.Location = parsed.Location
	}
	if f.Department == nil && traceable(draft.Instruction, parsed.Department) {
		f.Department = parsed.Department
	}
	if f.Cost == nil && parsed.Cost != nil {
		if amount, err := ParseAmount(parsed.Cost.String()); err == nil && !amount.IsNegative() {
			// the digits must appear in the instruction
			normalized := strings.NewReplacer(",", "", "₹", "").Replace(draft.Instruction)
			if strings.Contains(normalized, amount.BigInt().String()) {
				f.Cost = &amount
			}
		}
	}
	return nil
}

// decodeAssistJSON tolerates fenced or prefixed model output by isolating
// the outermost JSON object.
func decodeAssistJSON(raw string) (assistFields, bool) {
	var parsed assistFields
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return parsed, false
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return parsed, false
	}
	return parsed, true
}

func traceable(instruction string, value *string) bool {
	if value == nil || strings.TrimSpace(*value) == "" {
		return false
	}
	return strings.Contains(strings.ToLower(instruction), strings.ToLower(strings.TrimSpace(*value)))
}

// answerChat handles the informational path. Inventory facts are fetched
// deterministically; the model only phrases them. When the model is disabled
// or returns structured output, a deterministic summary is used instead.
func (it *Interpreter) answerChat(ctx context.Context, draft *Draft) (string, error) {
	count, err := it.Store.Count(ctx, draft.Filter)
	if err != nil {
		return "", err
	}
	total, err := it.Store.SumCost(ctx, draft.Filter)
	if err != nil {
		return "", err
	}
	rows, err := it.Store.Find(ctx, draft.Filter, 5)
	if err != nil {
		return "", err
	}

	deterministic := composeChatFallback(draft, count, total, rows)
	client := it.assist()
	if client == nil {
		return deterministic, nil
	}

	var facts strings.Builder
	fmt.Fprintf(&facts, "Matching records: %d\n", count)
	fmt.Fprintf(&facts, "Total cost of matching records: %s\n", FormatAmount(total))
	if crit := draft.Filter.Criteria(); len(crit) > 0 {
		fmt.Fprintf(&facts, "Criteria applied: %s\n", joinNatural(crit))
	}
	for _, r := range rows {
		fmt.Fprintf(&facts, "- %s, %s, %s department, cost %s\n", r.Description, r.Location, r.Department, FormatAmount(r.Cost))
	}

	raw, err := client.CompleteWithSystem(ctx, chatSystemPrompt,
		"Question: "+draft.Instruction+"\n\nInventory facts:\n"+facts.String())
	if err != nil {
		return "", mapLLMErr(err)
	}
	if clean, ok := SanitizeProse(raw); ok {
		return clean, nil
	}
	return deterministic, nil
}

func composeChatFallback(draft *Draft, count int64, total decimal.Decimal, rows []*models.Resource) string {
	scope := scopePhrase(draft.Filter.Criteria())
	if count == 0 {
		return fmt.Sprintf("I found no inventory records matching %s.", scope)
	}
	msg := fmt.Sprintf("I found %s matching %s, worth %s in total.",
		countNoun(count, "record"), scope, FormatAmount(total))
	if len(rows) > 0 && count <= int64(len(rows)) {
		var names []string
		for _, r := range rows {
			names = append(names, r.Description)
		}
		msg += " They are: " + joinNatural(names) + "."
	}
	return msg
}
