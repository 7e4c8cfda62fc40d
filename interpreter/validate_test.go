package interpreter

import (
	"testing"

	"github.com/campusworks/assets_backend/models"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func completeCreateDraft() *Draft {
	cost := decimal.NewFromInt(80000)
	return &Draft{
		Intent: IntentCreate,
		Fields: Fields{
			Description: strPtr("laptop"),
			Cost:        &cost,
			Location:    strPtr("Building A"),
			Department:  strPtr("CSE"),
			ServiceTag:  strPtr("SVT-9"),
		},
	}
}

func TestValidate_CreateComplete(t *testing.T) {
	draft := completeCreateDraft()
	draft.Missing = requiredMissing(draft)
	v := Validate(draft)
	if !v.Complete || len(v.Missing) != 0 {
		t.Fatalf("expected complete draft, got %+v", v)
	}
}

func TestValidate_IdentificationEitherOr(t *testing.T) {
	// identification number alone satisfies the identity requirement
	draft := completeCreateDraft()
	draft.Fields.ServiceTag = nil
	draft.Fields.IdentificationNumber = strPtr("CSE/2024/017")
	if v := Validate(draft); !v.Complete {
		t.Fatalf("identification number alone should be sufficient, missing %v", v.Missing)
	}

	// neither present: reported as a single missing item
	draft.Fields.IdentificationNumber = nil
	v := Validate(draft)
	if v.Complete {
		t.Fatal("expected incomplete draft")
	}
	if len(v.Missing) != 1 || v.Missing[0] != "service tag or identification number" {
		t.Fatalf("expected the either-or item, got %v", v.Missing)
	}
}

func TestValidate_CreateEnumeratesAllMissing(t *testing.T) {
	draft := &Draft{Intent: IntentCreate}
	v := Validate(draft)
	if v.Complete {
		t.Fatal("expected incomplete draft")
	}
	if len(v.Missing) != 5 {
		t.Fatalf("expected all 5 required items reported at once, got %v", v.Missing)
	}
}

func TestValidate_UpdateNeedsAValueToSet(t *testing.T) {
	draft := &Draft{Intent: IntentUpdate, Filter: models.ResourceFilter{Department: "CSE"}}
	v := Validate(draft)
	if v.Complete {
		t.Fatalf("expected incomplete update, got %+v", v)
	}
}

func TestValidate_UnscopedDestructiveFlag(t *testing.T) {
	cost := decimal.NewFromInt(100)
	update := &Draft{Intent: IntentUpdate, Fields: Fields{Cost: &cost}}
	if v := Validate(update); !v.Unscoped || !v.Complete {
		t.Fatalf("expected complete but unscoped update, got %+v", v)
	}

	del := &Draft{Intent: IntentDelete}
	if v := Validate(del); !v.Unscoped {
		t.Fatalf("expected unscoped delete, got %+v", v)
	}

	scoped := &Draft{Intent: IntentDelete, Filter: models.ResourceFilter{Location: "old building"}}
	if v := Validate(scoped); v.Unscoped {
		t.Fatalf("scoped delete flagged unscoped: %+v", v)
	}

	// queries are never gated
	query := &Draft{Intent: IntentQuery, QueryKind: QueryCount}
	if v := Validate(query); !v.Complete || v.Unscoped {
		t.Fatalf("expected plain complete query, got %+v", v)
	}
}
