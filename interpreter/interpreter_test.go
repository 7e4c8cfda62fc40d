package interpreter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/campusworks/assets_backend/llm"
	"github.com/campusworks/assets_backend/models"
	"github.com/campusworks/assets_backend/utils"
	"github.com/shopspring/decimal"
)

type fakeLLM struct {
	reply string
	err   error
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	return f.reply, f.err
}

func (f *fakeLLM) CompleteWithSystem(ctx context.Context, system, user string) (string, error) {
	return f.reply, f.err
}

func newTestInterpreter(store *fakeStore) *Interpreter {
	return New(store, nil, nil)
}

func TestHandleInstruction_CreateEndToEnd(t *testing.T) {
	store := &fakeStore{}
	it := newTestInterpreter(store)

	res := it.HandleInstruction(context.Background(),
		"Create new laptop with service tag SVT-9 costing ₹80,000 in the main library for the CSE department",
		models.UserRoleManager)

	if res.Status != StatusOK {
		t.Fatalf("expected ok, got %s: %s", res.Status, res.Message)
	}
	if len(store.inserts) != 1 {
		t.Fatalf("expected one insert, got %d", len(store.inserts))
	}
	for _, want := range []string{"laptop", "SVT-9", "₹80,000", "main library", "CSE"} {
		if !strings.Contains(res.Message, want) {
			t.Fatalf("reply does not mention %q: %s", want, res.Message)
		}
	}
}

func TestHandleInstruction_IncompleteCreateAsksOnce(t *testing.T) {
	store := &fakeStore{}
	it := newTestInterpreter(store)

	res := it.HandleInstruction(context.Background(),
		"Create new laptop with cost ₹80000 in CSE department", models.UserRoleManager)

	if res.Status != StatusIncomplete {
		t.Fatalf("expected incomplete, got %s: %s", res.Status, res.Message)
	}
	if len(store.inserts) != 0 {
		t.Fatal("incomplete draft must not reach the store")
	}
	// both gaps reported in a single reply
	for _, want := range []string{"location", "service tag or identification number"} {
		if !strings.Contains(res.Message, want) {
			t.Fatalf("reply does not ask for %q: %s", want, res.Message)
		}
	}
}

func TestHandleInstruction_ScopedDelete(t *testing.T) {
	store := &fakeStore{deleted: 3}
	it := newTestInterpreter(store)

	res := it.HandleInstruction(context.Background(),
		"Delete all resources in old building", models.UserRoleAdmin)

	if res.Status != StatusOK {
		t.Fatalf("expected ok, got %s: %s", res.Status, res.Message)
	}
	if !strings.Contains(res.Message, "3") || !strings.Contains(res.Message, "old building") {
		t.Fatalf("delete reply incomplete: %s", res.Message)
	}
}

func TestHandleInstruction_ViewerCannotMutate(t *testing.T) {
	store := &fakeStore{deleted: 3}
	it := newTestInterpreter(store)

	res := it.HandleInstruction(context.Background(),
		"Delete all resources in old building", models.UserRoleViewer)

	if res.Status != StatusError || res.Retryable {
		t.Fatalf("expected non-retryable error, got %+v", res)
	}
	if len(store.deletes) != 0 {
		t.Fatal("store must not be touched for a viewer")
	}
}

func TestHandleInstruction_UnscopedDeleteConfirmationRoundTrip(t *testing.T) {
	store := &fakeStore{deleted: 42}
	it := newTestInterpreter(store)

	res := it.HandleInstruction(context.Background(), "Delete everything", models.UserRoleAdmin)
	if res.Status != StatusConfirm {
		t.Fatalf("expected confirm, got %s: %s", res.Status, res.Message)
	}
	if res.Draft == nil {
		t.Fatal("confirm result must carry the draft")
	}
	if len(store.deletes) != 0 {
		t.Fatal("nothing may be deleted before confirmation")
	}

	confirmed := it.ExecuteDraft(context.Background(), res.Draft, models.UserRoleAdmin)
	if confirmed.Status != StatusOK {
		t.Fatalf("confirmed delete failed: %s: %s", confirmed.Status, confirmed.Message)
	}
	if len(store.deletes) != 1 || !strings.Contains(confirmed.Message, "42") {
		t.Fatalf("expected 42 deletions, got %s", confirmed.Message)
	}
}

func TestHandleInstruction_CreateStoreOutageIsRetryable(t *testing.T) {
	store := &fakeStore{err: storeErr(errors.New("dial tcp: connection refused"))}
	it := newTestInterpreter(store)

	res := it.HandleInstruction(context.Background(),
		"Create new laptop with service tag SVT-9 costing ₹80,000 in the main library for the CSE department",
		models.UserRoleManager)

	if res.Status != StatusError || !res.Retryable {
		t.Fatalf("expected retryable error, got %+v", res)
	}
	if !strings.Contains(res.Message, "not reachable") {
		t.Fatalf("outage reply must not leak driver text: %s", res.Message)
	}
}

func TestHandleInstruction_CreateValidationMessageReachesUser(t *testing.T) {
	store := &fakeStore{err: storeErr(utils.InvalidInput("duplicate service_tag"))}
	it := newTestInterpreter(store)

	res := it.HandleInstruction(context.Background(),
		"Create new laptop with service tag SVT-9 costing ₹80,000 in the main library for the CSE department",
		models.UserRoleManager)

	if res.Status != StatusError || res.Retryable {
		t.Fatalf("expected non-retryable error, got %+v", res)
	}
	if !strings.Contains(res.Message, "duplicate service_tag") {
		t.Fatalf("validation message lost: %s", res.Message)
	}
}

func TestHandleInstruction_TotalValueQuery(t *testing.T) {
	store := &fakeStore{count: 2, total: decimal.NewFromInt(125000)}
	it := newTestInterpreter(store)

	res := it.HandleInstruction(context.Background(),
		"What's the total value of assets in Building A?", models.UserRoleViewer)

	if res.Status != StatusOK {
		t.Fatalf("expected ok, got %s: %s", res.Status, res.Message)
	}
	if !strings.Contains(res.Message, "₹125,000") || !strings.Contains(res.Message, "Building A") {
		t.Fatalf("total reply incomplete: %s", res.Message)
	}
}

func TestHandleInstruction_ChatWithoutModelFallsBack(t *testing.T) {
	store := &fakeStore{count: 4, total: decimal.NewFromInt(90000)}
	it := newTestInterpreter(store)

	res := it.HandleInstruction(context.Background(),
		"do we have any projectors?", models.UserRoleViewer)

	if res.Status != StatusOK || res.Message == "" {
		t.Fatalf("expected a prose answer, got %+v", res)
	}
	if strings.HasPrefix(strings.TrimSpace(res.Message), "{") {
		t.Fatalf("chat reply must be prose, got %s", res.Message)
	}
}

func TestHandleInstruction_ChatModelJSONIsReplaced(t *testing.T) {
	store := &fakeStore{count: 4, total: decimal.NewFromInt(90000)}
	it := New(store, &fakeLLM{reply: `{"answer": 4}`}, nil)

	res := it.HandleInstruction(context.Background(),
		"do we have any projectors?", models.UserRoleViewer)

	if res.Status != StatusOK {
		t.Fatalf("expected ok, got %+v", res)
	}
	if strings.Contains(res.Message, "{") {
		t.Fatalf("structured model output must not reach the user: %s", res.Message)
	}
}

func TestHandleInstruction_ModelTimeoutIsRetryable(t *testing.T) {
	store := &fakeStore{}
	it := New(store, &fakeLLM{err: llm.ErrTimeout}, nil)

	// incomplete create triggers the model-assisted fill
	res := it.HandleInstruction(context.Background(),
		"Create new laptop with cost ₹80000 in CSE department", models.UserRoleManager)

	if res.Status != StatusError || !res.Retryable {
		t.Fatalf("expected retryable error, got %+v", res)
	}
	if len(store.inserts) != 0 {
		t.Fatal("nothing may be written when the model call fails")
	}
}

func TestHandleInstruction_AssistFillIsTraceabilityChecked(t *testing.T) {
	store := &fakeStore{}
	// the model invents a location that the instruction never mentions
	it := New(store, &fakeLLM{reply: `{"description":"laptop","cost":80000,"location":"Server Room","department":"CSE","service_tag":null,"identification_number":null}`}, nil)

	res := it.HandleInstruction(context.Background(),
		"Create new laptop with cost ₹80000 in CSE department", models.UserRoleManager)

	if res.Status != StatusIncomplete {
		t.Fatalf("invented values must be dropped, got %s: %s", res.Status, res.Message)
	}
	if !strings.Contains(res.Message, "location") {
		t.Fatalf("location still missing, reply: %s", res.Message)
	}
}

func TestHandleInstruction_EmptyInput(t *testing.T) {
	it := newTestInterpreter(&fakeStore{})
	res := it.HandleInstruction(context.Background(), "   ", models.UserRoleViewer)
	if res.Status != StatusIncomplete {
		t.Fatalf("expected incomplete, got %+v", res)
	}
}
