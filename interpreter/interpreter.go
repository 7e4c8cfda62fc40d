package interpreter

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/campusworks/assets_backend/config"
	"github.com/campusworks/assets_backend/llm"
	"github.com/campusworks/assets_backend/models"
	"github.com/sirupsen/logrus"
)

// Interpreter owns one instruction pipeline: classify, extract, validate,
// execute, compose. It is stateless between instructions; conversational
// state (confirmation drafts, history) lives with the caller.
type Interpreter struct {
	Store  InventoryStore
	LLM    llm.Client
	Logger *logrus.Logger

	// Now is overridable for tests with relative-date instructions.
	Now func() time.Time
}

func New(store InventoryStore, client llm.Client, logger *logrus.Logger) *Interpreter {
	return &Interpreter{Store: store, LLM: client, Logger: logger}
}

func (it *Interpreter) assist() llm.Client {
	return it.LLM
}

func (it *Interpreter) clock() func() time.Time {
	if it.Now != nil {
		return it.Now
	}
	return time.Now
}

func (it *Interpreter) logErr(funcName string, instruction string, data any, err error) {
	if it.Logger == nil {
		return
	}
	config.LogError(it.Logger, "interpreter", funcName, instruction, data, err)
}

// HandleInstruction runs one instruction end to end and always returns a
// user-presentable Result; pipeline errors become error results, never
// panics or raw errors.
func (it *Interpreter) HandleInstruction(ctx context.Context, instruction string, role models.UserRole) *Result {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return &Result{
			Status:  StatusIncomplete,
			Message: "Please type an instruction or a question about the inventory.",
		}
	}

	intent := Classify(instruction)

	draft, err := it.Extract(ctx, instruction, intent)
	if err != nil {
		it.logErr("HandleInstruction", instruction, nil, err)
		return it.resultFromError(err, nil)
	}

	if intent == IntentChat {
		message, err := it.answerChat(ctx, draft)
		if err != nil {
			it.logErr("HandleInstruction", instruction, nil, err)
			return it.resultFromError(err, draft)
		}
		return &Result{Status: StatusOK, Message: message, Data: telemetry(draft, nil)}
	}

	verdict := Validate(draft)
	if !verdict.Complete {
		return &Result{
			Status:  StatusIncomplete,
			Message: ComposeMissing(draft),
			Data:    telemetry(draft, nil),
			Draft:   draft,
		}
	}

	return it.run(ctx, draft, role, false)
}

// ExecuteDraft resumes a confirmed draft from an earlier StatusConfirm
// result. The caller is responsible for having obtained the confirmation.
func (it *Interpreter) ExecuteDraft(ctx context.Context, draft *Draft, role models.UserRole) *Result {
	return it.run(ctx, draft, role, true)
}

func (it *Interpreter) run(ctx context.Context, draft *Draft, role models.UserRole, confirmed bool) *Result {
	exec, err := Execute(ctx, it.Store, draft, role, confirmed)
	if err != nil {
		if !errors.Is(err, ErrConfirmationRequired) && !errors.Is(err, ErrUnauthorized) {
			it.logErr("Execute", draft.Instruction, telemetry(draft, nil), err)
		}
		return it.resultFromError(err, draft)
	}

	var message string
	switch draft.Intent {
	case IntentCreate:
		message = ComposeCreated(exec)
	case IntentUpdate:
		message = ComposeUpdated(draft, exec)
	case IntentDelete:
		message = ComposeDeleted(draft, exec)
	default:
		message = ComposeQuery(draft, exec)
	}

	if it.Logger != nil {
		it.Logger.WithFields(logrus.Fields{
			"module":   "interpreter",
			"intent":   draft.Intent,
			"matched":  exec.Matched,
			"modified": exec.Modified,
			"deleted":  exec.Deleted,
		}).Info("instruction executed")
	}

	return &Result{Status: StatusOK, Message: message, Data: telemetry(draft, exec)}
}

func (it *Interpreter) resultFromError(err error, draft *Draft) *Result {
	switch {
	case errors.Is(err, ErrConfirmationRequired):
		return &Result{
			Status:  StatusConfirm,
			Message: ComposeConfirm(draft),
			Data:    telemetry(draft, nil),
			Draft:   draft,
		}
	case errors.Is(err, ErrUnauthorized):
		return &Result{
			Status:  StatusError,
			Message: "Your account is not allowed to change the inventory. Ask an admin or manager to do this, or request a role upgrade.",
		}
	case errors.Is(err, ErrStoreUnavailable):
		return &Result{
			Status:    StatusError,
			Retryable: true,
			Message:   "The inventory database is not reachable right now. Nothing was changed; please try again in a moment.",
		}
	case errors.Is(err, ErrUpstreamTimeout):
		return &Result{
			Status:    StatusError,
			Retryable: true,
			Message:   "The language service did not respond in time. Nothing was changed; please try again.",
		}
	default:
		// validation messages from the model layer are user-meaningful
		// ("cost must not be negative", "service tag already exists")
		return &Result{Status: StatusError, Message: "I could not complete that: " + err.Error() + "."}
	}
}

// telemetry is structured data for logs and clients that want machine-readable
// context. It is never the user-facing reply.
func telemetry(draft *Draft, exec *ExecResult) map[string]interface{} {
	if draft == nil {
		return nil
	}
	data := map[string]interface{}{
		"intent": string(draft.Intent),
	}
	if draft.QueryKind != "" {
		data["query_kind"] = string(draft.QueryKind)
	}
	if len(draft.Missing) > 0 {
		data["missing"] = draft.Missing
	}
	if crit := draft.Filter.Criteria(); len(crit) > 0 {
		data["criteria"] = crit
	}
	if exec != nil {
		data["matched"] = exec.Matched
		data["modified"] = exec.Modified
		data["deleted"] = exec.Deleted
		data["count"] = exec.Count
	}
	return data
}
