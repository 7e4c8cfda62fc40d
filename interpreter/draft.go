// Package interpreter turns free-text inventory instructions into validated
// data operations: classify intent, extract fields, validate completeness,
// execute against the store, and compose a natural-language reply.
//
// Each instruction is handled by one stateless pipeline invocation; drafts
// never outlive the invocation that built them.
package interpreter

import (
	"time"

	"github.com/campusworks/assets_backend/models"
	"github.com/shopspring/decimal"
)

// Intent identifies the operation the user wants.
type Intent string

const (
	IntentCreate Intent = "create"
	IntentQuery  Intent = "query"
	IntentUpdate Intent = "update"
	IntentDelete Intent = "delete"
	// IntentChat is the safe default: uncertain input is answered, never executed.
	IntentChat Intent = "chat"
)

// QueryKind is the aggregate a query instruction asks for.
type QueryKind string

const (
	QueryCount QueryKind = "count"
	QueryTotal QueryKind = "total"
	QueryList  QueryKind = "list"
)

// Fields are the values a create/update instruction wants written.
// Nil means "not mentioned"; extraction never invents a value.
type Fields struct {
	Description          *string          `json:"description,omitempty"`
	ServiceTag           *string          `json:"service_tag,omitempty"`
	IdentificationNumber *string          `json:"identification_number,omitempty"`
	ProcurementDate      *time.Time       `json:"procurement_date,omitempty"`
	Cost                 *decimal.Decimal `json:"cost,omitempty"`
	Location             *string          `json:"location,omitempty"`
	Department           *string          `json:"department,omitempty"`
}

// Names lists the set fields in schema order.
func (f Fields) Names() []string {
	var out []string
	if f.Description != nil {
		out = append(out, "description")
	}
	if f.ServiceTag != nil {
		out = append(out, "service_tag")
	}
	if f.IdentificationNumber != nil {
		out = append(out, "identification_number")
	}
	if f.ProcurementDate != nil {
		out = append(out, "procurement_date")
	}
	if f.Cost != nil {
		out = append(out, "cost")
	}
	if f.Location != nil {
		out = append(out, "location")
	}
	if f.Department != nil {
		out = append(out, "department")
	}
	return out
}

// ToUpdateMap converts the set fields to a gorm Updates map.
func (f Fields) ToUpdateMap() map[string]interface{} {
	updates := map[string]interface{}{}
	if f.Description != nil {
		updates["Description"] = *f.Description
	}
	if f.ServiceTag != nil {
		updates["ServiceTag"] = *f.ServiceTag
	}
	if f.IdentificationNumber != nil {
		updates["IdentificationNumber"] = *f.IdentificationNumber
	}
	if f.ProcurementDate != nil {
		updates["ProcurementDate"] = *f.ProcurementDate
	}
	if f.Cost != nil {
		updates["Cost"] = *f.Cost
	}
	if f.Location != nil {
		updates["Location"] = *f.Location
	}
	if f.Department != nil {
		updates["Department"] = *f.Department
	}
	return updates
}

// Draft is the working entity of one interpreter invocation.
type Draft struct {
	Intent      Intent                `json:"intent"`
	QueryKind   QueryKind             `json:"query_kind,omitempty"`
	Filter      models.ResourceFilter `json:"filter"`
	Fields      Fields                `json:"fields"`
	Missing     []string              `json:"missing_required,omitempty"`
	Instruction string                `json:"instruction"`
}

// ValidationResult is the verdict of the completion gate.
type ValidationResult struct {
	Complete bool
	// Missing lists unresolved required fields, by name.
	Missing []string
	// Unscoped flags a destructive draft whose filter matches all records.
	// Distinct from Missing: execution needs an explicit confirmation signal.
	Unscoped bool
}

// ExecResult is what came back from the store.
type ExecResult struct {
	Intent    Intent
	QueryKind QueryKind
	Created   *models.Resource
	Matched   int64
	Modified  int64
	Deleted   int64
	Count     int64
	Total     decimal.Decimal
	Rows      []*models.Resource
}

// Status is the outcome class reported to the HTTP layer.
type Status string

const (
	StatusOK         Status = "ok"
	StatusIncomplete Status = "incomplete"
	StatusConfirm    Status = "confirm"
	StatusError      Status = "error"
)

// Result is the exposed outcome of one instruction. Message is the
// user-facing content; Data is for logging/telemetry only and must never be
// rendered as the primary response.
type Result struct {
	Status    Status                 `json:"status"`
	Message   string                 `json:"message"`
	Retryable bool                   `json:"retryable,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`

	// Draft is set with StatusConfirm so the caller can stash it for the
	// confirmation round-trip. Never serialized to the end user.
	Draft *Draft `json:"-"`
}
