package models

import (
	"context"
	"encoding/json"
	"time"

	"github.com/campusworks/assets_backend/config"
	"github.com/campusworks/assets_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditRecord is a transactional-outbox row for assistant-driven mutations:
// it is written inside the mutating DB transaction but NOT published to
// Pub/Sub there. Publishing happens asynchronously after commit, in
// workflow.AuditDispatcher.
type AuditRecord struct {
	ID               int                `gorm:"primary_key" json:"id"`
	Action           AuditAction        `gorm:"size:20;not null" json:"action"`
	Actor            string             `gorm:"size:100" json:"actor"`
	Instruction      string             `gorm:"size:1000" json:"instruction"`
	Filter           []byte             `json:"filter"`
	Fields           []byte             `json:"fields"`
	MatchedCount     int64              `json:"matched_count"`
	ModifiedCount    int64              `json:"modified_count"`
	CorrelationId    string             `gorm:"size:64;index" json:"correlation_id"`
	PublishStatus    AuditPublishStatus `gorm:"size:20;not null;default:'Pending';index" json:"publish_status"`
	PublishAttempts  int                `json:"publish_attempts"`
	LastPublishError *string            `gorm:"size:500" json:"last_publish_error"`
	NextAttemptAt    *time.Time         `json:"next_attempt_at"`
	PublishedAt      *time.Time         `json:"published_at"`
	CreatedAt        time.Time          `gorm:"autoCreateTime" json:"created_at"`
}

// RecordAudit writes the audit row in the caller's transaction.
func RecordAudit(ctx context.Context, tx *gorm.DB, action AuditAction, instruction string, filter interface{}, fields interface{}, matched, modified int64) error {

	filterJSON, err := json.Marshal(filter)
	if err != nil {
		return err
	}
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	actor, _ := utils.GetUsernameFromContext(ctx)

	record := AuditRecord{
		Action:        action,
		Actor:         actor,
		Instruction:   instruction,
		Filter:        filterJSON,
		Fields:        fieldsJSON,
		MatchedCount:  matched,
		ModifiedCount: modified,
		CorrelationId: correlationIdFromContextOrNew(ctx),
		PublishStatus: AuditPublishStatusPending,
	}
	return tx.Create(&record).Error
}

func correlationIdFromContextOrNew(ctx context.Context) string {
	if ctx != nil {
		if v, ok := utils.GetCorrelationIdFromContext(ctx); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}

// GetAuditRecords lists recent outbox rows, newest first. Status filters the
// publish state when non-empty.
func GetAuditRecords(ctx context.Context, status AuditPublishStatus, limit int) ([]*AuditRecord, error) {

	db := config.GetDB()
	var results []*AuditRecord

	dbCtx := db.WithContext(ctx).Model(&AuditRecord{})
	if status != "" {
		dbCtx = dbCtx.Where("publish_status = ?", status)
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	err := dbCtx.Order("id DESC").Limit(limit).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ConvertToAuditMessage maps an outbox row to the published wire shape.
func ConvertToAuditMessage(rec AuditRecord) config.AuditMessage {
	return config.AuditMessage{
		ID:            rec.ID,
		Action:        string(rec.Action),
		Actor:         rec.Actor,
		Instruction:   rec.Instruction,
		Filter:        rec.Filter,
		Fields:        rec.Fields,
		MatchedCount:  rec.MatchedCount,
		ModifiedCount: rec.ModifiedCount,
		OccurredAt:    rec.CreatedAt,
		CorrelationId: rec.CorrelationId,
	}
}
