package workflow

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/bsm/redislock"
	"github.com/campusworks/assets_backend/config"
	"github.com/campusworks/assets_backend/models"
	"github.com/campusworks/assets_backend/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AuditDispatcher publishes committed audit outbox rows to Pub/Sub.
// Multiple replicas may run; a redis lock keeps one dispatcher active per
// poll cycle, and SELECT ... FOR UPDATE SKIP LOCKED makes claiming safe even
// when the lock cannot be obtained.
type AuditDispatcher struct {
	DB           *gorm.DB
	Logger       *logrus.Logger
	DispatcherID string

	BatchSize      int
	PollInterval   time.Duration
	LockTimeout    time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
}

func NewAuditDispatcher(db *gorm.DB, logger *logrus.Logger) *AuditDispatcher {
	return &AuditDispatcher{
		DB:             db,
		Logger:         logger,
		DispatcherID:   uuid.NewString(),
		BatchSize:      50,
		PollInterval:   2 * time.Second,
		LockTimeout:    30 * time.Second,
		MaxAttempts:    20,
		InitialBackoff: 5 * time.Second,
	}
}

func (d *AuditDispatcher) Run(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.dispatchOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.PollInterval):
		}
	}
}

func (d *AuditDispatcher) dispatchOnce(ctx context.Context) {
	db := d.DB
	if db == nil {
		return
	}

	// Leader lock is a best-effort optimization; SKIP LOCKED below keeps
	// concurrent dispatchers correct without it.
	var lock *redislock.Lock
	if locker := config.GetRedisLock(); locker != nil {
		var err error
		lock, err = locker.Obtain(ctx, "lock:audit-dispatcher", d.LockTimeout, nil)
		if err == redislock.ErrNotObtained {
			return
		} else if err != nil {
			if d.Logger != nil {
				d.Logger.WithFields(logrus.Fields{
					"field": "AuditDispatcher",
				}).Warn("error obtaining redis lock; proceeding without it: " + err.Error())
			}
			lock = nil
		}
	}
	defer func() {
		if lock != nil {
			_ = lock.Release(ctx)
		}
	}()

	now := time.Now().UTC()
	var claimed []models.AuditRecord
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.
			Where("publish_status IN ?", []models.AuditPublishStatus{
				models.AuditPublishStatusPending, models.AuditPublishStatusFailed,
			}).
			Where("next_attempt_at IS NULL OR next_attempt_at <= ?", now).
			Order("id ASC").
			Limit(d.BatchSize).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		if err := q.Find(&claimed).Error; err != nil {
			return err
		}
		for i := range claimed {
			// Poison rows go terminal after MaxAttempts (DLQ equivalent).
			if d.MaxAttempts > 0 && claimed[i].PublishAttempts >= d.MaxAttempts {
				msg := fmt.Sprintf("max publish attempts exceeded (%d)", d.MaxAttempts)
				claimed[i].PublishStatus = models.AuditPublishStatusDead
				if err := tx.Model(&models.AuditRecord{}).Where("id = ?", claimed[i].ID).Updates(map[string]interface{}{
					"publish_status":     models.AuditPublishStatusDead,
					"last_publish_error": &msg,
					"next_attempt_at":    nil,
				}).Error; err != nil {
					return err
				}
				continue
			}
			claimed[i].PublishAttempts = claimed[i].PublishAttempts + 1
			if err := tx.Model(&models.AuditRecord{}).Where("id = ?", claimed[i].ID).Updates(map[string]interface{}{
				"publish_attempts":   gorm.Expr("publish_attempts + 1"),
				"last_publish_error": nil,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil || len(claimed) == 0 {
		return
	}

	for _, rec := range claimed {
		if rec.PublishStatus == models.AuditPublishStatusDead {
			continue
		}
		if pubErr := d.publish(ctx, rec); pubErr != nil {
			d.markPublishFailed(ctx, rec.ID, pubErr, rec.PublishAttempts)
			continue
		}
		d.markPublishSent(ctx, rec.ID, now)
	}
}

func (d *AuditDispatcher) publish(ctx context.Context, rec models.AuditRecord) error {
	if !config.AuditPublishEnabled() {
		// Publishing disabled: mark rows done so the table does not grow a backlog.
		return nil
	}
	client, err := config.GetPubSubClient(ctx)
	if err != nil {
		return err
	}
	msg := models.ConvertToAuditMessage(rec)
	data, err := utils.MarshalToJSON(msg)
	if err != nil {
		return err
	}
	topic := client.Topic(config.AuditTopicID())
	result := topic.Publish(ctx, &pubsub.Message{
		Data: []byte(data),
		Attributes: map[string]string{
			"action":         string(rec.Action),
			"correlation_id": rec.CorrelationId,
		},
	})
	_, err = result.Get(ctx)
	return err
}

func (d *AuditDispatcher) markPublishSent(ctx context.Context, recordID int, now time.Time) {
	db := d.DB.WithContext(ctx)
	_ = db.Model(&models.AuditRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"publish_status":  models.AuditPublishStatusPublished,
			"published_at":    &now,
			"next_attempt_at": nil,
		}).Error
}

func (d *AuditDispatcher) markPublishFailed(ctx context.Context, recordID int, err error, attempt int) {
	db := d.DB.WithContext(ctx)
	now := time.Now().UTC()
	msg := err.Error()

	backoff := d.InitialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
		if backoff > time.Minute*10 {
			backoff = time.Minute * 10
			break
		}
	}
	next := now.Add(backoff)
	_ = db.Model(&models.AuditRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"publish_status":     models.AuditPublishStatusFailed,
			"last_publish_error": &msg,
			"next_attempt_at":    &next,
		}).Error

	if d.Logger != nil {
		d.Logger.WithFields(logrus.Fields{
			"field":           "AuditDispatcher",
			"record_id":       recordID,
			"attempt":         attempt,
			"next_attempt_at": next.Format(time.RFC3339Nano),
		}).Error("audit publish failed: " + fmt.Sprintf("%v", err))
	}
}
