package interpreter

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusworks/assets_backend/config"
	"github.com/campusworks/assets_backend/models"
	"github.com/campusworks/assets_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStore runs drafts against MySQL. Every mutation commits its audit row
// in the same transaction (transactional outbox; workflow.AuditDispatcher
// publishes after commit).
type GormStore struct {
	// DB returns the live handle; resolved per call because the process
	// starts listening before the database connection is up.
	DB func() *gorm.DB
}

func NewGormStore() *GormStore {
	return &GormStore{DB: config.GetDB}
}

func (s *GormStore) Insert(ctx context.Context, draft *Draft) (*models.Resource, error) {
	input := toNewResource(draft.Fields)

	var created *models.Resource
	err := s.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resource, err := models.CreateResourceTx(ctx, tx, input)
		if err != nil {
			return err
		}
		created = resource
		return models.RecordAudit(ctx, tx, models.AuditActionCreate, draft.Instruction, draft.Filter, draft.Fields, 1, 1)
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return created, nil
}

func (s *GormStore) UpdateMany(ctx context.Context, draft *Draft) (int64, int64, error) {
	var matched, modified int64
	err := s.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		matched, modified, err = models.UpdateResourcesWhere(ctx, tx, draft.Filter, draft.Fields.ToUpdateMap())
		if err != nil {
			return err
		}
		if matched == 0 {
			// nothing targeted, nothing to audit
			return nil
		}
		return models.RecordAudit(ctx, tx, models.AuditActionUpdate, draft.Instruction, draft.Filter, draft.Fields, matched, modified)
	})
	if err != nil {
		return 0, 0, storeErr(err)
	}
	return matched, modified, nil
}

func (s *GormStore) DeleteMany(ctx context.Context, draft *Draft) (int64, error) {
	var deleted int64
	err := s.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = models.DeleteResourcesWhere(ctx, tx, draft.Filter)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return nil
		}
		return models.RecordAudit(ctx, tx, models.AuditActionDelete, draft.Instruction, draft.Filter, draft.Fields, deleted, deleted)
	})
	if err != nil {
		return 0, storeErr(err)
	}
	return deleted, nil
}

func (s *GormStore) Count(ctx context.Context, filter models.ResourceFilter) (int64, error) {
	count, err := models.CountResources(ctx, filter)
	if err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}

func (s *GormStore) SumCost(ctx context.Context, filter models.ResourceFilter) (decimal.Decimal, error) {
	total, err := models.SumResourceCost(ctx, filter)
	if err != nil {
		return decimal.Zero, storeErr(err)
	}
	return total, nil
}

func (s *GormStore) Find(ctx context.Context, filter models.ResourceFilter, limit int) ([]*models.Resource, error) {
	rows, err := models.GetResources(ctx, filter, limit, 0)
	if err != nil {
		return nil, storeErr(err)
	}
	return rows, nil
}

// storeErr tags infrastructure failures so the caller can report them as
// retryable. Record-not-found and validation failures are normal outcomes,
// not outages, and keep their user-meaningful messages.
func storeErr(err error) error {
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, utils.ErrorRecordNotFound) || utils.IsInvalidInput(err) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

func toNewResource(f Fields) *models.NewResource {
	input := &models.NewResource{}
	if f.Description != nil {
		input.Description = *f.Description
	}
	if f.ServiceTag != nil {
		input.ServiceTag = *f.ServiceTag
	}
	if f.IdentificationNumber != nil {
		input.IdentificationNumber = *f.IdentificationNumber
	}
	input.ProcurementDate = f.ProcurementDate
	if f.Cost != nil {
		input.Cost = *f.Cost
	}
	if f.Location != nil {
		input.Location = *f.Location
	}
	if f.Department != nil {
		input.Department = *f.Department
	}
	return input
}
