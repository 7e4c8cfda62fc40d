package interpreter

import (
	"context"

	"github.com/campusworks/assets_backend/models"
	"github.com/shopspring/decimal"
)

// InventoryStore is the persistence boundary of the pipeline. The production
// implementation is GormStore; tests substitute a fake.
//
// Mutations are atomic per instruction: either the whole change (including
// its audit row) commits, or nothing does.
type InventoryStore interface {
	Insert(ctx context.Context, draft *Draft) (*models.Resource, error)
	// UpdateMany returns matched (rows the filter selected) and modified
	// (rows actually rewritten) separately; they differ when rows already
	// hold the requested values.
	UpdateMany(ctx context.Context, draft *Draft) (matched int64, modified int64, err error)
	DeleteMany(ctx context.Context, draft *Draft) (deleted int64, err error)
	Count(ctx context.Context, filter models.ResourceFilter) (int64, error)
	SumCost(ctx context.Context, filter models.ResourceFilter) (decimal.Decimal, error)
	Find(ctx context.Context, filter models.ResourceFilter, limit int) ([]*models.Resource, error)
}
