package interpreter

import (
	"context"

	"github.com/campusworks/assets_backend/config"
	"github.com/campusworks/assets_backend/models"
)

// Execute runs a validated draft against the store.
//
// Gate order is fixed: the role check comes first so an unauthorized caller
// learns nothing about the inventory, then the confirmation gate for
// destructive drafts whose filter matches every record. Zero matches is a
// successful no-op, never an error.
func Execute(ctx context.Context, store InventoryStore, draft *Draft, role models.UserRole, confirmed bool) (*ExecResult, error) {

	res := &ExecResult{Intent: draft.Intent, QueryKind: draft.QueryKind}

	switch draft.Intent {
	case IntentCreate, IntentUpdate, IntentDelete:
		if !role.CanWrite() {
			return nil, ErrUnauthorized
		}
	}

	switch draft.Intent {
	case IntentCreate:
		created, err := store.Insert(ctx, draft)
		if err != nil {
			return nil, err
		}
		res.Created = created
		res.Matched, res.Modified = 1, 1

	case IntentUpdate:
		if draft.Filter.IsEmpty() && !confirmed {
			return nil, ErrConfirmationRequired
		}
		matched, modified, err := store.UpdateMany(ctx, draft)
		if err != nil {
			return nil, err
		}
		res.Matched, res.Modified = matched, modified

	case IntentDelete:
		if draft.Filter.IsEmpty() && !confirmed {
			return nil, ErrConfirmationRequired
		}
		deleted, err := store.DeleteMany(ctx, draft)
		if err != nil {
			return nil, err
		}
		res.Matched, res.Deleted = deleted, deleted

	case IntentQuery:
		switch draft.QueryKind {
		case QueryCount:
			count, err := store.Count(ctx, draft.Filter)
			if err != nil {
				return nil, err
			}
			res.Count = count
		case QueryTotal:
			total, err := store.SumCost(ctx, draft.Filter)
			if err != nil {
				return nil, err
			}
			res.Total = total
			count, err := store.Count(ctx, draft.Filter)
			if err != nil {
				return nil, err
			}
			res.Count = count
		default:
			rows, err := store.Find(ctx, draft.Filter, config.SearchLimit)
			if err != nil {
				return nil, err
			}
			res.Rows = rows
			res.Count = int64(len(rows))
		}
	}

	return res, nil
}
