package interpreter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campusworks/assets_backend/models"
	"github.com/shopspring/decimal"
)

// fakeStore records calls and returns scripted results.
type fakeStore struct {
	inserts []*Draft
	updates []*Draft
	deletes []*Draft

	matched  int64
	modified int64
	deleted  int64
	count    int64
	total    decimal.Decimal
	rows     []*models.Resource
	err      error
}

func (s *fakeStore) Insert(ctx context.Context, draft *Draft) (*models.Resource, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.inserts = append(s.inserts, draft)
	f := draft.Fields
	r := &models.Resource{
		ID:              len(s.inserts),
		ProcurementDate: time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
	}
	if f.Description != nil {
		r.Description = *f.Description
	}
	r.ServiceTag = f.ServiceTag
	r.IdentificationNumber = f.IdentificationNumber
	if f.ProcurementDate != nil {
		r.ProcurementDate = *f.ProcurementDate
	}
	if f.Cost != nil {
		r.Cost = *f.Cost
	}
	if f.Location != nil {
		r.Location = *f.Location
	}
	if f.Department != nil {
		r.Department = *f.Department
	}
	return r, nil
}

func (s *fakeStore) UpdateMany(ctx context.Context, draft *Draft) (int64, int64, error) {
	if s.err != nil {
		return 0, 0, s.err
	}
	s.updates = append(s.updates, draft)
	return s.matched, s.modified, nil
}

func (s *fakeStore) DeleteMany(ctx context.Context, draft *Draft) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.deletes = append(s.deletes, draft)
	return s.deleted, nil
}

func (s *fakeStore) Count(ctx context.Context, filter models.ResourceFilter) (int64, error) {
	return s.count, s.err
}

func (s *fakeStore) SumCost(ctx context.Context, filter models.ResourceFilter) (decimal.Decimal, error) {
	return s.total, s.err
}

func (s *fakeStore) Find(ctx context.Context, filter models.ResourceFilter, limit int) ([]*models.Resource, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit > 0 && len(s.rows) > limit {
		return s.rows[:limit], nil
	}
	return s.rows, nil
}

func TestExecute_RoleGateComesFirst(t *testing.T) {
	store := &fakeStore{}
	draft := completeCreateDraft()

	_, err := Execute(context.Background(), store, draft, models.UserRoleViewer, false)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if len(store.inserts) != 0 {
		t.Fatal("store must not be touched for an unauthorized caller")
	}

	// even a confirmed unscoped delete is refused for a viewer
	del := &Draft{Intent: IntentDelete}
	if _, err := Execute(context.Background(), store, del, models.UserRoleViewer, true); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestExecute_UnscopedDestructiveNeedsConfirmation(t *testing.T) {
	store := &fakeStore{deleted: 10}
	del := &Draft{Intent: IntentDelete}

	_, err := Execute(context.Background(), store, del, models.UserRoleAdmin, false)
	if !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("expected ErrConfirmationRequired, got %v", err)
	}
	if len(store.deletes) != 0 {
		t.Fatal("nothing may be deleted before confirmation")
	}

	res, err := Execute(context.Background(), store, del, models.UserRoleAdmin, true)
	if err != nil {
		t.Fatalf("confirmed delete failed: %v", err)
	}
	if res.Deleted != 10 || len(store.deletes) != 1 {
		t.Fatalf("expected 10 deletions, got %+v", res)
	}
}

func TestExecute_ZeroMatchesIsANoOpNotAnError(t *testing.T) {
	store := &fakeStore{matched: 0, modified: 0}
	cost := decimal.NewFromInt(900)
	draft := &Draft{
		Intent: IntentUpdate,
		Fields: Fields{Cost: &cost},
		Filter: models.ResourceFilter{Department: "History"},
	}

	res, err := Execute(context.Background(), store, draft, models.UserRoleManager, false)
	if err != nil {
		t.Fatalf("zero-match update must not error: %v", err)
	}
	if res.Matched != 0 || res.Modified != 0 {
		t.Fatalf("expected 0/0, got %d/%d", res.Matched, res.Modified)
	}
}

func TestExecute_MatchedAndModifiedKeptSeparate(t *testing.T) {
	store := &fakeStore{matched: 5, modified: 3}
	cost := decimal.NewFromInt(900)
	draft := &Draft{
		Intent: IntentUpdate,
		Fields: Fields{Cost: &cost},
		Filter: models.ResourceFilter{Department: "CSE"},
	}

	res, err := Execute(context.Background(), store, draft, models.UserRoleManager, false)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if res.Matched != 5 || res.Modified != 3 {
		t.Fatalf("expected 5 matched / 3 modified, got %d/%d", res.Matched, res.Modified)
	}
}

func TestExecute_QueryPaths(t *testing.T) {
	rows := []*models.Resource{
		{Description: "laptop", Location: "Building A", Department: "CSE", Cost: decimal.NewFromInt(80000)},
	}
	store := &fakeStore{count: 7, total: decimal.NewFromInt(125000), rows: rows}

	countRes, err := Execute(context.Background(), store, &Draft{Intent: IntentQuery, QueryKind: QueryCount}, models.UserRoleViewer, false)
	if err != nil || countRes.Count != 7 {
		t.Fatalf("count query: %v %+v", err, countRes)
	}

	totalRes, err := Execute(context.Background(), store, &Draft{Intent: IntentQuery, QueryKind: QueryTotal}, models.UserRoleViewer, false)
	if err != nil || totalRes.Total.String() != "125000" {
		t.Fatalf("total query: %v %+v", err, totalRes)
	}

	listRes, err := Execute(context.Background(), store, &Draft{Intent: IntentQuery, QueryKind: QueryList}, models.UserRoleViewer, false)
	if err != nil || len(listRes.Rows) != 1 {
		t.Fatalf("list query: %v %+v", err, listRes)
	}
}

func TestExecute_StoreOutagePropagates(t *testing.T) {
	store := &fakeStore{err: ErrStoreUnavailable}
	draft := &Draft{Intent: IntentDelete, Filter: models.ResourceFilter{Department: "CSE"}}

	_, err := Execute(context.Background(), store, draft, models.UserRoleAdmin, false)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
