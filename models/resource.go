package models

import (
	"context"
	"strings"
	"time"

	"github.com/campusworks/assets_backend/config"
	"github.com/campusworks/assets_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Resource is one piece of campus equipment.
type Resource struct {
	ID                   int             `gorm:"primary_key" json:"id"`
	Description          string          `gorm:"size:255;not null" json:"description" binding:"required"`
	ServiceTag           *string         `gorm:"size:100;unique" json:"service_tag"`
	IdentificationNumber *string         `gorm:"size:100;index" json:"identification_number"`
	ProcurementDate      time.Time       `json:"procurement_date"`
	Cost                 decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"cost"`
	Location             string          `gorm:"size:100;index" json:"location"`
	Department           string          `gorm:"size:100;index" json:"department"`
	CreatedBy            string          `gorm:"size:100" json:"created_by"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewResource struct {
	Description          string          `json:"description" binding:"required"`
	ServiceTag           string          `json:"service_tag"`
	IdentificationNumber string          `json:"identification_number"`
	ProcurementDate      *time.Time      `json:"procurement_date"`
	Cost                 decimal.Decimal `json:"cost"`
	Location             string          `json:"location" binding:"required"`
	Department           string          `json:"department" binding:"required"`
}

// CostOp is a comparison operator for cost filters.
type CostOp string

const (
	CostOpEq  CostOp = "eq"
	CostOpGt  CostOp = "gt"
	CostOpGte CostOp = "gte"
	CostOpLt  CostOp = "lt"
	CostOpLte CostOp = "lte"
)

// ResourceFilter selects a subset of resources. The zero value matches all
// records; destructive callers must treat that case specially.
type ResourceFilter struct {
	Department           string           `json:"department,omitempty"`
	Location             string           `json:"location,omitempty"`
	ServiceTag           string           `json:"service_tag,omitempty"`
	IdentificationNumber string           `json:"identification_number,omitempty"`
	DescriptionLike      string           `json:"description_like,omitempty"`
	CostOp               CostOp           `json:"cost_op,omitempty"`
	CostValue            *decimal.Decimal `json:"cost_value,omitempty"`
	ProcuredAfter        *time.Time       `json:"procured_after,omitempty"`
	ProcuredBefore       *time.Time       `json:"procured_before,omitempty"`
}

// IsEmpty reports whether the filter matches every record.
func (f ResourceFilter) IsEmpty() bool {
	return f.Department == "" && f.Location == "" && f.ServiceTag == "" &&
		f.IdentificationNumber == "" && f.DescriptionLike == "" &&
		f.CostValue == nil && f.ProcuredAfter == nil && f.ProcuredBefore == nil
}

// Criteria returns human-readable descriptions of the active criteria.
func (f ResourceFilter) Criteria() []string {
	var out []string
	if f.Department != "" {
		out = append(out, "department "+f.Department)
	}
	if f.Location != "" {
		out = append(out, "location "+f.Location)
	}
	if f.ServiceTag != "" {
		out = append(out, "service tag "+f.ServiceTag)
	}
	if f.IdentificationNumber != "" {
		out = append(out, "identification number "+f.IdentificationNumber)
	}
	if f.DescriptionLike != "" {
		out = append(out, "description containing "+f.DescriptionLike)
	}
	if f.CostValue != nil {
		opWords := map[CostOp]string{
			CostOpEq: "equal to", CostOpGt: "above", CostOpGte: "at least",
			CostOpLt: "below", CostOpLte: "at most",
		}
		out = append(out, "cost "+opWords[f.CostOp]+" "+f.CostValue.String())
	}
	if f.ProcuredAfter != nil {
		out = append(out, "procured after "+f.ProcuredAfter.Format("2006-01-02"))
	}
	if f.ProcuredBefore != nil {
		out = append(out, "procured before "+f.ProcuredBefore.Format("2006-01-02"))
	}
	return out
}

// Apply translates the filter into WHERE clauses.
func (f ResourceFilter) Apply(dbCtx *gorm.DB) *gorm.DB {
	if f.Department != "" {
		dbCtx = dbCtx.Where("department = ?", f.Department)
	}
	if f.Location != "" {
		dbCtx = dbCtx.Where("location = ?", f.Location)
	}
	if f.ServiceTag != "" {
		dbCtx = dbCtx.Where("service_tag = ?", f.ServiceTag)
	}
	if f.IdentificationNumber != "" {
		dbCtx = dbCtx.Where("identification_number = ?", f.IdentificationNumber)
	}
	if f.DescriptionLike != "" {
		dbCtx = dbCtx.Where("description LIKE ?", "%"+f.DescriptionLike+"%")
	}
	if f.CostValue != nil {
		ops := map[CostOp]string{
			CostOpEq: "=", CostOpGt: ">", CostOpGte: ">=", CostOpLt: "<", CostOpLte: "<=",
		}
		op, ok := ops[f.CostOp]
		if !ok {
			op = "="
		}
		dbCtx = dbCtx.Where("cost "+op+" ?", f.CostValue)
	}
	if f.ProcuredAfter != nil {
		dbCtx = dbCtx.Where("procurement_date >= ?", f.ProcuredAfter)
	}
	if f.ProcuredBefore != nil {
		dbCtx = dbCtx.Where("procurement_date <= ?", f.ProcuredBefore)
	}
	return dbCtx
}

// validate input for both create & update. (id = 0 for create)

func (input *NewResource) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Resource](ctx, id); err != nil {
			return err
		}
	}
	if input.Cost.IsNegative() {
		return utils.InvalidInput("cost must not be negative")
	}
	if input.ProcurementDate != nil && input.ProcurementDate.After(time.Now()) {
		return utils.InvalidInput("procurement date must not be in the future")
	}
	if strings.TrimSpace(input.ServiceTag) == "" && strings.TrimSpace(input.IdentificationNumber) == "" {
		return utils.InvalidInput("service tag or identification number is required")
	}
	// service_tag is unique across the whole inventory
	if input.ServiceTag != "" {
		if err := utils.ValidateUnique[Resource](ctx, "service_tag", input.ServiceTag, id); err != nil {
			return err
		}
	}
	return nil
}

func CreateResource(ctx context.Context, input *NewResource) (*Resource, error) {
	return CreateResourceTx(ctx, config.GetDB(), input)
}

// CreateResourceTx creates inside the caller's transaction so an audit row
// can be written atomically alongside the record.
func CreateResourceTx(ctx context.Context, tx *gorm.DB, input *NewResource) (*Resource, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	procurementDate := time.Now()
	if input.ProcurementDate != nil {
		procurementDate = *input.ProcurementDate
	}

	createdBy, _ := utils.GetUsernameFromContext(ctx)

	resource := Resource{
		Description:          input.Description,
		ServiceTag:           utils.NilIfEmpty(strings.TrimSpace(input.ServiceTag)),
		IdentificationNumber: utils.NilIfEmpty(strings.TrimSpace(input.IdentificationNumber)),
		ProcurementDate:      procurementDate,
		Cost:                 input.Cost,
		Location:             input.Location,
		Department:           input.Department,
		CreatedBy:            createdBy,
	}

	// db action
	err := tx.WithContext(ctx).Create(&resource).Error
	if err != nil {
		return nil, err
	}

	return &resource, nil
}

func UpdateResource(ctx context.Context, id int, input *NewResource) (*Resource, error) {

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	resource, err := utils.FetchModel[Resource](ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"Description":          input.Description,
		"ServiceTag":           utils.NilIfEmpty(strings.TrimSpace(input.ServiceTag)),
		"IdentificationNumber": utils.NilIfEmpty(strings.TrimSpace(input.IdentificationNumber)),
		"Cost":                 input.Cost,
		"Location":             input.Location,
		"Department":           input.Department,
	}
	if input.ProcurementDate != nil {
		updates["ProcurementDate"] = *input.ProcurementDate
	}

	// db action
	db := config.GetDB()
	err = db.WithContext(ctx).Model(resource).Updates(updates).Error
	if err != nil {
		return nil, err
	}
	return resource, nil
}

func DeleteResource(ctx context.Context, id int) (*Resource, error) {

	db := config.GetDB()

	result, err := utils.FetchModel[Resource](ctx, id)
	if err != nil {
		return nil, err
	}

	// db action
	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func GetResource(ctx context.Context, id int) (*Resource, error) {
	return utils.FetchModel[Resource](ctx, id)
}

func GetResources(ctx context.Context, filter ResourceFilter, limit int, offset int) ([]*Resource, error) {

	db := config.GetDB()
	var results []*Resource

	dbCtx := filter.Apply(db.WithContext(ctx).Model(&Resource{}))
	if limit > 0 {
		dbCtx = dbCtx.Limit(limit)
	}
	if offset > 0 {
		dbCtx = dbCtx.Offset(offset)
	}
	err := dbCtx.Order("id").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func CountResources(ctx context.Context, filter ResourceFilter) (int64, error) {

	db := config.GetDB()
	var count int64
	err := filter.Apply(db.WithContext(ctx).Model(&Resource{})).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateResourcesWhere applies updates to every resource the filter matches,
// inside the caller's transaction. Matched is counted before the write so
// no-op rows (already holding the new value) are still reported as targeted.
func UpdateResourcesWhere(ctx context.Context, tx *gorm.DB, filter ResourceFilter, updates map[string]interface{}) (matched int64, modified int64, err error) {

	err = filter.Apply(tx.WithContext(ctx).Model(&Resource{})).Count(&matched).Error
	if err != nil {
		return 0, 0, err
	}
	if matched == 0 {
		return 0, 0, nil
	}

	dbCtx := tx.WithContext(ctx).Model(&Resource{})
	if filter.IsEmpty() {
		// caller has already demanded confirmation for the full-table case
		dbCtx = dbCtx.Session(&gorm.Session{AllowGlobalUpdate: true})
	}
	result := filter.Apply(dbCtx).Updates(updates)
	if result.Error != nil {
		return 0, 0, result.Error
	}
	return matched, result.RowsAffected, nil
}

// DeleteResourcesWhere deletes every resource the filter matches, inside the
// caller's transaction.
func DeleteResourcesWhere(ctx context.Context, tx *gorm.DB, filter ResourceFilter) (int64, error) {

	dbCtx := tx.WithContext(ctx)
	if filter.IsEmpty() {
		dbCtx = dbCtx.Session(&gorm.Session{AllowGlobalUpdate: true})
	}
	result := filter.Apply(dbCtx.Model(&Resource{})).Delete(&Resource{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SumResourceCost totals cost over the filtered subset.
func SumResourceCost(ctx context.Context, filter ResourceFilter) (decimal.Decimal, error) {

	db := config.GetDB()
	var total *decimal.Decimal
	err := filter.Apply(db.WithContext(ctx).Model(&Resource{})).
		Select("SUM(cost)").Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if total == nil {
		// no rows matched
		return decimal.Zero, nil
	}
	return *total, nil
}
