package models

import (
	"context"

	"github.com/campusworks/assets_backend/config"
	"github.com/shopspring/decimal"
)

type GroupTotal struct {
	Name       string          `json:"name"`
	Count      int64           `json:"count"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	SharePct   float64         `json:"share_pct"`
}

type DashboardSummary struct {
	TotalResources  int64           `json:"total_resources"`
	TotalValue      decimal.Decimal `json:"total_value"`
	AverageCost     decimal.Decimal `json:"average_cost"`
	DepartmentCount int64           `json:"department_count"`
	LocationCount   int64           `json:"location_count"`
	ByDepartment    []*GroupTotal   `json:"by_department"`
	ByLocation      []*GroupTotal   `json:"by_location"`
	RecentAdditions []*Resource     `json:"recent_additions"`
}

func groupTotals(ctx context.Context, column string) ([]*GroupTotal, error) {
	db := config.GetDB()
	var records []*GroupTotal
	sql := `
SELECT
    ` + column + ` AS name,
    COUNT(id) AS count,
    COALESCE(SUM(cost), 0) AS total_cost
FROM resources
GROUP BY ` + column + `
ORDER BY total_cost DESC;
`
	if err := db.WithContext(ctx).Raw(sql).Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GetDashboardSummary aggregates the inventory for the admin dashboard.
func GetDashboardSummary(ctx context.Context) (*DashboardSummary, error) {

	db := config.GetDB()
	summary := DashboardSummary{}

	if err := db.WithContext(ctx).Model(&Resource{}).Count(&summary.TotalResources).Error; err != nil {
		return nil, err
	}

	total, err := SumResourceCost(ctx, ResourceFilter{})
	if err != nil {
		return nil, err
	}
	summary.TotalValue = total
	if summary.TotalResources > 0 {
		summary.AverageCost = total.Div(decimal.NewFromInt(summary.TotalResources)).Round(2)
	}

	byDept, err := groupTotals(ctx, "department")
	if err != nil {
		return nil, err
	}
	byLoc, err := groupTotals(ctx, "location")
	if err != nil {
		return nil, err
	}
	summary.ByDepartment = byDept
	summary.ByLocation = byLoc
	summary.DepartmentCount = int64(len(byDept))
	summary.LocationCount = int64(len(byLoc))

	if !total.IsZero() {
		for _, g := range byDept {
			pct, _ := g.TotalCost.Div(total).Mul(decimal.NewFromInt(100)).Round(1).Float64()
			g.SharePct = pct
		}
		for _, g := range byLoc {
			pct, _ := g.TotalCost.Div(total).Mul(decimal.NewFromInt(100)).Round(1).Float64()
			g.SharePct = pct
		}
	}

	var recent []*Resource
	if err := db.WithContext(ctx).Model(&Resource{}).
		Order("created_at DESC").Limit(5).Find(&recent).Error; err != nil {
		return nil, err
	}
	summary.RecentAdditions = recent

	return &summary, nil
}
