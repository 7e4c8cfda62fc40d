// Package reports builds Excel workbooks over the inventory: the analysis
// workbook with charts, and the flat export used by the bulk flow.
package reports

import (
	"context"
	"fmt"

	"github.com/campusworks/assets_backend/models"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet    = "Summary"
	departmentSheet = "By Department"
	locationSheet   = "By Location"
	assetsSheet     = "Assets"
)

// BuildInventoryWorkbook renders the full analysis workbook: summary
// statistics, department and location breakdowns with charts, and the
// complete asset listing.
func BuildInventoryWorkbook(ctx context.Context) (*excelize.File, error) {

	summary, err := models.GetDashboardSummary(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(departmentSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(locationSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(assetsSheet); err != nil {
		return nil, err
	}

	if err := writeSummarySheet(f, summary); err != nil {
		return nil, err
	}
	if err := writeGroupSheet(f, departmentSheet, "Department", summary.ByDepartment); err != nil {
		return nil, err
	}
	if err := writeGroupSheet(f, locationSheet, "Location", summary.ByLocation); err != nil {
		return nil, err
	}
	if err := addGroupChart(f, departmentSheet, excelize.Pie, "Inventory value share by department", len(summary.ByDepartment)); err != nil {
		return nil, err
	}
	if err := addGroupChart(f, locationSheet, excelize.Col, "Inventory value by location", len(summary.ByLocation)); err != nil {
		return nil, err
	}

	resources, err := models.GetResources(ctx, models.ResourceFilter{}, 0, 0)
	if err != nil {
		return nil, err
	}
	if err := WriteResourceRows(f, assetsSheet, resources); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSummarySheet(f *excelize.File, summary *models.DashboardSummary) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total resources", summary.TotalResources},
		{"Total value", summary.TotalValue},
		{"Average cost", summary.AverageCost},
		{"Departments", summary.DepartmentCount},
		{"Locations", summary.LocationCount},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeGroupSheet(f *excelize.File, sheet, label string, groups []*models.GroupTotal) error {
	header := []interface{}{label, "Count", "Total Cost", "Share %"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, g := range groups {
		row := []interface{}{g.Name, g.Count, g.TotalCost, g.SharePct}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func addGroupChart(f *excelize.File, sheet string, chartType excelize.ChartType, title string, rows int) error {
	if rows == 0 {
		return nil
	}
	return f.AddChart(sheet, "F2", &excelize.Chart{
		Type: chartType,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("'%s'!$C$1", sheet),
				Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, rows+1),
				Values:     fmt.Sprintf("'%s'!$C$2:$C$%d", sheet, rows+1),
			},
		},
		Title: []excelize.RichTextRun{
			{Text: title},
		},
	})
}

// resourceHeader is the column order shared by export and import.
var resourceHeader = []interface{}{
	"Description", "Service Tag", "Identification Number",
	"Procurement Date", "Cost", "Location", "Department",
}

// WriteResourceRows fills a sheet with the flat asset listing.
func WriteResourceRows(f *excelize.File, sheet string, resources []*models.Resource) error {
	if err := f.SetSheetRow(sheet, "A1", &resourceHeader); err != nil {
		return err
	}
	for i, r := range resources {
		row := []interface{}{
			r.Description,
			derefString(r.ServiceTag),
			derefString(r.IdentificationNumber),
			r.ProcurementDate.Format("2006-01-02"),
			r.Cost,
			r.Location,
			r.Department,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

// ExportResourcesWorkbook builds the flat export used by the bulk flow.
func ExportResourcesWorkbook(ctx context.Context, filter models.ResourceFilter) (*excelize.File, error) {
	resources, err := models.GetResources(ctx, filter, 0, 0)
	if err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", assetsSheet)
	if err := WriteResourceRows(f, assetsSheet, resources); err != nil {
		return nil, err
	}
	return f, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
