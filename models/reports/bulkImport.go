package reports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/campusworks/assets_backend/models"
	"github.com/campusworks/assets_backend/utils"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var importValidate = validator.New()

// importRow mirrors the export column order. Service tag and identification
// number are checked together after struct validation.
type importRow struct {
	Description          string `validate:"required,max=255"`
	ServiceTag           string `validate:"max=100"`
	IdentificationNumber string `validate:"max=100"`
	ProcurementDate      string
	Cost                 string `validate:"required"`
	Location             string `validate:"required,max=100"`
	Department           string `validate:"required,max=100"`
}

type ImportRowError struct {
	Row    int               `json:"row"`
	Errors map[string]string `json:"errors"`
}

type ImportReport struct {
	Created   int              `json:"created"`
	Failed    int              `json:"failed"`
	RowErrors []ImportRowError `json:"row_errors,omitempty"`
}

var importDateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006", "2 Jan 2006", "Jan 2, 2006"}

func parseImportDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", s)
}

// ImportResourcesWorkbook reads an uploaded workbook and creates one resource
// per data row. Failed rows are reported with their 1-based sheet row number;
// good rows are still created.
func ImportResourcesWorkbook(ctx context.Context, r io.Reader) (*ImportReport, error) {

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.New("file is not a valid xlsx workbook")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.New("workbook has no data rows")
	}

	report := &ImportReport{}
	for i, cells := range rows[1:] {
		rowNum := i + 2

		row := importRow{
			Description:          cellAt(cells, 0),
			ServiceTag:           cellAt(cells, 1),
			IdentificationNumber: cellAt(cells, 2),
			ProcurementDate:      cellAt(cells, 3),
			Cost:                 cellAt(cells, 4),
			Location:             cellAt(cells, 5),
			Department:           cellAt(cells, 6),
		}
		if isBlankRow(row) {
			continue
		}

		rowErrs := validateImportRow(row)
		var input *models.NewResource
		if len(rowErrs) == 0 {
			input, rowErrs = buildNewResource(row)
		}
		if len(rowErrs) == 0 {
			if _, err := models.CreateResource(ctx, input); err != nil {
				rowErrs = map[string]string{"row": err.Error()}
			}
		}

		if len(rowErrs) > 0 {
			report.Failed++
			report.RowErrors = append(report.RowErrors, ImportRowError{Row: rowNum, Errors: rowErrs})
			continue
		}
		report.Created++
	}
	return report, nil
}

func validateImportRow(row importRow) map[string]string {
	if err := importValidate.Struct(row); err != nil {
		return utils.ProcessValidationErrors(err)
	}
	if strings.TrimSpace(row.ServiceTag) == "" && strings.TrimSpace(row.IdentificationNumber) == "" {
		return map[string]string{"ServiceTag": "service tag or identification number is required"}
	}
	return nil
}

func buildNewResource(row importRow) (*models.NewResource, map[string]string) {
	cost, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(row.Cost), ",", ""))
	if err != nil {
		return nil, map[string]string{"Cost": "must be a number"}
	}
	procured, err := parseImportDate(row.ProcurementDate)
	if err != nil {
		return nil, map[string]string{"ProcurementDate": err.Error()}
	}
	return &models.NewResource{
		Description:          strings.TrimSpace(row.Description),
		ServiceTag:           strings.TrimSpace(row.ServiceTag),
		IdentificationNumber: strings.TrimSpace(row.IdentificationNumber),
		ProcurementDate:      procured,
		Cost:                 cost,
		Location:             strings.TrimSpace(row.Location),
		Department:           strings.TrimSpace(row.Department),
	}, nil
}

func cellAt(cells []string, i int) string {
	if i < len(cells) {
		return strings.TrimSpace(cells[i])
	}
	return ""
}

func isBlankRow(row importRow) bool {
	return row.Description == "" && row.ServiceTag == "" && row.IdentificationNumber == "" &&
		row.ProcurementDate == "" && row.Cost == "" && row.Location == "" && row.Department == ""
}
