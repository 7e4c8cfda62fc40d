package reports

import (
	"testing"
	"time"

	"github.com/campusworks/assets_backend/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func TestParseImportDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024-03-03", "2024-03-03"},
		{"03-03-2024", "2024-03-03"},
		{"21/01/2025", "2025-01-21"},
		{"2 Jan 2024", "2024-01-02"},
		{"Jan 2, 2024", "2024-01-02"},
	}
	for _, tc := range cases {
		got, err := parseImportDate(tc.in)
		if err != nil {
			t.Fatalf("parseImportDate(%q): %v", tc.in, err)
		}
		if got == nil || got.Format("2006-01-02") != tc.want {
			t.Fatalf("parseImportDate(%q) = %v, want %s", tc.in, got, tc.want)
		}
	}

	if got, err := parseImportDate(""); err != nil || got != nil {
		t.Fatalf("empty date should be nil, nil; got %v, %v", got, err)
	}
	if _, err := parseImportDate("not a date"); err == nil {
		t.Fatal("expected error for garbage date")
	}
}

func TestValidateImportRow(t *testing.T) {
	good := importRow{
		Description: "Dell Latitude laptop",
		ServiceTag:  "SVT-100",
		Cost:        "45000",
		Location:    "Building A",
		Department:  "CSE",
	}
	if errs := validateImportRow(good); errs != nil {
		t.Fatalf("expected valid row, got %v", errs)
	}

	missing := importRow{Description: "Projector", Cost: "100", Location: "Lab 1", Department: "ECE"}
	errs := validateImportRow(missing)
	if errs == nil {
		t.Fatal("expected either-or identifier error")
	}
	if _, ok := errs["ServiceTag"]; !ok {
		t.Fatalf("expected ServiceTag error, got %v", errs)
	}

	blankDesc := good
	blankDesc.Description = ""
	errs = validateImportRow(blankDesc)
	if _, ok := errs["Description"]; !ok {
		t.Fatalf("expected Description error, got %v", errs)
	}
}

func TestBuildNewResource(t *testing.T) {
	row := importRow{
		Description:     "Dell Latitude laptop",
		ServiceTag:      "SVT-100",
		ProcurementDate: "2024-03-03",
		Cost:            "45,000.50",
		Location:        "Building A",
		Department:      "CSE",
	}
	input, errs := buildNewResource(row)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !input.Cost.Equal(decimal.RequireFromString("45000.50")) {
		t.Fatalf("cost = %s, want 45000.50", input.Cost)
	}
	if input.ProcurementDate == nil || input.ProcurementDate.Format("2006-01-02") != "2024-03-03" {
		t.Fatalf("procurement date = %v", input.ProcurementDate)
	}

	row.Cost = "lots"
	if _, errs := buildNewResource(row); errs == nil {
		t.Fatal("expected cost error")
	}
}

func TestWriteResourceRows_RoundTrip(t *testing.T) {
	tag := "SVT-9"
	resources := []*models.Resource{
		{
			Description:     "Projector",
			ServiceTag:      &tag,
			ProcurementDate: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
			Cost:            decimal.RequireFromString("45000"),
			Location:        "Lab 1",
			Department:      "ECE",
		},
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "Assets")
	if err := WriteResourceRows(f, "Assets", resources); err != nil {
		t.Fatalf("WriteResourceRows: %v", err)
	}

	rows, err := f.GetRows("Assets")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[1][0] != "Projector" || rows[1][1] != "SVT-9" || rows[1][3] != "2024-03-03" {
		t.Fatalf("unexpected row: %v", rows[1])
	}

	parsed := importRow{
		Description:          cellAt(rows[1], 0),
		ServiceTag:           cellAt(rows[1], 1),
		IdentificationNumber: cellAt(rows[1], 2),
		ProcurementDate:      cellAt(rows[1], 3),
		Cost:                 cellAt(rows[1], 4),
		Location:             cellAt(rows[1], 5),
		Department:           cellAt(rows[1], 6),
	}
	if errs := validateImportRow(parsed); errs != nil {
		t.Fatalf("exported row should import cleanly, got %v", errs)
	}
}
