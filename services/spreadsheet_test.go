package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSVGrid(t *testing.T) {
	csvData := `Item Code,Description,Sub Description,No of Units,Length,Width,Thickness,Qty
EW-01-101,"Earthwork in excavation, all soils",,2,3,4,,
,,"second stretch",,5,4,,
`
	rows, err := ParseCSVGrid(strings.NewReader(csvData))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[1][1] != "Earthwork in excavation, all soils" {
		t.Errorf("quoted cell mangled: %q", rows[1][1])
	}
	if rows[2][2] != "second stretch" {
		t.Errorf("cell = %q, want %q", rows[2][2], "second stretch")
	}
}

func TestParseCSVGrid_RaggedRows(t *testing.T) {
	csvData := "a,b,c\nd\ne,f\n"
	rows, err := ParseCSVGrid(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ragged rows must be tolerated: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if len(rows[1]) != 1 || len(rows[2]) != 2 {
		t.Errorf("row lengths = %d, %d, want 1, 2", len(rows[1]), len(rows[2]))
	}
}

func TestParseCSVGrid_Empty(t *testing.T) {
	if _, err := ParseCSVGrid(strings.NewReader("")); err == nil {
		t.Error("expected an error for an empty file")
	}
}

func TestParseExcelGrid(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := [][]any{
		{"Item Code", "Description", "Length", "Width"},
		{"EW-01-101", "Earthwork in excavation", 3, 4},
	}
	for r, row := range cells {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	rows, err := ParseExcelGrid(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[1][0] != "EW-01-101" || rows[1][2] != "3" {
		t.Errorf("unexpected row: %v", rows[1])
	}
}

func TestParseUploadGrid_Dispatch(t *testing.T) {
	t.Run("csv by extension", func(t *testing.T) {
		rows, err := ParseUploadGrid(strings.NewReader("a,b\n"), "Upload.CSV")
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 1 {
			t.Errorf("got %d rows, want 1", len(rows))
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := ParseUploadGrid(strings.NewReader("x"), "schedule.pdf")
		if err == nil || !strings.Contains(err.Error(), "unsupported file format") {
			t.Errorf("expected unsupported format error, got %v", err)
		}
	})
}

func TestGenerateImportReport(t *testing.T) {
	summary := &RunSummary{
		TotalRows:   5,
		Imported:    3,
		Skipped:     2,
		MissingItem: 1,
		APIErrors:   1,
		Errors:      []string{"row 4: validation rejected"},
	}
	data, err := GenerateImportReport(summary)
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("report is not a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Import Summary")
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, row := range rows {
		for _, cell := range row {
			if strings.Contains(cell, "validation rejected") {
				found = true
			}
		}
	}
	if !found {
		t.Error("preserved row error missing from the report sheet")
	}
}
