package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateImportReport creates a downloadable .xlsx summary of an import
// run: the count breakdown followed by the preserved per-row error messages.
func GenerateImportReport(summary *RunSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Import Summary"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Metric")
	f.SetCellValue(sheet, "B1", "Value")
	f.SetCellStyle(sheet, "A1", "B1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", "B", 60)

	metrics := []struct {
		label string
		value any
	}{
		{"Status", string(summary.Status())},
		{"Total rows", summary.TotalRows},
		{"Imported", summary.Imported},
		{"Skipped", summary.Skipped},
		{"Missing item", summary.MissingItem},
		{"Rejected rows", summary.APIErrors},
	}
	for i, m := range metrics {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, m.label)
		f.SetCellValue(sheet, "B"+row, m.value)
	}

	if len(summary.Errors) > 0 {
		start := len(metrics) + 3
		f.SetCellValue(sheet, fmt.Sprintf("A%d", start), "Errors")
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", start), fmt.Sprintf("A%d", start), headerStyle)
		for i, msg := range summary.Errors {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", start+1+i), msg)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write import report: %w", err)
	}
	return buf.Bytes(), nil
}

// thinBorders returns a full thin border set for cell styles.
func thinBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "#000000", Style: 1},
		{Type: "right", Color: "#000000", Style: 1},
		{Type: "top", Color: "#000000", Style: 1},
		{Type: "bottom", Color: "#000000", Style: 1},
	}
}
