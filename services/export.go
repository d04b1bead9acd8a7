package services

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ExportRow represents a single estimation line in the export sheet.
type ExportRow struct {
	Index          string
	Code           string
	Description    string
	SubDescription string
	Unit           string
	NoOfUnits      string
	Length         string
	Width          string
	Thickness      string
	Quantity       float64
	Rate           float64
	Amount         float64
}

// ExportData holds all data needed for an estimation export.
type ExportData struct {
	Title       string
	Region      string
	CreatedDate string
	Rows        []ExportRow
	TotalAmount float64
}

// FormatDimensionCell renders a dimension for display: the canonical
// expression when the input was arithmetic, the plain value otherwise, empty
// when the field is unset.
func FormatDimensionCell(dim Dimension) string {
	if dim.Expr != "" {
		return dim.Expr
	}
	if dim.Value == nil {
		return ""
	}
	return strconv.FormatFloat(*dim.Value, 'f', -1, 64)
}

// GenerateEstimationExcel creates an Excel file from the given ExportData and
// returns the file contents as a byte slice.
func GenerateEstimationExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet names are capped at 31 chars.
	sheetName := data.Title
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Estimate"
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K"}
	lastCol := columns[len(columns)-1]

	widths := []float64{6, 12, 44, 8, 8, 10, 10, 10, 12, 12, 14}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 16,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 11,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
			Size:  11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	rowStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 10,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create row style: %w", err)
	}

	subRowStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size:   10,
			Italic: true,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create sub row style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header Rows (1-3) ───────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	if data.Region != "" {
		if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
			return nil, fmt.Errorf("merge region: %w", err)
		}
		f.SetCellValue(sheetName, "A2", "Region: "+sanitizeExcelCell(data.Region))
		f.SetCellStyle(sheetName, "A2", lastCol+"2", subtitleStyle)
	}

	if err := f.MergeCell(sheetName, "A3", lastCol+"3"); err != nil {
		return nil, fmt.Errorf("merge date: %w", err)
	}
	f.SetCellValue(sheetName, "A3", "Date: "+data.CreatedDate)
	f.SetCellStyle(sheetName, "A3", lastCol+"3", subtitleStyle)

	// ── Row 5: Column Headers ───────────────────────────────────────────

	headers := []string{"#", "Item Code", "Description", "Unit", "Nos", "Length", "Width", "Thickness", "Quantity", "Rate", "Amount"}
	for i, h := range headers {
		cell := fmt.Sprintf("%s5", columns[i])
		f.SetCellValue(sheetName, cell, h)
	}
	f.SetCellStyle(sheetName, "A5", lastCol+"5", headerStyle)

	// ── Data Rows (starting row 6) ──────────────────────────────────────

	row := 6
	for _, r := range data.Rows {
		rowStr := fmt.Sprintf("%d", row)

		desc := r.Description
		if r.SubDescription != "" {
			desc += " / " + r.SubDescription
		}

		f.SetCellValue(sheetName, "A"+rowStr, r.Index)
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(r.Code))
		f.SetCellValue(sheetName, "C"+rowStr, sanitizeExcelCell(desc))
		f.SetCellValue(sheetName, "D"+rowStr, sanitizeExcelCell(r.Unit))
		f.SetCellValue(sheetName, "E"+rowStr, sanitizeExcelCell(r.NoOfUnits))
		f.SetCellValue(sheetName, "F"+rowStr, sanitizeExcelCell(r.Length))
		f.SetCellValue(sheetName, "G"+rowStr, sanitizeExcelCell(r.Width))
		f.SetCellValue(sheetName, "H"+rowStr, sanitizeExcelCell(r.Thickness))
		f.SetCellValue(sheetName, "I"+rowStr, r.Quantity)
		f.SetCellValue(sheetName, "J"+rowStr, r.Rate)
		f.SetCellValue(sheetName, "K"+rowStr, r.Amount)

		style := rowStyle
		if r.SubDescription != "" && r.Code == "" {
			style = subRowStyle
		}
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, style)

		row++
	}

	// ── Summary Row ─────────────────────────────────────────────────────

	row++
	summaryRow := fmt.Sprintf("%d", row)
	f.SetCellValue(sheetName, "J"+summaryRow, "Total:")
	f.SetCellStyle(sheetName, "J"+summaryRow, "J"+summaryRow, summaryLabelStyle)
	f.SetCellValue(sheetName, "K"+summaryRow, data.TotalAmount)
	f.SetCellStyle(sheetName, "K"+summaryRow, "K"+summaryRow, summaryValueStyle)

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}
