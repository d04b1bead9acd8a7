package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseUploadGrid decodes an uploaded spreadsheet into a raw cell grid,
// dispatching on the file extension. The grid is returned as-is, header
// rows included; header detection happens inside the import pipeline.
func ParseUploadGrid(file io.Reader, fileName string) ([][]string, error) {
	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return ParseCSVGrid(file)
	case strings.HasSuffix(lower, ".xlsx"):
		return ParseExcelGrid(file)
	}
	return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
}

// ParseCSVGrid reads a CSV file into a cell grid.
func ParseCSVGrid(file io.Reader) ([][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file contains no rows")
	}
	return rows, nil
}

// ParseExcelGrid reads the first sheet of an xlsx file into a cell grid.
func ParseExcelGrid(file io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file contains no rows")
	}
	return rows, nil
}
