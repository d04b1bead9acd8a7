package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// LinePayload is what the import pipeline (and the interactive entry path)
// hands to the line-creation collaborator: the matched item plus the five
// parsed dimensions, each carrying its value, its canonical expression and
// the raw text that gets persisted.
type LinePayload struct {
	ItemID         string
	SubDescription string
	Mode           InputMode

	NoOfUnits Dimension
	Length    Dimension
	Width     Dimension
	Thickness Dimension
	Quantity  Dimension
}

// LineCreator is the external collaborator that persists one estimation
// line. A returned error rejects the row; the pipeline records it and moves
// on to the next row.
type LineCreator interface {
	CreateLine(estimationID string, payload LinePayload) error
}

// RunStatus classifies a finished import run.
type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunPartial RunStatus = "partial"
	RunFailure RunStatus = "failure"
)

// RunSummary accumulates the per-row accounting of one import run. It is
// owned by a single run and discarded afterwards.
type RunSummary struct {
	TotalRows     int      `json:"total_rows"`
	ProcessedRows int      `json:"processed_rows"`
	Imported      int      `json:"imported"`
	Skipped       int      `json:"skipped"`
	MissingItem   int      `json:"missing_item"`
	APIErrors     int      `json:"api_errors"`
	Errors        []string `json:"errors,omitempty"`
}

// Status classifies the run: zero imports is a failure, a clean sheet is a
// success, anything in between is partial.
func (s *RunSummary) Status() RunStatus {
	if s.Imported == 0 {
		return RunFailure
	}
	if s.Skipped == 0 {
		return RunSuccess
	}
	return RunPartial
}

// Message renders the single human-readable outcome line shown to the user.
// A failed run surfaces the dominant reason.
func (s *RunSummary) Message() string {
	switch s.Status() {
	case RunSuccess:
		return fmt.Sprintf("Imported %d rows", s.Imported)
	case RunPartial:
		return fmt.Sprintf("Imported %d rows, skipped %d (%d without a matching item, %d rejected)",
			s.Imported, s.Skipped, s.MissingItem, s.APIErrors)
	}
	if s.MissingItem >= s.APIErrors && s.MissingItem > 0 {
		return fmt.Sprintf("No rows imported: %d of %d rows had no matching catalog item", s.MissingItem, s.TotalRows)
	}
	return fmt.Sprintf("No rows imported: %d of %d rows failed", s.Skipped, s.TotalRows)
}

// ColumnMap holds the column index for each recognized field, -1 when the
// sheet has no such column.
type ColumnMap struct {
	Code           int
	Description    int
	SubDescription int
	NoOfUnits      int
	Length         int
	Width          int
	Thickness      int
	Quantity       int
}

// fallbackColumns is the fixed positional mapping used when no header row
// is recognized.
var fallbackColumns = ColumnMap{
	Code:           0,
	Description:    1,
	SubDescription: 2,
	NoOfUnits:      3,
	Length:         4,
	Width:          5,
	Thickness:      6,
	Quantity:       7,
}

// DetectHeader scans all rows for the first one carrying both an
// item-identity column (code or description) and both length and width
// columns. It returns the index of the first data row, the detected column
// mapping, and whether a header was found. Without a header, scanning
// starts at row 0 with the fixed fallback mapping.
func DetectHeader(rows [][]string) (dataStart int, cm ColumnMap, found bool) {
	for rowIdx, row := range rows {
		candidate := ColumnMap{Code: -1, Description: -1, SubDescription: -1,
			NoOfUnits: -1, Length: -1, Width: -1, Thickness: -1, Quantity: -1}

		for colIdx, cell := range row {
			norm := normalizeKey(cell)
			if norm == "" {
				continue
			}
			switch {
			case strings.Contains(norm, "subdescription") || strings.Contains(norm, "subitem"):
				setIfUnset(&candidate.SubDescription, colIdx)
			case strings.Contains(norm, "code") || strings.Contains(norm, "itemno"):
				setIfUnset(&candidate.Code, colIdx)
			case strings.Contains(norm, "description") || strings.Contains(norm, "itemofwork"):
				setIfUnset(&candidate.Description, colIdx)
			case strings.Contains(norm, "noofunit") || norm == "no" || norm == "nos":
				setIfUnset(&candidate.NoOfUnits, colIdx)
			case strings.Contains(norm, "length"):
				setIfUnset(&candidate.Length, colIdx)
			case strings.Contains(norm, "width") || strings.Contains(norm, "breadth"):
				setIfUnset(&candidate.Width, colIdx)
			case strings.Contains(norm, "thick") || strings.Contains(norm, "depth") || strings.Contains(norm, "height"):
				setIfUnset(&candidate.Thickness, colIdx)
			case strings.Contains(norm, "qty") || strings.Contains(norm, "quantity"):
				setIfUnset(&candidate.Quantity, colIdx)
			}
		}

		hasIdentity := candidate.Code >= 0 || candidate.Description >= 0
		if hasIdentity && candidate.Length >= 0 && candidate.Width >= 0 {
			return rowIdx + 1, candidate, true
		}
	}
	return 0, fallbackColumns, false
}

func setIfUnset(target *int, idx int) {
	if *target < 0 {
		*target = idx
	}
}

// Importer runs one bulk import: header detection, row scanning with
// continuation-row carry-forward, catalog resolution, dimension parsing and
// sequential submission to the line-creation collaborator.
//
// Rows are processed strictly in order, one submission at a time: the
// carry-forward rule depends on left-to-right ordering and the progress
// percentage must reflect rows actually completed.
type Importer struct {
	Catalog []CatalogItem
	Creator LineCreator

	// Progress, when set, receives an integer 0-100 after every processed
	// row.
	Progress func(pct int)
}

// scanState is the fold accumulator of the row scan: the most recently
// resolved item (for continuation rows) and the running summary.
type scanState struct {
	lastItem *CatalogItem
	summary  *RunSummary
}

// Run executes the import against the raw cell grid and returns the
// accounting for the run. Individual row failures never abort the run.
func (imp *Importer) Run(estimationID string, rows [][]string) *RunSummary {
	dataStart, cm, _ := DetectHeader(rows)
	dataRows := rows[dataStart:]

	state := scanState{summary: &RunSummary{TotalRows: len(dataRows)}}
	for _, row := range dataRows {
		imp.processRow(&state, estimationID, row, cm)
		state.summary.ProcessedRows++
		imp.emitProgress(state.summary)
	}
	return state.summary
}

func (imp *Importer) emitProgress(s *RunSummary) {
	if imp.Progress == nil || s.TotalRows == 0 {
		return
	}
	imp.Progress(int(math.Round(float64(s.ProcessedRows) / float64(s.TotalRows) * 100)))
}

// processRow is the transition function of the row scan.
func (imp *Importer) processRow(state *scanState, estimationID string, row []string, cm ColumnMap) {
	summary := state.summary

	if isSkippableRow(row) {
		summary.Skipped++
		return
	}

	numericCells := []string{
		cellAt(row, cm.NoOfUnits),
		cellAt(row, cm.Length),
		cellAt(row, cm.Width),
		cellAt(row, cm.Thickness),
		cellAt(row, cm.Quantity),
	}
	if allEmpty(numericCells) {
		// placeholder/annotation row with no numeric content
		summary.Skipped++
		return
	}

	code := cellAt(row, cm.Code)
	desc := cellAt(row, cm.Description)

	item := state.lastItem
	if code != "" || desc != "" {
		item = FindItemForRow(code, desc, imp.Catalog)
		// a failed match clears the carry-forward rather than leaving it
		// stale for the rows below
		state.lastItem = item
		if item == nil {
			summary.Skipped++
			summary.MissingItem++
			return
		}
	}
	if item == nil {
		summary.Skipped++
		summary.MissingItem++
		return
	}

	if !item.HasUsableRate() {
		summary.Skipped++
		return
	}

	payload, err := buildRowPayload(item, row, cm)
	if err != nil {
		summary.Skipped++
		return
	}

	if err := imp.Creator.CreateLine(estimationID, payload); err != nil {
		summary.Skipped++
		summary.APIErrors++
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("row %d: %v", dataRowNumber(summary), err))
		return
	}
	summary.Imported++
}

// buildRowPayload parses the dimension cells and assembles the line payload.
// Any invalid expression rejects the whole row.
func buildRowPayload(item *CatalogItem, row []string, cm ColumnMap) (LinePayload, error) {
	noOfUnits, err := ParseDimension(cellAt(row, cm.NoOfUnits))
	if err != nil {
		return LinePayload{}, err
	}
	length, err := ParseDimension(cellAt(row, cm.Length))
	if err != nil {
		return LinePayload{}, err
	}
	width, err := ParseDimension(cellAt(row, cm.Width))
	if err != nil {
		return LinePayload{}, err
	}
	thickness, err := ParseDimension(cellAt(row, cm.Thickness))
	if err != nil {
		return LinePayload{}, err
	}
	quantity, err := ParseDimension(cellAt(row, cm.Quantity))
	if err != nil {
		return LinePayload{}, err
	}

	if noOfUnits.Value == nil {
		one := 1.0
		noOfUnits = Dimension{Value: &one, Raw: "1"}
	}

	mode := ModeDefault
	if quantity.Value != nil {
		mode = ModeQuantity
	}

	return LinePayload{
		ItemID:         item.ID,
		SubDescription: cellAt(row, cm.SubDescription),
		Mode:           mode,
		NoOfUnits:      noOfUnits,
		Length:         length,
		Width:          width,
		Thickness:      thickness,
		Quantity:       quantity,
	}, nil
}

// isSkippableRow recognizes structural noise: blank rows, single-celled
// section captions, and total/subtotal rows.
func isSkippableRow(row []string) bool {
	nonEmpty := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			nonEmpty++
		}
		if strings.Contains(strings.ToLower(cell), "total") {
			return true
		}
	}
	return nonEmpty <= 1
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

// cellAt returns the trimmed cell value, tolerating ragged rows and absent
// columns (idx < 0).
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// dataRowNumber is the 1-based number of the row currently being processed,
// used in preserved error messages.
func dataRowNumber(s *RunSummary) int {
	return s.ProcessedRows + 1
}

// ErrImportInProgress is returned when a second import run is started for an
// estimation that already has one in flight.
var ErrImportInProgress = errors.New("an import is already running for this estimation")
