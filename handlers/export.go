package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"estimation/services"
)

// buildExportData fetches the estimation and all its lines, returning an
// ExportData struct ready for rendering.
func buildExportData(app *pocketbase.PocketBase, estimationID string) (services.ExportData, error) {
	estimation, err := app.FindRecordById("estimations", estimationID)
	if err != nil {
		return services.ExportData{}, fmt.Errorf("estimation not found: %w", err)
	}

	linesCol, err := app.FindCollectionByNameOrId("estimation_lines")
	if err != nil {
		return services.ExportData{}, fmt.Errorf("collection not found: %w", err)
	}

	lines, err := app.FindRecordsByFilter(linesCol,
		"estimation = {:est}", "created", 0, 0,
		map[string]any{"est": estimationID},
	)
	if err != nil {
		lines = nil
	}

	var rows []services.ExportRow
	var totalAmount float64

	for i, line := range lines {
		code := ""
		description := ""
		unit := ""
		if item, err := app.FindRecordById("rate_items", line.GetString("item")); err == nil {
			code = item.GetString("code")
			description = item.GetString("description")
			unit = item.GetString("unit")
		}

		amount := line.GetFloat("amount")
		totalAmount += amount

		rows = append(rows, services.ExportRow{
			Index:          fmt.Sprintf("%d", i+1),
			Code:           code,
			Description:    description,
			SubDescription: line.GetString("sub_description"),
			Unit:           unit,
			NoOfUnits:      services.FormatDimensionCell(dimensionFromRecord(line, "no_of_units")),
			Length:         services.FormatDimensionCell(dimensionFromRecord(line, "length")),
			Width:          services.FormatDimensionCell(dimensionFromRecord(line, "width")),
			Thickness:      services.FormatDimensionCell(dimensionFromRecord(line, "thickness")),
			Quantity:       line.GetFloat("calculated_quantity"),
			Rate:           line.GetFloat("rate"),
			Amount:         amount,
		})
	}

	createdDate := ""
	if dt := estimation.GetDateTime("created"); !dt.IsZero() {
		createdDate = dt.Time().Format("02 Jan 2006")
	}

	return services.ExportData{
		Title:       estimation.GetString("title"),
		Region:      estimation.GetString("region"),
		CreatedDate: createdDate,
		Rows:        rows,
		TotalAmount: totalAmount,
	}, nil
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// HandleEstimationExport generates and downloads an Excel rendition of an
// estimation with all its lines.
// Route: GET /api/estimations/{id}/export
func HandleEstimationExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimationID := e.Request.PathValue("id")

		data, err := buildExportData(app, estimationID)
		if err != nil {
			log.Printf("export_excel: %v", err)
			return apis.NewNotFoundError("Estimation not found", err)
		}

		xlsxBytes, err := services.GenerateEstimationExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return apis.NewInternalServerError("Failed to generate Excel file", err)
		}

		filename := fmt.Sprintf("Estimate_%s_%d.xlsx", sanitizeFilename(data.Title), time.Now().Year())

		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		return e.Blob(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", xlsxBytes)
	}
}
