// Package handlers wires the estimation engine to the HTTP surface.
package handlers

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"

	"estimation/services"
)

// lineRequest carries the raw user input for one line. Dimension fields are
// strings because they may hold arithmetic ("2x3", "1/2") rather than plain
// numbers.
type lineRequest struct {
	Item           string `json:"item"`
	SubDescription string `json:"sub_description"`
	Mode           string `json:"mode"`
	NoOfUnits      string `json:"no_of_units"`
	Length         string `json:"length"`
	Width          string `json:"width"`
	Thickness      string `json:"thickness"`
	Quantity       string `json:"quantity"`
}

// parseLineDimensions parses every raw dimension field, returning the name
// of the first invalid field so the error can point at it.
func parseLineDimensions(req lineRequest) (map[services.DimensionField]services.Dimension, string, error) {
	parsed := make(map[services.DimensionField]services.Dimension, 5)
	fields := []struct {
		name services.DimensionField
		raw  string
	}{
		{services.FieldNoOfUnits, req.NoOfUnits},
		{services.FieldLength, req.Length},
		{services.FieldWidth, req.Width},
		{services.FieldThickness, req.Thickness},
		{services.FieldQuantity, req.Quantity},
	}
	for _, f := range fields {
		dim, err := services.ParseDimension(f.raw)
		if err != nil {
			return nil, string(f.name), err
		}
		parsed[f.name] = dim
	}
	return parsed, "", nil
}

// payloadFromRequest converts parsed dimensions into a LinePayload,
// dropping fields the unit policy does not permit for this unit/mode.
func payloadFromRequest(req lineRequest, unit string, parsed map[services.DimensionField]services.Dimension) services.LinePayload {
	mode := services.ModeDefault
	if services.InputMode(req.Mode) == services.ModeQuantity {
		mode = services.ModeQuantity
	}

	allowed := make(map[services.DimensionField]bool)
	for _, f := range services.AllowedInputs(unit, mode) {
		allowed[f] = true
	}
	for field := range parsed {
		if !allowed[field] {
			parsed[field] = services.Dimension{}
		}
	}

	return services.LinePayload{
		ItemID:         req.Item,
		SubDescription: req.SubDescription,
		Mode:           mode,
		NoOfUnits:      parsed[services.FieldNoOfUnits],
		Length:         parsed[services.FieldLength],
		Width:          parsed[services.FieldWidth],
		Thickness:      parsed[services.FieldThickness],
		Quantity:       parsed[services.FieldQuantity],
	}
}

// saveLine persists one estimation line from a payload: it freezes the
// item's current rate, derives quantity and amount, and stores them next to
// the inputs that produced them. Shared by the interactive entry handler
// and the import pipeline so the two paths can never diverge.
func saveLine(app *pocketbase.PocketBase, estimationID string, payload services.LinePayload) (*core.Record, error) {
	item, err := app.FindRecordById("rate_items", payload.ItemID)
	if err != nil {
		return nil, fmt.Errorf("find item %s: %w", payload.ItemID, err)
	}

	col, err := app.FindCollectionByNameOrId("estimation_lines")
	if err != nil {
		return nil, fmt.Errorf("find estimation_lines collection: %w", err)
	}

	unit := item.GetString("unit")
	rate := item.GetFloat("rate")
	dims := services.DimensionValues{
		NoOfUnits: payload.NoOfUnits.Value,
		Length:    payload.Length.Value,
		Width:     payload.Width.Value,
		Thickness: payload.Thickness.Value,
		Quantity:  payload.Quantity.Value,
	}
	qty := services.CalcQuantity(unit, payload.Mode, dims)
	amount := services.CalcAmount(qty, rate)

	record := core.NewRecord(col)
	record.Set("estimation", estimationID)
	record.Set("item", item.Id)
	record.Set("sub_description", payload.SubDescription)
	record.Set("input_mode", string(payload.Mode))
	setDimension(record, "no_of_units", payload.NoOfUnits)
	setDimension(record, "length", payload.Length)
	setDimension(record, "width", payload.Width)
	setDimension(record, "thickness", payload.Thickness)
	setDimension(record, "quantity", payload.Quantity)
	record.Set("calculated_quantity", qty)
	record.Set("rate", rate)
	record.Set("amount", amount)

	if err := app.Save(record); err != nil {
		return nil, fmt.Errorf("save line: %w", err)
	}
	return record, nil
}

// setDimension writes a dimension's numeric value and raw input text. The
// number column is a derived convenience for queries; the raw text column is
// the source of truth, since stored numbers cannot distinguish "unset" from
// an explicit 0.
func setDimension(record *core.Record, field string, dim services.Dimension) {
	if dim.Value == nil {
		record.Set(field, nil)
	} else {
		record.Set(field, *dim.Value)
	}
	record.Set(field+"_expr", dim.Raw)
}

// dimensionFromRecord rebuilds a dimension from its stored raw text. Rows
// written before raw inputs were stored only carry the number column; for
// those a non-zero number is taken as the value and zero as unset.
func dimensionFromRecord(record *core.Record, field string) services.Dimension {
	raw := record.GetString(field + "_expr")
	if raw == "" {
		stored := record.Get(field)
		if stored == nil {
			return services.Dimension{}
		}
		if v := cast.ToFloat64(stored); v != 0 {
			return services.Dimension{Value: &v}
		}
		return services.Dimension{}
	}
	dim, err := services.ParseDimension(raw)
	if err != nil {
		// raw text was validated before it was stored
		return services.Dimension{}
	}
	return dim
}

func clearDimension(record *core.Record, field string) {
	record.Set(field, nil)
	record.Set(field+"_expr", "")
}

func dimensionValue(dim services.Dimension) any {
	if dim.Value == nil {
		return nil
	}
	return *dim.Value
}

func lineResponse(record *core.Record) map[string]any {
	noOfUnits := dimensionFromRecord(record, "no_of_units")
	length := dimensionFromRecord(record, "length")
	width := dimensionFromRecord(record, "width")
	thickness := dimensionFromRecord(record, "thickness")
	quantity := dimensionFromRecord(record, "quantity")

	return map[string]any{
		"id":                  record.Id,
		"estimation":          record.GetString("estimation"),
		"item":                record.GetString("item"),
		"sub_description":     record.GetString("sub_description"),
		"input_mode":          record.GetString("input_mode"),
		"no_of_units":         dimensionValue(noOfUnits),
		"length":              dimensionValue(length),
		"width":               dimensionValue(width),
		"thickness":           dimensionValue(thickness),
		"quantity":            dimensionValue(quantity),
		"no_of_units_expr":    noOfUnits.Expr,
		"length_expr":         length.Expr,
		"width_expr":          width.Expr,
		"thickness_expr":      thickness.Expr,
		"calculated_quantity": record.GetFloat("calculated_quantity"),
		"rate":                record.GetFloat("rate"),
		"amount":              record.GetFloat("amount"),
	}
}

// HandleLineCreate creates one estimation line from interactive entry.
// Route: POST /api/estimations/{id}/lines
func HandleLineCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimationID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("estimations", estimationID); err != nil {
			return apis.NewNotFoundError("Estimation not found", err)
		}

		var req lineRequest
		if err := e.BindBody(&req); err != nil {
			return apis.NewBadRequestError("Invalid request body", err)
		}
		if req.Item == "" {
			return apis.NewBadRequestError("An item is required", nil)
		}

		item, err := app.FindRecordById("rate_items", req.Item)
		if err != nil {
			return apis.NewNotFoundError("Item not found", err)
		}

		parsed, badField, err := parseLineDimensions(req)
		if err != nil {
			return apis.NewBadRequestError(fmt.Sprintf("%s: invalid expression", badField), err)
		}

		payload := payloadFromRequest(req, item.GetString("unit"), parsed)
		record, err := saveLine(app, estimationID, payload)
		if err != nil {
			log.Printf("line_create: %v", err)
			return apis.NewInternalServerError("Could not save the line", err)
		}
		return e.JSON(http.StatusOK, lineResponse(record))
	}
}

// HandleLineUpdate applies partial edits to a line's dimensions, sub
// description or input mode, then recomputes quantity and amount against
// the line's frozen rate. Later catalog rate changes never alter existing
// lines.
// Route: PATCH /api/estimations/{id}/lines/{lineId}
func HandleLineUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		lineID := e.Request.PathValue("lineId")
		record, err := app.FindRecordById("estimation_lines", lineID)
		if err != nil {
			return apis.NewNotFoundError("Line not found", err)
		}
		if est := e.Request.PathValue("id"); est != "" && record.GetString("estimation") != est {
			return apis.NewNotFoundError("Line not found", nil)
		}

		var patch map[string]string
		if err := e.BindBody(&patch); err != nil {
			return apis.NewBadRequestError("Invalid request body", err)
		}

		if v, ok := patch["sub_description"]; ok {
			record.Set("sub_description", v)
		}
		if v, ok := patch["mode"]; ok {
			mode := services.ModeDefault
			if services.InputMode(v) == services.ModeQuantity {
				mode = services.ModeQuantity
			}
			record.Set("input_mode", string(mode))
		}

		dimFields := map[string]services.DimensionField{
			"no_of_units": services.FieldNoOfUnits,
			"length":      services.FieldLength,
			"width":       services.FieldWidth,
			"thickness":   services.FieldThickness,
			"quantity":    services.FieldQuantity,
		}
		for key := range dimFields {
			raw, ok := patch[key]
			if !ok {
				continue
			}
			dim, err := services.ParseDimension(raw)
			if err != nil {
				return apis.NewBadRequestError(fmt.Sprintf("%s: invalid expression", key), err)
			}
			setDimension(record, key, dim)
		}

		item, err := app.FindRecordById("rate_items", record.GetString("item"))
		if err != nil {
			log.Printf("line_update: item lookup %s: %v", record.GetString("item"), err)
			return apis.NewInternalServerError("Could not load the line's item", err)
		}

		// The same unit policy that gates creation and import also gates
		// edits: any field the patched unit/mode pair does not permit is
		// cleared before the recompute, so a mode toggle drops the fields
		// the new mode disallows.
		mode := services.InputMode(record.GetString("input_mode"))
		allowed := make(map[services.DimensionField]bool)
		for _, f := range services.AllowedInputs(item.GetString("unit"), mode) {
			allowed[f] = true
		}
		for key, field := range dimFields {
			if !allowed[field] {
				clearDimension(record, key)
			}
		}

		dims := services.DimensionValues{
			NoOfUnits: dimensionFromRecord(record, "no_of_units").Value,
			Length:    dimensionFromRecord(record, "length").Value,
			Width:     dimensionFromRecord(record, "width").Value,
			Thickness: dimensionFromRecord(record, "thickness").Value,
			Quantity:  dimensionFromRecord(record, "quantity").Value,
		}
		qty := services.CalcQuantity(item.GetString("unit"), mode, dims)
		record.Set("calculated_quantity", qty)
		record.Set("amount", services.CalcAmount(qty, record.GetFloat("rate")))

		if err := app.Save(record); err != nil {
			log.Printf("line_update: save %s: %v", lineID, err)
			return apis.NewInternalServerError("Could not save the line", err)
		}
		return e.JSON(http.StatusOK, lineResponse(record))
	}
}

// HandleLineDelete removes a single line.
// Route: DELETE /api/estimations/{id}/lines/{lineId}
func HandleLineDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		lineID := e.Request.PathValue("lineId")
		record, err := app.FindRecordById("estimation_lines", lineID)
		if err != nil {
			return apis.NewNotFoundError("Line not found", err)
		}
		if err := app.Delete(record); err != nil {
			log.Printf("line_delete: %s: %v", lineID, err)
			return apis.NewInternalServerError("Could not delete the line", err)
		}
		return e.JSON(http.StatusOK, map[string]any{"deleted": 1})
	}
}

// HandleLinesMassDelete removes every line of an estimation. Deletes are
// issued concurrently and all settled; individual failures are reported in
// the count breakdown, never as a fatal abort.
// Route: DELETE /api/estimations/{id}/lines
func HandleLinesMassDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimationID := e.Request.PathValue("id")
		deleted, failed, err := deleteEstimationLines(app, estimationID)
		if err != nil {
			log.Printf("lines_mass_delete: %v", err)
			return apis.NewInternalServerError("Could not delete lines", err)
		}
		return e.JSON(http.StatusOK, map[string]any{"deleted": deleted, "failed": failed})
	}
}

// deleteEstimationLines deletes all lines of an estimation concurrently and
// waits for every delete to settle. The returned error covers only
// wholesale failure (the listing itself); per-record failures are counted.
func deleteEstimationLines(app *pocketbase.PocketBase, estimationID string) (deleted, failed int, err error) {
	col, err := app.FindCollectionByNameOrId("estimation_lines")
	if err != nil {
		return 0, 0, fmt.Errorf("find estimation_lines collection: %w", err)
	}
	records, err := app.FindRecordsByFilter(col,
		"estimation = {:est}", "", 0, 0,
		map[string]any{"est": estimationID},
	)
	if err != nil {
		return 0, 0, fmt.Errorf("query lines for %s: %w", estimationID, err)
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, record := range records {
		wg.Add(1)
		go func(r *core.Record) {
			defer wg.Done()
			err := app.Delete(r)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("lines_delete: %s: %v", r.Id, err)
				failed++
				return
			}
			deleted++
		}(record)
	}
	wg.Wait()
	return deleted, failed, nil
}
