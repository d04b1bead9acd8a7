package handlers

import (
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"estimation/services"
)

// runRegistry tracks in-flight and finished import runs per estimation. It
// doubles as the run-level lock: a second import against the same
// estimation is rejected while one is in flight.
type runRegistry struct {
	mu        sync.Mutex
	active    map[string]string // estimation id -> run id
	progress  map[string]int
	summaries map[string]*services.RunSummary // last finished run
}

func newRunRegistry() *runRegistry {
	return &runRegistry{
		active:    make(map[string]string),
		progress:  make(map[string]int),
		summaries: make(map[string]*services.RunSummary),
	}
}

func (r *runRegistry) tryStart(estimationID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, running := r.active[estimationID]; running {
		return "", false
	}
	runID := uuid.NewString()
	r.active[estimationID] = runID
	r.progress[estimationID] = 0
	return runID, true
}

func (r *runRegistry) setProgress(estimationID string, pct int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress[estimationID] = pct
}

func (r *runRegistry) finish(estimationID string, summary *services.RunSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, estimationID)
	if summary != nil {
		r.summaries[estimationID] = summary
	}
}

func (r *runRegistry) status(estimationID string) (pct int, running bool, last *services.RunSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, running = r.active[estimationID]
	return r.progress[estimationID], running, r.summaries[estimationID]
}

var importRuns = newRunRegistry()

// pbLineCreator is the PocketBase-backed line-creation collaborator handed
// to the import pipeline. It reuses saveLine so imported rows go through
// the exact same derivation as interactive entry.
type pbLineCreator struct {
	app *pocketbase.PocketBase
}

func (c *pbLineCreator) CreateLine(estimationID string, payload services.LinePayload) error {
	_, err := saveLine(c.app, estimationID, payload)
	return err
}

// HandleImport runs a bulk import from an uploaded .csv/.xlsx file. With
// mode=replace the estimation's existing lines are deleted first; if that
// deletion fails wholesale the run never reaches row scanning.
// Route: POST /api/estimations/{id}/import
func HandleImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimationID := e.Request.PathValue("id")
		estimation, err := app.FindRecordById("estimations", estimationID)
		if err != nil {
			return apis.NewNotFoundError("Estimation not found", err)
		}

		runID, ok := importRuns.tryStart(estimationID)
		if !ok {
			return apis.NewApiError(http.StatusConflict, services.ErrImportInProgress.Error(), nil)
		}

		var summary *services.RunSummary
		defer func() { importRuns.finish(estimationID, summary) }()

		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return apis.NewBadRequestError("File too large or invalid form data", err)
		}
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return apis.NewBadRequestError("Please select a file to upload", err)
		}
		defer file.Close()

		grid, err := services.ParseUploadGrid(file, header.Filename)
		if err != nil {
			log.Printf("import: parse %s: %v", header.Filename, err)
			return apis.NewBadRequestError(err.Error(), err)
		}

		if e.Request.FormValue("mode") == "replace" {
			deleted, failedDeletes, err := deleteEstimationLines(app, estimationID)
			if err != nil {
				log.Printf("import: replace-mode delete: %v", err)
				return apis.NewInternalServerError("Could not clear existing lines; import aborted", err)
			}
			log.Printf("import: replace mode removed %d line(s), %d failed", deleted, failedDeletes)
		}

		catalog, err := services.LoadCatalog(app,
			estimation.GetString("organization"),
			estimation.GetString("region"),
		)
		if err != nil {
			log.Printf("import: load catalog: %v", err)
			return apis.NewInternalServerError("Could not load the item catalog", err)
		}

		importer := services.Importer{
			Catalog: catalog,
			Creator: &pbLineCreator{app: app},
			Progress: func(pct int) {
				importRuns.setProgress(estimationID, pct)
			},
		}
		summary = importer.Run(estimationID, grid)

		return e.JSON(http.StatusOK, map[string]any{
			"run_id":  runID,
			"status":  summary.Status(),
			"message": summary.Message(),
			"summary": summary,
		})
	}
}

// HandleImportProgress reports the 0-100 progress of the in-flight run, or
// the last finished run's outcome.
// Route: GET /api/estimations/{id}/import/progress
func HandleImportProgress(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimationID := e.Request.PathValue("id")
		pct, running, last := importRuns.status(estimationID)

		resp := map[string]any{"progress": pct, "running": running}
		if !running && last != nil {
			resp["status"] = last.Status()
			resp["message"] = last.Message()
		}
		return e.JSON(http.StatusOK, resp)
	}
}

// HandleImportReport downloads an .xlsx summary of the last import run.
// Route: GET /api/estimations/{id}/import/report
func HandleImportReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimationID := e.Request.PathValue("id")
		_, running, last := importRuns.status(estimationID)
		if running || last == nil {
			return apis.NewNotFoundError("No finished import run for this estimation", nil)
		}

		data, err := services.GenerateImportReport(last)
		if err != nil {
			log.Printf("import_report: %v", err)
			return apis.NewInternalServerError("Could not generate the report", err)
		}

		e.Response.Header().Set("Content-Disposition", `attachment; filename="import-report.xlsx"`)
		return e.Blob(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	}
}
