package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimation/collections"
	"estimation/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateRegionAliases(app); err != nil {
			log.Printf("Warning: region alias migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Catalog ──────────────────────────────────────────────
		se.Router.GET("/api/catalog/items", handlers.HandleCatalogItems(app))

		// ── Estimation lines ─────────────────────────────────────
		se.Router.POST("/api/estimations/{id}/lines", handlers.HandleLineCreate(app))
		se.Router.PATCH("/api/estimations/{id}/lines/{lineId}", handlers.HandleLineUpdate(app))
		se.Router.DELETE("/api/estimations/{id}/lines/{lineId}", handlers.HandleLineDelete(app))
		se.Router.DELETE("/api/estimations/{id}/lines", handlers.HandleLinesMassDelete(app))

		// ── Bulk import ──────────────────────────────────────────
		se.Router.POST("/api/estimations/{id}/import", handlers.HandleImport(app))
		se.Router.GET("/api/estimations/{id}/import/progress", handlers.HandleImportProgress(app))
		se.Router.GET("/api/estimations/{id}/import/report", handlers.HandleImportReport(app))

		// ── Export ───────────────────────────────────────────────
		se.Router.GET("/api/estimations/{id}/export", handlers.HandleEstimationExport(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
