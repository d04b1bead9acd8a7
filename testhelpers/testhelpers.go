// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strconv"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimation/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestOrganization creates an organization record with the given name.
func CreateTestOrganization(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("organizations")
	if err != nil {
		t.Fatalf("failed to find organizations collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test organization: %v", err)
	}

	return record
}

// CreateTestEstimation creates an estimation linked to an organization.
func CreateTestEstimation(t *testing.T, app *pocketbase.PocketBase, orgID, title, region string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("estimations")
	if err != nil {
		t.Fatalf("failed to find estimations collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("title", title)
	record.Set("organization", orgID)
	record.Set("region", region)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test estimation: %v", err)
	}

	return record
}

// CreateTestRateItem creates a catalog item. A zero rate is stored as "no
// rate".
func CreateTestRateItem(t *testing.T, app *pocketbase.PocketBase, orgID, code, description, region, unit string, rate float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("rate_items")
	if err != nil {
		t.Fatalf("failed to find rate_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("code", code)
	record.Set("description", description)
	record.Set("region", region)
	record.Set("organization", orgID)
	record.Set("unit", unit)
	if rate > 0 {
		record.Set("rate", rate)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test rate item: %v", err)
	}

	return record
}

// CreateTestLine creates an estimation line with direct quantity input.
func CreateTestLine(t *testing.T, app *pocketbase.PocketBase, estimationID, itemID string, qty, rate float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("estimation_lines")
	if err != nil {
		t.Fatalf("failed to find estimation_lines collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("estimation", estimationID)
	record.Set("item", itemID)
	record.Set("input_mode", "quantity")
	record.Set("quantity", qty)
	record.Set("quantity_expr", strconv.FormatFloat(qty, 'f', -1, 64))
	record.Set("calculated_quantity", qty)
	record.Set("rate", rate)
	record.Set("amount", qty*rate)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test line: %v", err)
	}

	return record
}
