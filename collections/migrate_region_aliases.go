package collections

import (
	"fmt"
	"log"
	"strings"

	"github.com/pocketbase/pocketbase"
)

// legacyRegionSpellings maps the pre-rename zone names to their current
// display form. Resolution treats both spellings as equal regardless, but
// rewriting stored records keeps lists and filters from showing the same
// zone twice.
var legacyRegionSpellings = map[string]string{
	"Chittagong": "Chattogram",
	"Comilla":    "Cumilla",
	"Barisal":    "Barishal",
	"Jessore":    "Jashore",
	"Bogra":      "Bogura",
}

// MigrateRegionAliases rewrites legacy region spellings on rate_items and
// estimations records to the current zone names. Safe to call on every
// startup -- returns early if nothing to migrate.
func MigrateRegionAliases(app *pocketbase.PocketBase) error {
	migrated := 0
	for _, colName := range []string{"rate_items", "estimations"} {
		col, err := app.FindCollectionByNameOrId(colName)
		if err != nil {
			return fmt.Errorf("migrate: could not find %s collection: %w", colName, err)
		}

		records, err := app.FindAllRecords(col)
		if err != nil {
			return fmt.Errorf("migrate: could not query %s: %w", colName, err)
		}

		for _, record := range records {
			region := record.GetString("region")
			updated := region
			for old, current := range legacyRegionSpellings {
				updated = strings.ReplaceAll(updated, old, current)
			}
			if updated == region {
				continue
			}
			record.Set("region", updated)
			if err := app.Save(record); err != nil {
				log.Printf("migrate: failed to update region on %s %s: %v\n", colName, record.Id, err)
				continue
			}
			migrated++
		}
	}

	if migrated > 0 {
		log.Printf("migrate: rewrote legacy region spelling on %d record(s)\n", migrated)
	}
	return nil
}
