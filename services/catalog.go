package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
)

// CatalogItem is an immutable snapshot of one rate_items record. The engine
// never writes back to the catalog; a line copies the rate at creation time.
type CatalogItem struct {
	ID           string
	Code         string
	Description  string
	DivisionID   string
	Region       string
	Organization string
	Unit         string
	Rate         float64
}

// HasUsableRate reports whether the item carries a rate a line can price
// against. Zero and negative rates count as "no rate".
func (it CatalogItem) HasUsableRate() bool {
	return it.Rate > 0
}

// LoadCatalog builds the catalog snapshot for one organization, restricted
// to the given region. Region comparison goes through the alias table so
// both the old and the renamed zone spellings select the same items.
func LoadCatalog(app *pocketbase.PocketBase, organizationID, region string) ([]CatalogItem, error) {
	col, err := app.FindCollectionByNameOrId("rate_items")
	if err != nil {
		return nil, fmt.Errorf("find rate_items collection: %w", err)
	}

	records, err := app.FindRecordsByFilter(col,
		"organization = {:org}", "code", 0, 0,
		map[string]any{"org": organizationID},
	)
	if err != nil {
		return nil, fmt.Errorf("query rate_items: %w", err)
	}

	items := make([]CatalogItem, 0, len(records))
	for _, r := range records {
		item := CatalogItem{
			ID:           r.Id,
			Code:         r.GetString("code"),
			Description:  r.GetString("description"),
			DivisionID:   r.GetString("division"),
			Region:       r.GetString("region"),
			Organization: r.GetString("organization"),
			Unit:         r.GetString("unit"),
			Rate:         r.GetFloat("rate"),
		}
		items = append(items, item)
	}

	if region == "" {
		return items, nil
	}
	return FilterByRegion(items, region), nil
}
