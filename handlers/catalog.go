package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"estimation/services"
)

// HandleCatalogItems lists catalog items for an organization, optionally
// narrowed by region (alias-aware) and a free-text query against code and
// description. Backs the item picker of the entry form.
// Route: GET /api/catalog/items?organization=&region=&q=
func HandleCatalogItems(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		query := e.Request.URL.Query()
		organizationID := query.Get("organization")
		if organizationID == "" {
			return apis.NewBadRequestError("organization is required", nil)
		}

		items, err := services.LoadCatalog(app, organizationID, query.Get("region"))
		if err != nil {
			return apis.NewInternalServerError("Could not load the item catalog", err)
		}

		if q := strings.TrimSpace(query.Get("q")); q != "" {
			items = filterItems(items, q)
		}

		out := make([]map[string]any, 0, len(items))
		for _, it := range items {
			out = append(out, map[string]any{
				"id":          it.ID,
				"code":        it.Code,
				"description": it.Description,
				"division":    it.DivisionID,
				"region":      it.Region,
				"unit":        it.Unit,
				"rate":        it.Rate,
				"has_rate":    it.HasUsableRate(),
			})
		}
		return e.JSON(http.StatusOK, out)
	}
}

func filterItems(items []services.CatalogItem, q string) []services.CatalogItem {
	needle := strings.ToLower(q)
	out := make([]services.CatalogItem, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Code), needle) ||
			strings.Contains(strings.ToLower(it.Description), needle) {
			out = append(out, it)
		}
	}
	return out
}
