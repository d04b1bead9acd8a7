package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the organizations, regions,
// divisions, rate_items, estimations and estimation_lines collections exist.
func Setup(app *pocketbase.PocketBase) {
	organizations := ensureCollection(app, "organizations", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})

	ensureCollection(app, "regions", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
	})

	divisions := ensureCollection(app, "divisions", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "code", Required: false})
	})

	rateItems := ensureCollection(app, "rate_items", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "division",
			Required:     false,
			CollectionId: divisions.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "region", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "organization",
			Required:     true,
			CollectionId: organizations.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "unit", Required: true})
		c.Fields.Add(&core.NumberField{Name: "rate", Required: false})
	})

	estimations := ensureCollection(app, "estimations", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "organization",
			Required:     true,
			CollectionId: organizations.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "region", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "division",
			Required:     false,
			CollectionId: divisions.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "estimation_lines", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "estimation",
			Required:      true,
			CollectionId:  estimations.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "item",
			Required:     true,
			CollectionId: rateItems.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "sub_description", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "input_mode",
			Required:  true,
			Values:    []string{"default", "quantity"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "no_of_units", Required: false})
		c.Fields.Add(&core.NumberField{Name: "length", Required: false})
		c.Fields.Add(&core.NumberField{Name: "width", Required: false})
		c.Fields.Add(&core.NumberField{Name: "thickness", Required: false})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: false})
		c.Fields.Add(&core.TextField{Name: "no_of_units_expr", Required: false})
		c.Fields.Add(&core.TextField{Name: "length_expr", Required: false})
		c.Fields.Add(&core.TextField{Name: "width_expr", Required: false})
		c.Fields.Add(&core.TextField{Name: "thickness_expr", Required: false})
		c.Fields.Add(&core.TextField{Name: "quantity_expr", Required: false})
		c.Fields.Add(&core.NumberField{Name: "calculated_quantity", Required: false})
		c.Fields.Add(&core.NumberField{Name: "rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "amount", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
