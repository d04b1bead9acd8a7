package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type rateItemDef struct {
	code        string
	description string
	division    string
	region      string
	unit        string
	rate        float64
}

// seedRegions are the current zone names. Legacy spellings in older data are
// rewritten by MigrateRegionAliases on startup.
var seedRegions = []string{
	"Dhaka Zone",
	"Chattogram Zone",
	"Cumilla Zone",
	"Sylhet Zone",
	"Khulna Zone",
	"Jashore Zone",
	"Barishal Zone",
	"Rangpur Zone",
	"Rajshahi Zone",
	"Bogura Zone",
	"Mymensingh Zone",
	"Gopalganj Zone",
}

var seedDivisions = []struct {
	name string
	code string
}{
	{"Earthwork", "EW"},
	{"Pavement", "PV"},
	{"Structures", "ST"},
	{"Drainage", "DR"},
	{"Miscellaneous", "MS"},
}

var seedRateItems = []rateItemDef{
	{"EW-01-101", "Earthwork in excavation in all kinds of soil", "Earthwork", "Dhaka Zone", "Cu.M", 185.50},
	{"EW-01-102", "Earthwork in embankment with carried earth", "Earthwork", "Dhaka Zone", "Cu.M", 226.75},
	{"EW-01-103", "Sand filling in foundation trenches", "Earthwork", "Dhaka Zone", "Cu.M", 412.00},
	{"PV-02-201", "Single layer brick flat soling", "Pavement", "Dhaka Zone", "Sq.M", 318.20},
	{"PV-02-202", "Herring bone bond brick on edge", "Pavement", "Dhaka Zone", "Sq.M", 642.90},
	{"PV-02-210", "Dense bituminous surfacing 40mm thick", "Pavement", "Dhaka Zone", "Sq.M", 584.35},
	{"ST-03-301", "Cement concrete 1:2:4 with stone chips", "Structures", "Dhaka Zone", "Cu.M", 8975.00},
	{"ST-03-305", "Reinforcement work with 60 grade deformed bar", "Structures", "Dhaka Zone", "MT", 92140.00},
	{"DR-04-401", "RCC pipe culvert 900mm dia laying", "Drainage", "Dhaka Zone", "RM", 3120.45},
	{"DR-04-402", "Brick masonry surface drain", "Drainage", "Dhaka Zone", "RM", 1486.00},
	{"MS-05-501", "Road marking with thermoplastic paint", "Miscellaneous", "Dhaka Zone", "Sq.M", 760.00},
	{"MS-05-502", "Supplying and fixing km post", "Miscellaneous", "Dhaka Zone", "Nos", 4250.00},
	// Chattogram items priced separately; one deliberately without a rate.
	{"EW-01-101", "Earthwork in excavation in all kinds of soil", "Earthwork", "Chattogram Zone", "Cu.M", 197.25},
	{"PV-02-201", "Single layer brick flat soling", "Pavement", "Chattogram Zone", "Sq.M", 331.70},
	{"MS-05-503", "Turfing on embankment slope", "Miscellaneous", "Chattogram Zone", "Sq.M", 0},
}

// Seed populates the catalog collections with a realistic schedule-of-rates
// data set. It is safe to call on every startup because it returns early if
// any organization records already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if organizations already exist ─────────────
	orgsCol, err := app.FindCollectionByNameOrId("organizations")
	if err != nil {
		return fmt.Errorf("seed: could not find organizations collection: %w", err)
	}
	existing, err := app.FindAllRecords(orgsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query organizations: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: organizations collection is empty – inserting seed data …")

	regionsCol, err := app.FindCollectionByNameOrId("regions")
	if err != nil {
		return fmt.Errorf("seed: could not find regions collection: %w", err)
	}
	divisionsCol, err := app.FindCollectionByNameOrId("divisions")
	if err != nil {
		return fmt.Errorf("seed: could not find divisions collection: %w", err)
	}
	rateItemsCol, err := app.FindCollectionByNameOrId("rate_items")
	if err != nil {
		return fmt.Errorf("seed: could not find rate_items collection: %w", err)
	}

	org := core.NewRecord(orgsCol)
	org.Set("name", "Roads and Highways Department")
	if err := app.Save(org); err != nil {
		return fmt.Errorf("seed: could not create organization: %w", err)
	}

	for _, name := range seedRegions {
		r := core.NewRecord(regionsCol)
		r.Set("name", name)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: could not create region %q: %w", name, err)
		}
	}

	divisionIDs := make(map[string]string, len(seedDivisions))
	for _, d := range seedDivisions {
		r := core.NewRecord(divisionsCol)
		r.Set("name", d.name)
		r.Set("code", d.code)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: could not create division %q: %w", d.name, err)
		}
		divisionIDs[d.name] = r.Id
	}

	for _, item := range seedRateItems {
		r := core.NewRecord(rateItemsCol)
		r.Set("code", item.code)
		r.Set("description", item.description)
		r.Set("division", divisionIDs[item.division])
		r.Set("region", item.region)
		r.Set("organization", org.Id)
		r.Set("unit", item.unit)
		if item.rate > 0 {
			r.Set("rate", item.rate)
		}
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: could not create rate item %q: %w", item.code, err)
		}
	}

	log.Printf("seed: inserted %d regions, %d divisions, %d rate items\n",
		len(seedRegions), len(seedDivisions), len(seedRateItems))
	return nil
}
