package collections_test

import (
	"testing"

	"estimation/collections"
	"estimation/testhelpers"
)

func TestMigrateRegionAliases_RewritesLegacySpellings(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	org := testhelpers.CreateTestOrganization(t, app, "Migrate Org")

	legacy := testhelpers.CreateTestRateItem(t, app, org.Id,
		"EW-01-101", "Earthwork in excavation", "Chittagong Zone", "Cu.M", 197.25)
	current := testhelpers.CreateTestRateItem(t, app, org.Id,
		"EW-01-102", "Earthwork in embankment", "Chattogram Zone", "Cu.M", 226.75)
	est := testhelpers.CreateTestEstimation(t, app, org.Id, "Old Data", "Jessore Zone")

	if err := collections.MigrateRegionAliases(app); err != nil {
		t.Fatalf("MigrateRegionAliases() error: %v", err)
	}

	migrated, err := app.FindRecordById("rate_items", legacy.Id)
	if err != nil {
		t.Fatal(err)
	}
	if got := migrated.GetString("region"); got != "Chattogram Zone" {
		t.Errorf("rate item region = %q, want %q", got, "Chattogram Zone")
	}

	untouched, err := app.FindRecordById("rate_items", current.Id)
	if err != nil {
		t.Fatal(err)
	}
	if got := untouched.GetString("region"); got != "Chattogram Zone" {
		t.Errorf("current spelling was altered: %q", got)
	}

	estAfter, err := app.FindRecordById("estimations", est.Id)
	if err != nil {
		t.Fatal(err)
	}
	if got := estAfter.GetString("region"); got != "Jashore Zone" {
		t.Errorf("estimation region = %q, want %q", got, "Jashore Zone")
	}
}

func TestMigrateRegionAliases_NoopOnCleanData(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	org := testhelpers.CreateTestOrganization(t, app, "Clean Org")
	item := testhelpers.CreateTestRateItem(t, app, org.Id,
		"PV-02-201", "Brick flat soling", "Dhaka Zone", "Sq.M", 318.20)

	if err := collections.MigrateRegionAliases(app); err != nil {
		t.Fatalf("MigrateRegionAliases() error: %v", err)
	}
	if err := collections.MigrateRegionAliases(app); err != nil {
		t.Fatalf("second run error: %v", err)
	}

	after, err := app.FindRecordById("rate_items", item.Id)
	if err != nil {
		t.Fatal(err)
	}
	if got := after.GetString("region"); got != "Dhaka Zone" {
		t.Errorf("region = %q, want unchanged %q", got, "Dhaka Zone")
	}
}
