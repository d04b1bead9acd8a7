package services

import "testing"

func fixtureCatalog() []CatalogItem {
	return []CatalogItem{
		{ID: "a", Code: "EW-01-101", Description: "Earthwork in excavation in all kinds of soil", Region: "Dhaka Zone", Unit: "Cu.M", Rate: 185.5},
		{ID: "b", Code: "PV-02-201", Description: "Single layer brick flat soling", Region: "Dhaka Zone", Unit: "Sq.M", Rate: 318.2},
		{ID: "c", Code: "DR-04-401", Description: "RCC pipe culvert 900mm dia laying", Region: "Dhaka Zone", Unit: "RM", Rate: 3120.45},
	}
}

func TestFindItemForRow_CodeMatching(t *testing.T) {
	catalog := fixtureCatalog()

	t.Run("exact code", func(t *testing.T) {
		got := FindItemForRow("EW-01-101", "", catalog)
		if got == nil || got.ID != "a" {
			t.Fatalf("expected item a, got %+v", got)
		}
	})

	t.Run("code with surrounding whitespace", func(t *testing.T) {
		got := FindItemForRow("  PV-02-201  ", "", catalog)
		if got == nil || got.ID != "b" {
			t.Fatalf("expected item b, got %+v", got)
		}
	})

	t.Run("normalized code", func(t *testing.T) {
		got := FindItemForRow("ew 01 101", "", catalog)
		if got == nil || got.ID != "a" {
			t.Fatalf("expected item a via normalized code, got %+v", got)
		}
	})

	t.Run("code precedence over description", func(t *testing.T) {
		got := FindItemForRow("DR-04-401", "Single layer brick flat soling", catalog)
		if got == nil || got.ID != "c" {
			t.Fatalf("expected code match to win, got %+v", got)
		}
	})

	t.Run("unknown code falls through to description", func(t *testing.T) {
		got := FindItemForRow("ZZ-99-999", "Single layer brick flat soling", catalog)
		if got == nil || got.ID != "b" {
			t.Fatalf("expected description fallback, got %+v", got)
		}
	})
}

func TestFindItemForRow_DescriptionMatching(t *testing.T) {
	catalog := fixtureCatalog()

	t.Run("exact case-insensitive", func(t *testing.T) {
		got := FindItemForRow("", "single layer BRICK flat soling", catalog)
		if got == nil || got.ID != "b" {
			t.Fatalf("expected item b, got %+v", got)
		}
	})

	t.Run("unique substring", func(t *testing.T) {
		got := FindItemForRow("", "brick flat soling", catalog)
		if got == nil || got.ID != "b" {
			t.Fatalf("expected item b via substring, got %+v", got)
		}
	})

	t.Run("catalog description inside search text", func(t *testing.T) {
		got := FindItemForRow("", "Item: RCC pipe culvert 900mm dia laying (approved)", catalog)
		if got == nil || got.ID != "c" {
			t.Fatalf("expected item c via reverse containment, got %+v", got)
		}
	})

	t.Run("ambiguous substring returns nil", func(t *testing.T) {
		ambiguous := append(fixtureCatalog(), CatalogItem{
			ID: "d", Code: "PV-02-202", Description: "Double layer brick flat soling", Region: "Dhaka Zone",
		})
		if got := FindItemForRow("", "brick flat soling", ambiguous); got != nil {
			t.Fatalf("expected nil on ambiguity, got %+v", got)
		}
	})

	t.Run("duplicate normalized descriptions return nil", func(t *testing.T) {
		dupes := []CatalogItem{
			{ID: "x", Code: "A-1", Description: "Sand filling"},
			{ID: "y", Code: "A-2", Description: "SAND FILLING"},
		}
		if got := FindItemForRow("", "sand fill", dupes); got != nil {
			t.Fatalf("expected nil for duplicate descriptions, got %+v", got)
		}
	})

	t.Run("no match", func(t *testing.T) {
		if got := FindItemForRow("", "submarine hull painting", catalog); got != nil {
			t.Fatalf("expected nil, got %+v", got)
		}
	})

	t.Run("both cells empty", func(t *testing.T) {
		if got := FindItemForRow("", "   ", catalog); got != nil {
			t.Fatalf("expected nil for empty cells, got %+v", got)
		}
	})
}

func TestRegionAliasing(t *testing.T) {
	tests := []struct {
		a, b string
		same bool
	}{
		{"Chittagong Zone", "Chattogram Zone", true},
		{"Comilla Zone", "Cumilla Zone", true},
		{"Barisal Zone", "Barishal Zone", true},
		{"Jessore Zone", "Jashore Zone", true},
		{"Bogra Zone", "Bogura Zone", true},
		{"chattogram zone", "Chattogram Zone", true},
		{"Dhaka Zone", "Chattogram Zone", false},
	}
	for _, tt := range tests {
		if got := SameRegion(tt.a, tt.b); got != tt.same {
			t.Errorf("SameRegion(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.same)
		}
	}
}

func TestFilterByRegion(t *testing.T) {
	catalog := []CatalogItem{
		{ID: "a", Region: "Chittagong Zone"},
		{ID: "b", Region: "Chattogram Zone"},
		{ID: "c", Region: "Dhaka Zone"},
	}

	got := FilterByRegion(catalog, "Chattogram Zone")
	if len(got) != 2 {
		t.Fatalf("expected both alias spellings to match, got %d items", len(got))
	}
	for _, it := range got {
		if it.ID == "c" {
			t.Errorf("Dhaka item should not match Chattogram filter")
		}
	}
}

func TestHasUsableRate(t *testing.T) {
	if (CatalogItem{Rate: 0}).HasUsableRate() {
		t.Error("zero rate should not be usable")
	}
	if (CatalogItem{Rate: -5}).HasUsableRate() {
		t.Error("negative rate should not be usable")
	}
	if !(CatalogItem{Rate: 0.01}).HasUsableRate() {
		t.Error("positive rate should be usable")
	}
}
