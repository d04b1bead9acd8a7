package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"estimation/testhelpers"
)

func catalogRequest(t *testing.T, query string) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/catalog/items?"+strings.ReplaceAll(query, " ", "%20"), nil)
	return httptest.NewRecorder(), req
}

func TestHandleCatalogItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	org := testhelpers.CreateTestOrganization(t, app, "Catalog Org")
	other := testhelpers.CreateTestOrganization(t, app, "Other Org")

	testhelpers.CreateTestRateItem(t, app, org.Id,
		"EW-01-101", "Earthwork in excavation", "Dhaka Zone", "Cu.M", 185.5)
	testhelpers.CreateTestRateItem(t, app, org.Id,
		"PV-02-201", "Brick flat soling", "Chattogram Zone", "Sq.M", 331.7)
	testhelpers.CreateTestRateItem(t, app, org.Id,
		"MS-05-503", "Turfing on embankment slope", "Dhaka Zone", "Sq.M", 0)
	testhelpers.CreateTestRateItem(t, app, other.Id,
		"EW-01-101", "Earthwork in excavation", "Dhaka Zone", "Cu.M", 200)

	handler := HandleCatalogItems(app)

	decode := func(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
		t.Helper()
		var out []map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		return out
	}

	t.Run("organization scoping", func(t *testing.T) {
		rec, req := catalogRequest(t, "organization="+org.Id)
		if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		items := decode(t, rec)
		if len(items) != 3 {
			t.Errorf("got %d items, want 3", len(items))
		}
	})

	t.Run("region filter honors legacy spelling", func(t *testing.T) {
		rec, req := catalogRequest(t, "organization="+org.Id+"&region=Chittagong Zone")
		if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		items := decode(t, rec)
		if len(items) != 1 {
			t.Fatalf("got %d items, want 1", len(items))
		}
		if items[0]["code"] != "PV-02-201" {
			t.Errorf("item code = %v, want PV-02-201", items[0]["code"])
		}
	})

	t.Run("text query", func(t *testing.T) {
		rec, req := catalogRequest(t, "organization="+org.Id+"&q=earthwork")
		if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		items := decode(t, rec)
		if len(items) != 1 {
			t.Fatalf("got %d items, want 1", len(items))
		}
	})

	t.Run("has_rate flag", func(t *testing.T) {
		rec, req := catalogRequest(t, "organization="+org.Id+"&q=turfing")
		if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		items := decode(t, rec)
		if len(items) != 1 {
			t.Fatalf("got %d items, want 1", len(items))
		}
		if items[0]["has_rate"] != false {
			t.Errorf("has_rate = %v, want false for a zero-rate item", items[0]["has_rate"])
		}
	})

	t.Run("missing organization", func(t *testing.T) {
		rec, req := catalogRequest(t, "q=earthwork")
		if err := handler(newTestRequestEvent(app, req, rec)); err == nil {
			t.Error("expected a bad request error")
		}
	})
}
