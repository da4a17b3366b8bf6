package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"breizh-server/models"
	"breizh-server/services"
)

func coord(v float64) *float64 { return &v }

func testRouter() *mux.Router {
	catalog := services.NewCatalogFromPOIs([]models.POI{
		{
			ID: "pointe-du-raz", Title: "Pointe du Raz", Department: "Finistère",
			Categories: []string{"lieu", "randonnee"},
			Lat:        coord(48.0393), Lng: coord(-4.7344),
		},
		{
			ID: "phare-eckmuhl", Title: "Phare d'Eckmühl", Department: "Finistère",
			Categories: []string{"phare"},
			Lat:        coord(47.7979), Lng: coord(-4.3726),
		},
		{
			ID: "carnac", Title: "Alignements de Carnac", Department: "Morbihan",
			Categories: []string{"monument"},
			Lat:        coord(47.5927), Lng: coord(-3.0593),
		},
	})
	h := NewPOIHandler(catalog)

	r := mux.NewRouter()
	r.HandleFunc("/pois", h.ListPOIs).Methods("GET")
	r.HandleFunc("/pois/nearby", h.GetNearbyPOIs).Methods("GET")
	r.HandleFunc("/pois/{slug}", h.GetPOI).Methods("GET")
	r.HandleFunc("/pois/{slug}/nearby", h.GetNearbyOfPOI).Methods("GET")
	r.HandleFunc("/suggest", h.GetSuggestions).Methods("GET")
	r.HandleFunc("/categories", h.GetCategories).Methods("GET")
	return r
}

func doRequest(t *testing.T, r *mux.Router, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestListPOIsDepartmentFilter(t *testing.T) {
	rec := doRequest(t, testRouter(), "/pois?departments=Finist%C3%A8re")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp POIListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 2 {
		t.Errorf("expected the 2 Finistère POIs, got %d", resp.Count)
	}
	for _, p := range resp.POIs {
		if p.Department != "Finistère" {
			t.Errorf("unexpected department %q in filtered result", p.Department)
		}
	}
}

func TestListPOIsInvalidSort(t *testing.T) {
	rec := doRequest(t, testRouter(), "/pois?sort=bogus")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListPOIsDistanceSortRequiresOrigin(t *testing.T) {
	rec := doRequest(t, testRouter(), "/pois?sort=distance")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, testRouter(), "/pois?sort=distance&lat=48.0&lng=-4.7")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp POIListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.POIs) != 3 {
		t.Fatalf("expected all 3 POIs, got %d", len(resp.POIs))
	}
	if resp.POIs[0].ID != "pointe-du-raz" {
		t.Errorf("closest POI first expected, got %q", resp.POIs[0].ID)
	}
}

func TestGetPOIBySlug(t *testing.T) {
	rec := doRequest(t, testRouter(), "/pois/phare-d-eckmuhl")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var poi models.POI
	if err := json.Unmarshal(rec.Body.Bytes(), &poi); err != nil {
		t.Fatal(err)
	}
	if poi.ID != "phare-eckmuhl" {
		t.Errorf("got POI %q", poi.ID)
	}

	rec = doRequest(t, testRouter(), "/pois/inconnu")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown slug status = %d, want 404", rec.Code)
	}
}

func TestGetNearbyPOIsValidation(t *testing.T) {
	rec := doRequest(t, testRouter(), "/pois/nearby?lat=abc&lng=-4.7")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad lat status = %d, want 400", rec.Code)
	}
	rec = doRequest(t, testRouter(), "/pois/nearby?lat=48.0&lng=-4.7&radius=-2")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad radius status = %d, want 400", rec.Code)
	}
}

func TestGetNearbyPOIsEmptyIsNotAnError(t *testing.T) {
	rec := doRequest(t, testRouter(), "/pois/nearby?lat=50.0&lng=0.0&radius=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, empty result must not error", rec.Code)
	}
	var resp NearbyPOIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 0 || resp.POIs == nil {
		t.Errorf("expected an empty list, got %+v", resp)
	}
}

func TestGetNearbyOfPOIExcludesSubject(t *testing.T) {
	rec := doRequest(t, testRouter(), "/pois/pointe-du-raz/nearby")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp POIListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	for _, p := range resp.POIs {
		if p.ID == "pointe-du-raz" {
			t.Error("subject POI present in its own neighbours")
		}
	}
}

func TestGetSuggestions(t *testing.T) {
	rec := doRequest(t, testRouter(), "/suggest?q=pointe")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp SuggestionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count == 0 || resp.Suggestions[0].Text != "Pointe du Raz" {
		t.Errorf("unexpected suggestions: %+v", resp.Suggestions)
	}

	rec = doRequest(t, testRouter(), "/suggest?q=pointe&limit=0")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid limit status = %d, want 400", rec.Code)
	}
}

func TestGetCategories(t *testing.T) {
	rec := doRequest(t, testRouter(), "/categories")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Categories  []services.CategoryInfo `json:"categories"`
		Departments []string                `json:"departments"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Categories) != 15 || len(resp.Departments) != 5 {
		t.Errorf("taxonomy shape: %d categories, %d departments", len(resp.Categories), len(resp.Departments))
	}
}
