package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"breizh-server/middleware"
	"breizh-server/models"
	"breizh-server/services"
	"breizh-server/utils/errors"
)

// Caller-side caps and defaults for the proximity endpoints.
const (
	defaultNearbyRadiusKm = 10.0
	nearMeLimit           = 10
	nearbyOfLimit         = 8
	nearbyOfRadiusKm      = 25.0
)

type POIHandler struct {
	catalog *services.CatalogService
}

type POIListResponse struct {
	POIs  []models.POI `json:"pois"`
	Count int          `json:"count"`
}

type NearbyPOIResponse struct {
	POIs   []models.POI `json:"pois"`
	Count  int          `json:"count"`
	Lat    float64      `json:"lat"`
	Lng    float64      `json:"lng"`
	Radius float64      `json:"radius"`
}

type SuggestionResponse struct {
	Suggestions []services.Suggestion `json:"suggestions"`
	Count       int                   `json:"count"`
	Query       string                `json:"query"`
}

func NewPOIHandler(catalog *services.CatalogService) *POIHandler {
	return &POIHandler{catalog: catalog}
}

// ListPOIs filters the catalog by categories, departments and a free-text
// term, with an optional explicit sort.
func (h *POIHandler) ListPOIs(w http.ResponseWriter, r *http.Request) {
	criteria := services.FilterCriteria{
		Categories:  splitParam(r.URL.Query().Get("categories")),
		Departments: splitParam(r.URL.Query().Get("departments")),
		SearchTerm:  r.URL.Query().Get("q"),
	}
	pois := h.catalog.Filter(criteria)

	switch order := r.URL.Query().Get("sort"); order {
	case services.SortNone:
	case services.SortAlpha, services.SortDepartment:
		pois = append([]models.POI(nil), pois...)
		services.SortPOIs(pois, order)
	case services.SortDistance:
		lat, err1 := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		lng, err2 := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
		if err1 != nil || err2 != nil {
			middleware.WriteError(w, errors.ErrInvalidInput)
			return
		}
		pois = sortByDistanceFrom(pois, lat, lng)
	default:
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	writeJSON(w, POIListResponse{POIs: emptyIfNil(pois), Count: len(pois)})
}

// GetPOI returns a single POI by slug.
func (h *POIHandler) GetPOI(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	poi, ok := h.catalog.BySlug(slug)
	if !ok {
		middleware.WriteError(w, errors.ErrNotFound)
		return
	}
	writeJSON(w, poi)
}

// GetNearbyPOIs serves the "near me" carousel: POIs within radius of the
// given origin, closest first, capped at 10.
func (h *POIHandler) GetNearbyPOIs(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	lng, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	radius := defaultNearbyRadiusKm
	if raw := r.URL.Query().Get("radius"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || radius <= 0 {
			middleware.WriteError(w, errors.ErrInvalidInput)
			return
		}
	}

	pois := h.catalog.FindNearby(r.Context(), lat, lng, radius, nearMeLimit)

	writeJSON(w, NearbyPOIResponse{
		POIs:   emptyIfNil(pois),
		Count:  len(pois),
		Lat:    lat,
		Lng:    lng,
		Radius: radius,
	})
}

// GetNearbyOfPOI serves the "nearby this POI" carousel: neighbours of the
// slugged POI, the POI itself excluded, capped at 8.
func (h *POIHandler) GetNearbyOfPOI(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	pois, ok := h.catalog.NearbyOf(r.Context(), slug, nearbyOfRadiusKm, nearbyOfLimit)
	if !ok {
		middleware.WriteError(w, errors.ErrNotFound)
		return
	}
	writeJSON(w, POIListResponse{POIs: emptyIfNil(pois), Count: len(pois)})
}

// GetSuggestions serves search-box autocomplete.
func (h *POIHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := services.DefaultSuggestionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			middleware.WriteError(w, errors.ErrInvalidInput)
			return
		}
		limit = parsed
	}

	suggestions := h.catalog.Suggest(query, limit)
	if suggestions == nil {
		suggestions = []services.Suggestion{}
	}
	writeJSON(w, SuggestionResponse{
		Suggestions: suggestions,
		Count:       len(suggestions),
		Query:       query,
	})
}

// GetCategories exposes the authoritative category table and the
// department list so the filter UI renders from the same source as the
// server.
func (h *POIHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"categories":  services.Categories(),
		"departments": services.Departments,
	})
}

// sortByDistanceFrom annotates and sorts by distance; POIs without
// coordinates keep their relative order at the tail.
func sortByDistanceFrom(pois []models.POI, lat, lng float64) []models.POI {
	located := make([]models.POI, 0, len(pois))
	var unlocated []models.POI
	for _, p := range pois {
		if !p.HasCoordinates() {
			unlocated = append(unlocated, p)
			continue
		}
		annotated := p
		annotated.Distance = services.Haversine(lat, lng, *p.Lat, *p.Lng)
		located = append(located, annotated)
	}
	services.SortPOIs(located, services.SortDistance)
	return append(located, unlocated...)
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func emptyIfNil(pois []models.POI) []models.POI {
	if pois == nil {
		return []models.POI{}
	}
	return pois
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
