package services

import (
	"sort"
	"strings"

	"breizh-server/models"
)

// FilterCriteria is rebuilt from request parameters on every call; empty
// fields mean "no restriction".
type FilterCriteria struct {
	Categories  []string
	Departments []string
	SearchTerm  string
}

// Sort orders accepted by FilterPOIs callers.
const (
	SortNone       = ""
	SortAlpha      = "alpha"
	SortDepartment = "department"
	SortDistance   = "distance"
)

// FilterPOIs narrows pois to those matching every active criterion.
// Department and category restrictions are set memberships (any category
// overlap counts); the search term matches case-insensitively against
// title, short description, department or any tag. Empty criteria return
// the input unchanged, in original order. The input is never mutated.
func FilterPOIs(pois []models.POI, criteria FilterCriteria) []models.POI {
	term := strings.ToLower(strings.TrimSpace(criteria.SearchTerm))
	if len(criteria.Departments) == 0 && len(criteria.Categories) == 0 && term == "" {
		return pois
	}

	results := make([]models.POI, 0, len(pois))
	for _, p := range pois {
		if len(criteria.Departments) > 0 && !containsString(criteria.Departments, p.Department) {
			continue
		}
		if len(criteria.Categories) > 0 && !anyCategoryMatch(criteria.Categories, p.Categories) {
			continue
		}
		if term != "" && !textMatch(&p, term) {
			continue
		}
		results = append(results, p)
	}
	return results
}

// SortPOIs orders pois by the requested sort. Distance sorting expects the
// Distance annotation to be present (i.e. the list came from Nearby); the
// other sorts work on any list. Sorting is stable so ties keep dataset order.
func SortPOIs(pois []models.POI, order string) {
	switch order {
	case SortAlpha:
		sort.SliceStable(pois, func(i, j int) bool { return pois[i].Title < pois[j].Title })
	case SortDepartment:
		sort.SliceStable(pois, func(i, j int) bool { return pois[i].Department < pois[j].Department })
	case SortDistance:
		sort.SliceStable(pois, func(i, j int) bool { return pois[i].Distance < pois[j].Distance })
	}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func anyCategoryMatch(selected, poiCategories []string) bool {
	for _, c := range poiCategories {
		if containsString(selected, c) {
			return true
		}
	}
	return false
}

func textMatch(p *models.POI, term string) bool {
	if strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.ShortDescription), term) ||
		strings.Contains(strings.ToLower(p.Department), term) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}
