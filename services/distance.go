package services

import (
	"math"
	"sort"

	"breizh-server/models"
)

const earthRadiusKm = 6371.0

// Haversine computes the great-circle distance between two coordinates in
// kilometers. Invalid inputs (NaN) propagate; callers guard with
// HasCoordinates before calling.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := degreesToRadians(lat1)
	lat2Rad := degreesToRadians(lat2)
	deltaLat := degreesToRadians(lat2 - lat1)
	deltaLng := degreesToRadians(lng2 - lng1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// Nearby selects the POIs within radiusKm of the origin, ascending by
// distance. POIs without coordinates are skipped. Each result is a copy
// annotated with its distance; the input slice is never mutated. The
// radius boundary is inclusive. An empty result is a valid outcome.
func Nearby(pois []models.POI, lat, lng, radiusKm float64) []models.POI {
	var results []models.POI
	for _, p := range pois {
		if !p.HasCoordinates() {
			continue
		}
		dist := Haversine(lat, lng, *p.Lat, *p.Lng)
		if dist > radiusKm {
			continue
		}
		annotated := p
		annotated.Distance = dist
		results = append(results, annotated)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	return results
}
