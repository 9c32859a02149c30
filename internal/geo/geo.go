// Package geo filters and ranks restaurants by great-circle distance from a point.
package geo

import (
	"fmt"
	"math"
	"sort"

	blevegeo "github.com/blevesearch/bleve/v2/geo"

	"github.com/hyperjump/dishmatch/internal/models"
)

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Validate rejects non-finite or out-of-range coordinates.
func (p Point) Validate() error {
	return models.ValidateCoordinates(p.Lat, p.Lng)
}

// DistanceKm returns the haversine great-circle distance between a and b in kilometers.
// It is symmetric and zero for identical points.
func DistanceKm(a, b Point) float64 {
	if a == b {
		return 0
	}
	return blevegeo.Haversin(a.Lng, a.Lat, b.Lng, b.Lat)
}

// Rank keeps the candidates with a valid position within radiusKm of origin, sorted by
// ascending distance (ties keep candidate order), and returns at most limit of them.
// An empty result is not an error.
func Rank(origin Point, radiusKm float64, candidates []*models.Restaurant, limit int) ([]models.NearbyRestaurant, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(radiusKm) || radiusKm < 0 {
		return nil, fmt.Errorf("radius must be a non-negative number of kilometers")
	}
	if limit < 1 {
		return nil, fmt.Errorf("limit must be at least 1")
	}

	nearby := make([]models.NearbyRestaurant, 0)
	for _, r := range candidates {
		lat, lng, ok := r.Position()
		if !ok {
			continue
		}
		d := DistanceKm(origin, Point{Lat: lat, Lng: lng})
		if math.IsNaN(d) || d > radiusKm {
			continue
		}
		nearby = append(nearby, models.NearbyRestaurant{Restaurant: r, DistanceKm: d})
	}
	sort.SliceStable(nearby, func(i, j int) bool { return nearby[i].DistanceKm < nearby[j].DistanceKm })
	if len(nearby) > limit {
		nearby = nearby[:limit]
	}
	return nearby, nil
}
