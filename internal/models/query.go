package models

import (
	"fmt"
	"math"

	"github.com/hyperjump/dishmatch/pkg/utils"
)

// SemanticQuery is a free-text search request.
type SemanticQuery struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// Validate rejects a non-positive limit. Any query text, including empty, is searchable.
func (q *SemanticQuery) Validate() error {
	return checkLimit(q.Limit)
}

// NearbyQuery is a proximity request around a point.
type NearbyQuery struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	RadiusKm float64 `json:"radius"`
	Limit    int     `json:"limit,omitempty"`
}

// Validate checks coordinates, radius, and limit.
func (q *NearbyQuery) Validate() error {
	if err := ValidateCoordinates(q.Lat, q.Lng); err != nil {
		return err
	}
	if math.IsNaN(q.RadiusKm) || q.RadiusKm < 0 {
		return fmt.Errorf("radius must be a non-negative number of kilometers")
	}
	return checkLimit(q.Limit)
}

// BrowseFilter narrows catalog listings. Text filters are case-insensitive substrings;
// cost bounds are inclusive and ignored when nil.
type BrowseFilter struct {
	Name    string   `json:"name,omitempty"`
	City    string   `json:"city,omitempty"`
	Cuisine string   `json:"cuisine,omitempty"`
	Country string   `json:"country,omitempty"`
	MinCost *float64 `json:"min_cost,omitempty"`
	MaxCost *float64 `json:"max_cost,omitempty"`
}

// Matches reports whether r satisfies every set field of the filter.
func (f BrowseFilter) Matches(r *Restaurant) bool {
	if f.Name != "" && !utils.ContainsFold(r.Name, f.Name) {
		return false
	}
	if f.City != "" && !utils.ContainsFold(r.City, f.City) {
		return false
	}
	if f.Cuisine != "" && !utils.ContainsFold(r.Cuisines, f.Cuisine) {
		return false
	}
	if f.Country != "" && !utils.ContainsFold(r.Country, f.Country) {
		return false
	}
	if f.MinCost != nil && r.AverageCostForTwo < *f.MinCost {
		return false
	}
	if f.MaxCost != nil && r.AverageCostForTwo > *f.MaxCost {
		return false
	}
	return true
}

// ValidateCoordinates rejects non-finite or out-of-range latitude/longitude.
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be within [-90, 90]")
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) || lng < -180 || lng > 180 {
		return fmt.Errorf("longitude must be within [-180, 180]")
	}
	return nil
}

func checkLimit(limit int) error {
	if limit < 1 {
		return fmt.Errorf("limit must be at least 1")
	}
	return nil
}
