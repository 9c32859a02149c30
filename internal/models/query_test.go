package models

import (
	"math"
	"testing"
)

func TestSemanticQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   SemanticQuery
		wantErr bool
	}{
		{"explicit limit", SemanticQuery{Query: "pizza", Limit: 12}, false},
		{"empty query allowed", SemanticQuery{Query: "", Limit: 5}, false},
		{"limit far above catalog size", SemanticQuery{Query: "x", Limit: 5000}, false},
		{"zero limit", SemanticQuery{Query: "pizza"}, true},
		{"negative limit", SemanticQuery{Query: "x", Limit: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.query.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNearbyQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   NearbyQuery
		wantErr bool
	}{
		{"valid", NearbyQuery{Lat: 28.6, Lng: 77.2, RadiusKm: 3, Limit: 20}, false},
		{"zero radius", NearbyQuery{Lat: 28.6, Lng: 77.2, RadiusKm: 0, Limit: 1}, false},
		{"negative radius", NearbyQuery{Lat: 28.6, Lng: 77.2, RadiusKm: -1, Limit: 1}, true},
		{"nan radius", NearbyQuery{Lat: 28.6, Lng: 77.2, RadiusKm: math.NaN(), Limit: 1}, true},
		{"latitude out of range", NearbyQuery{Lat: 91, Lng: 0, RadiusKm: 1, Limit: 1}, true},
		{"longitude out of range", NearbyQuery{Lat: 0, Lng: -181, RadiusKm: 1, Limit: 1}, true},
		{"zero limit", NearbyQuery{Lat: 0, Lng: 0, RadiusKm: 1, Limit: 0}, true},
		{"large limit", NearbyQuery{Lat: 0, Lng: 0, RadiusKm: 1, Limit: 5000}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.query.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRestaurant_Position(t *testing.T) {
	lat, lng := 40.7, -74.0
	r := &Restaurant{Latitude: &lat, Longitude: &lng}
	if gotLat, gotLng, ok := r.Position(); !ok || gotLat != lat || gotLng != lng {
		t.Errorf("Position() = %v, %v, %v", gotLat, gotLng, ok)
	}
	if _, _, ok := (&Restaurant{Latitude: &lat}).Position(); ok {
		t.Error("missing longitude should report no position")
	}
}

func TestBrowseFilter_Matches(t *testing.T) {
	r := &Restaurant{Name: "Le Petit Souffle", City: "Makati City", Cuisines: "French, Japanese, Desserts", Country: "Phillipines", AverageCostForTwo: 1100}
	low, high := 1000.0, 1200.0
	tooHigh := 1500.0
	tests := []struct {
		name   string
		filter BrowseFilter
		want   bool
	}{
		{"empty filter", BrowseFilter{}, true},
		{"name substring", BrowseFilter{Name: "petit"}, true},
		{"city mismatch", BrowseFilter{City: "Manila"}, false},
		{"cuisine substring", BrowseFilter{Cuisine: "japan"}, true},
		{"country", BrowseFilter{Country: "phil"}, true},
		{"cost window", BrowseFilter{MinCost: &low, MaxCost: &high}, true},
		{"below min", BrowseFilter{MinCost: &tooHigh}, false},
		{"above max", BrowseFilter{MaxCost: &low}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(r); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
