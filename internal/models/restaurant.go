// Package models defines core data structures for restaurants, queries, and results.
package models

// Restaurant is one immutable catalog record.
// ID is the dense row index assigned at load time; RestaurantID comes from the catalog
// and is not guaranteed to be unique.
type Restaurant struct {
	ID                int      `json:"id"`
	RestaurantID      int64    `json:"restaurant_id"`
	Name              string   `json:"restaurant_name"`
	Country           string   `json:"country"`
	CountryCode       int      `json:"country_code"`
	City              string   `json:"city"`
	Address           string   `json:"address"`
	Locality          string   `json:"locality"`
	LocalityVerbose   string   `json:"locality_verbose"`
	Longitude         *float64 `json:"longitude"`
	Latitude          *float64 `json:"latitude"`
	Cuisines          string   `json:"cuisines"`
	AverageCostForTwo float64  `json:"average_cost_for_two"`
	Currency          string   `json:"currency"`
	HasTableBooking   string   `json:"has_table_booking"`
	HasOnlineDelivery string   `json:"has_online_delivery"`
	IsDeliveringNow   string   `json:"is_delivering_now"`
	SwitchToOrderMenu string   `json:"switch_to_order_menu"`
	PriceRange        int      `json:"price_range"`
	AggregateRating   float64  `json:"aggregate_rating"`
	RatingColor       string   `json:"rating_color"`
	RatingText        string   `json:"rating_text"`
	Votes             int      `json:"votes"`
}

// Position returns the record's coordinates and whether both are present.
func (r *Restaurant) Position() (lat, lng float64, ok bool) {
	if r.Latitude == nil || r.Longitude == nil {
		return 0, 0, false
	}
	return *r.Latitude, *r.Longitude, true
}

// ScoredRestaurant pairs a record with its semantic similarity to a query.
type ScoredRestaurant struct {
	*Restaurant
	Similarity float64 `json:"similarity"`
}

// NearbyRestaurant pairs a record with its great-circle distance from an origin.
type NearbyRestaurant struct {
	*Restaurant
	DistanceKm float64 `json:"distance_km"`
}
