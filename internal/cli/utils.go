// Package cli provides output formatting and an HTTP client for the dishmatch CLI.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/dishmatch/internal/models"
	"github.com/hyperjump/dishmatch/pkg/utils"
)

// OutputFormat is the format for result output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

const rule = "─────────────────────────────────────────────────────────"

// WriteSemanticResults writes ranked semantic search results.
func WriteSemanticResults(w io.Writer, query string, results []models.ScoredRestaurant, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, results)
	}
	fmt.Fprintf(w, "\nFound %d restaurants for %q\n\n", len(results), query)
	for i, r := range results {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "Rank: %d | Similarity: %.4f\n", i+1, r.Similarity)
		writeRestaurant(w, r.Restaurant)
	}
	return nil
}

// WriteNearbyResults writes restaurants ordered by distance.
func WriteNearbyResults(w io.Writer, results []models.NearbyRestaurant, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, results)
	}
	fmt.Fprintf(w, "\nFound %d nearby restaurants\n\n", len(results))
	writeNearby(w, results)
	return nil
}

// WriteImageResult writes the outcome of an image search, including the no-match case.
func WriteImageResult(w io.Writer, result *models.ImageNearbyResult, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, result)
	}
	fmt.Fprintf(w, "\nDish: %s\n", result.Dish)
	if result.FoodFamily != "" {
		fmt.Fprintf(w, "Food family: %s\n", result.FoodFamily)
	}
	fmt.Fprintf(w, "Cuisines: %s\n\n", strings.Join(result.Cuisines, " | "))
	if len(result.Restaurants) == 0 {
		fmt.Fprintln(w, "No nearby restaurants serve these cuisines.")
		return nil
	}
	writeNearby(w, result.Restaurants)
	return nil
}

// WriteCuisineMatches writes matched cuisine labels with their similarity.
func WriteCuisineMatches(w io.Writer, matches []models.CuisineMatch, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, matches)
	}
	for i, m := range matches {
		fmt.Fprintf(w, "%d. %-40s %.4f\n", i+1, m.Label, m.Similarity)
	}
	return nil
}

// WriteStatus writes the engine status.
func WriteStatus(w io.Writer, st models.Status, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, st)
	}
	fmt.Fprintf(w, "restaurants:        %d   # catalog records\n", st.Restaurants)
	fmt.Fprintf(w, "cuisine_labels:     %d   # distinct cuisines strings\n", st.CuisineLabels)
	fmt.Fprintf(w, "countries:          %d\n", st.Countries)
	fmt.Fprintf(w, "embedding_dims:     %d\n", st.EmbeddingDimensions)
	fmt.Fprintf(w, "embedding_provider: %s\n", st.EmbeddingProvider)
	return nil
}

func writeNearby(w io.Writer, results []models.NearbyRestaurant) {
	for i, r := range results {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "Rank: %d | Distance: %.2f km\n", i+1, r.DistanceKm)
		writeRestaurant(w, r.Restaurant)
	}
}

func writeRestaurant(w io.Writer, r *models.Restaurant) {
	if r == nil {
		return
	}
	fmt.Fprintf(w, "%s (id %d, restaurant_id %d)\n", r.Name, r.ID, r.RestaurantID)
	place := r.City
	if r.Country != "" {
		place += ", " + r.Country
	}
	fmt.Fprintf(w, "%s\n", place)
	if r.Cuisines != "" {
		fmt.Fprintf(w, "Cuisines: %s\n", r.Cuisines)
	}
	if r.AggregateRating > 0 {
		fmt.Fprintf(w, "Rating: %.1f (%s, %d votes)\n", r.AggregateRating, r.RatingText, r.Votes)
	}
	if r.Address != "" {
		fmt.Fprintf(w, "%s\n", utils.Truncate(r.Address, 120))
	}
	fmt.Fprintln(w)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
