package indexer

import (
	"strconv"
	"strings"

	"github.com/hyperjump/dishmatch/internal/models"
)

// SearchableText concatenates the record's descriptive fields in a fixed order with
// single spaces. Identifiers are not part of the text.
func SearchableText(r *models.Restaurant) string {
	fields := []string{
		r.Name,
		r.Country,
		strconv.Itoa(r.CountryCode),
		r.City,
		r.Address,
		r.Locality,
		r.LocalityVerbose,
		formatOptional(r.Longitude),
		formatOptional(r.Latitude),
		r.Cuisines,
		formatFloat(r.AverageCostForTwo),
		r.Currency,
		r.HasTableBooking,
		r.HasOnlineDelivery,
		r.IsDeliveringNow,
		r.SwitchToOrderMenu,
		strconv.Itoa(r.PriceRange),
		formatFloat(r.AggregateRating),
		r.RatingColor,
		r.RatingText,
		strconv.Itoa(r.Votes),
	}
	return strings.Join(fields, " ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
