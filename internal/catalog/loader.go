package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/hyperjump/dishmatch/internal/models"
)

// Catalog CSV and country table column names.
const (
	colRestaurantID      = "Restaurant ID"
	colName              = "Restaurant Name"
	colCountryCode       = "Country Code"
	colCountry           = "Country"
	colCity              = "City"
	colAddress           = "Address"
	colLocality          = "Locality"
	colLocalityVerbose   = "Locality Verbose"
	colLongitude         = "Longitude"
	colLatitude          = "Latitude"
	colCuisines          = "Cuisines"
	colAverageCost       = "Average Cost for two"
	colCurrency          = "Currency"
	colHasTableBooking   = "Has Table booking"
	colHasOnlineDelivery = "Has Online delivery"
	colIsDeliveringNow   = "Is delivering now"
	colSwitchToOrderMenu = "Switch to order menu"
	colPriceRange        = "Price range"
	colAggregateRating   = "Aggregate rating"
	colRatingColor       = "Rating color"
	colRatingText        = "Rating text"
	colVotes             = "Votes"
)

var requiredColumns = []string{colRestaurantID, colName, colCountryCode}

// Load reads the restaurant CSV and the country workbook, left-joins them on country code,
// and assigns dense IDs in row order. Any failure here means the catalog cannot be served.
func Load(restaurantsPath, countriesPath, encoding string) (*Catalog, error) {
	countries, err := LoadCountryTable(countriesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load countries: %w", err)
	}
	f, err := os.Open(restaurantsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open restaurants: %w", err)
	}
	defer f.Close()

	records, err := ReadRestaurants(f, encoding, countries)
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurants: %w", err)
	}
	return New(records, countries.Names()), nil
}

// ReadRestaurants parses restaurant rows from r. Country names are resolved through
// countries; unknown codes leave Country empty.
func ReadRestaurants(r io.Reader, encoding string, countries *CountryTable) ([]models.Restaurant, error) {
	switch strings.ToLower(encoding) {
	case "latin-1", "latin1", "iso-8859-1":
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	case "", "utf-8", "utf8":
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var out []models.Restaurant
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec, err := parseRow(rowReader{cols: cols, row: row}, countries)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

type rowReader struct {
	cols map[string]int
	row  []string
}

func (rr rowReader) text(col string) string {
	i, ok := rr.cols[col]
	if !ok {
		return ""
	}
	return cell(rr.row, i)
}

func (rr rowReader) float(col string) (float64, error) {
	s := rr.text(col)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: invalid number %q", col, s)
	}
	return v, nil
}

func (rr rowReader) int(col string) (int64, error) {
	v, err := rr.float(col)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("column %q: expected an integer, got %v", col, v)
	}
	return int64(v), nil
}

// coordinate returns nil for empty, malformed, non-finite, or out-of-range values.
func (rr rowReader) coordinate(col string, limit float64) *float64 {
	s := rr.text(col)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < -limit || v > limit {
		return nil
	}
	return &v
}

func parseRow(rr rowReader, countries *CountryTable) (models.Restaurant, error) {
	if rr.text(colRestaurantID) == "" {
		return models.Restaurant{}, fmt.Errorf("column %q is empty", colRestaurantID)
	}
	var errs []error
	num := func(col string) float64 {
		v, err := rr.float(col)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}
	integer := func(col string) int64 {
		v, err := rr.int(col)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	rec := models.Restaurant{
		RestaurantID:      integer(colRestaurantID),
		Name:              rr.text(colName),
		CountryCode:       int(integer(colCountryCode)),
		City:              rr.text(colCity),
		Address:           rr.text(colAddress),
		Locality:          rr.text(colLocality),
		LocalityVerbose:   rr.text(colLocalityVerbose),
		Longitude:         rr.coordinate(colLongitude, 180),
		Latitude:          rr.coordinate(colLatitude, 90),
		Cuisines:          rr.text(colCuisines),
		AverageCostForTwo: num(colAverageCost),
		Currency:          rr.text(colCurrency),
		HasTableBooking:   rr.text(colHasTableBooking),
		HasOnlineDelivery: rr.text(colHasOnlineDelivery),
		IsDeliveringNow:   rr.text(colIsDeliveringNow),
		SwitchToOrderMenu: rr.text(colSwitchToOrderMenu),
		PriceRange:        int(integer(colPriceRange)),
		AggregateRating:   num(colAggregateRating),
		RatingColor:       rr.text(colRatingColor),
		RatingText:        rr.text(colRatingText),
		Votes:             int(integer(colVotes)),
	}
	if err := errors.Join(errs...); err != nil {
		return models.Restaurant{}, err
	}
	if name, ok := countries.Name(rec.CountryCode); ok {
		rec.Country = name
	}
	return rec, nil
}
