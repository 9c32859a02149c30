package geo

import (
	"testing"

	"github.com/hyperjump/dishmatch/internal/models"
)

func BenchmarkRank(b *testing.B) {
	records := make([]models.Restaurant, 10000)
	for i := range records {
		lat := 28.0 + float64(i%100)/100
		lng := 77.0 + float64(i/100)/100
		records[i].Latitude = &lat
		records[i].Longitude = &lng
	}
	candidates := make([]*models.Restaurant, len(records))
	for i := range records {
		candidates[i] = &records[i]
	}
	origin := Point{Lat: 28.5, Lng: 77.5}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Rank(origin, 5, candidates, 20)
	}
}
