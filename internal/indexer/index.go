package indexer

import (
	"context"

	"github.com/hyperjump/dishmatch/internal/catalog"
	"github.com/hyperjump/dishmatch/internal/models"
	"github.com/hyperjump/dishmatch/internal/vector"
)

// CatalogIndex holds one searchable text and one unit vector per restaurant.
// Position i of the vector index is the restaurant with ID i.
type CatalogIndex struct {
	catalog *catalog.Catalog
	texts   []string
	vectors *vector.FlatIndex
}

// Catalog returns the indexed catalog.
func (ci *CatalogIndex) Catalog() *catalog.Catalog {
	return ci.catalog
}

// Text returns the searchable text of restaurant id.
func (ci *CatalogIndex) Text(id int) (string, bool) {
	if id < 0 || id >= len(ci.texts) {
		return "", false
	}
	return ci.texts[id], true
}

// Search ranks restaurants by dot product with the unit query vector.
func (ci *CatalogIndex) Search(ctx context.Context, query []float32, k int) ([]models.ScoredRestaurant, error) {
	hits, err := ci.vectors.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}
	out := make([]models.ScoredRestaurant, 0, len(hits))
	for _, hit := range hits {
		r, _ := ci.catalog.Get(hit.Position)
		out = append(out, models.ScoredRestaurant{Restaurant: r, Similarity: hit.Score})
	}
	return out, nil
}

// Size returns the number of indexed restaurants.
func (ci *CatalogIndex) Size() int {
	return ci.vectors.Size()
}

// Dimensions returns the embedding dimension.
func (ci *CatalogIndex) Dimensions() int {
	return ci.vectors.Dimensions()
}

// Vocabulary holds the distinct cuisine labels and one embedding per label.
type Vocabulary struct {
	labels  []string
	vectors *vector.FlatIndex
}

// Labels returns the labels in vocabulary order.
func (v *Vocabulary) Labels() []string {
	return append([]string(nil), v.labels...)
}

// Size returns the number of labels.
func (v *Vocabulary) Size() int {
	return len(v.labels)
}

// Search ranks labels by cosine similarity (explicitly normalized) with query.
func (v *Vocabulary) Search(ctx context.Context, query []float32, k int) ([]models.CuisineMatch, error) {
	hits, err := v.vectors.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}
	out := make([]models.CuisineMatch, len(hits))
	for i, hit := range hits {
		out[i] = models.CuisineMatch{Label: v.labels[hit.Position], Similarity: hit.Score}
	}
	return out, nil
}
