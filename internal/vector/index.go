// Package vector provides an immutable flat vector index and similarity helpers.
package vector

import "context"

// Index ranks stored vectors against a query vector.
type Index interface {
	Search(ctx context.Context, query []float32, k int) ([]Result, error)
	Size() int
	Dimensions() int
}

// Result is a single hit. Position is the vector's insertion position.
type Result struct {
	Position int
	Score    float64
}

// Metric selects how Search scores vectors.
type Metric int

const (
	// MetricDot scores by inner product; equals cosine similarity for unit vectors.
	MetricDot Metric = iota
	// MetricCosine divides the inner product by both norms (plus epsilon).
	MetricCosine
)

func (m Metric) String() string {
	switch m {
	case MetricDot:
		return "dot"
	case MetricCosine:
		return "cosine"
	default:
		return "unknown"
	}
}
