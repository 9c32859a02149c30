package vector

import (
	"context"
	"fmt"
	"sort"
)

// FlatIndex is an immutable in-memory vector index using brute-force search.
// It is built once and safe for concurrent reads; every Search works on its own
// score slice.
type FlatIndex struct {
	dimensions int
	metric     Metric
	vectors    [][]float32
	norms      []float64 // populated for MetricCosine
}

// Option configures a FlatIndex.
type Option func(*FlatIndex)

// WithMetric sets the scoring metric (default MetricDot).
func WithMetric(m Metric) Option {
	return func(f *FlatIndex) { f.metric = m }
}

// NewFlatIndex copies vectors into a new index. Every vector must have the given dimension.
func NewFlatIndex(dimensions int, vectors [][]float32, opts ...Option) (*FlatIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	f := &FlatIndex{
		dimensions: dimensions,
		vectors:    make([][]float32, len(vectors)),
	}
	for _, opt := range opts {
		opt(f)
	}
	for i, v := range vectors {
		if len(v) != dimensions {
			return nil, fmt.Errorf("vector %d dimension mismatch: got %d, expected %d", i, len(v), dimensions)
		}
		vec := make([]float32, dimensions)
		copy(vec, v)
		f.vectors[i] = vec
	}
	if f.metric == MetricCosine {
		f.norms = make([]float64, len(f.vectors))
		for i, v := range f.vectors {
			f.norms[i] = L2Norm(v)
		}
	}
	return f, nil
}

// Scores returns the score of every stored vector against query, by position.
func (f *FlatIndex) Scores(query []float32) ([]float64, error) {
	if len(query) != f.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), f.dimensions)
	}
	scores := make([]float64, len(f.vectors))
	switch f.metric {
	case MetricCosine:
		qn := L2Norm(query)
		for i, vec := range f.vectors {
			scores[i] = InnerProduct(query, vec) / (qn*f.norms[i] + Epsilon)
		}
	default:
		for i, vec := range f.vectors {
			scores[i] = InnerProduct(query, vec)
		}
	}
	return scores, nil
}

// Search returns the top-k positions by descending score. Ties keep insertion order.
// k larger than the index returns every position.
func (f *FlatIndex) Search(ctx context.Context, query []float32, k int) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scores, err := f.Scores(query)
	if err != nil {
		return nil, err
	}
	if k <= 0 || len(scores) == 0 {
		return nil, nil
	}
	return TopK(scores, k), nil
}

// TopK ranks scores descending with a stable sort and keeps the first k.
func TopK(scores []float64, k int) []Result {
	results := make([]Result, len(scores))
	for i, s := range scores {
		results[i] = Result{Position: i, Score: s}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k < len(results) {
		results = results[:k]
	}
	return results
}

// Vector returns a copy of the vector stored at position.
func (f *FlatIndex) Vector(position int) []float32 {
	out := make([]float32, f.dimensions)
	copy(out, f.vectors[position])
	return out
}

// Size returns the number of vectors in the index.
func (f *FlatIndex) Size() int {
	return len(f.vectors)
}

// Dimensions returns the vector dimension.
func (f *FlatIndex) Dimensions() int {
	return f.dimensions
}

// Metric returns the scoring metric.
func (f *FlatIndex) Metric() Metric {
	return f.metric
}
