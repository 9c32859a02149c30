package vector

import (
	"context"
	"testing"
)

func BenchmarkFlatIndexSearch(b *testing.B) {
	const n, dims = 10000, 384
	vecs := make([][]float32, n)
	for i := range vecs {
		vecs[i] = make([]float32, dims)
		vecs[i][i%dims] = float32(i) / n
	}
	idx, err := NewFlatIndex(dims, vecs)
	if err != nil {
		b.Fatal(err)
	}
	query := make([]float32, dims)
	query[0] = 1
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = idx.Search(ctx, query, 10)
	}
}
