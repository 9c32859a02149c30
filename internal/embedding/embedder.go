// Package embedding provides text embedding via ONNX and caching.
package embedding

import (
	"context"

	"github.com/hyperjump/dishmatch/pkg/utils"
)

// Embedder produces unit-normalized vector embeddings for text.
// EmbedBatch returns one vector per input, in input order.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// embedEach runs embed over texts in order, stopping at the first error or when ctx is done.
func embedEach(ctx context.Context, texts []string, embed func(context.Context, string) ([]float32, error)) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		emb, err := embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// normalize scales v to unit length; an all-zero vector is left as is.
func normalize(v []float32) []float32 {
	utils.NormalizeL2(v)
	return v
}
