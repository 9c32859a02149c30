package embedding

import (
	"context"
	"math"
	"strings"
	"unicode"
)

// MockEmbedder is a deterministic bag-of-words embedder for tests and the "mock" provider.
// Every lowercased word maps to a fixed pseudo-random direction and a text embeds as the
// normalized sum of its words, so texts sharing words score closer than unrelated ones.
type MockEmbedder struct {
	dimensions int
}

// NewMockEmbedder returns a mock embedder producing vectors of the given dimensions.
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &MockEmbedder{dimensions: dimensions}
}

// Embed returns the unit vector for text.
func (e *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		words = []string{text}
	}
	emb := make([]float32, e.dimensions)
	for _, w := range words {
		h := HashString(w)
		for i := range emb {
			emb[i] += float32(math.Sin(float64(h*(i+1)))*0.1 + 0.01)
		}
	}
	return normalize(emb), nil
}

// EmbedBatch embeds texts in order.
func (e *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return embedEach(ctx, texts, e.Embed)
}

func (e *MockEmbedder) Dimensions() int {
	return e.dimensions
}

func (e *MockEmbedder) Close() error {
	return nil
}
