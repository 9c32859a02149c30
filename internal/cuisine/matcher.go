// Package cuisine maps a free-text food term onto the closest cuisine labels of the catalog.
package cuisine

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperjump/dishmatch/internal/embedding"
	"github.com/hyperjump/dishmatch/internal/indexer"
	"github.com/hyperjump/dishmatch/internal/models"
	"github.com/hyperjump/dishmatch/pkg/utils"
)

// Matcher embeds a term and ranks the cuisine vocabulary against it.
type Matcher struct {
	vocabulary *indexer.Vocabulary
	embedder   embedding.Embedder
}

// NewMatcher returns a Matcher over vocabulary using embedder for query terms.
func NewMatcher(vocabulary *indexer.Vocabulary, embedder embedding.Embedder) *Matcher {
	return &Matcher{vocabulary: vocabulary, embedder: embedder}
}

// Match returns the topK labels most similar to term, best first.
func (m *Matcher) Match(ctx context.Context, term string, topK int) ([]string, error) {
	scored, err := m.MatchScored(ctx, term, topK)
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(scored))
	for i, s := range scored {
		labels[i] = s.Label
	}
	return labels, nil
}

// MatchScored is Match with the cosine similarity of every label.
func (m *Matcher) MatchScored(ctx context.Context, term string, topK int) ([]models.CuisineMatch, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("term must not be empty")
	}
	if topK < 1 {
		return nil, fmt.Errorf("top_k must be at least 1")
	}
	if m.vocabulary.Size() == 0 {
		return []models.CuisineMatch{}, nil
	}
	vec, err := m.embedder.Embed(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("embed term: %w", err)
	}
	return m.vocabulary.Search(ctx, vec, topK)
}

// Size returns the vocabulary size.
func (m *Matcher) Size() int {
	return m.vocabulary.Size()
}

// ContainsAny reports whether any label occurs in cuisines as a case-insensitive substring.
// Empty labels never match.
func ContainsAny(cuisines string, labels []string) bool {
	if cuisines == "" {
		return false
	}
	for _, label := range labels {
		if label != "" && utils.ContainsFold(cuisines, label) {
			return true
		}
	}
	return false
}
