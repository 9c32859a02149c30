// Package search runs semantic, proximity, and image-driven restaurant queries.
package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/dishmatch/internal/catalog"
	"github.com/hyperjump/dishmatch/internal/config"
	"github.com/hyperjump/dishmatch/internal/cuisine"
	"github.com/hyperjump/dishmatch/internal/embedding"
	"github.com/hyperjump/dishmatch/internal/geo"
	"github.com/hyperjump/dishmatch/internal/indexer"
	"github.com/hyperjump/dishmatch/internal/models"
	"github.com/hyperjump/dishmatch/internal/recognition"
	"github.com/hyperjump/dishmatch/pkg/utils"
)

// Engine answers queries over an immutable catalog index. It is safe for concurrent use.
type Engine struct {
	index      *indexer.CatalogIndex
	matcher    *cuisine.Matcher
	embedder   embedding.Embedder
	recognizer recognition.Recognizer
	config     config.SearchConfig
	provider   string

	embedTimeout     time.Duration
	recognizeTimeout time.Duration

	logger *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithRecognizer sets the dish recognizer used by ImageNearby.
func WithRecognizer(r recognition.Recognizer) EngineOption {
	return func(e *Engine) { e.recognizer = r }
}

// NewEngine creates an engine over index and vocabulary. Query embeddings come from embedder.
func NewEngine(
	index *indexer.CatalogIndex,
	vocabulary *indexer.Vocabulary,
	embedder embedding.Embedder,
	cfg *config.Config,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		index:            index,
		matcher:          cuisine.NewMatcher(vocabulary, embedder),
		embedder:         embedder,
		config:           cfg.Search,
		provider:         cfg.Embedding.Provider,
		embedTimeout:     cfg.Embedding.Timeout,
		recognizeTimeout: cfg.Recognition.Timeout,
		logger:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = utils.OrNop(e.logger)
	if e.config.CuisineTopK < 1 {
		e.config.CuisineTopK = 3
	}
	return e
}

// Catalog returns the indexed catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.index.Catalog()
}

// Semantic ranks every restaurant by similarity to the free-text query and returns the top ones.
func (e *Engine) Semantic(ctx context.Context, q models.SemanticQuery) ([]models.ScoredRestaurant, error) {
	if err := q.Validate(); err != nil {
		return nil, invalid("limit", err)
	}

	vec, err := e.embed(ctx, q.Query)
	if err != nil {
		return nil, err
	}
	results, err := e.index.Search(ctx, vec, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}
	e.logger.Debug("semantic search",
		zap.String("query", utils.Truncate(q.Query, 80)),
		zap.Int("results", len(results)))
	return results, nil
}

// Nearby returns restaurants within the radius of the query point, nearest first.
func (e *Engine) Nearby(ctx context.Context, q models.NearbyQuery) ([]models.NearbyRestaurant, error) {
	if err := e.validateNearby(q); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.rank(q, e.index.Catalog().All())
}

// MatchCuisines returns the topK vocabulary labels closest to term.
func (e *Engine) MatchCuisines(ctx context.Context, term string, topK int) ([]models.CuisineMatch, error) {
	if strings.TrimSpace(term) == "" {
		return nil, &InvalidInputError{Field: "term", Reason: "must not be empty"}
	}
	if topK < 1 {
		return nil, &InvalidInputError{Field: "top_k", Reason: "must be at least 1"}
	}
	return e.matchCuisines(ctx, term, topK)
}

// ImageNearby recognizes the dish in image, maps it to cuisine labels, and returns the
// restaurants serving one of them within the radius of the query point. Stages run in
// order and are not retried; a recognition failure means no ranking happens. An empty
// Restaurants slice is a valid outcome.
func (e *Engine) ImageNearby(ctx context.Context, image []byte, q models.NearbyQuery) (*models.ImageNearbyResult, error) {
	if len(image) == 0 {
		return nil, &InvalidInputError{Field: "image", Reason: "must not be empty"}
	}
	if err := e.validateNearby(q); err != nil {
		return nil, err
	}

	dish, err := e.recognize(ctx, image)
	if err != nil {
		return nil, err
	}
	term := dish.Term()

	matches, err := e.matchCuisines(ctx, term, e.config.CuisineTopK)
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(matches))
	for i, m := range matches {
		labels[i] = m.Label
	}

	candidates := e.index.Catalog().Filter(func(r *models.Restaurant) bool {
		return cuisine.ContainsAny(r.Cuisines, labels)
	})
	nearby, err := e.rank(q, candidates)
	if err != nil {
		return nil, err
	}

	e.logger.Info("image search",
		zap.String("dish", dish.Name),
		zap.String("term", term),
		zap.Strings("cuisines", labels),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(nearby)))

	return &models.ImageNearbyResult{
		Dish:        dish.Name,
		FoodFamily:  dish.FoodFamily,
		Term:        term,
		Cuisines:    labels,
		Restaurants: nearby,
	}, nil
}

// Status reports the loaded catalog and model state.
func (e *Engine) Status() models.Status {
	cat := e.index.Catalog()
	return models.Status{
		Restaurants:         cat.Len(),
		CuisineLabels:       e.matcher.Size(),
		Countries:           len(cat.Countries()),
		EmbeddingDimensions: e.embedder.Dimensions(),
		EmbeddingProvider:   e.provider,
	}
}

func (e *Engine) validateNearby(q models.NearbyQuery) error {
	if err := models.ValidateCoordinates(q.Lat, q.Lng); err != nil {
		return invalid("origin", err)
	}
	if math.IsNaN(q.RadiusKm) || math.IsInf(q.RadiusKm, 0) || q.RadiusKm < 0 {
		return &InvalidInputError{Field: "radius", Reason: "must be a non-negative number of kilometers"}
	}
	if q.Limit < 1 {
		return &InvalidInputError{Field: "limit", Reason: "must be at least 1"}
	}
	return nil
}

func (e *Engine) rank(q models.NearbyQuery, candidates []*models.Restaurant) ([]models.NearbyRestaurant, error) {
	nearby, err := geo.Rank(geo.Point{Lat: q.Lat, Lng: q.Lng}, q.RadiusKm, candidates, q.Limit)
	if err != nil {
		return nil, invalid("nearby", err)
	}
	return nearby, nil
}

func (e *Engine) embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := withTimeout(ctx, e.embedTimeout)
	defer cancel()
	vec, err := e.embedder.Embed(ctx, text)
	if err != nil {
		e.logger.Warn("embedding failed", zap.Error(err))
		return nil, &StageError{Stage: StageEmbed, Err: err}
	}
	return vec, nil
}

func (e *Engine) matchCuisines(ctx context.Context, term string, topK int) ([]models.CuisineMatch, error) {
	ctx, cancel := withTimeout(ctx, e.embedTimeout)
	defer cancel()
	matches, err := e.matcher.MatchScored(ctx, term, topK)
	if err != nil {
		e.logger.Warn("cuisine matching failed", zap.String("term", term), zap.Error(err))
		return nil, &StageError{Stage: StageEmbed, Err: err}
	}
	return matches, nil
}

func (e *Engine) recognize(ctx context.Context, image []byte) (recognition.Dish, error) {
	if e.recognizer == nil {
		return recognition.Dish{}, &StageError{Stage: StageRecognize, Err: ErrRecognizerUnavailable}
	}
	ctx, cancel := withTimeout(ctx, e.recognizeTimeout)
	defer cancel()
	dish, err := e.recognizer.Recognize(ctx, image)
	if errors.Is(err, ErrNothingRecognized) {
		return recognition.Dish{}, ErrNothingRecognized
	}
	if err != nil {
		e.logger.Warn("dish recognition failed", zap.Error(err))
		return recognition.Dish{}, &StageError{Stage: StageRecognize, Err: err}
	}
	if strings.TrimSpace(dish.Term()) == "" {
		return recognition.Dish{}, ErrNothingRecognized
	}
	return dish, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
