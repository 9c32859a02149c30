// Package indexer builds the immutable catalog and cuisine vocabulary embedding indexes.
package indexer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/dishmatch/internal/catalog"
	"github.com/hyperjump/dishmatch/internal/embedding"
	"github.com/hyperjump/dishmatch/internal/vector"
)

// Indexer embeds catalog text once at startup.
type Indexer struct {
	embedder embedding.Embedder
	logger   *zap.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for build progress.
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// NewIndexer creates an indexer over embedder.
func NewIndexer(embedder embedding.Embedder, opts ...IndexerOption) *Indexer {
	idx := &Indexer{embedder: embedder, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Build embeds the catalog and its cuisine vocabulary concurrently.
// Each side is still a single batch call to the embedder.
func (idx *Indexer) Build(ctx context.Context, cat *catalog.Catalog) (*CatalogIndex, *Vocabulary, error) {
	var (
		catalogIndex *CatalogIndex
		vocabulary   *Vocabulary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalogIndex, err = idx.BuildCatalog(gctx, cat)
		return err
	})
	g.Go(func() error {
		var err error
		vocabulary, err = idx.BuildVocabulary(gctx, cat.Cuisines())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return catalogIndex, vocabulary, nil
}

// BuildCatalog embeds every restaurant's searchable text in one batch, in catalog order.
func (idx *Indexer) BuildCatalog(ctx context.Context, cat *catalog.Catalog) (*CatalogIndex, error) {
	start := time.Now()
	restaurants := cat.All()
	texts := make([]string, len(restaurants))
	for i, r := range restaurants {
		texts[i] = SearchableText(r)
	}
	vectors, err := idx.embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed catalog: %w", err)
	}
	flat, err := vector.NewFlatIndex(idx.embedder.Dimensions(), vectors)
	if err != nil {
		return nil, fmt.Errorf("build catalog index: %w", err)
	}
	idx.logger.Info("catalog index built",
		zap.Int("restaurants", len(restaurants)),
		zap.Duration("took", time.Since(start)))
	return &CatalogIndex{catalog: cat, texts: texts, vectors: flat}, nil
}

// BuildVocabulary embeds the distinct cuisine labels in one batch, in label order.
func (idx *Indexer) BuildVocabulary(ctx context.Context, labels []string) (*Vocabulary, error) {
	start := time.Now()
	labels = append([]string(nil), labels...)
	vectors, err := idx.embed(ctx, labels)
	if err != nil {
		return nil, fmt.Errorf("embed cuisine vocabulary: %w", err)
	}
	flat, err := vector.NewFlatIndex(idx.embedder.Dimensions(), vectors, vector.WithMetric(vector.MetricCosine))
	if err != nil {
		return nil, fmt.Errorf("build cuisine vocabulary: %w", err)
	}
	idx.logger.Info("cuisine vocabulary built",
		zap.Int("labels", len(labels)),
		zap.Duration("took", time.Since(start)))
	return &Vocabulary{labels: labels, vectors: flat}, nil
}

func (idx *Indexer) embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors, err := idx.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
	}
	return vectors, nil
}
