package embedding

import (
	"fmt"

	"github.com/hyperjump/dishmatch/internal/config"
)

// NewEmbedder creates the embedder named by cfg.Provider.
// Failing to initialize the configured provider is an error; there is no fallback.
func NewEmbedder(cfg config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case config.ProviderONNX, "":
		e, err := NewONNXEmbedder(ONNXOptions{
			ModelPath:  cfg.ModelPath,
			VocabPath:  cfg.VocabPath,
			OutputName: cfg.OutputName,
			Dimensions: cfg.Dimensions,
			MaxTokens:  cfg.MaxTokens,
			CacheSize:  cfg.CacheSize,
		})
		if err != nil {
			return nil, err
		}
		return e, nil
	case config.ProviderMock:
		return NewMockEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: onnx, mock)", cfg.Provider)
	}
}
