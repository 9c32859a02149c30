// Package config provides configuration loading and structs for the dishmatch server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// APIKeyEnv overrides recognition.api_key when set.
const APIKeyEnv = "LOGMEAL_API_KEY"

// Config holds all configuration for the application.
type Config struct {
	Debug       bool              `yaml:"debug"`
	Server      ServerConfig      `yaml:"server"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Recognition RecognitionConfig `yaml:"recognition"`
	Search      SearchConfig      `yaml:"search"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// CatalogConfig points at the restaurant CSV and the country-code workbook.
type CatalogConfig struct {
	RestaurantsPath string `yaml:"restaurants_path"`
	CountriesPath   string `yaml:"countries_path"`
	// Encoding of the restaurants CSV: "latin-1" or "utf-8".
	Encoding string `yaml:"encoding"`
}

// EmbeddingConfig holds embedder settings.
type EmbeddingConfig struct {
	// Provider is "onnx" or "mock".
	Provider   string        `yaml:"provider"`
	ModelPath  string        `yaml:"model_path"`
	VocabPath  string        `yaml:"vocab_path"`
	OutputName string        `yaml:"output_name"`
	Dimensions int           `yaml:"dimensions"`
	MaxTokens  int           `yaml:"max_tokens"`
	CacheSize  int           `yaml:"cache_size"`
	Timeout    time.Duration `yaml:"timeout"`
}

// RecognitionConfig holds the dish recognition API settings.
type RecognitionConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	APIKey    string        `yaml:"api_key"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"` // requests per second
	Burst     int           `yaml:"burst"`
}

// SearchConfig holds query defaults and caps.
type SearchConfig struct {
	DefaultLimit       int     `yaml:"default_limit"`
	MaxLimit           int     `yaml:"max_limit"` // browse endpoints only
	NearbyDefaultLimit int     `yaml:"nearby_default_limit"`
	ImageDefaultLimit  int     `yaml:"image_default_limit"`
	BrowseDefaultLimit int     `yaml:"browse_default_limit"`
	DefaultRadiusKm    float64 `yaml:"default_radius_km"`
	CuisineTopK        int     `yaml:"cuisine_top_k"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if key := os.Getenv(APIKeyEnv); key != "" {
		cfg.Recognition.APIKey = key
	}

	configDir := filepath.Dir(path)
	cfg.Catalog.RestaurantsPath = expandPath(cfg.Catalog.RestaurantsPath, configDir)
	cfg.Catalog.CountriesPath = expandPath(cfg.Catalog.CountriesPath, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	if cfg.Embedding.VocabPath != "" {
		cfg.Embedding.VocabPath = expandPath(cfg.Embedding.VocabPath, configDir)
	}

	return &cfg, nil
}

// Validate reports settings that make the server unable to start.
func (c *Config) Validate() error {
	switch c.Embedding.Provider {
	case ProviderONNX, ProviderMock:
	default:
		return fmt.Errorf("unknown embedding provider %q (supported: onnx, mock)", c.Embedding.Provider)
	}
	switch strings.ToLower(c.Catalog.Encoding) {
	case "latin-1", "latin1", "iso-8859-1", "utf-8", "utf8":
	default:
		return fmt.Errorf("unsupported catalog encoding %q", c.Catalog.Encoding)
	}
	if c.Search.MaxLimit < c.Search.BrowseDefaultLimit {
		return fmt.Errorf("search.max_limit (%d) is below search.browse_default_limit (%d)", c.Search.MaxLimit, c.Search.BrowseDefaultLimit)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
