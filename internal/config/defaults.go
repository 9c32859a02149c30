package config

import "time"

// Embedding providers.
const (
	ProviderONNX = "onnx"
	ProviderMock = "mock"
)

// DefaultRecognitionEndpoint is the LogMeal dish recognition endpoint.
const DefaultRecognitionEndpoint = "https://api.logmeal.es/v2/recognition/dish"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.CORSOrigins == nil {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 60 * time.Second
	}
	if cfg.Catalog.RestaurantsPath == "" {
		cfg.Catalog.RestaurantsPath = "/usr/local/var/dishmatch/data/zomato.csv"
	}
	if cfg.Catalog.CountriesPath == "" {
		cfg.Catalog.CountriesPath = "/usr/local/var/dishmatch/data/Country-Code.xlsx"
	}
	if cfg.Catalog.Encoding == "" {
		cfg.Catalog.Encoding = "latin-1"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = ProviderONNX
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "/usr/local/var/dishmatch/data/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.OutputName == "" {
		cfg.Embedding.OutputName = "last_hidden_state"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Embedding.Timeout == 0 {
		cfg.Embedding.Timeout = 10 * time.Second
	}
	if cfg.Recognition.Endpoint == "" {
		cfg.Recognition.Endpoint = DefaultRecognitionEndpoint
	}
	if cfg.Recognition.Timeout == 0 {
		cfg.Recognition.Timeout = 15 * time.Second
	}
	if cfg.Recognition.RateLimit == 0 {
		cfg.Recognition.RateLimit = 2
	}
	if cfg.Recognition.Burst == 0 {
		cfg.Recognition.Burst = 4
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 5
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 1000
	}
	if cfg.Search.NearbyDefaultLimit == 0 {
		cfg.Search.NearbyDefaultLimit = 20
	}
	if cfg.Search.ImageDefaultLimit == 0 {
		cfg.Search.ImageDefaultLimit = 10
	}
	if cfg.Search.BrowseDefaultLimit == 0 {
		cfg.Search.BrowseDefaultLimit = 20
	}
	if cfg.Search.DefaultRadiusKm == 0 {
		cfg.Search.DefaultRadiusKm = 3.0
	}
	if cfg.Search.CuisineTopK == 0 {
		cfg.Search.CuisineTopK = 3
	}
}
