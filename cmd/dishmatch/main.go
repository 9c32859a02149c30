// Package main is the dishmatch CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/dishmatch/internal/catalog"
	"github.com/hyperjump/dishmatch/internal/cli"
	"github.com/hyperjump/dishmatch/internal/config"
	"github.com/hyperjump/dishmatch/internal/embedding"
	"github.com/hyperjump/dishmatch/internal/indexer"
	"github.com/hyperjump/dishmatch/internal/models"
	"github.com/hyperjump/dishmatch/internal/recognition"
	"github.com/hyperjump/dishmatch/internal/search"
	"github.com/hyperjump/dishmatch/internal/server"
	"github.com/hyperjump/dishmatch/pkg/utils"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/dishmatch/config.yaml"
	defaultServerURL  = "http://localhost:8080"
	clientTimeout     = 90 * time.Second
)

// loadConfig loads config from path. When path is the default, config.yaml in the current
// directory wins if it exists, so "dishmatch server" from the project dir uses the project's
// config. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				path = fallback
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "nearby":
		runNearby()
	case "image":
		runImage()
	case "cuisines":
		runCuisines()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("dishmatch version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
		zap.String("embedding_provider", cfg.Embedding.Provider),
	)

	components, err := initializeComponents(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(components.Engine, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// queryFlags are shared by the subcommands that either call a running server or load
// the catalog and model in-process.
type queryFlags struct {
	configPath *string
	serverURL  *string
	output     *string
}

func addQueryFlags(fs *flag.FlagSet) queryFlags {
	return queryFlags{
		configPath: fs.String("config", defaultConfigPath, "config file path (direct mode)"),
		serverURL:  fs.String("server", defaultServerURL, `server URL (empty = load catalog and model in-process)`),
		output:     fs.String("output", "text", "output format: text or json"),
	}
}

func (q queryFlags) format() cli.OutputFormat {
	format, err := cli.ParseOutputFormat(*q.output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return format
}

// withEngine loads the catalog and model from the config and runs fn against a local engine.
func (q queryFlags) withEngine(fn func(*search.Engine) error) error {
	cfg, _, err := loadConfig(*q.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := zap.NewNop()
	if cfg.Debug {
		if logger, err = utils.NewLogger(true); err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer logger.Sync()
	}
	components, err := initializeComponents(context.Background(), cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer components.Close()
	return fn(components.Engine)
}

func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "%s failed: %v\n", what, err)
	os.Exit(1)
}

// printSearchUsage prints search subcommand usage.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: dishmatch search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  dishmatch search cheap north indian in connaught place
  dishmatch search "rooftop bar with live music" --limit 10
  dishmatch search --server "" --output json sushi   # no running server needed
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	qf := addQueryFlags(fs)
	limit := fs.Int("limit", 5, "number of results")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format := qf.format()
	query := models.SemanticQuery{Query: queryStr, Limit: *limit}

	var results []models.ScoredRestaurant
	var err error
	if *qf.serverURL != "" {
		results, err = cli.NewClient(*qf.serverURL, clientTimeout).Semantic(context.Background(), query)
	} else {
		err = qf.withEngine(func(e *search.Engine) error {
			var serr error
			results, serr = e.Semantic(context.Background(), query)
			return serr
		})
	}
	if err != nil {
		fail("Search", err)
	}
	if err := cli.WriteSemanticResults(os.Stdout, queryStr, results, format); err != nil {
		fail("Output", err)
	}
}

// nearbyFlags registers the point, radius and limit flags.
func nearbyFlags(fs *flag.FlagSet, defaultLimit int) (lat, lng, radius *float64, limit *int) {
	lat = fs.Float64("lat", 0, "latitude in degrees (required)")
	lng = fs.Float64("lng", 0, "longitude in degrees (required)")
	radius = fs.Float64("radius", 3, "search radius in kilometers")
	limit = fs.Int("limit", defaultLimit, "maximum number of results")
	return lat, lng, radius, limit
}

// requireFlags exits when any of names was not set explicitly.
func requireFlags(fs *flag.FlagSet, names ...string) {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for _, n := range names {
		if !set[n] {
			fmt.Fprintf(os.Stderr, "--%s is required\n", n)
			fs.Usage()
			os.Exit(1)
		}
	}
}

func runNearby() {
	fs := flag.NewFlagSet("nearby", flag.ExitOnError)
	qf := addQueryFlags(fs)
	lat, lng, radius, limit := nearbyFlags(fs, 20)
	_ = fs.Parse(os.Args[2:])
	requireFlags(fs, "lat", "lng")
	format := qf.format()

	query := models.NearbyQuery{Lat: *lat, Lng: *lng, RadiusKm: *radius, Limit: *limit}
	if err := query.Validate(); err != nil {
		fail("Nearby", err)
	}

	var results []models.NearbyRestaurant
	var err error
	if *qf.serverURL != "" {
		results, err = cli.NewClient(*qf.serverURL, clientTimeout).Nearby(context.Background(), query)
	} else {
		err = qf.withEngine(func(e *search.Engine) error {
			var nerr error
			results, nerr = e.Nearby(context.Background(), query)
			return nerr
		})
	}
	if err != nil {
		fail("Nearby", err)
	}
	if err := cli.WriteNearbyResults(os.Stdout, results, format); err != nil {
		fail("Output", err)
	}
}

func runImage() {
	fs := flag.NewFlagSet("image", flag.ExitOnError)
	qf := addQueryFlags(fs)
	file := fs.String("file", "", "path to the dish photo (required)")
	lat, lng, radius, limit := nearbyFlags(fs, 10)
	_ = fs.Parse(os.Args[2:])
	requireFlags(fs, "file", "lat", "lng")
	format := qf.format()

	image, err := os.ReadFile(*file)
	if err != nil {
		fail("Read image", err)
	}
	query := models.NearbyQuery{Lat: *lat, Lng: *lng, RadiusKm: *radius, Limit: *limit}
	if err := query.Validate(); err != nil {
		fail("Image search", err)
	}

	var result *models.ImageNearbyResult
	if *qf.serverURL != "" {
		result, err = cli.NewClient(*qf.serverURL, clientTimeout).ImageNearby(context.Background(), *file, image, query)
	} else {
		err = qf.withEngine(func(e *search.Engine) error {
			var ierr error
			result, ierr = e.ImageNearby(context.Background(), image, query)
			return ierr
		})
	}
	if err != nil {
		fail("Image search", err)
	}
	if err := cli.WriteImageResult(os.Stdout, result, format); err != nil {
		fail("Output", err)
	}
}

func runCuisines() {
	fs := flag.NewFlagSet("cuisines", flag.ExitOnError)
	qf := addQueryFlags(fs)
	topK := fs.Int("top-k", 3, "number of cuisine labels to return")
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	term := buildSearchQuery(fs.Args())
	if term == "" {
		fmt.Fprintln(os.Stderr, "Usage: dishmatch cuisines [flags] <dish or food family>")
		os.Exit(1)
	}
	format := qf.format()

	var matches []models.CuisineMatch
	var err error
	if *qf.serverURL != "" {
		matches, err = cli.NewClient(*qf.serverURL, clientTimeout).MatchCuisines(context.Background(), term, *topK)
	} else {
		err = qf.withEngine(func(e *search.Engine) error {
			var merr error
			matches, merr = e.MatchCuisines(context.Background(), term, *topK)
			return merr
		})
	}
	if err != nil {
		fail("Cuisine match", err)
	}
	if err := cli.WriteCuisineMatches(os.Stdout, matches, format); err != nil {
		fail("Output", err)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	qf := addQueryFlags(fs)
	_ = fs.Parse(os.Args[2:])
	format := qf.format()

	var status models.Status
	var err error
	if *qf.serverURL != "" {
		status, err = cli.NewClient(*qf.serverURL, clientTimeout).Status(context.Background())
	} else {
		err = qf.withEngine(func(e *search.Engine) error {
			status = e.Status()
			return nil
		})
	}
	if err != nil {
		fail("Status", err)
	}
	if err := cli.WriteStatus(os.Stdout, status, format); err != nil {
		fail("Output", err)
	}
}

// Components holds the long-lived objects built at startup.
type Components struct {
	Catalog    *catalog.Catalog
	Embedder   embedding.Embedder
	Recognizer recognition.Recognizer
	Engine     *search.Engine
}

// Close releases the embedding model.
func (c *Components) Close() {
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

// initializeComponents loads the catalog, the embedding model and both indexes. Any failure
// here is fatal: the engine never starts with a partial catalog or a substitute model.
func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	start := time.Now()
	cat, err := catalog.Load(cfg.Catalog.RestaurantsPath, cfg.Catalog.CountriesPath, cfg.Catalog.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info("catalog loaded",
		zap.Int("restaurants", cat.Len()),
		zap.Int("countries", len(cat.Countries())),
		zap.Duration("took", time.Since(start)))

	embedder, err := embedding.NewEmbedder(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding model: %w", err)
	}

	index, vocab, err := indexer.NewIndexer(embedder, indexer.WithLogger(logger)).Build(ctx, cat)
	if err != nil {
		_ = embedder.Close()
		return nil, fmt.Errorf("failed to build indexes: %w", err)
	}

	engineOpts := []search.EngineOption{search.WithLogger(logger)}
	var recognizer recognition.Recognizer
	if cfg.Recognition.APIKey == "" {
		logger.Warn("recognition API key not set; image search is disabled",
			zap.String("env", config.APIKeyEnv))
	} else {
		client, err := recognition.NewLogMealClient(cfg.Recognition, recognition.WithLogger(logger))
		if err != nil {
			_ = embedder.Close()
			return nil, fmt.Errorf("failed to initialize dish recognizer: %w", err)
		}
		recognizer = client
		engineOpts = append(engineOpts, search.WithRecognizer(client))
	}

	return &Components{
		Catalog:    cat,
		Embedder:   embedder,
		Recognizer: recognizer,
		Engine:     search.NewEngine(index, vocab, embedder, cfg, engineOpts...),
	}, nil
}

func printUsage() {
	fmt.Println(`dishmatch - Restaurant matching by text, location, and dish photo

Usage:
  dishmatch server [flags]                       Start the HTTP server
  dishmatch search [flags] <query>               Semantic search over the catalog
  dishmatch nearby --lat <lat> --lng <lng>       Restaurants near a point
  dishmatch image --file <photo> --lat --lng     Restaurants near a point serving the pictured dish
  dishmatch cuisines [flags] <term>              Closest cuisine labels for a dish or food family
  dishmatch status [flags]                       Show catalog and model status
  dishmatch version                              Show version
  dishmatch help                                 Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/dishmatch/config.yaml)
  --debug            Enable debug logging

Query Flags (search, nearby, image, cuisines, status):
  --config string    Config file path (direct mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to load the catalog in-process.
  --output string    Output format: text or json (default: text)
  --limit int        Maximum results (search: 5, nearby: 20, image: 10)
  --radius float     Radius in km for nearby and image (default: 3)
  --top-k int        Cuisine labels for cuisines (default: 3)

Environment:
  LOGMEAL_API_KEY    Overrides recognition.api_key

Examples:
  dishmatch server
  dishmatch search "butter chicken near connaught place"
  dishmatch nearby --lat 28.6315 --lng 77.2167 --radius 2
  dishmatch image --file pizza.jpg --lat 28.6315 --lng 77.2167
  dishmatch cuisines --top-k 5 ramen
  dishmatch status --output json`)
}
