package main

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/hyperjump/dishmatch/internal/models"
)

func TestSearchArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after query are moved first",
			args:     []string{"butter chicken", "-limit", "3"},
			expected: []string{"-limit", "3", "butter chicken"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-limit", "3", "butter chicken"},
			expected: []string{"-limit", "3", "butter chicken"},
		},
		{
			name:     "query only returns unchanged",
			args:     []string{"butter chicken"},
			expected: []string{"butter chicken"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"wood", "fired", "pizza", "--output", "json"},
			expected: []string{"--output", "json", "wood", "fired", "pizza"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := searchArgsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("searchArgsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"sushi"}, "sushi"},
		{"multiple words", []string{"rooftop", "bar"}, "rooftop bar"},
		{"single quoted phrase", []string{"rooftop bar"}, "rooftop bar"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSearchQuery(tt.args)
			if got != tt.expected {
				t.Errorf("buildSearchQuery(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

const fixtureCSV = `Restaurant ID,Restaurant Name,Country Code,City,Address,Locality,Locality Verbose,Longitude,Latitude,Cuisines,Average Cost for two,Currency,Has Table booking,Has Online delivery,Is delivering now,Switch to order menu,Price range,Aggregate rating,Rating color,Rating text,Votes
308322,Hauz Khas Social,1,New Delhi,"9-A, Hauz Khas Village",Hauz Khas Village,"Hauz Khas Village, New Delhi",77.1944,28.5535,"Continental, American, Asian, North Indian",1600,Indian Rupees(Rs.),Yes,Yes,No,No,3,4.3,Green,Very Good,7931
18037817,Pizza Hut,1,New Delhi,"Connaught Place",Connaught Place,"Connaught Place, New Delhi",77.2167,28.6315,"Pizza, Fast Food",800,Indian Rupees(Rs.),No,Yes,No,No,2,3.5,Yellow,Good,350
`

// writeFixture lays out a config directory with a small catalog and a mock embedder.
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "zomato.csv"), []byte(fixtureCSV), 0600); err != nil {
		t.Fatal(err)
	}
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range [][]interface{}{{"Country Code", "Country"}, {1, "India"}} {
		cellName, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cellName, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(filepath.Join(dir, "Country-Code.xlsx")); err != nil {
		t.Fatal(err)
	}
	content := `
debug: true
server:
  host: "127.0.0.1"
  port: 9000
catalog:
  restaurants_path: ./zomato.csv
  countries_path: ./Country-Code.xlsx
  encoding: utf-8
embedding:
  provider: mock
  dimensions: 8
recognition:
  api_key: test-key
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := writeFixture(t)
	configPath := filepath.Join(dir, "config.yaml")
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while t.TempDir() is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := writeFixture(t)
	configPath := filepath.Join(dir, "config.yaml")
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Catalog.RestaurantsPath != filepath.Join(dir, "zomato.csv") {
		t.Errorf("restaurants path not expanded: %s", cfg.Catalog.RestaurantsPath)
	}
}

func TestLoadConfig_rejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("embedding:\n  provider: word2vec\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := loadConfig(path); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestInitializeComponents(t *testing.T) {
	dir := writeFixture(t)
	cfg, _, err := loadConfig(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	components, err := initializeComponents(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer components.Close()

	if components.Recognizer == nil {
		t.Error("recognizer should be configured when an API key is set")
	}
	st := components.Engine.Status()
	if st.Restaurants != 2 || st.CuisineLabels != 2 || st.Countries != 1 || st.EmbeddingDimensions != 8 {
		t.Errorf("status: %+v", st)
	}

	nearby, err := components.Engine.Nearby(context.Background(), models.NearbyQuery{Lat: 28.6315, Lng: 77.2167, RadiusKm: 1, Limit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(nearby) != 1 || nearby[0].Name != "Pizza Hut" || nearby[0].Country != "India" {
		t.Errorf("nearby: %+v", nearby)
	}
}

func TestInitializeComponents_failsOnMissingCatalog(t *testing.T) {
	dir := writeFixture(t)
	cfg, _, err := loadConfig(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Catalog.RestaurantsPath = filepath.Join(dir, "missing.csv")
	if _, err := initializeComponents(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Error("expected error for missing catalog")
	}
}

func TestInitializeComponents_noRecognizerWithoutKey(t *testing.T) {
	t.Setenv("LOGMEAL_API_KEY", "")
	dir := writeFixture(t)
	cfg, _, err := loadConfig(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Recognition.APIKey = ""
	components, err := initializeComponents(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer components.Close()
	if components.Recognizer != nil {
		t.Error("recognizer should be nil without an API key")
	}
}
