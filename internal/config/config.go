package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/titanous/json5"

	"github.com/greatwalks/availability-scraper/internal/models"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Default scrape horizon, used when the walks file leaves the
// scraping section out.
const (
	defaultDaysAhead        = 365
	defaultNightsPerRequest = 30
)

// Config holds all configuration for the scraper.
type Config struct {
	WalksFile string `envconfig:"SCRAPER_WALKS_FILE" default:"config/walks.json"`

	API     APIConfig
	Scrape  ScrapeConfig
	Storage StorageConfig

	// Walks comes from the walks file, not the environment.
	Walks []models.Walk `ignored:"true"`
}

// APIConfig holds booking API client settings. An empty URL means the
// production search endpoint.
type APIConfig struct {
	URL     string        `envconfig:"SCRAPER_API_URL" default:""`
	Timeout time.Duration `envconfig:"SCRAPER_API_TIMEOUT" default:"30s"`
}

// ScrapeConfig holds the horizon and pacing of a scrape run. The horizon
// fields come from the walks file; the delays come from the environment.
type ScrapeConfig struct {
	DaysAhead        int           `ignored:"true"`
	NightsPerRequest int           `ignored:"true"`
	WindowDelay      time.Duration `envconfig:"SCRAPER_WINDOW_DELAY" default:"1s"`
	WalkDelay        time.Duration `envconfig:"SCRAPER_WALK_DELAY" default:"2s"`
}

// StorageConfig holds artifact storage settings.
type StorageConfig struct {
	Type    string `envconfig:"STORAGE_TYPE" default:"file"`
	DataDir string `envconfig:"DATA_DIR" default:"data"`

	Region   string `envconfig:"AWS_REGION" default:"ap-southeast-2"`
	Bucket   string `envconfig:"S3_BUCKET" default:""`
	Prefix   string `envconfig:"S3_PREFIX" default:""`
	Endpoint string `envconfig:"S3_ENDPOINT" default:""` // For local S3 (minio)
}

// FromEnv reads the environment-sourced configuration only. The walks
// file is not read; Walks stays empty and the scrape horizon keeps its
// defaults.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	cfg.Scrape.DaysAhead = defaultDaysAhead
	cfg.Scrape.NightsPerRequest = defaultNightsPerRequest
	return &cfg, nil
}

// Load reads configuration from environment variables and the walks file.
func Load() (*Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	file, err := readWalksFile(cfg.WalksFile)
	if err != nil {
		return nil, fmt.Errorf("read walks file %s: %w", cfg.WalksFile, err)
	}

	cfg.Walks = file.Walks
	if file.Scraping.DaysAhead != 0 {
		cfg.Scrape.DaysAhead = file.Scraping.DaysAhead
	}
	if file.Scraping.NightsPerRequest != 0 {
		cfg.Scrape.NightsPerRequest = file.Scraping.NightsPerRequest
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Scrape.DaysAhead <= 0 {
		return fmt.Errorf("days_ahead must be positive, got %d", c.Scrape.DaysAhead)
	}
	if c.Scrape.NightsPerRequest <= 0 {
		return fmt.Errorf("nights_per_request must be positive, got %d", c.Scrape.NightsPerRequest)
	}
	return nil
}

// walksFile is the on-disk schema of the walks config file.
type walksFile struct {
	Walks    []models.Walk  `json:"walks"`
	Scraping scrapingParams `json:"scraping"`
}

type scrapingParams struct {
	DaysAhead        int `json:"days_ahead"`
	NightsPerRequest int `json:"nights_per_request"`
}

// readWalksFile reads and merges the walks config. A <name>.local.<ext>
// file beside the main one overrides it, which keeps local experiments
// out of the committed config.
func readWalksFile(name string) (walksFile, error) {
	var out walksFile
	allNotFound := true

	dir := filepath.Dir(name)
	stem, ext := splitExt(filepath.Base(name))

	data, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(data) > 0 {
		if err := json5.Unmarshal(data, &out); err != nil {
			return out, err
		}
		allNotFound = false
	}

	localPath := filepath.Join(dir, fmt.Sprintf("%s.local.%s", stem, ext))
	localData, err := os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(localData) > 0 {
		var override walksFile
		if err := json5.Unmarshal(localData, &override); err != nil {
			return out, err
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, err
		}
		slog.Info("merging walks config with local overrides", "local", localPath)
		allNotFound = false
	}

	if allNotFound {
		return out, os.ErrNotExist
	}

	return out, nil
}

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}
