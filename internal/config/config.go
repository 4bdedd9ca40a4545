// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Every key has an env:"..." override, and most have an env-default so a
// minimal YAML file (just `env:`) is enough to boot.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// Locale drives the registration date format and the collation order
	// used when sorting deals by name.
	Locale string `yaml:"locale" env:"LOCALE" env-default:"es-ES"`

	HTTPServer `yaml:"http_server"`
	Storage    Storage `yaml:"storage"`
	Deals      Deals   `yaml:"deals"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8082"`
}

// Storage selects the backend holding the student slot.
type Storage struct {
	// Driver is one of "sqlite", "pebble", "yaml", "memory".
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"`

	// Path is the sqlite file, the pebble directory, or the YAML file.
	// Ignored by the memory driver.
	Path string `yaml:"path" env:"STORAGE_PATH" env-default:"storage/registry.db"`

	// Slot is the fixed key the serialized student collection lives under.
	Slot string `yaml:"slot" env:"STORAGE_SLOT" env-default:"students"`
}

// Deals configures the remote pricing source and the paginator.
type Deals struct {
	BaseURL string `yaml:"base_url" env:"DEALS_BASE_URL" env-default:"https://www.cheapshark.com/api/1.0"`

	// StoreID is the vendor identifier sent with every page request.
	// Empty means "all stores".
	StoreID string `yaml:"store_id" env:"DEALS_STORE_ID" env-default:"1"`

	// InitialPageSize is used for the first page only; PageSize for every
	// page after it.
	InitialPageSize int `yaml:"initial_page_size" env:"DEALS_INITIAL_PAGE_SIZE" env-default:"60"`
	PageSize        int `yaml:"page_size" env:"DEALS_PAGE_SIZE" env-default:"12"`

	// Timeout bounds a single page request. Zero means no client timeout;
	// the request context still applies.
	Timeout time.Duration `yaml:"timeout" env:"DEALS_TIMEOUT" env-default:"0s"`

	// RateLimit is the maximum number of page requests per second sent to
	// the public API. Zero disables throttling.
	RateLimit float64 `yaml:"rate_limit" env:"DEALS_RATE_LIMIT" env-default:"2"`

	// DedupePages drops appended deals whose dealID is already cached.
	DedupePages bool `yaml:"dedupe_pages" env:"DEALS_DEDUPE_PAGES" env-default:"false"`

	// SearchURL is the outbound link template of the detail view; %s is
	// replaced by the percent-encoded title.
	SearchURL string `yaml:"search_url" env:"DEALS_SEARCH_URL" env-default:"https://www.google.com/search?q=%s"`
}

// MustLoad reads, validates, and returns the application config.
//
// The name "MustLoad" follows a Go convention: functions prefixed with
// "Must" are allowed to panic/fatal on failure. Callers do not need to
// check a returned error; if this function returns, the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err.Error())
	}

	return cfg
}

// Load reads the YAML file at path, applies env overrides and defaults,
// and checks the values that cleanenv cannot check on its own.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "sqlite", "pebble", "yaml", "memory":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Slot == "" {
		return errors.New("storage slot must not be empty")
	}
	if c.Deals.InitialPageSize <= 0 || c.Deals.PageSize <= 0 {
		return errors.New("deal page sizes must be positive")
	}
	if c.Deals.RateLimit < 0 {
		return errors.New("deals rate_limit must not be negative")
	}
	return nil
}
