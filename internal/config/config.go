// Package config handles loading and parsing application configuration.
// The config file path comes from (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// A .env file in the working directory, when present, is loaded into the
// process environment first, so every env:"..." key below can live there.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity: "dev", "staging" or "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`

	// GymsDataset is the static JSON file listing the gyms of the network.
	GymsDataset string `yaml:"gyms_dataset" env:"GYMS_DATASET" env-default:"database/academias.json"`

	// SentryDSN enables error reporting when set.
	SentryDSN string `yaml:"sentry_dsn" env:"SENTRY_DSN"`

	HTTPServer     `yaml:"http_server"`
	WorkoutService Upstream `yaml:"workout_service" env-prefix:"WORKOUT_"`
	PostalService  Upstream `yaml:"postal_service" env-prefix:"POSTAL_"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	Addr        string        `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:5000"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_SERVER_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

// Upstream describes an external HTTP service.
//
// Timeout bounds every call. RateLimit is requests per second sent to the
// service (0 disables limiting) and Burst the number allowed at once.
type Upstream struct {
	BaseURL   string        `yaml:"base_url" env:"BASE_URL"`
	Timeout   time.Duration `yaml:"timeout" env:"TIMEOUT" env-default:"10s"`
	RateLimit float64       `yaml:"rate_limit" env:"RATE_LIMIT" env-default:"0"`
	Burst     int           `yaml:"burst" env:"BURST" env-default:"1"`
}

// MustLoad reads, validates, and returns the application config.
// Functions prefixed with "Must" are allowed to fatal on failure: if this
// returns, the config is valid.
func MustLoad() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("cannot read .env: %s", err)
	}

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
		log.Fatal(err)
	}
	return cfg
}

// Load reads the YAML file at path, applies env overrides and defaults,
// and checks the result.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.WorkoutService.BaseURL == "" {
		return errors.New("config: workout_service.base_url is required")
	}
	if c.WorkoutService.Timeout <= 0 || c.PostalService.Timeout <= 0 {
		return errors.New("config: upstream timeouts must be positive")
	}
	return nil
}
