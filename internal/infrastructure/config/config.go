package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store kinds accepted by TOKEN_STORE.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	API        APIConfig
	Resilience ResilienceConfig
	Store      StoreConfig
	Logging    LogConfig
}

// APIConfig controls base URL resolution and transport behaviour.
type APIConfig struct {
	BaseURL          string        `envconfig:"API_BASE_URL"`
	Host             string        `envconfig:"APP_HOST"`
	LocalOrigin      string        `envconfig:"API_LOCAL_ORIGIN" default:"http://localhost:8081"`
	ProductionOrigin string        `envconfig:"API_PRODUCTION_ORIGIN" default:"https://furniture-store-api.onrender.com"`
	Timeout          time.Duration `envconfig:"API_TIMEOUT" default:"0s"`
}

// ResilienceConfig holds the opt-in retry, rate limit and breaker settings.
// The zero values reproduce a plain single-attempt client.
type ResilienceConfig struct {
	RetryMax       int           `envconfig:"API_RETRY_MAX" default:"0"`
	RetryWaitMin   time.Duration `envconfig:"API_RETRY_WAIT_MIN" default:"1s"`
	RetryWaitMax   time.Duration `envconfig:"API_RETRY_WAIT_MAX" default:"30s"`
	RateLimitRPS   float64       `envconfig:"API_RATE_LIMIT_RPS" default:"0"`
	BreakerEnabled bool          `envconfig:"API_BREAKER_ENABLED" default:"false"`
}

// StoreConfig selects the persistent token store.
type StoreConfig struct {
	Kind string `envconfig:"TOKEN_STORE" default:"file"`
	Path string `envconfig:"TOKEN_STORE_PATH"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			LocalOrigin:      "http://localhost:8081",
			ProductionOrigin: "https://furniture-store-api.onrender.com",
		},
		Resilience: ResilienceConfig{
			RetryWaitMin: 1 * time.Second,
			RetryWaitMax: 30 * time.Second,
		},
		Store: StoreConfig{
			Kind: StoreFile,
		},
		Logging: LogConfig{
			Level: "info",
		},
	}
}

// Validate rejects settings the client cannot honour.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Store.Kind) {
	case StoreMemory, StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("invalid TOKEN_STORE %q (must be: memory, file, or sqlite)", c.Store.Kind)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("API_TIMEOUT cannot be negative")
	}
	if c.Resilience.RetryMax < 0 || c.Resilience.RetryMax > 10 {
		return fmt.Errorf("API_RETRY_MAX must be between 0 and 10")
	}
	if c.Resilience.RetryWaitMin > c.Resilience.RetryWaitMax {
		return fmt.Errorf("API_RETRY_WAIT_MIN cannot exceed API_RETRY_WAIT_MAX")
	}
	if c.Resilience.RateLimitRPS < 0 {
		return fmt.Errorf("API_RATE_LIMIT_RPS cannot be negative")
	}
	return nil
}
