// Package config provides application-wide configuration. Values come from an
// optional YAML file (TRENDWORDS_CONFIG), overridden by environment variables.
// All fields have safe defaults so the binaries run without any setup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matiasleandrokruk/trendwords/internal/domain/trend"
	"github.com/matiasleandrokruk/trendwords/internal/stream"
)

// Config holds runtime configuration for trendwords.
type Config struct {
	// Content API
	RedditBaseURL     string  `yaml:"reddit_base_url"`     // REDDIT_BASE_URL — default: "https://api.reddit.com"
	UserAgent         string  `yaml:"user_agent"`          // TRENDWORDS_USER_AGENT — default: "trendwords/dev"
	RequestsPerSecond float64 `yaml:"requests_per_second"` // TRENDWORDS_RPS — default: 0 (disabled)

	// Pipeline stage bounds (shared by both fetch stages)
	FetchIntervalMS  int `yaml:"fetch_interval_ms"` // FETCH_INTERVAL_MS — default: 500
	FetchConcurrency int `yaml:"fetch_concurrency"` // FETCH_CONCURRENCY — default: 4

	// Daemon
	DBPath string `yaml:"db_path"` // TRENDWORDS_DB — default: "trendwords.db"
	Host   string `yaml:"host"`    // TRENDWORDS_HOST — default: "0.0.0.0"
	Port   int    `yaml:"port"`    // TRENDWORDS_PORT — default: 8080
}

const (
	envKeyConfigFile  = "TRENDWORDS_CONFIG"
	envKeyBaseURL     = "REDDIT_BASE_URL"
	envKeyUserAgent   = "TRENDWORDS_USER_AGENT"
	envKeyRPS         = "TRENDWORDS_RPS"
	envKeyIntervalMS  = "FETCH_INTERVAL_MS"
	envKeyConcurrency = "FETCH_CONCURRENCY"
	envKeyDBPath      = "TRENDWORDS_DB"
	envKeyHost        = "TRENDWORDS_HOST"
	envKeyPort        = "TRENDWORDS_PORT"
)

// defaults returns the built-in configuration.
func defaults() Config {
	return Config{
		RedditBaseURL:    "https://api.reddit.com",
		UserAgent:        "trendwords/dev",
		FetchIntervalMS:  500,
		FetchConcurrency: 4,
		DBPath:           "trendwords.db",
		Host:             "0.0.0.0",
		Port:             8080,
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// TRENDWORDS_CONFIG (if set), then environment variable overrides.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv(envKeyConfigFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.RedditBaseURL = envOr(envKeyBaseURL, cfg.RedditBaseURL)
	cfg.UserAgent = envOr(envKeyUserAgent, cfg.UserAgent)
	cfg.RequestsPerSecond = envFloatOr(envKeyRPS, cfg.RequestsPerSecond)
	cfg.FetchIntervalMS = envIntOr(envKeyIntervalMS, cfg.FetchIntervalMS)
	cfg.FetchConcurrency = envIntOr(envKeyConcurrency, cfg.FetchConcurrency)
	cfg.DBPath = envOr(envKeyDBPath, cfg.DBPath)
	cfg.Host = envOr(envKeyHost, cfg.Host)
	cfg.Port = envIntOr(envKeyPort, cfg.Port)

	return cfg, nil
}

// Pipeline converts the stage bounds into a trend.PipelineConfig. Both fetch
// stages get the same bounds; their throttles and concurrency gates stay
// independent.
func (c Config) Pipeline() trend.PipelineConfig {
	stageCfg := stream.StageConfig{
		Interval:    time.Duration(c.FetchIntervalMS) * time.Millisecond,
		Concurrency: c.FetchConcurrency,
	}
	return trend.PipelineConfig{Links: stageCfg, Comments: stageCfg}
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envIntOr returns the integer value of key, or fallback if unset or invalid.
func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// envFloatOr returns the float value of key, or fallback if unset or invalid.
func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
