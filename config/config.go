// Package config reads the application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds application configuration
type Config struct {
	PortfolioFile   string        // FOLIO_PORTFOLIO_FILE
	Currency        string        // FOLIO_CURRENCY
	CacheTTL        time.Duration // FOLIO_CACHE_TTL, how long market data is reused
	Window          string        // FOLIO_WINDOW, history range downloaded
	LogLevel        string        // FOLIO_LOG_LEVEL
	Addr            string        // FOLIO_ADDR, HTTP service address
	RefreshSchedule string        // FOLIO_REFRESH_SCHEDULE, cron spec of the background refresh
	GeminiModel     string        // FOLIO_GEMINI_MODEL
}

// Load reads configuration from environment variables, and from a .env file in the
// working directory if there is one.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		PortfolioFile:   getEnv("FOLIO_PORTFOLIO_FILE", "portfolio.json"),
		Currency:        getEnv("FOLIO_CURRENCY", "EUR"),
		CacheTTL:        getEnvAsDuration("FOLIO_CACHE_TTL", 5*time.Minute),
		Window:          getEnv("FOLIO_WINDOW", "6mo"),
		LogLevel:        getEnv("FOLIO_LOG_LEVEL", "info"),
		Addr:            getEnv("FOLIO_ADDR", "localhost:8080"),
		RefreshSchedule: getEnv("FOLIO_REFRESH_SCHEDULE", "@every 5m"),
		GeminiModel:     getEnv("FOLIO_GEMINI_MODEL", "gemini-2.5-flash"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.PortfolioFile == "" {
		return fmt.Errorf("FOLIO_PORTFOLIO_FILE is required")
	}
	if len(c.Currency) != 3 {
		return fmt.Errorf("FOLIO_CURRENCY must be a 3 letter currency code, got %q", c.Currency)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("FOLIO_CACHE_TTL must not be negative, got %v", c.CacheTTL)
	}
	if _, err := cron.ParseStandard(c.RefreshSchedule); err != nil {
		return fmt.Errorf("invalid FOLIO_REFRESH_SCHEDULE %q: %w", c.RefreshSchedule, err)
	}
	return nil
}

// CacheDir returns the directory where http responses are cached.
func (c *Config) CacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "folio")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
