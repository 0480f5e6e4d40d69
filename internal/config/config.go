package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all client configuration.
type Config struct {
	API     APIConfig
	Feed    FeedConfig
	Storage StorageConfig
	Logger  LoggerConfig
}

// APIConfig holds settings for the HTTP API client.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// FeedConfig holds settings for the live order feed.
type FeedConfig struct {
	// URL is the push-channel endpoint. Derived from the API base URL
	// when not set explicitly.
	URL            string
	ReconnectDelay time.Duration
	PollInterval   time.Duration
}

// StorageConfig holds settings for the durable local state mirror.
type StorageConfig struct {
	Path string
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// Load loads configuration from a .env file (if present) and the
// environment.
func Load() (*Config, error) {
	// Missing .env is fine; environment variables alone are enough.
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000"), "/"),
			Timeout: getEnvAsDuration("HTTP_TIMEOUT", 15*time.Second),
		},
		Feed: FeedConfig{
			URL:            getEnv("ORDERS_WS_URL", ""),
			ReconnectDelay: getEnvAsDuration("FEED_RECONNECT_DELAY", 3*time.Second),
			PollInterval:   getEnvAsDuration("FEED_POLL_INTERVAL", 5*time.Second),
		},
		Storage: StorageConfig{
			Path: getEnv("STATE_FILE", defaultStatePath()),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	if cfg.Feed.URL == "" {
		wsURL, err := deriveFeedURL(cfg.API.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("cannot derive feed URL: %w", err)
		}
		cfg.Feed.URL = wsURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API base URL: %q", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API base URL must be http or https, got %q", u.Scheme)
	}

	f, err := url.Parse(c.Feed.URL)
	if err != nil || (f.Scheme != "ws" && f.Scheme != "wss") {
		return fmt.Errorf("invalid feed URL: %q (must be ws or wss)", c.Feed.URL)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("HTTP timeout must be positive")
	}

	if c.Feed.ReconnectDelay <= 0 {
		return fmt.Errorf("feed reconnect delay must be positive")
	}

	if c.Feed.PollInterval <= 0 {
		return fmt.Errorf("feed poll interval must be positive")
	}

	if c.Storage.Path == "" {
		return fmt.Errorf("state file path is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	return nil
}

// deriveFeedURL maps the HTTP base URL onto the websocket endpoint, the
// same way the web client derives its push-channel address.
func deriveFeedURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws/orders/"
	return u.String(), nil
}

// defaultStatePath returns the default location of the local state file.
func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "canteen-state.json"
	}
	return filepath.Join(home, ".canteen-kiosk", "state.json")
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a duration
// (e.g. "3s", "500ms") or returns a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
