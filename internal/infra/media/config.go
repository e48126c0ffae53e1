package media

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for media acquisition.
//
// Security settings:
//   - MaxBodySize: Prevents memory exhaustion from oversized downloads
//   - MaxRedirects: Prevents infinite redirect loops
//   - Timeout: Prevents resource starvation from slow hosts
//
// Feature toggle:
//   - Enabled: Allows the feature to be disabled without code changes
type Config struct {
	// Enabled controls whether media acquisition runs at all.
	// When false, image references are recorded but never downloaded.
	// Default: true
	Enabled bool

	// Timeout is the maximum duration for a single download request.
	// Default: 15s
	Timeout time.Duration

	// MaxBodySize is the maximum download size in bytes.
	// Enforced during response reading, not from the Content-Length header.
	// Default: 20971520 (20MB)
	MaxBodySize int64

	// MaxRedirects is the maximum number of HTTP redirects to follow.
	// Drive share links redirect at least once to the download host.
	// Default: 5
	MaxRedirects int

	// Dir is the directory downloaded files are stored under.
	// Default: "data/media"
	Dir string
}

// DefaultConfig returns the default configuration for media acquisition.
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		Timeout:      15 * time.Second,
		MaxBodySize:  20 * 1024 * 1024, // 20MB
		MaxRedirects: 5,
		Dir:          "data/media",
	}
}

// Validate checks if the configuration values are valid and safe.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	if c.Dir == "" {
		return fmt.Errorf("media directory must not be empty")
	}

	return nil
}

// LoadConfigFromEnv loads configuration from environment variables.
// If a variable is not set or invalid, the default value is used.
// After loading, the configuration is validated.
//
// Environment variables:
//   - MEDIA_FETCH_ENABLED: "true" or "false" (default: true)
//   - MEDIA_FETCH_TIMEOUT: duration string, e.g., "15s" (default: 15s)
//   - MEDIA_FETCH_MAX_BODY_SIZE: integer in bytes (default: 20971520)
//   - MEDIA_FETCH_MAX_REDIRECTS: integer (default: 5)
//   - MEDIA_DIR: storage directory (default: "data/media")
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if val := os.Getenv("MEDIA_FETCH_ENABLED"); val != "" {
		cfg.Enabled = val == "true"
	}

	if val := os.Getenv("MEDIA_FETCH_TIMEOUT"); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			cfg.Timeout = parsed
		} else {
			return cfg, fmt.Errorf("invalid MEDIA_FETCH_TIMEOUT: %v (expected format: '15s', '1m')", err)
		}
	}

	if val := os.Getenv("MEDIA_FETCH_MAX_BODY_SIZE"); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.MaxBodySize = parsed
		} else {
			return cfg, fmt.Errorf("invalid MEDIA_FETCH_MAX_BODY_SIZE: %v", err)
		}
	}

	if val := os.Getenv("MEDIA_FETCH_MAX_REDIRECTS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			cfg.MaxRedirects = parsed
		} else {
			return cfg, fmt.Errorf("invalid MEDIA_FETCH_MAX_REDIRECTS: %v", err)
		}
	}

	if val := os.Getenv("MEDIA_DIR"); val != "" {
		cfg.Dir = val
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
