// Package config holds runtime settings for the Produtos Manager CLI.
// Values are layered: built-in defaults, then a JSON file (-c/-config), then
// environment variables (with .env support), then command-line flags. Later
// sources win.
package config

import "time"

// Config is the resolved runtime configuration.
type Config struct {
	// APIBaseURL is prepended verbatim to every request path.
	APIBaseURL string
	// RequestTimeout bounds each request when the caller's context has no
	// deadline.
	RequestTimeout time.Duration
	// DatabasePath locates the local SQLite state database.
	DatabasePath string
	// DefaultPageSize / MaxPageSize bound product listing requests.
	DefaultPageSize int
	MaxPageSize     int
	// MaxUploadSize caps thumbnail files, in bytes.
	MaxUploadSize int64
	// AllowedImageTypes whitelists thumbnail mime types.
	AllowedImageTypes []string
	// RequestsPerSecond throttles outbound requests; 0 disables throttling.
	RequestsPerSecond float64
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// LoadDefaults populates c with the shipped defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "/api"
	c.RequestTimeout = 30 * time.Second
	c.DatabasePath = "produtos.db"
	c.DefaultPageSize = 10
	c.MaxPageSize = 100
	c.MaxUploadSize = 5 * 1024 * 1024
	c.AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}
	c.RequestsPerSecond = 0
	c.LogLevel = "info"
}

// LoadConfig builds a Config from all sources, later sources taking
// precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// ImageTypeAllowed reports whether mimeType is an accepted thumbnail type.
func (c *Config) ImageTypeAllowed(mimeType string) bool {
	for _, t := range c.AllowedImageTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}
