package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables understood by parseEnv.
const (
	envAPIBaseURL = "PRODUTOS_API_URL"
	envTimeout    = "PRODUTOS_REQUEST_TIMEOUT"
	envDBPath     = "PRODUTOS_DB_PATH"
	envRPS        = "PRODUTOS_RPS"
	envLogLevel   = "PRODUTOS_LOG_LEVEL"
)

// parseEnv overlays cfg from the process environment. A .env file in the
// working directory is loaded first; its absence is not an error.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv(envAPIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(envTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv(envDBPath); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv(envRPS); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RequestsPerSecond = f
		}
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
}
