package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// duration accepts either a string like "30s" or an integer number of
// nanoseconds in JSON.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	case float64:
		d.Duration = time.Duration(value)
	default:
		return fmt.Errorf("invalid duration: %s", data)
	}
	return nil
}

// jsonConfig is the file DTO. Only present fields overlay the Config.
type jsonConfig struct {
	APIBaseURL        *string   `json:"api_base_url"`
	RequestTimeout    *duration `json:"request_timeout"`
	DatabasePath      *string   `json:"database_path"`
	DefaultPageSize   *int      `json:"default_page_size"`
	MaxPageSize       *int      `json:"max_page_size"`
	MaxUploadSize     *int64    `json:"max_upload_size"`
	AllowedImageTypes []string  `json:"allowed_image_types"`
	RequestsPerSecond *float64  `json:"requests_per_second"`
	LogLevel          *string   `json:"log_level"`
}

// parseJSON overlays cfg with values from the file named by -c/-config.
// Missing flag means no file is read. Read or decode failures panic: a
// broken config file should stop the program before it talks to anything.
func parseJSON(cfg *Config) {
	path := jsonConfigPath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.DefaultPageSize != nil {
		cfg.DefaultPageSize = *jc.DefaultPageSize
	}
	if jc.MaxPageSize != nil {
		cfg.MaxPageSize = *jc.MaxPageSize
	}
	if jc.MaxUploadSize != nil {
		cfg.MaxUploadSize = *jc.MaxUploadSize
	}
	if len(jc.AllowedImageTypes) > 0 {
		cfg.AllowedImageTypes = jc.AllowedImageTypes
	}
	if jc.RequestsPerSecond != nil {
		cfg.RequestsPerSecond = *jc.RequestsPerSecond
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
