// Package config provides centralized configuration management for the converter.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"fmt"
	"strings"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Convert ConvertConfig
	Logging LoggingConfig
}

// ConvertConfig holds settings for the CSV to JSON conversion.
type ConvertConfig struct {
	// OutputPath is used when no --out flag is given (default: data/builtin_items.json)
	OutputPath string `env:"BUILTIN_ITEMS_OUT" default:"data/builtin_items.json"`

	// SampleSize is how many leading bytes are inspected for the delimiter (default: 4096)
	SampleSize int `env:"SNIFF_SAMPLE_SIZE" default:"4096"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: warn)
	Level string `env:"LOG_LEVEL" default:"warn"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Convert.OutputPath) == "" {
		errs = append(errs, "BUILTIN_ITEMS_OUT must not be empty")
	}
	if c.Convert.SampleSize <= 0 {
		errs = append(errs, fmt.Sprintf("SNIFF_SAMPLE_SIZE (%d) must be positive", c.Convert.SampleSize))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// String returns a compact representation of the config for logging.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Convert: {OutputPath: %q, SampleSize: %d}, Logging: {Level: %q, Format: %q}}",
		c.Convert.OutputPath, c.Convert.SampleSize, c.Logging.Level, c.Logging.Format)
}
