package config

import (
	"strings"
	"testing"
)

// env returns a LookupFunc backed by a fixed map.
func env(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(env(nil))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Convert.OutputPath != "data/builtin_items.json" {
		t.Errorf("Convert.OutputPath = %q, want %q", cfg.Convert.OutputPath, "data/builtin_items.json")
	}
	if cfg.Convert.SampleSize != 4096 {
		t.Errorf("Convert.SampleSize = %d, want %d", cfg.Convert.SampleSize, 4096)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "warn")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "text")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{
		"BUILTIN_ITEMS_OUT": "out/items.json",
		"SNIFF_SAMPLE_SIZE": "1024",
		"LOG_LEVEL":         "debug",
		"LOG_FORMAT":        "json",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Convert.OutputPath != "out/items.json" {
		t.Errorf("Convert.OutputPath = %q, want %q", cfg.Convert.OutputPath, "out/items.json")
	}
	if cfg.Convert.SampleSize != 1024 {
		t.Errorf("Convert.SampleSize = %d, want %d", cfg.Convert.SampleSize, 1024)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_FromProcessEnv(t *testing.T) {
	t.Setenv("BUILTIN_ITEMS_OUT", "env/items.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Convert.OutputPath != "env/items.json" {
		t.Errorf("Convert.OutputPath = %q, want %q", cfg.Convert.OutputPath, "env/items.json")
	}
}

func TestLoad_InvalidInteger(t *testing.T) {
	_, err := LoadFrom(env(map[string]string{"SNIFF_SAMPLE_SIZE": "lots"}))
	if err == nil {
		t.Fatal("LoadFrom() expected error for non-integer SNIFF_SAMPLE_SIZE")
	}
	if !strings.Contains(err.Error(), "SNIFF_SAMPLE_SIZE") {
		t.Errorf("error should mention SNIFF_SAMPLE_SIZE: %v", err)
	}
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := &Config{
		Convert: ConvertConfig{OutputPath: " ", SampleSize: 0},
		Logging: LoggingConfig{Level: "verbose", Format: "xml"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"BUILTIN_ITEMS_OUT", "SNIFF_SAMPLE_SIZE", "LOG_LEVEL", "LOG_FORMAT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Convert: ConvertConfig{OutputPath: "data/builtin_items.json", SampleSize: 4096},
		Logging: LoggingConfig{Level: "warn", Format: "text"},
	}
	str := cfg.String()
	if !strings.Contains(str, "data/builtin_items.json") || !strings.Contains(str, "4096") {
		t.Errorf("String() = %q, want output path and sample size", str)
	}
}
