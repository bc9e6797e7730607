package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/builtin-items/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Convert: config.ConvertConfig{
			OutputPath: filepath.Join(t.TempDir(), "data", "builtin_items.json"),
			SampleSize: 4096,
		},
		Logging: config.LoggingConfig{Level: "warn", Format: "text"},
	}
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "base_items.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun_Success(t *testing.T) {
	in := writeCSV(t, "id;name;rating;note\n;Apple;5;Crisp\n")
	out := filepath.Join(t.TempDir(), "items.json")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), testConfig(t), []string{in, "--out", out}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "Wrote 1 items to "+out+"\n", stdout.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Apple", got[0]["name"])
}

func TestRun_ShortOutFlag(t *testing.T) {
	in := writeCSV(t, "id;name;rating;note\n1;Apple;5;Crisp\n")
	out := filepath.Join(t.TempDir(), "short.json")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), testConfig(t), []string{in, "-o", out}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	assert.FileExists(t, out)
}

func TestRun_DefaultOutput(t *testing.T) {
	cfg := testConfig(t)
	in := writeCSV(t, "id;name;rating;note\n1;Apple;5;Crisp\n")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), cfg, []string{in}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	assert.FileExists(t, cfg.Convert.OutputPath)
	assert.Contains(t, stdout.String(), cfg.Convert.OutputPath)
}

func TestRun_MissingInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "nope.csv")
	out := filepath.Join(dir, "items.json")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), testConfig(t), []string{in, "-o", out}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "ERROR:")
	assert.Contains(t, stderr.String(), in)
	assert.Contains(t, stderr.String(), "Input file does not exist (Code: FILE001). Check the path")
	assert.Empty(t, stdout.String())
	assert.NoFileExists(t, out)
}

func TestRun_CommaDelimited(t *testing.T) {
	in := writeCSV(t, "id,name,rating,note\n1,Apple,5,Crisp\n")
	out := filepath.Join(t.TempDir(), "items.json")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), testConfig(t), []string{in, "-o", out}, &stdout, &stderr)

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "','")
	assert.Contains(t, stderr.String(), "(Code: FILE002)")
	assert.NoFileExists(t, out)
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"too many arguments", []string{"a.csv", "b.csv"}},
		{"unknown flag", []string{"a.csv", "--bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), testConfig(t), tt.args, &stdout, &stderr)
			assert.Equal(t, exitUsage, code)
			assert.Contains(t, stderr.String(), "Usage:")
		})
	}
}
