package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reglens.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Backend != "regapi" {
		t.Errorf("Backend = %q, want regapi", cfg.Backend)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("API.Timeout = %v, want 30s", cfg.API.Timeout)
	}
	if cfg.API.RequestsPerSecond != 4 {
		t.Errorf("API.RequestsPerSecond = %v, want 4", cfg.API.RequestsPerSecond)
	}
	if cfg.Defaults.Locale != "en" {
		t.Errorf("Defaults.Locale = %q, want en", cfg.Defaults.Locale)
	}
	if cfg.Defaults.TopK != 8 {
		t.Errorf("Defaults.TopK = %d, want 8", cfg.Defaults.TopK)
	}
	if cfg.Defaults.MinScore != 0.25 {
		t.Errorf("Defaults.MinScore = %v, want 0.25", cfg.Defaults.MinScore)
	}
	if cfg.Defaults.ConfidenceThreshold != 0.6 {
		t.Errorf("Defaults.ConfidenceThreshold = %v, want 0.6", cfg.Defaults.ConfidenceThreshold)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfigFile(t, `
backend: mock
api:
  key: file-key
  base_url: https://api.example.test
  timeout: 5s
  requests_per_second: 10
defaults:
  locale: ko
  top_k: 12
  min_score: 0.4
  max_citations: 3
  confidence_threshold: 0.7
log:
  level: debug
  file: /tmp/reglens.log
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Backend != "mock" {
		t.Errorf("Backend = %q, want mock", cfg.Backend)
	}
	if cfg.API.Key != "file-key" {
		t.Errorf("API.Key = %q, want file-key", cfg.API.Key)
	}
	if cfg.API.BaseURL != "https://api.example.test" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("API.Timeout = %v, want 5s", cfg.API.Timeout)
	}
	if cfg.API.RequestsPerSecond != 10 {
		t.Errorf("API.RequestsPerSecond = %v, want 10", cfg.API.RequestsPerSecond)
	}
	if cfg.Defaults.Locale != "ko" {
		t.Errorf("Defaults.Locale = %q, want ko", cfg.Defaults.Locale)
	}
	if cfg.Defaults.TopK != 12 {
		t.Errorf("Defaults.TopK = %d, want 12", cfg.Defaults.TopK)
	}
	if cfg.Defaults.MinScore != 0.4 {
		t.Errorf("Defaults.MinScore = %v, want 0.4", cfg.Defaults.MinScore)
	}
	if cfg.Defaults.MaxCitations != 3 {
		t.Errorf("Defaults.MaxCitations = %d, want 3", cfg.Defaults.MaxCitations)
	}
	if cfg.Defaults.ConfidenceThreshold != 0.7 {
		t.Errorf("Defaults.ConfidenceThreshold = %v, want 0.7", cfg.Defaults.ConfidenceThreshold)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Log.File != "/tmp/reglens.log" {
		t.Errorf("Log.File = %q", cfg.Log.File)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfigFile(t, `
api:
  key: only-the-key
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.Key != "only-the-key" {
		t.Errorf("API.Key = %q", cfg.API.Key)
	}
	if cfg.Backend != "regapi" {
		t.Errorf("Backend = %q, want default regapi", cfg.Backend)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("API.Timeout = %v, want default 30s", cfg.API.Timeout)
	}
	if cfg.Defaults.TopK != 8 {
		t.Errorf("Defaults.TopK = %d, want default 8", cfg.Defaults.TopK)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
backend: regapi
api:
  key: file-key
  timeout: 5s
defaults:
  locale: ko
  top_k: 12
`)

	t.Setenv("REGLENS_BACKEND", "mock")
	t.Setenv("REGLENS_API_KEY", "env-key")
	t.Setenv("REGLENS_TIMEOUT", "90s")
	t.Setenv("REGLENS_TOP_K", "15")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Backend != "mock" {
		t.Errorf("Backend = %q, want env value mock", cfg.Backend)
	}
	if cfg.API.Key != "env-key" {
		t.Errorf("API.Key = %q, want env value env-key", cfg.API.Key)
	}
	if cfg.API.Timeout != 90*time.Second {
		t.Errorf("API.Timeout = %v, want env value 90s", cfg.API.Timeout)
	}
	if cfg.Defaults.TopK != 15 {
		t.Errorf("Defaults.TopK = %d, want env value 15", cfg.Defaults.TopK)
	}
	// Values only the file sets survive env parsing.
	if cfg.Defaults.Locale != "ko" {
		t.Errorf("Defaults.Locale = %q, want file value ko", cfg.Defaults.Locale)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.yaml")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLoad_MissingEnvConfigFile(t *testing.T) {
	t.Setenv("REGLENS_CONFIG", filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error for missing REGLENS_CONFIG file")
	}
}

func TestLoad_EnvConfigFile(t *testing.T) {
	path := writeConfigFile(t, "backend: mock\n")
	t.Setenv("REGLENS_CONFIG", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != "mock" {
		t.Errorf("Backend = %q, want mock", cfg.Backend)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "backend: [unclosed\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestConfig_AskParams(t *testing.T) {
	cfg := Default()
	params := cfg.AskParams()

	if params.TopK == nil || *params.TopK != 8 {
		t.Errorf("TopK = %v, want 8", params.TopK)
	}
	if params.MinScore == nil || *params.MinScore != 0.25 {
		t.Errorf("MinScore = %v, want 0.25", params.MinScore)
	}
	if params.MaxCitations == nil || *params.MaxCitations != 8 {
		t.Errorf("MaxCitations = %v, want 8", params.MaxCitations)
	}
	if params.Locale == nil || *params.Locale != "en" {
		t.Errorf("Locale = %v, want en", params.Locale)
	}
}

func TestConfig_AskParams_ZeroValuesOmitted(t *testing.T) {
	cfg := &Config{}
	params := cfg.AskParams()

	if params.TopK != nil {
		t.Errorf("TopK = %v, want nil", params.TopK)
	}
	if params.MinScore != nil {
		t.Errorf("MinScore = %v, want nil", params.MinScore)
	}
	if params.MaxCitations != nil {
		t.Errorf("MaxCitations = %v, want nil", params.MaxCitations)
	}
	if params.Locale != nil {
		t.Errorf("Locale = %v, want nil", params.Locale)
	}
}

func TestConfig_LogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		cfg := &Config{Log: LogConfig{Level: tt.level}}
		if got := cfg.LogLevel(); got != tt.expected {
			t.Errorf("LogLevel(%q) = %v, want %v", tt.level, got, tt.expected)
		}
	}
}
