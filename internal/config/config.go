package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	regclient "github.com/reglens/reglens-go"
)

// Config holds client and dashboard settings. Values resolve in three
// layers: built-in defaults, then an optional YAML file, then REGLENS_*
// environment variables. Env tags deliberately carry no defaults so an
// unset variable never clobbers a file value.
type Config struct {
	// Backend selects the answer backend: "regapi" or "mock".
	Backend string `yaml:"backend" env:"REGLENS_BACKEND"`

	API      APIConfig      `yaml:"api"`
	Defaults AnswerDefaults `yaml:"defaults"`
	Log      LogConfig      `yaml:"log"`
}

// APIConfig holds RegLens API connection settings.
type APIConfig struct {
	Key               string        `yaml:"key" env:"REGLENS_API_KEY"`
	BaseURL           string        `yaml:"base_url" env:"REGLENS_BASE_URL"`
	Timeout           time.Duration `yaml:"timeout" env:"REGLENS_TIMEOUT"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"REGLENS_REQUESTS_PER_SECOND"`
}

// AnswerDefaults are applied to ask requests that do not set their own params.
type AnswerDefaults struct {
	Locale              string  `yaml:"locale" env:"REGLENS_LOCALE"`
	TopK                int     `yaml:"top_k" env:"REGLENS_TOP_K"`
	MinScore            float64 `yaml:"min_score" env:"REGLENS_MIN_SCORE"`
	MaxCitations        int     `yaml:"max_citations" env:"REGLENS_MAX_CITATIONS"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold" env:"REGLENS_CONFIDENCE_THRESHOLD"`
}

// LogConfig controls the slog handler wired by cmd.
type LogConfig struct {
	Level string `yaml:"level" env:"REGLENS_LOG_LEVEL"`
	File  string `yaml:"file" env:"REGLENS_LOG_FILE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: regclient.BackendRegAPI.String(),
		API: APIConfig{
			Timeout:           30 * time.Second,
			RequestsPerSecond: 4,
		},
		Defaults: AnswerDefaults{
			Locale:              "en",
			TopK:                8,
			MinScore:            0.25,
			MaxCitations:        8,
			ConfidenceThreshold: regclient.DefaultConfidenceThreshold,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load resolves configuration from defaults, an optional YAML file, and
// environment variables, in that order. path may be empty, in which case
// the file is discovered via REGLENS_CONFIG, ./reglens.yaml, then
// ~/.config/reglens/config.yaml. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	resolved, explicit := resolvePath(path)
	if resolved != "" {
		if err := loadFile(cfg, resolved); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// resolvePath picks the config file to read. The second result reports
// whether the caller named the file explicitly (missing then becomes an
// error) or it came from discovery (missing is fine).
func resolvePath(path string) (string, bool) {
	if path != "" {
		return path, true
	}
	if p := os.Getenv("REGLENS_CONFIG"); p != "" {
		return p, true
	}
	if _, err := os.Stat("reglens.yaml"); err == nil {
		return "reglens.yaml", false
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", "reglens", "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p, false
		}
	}
	return "", false
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// AskParams converts the configured defaults into request params.
func (c *Config) AskParams() *regclient.AskParams {
	params := &regclient.AskParams{}
	if c.Defaults.TopK > 0 {
		params.TopK = &c.Defaults.TopK
	}
	if c.Defaults.MinScore > 0 {
		params.MinScore = &c.Defaults.MinScore
	}
	if c.Defaults.MaxCitations > 0 {
		params.MaxCitations = &c.Defaults.MaxCitations
	}
	if c.Defaults.Locale != "" {
		params.Locale = &c.Defaults.Locale
	}
	return params
}

// LogLevel maps the configured level string to a slog level.
// Unknown values fall back to Info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
