// Package cmd implements the reglens command tree.
package cmd

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	regclient "github.com/reglens/reglens-go"
	"github.com/reglens/reglens-go/backends/mock"
	"github.com/reglens/reglens-go/backends/regapi"
	"github.com/reglens/reglens-go/internal/config"
)

var (
	cfgFile     string
	backendName string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "reglens",
	Short: "Terminal client for the RegLens regulatory Q&A service",
	Long: `Command-line client for RegLens, a retrieval-backed question answering
service over financial regulation.

Ask one-shot questions with streamed, citation-marked answers, or launch
the interactive dashboard with chat, document, topic, alert, checklist,
and analytics views. The mock backend answers without credentials for
demos and UI work.`,
	SilenceUsage: true,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(func() {
		// Missing .env is fine; system env still applies.
		_ = godotenv.Load()
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./reglens.yaml, then ~/.config/reglens/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "answer backend: regapi or mock")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// loadConfig resolves configuration and applies global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if backendName != "" {
		cfg.Backend = backendName
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// setupLogger wires the process-wide loggers per config. quiet routes logs
// to the configured file or discards them, for commands that own the
// terminal. The returned func closes the log file, if any.
func setupLogger(cfg *config.Config, quiet bool) (*slog.Logger, func(), error) {
	var w io.Writer = os.Stderr
	cleanup := func() {}

	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		cleanup = func() { f.Close() }
	} else if quiet {
		w = io.Discard
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)
	// The mock backend logs through the stdlib logger.
	log.SetOutput(w)

	return logger, cleanup, nil
}

// buildBackend constructs the configured answer backend.
func buildBackend(cfg *config.Config, logger *slog.Logger) (regclient.Backend, error) {
	switch cfg.Backend {
	case regclient.BackendMock.String():
		return mock.New(mock.Config{}), nil

	case regclient.BackendRegAPI.String(), "":
		client, err := regapi.New(regapi.Config{
			APIKey:            cfg.API.Key,
			BaseURL:           cfg.API.BaseURL,
			Logger:            logger,
			RequestsPerSecond: cfg.API.RequestsPerSecond,
			Timeout:           cfg.API.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create regapi backend: %w", err)
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unknown backend %q (want %s or %s)",
			cfg.Backend, regclient.BackendRegAPI, regclient.BackendMock)
	}
}
