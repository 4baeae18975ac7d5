package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jonathan/candidate-insights/internal/config"
	"github.com/jonathan/candidate-insights/internal/observability"
	"github.com/jonathan/candidate-insights/internal/store"
)

// loadSettings reads the optional config file (flag, else INSIGHTS_CONFIG) and
// fills gaps from the environment. Flags are applied by the caller afterwards,
// followed by MergeWithDefaults and Validate.
func loadSettings(configPath string, getenv func(string) string) (config.Config, error) {
	if configPath == "" {
		configPath = getenv("INSIGHTS_CONFIG")
	}

	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = getenv("DATABASE_URL")
	}
	if cfg.CandidatesFile == "" {
		cfg.CandidatesFile = getenv("CANDIDATES_FILE")
	}
	if cfg.Port == 0 {
		if v := getenv("PORT"); v != "" {
			port, err := strconv.Atoi(v)
			if err != nil {
				return cfg, fmt.Errorf("invalid PORT %q: %w", v, err)
			}
			cfg.Port = port
		}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = getenv("LOG_LEVEL")
	}

	return cfg, nil
}

// finalize applies defaults and validates
func finalize(cfg config.Config) (config.Config, error) {
	cfg = cfg.MergeWithDefaults(config.Config{})
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger builds the process logger; verbose forces debug level
func newLogger(cfg config.Config) (*slog.Logger, error) {
	level := cfg.LogLevel
	if cfg.Verbose {
		level = "debug"
	}
	logger, err := observability.NewLogger(os.Stderr, level, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// openSource opens the store named by the config, DatabaseURL first
func openSource(ctx context.Context, cfg config.Config, logger *slog.Logger) (store.Store, error) {
	source := cfg.DataSource()
	if source == "" {
		return nil, fmt.Errorf("either --candidates or --database-url must be provided (via flag, config or environment)")
	}
	s, err := store.Open(ctx, source, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open candidate source: %w", err)
	}
	return s, nil
}

// writeJSON writes v as indented JSON, creating the parent directory
func writeJSON(path string, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
