// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied by MergeWithDefaults when a field is unset
const (
	DefaultPort                = 8080
	DefaultTrendEpsilon        = 3.0
	DefaultAssembleConcurrency = 8
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "text"
)

// Config represents the configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Data sources
	DatabaseURL    string `json:"database_url,omitempty" yaml:"database_url,omitempty"`       // postgres://, sqlite:// or *.db
	CandidatesFile string `json:"candidates_file,omitempty" yaml:"candidates_file,omitempty"` // Candidate collection JSON

	// Server
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// Aggregation
	PlatformAverage     float64 `json:"platform_average,omitempty" yaml:"platform_average,omitempty"` // 0 = derive from population
	TrendEpsilon        float64 `json:"trend_epsilon,omitempty" yaml:"trend_epsilon,omitempty"`
	AssembleConcurrency int     `json:"assemble_concurrency,omitempty" yaml:"assemble_concurrency,omitempty"`

	// Logging
	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty"`   // debug, info, warn, error
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty"` // text or json
	Verbose   bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension
// (.yaml/.yml are YAML, anything else JSON).
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.PlatformAverage < 0 || c.PlatformAverage > 100 {
		return fmt.Errorf("config error: 'platform_average' must be between 0 and 100")
	}
	if c.TrendEpsilon < 0 {
		return fmt.Errorf("config error: 'trend_epsilon' must be non-negative")
	}
	if c.AssembleConcurrency < 0 {
		return fmt.Errorf("config error: 'assemble_concurrency' must be non-negative")
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config error: unknown log_level %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: unknown log_format %q", c.LogFormat)
	}

	if c.CandidatesFile != "" {
		if _, err := os.Stat(c.CandidatesFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: candidates file not found: %s", c.CandidatesFile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults,
// then from the package defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.CandidatesFile == "" {
		result.CandidatesFile = defaults.CandidatesFile
	}
	if result.LogLevel == "" {
		result.LogLevel = firstNonEmpty(defaults.LogLevel, DefaultLogLevel)
	}
	if result.LogFormat == "" {
		result.LogFormat = firstNonEmpty(defaults.LogFormat, DefaultLogFormat)
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
		if result.Port == 0 {
			result.Port = DefaultPort
		}
	}
	if result.PlatformAverage == 0 {
		result.PlatformAverage = defaults.PlatformAverage
	}
	if result.TrendEpsilon == 0 {
		result.TrendEpsilon = defaults.TrendEpsilon
		if result.TrendEpsilon == 0 {
			result.TrendEpsilon = DefaultTrendEpsilon
		}
	}
	if result.AssembleConcurrency == 0 {
		result.AssembleConcurrency = defaults.AssembleConcurrency
		if result.AssembleConcurrency == 0 {
			result.AssembleConcurrency = DefaultAssembleConcurrency
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// DataSource returns the store URL to open: DatabaseURL when set, else the
// candidates file.
func (c *Config) DataSource() string {
	return firstNonEmpty(c.DatabaseURL, c.CandidatesFile)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
