package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"database_url": "postgres://localhost:5432/insights",
		"port": 9090,
		"platform_average": 72.5,
		"trend_epsilon": 2,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "postgres://localhost:5432/insights", cfg.DatabaseURL)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 72.5, cfg.PlatformAverage)
	assert.Equal(t, 2.0, cfg.TrendEpsilon)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	content := `
candidates_file: testdata/candidates.json
port: 8181
assemble_concurrency: 4
log_level: debug
log_format: json
`

	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "testdata/candidates.json", cfg.CandidatesFile)
	assert.Equal(t, 8181, cfg.Port)
	assert.Equal(t, 4, cfg.AssembleConcurrency)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.yml")
	err := os.WriteFile(tmpFile, []byte("port: [unterminated"), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"zero value is valid", Config{}, ""},
		{"negative port", Config{Port: -1}, "'port'"},
		{"port too large", Config{Port: 70000}, "'port'"},
		{"platform average above 100", Config{PlatformAverage: 101}, "'platform_average'"},
		{"negative epsilon", Config{TrendEpsilon: -0.5}, "'trend_epsilon'"},
		{"negative concurrency", Config{AssembleConcurrency: -2}, "'assemble_concurrency'"},
		{"unknown log level", Config{LogLevel: "loud"}, "log_level"},
		{"unknown log format", Config{LogFormat: "xml"}, "log_format"},
		{"missing candidates file", Config{CandidatesFile: "/nonexistent/candidates.json"}, "candidates file not found"},
		{"valid full config", Config{Port: 8080, PlatformAverage: 70, TrendEpsilon: 3, LogLevel: "WARN", LogFormat: "json"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "sqlite://insights.db",
		Port:        9000,
	}
	defaults := Config{
		DatabaseURL:     "postgres://ignored",
		CandidatesFile:  "candidates.json",
		Port:            8181,
		PlatformAverage: 65,
	}

	result := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "sqlite://insights.db", result.DatabaseURL, "explicit value wins")
	assert.Equal(t, "candidates.json", result.CandidatesFile)
	assert.Equal(t, 9000, result.Port)
	assert.Equal(t, 65.0, result.PlatformAverage)
	assert.Equal(t, DefaultTrendEpsilon, result.TrendEpsilon)
	assert.Equal(t, DefaultAssembleConcurrency, result.AssembleConcurrency)
	assert.Equal(t, DefaultLogLevel, result.LogLevel)
	assert.Equal(t, DefaultLogFormat, result.LogFormat)

	// original is untouched
	assert.Empty(t, cfg.CandidatesFile)
}

func TestMergeWithDefaults_PackageDefaults(t *testing.T) {
	result := (&Config{}).MergeWithDefaults(Config{})
	assert.Equal(t, DefaultPort, result.Port)
	assert.Equal(t, DefaultTrendEpsilon, result.TrendEpsilon)
}

func TestDataSource(t *testing.T) {
	assert.Equal(t, "postgres://db", (&Config{DatabaseURL: "postgres://db", CandidatesFile: "c.json"}).DataSource())
	assert.Equal(t, "c.json", (&Config{CandidatesFile: "c.json"}).DataSource())
	assert.Empty(t, (&Config{}).DataSource())
}
