package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonathan/candidate-insights/internal/config"
	"github.com/jonathan/candidate-insights/internal/intake"
	"github.com/jonathan/candidate-insights/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePath = "../../testdata/valid/candidates.json"

func envFrom(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func ptr[T any](v T) *T { return &v }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixtureStore(t *testing.T) *store.Memory {
	t.Helper()
	candidates, _, err := intake.LoadCandidates(fixturePath, discardLogger())
	require.NoError(t, err)
	return store.NewMemory(candidates)
}

func TestLoadSettings_EnvironmentOnly(t *testing.T) {
	cfg, err := loadSettings("", envFrom(map[string]string{
		"DATABASE_URL":    "postgres://localhost/insights",
		"CANDIDATES_FILE": "candidates.json",
		"PORT":            "9090",
		"LOG_LEVEL":       "debug",
	}))

	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/insights", cfg.DatabaseURL)
	assert.Equal(t, "candidates.json", cfg.CandidatesFile)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "postgres://localhost/insights", cfg.DataSource(), "database wins over file")
}

func TestLoadSettings_ConfigFileBeatsEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "insights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 7070\nplatform_average: 72.5\nlog_format: json\n"), 0644))

	cfg, err := loadSettings("", envFrom(map[string]string{
		"INSIGHTS_CONFIG": path,
		"PORT":            "9090",
	}))

	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.InDelta(t, 72.5, cfg.PlatformAverage, 1e-9)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadSettings_Errors(t *testing.T) {
	_, err := loadSettings("/nonexistent/insights.json", envFrom(nil))
	assert.ErrorContains(t, err, "failed to load config")

	_, err = loadSettings("", envFrom(map[string]string{"PORT": "eighty"}))
	assert.ErrorContains(t, err, "invalid PORT")
}

func TestFinalize(t *testing.T) {
	cfg, err := finalize(config.Config{})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPort, cfg.Port)
	assert.InDelta(t, config.DefaultTrendEpsilon, cfg.TrendEpsilon, 1e-9)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)

	_, err = finalize(config.Config{PlatformAverage: 140})
	assert.Error(t, err)
}

func TestNewLogger_VerboseForcesDebug(t *testing.T) {
	logger, err := newLogger(config.Config{LogLevel: "error", LogFormat: "text", Verbose: true})
	require.NoError(t, err)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))

	_, err = newLogger(config.Config{LogLevel: "loud"})
	assert.Error(t, err)
}

func TestOpenSource(t *testing.T) {
	_, err := openSource(context.Background(), config.Config{}, discardLogger())
	assert.ErrorContains(t, err, "--candidates or --database-url")

	s, err := openSource(context.Background(), config.Config{CandidatesFile: fixturePath}, discardLogger())
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 5)
}

func TestWriteJSON_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")

	require.NoError(t, writeJSON(path, map[string]int{"total": 3}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]int
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 3, got["total"])
}

func TestBuildProfile(t *testing.T) {
	generated := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	p, err := buildProfile(context.Background(), fixtureStore(t), "cand-001", profileOptions{
		Now: func() time.Time { return generated },
	})

	require.NoError(t, err)
	assert.Equal(t, "John Doe", p.Name)
	assert.InDelta(t, 85.0, p.Metrics.OverallScore, 1e-9)
	assert.Equal(t, "Very Good", p.Metrics.ScoreBand.Label)
	// scored population: Wei 95, Priya 88, John 85, Ana 63.5
	assert.InDelta(t, 82.875, p.Benchmarking.PlatformAverage, 1e-9)
	assert.Equal(t, 3, p.Benchmarking.Rank)
	assert.Equal(t, 4, p.Benchmarking.PopulationSize)
	require.NotNil(t, p.Benchmarking.Percentile)
	assert.InDelta(t, 100.0/3, *p.Benchmarking.Percentile, 1e-9)
	require.NotNil(t, p.GeneratedAt)
	assert.Equal(t, generated, *p.GeneratedAt)
}

func TestBuildProfile_ExplicitBenchmarks(t *testing.T) {
	cohort := 80.0

	p, err := buildProfile(context.Background(), fixtureStore(t), "cand-001", profileOptions{
		PlatformAverage: ptr(75.0),
		CohortLabel:     "senior",
		CohortAverage:   &cohort,
	})

	require.NoError(t, err)
	assert.InDelta(t, 10.0, p.Benchmarking.Difference, 1e-9)
	require.NotNil(t, p.Benchmarking.CohortDifference)
	assert.InDelta(t, 5.0, *p.Benchmarking.CohortDifference, 1e-9)
	assert.Nil(t, p.GeneratedAt)
}

func TestBuildProfile_ExplicitZeroPlatformAverage(t *testing.T) {
	p, err := buildProfile(context.Background(), fixtureStore(t), "cand-001", profileOptions{
		PlatformAverage: ptr(0.0),
	})

	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Benchmarking.PlatformAverage)
	assert.InDelta(t, 85.0, p.Benchmarking.Difference, 1e-9)
}

func TestBuildProfile_NotFound(t *testing.T) {
	_, err := buildProfile(context.Background(), fixtureStore(t), "cand-999", profileOptions{})
	assert.ErrorContains(t, err, "candidate not found: cand-999")
}

func TestImportCollection_SQLite(t *testing.T) {
	ctx := context.Background()
	dst, err := store.OpenSQLite(filepath.Join(t.TempDir(), "insights.db"), discardLogger())
	require.NoError(t, err)
	defer func() { _ = dst.Close() }()

	report, err := importCollection(ctx, fixturePath, dst, discardLogger())

	require.NoError(t, err)
	assert.Equal(t, 5, report.AcceptedCandidates)
	assert.Equal(t, 1, report.SkippedRecords)

	list, err := dst.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 5)
	assert.Equal(t, "cand-001", list[0].ID)
}

func TestImportCollection_MissingFile(t *testing.T) {
	_, err := importCollection(context.Background(), "/nonexistent/candidates.json", store.NewMemory(nil), discardLogger())
	assert.ErrorContains(t, err, "failed to load candidates")
}

func TestSearchQuery_FromFlags(t *testing.T) {
	searchText = "doe"
	searchStatuses = []string{"completed", "active"}
	searchSort = "score"
	t.Cleanup(func() {
		searchText = ""
		searchStatuses = nil
		searchSort = ""
	})

	q := searchQuery()

	assert.Equal(t, "doe", q.Text)
	assert.Equal(t, []string{"completed", "active"}, q.Statuses)
	assert.Equal(t, "score", q.Sort)
	assert.NoError(t, q.Validate())
}
