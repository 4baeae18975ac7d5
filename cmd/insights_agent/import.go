package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jonathan/candidate-insights/internal/intake"
	"github.com/jonathan/candidate-insights/internal/observability"
	"github.com/jonathan/candidate-insights/internal/store"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Normalize a candidate collection and save it to a database",
	Long: `Validates a candidate collection JSON against its schema, normalizes every record
(malformed records are skipped and reported) and upserts the result into PostgreSQL or SQLite.`,
	RunE: runImport,
}

var (
	importCandidates  string
	importDatabaseURL string
)

func init() {
	importCmd.Flags().StringVarP(&importCandidates, "candidates", "c", "", "Path to candidate collection JSON (required)")
	importCmd.Flags().StringVar(&importDatabaseURL, "database-url", "", "Target store URL (defaults to DATABASE_URL env var)")

	if err := importCmd.MarkFlagRequired("candidates"); err != nil {
		panic(fmt.Sprintf("failed to mark candidates flag as required: %v", err))
	}

	rootCmd.AddCommand(importCmd)
}

// importCollection loads, normalizes and saves a collection file
func importCollection(ctx context.Context, path string, dst store.Writer, logger *slog.Logger) (intake.Report, error) {
	candidates, report, err := intake.LoadCandidates(path, logger)
	if err != nil {
		return report, fmt.Errorf("failed to load candidates: %w", err)
	}
	if err := dst.Save(ctx, candidates); err != nil {
		return report, fmt.Errorf("failed to save candidates: %w", err)
	}
	return report, nil
}

func runImport(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL := importDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --database-url flag is required")
	}

	cfg, err := loadSettings("", os.Getenv)
	if err != nil {
		return err
	}
	cfg, err = finalize(cfg)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	dst, err := store.Open(ctx, databaseURL, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = dst.Close() }()

	report, err := importCollection(ctx, importCandidates, dst, logger)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintIntakeReport(report)
	return nil
}
