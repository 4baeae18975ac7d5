package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/candidate-insights/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort        int
	serveConfigPath  string
	serveDatabaseURL string
	serveCandidates  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start a read-only HTTP server exposing candidate search, metrics, profiles and rankings.

Candidates come from --database-url (postgres://, sqlite://) or --candidates (a collection JSON),
falling back to the config file and then DATABASE_URL / CANDIDATES_FILE.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (defaults to PORT env var)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config file, JSON or YAML (defaults to INSIGHTS_CONFIG env var)")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "database-url", "", "Store URL (defaults to DATABASE_URL env var)")
	serveCmd.Flags().StringVarP(&serveCandidates, "candidates", "c", "", "Candidate collection JSON served from memory")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(serveConfigPath, os.Getenv)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("database-url") {
		cfg.DatabaseURL = serveDatabaseURL
	}
	if cmd.Flags().Changed("candidates") {
		cfg.CandidatesFile = serveCandidates
		cfg.DatabaseURL = ""
	}

	cfg, err = finalize(cfg)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	candidates, err := openSource(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = candidates.Close() }()

	srv, err := server.New(server.Config{
		Port:                cfg.Port,
		Store:               candidates,
		PlatformAverage:     cfg.PlatformAverage,
		TrendEpsilon:        cfg.TrendEpsilon,
		AssembleConcurrency: cfg.AssembleConcurrency,
		Logger:              logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
