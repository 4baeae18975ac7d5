package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/candidate-insights/internal/observability"
	"github.com/jonathan/candidate-insights/internal/profile"
	"github.com/jonathan/candidate-insights/internal/ranking"
	"github.com/jonathan/candidate-insights/internal/store"
	"github.com/jonathan/candidate-insights/internal/types"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Assemble the global profile for one candidate",
	Long: `Loads the candidate population, ranks it, and assembles the global profile for --id:
metrics, benchmarking, skill rollups, per-type summaries, insights and timeline.

The platform average defaults to the configured value, then to the mean over scored candidates.`,
	RunE: runProfile,
}

var (
	profileCandidates      string
	profileDatabaseURL     string
	profileConfigPath      string
	profileID              string
	profilePlatformAverage float64
	profileCohortAverage   float64
	profileCohortLabel     string
	profileOutput          string
	profileVerbose         bool
)

func init() {
	profileCmd.Flags().StringVarP(&profileCandidates, "candidates", "c", "", "Path to candidate collection JSON")
	profileCmd.Flags().StringVar(&profileDatabaseURL, "database-url", "", "Store URL instead of a collection file")
	profileCmd.Flags().StringVar(&profileConfigPath, "config", "", "Path to config file, JSON or YAML")
	profileCmd.Flags().StringVar(&profileID, "id", "", "Candidate id (required)")
	profileCmd.Flags().Float64Var(&profilePlatformAverage, "platform-average", 0, "Platform average to benchmark against")
	profileCmd.Flags().Float64Var(&profileCohortAverage, "cohort-average", 0, "Optional cohort average")
	profileCmd.Flags().StringVar(&profileCohortLabel, "cohort-label", "", "Label for --cohort-average")
	profileCmd.Flags().StringVarP(&profileOutput, "out", "o", "", "Write the profile JSON here instead of stdout")
	profileCmd.Flags().BoolVarP(&profileVerbose, "verbose", "v", false, "Print a readable summary to stderr")

	if err := profileCmd.MarkFlagRequired("id"); err != nil {
		panic(fmt.Sprintf("failed to mark id flag as required: %v", err))
	}

	rootCmd.AddCommand(profileCmd)
}

// profileOptions are the benchmark inputs for a single profile
type profileOptions struct {
	PlatformAverage *float64 // nil = population average
	CohortLabel     string
	CohortAverage   *float64
	TrendEpsilon    float64
	Now             func() time.Time
}

// buildProfile assembles the profile for id, ranked against the store population
func buildProfile(ctx context.Context, s store.CandidateStore, id string, opts profileOptions) (*types.GlobalCandidateProfile, error) {
	candidate, err := s.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate %s: %w", id, err)
	}
	if candidate == nil {
		return nil, fmt.Errorf("candidate not found: %s", id)
	}

	all, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	ranked := ranking.RankCandidates(all)

	bench := profile.Benchmark{
		CohortLabel:    opts.CohortLabel,
		CohortAverage:  opts.CohortAverage,
		PopulationSize: len(ranked),
	}
	if opts.PlatformAverage != nil {
		bench.PlatformAverage = *opts.PlatformAverage
	} else {
		bench.PlatformAverage = ranking.PlatformAverage(all)
	}
	if entry, ok := ranking.Lookup(ranked, id); ok {
		pct := entry.Percentile
		bench.Percentile = &pct
		bench.Rank = entry.Rank
	}

	assembler := profile.NewAssembler(opts.TrendEpsilon)
	assembler.Now = opts.Now
	return assembler.Assemble(*candidate, bench), nil
}

func runProfile(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadSettings(profileConfigPath, os.Getenv)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("candidates") {
		cfg.CandidatesFile = profileCandidates
		cfg.DatabaseURL = ""
	}
	if cmd.Flags().Changed("database-url") {
		cfg.DatabaseURL = profileDatabaseURL
	}
	if cmd.Flags().Changed("platform-average") {
		cfg.PlatformAverage = profilePlatformAverage
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = profileVerbose
	}
	cfg, err = finalize(cfg)
	if err != nil {
		return err
	}

	opts := profileOptions{
		TrendEpsilon: cfg.TrendEpsilon,
		Now:          time.Now,
	}
	// an explicit flag wins even when it is 0; a config value of 0 means unset
	if cmd.Flags().Changed("platform-average") || cfg.PlatformAverage > 0 {
		avg := cfg.PlatformAverage
		opts.PlatformAverage = &avg
	}
	if cmd.Flags().Changed("cohort-average") {
		if profileCohortAverage < 0 || profileCohortAverage > 100 {
			return fmt.Errorf("--cohort-average must be between 0 and 100")
		}
		avg := profileCohortAverage
		opts.CohortAverage = &avg
		opts.CohortLabel = profileCohortLabel
	} else if profileCohortLabel != "" {
		return fmt.Errorf("--cohort-label requires --cohort-average")
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	candidates, err := openSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = candidates.Close() }()

	p, err := buildProfile(ctx, candidates, profileID, opts)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintProfile(p)
	}

	if profileOutput == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	if err := writeJSON(profileOutput, p); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "Successfully assembled profile for %s\n", p.Name)
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", profileOutput)
	return nil
}
