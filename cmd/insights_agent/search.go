package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/candidate-insights/internal/observability"
	"github.com/jonathan/candidate-insights/internal/search"
	"github.com/jonathan/candidate-insights/internal/types"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Filter and sort candidates by facet",
	Long: `Runs a faceted query over the candidate population. Every facet is optional and
"all" disables it. Multi-value facets (--status, --type) may be repeated or comma-separated.

Score ranges: 0-49, 50-69, 70-79, 80-89, 90-100 (candidates with no score never match).
Date ranges:  today, 7d, 30d, 3m (by member-since date).
Sort keys:    name, score, recent.`,
	RunE: runSearch,
}

var (
	searchCandidates  string
	searchDatabaseURL string
	searchConfigPath  string
	searchText        string
	searchStatuses    []string
	searchScoreRange  string
	searchTypes       []string
	searchDateRange   string
	searchSort        string
	searchOutput      string
)

func init() {
	searchCmd.Flags().StringVarP(&searchCandidates, "candidates", "c", "", "Path to candidate collection JSON")
	searchCmd.Flags().StringVar(&searchDatabaseURL, "database-url", "", "Store URL instead of a collection file")
	searchCmd.Flags().StringVar(&searchConfigPath, "config", "", "Path to config file, JSON or YAML")
	searchCmd.Flags().StringVarP(&searchText, "query", "q", "", "Free text matched against name, email, assessment titles and score")
	searchCmd.Flags().StringSliceVar(&searchStatuses, "status", nil, "Candidate status: pending, active, completed, inactive")
	searchCmd.Flags().StringVar(&searchScoreRange, "score-range", "", "Overall score bucket")
	searchCmd.Flags().StringSliceVar(&searchTypes, "type", nil, "Assessment type: general, dsa, cloud, ai-ml")
	searchCmd.Flags().StringVar(&searchDateRange, "date-range", "", "Member-since window")
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "Sort key")
	searchCmd.Flags().StringVarP(&searchOutput, "out", "o", "", "Write matching candidates as JSON here")

	rootCmd.AddCommand(searchCmd)
}

// searchQuery collects the facet flags
func searchQuery() types.Query {
	return types.Query{
		Text:            searchText,
		Statuses:        searchStatuses,
		ScoreRange:      searchScoreRange,
		AssessmentTypes: searchTypes,
		DateRange:       searchDateRange,
		Sort:            searchSort,
	}
}

func runSearch(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadSettings(searchConfigPath, os.Getenv)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("candidates") {
		cfg.CandidatesFile = searchCandidates
		cfg.DatabaseURL = ""
	}
	if cmd.Flags().Changed("database-url") {
		cfg.DatabaseURL = searchDatabaseURL
	}
	cfg, err = finalize(cfg)
	if err != nil {
		return err
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

	q := searchQuery()
	results, err := search.NewService(candidates).Search(ctx, q)
	if err != nil {
		return err
	}

	if searchOutput == "" {
		observability.NewPrinter(os.Stdout).PrintSearchResults(q, results)
		return nil
	}

	if err := writeJSON(searchOutput, results); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "Found %d candidates\n", len(results))
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", searchOutput)
	return nil
}
