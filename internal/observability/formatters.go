// Package observability provides structured logging setup and formatted
// output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/candidate-insights/internal/intake"
	"github.com/jonathan/candidate-insights/internal/metrics"
	"github.com/jonathan/candidate-insights/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintProfile outputs a human-readable summary of a candidate profile.
func (p *Printer) PrintProfile(profile *types.GlobalCandidateProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	m := profile.Metrics
	b := profile.Benchmarking

	sb.WriteString(fmt.Sprintf("Candidate: %s (%s)\n", profile.Name, profile.CandidateID))
	sb.WriteString(fmt.Sprintf("Status:    %s\n", profile.Status))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Overall:   %.1f (%s)\n", m.OverallScore, m.ScoreBand.Label))
	sb.WriteString(fmt.Sprintf("Completed: %.0f%% of %d assessments\n", m.CompletionRate, m.TotalAssessments))
	sb.WriteString(fmt.Sprintf("Trend:     %s\n", m.PerformanceTrend))
	sb.WriteString(fmt.Sprintf("vs platform: %+.1f (platform %.1f)\n", b.Difference, b.PlatformAverage))
	if b.CohortDifference != nil && b.CohortAverage != nil {
		label := b.CohortLabel
		if label == "" {
			label = "cohort"
		}
		sb.WriteString(fmt.Sprintf("vs %s: %+.1f (%s %.1f)\n", label, *b.CohortDifference, label, *b.CohortAverage))
	}
	if b.Percentile != nil {
		sb.WriteString(fmt.Sprintf("Rank:      #%d of %d (percentile %.0f)\n", b.Rank, b.PopulationSize, *b.Percentile))
	}

	if len(profile.Skills) > 0 {
		sb.WriteString("\nTop Skills:\n")
		count := min(len(profile.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			s := profile.Skills[i]
			sb.WriteString(fmt.Sprintf("  • %s %.1f (%s)\n", s.Name, s.AverageScore, s.Trend))
		}
		if len(profile.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Skills)-maxItemsToShow))
		}
	}

	if profile.Insights.Recommendation != "" {
		sb.WriteString("\n")
		sb.WriteString(profile.Insights.Recommendation)
	}

	p.printBox("CANDIDATE PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSearchResults outputs the first matches of a candidate search.
func (p *Printer) PrintSearchResults(query types.Query, candidates []types.Candidate) {
	var sb strings.Builder

	if query.Text != "" {
		sb.WriteString(fmt.Sprintf("Query: %q\n", query.Text))
	}
	sb.WriteString(fmt.Sprintf("Matches: %d\n", len(candidates)))

	count := min(len(candidates), maxItemsToShow)
	if count > 0 {
		sb.WriteString("\n")
	}
	for i := 0; i < count; i++ {
		c := candidates[i]
		score := metrics.CalculateAverageScore(c.Assessments)
		sb.WriteString(fmt.Sprintf("#%d  %s  %.1f  %s\n", i+1, c.Name, score, c.Status))
	}
	if len(candidates) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(candidates)-maxItemsToShow))
	}

	p.printBox("SEARCH RESULTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintIntakeReport outputs what the normalizer accepted and rejected.
func (p *Printer) PrintIntakeReport(report intake.Report) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Candidates accepted: %d\n", report.AcceptedCandidates))
	sb.WriteString(fmt.Sprintf("Candidates rejected: %d\n", report.RejectedCandidates))
	sb.WriteString(fmt.Sprintf("Records accepted:    %d\n", report.AcceptedRecords))
	sb.WriteString(fmt.Sprintf("Records skipped:     %d\n", report.SkippedRecords))

	if len(report.Errors) > 0 {
		sb.WriteString("\nProblems:\n")
		count := min(len(report.Errors), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", report.Errors[i]))
		}
		if len(report.Errors) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(report.Errors)-maxItemsToShow))
		}
	}

	p.printBox("INTAKE REPORT", strings.TrimSuffix(sb.String(), "\n"))
}
