package profile

import (
	"fmt"
	"strings"

	"github.com/jonathan/candidate-insights/internal/types"
)

const (
	strengthThreshold    = 80.0
	improvementThreshold = 60.0
	lowCompletionRate    = 50.0
)

// buildInsights derives rule-based strengths, improvement areas and a short
// recommendation from the metrics and skill rollups
func buildInsights(m types.CandidateMetrics, rollups []types.SkillRollup) types.Insights {
	insights := types.Insights{
		Strengths:        []string{},
		ImprovementAreas: []string{},
	}

	for _, s := range rollups {
		switch {
		case s.AverageScore >= strengthThreshold:
			insights.Strengths = append(insights.Strengths, s.Name)
		case s.AverageScore < improvementThreshold:
			insights.ImprovementAreas = append(insights.ImprovementAreas, s.Name)
		}
	}

	insights.Recommendation = recommend(m)
	return insights
}

func recommend(m types.CandidateMetrics) string {
	if m.ScoredCount == 0 {
		if m.TotalAssessments == 0 {
			return "No assessments yet. Invite the candidate to an assessment before evaluating."
		}
		return "No scored assessments yet. Wait for open assessments to finish before evaluating."
	}

	var parts []string
	switch m.ScoreBand.Label {
	case "Excellent", "Very Good":
		parts = append(parts, fmt.Sprintf("Strong candidate (%s, %.1f average)", m.ScoreBand.Label, m.OverallScore))
	case "Good":
		parts = append(parts, fmt.Sprintf("Solid candidate (%s, %.1f average)", m.ScoreBand.Label, m.OverallScore))
	default:
		parts = append(parts, fmt.Sprintf("Candidate needs further evaluation (%s, %.1f average)", m.ScoreBand.Label, m.OverallScore))
	}

	switch m.PerformanceTrend {
	case types.TrendImproving:
		parts = append(parts, "Results are improving")
	case types.TrendDeclining:
		parts = append(parts, "Recent results are declining")
	}

	if m.CompletionRate < lowCompletionRate {
		parts = append(parts, "Most assessments are still open")
	}

	return strings.Join(parts, ". ") + "."
}
