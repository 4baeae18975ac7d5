// Package metrics derives comparable performance metrics from a candidate's assessment history.
//
// Every function here is pure: identical input always yields identical output,
// and every function is defined for empty input.
package metrics

import (
	"sort"

	"github.com/jonathan/candidate-insights/internal/types"
)

// DefaultTrendEpsilon is the neutral band, in score points, inside which a
// change between the earlier and recent windows counts as stable.
const DefaultTrendEpsilon = 3.0

// scoreBands are ordered by descending lower bound; lower bounds are inclusive.
var scoreBands = []types.ScoreBand{
	{Label: "Excellent", Color: "green", Min: 90},
	{Label: "Very Good", Color: "blue", Min: 80},
	{Label: "Good", Color: "teal", Min: 70},
	{Label: "Average", Color: "yellow", Min: 60},
	{Label: "Below Average", Color: "red", Min: 0},
}

// ScoreBands returns the band table, best band first.
func ScoreBands() []types.ScoreBand {
	out := make([]types.ScoreBand, len(scoreBands))
	copy(out, scoreBands)
	return out
}

// CalculateAverageScore returns the arithmetic mean of the scored records.
// Unscored attempts are ignored entirely. Returns 0 when nothing is scored;
// callers that need to tell "no score" from a real low score should check
// ScoredCount.
func CalculateAverageScore(records []types.AssessmentRecord) float64 {
	total := 0.0
	count := 0
	for _, r := range records {
		if v, ok := r.Score.Value(); ok {
			total += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// ScoredCount returns how many records carry a score.
func ScoredCount(records []types.AssessmentRecord) int {
	count := 0
	for _, r := range records {
		if r.Score.IsScored() {
			count++
		}
	}
	return count
}

// CompletionRate returns the percentage (0-100) of records in a terminal status.
func CompletionRate(records []types.AssessmentRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	terminal := 0
	for _, r := range records {
		if r.Status.IsTerminal() {
			terminal++
		}
	}
	return 100 * float64(terminal) / float64(len(records))
}

// PerformanceTrend classifies the candidate's scores over time using DefaultTrendEpsilon.
func PerformanceTrend(records []types.AssessmentRecord) types.Trend {
	return PerformanceTrendWithEpsilon(records, DefaultTrendEpsilon)
}

// PerformanceTrendWithEpsilon classifies the chronological score series with the given neutral band.
func PerformanceTrendWithEpsilon(records []types.AssessmentRecord, epsilon float64) types.Trend {
	return ClassifySeries(ScoredSeries(records), epsilon)
}

// ScoredSeries returns the scores of scored records in chronological order.
// Records are ordered by SortTime; equal times keep their list order.
func ScoredSeries(records []types.AssessmentRecord) []float64 {
	scored := Chronological(records)
	series := make([]float64, 0, len(scored))
	for _, r := range scored {
		if v, ok := r.Score.Value(); ok {
			series = append(series, v)
		}
	}
	return series
}

// Chronological returns the scored records ordered by SortTime, stable on list order.
func Chronological(records []types.AssessmentRecord) []types.AssessmentRecord {
	scored := make([]types.AssessmentRecord, 0, len(records))
	for _, r := range records {
		if r.Score.IsScored() {
			scored = append(scored, r)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].SortTime().Before(scored[j].SortTime())
	})
	return scored
}

// ClassifySeries compares the mean of the most recent half of series against
// the mean of the earliest half (the middle value is skipped for odd lengths).
// A delta within ±epsilon is stable. Fewer than two values is always stable.
func ClassifySeries(series []float64, epsilon float64) types.Trend {
	n := len(series)
	if n < 2 {
		return types.TrendStable
	}
	if epsilon < 0 {
		epsilon = -epsilon
	}

	k := n / 2
	delta := mean(series[n-k:]) - mean(series[:k])
	switch {
	case delta > epsilon:
		return types.TrendImproving
	case delta < -epsilon:
		return types.TrendDeclining
	default:
		return types.TrendStable
	}
}

// ScoreLabel maps a score to its band. Lower bounds are inclusive, so 90 is
// Excellent and 89.9 is Very Good.
func ScoreLabel(score float64) types.ScoreBand {
	for _, band := range scoreBands {
		if score >= band.Min {
			return band
		}
	}
	return scoreBands[len(scoreBands)-1]
}

// LatestAssessment returns a copy of the most recently applied-for record,
// preferring the later list entry on ties. Returns nil for an empty list.
func LatestAssessment(records []types.AssessmentRecord) *types.AssessmentRecord {
	if len(records) == 0 {
		return nil
	}
	latest := 0
	for i := 1; i < len(records); i++ {
		if !records[i].AppliedAt.Before(records[latest].AppliedAt) {
			latest = i
		}
	}
	r := records[latest].Clone()
	return &r
}

// TotalTimeSpent sums TimeSpent across all records.
func TotalTimeSpent(records []types.AssessmentRecord) int {
	total := 0
	for _, r := range records {
		total += r.TimeSpent
	}
	return total
}

// Summarize computes every derived metric with DefaultTrendEpsilon.
func Summarize(records []types.AssessmentRecord) types.CandidateMetrics {
	return SummarizeWithEpsilon(records, DefaultTrendEpsilon)
}

// SummarizeWithEpsilon computes every derived metric using the given trend neutral band.
func SummarizeWithEpsilon(records []types.AssessmentRecord, epsilon float64) types.CandidateMetrics {
	overall := CalculateAverageScore(records)
	return types.CandidateMetrics{
		OverallScore:     overall,
		ScoredCount:      ScoredCount(records),
		TotalAssessments: len(records),
		CompletionRate:   CompletionRate(records),
		PerformanceTrend: PerformanceTrendWithEpsilon(records, epsilon),
		ScoreBand:        ScoreLabel(overall),
		LatestAssessment: LatestAssessment(records),
		TotalTimeSpent:   TotalTimeSpent(records),
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
