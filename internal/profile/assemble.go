// Package profile assembles the Global Candidate Profile: one read-only view of a
// candidate across every assessment they have taken.
package profile

import (
	"sort"
	"time"

	"github.com/jonathan/candidate-insights/internal/metrics"
	"github.com/jonathan/candidate-insights/internal/skills"
	"github.com/jonathan/candidate-insights/internal/types"
)

// Benchmark carries the reference values a profile is compared against.
// Percentile, Rank and PopulationSize are computed by the caller over the
// whole population; the assembler passes them through.
type Benchmark struct {
	PlatformAverage float64
	CohortLabel     string
	CohortAverage   *float64
	Percentile      *float64
	Rank            int
	PopulationSize  int
}

// Assembler builds profiles. The zero value is not usable; use NewAssembler.
type Assembler struct {
	// TrendEpsilon is shared by the candidate trend and every per-skill trend.
	TrendEpsilon float64
	// Now stamps GeneratedAt when set. Leave nil for fully deterministic output.
	Now func() time.Time
}

// NewAssembler creates an Assembler with the given trend neutral band.
// A non-positive epsilon falls back to metrics.DefaultTrendEpsilon.
func NewAssembler(trendEpsilon float64) *Assembler {
	if trendEpsilon <= 0 {
		trendEpsilon = metrics.DefaultTrendEpsilon
	}
	return &Assembler{TrendEpsilon: trendEpsilon}
}

// Assemble builds a profile against a platform average with default settings.
func Assemble(candidate types.Candidate, platformAverage float64) *types.GlobalCandidateProfile {
	return NewAssembler(metrics.DefaultTrendEpsilon).Assemble(candidate, Benchmark{PlatformAverage: platformAverage})
}

// Assemble builds the profile for one candidate. The candidate is never
// modified and every call returns a fresh structure. An empty assessment list
// yields average 0, completion 0, a stable trend and no skills.
func (a *Assembler) Assemble(candidate types.Candidate, bench Benchmark) *types.GlobalCandidateProfile {
	c := candidate.Clone()
	m := metrics.SummarizeWithEpsilon(c.Assessments, a.TrendEpsilon)
	rollups := skills.BuildRollups(c.Assessments, a.TrendEpsilon)

	p := &types.GlobalCandidateProfile{
		CandidateID:   c.ID,
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		Status:        c.Status,
		MemberSince:   c.MemberSince,
		Metrics:       m,
		Benchmarking:  buildBenchmarking(m.OverallScore, bench),
		Skills:        rollups,
		TypeSummaries: buildTypeSummaries(c.Assessments),
		Insights:      buildInsights(m, rollups),
		Timeline:      buildTimeline(c),
	}

	if a.Now != nil {
		now := a.Now()
		p.GeneratedAt = &now
	}

	return p
}

func buildBenchmarking(average float64, bench Benchmark) types.Benchmarking {
	b := types.Benchmarking{
		CandidateAverage: average,
		PlatformAverage:  bench.PlatformAverage,
		Difference:       average - bench.PlatformAverage,
		CohortLabel:      bench.CohortLabel,
		Rank:             bench.Rank,
		PopulationSize:   bench.PopulationSize,
	}
	if bench.CohortAverage != nil {
		cohort := *bench.CohortAverage
		diff := average - cohort
		b.CohortAverage = &cohort
		b.CohortDifference = &diff
	}
	if bench.Percentile != nil {
		pct := *bench.Percentile
		b.Percentile = &pct
	}
	return b
}

// buildTypeSummaries reports attempts per assessment type, in enum order,
// omitting types the candidate never attempted
func buildTypeSummaries(records []types.AssessmentRecord) []types.TypeSummary {
	byType := make(map[types.AssessmentType][]types.AssessmentRecord)
	for _, r := range records {
		byType[r.AssessmentType] = append(byType[r.AssessmentType], r)
	}

	summaries := make([]types.TypeSummary, 0, len(byType))
	for _, t := range types.AssessmentTypes {
		group, ok := byType[t]
		if !ok {
			continue
		}
		summaries = append(summaries, types.TypeSummary{
			Type:         t,
			Attempts:     len(group),
			ScoredCount:  metrics.ScoredCount(group),
			AverageScore: metrics.CalculateAverageScore(group),
		})
	}
	return summaries
}

// buildTimeline flattens lifecycle events in chronological order; events at
// the same instant keep their natural order (joined, then per record)
func buildTimeline(c types.Candidate) []types.TimelineEvent {
	events := make([]types.TimelineEvent, 0, 1+2*len(c.Assessments))
	if !c.MemberSince.IsZero() {
		events = append(events, types.TimelineEvent{Kind: types.TimelineJoined, At: c.MemberSince})
	}

	for _, r := range c.Assessments {
		events = append(events, types.TimelineEvent{
			Kind:         types.TimelineApplied,
			At:           r.AppliedAt,
			AssessmentID: r.AssessmentID,
			Title:        r.AssessmentTitle,
		})
		if r.CompletedAt == nil {
			continue
		}
		kind := types.TimelineCompleted
		if r.Status == types.AssessmentStatusFailed {
			kind = types.TimelineFailed
		}
		events = append(events, types.TimelineEvent{
			Kind:         kind,
			At:           *r.CompletedAt,
			AssessmentID: r.AssessmentID,
			Title:        r.AssessmentTitle,
			Score:        r.Score.Ptr(),
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At.Before(events[j].At)
	})
	return events
}
