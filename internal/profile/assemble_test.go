package profile

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonathan/candidate-insights/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var joined = time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC)

func record(id string, typ types.AssessmentType, score float64, day int, breakdown map[string]float64) types.AssessmentRecord {
	applied := joined.AddDate(0, 0, day)
	done := applied.Add(90 * time.Minute)
	return types.AssessmentRecord{
		AssessmentID:    id,
		AssessmentTitle: "Assessment " + id,
		AssessmentType:  typ,
		Score:           types.Scored(score),
		Status:          types.AssessmentStatusCompleted,
		AppliedAt:       applied,
		CompletedAt:     &done,
		TimeSpent:       60,
		Breakdown:       breakdown,
	}
}

func johnDoe() types.Candidate {
	return types.Candidate{
		ID:          "cand-001",
		Name:        "John Doe",
		Email:       "john.doe@example.com",
		Status:      types.CandidateStatusCompleted,
		MemberSince: joined,
		Assessments: []types.AssessmentRecord{
			record("asm-1", types.AssessmentTypeGeneral, 85, 10, map[string]float64{"problem_solving": 82, "communication": 90}),
			record("asm-2", types.AssessmentTypeDSA, 78, 20, map[string]float64{"problem_solving": 74, "algorithms": 55}),
			record("asm-3", types.AssessmentTypeCloud, 92, 30, map[string]float64{"problemSolving": 95}),
		},
	}
}

func TestAssemble_AggregatesAcrossAssessments(t *testing.T) {
	p := Assemble(johnDoe(), 75)
	require.NotNil(t, p)

	assert.Equal(t, "cand-001", p.CandidateID)
	assert.Equal(t, 85.0, p.Metrics.OverallScore)
	assert.Equal(t, 100.0, p.Metrics.CompletionRate)
	assert.Equal(t, "Very Good", p.Metrics.ScoreBand.Label)
	assert.Equal(t, types.TrendImproving, p.Metrics.PerformanceTrend)
	assert.Equal(t, 180, p.Metrics.TotalTimeSpent)
	require.NotNil(t, p.Metrics.LatestAssessment)
	assert.Equal(t, "asm-3", p.Metrics.LatestAssessment.AssessmentID)

	assert.Equal(t, 85.0, p.Benchmarking.CandidateAverage)
	assert.Equal(t, 75.0, p.Benchmarking.PlatformAverage)
	assert.Equal(t, 10.0, p.Benchmarking.Difference)
	assert.Nil(t, p.Benchmarking.CohortAverage)
	assert.Nil(t, p.GeneratedAt)
}

func TestAssemble_SkillRollups(t *testing.T) {
	p := Assemble(johnDoe(), 75)

	require.Len(t, p.Skills, 3)
	assert.Equal(t, "Communication", p.Skills[0].Name)
	assert.Equal(t, "Problem Solving", p.Skills[1].Name)
	assert.Equal(t, 3, p.Skills[1].Samples)
	assert.InDelta(t, 83.667, p.Skills[1].AverageScore, 0.001)
	assert.Equal(t, 95.0, p.Skills[1].LatestScore)
	assert.Equal(t, "Data Structures & Algorithms", p.Skills[2].Name)

	assert.Equal(t, []string{"Communication", "Problem Solving"}, p.Insights.Strengths)
	assert.Equal(t, []string{"Data Structures & Algorithms"}, p.Insights.ImprovementAreas)
	assert.Contains(t, p.Insights.Recommendation, "Strong candidate")
	assert.Contains(t, p.Insights.Recommendation, "improving")
}

func TestAssemble_TypeSummariesInEnumOrder(t *testing.T) {
	c := johnDoe()
	c.Assessments = append(c.Assessments, types.AssessmentRecord{
		AssessmentID:   "asm-4",
		AssessmentType: types.AssessmentTypeGeneral,
		Status:         types.AssessmentStatusInProgress,
		AppliedAt:      joined.AddDate(0, 0, 40),
	})

	p := Assemble(c, 0)
	require.Len(t, p.TypeSummaries, 3)
	assert.Equal(t, types.AssessmentTypeGeneral, p.TypeSummaries[0].Type)
	assert.Equal(t, 2, p.TypeSummaries[0].Attempts)
	assert.Equal(t, 1, p.TypeSummaries[0].ScoredCount)
	assert.Equal(t, 85.0, p.TypeSummaries[0].AverageScore)
	assert.Equal(t, types.AssessmentTypeDSA, p.TypeSummaries[1].Type)
	assert.Equal(t, types.AssessmentTypeCloud, p.TypeSummaries[2].Type)
}

func TestAssemble_Timeline(t *testing.T) {
	c := johnDoe()
	failedAt := joined.AddDate(0, 0, 5).Add(time.Hour)
	c.Assessments = append(c.Assessments, types.AssessmentRecord{
		AssessmentID: "asm-0",
		Score:        types.Scored(40),
		Status:       types.AssessmentStatusFailed,
		AppliedAt:    joined.AddDate(0, 0, 5),
		CompletedAt:  &failedAt,
	})

	p := Assemble(c, 0)
	require.Len(t, p.Timeline, 9)
	assert.Equal(t, types.TimelineJoined, p.Timeline[0].Kind)
	assert.Equal(t, types.TimelineApplied, p.Timeline[1].Kind)
	assert.Equal(t, "asm-0", p.Timeline[1].AssessmentID)
	assert.Equal(t, types.TimelineFailed, p.Timeline[2].Kind)
	require.NotNil(t, p.Timeline[2].Score)
	assert.Equal(t, 40.0, *p.Timeline[2].Score)

	for i := 1; i < len(p.Timeline); i++ {
		assert.False(t, p.Timeline[i].At.Before(p.Timeline[i-1].At), "timeline must be chronological")
	}
}

func TestAssemble_EmptyAssessments(t *testing.T) {
	c := types.Candidate{
		ID:          "cand-003",
		Name:        "Marcus Lee",
		Email:       "marcus@example.com",
		Status:      types.CandidateStatusPending,
		MemberSince: joined,
	}

	var p *types.GlobalCandidateProfile
	require.NotPanics(t, func() { p = Assemble(c, 70) })

	assert.Equal(t, 0.0, p.Metrics.OverallScore)
	assert.Equal(t, 0.0, p.Metrics.CompletionRate)
	assert.Equal(t, types.TrendStable, p.Metrics.PerformanceTrend)
	assert.Nil(t, p.Metrics.LatestAssessment)
	assert.Empty(t, p.Skills)
	assert.Empty(t, p.TypeSummaries)
	assert.Equal(t, -70.0, p.Benchmarking.Difference)
	assert.Contains(t, p.Insights.Recommendation, "No assessments yet")
	require.Len(t, p.Timeline, 1)
	assert.Equal(t, types.TimelineJoined, p.Timeline[0].Kind)
}

func TestAssemble_DoesNotMutateInput(t *testing.T) {
	c := johnDoe()
	before := c.Clone()

	p := Assemble(c, 75)
	p.Skills[0].Name = "changed"
	p.Metrics.LatestAssessment.Breakdown["problemSolving"] = 0

	assert.Equal(t, before, c)
}

func TestAssemble_Deterministic(t *testing.T) {
	a := NewAssembler(0)
	bench := Benchmark{PlatformAverage: 75}
	assert.Equal(t, a.Assemble(johnDoe(), bench), a.Assemble(johnDoe(), bench))
}

func TestAssembler_BenchmarkPassThrough(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	a := NewAssembler(3)
	a.Now = func() time.Time { return now }

	cohort := 80.0
	pct := 66.6
	p := a.Assemble(johnDoe(), Benchmark{
		PlatformAverage: 75,
		CohortLabel:     "cloud",
		CohortAverage:   &cohort,
		Percentile:      &pct,
		Rank:            2,
		PopulationSize:  4,
	})

	require.NotNil(t, p.Benchmarking.CohortDifference)
	assert.Equal(t, 5.0, *p.Benchmarking.CohortDifference)
	assert.Equal(t, "cloud", p.Benchmarking.CohortLabel)
	require.NotNil(t, p.Benchmarking.Percentile)
	assert.Equal(t, 66.6, *p.Benchmarking.Percentile)
	assert.Equal(t, 2, p.Benchmarking.Rank)
	assert.Equal(t, 4, p.Benchmarking.PopulationSize)
	require.NotNil(t, p.GeneratedAt)
	assert.Equal(t, now, *p.GeneratedAt)

	cohort = 0
	assert.Equal(t, 80.0, *p.Benchmarking.CohortAverage, "profile must not alias caller benchmark")
}

func TestAssembleAll_PreservesOrder(t *testing.T) {
	candidates := make([]types.Candidate, 0, 20)
	for i := 0; i < 20; i++ {
		c := johnDoe()
		c.ID = fmt.Sprintf("cand-%03d", i)
		candidates = append(candidates, c)
	}

	profiles, err := NewAssembler(0).AssembleAll(context.Background(), candidates, func(c types.Candidate) Benchmark {
		return Benchmark{PlatformAverage: 70}
	}, 4)
	require.NoError(t, err)
	require.Len(t, profiles, 20)
	for i, p := range profiles {
		assert.Equal(t, candidates[i].ID, p.CandidateID)
		assert.Equal(t, 15.0, p.Benchmarking.Difference)
	}
}

func TestAssembleAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAssembler(0).AssembleAll(ctx, []types.Candidate{johnDoe()}, nil, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
