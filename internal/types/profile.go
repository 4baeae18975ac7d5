// Package types provides type definitions for structured data used throughout the candidate-insights system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// GlobalCandidateProfile is the read-only, fully aggregated view of one
// candidate across all their assessments. It is rebuilt on every request.
type GlobalCandidateProfile struct {
	CandidateID   string           `json:"candidate_id"`
	Name          string           `json:"name"`
	Email         string           `json:"email"`
	Phone         string           `json:"phone,omitempty"`
	Status        CandidateStatus  `json:"status"`
	MemberSince   time.Time        `json:"member_since"`
	Metrics       CandidateMetrics `json:"metrics"`
	Benchmarking  Benchmarking     `json:"benchmarking"`
	Skills        []SkillRollup    `json:"skills"`
	TypeSummaries []TypeSummary    `json:"type_summaries"`
	Insights      Insights         `json:"insights"`
	Timeline      []TimelineEvent  `json:"timeline"`
	GeneratedAt   *time.Time       `json:"generated_at,omitempty"`
}

// Benchmarking compares a candidate's average against reference averages
type Benchmarking struct {
	CandidateAverage float64  `json:"candidate_average"`
	PlatformAverage  float64  `json:"platform_average"`
	Difference       float64  `json:"difference"` // positive = above platform average
	CohortLabel      string   `json:"cohort_label,omitempty"`
	CohortAverage    *float64 `json:"cohort_average,omitempty"`
	CohortDifference *float64 `json:"cohort_difference,omitempty"`
	Percentile       *float64 `json:"percentile,omitempty"`
	Rank             int      `json:"rank,omitempty"`
	PopulationSize   int      `json:"population_size,omitempty"`
}

// SkillRollup aggregates the sub-scores reported for one skill
type SkillRollup struct {
	Name         string    `json:"name"`
	AverageScore float64   `json:"average_score"`
	Trend        Trend     `json:"trend"`
	Samples      int       `json:"samples"`
	LatestScore  float64   `json:"latest_score"`
	Band         ScoreBand `json:"band"`
}

// TypeSummary aggregates a candidate's attempts of one assessment type
type TypeSummary struct {
	Type         AssessmentType `json:"type"`
	Attempts     int            `json:"attempts"`
	ScoredCount  int            `json:"scored_count"`
	AverageScore float64        `json:"average_score"`
}

// Insights holds deterministic, rule-based observations about a candidate
type Insights struct {
	Strengths        []string `json:"strengths"`
	ImprovementAreas []string `json:"improvement_areas"`
	Recommendation   string   `json:"recommendation"`
}

// TimelineEventKind names a lifecycle event
type TimelineEventKind string

// Timeline event kinds
const (
	TimelineJoined    TimelineEventKind = "joined"
	TimelineApplied   TimelineEventKind = "applied"
	TimelineCompleted TimelineEventKind = "completed"
	TimelineFailed    TimelineEventKind = "failed"
)

// TimelineEvent is one entry in a candidate's flattened lifecycle
type TimelineEvent struct {
	Kind         TimelineEventKind `json:"kind"`
	At           time.Time         `json:"at"`
	AssessmentID string            `json:"assessment_id,omitempty"`
	Title        string            `json:"title,omitempty"`
	Score        *float64          `json:"score,omitempty"`
}
