// Package types provides type definitions for structured data used throughout the candidate-insights system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// CandidateStatus is a candidate's aggregate engagement state, independent
// of the status of any single assessment.
type CandidateStatus string

// Candidate statuses
const (
	CandidateStatusPending   CandidateStatus = "pending"
	CandidateStatusActive    CandidateStatus = "active"
	CandidateStatusCompleted CandidateStatus = "completed"
	CandidateStatusInactive  CandidateStatus = "inactive"
)

// CandidateStatuses lists every known candidate status in display order.
var CandidateStatuses = []CandidateStatus{
	CandidateStatusPending,
	CandidateStatusActive,
	CandidateStatusCompleted,
	CandidateStatusInactive,
}

// Valid reports whether s is a known candidate status.
func (s CandidateStatus) Valid() bool {
	switch s {
	case CandidateStatusPending, CandidateStatusActive, CandidateStatusCompleted, CandidateStatusInactive:
		return true
	}
	return false
}

// Candidate represents a person being evaluated
type Candidate struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone,omitempty"`
	Status      CandidateStatus    `json:"status"`
	MemberSince time.Time          `json:"member_since"`
	Assessments []AssessmentRecord `json:"assessments"` // chronological application order
}

// Clone returns a deep copy of the candidate.
func (c Candidate) Clone() Candidate {
	out := c
	if c.Assessments != nil {
		out.Assessments = make([]AssessmentRecord, len(c.Assessments))
		for i, r := range c.Assessments {
			out.Assessments[i] = r.Clone()
		}
	}
	return out
}

// Trend classifies the direction of a score series
type Trend string

// Trend values
const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// ScoreBand is one of the five discrete score-label categories
type ScoreBand struct {
	Label string  `json:"label"`
	Color string  `json:"color"`
	Min   float64 `json:"min"`
}

// CandidateMetrics holds the values derived from a candidate's assessments.
// They are recomputed from the assessment list and never stored.
type CandidateMetrics struct {
	OverallScore     float64           `json:"overall_score"`
	ScoredCount      int               `json:"scored_count"`
	TotalAssessments int               `json:"total_assessments"`
	CompletionRate   float64           `json:"completion_rate"`
	PerformanceTrend Trend             `json:"performance_trend"`
	ScoreBand        ScoreBand         `json:"score_band"`
	LatestAssessment *AssessmentRecord `json:"latest_assessment,omitempty"`
	TotalTimeSpent   int               `json:"total_time_spent"`
}

// RankedCandidate is a candidate's position within a scored population
type RankedCandidate struct {
	CandidateID  string  `json:"candidate_id"`
	Name         string  `json:"name"`
	OverallScore float64 `json:"overall_score"`
	Rank         int     `json:"rank"`
	Percentile   float64 `json:"percentile"`
}
