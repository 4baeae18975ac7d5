// Package types provides type definitions for structured data used throughout the candidate-insights system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"
)

// AssessmentType identifies the family of an assessment
type AssessmentType string

// Known assessment types
const (
	AssessmentTypeGeneral AssessmentType = "general"
	AssessmentTypeDSA     AssessmentType = "dsa"
	AssessmentTypeCloud   AssessmentType = "cloud"
	AssessmentTypeAIML    AssessmentType = "ai-ml"
)

// AssessmentTypes lists every known assessment type in display order.
var AssessmentTypes = []AssessmentType{
	AssessmentTypeGeneral,
	AssessmentTypeDSA,
	AssessmentTypeCloud,
	AssessmentTypeAIML,
}

// assessmentTypeAliases maps common spellings to canonical assessment types
var assessmentTypeAliases = map[string]AssessmentType{
	"general":                    AssessmentTypeGeneral,
	"dsa":                        AssessmentTypeDSA,
	"data-structures":            AssessmentTypeDSA,
	"data-structures-algorithms": AssessmentTypeDSA,
	"algorithms":                 AssessmentTypeDSA,
	"cloud":                      AssessmentTypeCloud,
	"ai-ml":                      AssessmentTypeAIML,
	"aiml":                       AssessmentTypeAIML,
	"ai/ml":                      AssessmentTypeAIML,
	"ml":                         AssessmentTypeAIML,
}

// Valid reports whether t is a known assessment type.
func (t AssessmentType) Valid() bool {
	switch t {
	case AssessmentTypeGeneral, AssessmentTypeDSA, AssessmentTypeCloud, AssessmentTypeAIML:
		return true
	}
	return false
}

// ParseAssessmentType resolves a raw type name (case-insensitive, aliases allowed).
// The second return value is false when the name is not recognized.
func ParseAssessmentType(raw string) (AssessmentType, bool) {
	t, ok := assessmentTypeAliases[strings.ToLower(strings.TrimSpace(raw))]
	return t, ok
}

// AssessmentStatus is the lifecycle state of a single assessment attempt
type AssessmentStatus string

// Assessment statuses
const (
	AssessmentStatusPending    AssessmentStatus = "pending"
	AssessmentStatusInProgress AssessmentStatus = "in-progress"
	AssessmentStatusCompleted  AssessmentStatus = "completed"
	AssessmentStatusFailed     AssessmentStatus = "failed"
)

// Valid reports whether s is a known assessment status.
func (s AssessmentStatus) Valid() bool {
	switch s {
	case AssessmentStatusPending, AssessmentStatusInProgress, AssessmentStatusCompleted, AssessmentStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition can occur from s.
func (s AssessmentStatus) IsTerminal() bool {
	return s == AssessmentStatusCompleted || s == AssessmentStatusFailed
}

// AssessmentRecord is one attempt by a candidate at one assessment.
//
// CompletedAt is set and Score is scored exactly when Status is terminal.
// Records are produced by the intake normalizer, which enforces this.
type AssessmentRecord struct {
	AssessmentID    string             `json:"assessment_id"`
	AssessmentTitle string             `json:"assessment_title"`
	AssessmentType  AssessmentType     `json:"assessment_type"`
	Score           Score              `json:"score"`
	Status          AssessmentStatus   `json:"status"`
	AppliedAt       time.Time          `json:"applied_at"`
	CompletedAt     *time.Time         `json:"completed_at,omitempty"`
	TimeSpent       int                `json:"time_spent"` // minutes
	Breakdown       map[string]float64 `json:"breakdown,omitempty"`
}

// SortTime is the instant used to place the record on a timeline:
// CompletedAt when known, otherwise AppliedAt.
func (r AssessmentRecord) SortTime() time.Time {
	if r.CompletedAt != nil {
		return *r.CompletedAt
	}
	return r.AppliedAt
}

// Clone returns a deep copy of the record.
func (r AssessmentRecord) Clone() AssessmentRecord {
	out := r
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		out.CompletedAt = &t
	}
	if r.Breakdown != nil {
		out.Breakdown = make(map[string]float64, len(r.Breakdown))
		for k, v := range r.Breakdown {
			out.Breakdown[k] = v
		}
	}
	return out
}
