package intake

import (
	"encoding/json"
	"fmt"
	"time"
)

// RawCollection is the on-disk shape of a candidate collection file
type RawCollection struct {
	Candidates []RawCandidate `json:"candidates"`
}

// RawCandidate is a candidate as received from an external source, before normalization
type RawCandidate struct {
	ID          string          `json:"id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Email       string          `json:"email" validate:"required,email"`
	Phone       string          `json:"phone,omitempty" validate:"omitempty,max=32"`
	Status      string          `json:"status"`
	MemberSince time.Time       `json:"member_since"`
	Assessments []RawAssessment `json:"assessments"`

	// timeErr holds the first timestamp that failed to parse during decoding
	timeErr error
}

// RawAssessment is one assessment attempt as received. Score and CompletedAt
// are nullable here; normalization decides whether the record is consistent.
type RawAssessment struct {
	AssessmentID    string             `json:"assessment_id" validate:"required"`
	AssessmentTitle string             `json:"assessment_title"`
	AssessmentType  string             `json:"assessment_type"`
	Score           *float64           `json:"score" validate:"omitempty,min=0,max=100"`
	Status          string             `json:"status"`
	AppliedAt       time.Time          `json:"applied_at"`
	CompletedAt     *time.Time         `json:"completed_at,omitempty"`
	TimeSpent       int                `json:"time_spent" validate:"min=0"`
	Breakdown       map[string]float64 `json:"breakdown,omitempty" validate:"omitempty,dive,keys,required,endkeys,min=0,max=100"`

	timeErr error
}

// UnmarshalJSON decodes timestamps leniently: text that is not RFC 3339 is
// kept as a parse error for the normalizer instead of failing the whole document.
func (r *RawCandidate) UnmarshalJSON(data []byte) error {
	type plain RawCandidate
	aux := struct {
		*plain
		MemberSince string `json:"member_since"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.MemberSince, r.timeErr = parseTimestamp("member_since", aux.MemberSince)
	return nil
}

// UnmarshalJSON decodes applied_at and completed_at the same way as RawCandidate
func (r *RawAssessment) UnmarshalJSON(data []byte) error {
	type plain RawAssessment
	aux := struct {
		*plain
		AppliedAt   string  `json:"applied_at"`
		CompletedAt *string `json:"completed_at,omitempty"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.AppliedAt, r.timeErr = parseTimestamp("applied_at", aux.AppliedAt)
	r.CompletedAt = nil
	if aux.CompletedAt != nil {
		completedAt, err := parseTimestamp("completed_at", *aux.CompletedAt)
		if err != nil && r.timeErr == nil {
			r.timeErr = err
		}
		if err == nil && !completedAt.IsZero() {
			r.CompletedAt = &completedAt
		}
	}
	return nil
}

// parseTimestamp parses an RFC 3339 timestamp; empty text is the zero time
func parseTimestamp(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s '%s' is not an RFC 3339 timestamp", field, value)
	}
	return t, nil
}
