// Package intake loads raw candidate collections and normalizes them into validated records.
package intake

import "fmt"

// LoadError represents an error during file I/O, schema validation or JSON parsing
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("load error: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// NormalizationError describes why a candidate or assessment record was excluded
type NormalizationError struct {
	CandidateID  string
	AssessmentID string
	Message      string
	Cause        error
}

func (e *NormalizationError) Error() string {
	subject := "candidate '" + e.CandidateID + "'"
	if e.AssessmentID != "" {
		subject += ", assessment '" + e.AssessmentID + "'"
	}
	if e.Cause != nil {
		return fmt.Sprintf("normalization error: %s: %s: %v", subject, e.Message, e.Cause)
	}
	return fmt.Sprintf("normalization error: %s: %s", subject, e.Message)
}

func (e *NormalizationError) Unwrap() error {
	return e.Cause
}
