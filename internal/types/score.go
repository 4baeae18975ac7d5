// Package types provides type definitions for structured data used throughout the candidate-insights system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Score is either Unscored or Scored(v). The zero value is Unscored, so a
// missing score can never be confused with a real score of 0.
type Score struct {
	value  float64
	scored bool
}

// Scored returns a score holding v.
func Scored(v float64) Score {
	return Score{value: v, scored: true}
}

// Unscored returns the absent score.
func Unscored() Score {
	return Score{}
}

// Value returns the numeric score and whether one is present.
func (s Score) Value() (float64, bool) {
	return s.value, s.scored
}

// IsScored reports whether a numeric score is present.
func (s Score) IsScored() bool {
	return s.scored
}

// Ptr returns the score as a pointer, nil when unscored.
func (s Score) Ptr() *float64 {
	if !s.scored {
		return nil
	}
	v := s.value
	return &v
}

// String implements fmt.Stringer
func (s Score) String() string {
	if !s.scored {
		return "unscored"
	}
	return fmt.Sprintf("%g", s.value)
}

// MarshalJSON encodes an unscored value as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.scored {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON accepts a number or null.
func (s *Score) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = Unscored()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("score must be a number or null: %w", err)
	}
	*s = Scored(v)
	return nil
}
