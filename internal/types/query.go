// Package types provides type definitions for structured data used throughout the candidate-insights system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// FacetAll disables a facet instead of matching a literal value named "all".
const FacetAll = "all"

// Query is a faceted candidate search. Every facet is optional; a facet left
// empty or set to FacetAll imposes no constraint.
type Query struct {
	Text            string   `json:"text,omitempty" validate:"max=200"`
	Statuses        []string `json:"statuses,omitempty" validate:"max=10,dive,max=32"`
	ScoreRange      string   `json:"score_range,omitempty" validate:"max=32"`
	AssessmentTypes []string `json:"assessment_types,omitempty" validate:"max=10,dive,max=32"`
	DateRange       string   `json:"date_range,omitempty" validate:"max=32"`
	Sort            string   `json:"sort,omitempty" validate:"omitempty,oneof=name score recent"`
}

// Validate checks field size limits and the sort key.
// Unknown facet values are not an error; they simply match nothing.
func (q *Query) Validate() error {
	validate := validator.New()
	return validate.Struct(q)
}
