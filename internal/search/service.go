package search

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/candidate-insights/internal/types"
)

// FacetOptions describes the values each facet accepts
type FacetOptions struct {
	Statuses        []string `json:"statuses"`
	ScoreRanges     []string `json:"score_ranges"`
	AssessmentTypes []string `json:"assessment_types"`
	DateRanges      []string `json:"date_ranges"`
	SortKeys        []string `json:"sort_keys"`
}

// Facets returns the known values for every facet, each led by "all".
func Facets() FacetOptions {
	opts := FacetOptions{
		Statuses:        []string{types.FacetAll},
		ScoreRanges:     []string{types.FacetAll},
		AssessmentTypes: []string{types.FacetAll},
		DateRanges:      append([]string{types.FacetAll}, DateRanges...),
		SortKeys:        append([]string{}, SortKeys...),
	}
	for _, s := range types.CandidateStatuses {
		opts.Statuses = append(opts.Statuses, string(s))
	}
	for _, b := range scoreBuckets {
		opts.ScoreRanges = append(opts.ScoreRanges, b.Key)
	}
	for _, t := range types.AssessmentTypes {
		opts.AssessmentTypes = append(opts.AssessmentTypes, string(t))
	}
	return opts
}

// CandidateLister supplies the candidate population to search over.
type CandidateLister interface {
	List(ctx context.Context) ([]types.Candidate, error)
}

// Service runs queries against an injected candidate source.
type Service struct {
	Store CandidateLister
	// Now anchors relative date ranges; defaults to time.Now.
	Now func() time.Time
}

// NewService creates a search service over a candidate source.
func NewService(store CandidateLister) *Service {
	return &Service{Store: store, Now: time.Now}
}

// Search validates q, then filters and sorts the current population.
func (s *Service) Search(ctx context.Context, q types.Query) ([]types.Candidate, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	candidates, err := s.Store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	return Sort(Filter(candidates, q, now()), q.Sort), nil
}
