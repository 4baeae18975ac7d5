// Package search implements the faceted candidate filter and the explicit sort
// step that follows it.
package search

import (
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/candidate-insights/internal/metrics"
	"github.com/jonathan/candidate-insights/internal/types"
)

// scoreBucket is a half-open interval [Min, Max) unless Inclusive is set.
type scoreBucket struct {
	Key       string
	Min       float64
	Max       float64
	Inclusive bool
}

var scoreBuckets = []scoreBucket{
	{Key: "0-49", Min: 0, Max: 50},
	{Key: "50-69", Min: 50, Max: 70},
	{Key: "70-79", Min: 70, Max: 80},
	{Key: "80-89", Min: 80, Max: 90},
	{Key: "90-100", Min: 90, Max: 100, Inclusive: true},
}

// DateRanges lists the supported relative member_since windows.
var DateRanges = []string{"today", "7d", "30d", "3m"}

// Filter returns the candidates matching every active facet of q, in their
// original order. Inputs are not modified; the returned slice shares the
// candidate values but not the backing array.
func Filter(candidates []types.Candidate, q types.Query, now time.Time) []types.Candidate {
	m := newMatcher(q, now)
	out := make([]types.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if m.match(c) {
			out = append(out, c)
		}
	}
	return out
}

// Match reports whether a single candidate satisfies q.
func Match(c types.Candidate, q types.Query, now time.Time) bool {
	return newMatcher(q, now).match(c)
}

// matcher holds a query with its facets pre-resolved so a filter pass does
// the parsing once
type matcher struct {
	text string

	statuses    map[types.CandidateStatus]bool
	anyStatus   bool
	types       map[types.AssessmentType]bool
	anyType     bool
	bucket      *scoreBucket
	anyScore    bool
	cutoff      time.Time
	anyDate     bool
	unknownDate bool
}

func newMatcher(q types.Query, now time.Time) *matcher {
	m := &matcher{text: strings.ToLower(strings.TrimSpace(q.Text))}

	m.anyStatus = facetDisabled(q.Statuses)
	if !m.anyStatus {
		m.statuses = make(map[types.CandidateStatus]bool, len(q.Statuses))
		for _, s := range q.Statuses {
			m.statuses[types.CandidateStatus(strings.ToLower(strings.TrimSpace(s)))] = true
		}
	}

	m.anyType = facetDisabled(q.AssessmentTypes)
	if !m.anyType {
		m.types = make(map[types.AssessmentType]bool, len(q.AssessmentTypes))
		for _, raw := range q.AssessmentTypes {
			if t, ok := types.ParseAssessmentType(raw); ok {
				m.types[t] = true
			}
		}
	}

	scoreKey := strings.TrimSpace(q.ScoreRange)
	m.anyScore = scoreKey == "" || isFacetAll(scoreKey)
	if !m.anyScore {
		m.bucket = lookupBucket(scoreKey)
	}

	dateKey := strings.TrimSpace(q.DateRange)
	m.anyDate = dateKey == "" || isFacetAll(dateKey)
	if !m.anyDate {
		cutoff, ok := DateCutoff(dateKey, now)
		m.cutoff = cutoff
		m.unknownDate = !ok
	}

	return m
}

func (m *matcher) match(c types.Candidate) bool {
	// overall score is only needed by two facets; compute lazily
	overall := -1.0
	score := func() float64 {
		if overall < 0 {
			overall = metrics.CalculateAverageScore(c.Assessments)
		}
		return overall
	}

	if !m.anyStatus && !m.statuses[c.Status] {
		return false
	}
	if !m.anyScore && !inBucket(m.bucket, score()) {
		return false
	}
	if !m.anyType && !hasAssessmentType(c, m.types) {
		return false
	}
	if !m.anyDate && (m.unknownDate || c.MemberSince.Before(m.cutoff)) {
		return false
	}
	if m.text != "" && !matchesText(c, m.text, score()) {
		return false
	}
	return true
}

// facetDisabled reports whether a multi-value facet imposes no constraint
func facetDisabled(values []string) bool {
	if len(values) == 0 {
		return true
	}
	for _, v := range values {
		if isFacetAll(v) {
			return true
		}
	}
	return false
}

// isFacetAll matches the "all" sentinel in any letter case
func isFacetAll(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), types.FacetAll)
}

func lookupBucket(key string) *scoreBucket {
	for i := range scoreBuckets {
		if scoreBuckets[i].Key == key {
			return &scoreBuckets[i]
		}
	}
	return nil
}

// inBucket applies a score bucket. An overall score of exactly 0 is treated
// as "no real score" and never falls in any bucket.
func inBucket(b *scoreBucket, score float64) bool {
	if b == nil || score == 0 {
		return false
	}
	if score < b.Min {
		return false
	}
	if b.Inclusive {
		return score <= b.Max
	}
	return score < b.Max
}

func hasAssessmentType(c types.Candidate, allowed map[types.AssessmentType]bool) bool {
	for _, r := range c.Assessments {
		if allowed[r.AssessmentType] {
			return true
		}
	}
	return false
}

func matchesText(c types.Candidate, needle string, overall float64) bool {
	if strings.Contains(strings.ToLower(c.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(c.Email), needle) {
		return true
	}
	for _, r := range c.Assessments {
		if strings.Contains(strings.ToLower(r.AssessmentTitle), needle) {
			return true
		}
	}
	return strings.Contains(FormatScore(overall), needle)
}

// FormatScore renders a score with at most one decimal and no trailing ".0",
// so 85 is "85" and 83.67 is "83.7".
func FormatScore(score float64) string {
	s := strconv.FormatFloat(score, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}

// DateCutoff returns the earliest member_since instant accepted by a date
// range key. ok is false for unknown keys.
func DateCutoff(key string, now time.Time) (time.Time, bool) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch key {
	case "today":
		return startOfDay, true
	case "7d":
		return now.AddDate(0, 0, -7), true
	case "30d":
		return now.AddDate(0, 0, -30), true
	case "3m":
		return now.AddDate(0, -3, 0), true
	default:
		return time.Time{}, false
	}
}
