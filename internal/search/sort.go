package search

import (
	"sort"
	"strings"

	"github.com/jonathan/candidate-insights/internal/metrics"
	"github.com/jonathan/candidate-insights/internal/types"
)

// Sort keys
const (
	SortByName   = "name"
	SortByScore  = "score"
	SortByRecent = "recent"
)

// SortKeys lists the accepted sort keys.
var SortKeys = []string{SortByName, SortByScore, SortByRecent}

// Sort returns a new slice ordered by key. An empty or unknown key keeps the
// input order. The sort is stable.
//
//   - name: case-insensitive name ascending
//   - score: overall score descending, then name
//   - recent: member_since descending, then name
func Sort(candidates []types.Candidate, key string) []types.Candidate {
	out := make([]types.Candidate, len(candidates))
	copy(out, candidates)

	var less func(i, j int) bool
	switch key {
	case SortByName:
		less = func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		}
	case SortByScore:
		return sortByScore(out)
	case SortByRecent:
		less = func(i, j int) bool {
			if !out[i].MemberSince.Equal(out[j].MemberSince) {
				return out[i].MemberSince.After(out[j].MemberSince)
			}
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		}
	default:
		return out
	}

	sort.SliceStable(out, less)
	return out
}

type scoredCandidate struct {
	candidate types.Candidate
	score     float64
}

func sortByScore(candidates []types.Candidate) []types.Candidate {
	scored := make([]scoredCandidate, len(candidates))
	for i, c := range candidates {
		scored[i] = scoredCandidate{candidate: c, score: metrics.CalculateAverageScore(c.Assessments)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return strings.ToLower(scored[i].candidate.Name) < strings.ToLower(scored[j].candidate.Name)
	})

	for i := range scored {
		candidates[i] = scored[i].candidate
	}
	return candidates
}
