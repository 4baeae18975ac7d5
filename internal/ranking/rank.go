// Package ranking places candidates within the scored population: rank, percentile and platform average.
//
// Profile assembly takes percentile and rank as inputs; this package is the
// caller-side helper that computes them over a whole collection.
package ranking

import (
	"sort"

	"github.com/jonathan/candidate-insights/internal/metrics"
	"github.com/jonathan/candidate-insights/internal/types"
)

// PlatformAverage returns the mean overall score of candidates that have at
// least one scored assessment. Candidates with nothing scored are left out
// rather than counted as zero. Returns 0 when no one is scored.
func PlatformAverage(candidates []types.Candidate) float64 {
	total := 0.0
	count := 0
	for _, c := range candidates {
		if metrics.ScoredCount(c.Assessments) == 0 {
			continue
		}
		total += metrics.CalculateAverageScore(c.Assessments)
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// RankCandidates ranks the scored population by overall score (descending).
// Ties share a rank (1, 2, 2, 4) and are listed by name, then id.
// Percentile is the share of the rest of the population scoring strictly
// lower, so the single best candidate gets 100 and a lone candidate gets 100.
func RankCandidates(candidates []types.Candidate) []types.RankedCandidate {
	ranked := make([]types.RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		if metrics.ScoredCount(c.Assessments) == 0 {
			continue
		}
		ranked = append(ranked, types.RankedCandidate{
			CandidateID:  c.ID,
			Name:         c.Name,
			OverallScore: metrics.CalculateAverageScore(c.Assessments),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].OverallScore != ranked[j].OverallScore {
			return ranked[i].OverallScore > ranked[j].OverallScore
		}
		if ranked[i].Name != ranked[j].Name {
			return ranked[i].Name < ranked[j].Name
		}
		return ranked[i].CandidateID < ranked[j].CandidateID
	})

	n := len(ranked)
	for i := range ranked {
		if i > 0 && ranked[i].OverallScore == ranked[i-1].OverallScore {
			ranked[i].Rank = ranked[i-1].Rank
		} else {
			ranked[i].Rank = i + 1
		}
	}

	// walk from the bottom so "strictly lower" counts are available per tie group
	lower := 0
	for i := n - 1; i >= 0; {
		j := i
		for j > 0 && ranked[j-1].OverallScore == ranked[i].OverallScore {
			j--
		}
		percentile := 100.0
		if n > 1 {
			percentile = 100 * float64(lower) / float64(n-1)
		}
		for k := j; k <= i; k++ {
			ranked[k].Percentile = percentile
		}
		lower += i - j + 1
		i = j - 1
	}

	return ranked
}

// Lookup returns the ranking entry for a candidate id.
func Lookup(ranked []types.RankedCandidate, candidateID string) (types.RankedCandidate, bool) {
	for _, r := range ranked {
		if r.CandidateID == candidateID {
			return r, true
		}
	}
	return types.RankedCandidate{}, false
}
