package skills

import (
	"sort"

	"github.com/jonathan/candidate-insights/internal/metrics"
	"github.com/jonathan/candidate-insights/internal/types"
)

// series accumulates one skill's sub-scores in chronological order
type series struct {
	name   string
	scores []float64
}

// BuildRollups groups the breakdown sub-scores of scored records by canonical
// skill name, averages each skill across the assessments that reported it, and
// classifies each skill's trend with the same rule as the candidate trend.
// Rollups are sorted by average (descending), then name.
func BuildRollups(records []types.AssessmentRecord, epsilon float64) []types.SkillRollup {
	bySkill := make(map[string]*series)
	order := make([]string, 0)

	for _, record := range metrics.Chronological(records) {
		keys := make([]string, 0, len(record.Breakdown))
		for k := range record.Breakdown {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, rawName := range keys {
			name := NormalizeName(rawName)
			if name == "" {
				continue
			}
			key := Key(rawName)
			s, exists := bySkill[key]
			if !exists {
				s = &series{name: name}
				bySkill[key] = s
				order = append(order, key)
			}
			s.scores = append(s.scores, record.Breakdown[rawName])
		}
	}

	rollups := make([]types.SkillRollup, 0, len(order))
	for _, key := range order {
		s := bySkill[key]
		avg := average(s.scores)
		rollups = append(rollups, types.SkillRollup{
			Name:         s.name,
			AverageScore: avg,
			Trend:        metrics.ClassifySeries(s.scores, epsilon),
			Samples:      len(s.scores),
			LatestScore:  s.scores[len(s.scores)-1],
			Band:         metrics.ScoreLabel(avg),
		})
	}

	sort.SliceStable(rollups, func(i, j int) bool {
		if rollups[i].AverageScore != rollups[j].AverageScore {
			return rollups[i].AverageScore > rollups[j].AverageScore
		}
		return rollups[i].Name < rollups[j].Name
	})

	return rollups
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
