// Package skills groups assessment sub-scores by skill and builds per-skill rollups.
package skills

import (
	"strings"
	"unicode"
)

// skillNormalizations maps common breakdown-key variants (lowercased, space
// separated) to canonical display names
var skillNormalizations = map[string]string{
	"mcq":                    "Multiple Choice",
	"mc":                     "Multiple Choice",
	"multiple choice":        "Multiple Choice",
	"multi choice":           "Multiple Choice",
	"coding":                 "Coding",
	"code":                   "Coding",
	"programming":            "Coding",
	"written":                "Written",
	"essay":                  "Written",
	"sys design":             "System Design",
	"system design":          "System Design",
	"dsa":                    "Data Structures & Algorithms",
	"algorithms":             "Data Structures & Algorithms",
	"data structures":        "Data Structures & Algorithms",
	"ml":                     "Machine Learning",
	"machine learning":       "Machine Learning",
	"sql":                    "SQL",
	"aws":                    "AWS",
	"api design":             "API Design",
	"communication":          "Communication",
	"problem solving":        "Problem Solving",
	"problemsolving":         "Problem Solving",
	"k8s":                    "Kubernetes",
	"kubernetes":             "Kubernetes",
	"cloud architecture":     "Cloud Architecture",
	"cloud arch":             "Cloud Architecture",
	"debugging":              "Debugging",
	"data analysis":          "Data Analysis",
	"statistics":             "Statistics",
	"stats":                  "Statistics",
	"security":               "Security",
	"networking":             "Networking",
	"devops":                 "DevOps",
	"ci cd":                  "CI/CD",
	"cicd":                   "CI/CD",
	"deep learning":          "Deep Learning",
	"nlp":                    "NLP",
	"natural language":       "NLP",
	"time management":        "Time Management",
	"attention to detail":    "Attention to Detail",
	"object oriented design": "Object-Oriented Design",
	"ood":                    "Object-Oriented Design",
}

// NormalizeName returns the canonical display name for a breakdown key.
// "multiple_choice", "multipleChoice" and "Multiple Choice" all become
// "Multiple Choice". Returns "" for blank input.
func NormalizeName(name string) string {
	words := splitWords(strings.TrimSpace(name))
	if len(words) == 0 {
		return ""
	}

	lowered := make([]string, len(words))
	for i, w := range words {
		lowered[i] = strings.ToLower(w)
	}
	if canonical, ok := skillNormalizations[strings.Join(lowered, " ")]; ok {
		return canonical
	}

	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

// Key returns the grouping key for a skill name: its canonical form, lowercased.
func Key(name string) string {
	return strings.ToLower(NormalizeName(name))
}

// splitWords breaks a key on separators and camelCase boundaries
func splitWords(s string) []string {
	var words []string
	var current []rune
	runes := []rune(s)

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == '.' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && len(current) > 0 && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	return words
}

// titleWord capitalizes a word, keeping short all-caps acronyms as they are
func titleWord(w string) string {
	if len(w) <= 4 && w == strings.ToUpper(w) && strings.ToLower(w) != w {
		return w
	}
	lower := strings.ToLower(w)
	r := []rune(lower)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
