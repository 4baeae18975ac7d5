package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessmentStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   AssessmentStatus
		terminal bool
	}{
		{AssessmentStatusPending, false},
		{AssessmentStatusInProgress, false},
		{AssessmentStatusCompleted, true},
		{AssessmentStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.True(t, tt.status.Valid())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}

	assert.False(t, AssessmentStatus("archived").Valid())
}

func TestParseAssessmentType(t *testing.T) {
	tests := []struct {
		input    string
		expected AssessmentType
		ok       bool
	}{
		{"general", AssessmentTypeGeneral, true},
		{"DSA", AssessmentTypeDSA, true},
		{"data-structures", AssessmentTypeDSA, true},
		{" Cloud ", AssessmentTypeCloud, true},
		{"AI/ML", AssessmentTypeAIML, true},
		{"ai-ml", AssessmentTypeAIML, true},
		{"frontend", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseAssessmentType(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCandidateStatus_Valid(t *testing.T) {
	for _, s := range CandidateStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, CandidateStatus("all").Valid())
}

func TestCandidate_CloneIsDeep(t *testing.T) {
	completed := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	original := Candidate{
		ID:   "c1",
		Name: "Jane Roe",
		Assessments: []AssessmentRecord{
			{
				AssessmentID: "a1",
				Score:        Scored(80),
				Status:       AssessmentStatusCompleted,
				CompletedAt:  &completed,
				Breakdown:    map[string]float64{"coding": 75},
			},
		},
	}

	clone := original.Clone()
	clone.Assessments[0].Breakdown["coding"] = 10
	*clone.Assessments[0].CompletedAt = completed.Add(time.Hour)
	clone.Assessments = append(clone.Assessments, AssessmentRecord{AssessmentID: "a2"})

	require.Len(t, original.Assessments, 1)
	assert.Equal(t, 75.0, original.Assessments[0].Breakdown["coding"])
	assert.Equal(t, completed, *original.Assessments[0].CompletedAt)
}

func TestAssessmentRecord_SortTime(t *testing.T) {
	applied := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	completed := applied.Add(48 * time.Hour)

	pending := AssessmentRecord{AppliedAt: applied}
	assert.Equal(t, applied, pending.SortTime())

	done := AssessmentRecord{AppliedAt: applied, CompletedAt: &completed}
	assert.Equal(t, completed, done.SortTime())
}

func TestQuery_Validate(t *testing.T) {
	q := Query{Text: "doe", Statuses: []string{"active"}, Sort: "score"}
	assert.NoError(t, q.Validate())

	q.Sort = "salary"
	assert.Error(t, q.Validate())

	q = Query{Statuses: []string{"bogus-but-short"}}
	assert.NoError(t, q.Validate(), "unknown facet values are not validation errors")
}
