package intake

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/candidate-insights/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCollection_ValidFile(t *testing.T) {
	path := filepath.Join("..", "..", "testdata", "valid", "candidates.json")

	collection, err := LoadCollection(path)
	require.NoError(t, err)
	require.Len(t, collection.Candidates, 5)

	first := collection.Candidates[0]
	assert.Equal(t, "cand-001", first.ID)
	assert.Equal(t, "John Doe", first.Name)
	require.Len(t, first.Assessments, 3)
	require.NotNil(t, first.Assessments[0].Score)
	assert.Equal(t, 85.0, *first.Assessments[0].Score)
}

func TestLoadCandidates_SkipsMalformedRecord(t *testing.T) {
	path := filepath.Join("..", "..", "testdata", "valid", "candidates.json")

	candidates, report, err := LoadCandidates(path, discardLogger())
	require.NoError(t, err)
	require.Len(t, candidates, 5)
	assert.Equal(t, 9, report.AcceptedRecords)
	assert.Equal(t, 1, report.SkippedRecords)

	wei := candidates[4]
	assert.Equal(t, "cand-005", wei.ID)
	require.Len(t, wei.Assessments, 1)
	assert.Equal(t, "asm-501", wei.Assessments[0].AssessmentID)
}

func TestLoadCollection_FileNotFound(t *testing.T) {
	_, err := LoadCollection("nonexistent_file.json")
	require.Error(t, err)

	loadErr, ok := err.(*LoadError)
	require.True(t, ok, "error should be LoadError type")
	assert.Contains(t, loadErr.Error(), "failed to read file")
}

func TestLoadCollection_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.json")
	require.NoError(t, os.WriteFile(path, []byte("{ invalid json }"), 0644))

	_, err := LoadCollection(path)
	require.Error(t, err)

	loadErr, ok := err.(*LoadError)
	require.True(t, ok, "error should be LoadError type")
	assert.Contains(t, loadErr.Error(), "schema validation failed")
}

func TestLoadCollection_SchemaValidationFailure(t *testing.T) {
	path := filepath.Join("..", "..", "testdata", "invalid", "not_a_collection.json")

	_, err := LoadCollection(path)
	require.Error(t, err)

	loadErr, ok := err.(*LoadError)
	require.True(t, ok, "error should be LoadError type")

	var validationErr *schemas.ValidationError
	require.ErrorAs(t, loadErr, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)
}

const badTimestampCollection = `{
  "candidates": [
    {
      "id": "cand-1",
      "name": "Lena Ortiz",
      "email": "lena@example.com",
      "status": "active",
      "member_since": "2024-01-02T09:00:00Z",
      "assessments": [
        {
          "assessment_id": "asm-good",
          "assessment_type": "general",
          "score": 72,
          "status": "completed",
          "applied_at": "2024-01-03T10:00:00Z",
          "completed_at": "2024-01-03T11:00:00Z",
          "time_spent": 60
        },
        {
          "assessment_id": "asm-bad",
          "assessment_type": "general",
          "status": "pending",
          "applied_at": "2024-01-03",
          "time_spent": 0
        }
      ]
    },
    {
      "id": "cand-2",
      "name": "Omar Haddad",
      "email": "omar@example.com",
      "status": "active",
      "member_since": "last tuesday",
      "assessments": []
    }
  ]
}`

func TestDecodeCollection_BadTimestampSkipsOnlyThatRecord(t *testing.T) {
	collection, err := DecodeCollection([]byte(badTimestampCollection))
	require.NoError(t, err)
	require.Len(t, collection.Candidates, 2)

	candidates, report := NewNormalizer(discardLogger()).NormalizeCollection(collection.Candidates)

	require.Len(t, candidates, 1)
	assert.Equal(t, "cand-1", candidates[0].ID)
	require.Len(t, candidates[0].Assessments, 1)
	assert.Equal(t, "asm-good", candidates[0].Assessments[0].AssessmentID)
	assert.Equal(t, 1, report.SkippedRecords)
	assert.Equal(t, 1, report.RejectedCandidates)

	require.Len(t, report.Errors, 2)
	var nerr *NormalizationError
	require.True(t, errors.As(report.Errors[0], &nerr))
	assert.Equal(t, "asm-bad", nerr.AssessmentID)
	assert.Contains(t, nerr.Error(), "applied_at '2024-01-03'")
	require.True(t, errors.As(report.Errors[1], &nerr))
	assert.Equal(t, "cand-2", nerr.CandidateID)
	assert.Contains(t, nerr.Error(), "member_since")
}

func TestDecodeCollection_ParsesTimestamps(t *testing.T) {
	collection, err := DecodeCollection([]byte(badTimestampCollection))
	require.NoError(t, err)

	good := collection.Candidates[0].Assessments[0]
	assert.Equal(t, "2024-01-03T10:00:00Z", good.AppliedAt.Format("2006-01-02T15:04:05Z07:00"))
	require.NotNil(t, good.CompletedAt)
	assert.Equal(t, 60.0, good.CompletedAt.Sub(good.AppliedAt).Minutes())
	assert.Nil(t, collection.Candidates[0].Assessments[1].CompletedAt)
}
