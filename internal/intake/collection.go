package intake

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/jonathan/candidate-insights/internal/schemas"
	"github.com/jonathan/candidate-insights/internal/types"
)

// LoadCollection loads a raw candidate collection from a JSON file and
// validates its shape against the candidate collection schema
func LoadCollection(path string) (*RawCollection, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			Message: fmt.Sprintf("failed to read file %s", path),
			Cause:   err,
		}
	}

	return DecodeCollection(content)
}

// DecodeCollection validates and unmarshals collection JSON
func DecodeCollection(content []byte) (*RawCollection, error) {
	if err := schemas.ValidateCollection(content); err != nil {
		return nil, &LoadError{
			Message: "schema validation failed",
			Cause:   err,
		}
	}

	var collection RawCollection
	if err := json.Unmarshal(content, &collection); err != nil {
		return nil, &LoadError{
			Message: "failed to unmarshal JSON",
			Cause:   err,
		}
	}

	return &collection, nil
}

// LoadCandidates loads a collection file and normalizes it in one step
func LoadCandidates(path string, logger *slog.Logger) ([]types.Candidate, Report, error) {
	collection, err := LoadCollection(path)
	if err != nil {
		return nil, Report{}, err
	}

	candidates, report := NewNormalizer(logger).NormalizeCollection(collection.Candidates)
	return candidates, report, nil
}
