// Package schemas validates candidate collection files against their JSON Schema
// before any record is normalized.
package schemas

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// CandidateCollection is the JSON Schema for candidate collection files.
//
//go:embed candidate_collection.schema.json
var CandidateCollection string

// ValidationError lists every schema violation in a document, ordered by field
type ValidationError struct {
	Errors []FieldError
}

// FieldError is one violation; Field is a dotted path such as candidates.0.assessments.1.score
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// SchemaLoadError means the schema itself could not be read or compiled
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// collectionSchema is compiled on first use and shared afterwards
var collectionSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return compile("candidate_collection.schema.json", CandidateCollection)
})

// ValidateCollection validates candidate collection JSON against the embedded schema
func ValidateCollection(content []byte) error {
	schema, err := collectionSchema()
	if err != nil {
		return err
	}
	return check(schema, gojsonschema.NewBytesLoader(content))
}

// ValidateJSON validates a JSON file against a JSON Schema file
func ValidateJSON(schemaPath, jsonPath string) error {
	schemaContent, err := os.ReadFile(schemaPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("schema file not found: %s", schemaPath)
	}
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	document, err := os.ReadFile(jsonPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("JSON file not found: %s", jsonPath)
	}
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}

	schema, err := compile(schemaPath, string(schemaContent))
	if err != nil {
		return err
	}
	return check(schema, gojsonschema.NewBytesLoader(document))
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schema, err := compile("(string schema)", schemaContent)
	if err != nil {
		return err
	}
	return check(schema, gojsonschema.NewStringLoader(jsonContent))
}

func compile(name, content string) (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "invalid schema", Cause: err}
	}
	return schema, nil
}

func check(schema *gojsonschema.Schema, document gojsonschema.JSONLoader) error {
	result, err := schema.Validate(document)
	if err != nil {
		// the document is not parseable JSON
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	sort.SliceStable(validationErr.Errors, func(i, j int) bool {
		return validationErr.Errors[i].Field < validationErr.Errors[j].Field
	})

	return validationErr
}
