package model

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/resume.schema.json
var resumeSchema []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

// SchemaError lists every JSON-schema violation of a document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "schema validation failed: " + strings.Join(e.Problems, "; ")
}

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(resumeSchema))
	})
	return schema, schemaErr
}

// ValidateDocument checks a create or replace payload against the embedded
// resume schema. It checks shape only: empty names and dates are allowed.
func ValidateDocument(raw []byte) error {
	s, err := loadSchema()
	if err != nil {
		return fmt.Errorf("load resume schema: %w", err)
	}
	res, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &SchemaError{Problems: []string{err.Error()}}
	}
	if res.Valid() {
		return nil
	}
	// collect errors
	problems := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		problems = append(problems, e.String())
	}
	return &SchemaError{Problems: problems}
}

// IsSchemaError reports whether err came from ValidateDocument.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
