package engines

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is a compiled JSON schema an upstream payload must satisfy before it is decoded.
type Schema struct {
	schema *gojsonschema.Schema
}

// MustCompileSchema compiles a schema literal. It panics on an invalid schema, so it is
// meant for package-level variables.
func MustCompileSchema(source string) *Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		panic(fmt.Sprintf("invalid payload schema: %v", err))
	}

	return &Schema{schema: compiled}
}

// Validate checks body against the schema. Bodies that are not JSON fail as well.
func (s *Schema) Validate(body []byte) error {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	if !result.Valid() {
		var errors []string
		for _, desc := range result.Errors() {
			errors = append(errors, desc.String())
		}

		return fmt.Errorf("%w: %s", ErrInvalidPayload, strings.Join(errors, "; "))
	}

	return nil
}

var (
	// ObjectSchema accepts any JSON object.
	ObjectSchema = MustCompileSchema(`{"type": "object"}`)

	// AnySchema accepts any well-formed JSON document.
	AnySchema = MustCompileSchema(`{}`)
)
