// Package schemas validates stage responses against the JSON Schemas that
// define each stage's declared contract. Schemas are embedded at compile time.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

var (
	compiled   = make(map[string]*gojsonschema.Schema)
	compiledMu sync.Mutex
)

// Schema names usable with Validate.
const (
	Ideas      = "ideas"
	Characters = "characters"
	Shots      = "shots"
	Thumbnail  = "thumbnail"
)

// FieldError is a single schema violation at a specific field path.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates the violations of one document.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "response violates the %s contract:\n", e.Schema)
	for i, fe := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, fe.Field, fe.Message)
	}
	return sb.String()
}

// Validate checks a raw JSON document against a named embedded schema.
// A schema that fails to load or compile is a packaging bug and panics.
func Validate(name string, document []byte) error {
	schema := mustCompile(name)

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("failed to validate against %s schema: %w", name, err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Schema: name}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return ve
}

func mustCompile(name string) *gojsonschema.Schema {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if schema, ok := compiled[name]; ok {
		return schema
	}

	data, err := schemaFiles.ReadFile(name + ".schema.json")
	if err != nil {
		panic(fmt.Sprintf("unknown schema %q: %v", name, err))
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		panic(fmt.Sprintf("invalid schema %q: %v", name, err))
	}
	compiled[name] = schema
	return schema
}
