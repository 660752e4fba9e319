package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Draft is the JSON Schema dialect advertised in exported documents.
const Draft = "http://json-schema.org/draft-07/schema#"

// Type is the primitive kind of a field.
type Type string

const (
	TypeString Type = "string"
)

// Field describes one named argument
type Field struct {
	Name        string   `json:"name"`
	Type        Type     `json:"type"`
	Patterns    []string `json:"patterns"`
	Description string   `json:"description"`
}

// Pattern returns the single regular expression advertised for the field.
// Multiple accepted shapes are joined as alternatives.
func (f Field) Pattern() string {
	switch len(f.Patterns) {
	case 0:
		return ""
	case 1:
		return f.Patterns[0]
	}
	parts := make([]string, 0, len(f.Patterns))
	for _, p := range f.Patterns {
		parts = append(parts, "("+p+")")
	}
	return strings.Join(parts, "|")
}

// Arguments are validated argument values keyed by field name
type Arguments map[string]string

// Schema is an ordered, immutable set of required fields.
type Schema struct {
	fields   []Field
	document map[string]interface{}
	compiled *gojsonschema.Schema
}

// New builds a schema from field declarations and compiles its JSON Schema projection.
func New(fields ...Field) (*Schema, error) {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if err := validateField(f); err != nil {
			return nil, err
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("duplicate field %s", f.Name)
		}
		seen[f.Name] = true
	}

	s := &Schema{fields: append([]Field(nil), fields...)}
	s.document = s.buildDocument()

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(s.document))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	s.compiled = compiled

	return s, nil
}

// MustNew is New for static tables; it panics on an invalid declaration.
func MustNew(fields ...Field) *Schema {
	s, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns the declared fields in declaration order
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// FieldNames returns the declared field names in declaration order
func (s *Schema) FieldNames() []string {
	names := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		names = append(names, f.Name)
	}
	return names
}

// Field looks up a declared field by name
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Document returns a copy of the JSON Schema document for discovery.
func (s *Schema) Document() map[string]interface{} {
	return s.buildDocument()
}

// MarshalJSON encodes the schema as its JSON Schema document.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.document)
}

func (s *Schema) buildDocument() map[string]interface{} {
	properties := make(map[string]interface{}, len(s.fields))
	required := make([]interface{}, 0, len(s.fields))

	for _, f := range s.fields {
		prop := map[string]interface{}{
			"type":        string(f.Type),
			"description": f.Description,
		}
		if p := f.Pattern(); p != "" {
			prop["pattern"] = p
		}
		properties[f.Name] = prop
		required = append(required, f.Name)
	}

	doc := map[string]interface{}{
		"$schema":    Draft,
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		doc["required"] = required
	}

	return doc
}

func validateField(f Field) error {
	if f.Name == "" {
		return fmt.Errorf("field name cannot be empty")
	}
	if f.Type != TypeString {
		return fmt.Errorf("invalid type %q for %s", f.Type, f.Name)
	}
	if f.Description == "" {
		return fmt.Errorf("field description cannot be empty for %s", f.Name)
	}
	for _, p := range f.Patterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("invalid pattern for %s: %w", f.Name, err)
		}
	}
	return nil
}
