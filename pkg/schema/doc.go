// Package schema declares flat, string-only argument schemas for tools.
//
// Invariants:
// - Every declared field is required and must be a string.
// - A field matches when its value matches at least one of its patterns.
// - The JSON Schema document advertised to callers is the same document used for validation.
// - Unknown argument fields are ignored.
//
// Usage:
//
//	s := schema.MustNew(schema.Field{
//		Name:        "date",
//		Type:        schema.TypeString,
//		Patterns:    []string{`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`},
//		Description: "Date (e.g., YYYY-MM-DD).",
//	})
//	args, err := s.Validate(map[string]interface{}{"date": "2024-01-01"})
package schema
