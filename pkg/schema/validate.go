package schema

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Failure reasons reported by ValidationError
const (
	ReasonRequired = "required"
	ReasonType     = "invalid_type"
	ReasonPattern  = "pattern"
)

// ValidationError names the first failing field in declaration order.
type ValidationError struct {
	Field       string
	Reason      string
	Description string
}

// Error implements the error interface. The field description is repeated
// verbatim so callers can correct the argument.
func (e *ValidationError) Error() string {
	var problem string
	switch e.Reason {
	case ReasonRequired:
		problem = "is required"
	case ReasonType:
		problem = "must be a string"
	case ReasonPattern:
		problem = "does not match the expected format"
	default:
		problem = "is invalid"
	}
	if e.Description == "" {
		return fmt.Sprintf("%s %s", e.Field, problem)
	}
	return fmt.Sprintf("%s %s: %s", e.Field, problem, e.Description)
}

// Validate checks raw caller arguments against the schema and returns the
// declared fields as strings. Extra fields are dropped.
func (s *Schema) Validate(raw map[string]interface{}) (Arguments, error) {
	if raw == nil {
		raw = map[string]interface{}{}
	}

	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to validate arguments: %w", err)
	}

	if !result.Valid() {
		return nil, s.firstFailure(result.Errors())
	}

	args := make(Arguments, len(s.fields))
	for _, f := range s.fields {
		// Valid() guarantees presence and string type.
		args[f.Name], _ = raw[f.Name].(string)
	}
	return args, nil
}

func (s *Schema) firstFailure(errs []gojsonschema.ResultError) error {
	reasons := make(map[string]string, len(errs))
	for _, re := range errs {
		field := re.Field()
		if re.Type() == ReasonRequired {
			if prop, ok := re.Details()["property"].(string); ok {
				field = prop
			}
		}
		if _, exists := reasons[field]; !exists {
			reasons[field] = re.Type()
		}
	}

	for _, f := range s.fields {
		if reason, ok := reasons[f.Name]; ok {
			return &ValidationError{
				Field:       f.Name,
				Reason:      reason,
				Description: f.Description,
			}
		}
	}

	// Root-level failure not attributable to a declared field.
	return &ValidationError{Field: "arguments", Reason: errs[0].Type(), Description: errs[0].Description()}
}
