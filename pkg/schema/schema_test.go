package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFields() []Field {
	return []Field{
		{
			Name:        "companyId",
			Type:        TypeString,
			Patterns:    []string{`^[a-zA-Z0-9]{10}$`, `^[a-zA-Z0-9]{4}$`, `^[0-9]{13}$`},
			Description: "Company identifier.",
		},
		{
			Name:        "date",
			Type:        TypeString,
			Patterns:    []string{`^[0-9]{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`},
			Description: "Date (e.g., YYYY-MM-DD).",
		},
	}
}

func TestNew_InvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
		errMsg string
	}{
		{
			name:   "empty name",
			fields: []Field{{Type: TypeString, Description: "x"}},
			errMsg: "field name cannot be empty",
		},
		{
			name:   "unsupported type",
			fields: []Field{{Name: "n", Type: "integer", Description: "x"}},
			errMsg: "invalid type",
		},
		{
			name:   "empty description",
			fields: []Field{{Name: "n", Type: TypeString}},
			errMsg: "description cannot be empty",
		},
		{
			name:   "bad pattern",
			fields: []Field{{Name: "n", Type: TypeString, Description: "x", Patterns: []string{"(["}}},
			errMsg: "invalid pattern",
		},
		{
			name: "duplicate field",
			fields: []Field{
				{Name: "n", Type: TypeString, Description: "x"},
				{Name: "n", Type: TypeString, Description: "y"},
			},
			errMsg: "duplicate field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.fields...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustNew(Field{Name: "", Type: TypeString})
	})
}

func TestField_Pattern(t *testing.T) {
	assert.Equal(t, "", Field{}.Pattern())
	assert.Equal(t, `^a$`, Field{Patterns: []string{`^a$`}}.Pattern())
	assert.Equal(t, `(^a$)|(^b$)`, Field{Patterns: []string{`^a$`, `^b$`}}.Pattern())
}

func TestSchema_Validate_Success(t *testing.T) {
	s := MustNew(testFields()...)

	for _, id := range []string{"AB12345678", "GOOG", "1234567890123"} {
		t.Run(id, func(t *testing.T) {
			args, err := s.Validate(map[string]interface{}{
				"companyId": id,
				"date":      "2024-01-01",
			})
			require.NoError(t, err)
			assert.Equal(t, id, args["companyId"])
			assert.Equal(t, "2024-01-01", args["date"])
		})
	}
}

func TestSchema_Validate_IgnoresUnknownFields(t *testing.T) {
	s := MustNew(testFields()...)

	args, err := s.Validate(map[string]interface{}{
		"companyId": "GOOG",
		"date":      "2024-01-01",
		"extra":     42,
	})
	require.NoError(t, err)
	assert.Len(t, args, 2)
	assert.NotContains(t, args, "extra")
}

func TestSchema_Validate_Failures(t *testing.T) {
	s := MustNew(testFields()...)

	tests := []struct {
		name   string
		args   map[string]interface{}
		field  string
		reason string
	}{
		{
			name:   "nil arguments",
			args:   nil,
			field:  "companyId",
			reason: ReasonRequired,
		},
		{
			name:   "missing date",
			args:   map[string]interface{}{"companyId": "GOOG"},
			field:  "date",
			reason: ReasonRequired,
		},
		{
			name:   "five character company id",
			args:   map[string]interface{}{"companyId": "GOOGL", "date": "2024-01-01"},
			field:  "companyId",
			reason: ReasonPattern,
		},
		{
			name:   "out of range date",
			args:   map[string]interface{}{"companyId": "GOOG", "date": "2024-13-40"},
			field:  "date",
			reason: ReasonPattern,
		},
		{
			name:   "numeric company id",
			args:   map[string]interface{}{"companyId": 1234, "date": "2024-01-01"},
			field:  "companyId",
			reason: ReasonType,
		},
		{
			name:   "first failing field wins",
			args:   map[string]interface{}{"companyId": "x", "date": "bad"},
			field:  "companyId",
			reason: ReasonPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Validate(tt.args)
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.reason, verr.Reason)

			f, ok := s.Field(tt.field)
			require.True(t, ok)
			assert.Contains(t, err.Error(), f.Description)
		})
	}
}

func TestSchema_Document(t *testing.T) {
	s := MustNew(testFields()...)
	doc := s.Document()

	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, Draft, doc["$schema"])
	assert.NotContains(t, doc, "additionalProperties")
	assert.Equal(t, []interface{}{"companyId", "date"}, doc["required"])

	props, ok := doc["properties"].(map[string]interface{})
	require.True(t, ok)
	require.Len(t, props, 2)

	company := props["companyId"].(map[string]interface{})
	assert.Equal(t, "string", company["type"])
	assert.Equal(t, "Company identifier.", company["description"])
	assert.Equal(t, `(^[a-zA-Z0-9]{10}$)|(^[a-zA-Z0-9]{4}$)|(^[0-9]{13}$)`, company["pattern"])
}

func TestSchema_MarshalJSON(t *testing.T) {
	s := MustNew(testFields()...)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "object", decoded["type"])
	assert.Contains(t, decoded["properties"], "date")
}

func TestSchema_Accessors(t *testing.T) {
	s := MustNew(testFields()...)

	assert.Equal(t, []string{"companyId", "date"}, s.FieldNames())
	assert.Len(t, s.Fields(), 2)

	_, ok := s.Field("missing")
	assert.False(t, ok)

	// Fields returns a copy.
	fields := s.Fields()
	fields[0].Name = "mutated"
	assert.Equal(t, "companyId", s.Fields()[0].Name)
}
