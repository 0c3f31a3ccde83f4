package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_NERResponse(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{
			name:    "empty array",
			payload: `[]`,
		},
		{
			name:    "token level",
			payload: `[{"entity": "B-SKILL", "word": "Go", "score": 0.98, "start": 0, "end": 2}]`,
		},
		{
			name:    "aggregated",
			payload: `[{"entity_group": "SKILL", "word": "Go", "score": 0.98, "start": 0, "end": 2}]`,
		},
		{
			name:    "null tag",
			payload: `[{"entity": null, "word": "Go", "score": 0.98, "start": 0, "end": 2}]`,
		},
		{
			name:    "missing tag key",
			payload: `[{"word": "Go", "score": 0.98, "start": 0, "end": 2}]`,
			wantErr: true,
		},
		{
			name:    "missing offsets",
			payload: `[{"entity": "B-SKILL", "word": "Go", "score": 0.98}]`,
			wantErr: true,
		},
		{
			name:    "score out of range",
			payload: `[{"entity": "B-SKILL", "word": "Go", "score": 1.5, "start": 0, "end": 2}]`,
			wantErr: true,
		},
		{
			name:    "error object",
			payload: `{"error": "Model is loading"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(NERResponse, []byte(tt.payload))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(NERResponse, []byte(`[{"entity": `))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing.schema.json", []byte(`[]`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, err.Error(), "missing.schema.json")
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "Go"}`))

	err := ValidateJSONString(schema, `{"name": 1}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	err = ValidateJSONString(`{"type": 12}`, `{}`)
	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "0.score", Message: "Must be less than or equal to 1"},
		{Field: "(root)", Message: "Invalid type"},
	}}
	assert.Equal(t, "validation failed: 1. 0.score: Must be less than or equal to 1; 2. (root): Invalid type", err.Error())
}
