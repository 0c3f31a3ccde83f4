package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KhymNad/resume-matcher-api/internal/extraction"
	"github.com/KhymNad/resume-matcher-api/internal/ingestion"
	"github.com/KhymNad/resume-matcher-api/internal/ner"
	"github.com/KhymNad/resume-matcher-api/internal/skills"
	"github.com/KhymNad/resume-matcher-api/internal/types"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "text", Message: "is required"}
	assert.Equal(t, "validation error: text - is required", err.Error())
	assert.Equal(t, "validation error: bad body", (&ErrValidation{Message: "bad body"}).Error())
}

func TestErrNotFound(t *testing.T) {
	err := &ErrNotFound{Resource: "extraction", ID: "abc"}
	assert.Equal(t, "extraction not found: abc", err.Error())
}

func TestValidationError_FromValidator(t *testing.T) {
	req := &types.MatchSkillsRequest{}
	err := validationError(req.Validate())

	var ve *ErrValidation
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "Text", ve.Field)
	assert.Contains(t, ve.Message, "required")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "ErrValidation", err: &ErrValidation{Field: "text", Message: "required"}, expected: http.StatusBadRequest},
		{name: "ErrNotFound", err: &ErrNotFound{Resource: "extraction", ID: "x"}, expected: http.StatusNotFound},
		{name: "ErrUnavailable", err: &ErrUnavailable{Feature: "storage"}, expected: http.StatusServiceUnavailable},
		{name: "StoreError", err: &skills.StoreError{Message: "down"}, expected: http.StatusServiceUnavailable},
		{name: "NER call", err: fmt.Errorf("chunk 0: %w", &ner.APICallError{StatusCode: 503, Message: "loading"}), expected: http.StatusBadGateway},
		{name: "NER parse", err: &ner.ParseError{Message: "not an array"}, expected: http.StatusBadGateway},
		{name: "fetch failure", err: fmt.Errorf("%w: boom", ingestion.ErrHTTPRequestFailed), expected: http.StatusBadGateway},
		{name: "offset", err: &extraction.OffsetError{Message: "chunk not found"}, expected: http.StatusUnprocessableEntity},
		{name: "empty resume", err: ingestion.ErrEmptyResume, expected: http.StatusUnprocessableEntity},
		{name: "deadline", err: fmt.Errorf("wrapped: %w", context.DeadlineExceeded), expected: http.StatusGatewayTimeout},
		{name: "Unknown error", err: assert.AnError, expected: http.StatusInternalServerError},
		{name: "Nil error", err: nil, expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
