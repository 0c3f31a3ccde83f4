package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/KhymNad/resume-matcher-api/internal/extraction"
	"github.com/KhymNad/resume-matcher-api/internal/ingestion"
	"github.com/KhymNad/resume-matcher-api/internal/ner"
	"github.com/KhymNad/resume-matcher-api/internal/skills"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a missing resource
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnavailable indicates a feature whose backing service is not configured
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Feature)
}

// validationError converts validator output into an ErrValidation naming the
// first failing field.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: fmt.Sprintf("failed on '%s' rule", fe.Tag())}
	}
	return &ErrValidation{Message: err.Error()}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr  *ErrValidation
		notFoundErr    *ErrNotFound
		unavailableErr *ErrUnavailable
		apiErr         *ner.APICallError
		parseErr       *ner.ParseError
		offsetErr      *extraction.OffsetError
		storeErr       *skills.StoreError
	)

	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &unavailableErr), errors.As(err, &storeErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &apiErr), errors.As(err, &parseErr),
		errors.Is(err, ingestion.ErrHTTPRequestFailed):
		return http.StatusBadGateway
	case errors.As(err, &offsetErr),
		errors.Is(err, ingestion.ErrEmptyResume),
		errors.Is(err, ingestion.ErrContentExtractionFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
