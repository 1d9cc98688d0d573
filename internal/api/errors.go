package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/diydelight/customizer-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients. Forbidden combinations map to 400 rather
// than 409: they are caller-correctable input rejections, and the API
// contract reports them alongside field validation failures.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Bad request errors (caller-correctable)
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, store.ErrForbiddenCombination):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. Forbidden-combination errors keep their rule
// message verbatim: the presentation layer is required to display the
// server-reported reason when a create or update is rejected.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrItemNotFound):
		return "Custom item not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, store.ErrForbiddenCombination):
		return ruleMessage(err)

	case errors.Is(err, store.ErrInvalidEntity):
		return validationMessage(err)

	default:
		return "An unexpected error occurred"
	}
}

// ruleMessage extracts the rule's user-facing message from a wrapped
// forbidden-combination error, falling back to a generic rejection.
func ruleMessage(err error) string {
	msg := err.Error()
	prefix := store.ErrForbiddenCombination.Error() + ": "
	if idx := strings.Index(msg, prefix); idx >= 0 {
		return msg[idx+len(prefix):]
	}
	return "This feature combination is not allowed"
}

// validationMessage extracts the field-level detail from a wrapped
// validation error, falling back to a generic message.
func validationMessage(err error) string {
	msg := err.Error()
	prefix := store.ErrInvalidEntity.Error() + ": "
	if idx := strings.Index(msg, prefix); idx >= 0 {
		return msg[idx+len(prefix):]
	}
	return "Invalid item data"
}
