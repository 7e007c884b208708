package services

import (
	"errors"

	apperrors "github.com/forsyth-county/learn/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrStorageFailure = errors.New("storage failure")

	// Quiz specific errors
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrQuizNotYetAvailable = errors.New("quiz is not yet available")
	ErrQuizExpired         = errors.New("quiz has expired")
	ErrLinkGeneration      = errors.New("could not generate a unique shareable link")

	// Export errors
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// invalidRequest builds a single-field validation failure
func invalidRequest(field, message string, value interface{}) ValidationErrors {
	return ValidationErrors{*apperrors.NewValidationErrorWithRule(field, message, "required", value)}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrQuizNotFound)
}

// IsUnavailable checks if the quiz exists but its availability window is closed
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrQuizNotYetAvailable) ||
		errors.Is(err, ErrQuizExpired)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrUnsupportedFormat) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}
