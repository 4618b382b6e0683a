package services

import (
	"errors"

	apperrors "github.com/SAP-F-2025/assignment-engine/internal/errors"
	"github.com/SAP-F-2025/assignment-engine/internal/grading"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Assignment specific errors
	ErrAssignmentNotFound = errors.New("assignment not found")

	// Attempt specific errors
	ErrAlreadySubmitted     = errors.New("a submission already exists for this assignment")
	ErrSubmissionInFlight   = errors.New("a submission attempt is already underway")
	ErrAttemptTimeExpired   = errors.New("attempt time has expired")
	ErrSubmissionNotFound   = errors.New("no submission exists for this assignment")
	ErrSubmissionIncomplete = errors.New("submission has unanswered questions")

	// Persistence errors
	ErrSubmissionWriteFailed = errors.New("failed to persist submission")
)

// Shared validation error types
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

// IsNotFound checks if err represents a "not found" condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrSubmissionNotFound)
}

// IsConflict checks if err represents a resource conflict. Double
// submission attempts surface here, never as internal errors.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrAlreadySubmitted) ||
		errors.Is(err, ErrSubmissionInFlight)
}

// IsValidation checks if err represents a validation failure, including
// the manual-submit completeness rejection.
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrSubmissionIncomplete) {
		return true
	}
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// IsDataIntegrity checks if err represents producer-side bad data, such
// as an unknown question type at assignment load.
func IsDataIntegrity(err error) bool {
	return errors.Is(err, grading.ErrUnknownQuestionType) ||
		errors.Is(err, grading.ErrInvalidQuestionContent)
}

// IsRetryable checks if err is a transient I/O failure the learner may
// retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrSubmissionWriteFailed)
}
