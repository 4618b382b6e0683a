// Package repositories defines the narrow read/write surface the engine
// consumes from the remote data store. Assignments are read-only here;
// submissions are append-only.
package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/assignment-engine/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateSubmission is returned when a submission already exists
	// for the (assignment, student) pair. The unique index is the final
	// guard behind the service-level existing-submission check.
	ErrDuplicateSubmission = errors.New("submission already exists for this assignment and student")
)

// IsNotFoundError reports whether err represents a missing record.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

type AssignmentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Assignment, error)
}

type SubmissionRepository interface {
	// GetByAssignmentAndStudent returns ErrNotFound when the student has
	// no non-deleted submission for the assignment.
	GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*models.Submission, error)
	// Create persists a finalized submission. It fails with
	// ErrDuplicateSubmission rather than overwrite; submissions are
	// write-once.
	Create(ctx context.Context, submission *models.Submission) error
	// GetByAssignment lists all non-deleted submissions, for the teacher
	// export surface.
	GetByAssignment(ctx context.Context, assignmentID string) ([]*models.Submission, error)
}

// Repository aggregates the engine's data access.
type Repository interface {
	Assignment() AssignmentRepository
	Submission() SubmissionRepository
}
