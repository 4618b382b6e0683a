package postgres

import (
	"gorm.io/gorm"

	"github.com/SAP-F-2025/assignment-engine/internal/repositories"
)

type Repository struct {
	assignment repositories.AssignmentRepository
	submission repositories.SubmissionRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &Repository{
		assignment: NewAssignmentPostgreSQL(db),
		submission: NewSubmissionPostgreSQL(db),
	}
}

func (r *Repository) Assignment() repositories.AssignmentRepository {
	return r.assignment
}

func (r *Repository) Submission() repositories.SubmissionRepository {
	return r.submission
}
