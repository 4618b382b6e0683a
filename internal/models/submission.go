package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubmissionStatus string

const (
	// SubmissionGraded means every question was auto-graded.
	SubmissionGraded SubmissionStatus = "graded"
	// SubmissionPending means at least one essay/short-answer question
	// awaits manual review by the teacher.
	SubmissionPending SubmissionStatus = "pending"
)

// Submission is the write-once artifact this engine produces. At most one
// non-deleted submission exists per (assignment, student); teachers delete
// a submission to allow a retake, which happens outside this engine.
type Submission struct {
	ID           string `json:"id" gorm:"primaryKey;size:64"`
	AssignmentID string `json:"assignment_id" gorm:"not null;size:64;uniqueIndex:idx_submissions_attempt,where:deleted_at IS NULL"`
	ClassID      string `json:"class_id" gorm:"not null;size:64;index"`
	StudentID    string `json:"student_id" gorm:"not null;size:64;uniqueIndex:idx_submissions_attempt,where:deleted_at IS NULL"`
	StudentName  string `json:"student_name" gorm:"size:100"`

	Answers datatypes.JSON `json:"answers" gorm:"type:jsonb"` // AnswerSet

	Grade         int              `json:"grade" gorm:"not null"`
	MaxPoints     int              `json:"max_points" gorm:"not null"`
	SubmittedAt   time.Time        `json:"submitted_at" gorm:"not null"`
	Status        SubmissionStatus `json:"status" gorm:"not null;size:16"`
	AutoSubmitted bool             `json:"auto_submitted" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Submission) TableName() string {
	return "submissions"
}

// DecodeAnswers unmarshals the stored answer set.
func (s *Submission) DecodeAnswers() (AnswerSet, error) {
	return DecodeAnswerSet(s.Answers)
}
