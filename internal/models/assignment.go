package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Assignment is the teacher-authored unit a learner takes. TotalPoints is
// the producer's responsibility and must equal the sum of question points;
// the engine only uses it as the grading denominator.
type Assignment struct {
	ID          string     `json:"id" gorm:"primaryKey;size:64"`
	ClassID     string     `json:"class_id" gorm:"not null;size:64;index"`
	Title       string     `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description *string    `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	DueDate     *time.Time `json:"due_date"`
	TotalPoints int        `json:"total_points" gorm:"not null" validate:"min=0"`
	TimeLimit   int        `json:"time_limit" gorm:"default:0" validate:"min=0"` // minutes, 0 = unlimited

	Questions datatypes.JSON `json:"questions" gorm:"type:jsonb"` // []Question

	CreatedBy string         `json:"created_by" gorm:"size:64;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// DecodeQuestions unmarshals the stored question list. Structural
// validation (including the unknown-type hard failure) happens in the
// question validator, not here.
func (a *Assignment) DecodeQuestions() ([]Question, error) {
	if len(a.Questions) == 0 {
		return nil, nil
	}
	var questions []Question
	if err := json.Unmarshal(a.Questions, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode assignment questions: %w", err)
	}
	return questions, nil
}

// Timed reports whether the assignment enforces a time limit.
func (a *Assignment) Timed() bool {
	return a.TimeLimit > 0
}

// TimeLimitDuration returns the limit as a duration, zero when unlimited.
func (a *Assignment) TimeLimitDuration() time.Duration {
	return time.Duration(a.TimeLimit) * time.Minute
}
