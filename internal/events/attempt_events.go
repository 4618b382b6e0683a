package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/assignment-engine/internal/models"
)

// EventType identifies the attempt lifecycle events this engine publishes.
type EventType string

const (
	EventAttemptStarted       EventType = "attempt.started"
	EventAttemptSubmitted     EventType = "attempt.submitted"
	EventAttemptAutoSubmitted EventType = "attempt.auto_submitted"

	EventManualGradingRequired EventType = "grading.manual_required"
)

// AttemptEvent is the envelope for all published events.
type AttemptEvent struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Data      interface{} `json:"data"`
}

const (
	eventSource  = "assignment-engine"
	eventVersion = "1.0"
)

// NewAttemptEvent wraps a payload in the standard envelope.
func NewAttemptEvent(eventType EventType, data interface{}) *AttemptEvent {
	return &AttemptEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

// Event payloads

type AttemptStartedEvent struct {
	AssignmentID string    `json:"assignment_id"`
	ClassID      string    `json:"class_id"`
	StudentID    string    `json:"student_id"`
	StartedAt    time.Time `json:"started_at"`
	TimeLimit    int       `json:"time_limit"` // minutes, 0 = unlimited
	Resumed      bool      `json:"resumed"`
}

type AttemptSubmittedEvent struct {
	SubmissionID  string                  `json:"submission_id"`
	AssignmentID  string                  `json:"assignment_id"`
	ClassID       string                  `json:"class_id"`
	StudentID     string                  `json:"student_id"`
	Grade         int                     `json:"grade"`
	MaxPoints     int                     `json:"max_points"`
	Status        models.SubmissionStatus `json:"status"`
	AutoSubmitted bool                    `json:"auto_submitted"`
	SubmittedAt   time.Time               `json:"submitted_at"`
}

type ManualGradingRequiredEvent struct {
	SubmissionID    string `json:"submission_id"`
	AssignmentID    string `json:"assignment_id"`
	ClassID         string `json:"class_id"`
	StudentID       string `json:"student_id"`
	QuestionIndexes []int  `json:"question_indexes"`
}
