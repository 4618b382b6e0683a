package grading

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/SAP-F-2025/assignment-engine/internal/errors"
	"github.com/SAP-F-2025/assignment-engine/internal/models"
)

// QuestionResult is one question's evaluation inside a built or reviewed
// submission.
type QuestionResult struct {
	Index              int    `json:"index"`
	QuestionID         string `json:"question_id"`
	PointsAwarded      int    `json:"points_awarded"`
	PointsPossible     int    `json:"points_possible"`
	Correct            *bool  `json:"correct"`
	NeedsManualGrading bool   `json:"needs_manual_grading"`
	Answered           bool   `json:"answered"`
}

// Build assembles a finalized submission by running the evaluator registry
// over every question.
//
// The completeness check applies only to the manual-submit path: a learner
// pressing submit with unanswered questions gets a validation failure and
// no submission. The auto-submit path grades whatever subset of answers
// exists, since the contract on expiry is "submit what you have".
func Build(
	assignment *models.Assignment,
	questions []models.Question,
	answers models.AnswerSet,
	student models.StudentIdentity,
	autoSubmitted bool,
	now time.Time,
) (*models.Submission, []QuestionResult, error) {
	if !autoSubmitted {
		if verrs := validateComplete(questions, answers); len(verrs) > 0 {
			return nil, nil, verrs
		}
	}

	results, grade, pending, err := evaluateAll(questions, answers)
	if err != nil {
		return nil, nil, err
	}

	if grade > assignment.TotalPoints {
		grade = assignment.TotalPoints
	}

	status := models.SubmissionGraded
	if pending {
		status = models.SubmissionPending
	}

	encoded, err := json.Marshal(answers)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode answer set: %w", err)
	}

	submission := &models.Submission{
		ID:            uuid.NewString(),
		AssignmentID:  assignment.ID,
		ClassID:       assignment.ClassID,
		StudentID:     student.ID,
		StudentName:   student.Name,
		Answers:       encoded,
		Grade:         grade,
		MaxPoints:     assignment.TotalPoints,
		SubmittedAt:   now,
		Status:        status,
		AutoSubmitted: autoSubmitted,
	}
	return submission, results, nil
}

// Review re-runs the evaluators over a stored submission's answer set.
// Because it shares the registry with Build, the review view reproduces
// the stored grade exactly.
func Review(questions []models.Question, submission *models.Submission) ([]QuestionResult, int, error) {
	answers, err := submission.DecodeAnswers()
	if err != nil {
		return nil, 0, err
	}
	results, grade, _, err := evaluateAll(questions, answers)
	if err != nil {
		return nil, 0, err
	}
	if grade > submission.MaxPoints {
		grade = submission.MaxPoints
	}
	return results, grade, nil
}

func evaluateAll(questions []models.Question, answers models.AnswerSet) ([]QuestionResult, int, bool, error) {
	results := make([]QuestionResult, len(questions))
	grade := 0
	pending := false

	for i := range questions {
		q := &questions[i]
		var raw json.RawMessage
		if answers.Answered(i) {
			raw = answers[i]
		}
		res, err := Evaluate(q, raw)
		if err != nil {
			return nil, 0, false, fmt.Errorf("question %d: %w", i, err)
		}
		grade += res.PointsAwarded
		if res.NeedsManualGrading {
			pending = true
		}
		results[i] = QuestionResult{
			Index:              i,
			QuestionID:         q.ID,
			PointsAwarded:      res.PointsAwarded,
			PointsPossible:     q.Points,
			Correct:            res.Correct,
			NeedsManualGrading: res.NeedsManualGrading,
			Answered:           answers.Answered(i),
		}
	}
	return results, grade, pending, nil
}

func validateComplete(questions []models.Question, answers models.AnswerSet) apperrors.ValidationErrors {
	var verrs apperrors.ValidationErrors
	for i := range questions {
		if !answers.Answered(i) {
			verrs = append(verrs, *apperrors.NewValidationError(
				"answers."+strconv.Itoa(i), "question is unanswered", nil))
		}
	}
	return verrs
}
