package validator

import (
	"fmt"

	"github.com/SAP-F-2025/assignment-engine/internal/grading"
	"github.com/SAP-F-2025/assignment-engine/internal/models"
)

// QuestionValidator checks question content at assignment-load time. An
// unknown question type is a hard failure here: silently scoring it zero
// would short the learner's grade.
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateAssignment validates every question of an assignment.
func (v *QuestionValidator) ValidateAssignment(questions []models.Question) error {
	for i := range questions {
		if err := v.ValidateQuestion(&questions[i]); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}

// ValidateQuestion validates a single question's structure for its type.
func (v *QuestionValidator) ValidateQuestion(q *models.Question) error {
	if _, err := grading.ForType(q.Type); err != nil {
		return err
	}

	if q.Text == "" {
		return fmt.Errorf("question text is required")
	}
	if q.Points < 0 {
		return fmt.Errorf("question points cannot be negative")
	}

	switch q.Type {
	case models.MultipleChoice:
		return v.validateChoice(q, 2)
	case models.TrueFalse:
		return v.validateChoice(q, 2)
	case models.Ordering:
		if len(q.Items) < 2 {
			return fmt.Errorf("ordering question must define at least 2 items")
		}
	case models.Matching:
		if len(q.Pairs) < 1 {
			return fmt.Errorf("matching question must define at least 1 pair")
		}
		for i, pair := range q.Pairs {
			if pair.Left == "" || pair.Right == "" {
				return fmt.Errorf("matching pair %d has an empty side", i)
			}
		}
	case models.Categorize:
		if len(q.Categories) < 2 {
			return fmt.Errorf("categorize question must define at least 2 categories")
		}
		total := 0
		for i, category := range q.Categories {
			if category.Name == "" {
				return fmt.Errorf("category %d has no name", i)
			}
			total += len(category.Items)
		}
		if total == 0 {
			return fmt.Errorf("categorize question has no items")
		}
	case models.FillBlank, models.WordScramble, models.ErrorCorrection, models.Translation:
		if q.CorrectText == "" {
			return fmt.Errorf("%s question must define correct_text", q.Type)
		}
	case models.SentenceBuilder:
		if q.CorrectSentence == "" {
			return fmt.Errorf("sentence_builder question must define correct_sentence")
		}
	case models.Essay, models.ShortAnswer:
		// Manually graded; no answer key to check.
	}
	return nil
}

func (v *QuestionValidator) validateChoice(q *models.Question, minOptions int) error {
	if len(q.Options) < minOptions {
		return fmt.Errorf("%s question must have at least %d options", q.Type, minOptions)
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return fmt.Errorf("correct_answer index %d out of range", q.CorrectAnswer)
	}
	return nil
}
