// Package grading scores submitted answers. One evaluator exists per
// question type; submit, auto-submit and review all go through the same
// registry so the stored grade and the review view can never disagree.
package grading

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/assignment-engine/internal/models"
)

var (
	// ErrUnknownQuestionType means the assignment carries a type no
	// evaluator is registered for. This is a data integrity failure and
	// must never be defaulted to a zero score.
	ErrUnknownQuestionType = errors.New("unknown question type")

	ErrInvalidQuestionContent = errors.New("invalid question content for type")
)

// Result is the outcome of evaluating one question.
type Result struct {
	PointsAwarded int `json:"points_awarded"`
	// Correct is nil when the answer is not mechanically gradable.
	Correct            *bool `json:"correct"`
	NeedsManualGrading bool  `json:"needs_manual_grading"`
}

// Evaluator computes correctness and points for one question type. A nil
// or absent answer is treated as incorrect/empty, never as an error.
type Evaluator interface {
	Evaluate(q *models.Question, answer json.RawMessage) (Result, error)
}

var registry = map[models.QuestionType]Evaluator{
	models.MultipleChoice:  choiceEvaluator{},
	models.TrueFalse:       choiceEvaluator{},
	models.FillBlank:       textEvaluator{expected: func(q *models.Question) string { return q.CorrectText }},
	models.WordScramble:    textEvaluator{expected: func(q *models.Question) string { return q.CorrectText }},
	models.ErrorCorrection: textEvaluator{expected: func(q *models.Question) string { return q.CorrectText }},
	models.Translation:     textEvaluator{expected: func(q *models.Question) string { return q.CorrectText }},
	models.SentenceBuilder: textEvaluator{expected: func(q *models.Question) string { return q.CorrectSentence }},
	models.Ordering:        orderingEvaluator{},
	models.Matching:        matchingEvaluator{},
	models.Categorize:      categorizeEvaluator{},
	models.Essay:           manualEvaluator{},
	models.ShortAnswer:     manualEvaluator{},
}

// ForType returns the evaluator registered for a question type.
func ForType(t models.QuestionType) (Evaluator, error) {
	ev, ok := registry[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuestionType, t)
	}
	return ev, nil
}

// Evaluate dispatches to the registered evaluator.
func Evaluate(q *models.Question, answer json.RawMessage) (Result, error) {
	ev, err := ForType(q.Type)
	if err != nil {
		return Result{}, err
	}
	return ev.Evaluate(q, answer)
}

func graded(q *models.Question, correct bool) Result {
	points := 0
	if correct {
		points = q.Points
	}
	return Result{PointsAwarded: points, Correct: &correct}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// choiceEvaluator grades multiple-choice and true-false questions by value
// equality against the correct option, so grading is unaffected by option
// reordering as long as CorrectAnswer tracks the moved option.
type choiceEvaluator struct{}

func (choiceEvaluator) Evaluate(q *models.Question, answer json.RawMessage) (Result, error) {
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return Result{}, fmt.Errorf("%w: correct_answer index %d out of range", ErrInvalidQuestionContent, q.CorrectAnswer)
	}
	if len(answer) == 0 {
		return graded(q, false), nil
	}
	selected, err := models.DecodeTextAnswer(answer)
	if err != nil {
		return graded(q, false), nil
	}
	return graded(q, selected == q.Options[q.CorrectAnswer]), nil
}

// textEvaluator grades free-text types by trimmed, lowercased equality.
// Exact match only; an empty answer never matches, even against an empty
// expected text.
type textEvaluator struct {
	expected func(q *models.Question) string
}

func (e textEvaluator) Evaluate(q *models.Question, answer json.RawMessage) (Result, error) {
	if len(answer) == 0 {
		return graded(q, false), nil
	}
	text, err := models.DecodeTextAnswer(answer)
	if err != nil {
		return graded(q, false), nil
	}
	normalized := normalize(text)
	if normalized == "" {
		return graded(q, false), nil
	}
	return graded(q, normalized == normalize(e.expected(q))), nil
}

// orderingEvaluator requires the submitted sequence to deep-equal the
// canonical item order. All or nothing.
type orderingEvaluator struct{}

func (orderingEvaluator) Evaluate(q *models.Question, answer json.RawMessage) (Result, error) {
	if len(answer) == 0 {
		return graded(q, false), nil
	}
	order, err := models.DecodeOrderingAnswer(answer)
	if err != nil {
		return graded(q, false), nil
	}
	if len(order) != len(q.Items) {
		return graded(q, false), nil
	}
	for i, item := range q.Items {
		if order[i] != item {
			return graded(q, false), nil
		}
	}
	return graded(q, true), nil
}

// matchingEvaluator requires every pair index to map to its own right
// value. A single wrong pair fails the whole question.
type matchingEvaluator struct{}

func (matchingEvaluator) Evaluate(q *models.Question, answer json.RawMessage) (Result, error) {
	if len(answer) == 0 {
		return graded(q, false), nil
	}
	matches, err := models.DecodeMatchingAnswer(answer)
	if err != nil {
		return graded(q, false), nil
	}
	for i, pair := range q.Pairs {
		if matches[i] != pair.Right {
			return graded(q, false), nil
		}
	}
	return graded(q, true), nil
}

// categorizeEvaluator flattens all categories' items into one global index
// space in declaration order; every global item index must map back to its
// originating category's index.
type categorizeEvaluator struct{}

func (categorizeEvaluator) Evaluate(q *models.Question, answer json.RawMessage) (Result, error) {
	if len(answer) == 0 {
		return graded(q, false), nil
	}
	placements, err := models.DecodeCategorizeAnswer(answer)
	if err != nil {
		return graded(q, false), nil
	}
	global := 0
	for catIndex, category := range q.Categories {
		for range category.Items {
			placed, ok := placements[global]
			if !ok || placed != catIndex {
				return graded(q, false), nil
			}
			global++
		}
	}
	return graded(q, true), nil
}

// manualEvaluator covers essay and short-answer questions: zero points,
// no correctness verdict, and a manual-grading flag the submission builder
// turns into a pending status.
type manualEvaluator struct{}

func (manualEvaluator) Evaluate(q *models.Question, answer json.RawMessage) (Result, error) {
	return Result{PointsAwarded: 0, Correct: nil, NeedsManualGrading: true}, nil
}
