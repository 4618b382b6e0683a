package grading

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/assignment-engine/internal/models"
)

func raw(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestForType_UnknownTypeFails(t *testing.T) {
	_, err := ForType(models.QuestionType("drag_and_drop"))
	assert.ErrorIs(t, err, ErrUnknownQuestionType)
}

func TestForType_CoversAllQuestionTypes(t *testing.T) {
	for _, qt := range models.AllQuestionTypes {
		_, err := ForType(qt)
		assert.NoError(t, err, "no evaluator registered for %s", qt)
	}
}

func TestChoiceEvaluator(t *testing.T) {
	q := &models.Question{
		Type:          models.MultipleChoice,
		Text:          "Capital of France?",
		Points:        5,
		Options:       []string{"London", "Paris", "Berlin"},
		CorrectAnswer: 1,
	}

	tests := []struct {
		name    string
		answer  json.RawMessage
		correct bool
	}{
		{"correct option", raw(t, "Paris"), true},
		{"wrong option", raw(t, "London"), false},
		{"value not in options", raw(t, "Madrid"), false},
		{"missing answer", nil, false},
		{"malformed payload", json.RawMessage(`{"not":"a string"}`), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(q, tt.answer)
			require.NoError(t, err)
			require.NotNil(t, res.Correct)
			assert.Equal(t, tt.correct, *res.Correct)
			if tt.correct {
				assert.Equal(t, q.Points, res.PointsAwarded)
			} else {
				assert.Zero(t, res.PointsAwarded)
			}
		})
	}
}

func TestChoiceEvaluator_GradingSurvivesOptionReorder(t *testing.T) {
	// Grading compares values, so the same selected value scores the same
	// no matter how the options were arranged on screen.
	original := &models.Question{
		Type:          models.MultipleChoice,
		Points:        3,
		Options:       []string{"London", "Paris", "Berlin"},
		CorrectAnswer: 1,
	}
	reordered := &models.Question{
		Type:          models.MultipleChoice,
		Points:        3,
		Options:       []string{"Paris", "Berlin", "London"},
		CorrectAnswer: 0,
	}

	for _, q := range []*models.Question{original, reordered} {
		res, err := Evaluate(q, raw(t, "Paris"))
		require.NoError(t, err)
		assert.Equal(t, 3, res.PointsAwarded)
	}
}

func TestChoiceEvaluator_BadCorrectAnswerIndex(t *testing.T) {
	q := &models.Question{
		Type:          models.TrueFalse,
		Points:        1,
		Options:       []string{"True", "False"},
		CorrectAnswer: 5,
	}
	_, err := Evaluate(q, raw(t, "True"))
	assert.ErrorIs(t, err, ErrInvalidQuestionContent)
}

func TestTextEvaluator(t *testing.T) {
	q := &models.Question{
		Type:        models.FillBlank,
		Points:      2,
		CorrectText: "Photosynthesis",
	}

	tests := []struct {
		name    string
		answer  json.RawMessage
		correct bool
	}{
		{"exact match", raw(t, "Photosynthesis"), true},
		{"case insensitive", raw(t, "photosynthesis"), true},
		{"surrounding whitespace trimmed", raw(t, "  Photosynthesis  "), true},
		{"near miss", raw(t, "Photosynthesys"), false},
		{"internal whitespace matters", raw(t, "Photo synthesis"), false},
		{"empty string", raw(t, ""), false},
		{"whitespace only", raw(t, "   "), false},
		{"missing answer", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(q, tt.answer)
			require.NoError(t, err)
			require.NotNil(t, res.Correct)
			assert.Equal(t, tt.correct, *res.Correct)
		})
	}
}

func TestTextEvaluator_EmptyNeverMatchesEmptyExpected(t *testing.T) {
	q := &models.Question{Type: models.Translation, Points: 2, CorrectText: ""}
	res, err := Evaluate(q, raw(t, ""))
	require.NoError(t, err)
	require.NotNil(t, res.Correct)
	assert.False(t, *res.Correct)
}

func TestSentenceBuilderUsesCorrectSentence(t *testing.T) {
	q := &models.Question{
		Type:            models.SentenceBuilder,
		Points:          4,
		CorrectSentence: "The quick brown fox",
	}
	res, err := Evaluate(q, raw(t, "the quick brown fox"))
	require.NoError(t, err)
	assert.Equal(t, 4, res.PointsAwarded)
}

func TestOrderingEvaluator(t *testing.T) {
	q := &models.Question{
		Type:   models.Ordering,
		Points: 6,
		Items:  []string{"first", "second", "third"},
	}

	tests := []struct {
		name    string
		answer  json.RawMessage
		correct bool
	}{
		{"exact order", raw(t, []string{"first", "second", "third"}), true},
		{"two swapped", raw(t, []string{"second", "first", "third"}), false},
		{"missing item", raw(t, []string{"first", "second"}), false},
		{"extra item", raw(t, []string{"first", "second", "third", "fourth"}), false},
		{"missing answer", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(q, tt.answer)
			require.NoError(t, err)
			require.NotNil(t, res.Correct)
			assert.Equal(t, tt.correct, *res.Correct)
			// All or nothing: never partial credit.
			assert.Contains(t, []int{0, q.Points}, res.PointsAwarded)
		})
	}
}

func TestMatchingEvaluator(t *testing.T) {
	q := &models.Question{
		Type:   models.Matching,
		Points: 6,
		Pairs: []models.MatchPair{
			{Left: "dog", Right: "bark"},
			{Left: "cat", Right: "meow"},
			{Left: "cow", Right: "moo"},
		},
	}

	tests := []struct {
		name    string
		answer  map[int]string
		correct bool
	}{
		{"all pairs correct", map[int]string{0: "bark", 1: "meow", 2: "moo"}, true},
		{"one pair wrong", map[int]string{0: "bark", 1: "moo", 2: "meow"}, false},
		{"one pair missing", map[int]string{0: "bark", 1: "meow"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(q, raw(t, tt.answer))
			require.NoError(t, err)
			require.NotNil(t, res.Correct)
			assert.Equal(t, tt.correct, *res.Correct)
			assert.Contains(t, []int{0, q.Points}, res.PointsAwarded)
		})
	}
}

func TestCategorizeEvaluator(t *testing.T) {
	// Global item indexes: 0=apple 1=banana 2=carrot 3=potato
	q := &models.Question{
		Type:   models.Categorize,
		Points: 4,
		Categories: []models.QuestionCategory{
			{Name: "Fruit", Items: []string{"apple", "banana"}},
			{Name: "Vegetable", Items: []string{"carrot", "potato"}},
		},
	}

	tests := []struct {
		name    string
		answer  map[int]int
		correct bool
	}{
		{"all placed correctly", map[int]int{0: 0, 1: 0, 2: 1, 3: 1}, true},
		{"one misplaced", map[int]int{0: 0, 1: 1, 2: 1, 3: 1}, false},
		{"one unplaced", map[int]int{0: 0, 1: 0, 2: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(q, raw(t, tt.answer))
			require.NoError(t, err)
			require.NotNil(t, res.Correct)
			assert.Equal(t, tt.correct, *res.Correct)
		})
	}
}

func TestManualEvaluator(t *testing.T) {
	for _, qt := range []models.QuestionType{models.Essay, models.ShortAnswer} {
		t.Run(string(qt), func(t *testing.T) {
			q := &models.Question{Type: qt, Points: 10}

			// Answered or not, manual types award nothing mechanically and
			// carry no correctness verdict.
			for _, answer := range []json.RawMessage{raw(t, "my essay text"), nil} {
				res, err := Evaluate(q, answer)
				require.NoError(t, err)
				assert.Zero(t, res.PointsAwarded)
				assert.Nil(t, res.Correct)
				assert.True(t, res.NeedsManualGrading)
			}
		})
	}
}
