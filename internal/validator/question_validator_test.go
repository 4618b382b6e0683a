package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SAP-F-2025/assignment-engine/internal/grading"
	"github.com/SAP-F-2025/assignment-engine/internal/models"
)

func TestValidateQuestion(t *testing.T) {
	v := NewQuestionValidator()

	tests := []struct {
		name     string
		question models.Question
		wantErr  bool
	}{
		{
			name: "valid multiple choice",
			question: models.Question{
				Type: models.MultipleChoice, Text: "Pick one", Points: 1,
				Options: []string{"a", "b"}, CorrectAnswer: 0,
			},
		},
		{
			name: "choice with one option",
			question: models.Question{
				Type: models.MultipleChoice, Text: "Pick one", Points: 1,
				Options: []string{"a"}, CorrectAnswer: 0,
			},
			wantErr: true,
		},
		{
			name: "choice with out of range answer index",
			question: models.Question{
				Type: models.TrueFalse, Text: "True?", Points: 1,
				Options: []string{"True", "False"}, CorrectAnswer: 3,
			},
			wantErr: true,
		},
		{
			name: "missing text",
			question: models.Question{
				Type: models.FillBlank, Points: 1, CorrectText: "x",
			},
			wantErr: true,
		},
		{
			name: "negative points",
			question: models.Question{
				Type: models.FillBlank, Text: "Blank", Points: -1, CorrectText: "x",
			},
			wantErr: true,
		},
		{
			name: "ordering needs two items",
			question: models.Question{
				Type: models.Ordering, Text: "Order", Points: 1, Items: []string{"only"},
			},
			wantErr: true,
		},
		{
			name: "matching pair with empty side",
			question: models.Question{
				Type: models.Matching, Text: "Match", Points: 1,
				Pairs: []models.MatchPair{{Left: "dog", Right: ""}},
			},
			wantErr: true,
		},
		{
			name: "categorize needs two categories",
			question: models.Question{
				Type: models.Categorize, Text: "Sort", Points: 1,
				Categories: []models.QuestionCategory{{Name: "only", Items: []string{"x"}}},
			},
			wantErr: true,
		},
		{
			name: "categorize without items",
			question: models.Question{
				Type: models.Categorize, Text: "Sort", Points: 1,
				Categories: []models.QuestionCategory{{Name: "a"}, {Name: "b"}},
			},
			wantErr: true,
		},
		{
			name: "fill blank without answer key",
			question: models.Question{
				Type: models.FillBlank, Text: "Blank", Points: 1,
			},
			wantErr: true,
		},
		{
			name: "sentence builder without sentence",
			question: models.Question{
				Type: models.SentenceBuilder, Text: "Build", Points: 1,
			},
			wantErr: true,
		},
		{
			name: "essay needs no answer key",
			question: models.Question{
				Type: models.Essay, Text: "Discuss.", Points: 10,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateQuestion(&tt.question)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAssignment_UnknownTypeIsHardFailure(t *testing.T) {
	v := NewQuestionValidator()
	questions := []models.Question{
		{Type: models.FillBlank, Text: "Blank", Points: 1, CorrectText: "x"},
		{Type: models.QuestionType("hotspot"), Text: "Click", Points: 1},
	}

	err := v.ValidateAssignment(questions)
	assert.ErrorIs(t, err, grading.ErrUnknownQuestionType)
	assert.ErrorContains(t, err, "question 1")
}
