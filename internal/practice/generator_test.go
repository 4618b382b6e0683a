package practice

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/assignment-engine/internal/models"
)

func practiceFixture() []models.Question {
	return []models.Question{
		{
			ID: "q1", Type: models.MultipleChoice, Text: "Capital of France?", Points: 5,
			Options: []string{"London", "Paris", "Berlin"}, CorrectAnswer: 1,
		},
		{
			ID: "q2", Type: models.TrueFalse, Text: "The sky is green.", Points: 1,
			Options: []string{"True", "False"}, CorrectAnswer: 1,
		},
		{
			ID: "q3", Type: models.FillBlank, Text: "Water is H2_", Points: 3,
			CorrectText: "O",
		},
		{
			ID: "q4", Type: models.WordScramble, Text: "Unscramble", Points: 2,
			CorrectText: "planet",
		},
		{
			ID: "q5", Type: models.SentenceBuilder, Text: "Build the sentence", Points: 4,
			CorrectSentence: "The quick brown fox",
		},
		{
			ID: "q6", Type: models.Essay, Text: "Discuss.", Points: 10,
		},
		{
			ID: "q7", Type: models.Matching, Text: "Match animals to sounds", Points: 6,
			Pairs: []models.MatchPair{{Left: "dog", Right: "bark"}, {Left: "cat", Right: "meow"}},
		},
	}
}

func TestFlashcards_CoversSingleValueTypes(t *testing.T) {
	cards := Flashcards(practiceFixture())

	byID := map[string]models.Flashcard{}
	for _, card := range cards {
		byID[card.QuestionID] = card
	}

	assert.Equal(t, "Paris", byID["q1"].Answer)
	assert.Equal(t, "False", byID["q2"].Answer)
	assert.Equal(t, "O", byID["q3"].Answer)
	assert.Equal(t, "planet", byID["q4"].Answer)
	assert.Equal(t, "The quick brown fox", byID["q5"].Answer)

	// Essay and matching have no single canonical value.
	assert.NotContains(t, byID, "q6")
	assert.NotContains(t, byID, "q7")
}

func TestQuiz_UsesOnlyChoiceQuestions(t *testing.T) {
	items := Quiz(practiceFixture(), 42)

	require.Len(t, items, 2)
	for _, item := range items {
		assert.Contains(t, []string{"q1", "q2"}, item.QuestionID)
		assert.Contains(t, item.Options, item.CorrectOption)
	}
}

func TestQuiz_NoChoiceQuestionsMeansEmptyQuiz(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Type: models.Essay, Text: "Discuss.", Points: 10},
		{ID: "q2", Type: models.FillBlank, Text: "Blank", Points: 1, CorrectText: "x"},
	}
	assert.Empty(t, Quiz(questions, 42))
}

func TestQuiz_CappedAtTen(t *testing.T) {
	var questions []models.Question
	for i := 0; i < 25; i++ {
		questions = append(questions, models.Question{
			ID: fmt.Sprintf("q%d", i), Type: models.MultipleChoice,
			Text: fmt.Sprintf("Question %d", i), Points: 1,
			Options: []string{"a", "b"}, CorrectAnswer: 0,
		})
	}

	items := Quiz(questions, 7)
	assert.Len(t, items, QuizCap)
}

func TestQuiz_DeterministicPerSeed(t *testing.T) {
	questions := practiceFixture()

	first := Quiz(questions, 99)
	second := Quiz(questions, 99)
	assert.Equal(t, first, second)
}

func TestQuiz_SkipsMalformedChoiceQuestions(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Type: models.MultipleChoice, Text: "Broken", Points: 1,
			Options: []string{"a", "b"}, CorrectAnswer: 9},
	}
	assert.Empty(t, Quiz(questions, 1))
}

func TestExercises_OnePerGradableQuestion(t *testing.T) {
	exercises := Exercises("scope", practiceFixture())

	kinds := map[string]models.ExerciseKind{}
	for _, ex := range exercises {
		kinds[ex.QuestionID] = ex.Kind
	}

	assert.Equal(t, models.ExerciseChoice, kinds["q1"])
	assert.Equal(t, models.ExerciseChoice, kinds["q2"])
	assert.Equal(t, models.ExerciseText, kinds["q3"])
	assert.Equal(t, models.ExerciseScramble, kinds["q4"])
	assert.Equal(t, models.ExerciseSentence, kinds["q5"])
	assert.Equal(t, models.ExerciseMatching, kinds["q7"])

	// Essays have no mechanical exercise form.
	assert.NotContains(t, kinds, "q6")
}

func TestExercises_ScrambleContainsAllLetters(t *testing.T) {
	exercises := Exercises("scope", practiceFixture())

	for _, ex := range exercises {
		if ex.Kind != models.ExerciseScramble {
			continue
		}
		assert.Len(t, ex.Letters, len(ex.Answer))

		counts := map[string]int{}
		for _, letter := range ex.Letters {
			counts[letter]++
		}
		for _, r := range ex.Answer {
			counts[string(r)]--
		}
		for letter, count := range counts {
			assert.Zero(t, count, "letter %q count mismatch", letter)
		}
	}
}

func TestExercises_StablePerScope(t *testing.T) {
	questions := practiceFixture()

	first := Exercises("scope-a", questions)
	second := Exercises("scope-a", questions)
	assert.Equal(t, first, second)
}
