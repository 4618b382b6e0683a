// Package practice builds ungraded study material from a learner's
// visible question corpus: flashcards, a capped random quiz and per-type
// interactive exercises. Practice never produces a Submission; nothing
// here is recorded beyond the current session.
package practice

import (
	"github.com/SAP-F-2025/assignment-engine/internal/models"
	"github.com/SAP-F-2025/assignment-engine/internal/shuffle"
)

// QuizCap bounds the random practice quiz size.
const QuizCap = 10

// Flashcards pairs prompts with answers for every question type carrying
// a single canonical correct value.
func Flashcards(questions []models.Question) []models.Flashcard {
	var cards []models.Flashcard
	for i := range questions {
		q := &questions[i]
		answer := canonicalAnswer(q)
		if answer == "" {
			continue
		}
		cards = append(cards, models.Flashcard{
			QuestionID: q.ID,
			Prompt:     q.Text,
			Answer:     answer,
		})
	}
	return cards
}

// Quiz picks the multiple-choice/true-false subset, reshuffled per session
// seed and capped at QuizCap items. Quiz results are never recorded as a
// grade.
func Quiz(questions []models.Question, sessionSeed int64) []models.QuizItem {
	var pool []models.QuizItem
	for i := range questions {
		q := &questions[i]
		if q.Type != models.MultipleChoice && q.Type != models.TrueFalse {
			continue
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			continue
		}
		pool = append(pool, models.QuizItem{
			QuestionID:    q.ID,
			Prompt:        q.Text,
			Options:       shuffle.Strings(q.Options, sessionSeed+int64(i)),
			CorrectOption: q.Options[q.CorrectAnswer],
		})
	}

	order := shuffle.Indexes(len(pool), sessionSeed)
	picked := make([]models.QuizItem, 0, QuizCap)
	for _, index := range order {
		picked = append(picked, pool[index])
		if len(picked) == QuizCap {
			break
		}
	}
	return picked
}

// Exercises constructs one interactive exercise per applicable question,
// using seeded shuffles keyed to the assignment scope so a session's
// re-renders are stable.
func Exercises(scope string, questions []models.Question) []models.Exercise {
	var exercises []models.Exercise
	for i := range questions {
		q := &questions[i]
		seed := shuffle.SeedFor(scope, i, q.Text)

		var ex models.Exercise
		switch q.Type {
		case models.MultipleChoice, models.TrueFalse:
			if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
				continue
			}
			ex = models.Exercise{
				Kind:    models.ExerciseChoice,
				Options: shuffle.Strings(q.Options, seed),
				Answer:  q.Options[q.CorrectAnswer],
			}
		case models.WordScramble:
			ex = models.Exercise{
				Kind:    models.ExerciseScramble,
				Letters: shuffle.Letters(q.CorrectText, seed),
				Answer:  q.CorrectText,
			}
		case models.SentenceBuilder:
			ex = models.Exercise{
				Kind:   models.ExerciseSentence,
				Words:  shuffle.Words(q.CorrectSentence, seed),
				Answer: q.CorrectSentence,
			}
		case models.Ordering:
			ex = models.Exercise{
				Kind:  models.ExerciseOrdering,
				Items: shuffle.Strings(q.Items, seed),
			}
		case models.Matching:
			lefts := make([]string, len(q.Pairs))
			rights := make([]string, len(q.Pairs))
			for j, pair := range q.Pairs {
				lefts[j] = pair.Left
				rights[j] = pair.Right
			}
			ex = models.Exercise{
				Kind:   models.ExerciseMatching,
				Lefts:  lefts,
				Rights: shuffle.Strings(rights, seed),
			}
		case models.Categorize:
			var names []string
			var pool []string
			for _, category := range q.Categories {
				names = append(names, category.Name)
				pool = append(pool, category.Items...)
			}
			ex = models.Exercise{
				Kind:       models.ExerciseCategorize,
				Categories: names,
				Items:      shuffle.Strings(pool, seed),
			}
		case models.FillBlank, models.ErrorCorrection, models.Translation:
			ex = models.Exercise{
				Kind:   models.ExerciseText,
				Answer: q.CorrectText,
			}
		default:
			// Essay and short-answer have no mechanical exercise form.
			continue
		}

		ex.QuestionID = q.ID
		ex.Prompt = q.Text
		exercises = append(exercises, ex)
	}
	return exercises
}

// canonicalAnswer returns the single correct value for flashcard-able
// types, empty otherwise.
func canonicalAnswer(q *models.Question) string {
	switch q.Type {
	case models.MultipleChoice, models.TrueFalse:
		if q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options) {
			return q.Options[q.CorrectAnswer]
		}
	case models.FillBlank, models.WordScramble, models.ErrorCorrection, models.Translation:
		return q.CorrectText
	case models.SentenceBuilder:
		return q.CorrectSentence
	}
	return ""
}
