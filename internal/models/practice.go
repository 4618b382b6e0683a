package models

// Practice material is generated per session from a learner's visible
// question corpus. It is never graded and never persisted as a Submission.

// Flashcard pairs a prompt with its single canonical answer.
type Flashcard struct {
	QuestionID string `json:"question_id"`
	Prompt     string `json:"prompt"`
	Answer     string `json:"answer"`
}

// QuizItem is one multiple-choice/true-false question reshuffled for an
// ungraded practice quiz.
type QuizItem struct {
	QuestionID    string   `json:"question_id"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correct_option"`
}

type ExerciseKind string

const (
	ExerciseChoice     ExerciseKind = "choice"
	ExerciseScramble   ExerciseKind = "scramble"
	ExerciseSentence   ExerciseKind = "sentence"
	ExerciseOrdering   ExerciseKind = "ordering"
	ExerciseMatching   ExerciseKind = "matching"
	ExerciseCategorize ExerciseKind = "categorize"
	ExerciseText       ExerciseKind = "text"
)

// Exercise is one interactive practice item. Scrambled fields are produced
// by the seeded permutation generator so a re-render within a session shows
// the same arrangement.
type Exercise struct {
	QuestionID string       `json:"question_id"`
	Kind       ExerciseKind `json:"kind"`
	Prompt     string       `json:"prompt"`

	// Scrambled presentation material, per kind.
	Letters []string `json:"letters,omitempty"` // scramble: shuffled letters
	Words   []string `json:"words,omitempty"`   // sentence: shuffled words
	Items   []string `json:"items,omitempty"`   // ordering/categorize: shuffled items
	Options []string `json:"options,omitempty"` // choice: shuffled options
	Lefts   []string `json:"lefts,omitempty"`   // matching: left column in order
	Rights  []string `json:"rights,omitempty"`  // matching: shuffled right column

	Categories []string `json:"categories,omitempty"` // categorize: category names

	// Solution the SPA checks locally; practice results are never recorded.
	Answer string `json:"answer,omitempty"`
}
