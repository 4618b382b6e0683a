package models

type QuestionType string

const (
	MultipleChoice  QuestionType = "multiple_choice"
	TrueFalse       QuestionType = "true_false"
	FillBlank       QuestionType = "fill_blank"
	ShortAnswer     QuestionType = "short_answer"
	Essay           QuestionType = "essay"
	Ordering        QuestionType = "ordering"
	Matching        QuestionType = "matching"
	WordScramble    QuestionType = "word_scramble"
	SentenceBuilder QuestionType = "sentence_builder"
	Categorize      QuestionType = "categorize"
	ErrorCorrection QuestionType = "error_correction"
	Translation     QuestionType = "translation"
)

// AllQuestionTypes lists every type the engine can grade. Exactly one
// evaluator is registered per entry; a type outside this list fails at
// assignment load, never at grading time.
var AllQuestionTypes = []QuestionType{
	MultipleChoice,
	TrueFalse,
	FillBlank,
	ShortAnswer,
	Essay,
	Ordering,
	Matching,
	WordScramble,
	SentenceBuilder,
	Categorize,
	ErrorCorrection,
	Translation,
}

// RequiresManualGrading reports whether answers of this type cannot be
// mechanically scored.
func (t QuestionType) RequiresManualGrading() bool {
	return t == Essay || t == ShortAnswer
}

type MatchPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type QuestionCategory struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// Question is authored by the teacher-side collaborator and read-only to
// this engine. Type-specific fields are populated per variant; the rest
// stay empty.
type Question struct {
	ID     string       `json:"id"`
	Type   QuestionType `json:"type" validate:"required,question_type"`
	Text   string       `json:"text" validate:"required"`
	Points int          `json:"points" validate:"min=0"`

	// Choice types
	Options       []string `json:"options,omitempty"`
	CorrectAnswer int      `json:"correct_answer,omitempty"` // index into Options

	// Ordering: canonical sequence
	Items []string `json:"items,omitempty"`

	// Matching
	Pairs []MatchPair `json:"pairs,omitempty"`

	// Categorize
	Categories []QuestionCategory `json:"categories,omitempty"`

	// Free-text types
	CorrectText     string `json:"correct_text,omitempty"`
	CorrectSentence string `json:"correct_sentence,omitempty"`
	ErrorSentence   string `json:"error_sentence,omitempty"`
	SourceText      string `json:"source_text,omitempty"`
}
