package models

import (
	"encoding/json"
	"fmt"
)

// AnswerSet maps a question index (stable, 0-based, insertion order of the
// assignment's questions) to the raw submitted answer value. Absence of a
// key means the question was never answered. The value shape depends on the
// question type and is decoded by the matching evaluator.
type AnswerSet map[int]json.RawMessage

// Answered reports whether an answer value exists for the given index.
func (s AnswerSet) Answered(index int) bool {
	raw, ok := s[index]
	return ok && len(raw) > 0 && string(raw) != "null"
}

// DecodeAnswerSet parses a stored answer-set JSON blob.
func DecodeAnswerSet(data []byte) (AnswerSet, error) {
	if len(data) == 0 {
		return AnswerSet{}, nil
	}
	var set AnswerSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to decode answer set: %w", err)
	}
	return set, nil
}

// Per-type answer payloads. These mirror what the SPA submits: a bare
// string for free-text and choice types, a string list for ordering, and
// index-keyed maps for matching and categorize.

// DecodeTextAnswer handles free-text and choice answers.
func DecodeTextAnswer(raw json.RawMessage) (string, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", fmt.Errorf("answer is not a string: %w", err)
	}
	return text, nil
}

// DecodeOrderingAnswer handles the submitted sequence for ordering questions.
func DecodeOrderingAnswer(raw json.RawMessage) ([]string, error) {
	var order []string
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("answer is not a string list: %w", err)
	}
	return order, nil
}

// DecodeMatchingAnswer handles pair-index -> chosen right value maps.
func DecodeMatchingAnswer(raw json.RawMessage) (map[int]string, error) {
	var matches map[int]string
	if err := json.Unmarshal(raw, &matches); err != nil {
		return nil, fmt.Errorf("answer is not an index-to-value map: %w", err)
	}
	return matches, nil
}

// DecodeCategorizeAnswer handles item-index -> category-index maps.
func DecodeCategorizeAnswer(raw json.RawMessage) (map[int]int, error) {
	var placements map[int]int
	if err := json.Unmarshal(raw, &placements); err != nil {
		return nil, fmt.Errorf("answer is not an index-to-index map: %w", err)
	}
	return placements, nil
}
