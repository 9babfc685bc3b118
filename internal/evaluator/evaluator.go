// Package evaluator normalizes raw submitted answers into the canonical
// option label set and scores them against a question. Normalization is
// a closed table: an input it does not recognize is an invalid answer,
// never silently coerced to some option.
package evaluator

import (
	"fmt"
	"strings"

	"exam-service/internal/models"
)

// InvalidAnswerError rejects input that does not denote one of the four
// options. The caller should re-prompt; nothing is scored or recorded.
type InvalidAnswerError struct {
	Raw string
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("invalid answer %q: expected one of A-D or 1-4", e.Raw)
}

// canonical folds every accepted spelling of an option to its label:
// ASCII letters in either case, their full-width forms (exam takers on
// Japanese IMEs routinely submit Ａ or ａ), and the option numbers 1-4
// in ASCII or full-width digits.
var canonical = map[string]string{
	"A": "A", "a": "A", "Ａ": "A", "ａ": "A", "1": "A", "１": "A",
	"B": "B", "b": "B", "Ｂ": "B", "ｂ": "B", "2": "B", "２": "B",
	"C": "C", "c": "C", "Ｃ": "C", "ｃ": "C", "3": "C", "３": "C",
	"D": "D", "d": "D", "Ｄ": "D", "ｄ": "D", "4": "D", "４": "D",
}

// Normalize maps a raw submission to one of {A,B,C,D}. It is idempotent
// over its own output.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if label, ok := canonical[trimmed]; ok {
		return label, nil
	}
	return "", &InvalidAnswerError{Raw: raw}
}

// Verdict is the outcome of scoring one normalized answer.
type Verdict struct {
	IsCorrect     bool
	CorrectOption string
}

// Evaluate scores an already-normalized answer against a question.
func Evaluate(q models.Question, normalized string) Verdict {
	return Verdict{
		IsCorrect:     normalized == q.CorrectOption,
		CorrectOption: q.CorrectOption,
	}
}
