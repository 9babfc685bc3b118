package models

import "fmt"

// QuestionType distinguishes the common (basic) paper from the
// department-specific (specialist) paper of an exam year.
type QuestionType string

const (
	QuestionTypeBasic      QuestionType = "basic"
	QuestionTypeSpecialist QuestionType = "specialist"
)

// ParseQuestionType validates a raw question type string.
func ParseQuestionType(raw string) (QuestionType, error) {
	switch QuestionType(raw) {
	case QuestionTypeBasic, QuestionTypeSpecialist:
		return QuestionType(raw), nil
	}
	return "", fmt.Errorf("unknown question type %q", raw)
}

// OptionLabels is the closed label set every question must use.
var OptionLabels = []string{"A", "B", "C", "D"}

type Option struct {
	Label string `bson:"label" json:"label"`
	Text  string `bson:"text" json:"text"`
}

type Question struct {
	ID            string       `bson:"_id,omitempty" json:"id"`
	Category      string       `bson:"category" json:"category"`
	QuestionType  QuestionType `bson:"question_type" json:"question_type"`
	Year          int          `bson:"year,omitempty" json:"year,omitempty"`
	Prompt        string       `bson:"prompt" json:"prompt"`
	Options       []Option     `bson:"options" json:"options"`
	CorrectOption string       `bson:"correct_option" json:"correct_option"`
}

// PublicQuestion is the shape served to a taker mid-exam: the correct
// option never leaves the server before the answer is recorded.
type PublicQuestion struct {
	ID           string       `json:"id"`
	Category     string       `json:"category"`
	QuestionType QuestionType `json:"question_type"`
	Year         int          `json:"year,omitempty"`
	Prompt       string       `json:"prompt"`
	Options      []Option     `json:"options"`
}

func (q Question) Public() PublicQuestion {
	options := make([]Option, len(q.Options))
	copy(options, q.Options)
	return PublicQuestion{
		ID:           q.ID,
		Category:     q.Category,
		QuestionType: q.QuestionType,
		Year:         q.Year,
		Prompt:       q.Prompt,
		Options:      options,
	}
}

// Validate checks the structural invariants of a single question:
// all required fields present, exactly four options labeled A..D,
// the correct option drawn from that label set, and a year carried
// if and only if the question is a specialist one.
func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("question has no id")
	}
	if q.Category == "" {
		return fmt.Errorf("question %s has no category", q.ID)
	}
	if _, err := ParseQuestionType(string(q.QuestionType)); err != nil {
		return fmt.Errorf("question %s: %w", q.ID, err)
	}
	if q.QuestionType == QuestionTypeBasic && q.Year != 0 {
		return fmt.Errorf("question %s: basic question carries year %d", q.ID, q.Year)
	}
	if q.QuestionType == QuestionTypeSpecialist && q.Year == 0 {
		return fmt.Errorf("question %s: specialist question has no year", q.ID)
	}
	if q.Prompt == "" {
		return fmt.Errorf("question %s has no prompt", q.ID)
	}
	if len(q.Options) != len(OptionLabels) {
		return fmt.Errorf("question %s has %d options, want %d", q.ID, len(q.Options), len(OptionLabels))
	}
	for i, opt := range q.Options {
		if opt.Label != OptionLabels[i] {
			return fmt.Errorf("question %s: option %d labeled %q, want %q", q.ID, i, opt.Label, OptionLabels[i])
		}
		if opt.Text == "" {
			return fmt.Errorf("question %s: option %s has no text", q.ID, opt.Label)
		}
	}
	if !validLabel(q.CorrectOption) {
		return fmt.Errorf("question %s: correct option %q outside label set", q.ID, q.CorrectOption)
	}
	return nil
}

func validLabel(label string) bool {
	for _, l := range OptionLabels {
		if label == l {
			return true
		}
	}
	return false
}
