package models

import (
	"errors"
	"fmt"
	"time"
)

const (
	SessionStatusInProgress = "in_progress"
	SessionStatusCompleted  = "completed"
)

// ErrSessionCompleted rejects reads and submissions against a session
// that has already reached its terminal state.
var ErrSessionCompleted = errors.New("exam session already completed")

// SessionCorruptedError flags an index outside the valid range. Normal
// transitions can never produce it; seeing one means the stored session
// is damaged and must not be trusted for further submissions.
type SessionCorruptedError struct {
	SessionID string
	Index     int
	Length    int
}

func (e *SessionCorruptedError) Error() string {
	return fmt.Sprintf("session %s corrupted: index %d outside [0,%d]", e.SessionID, e.Index, e.Length)
}

// QuestionMismatchError rejects a submission naming a question other
// than the one the session currently points at, which is what a stale
// or replayed form submission looks like.
type QuestionMismatchError struct {
	Submitted string
	Expected  string
}

func (e *QuestionMismatchError) Error() string {
	return fmt.Sprintf("submitted answer for question %s, current question is %s", e.Submitted, e.Expected)
}

type AnswerRecord struct {
	QuestionID      string    `bson:"question_id" json:"question_id"`
	SubmittedOption string    `bson:"submitted_option" json:"submitted_option"`
	IsCorrect       bool      `bson:"is_correct" json:"is_correct"`
	ElapsedSeconds  int       `bson:"elapsed_seconds" json:"elapsed_seconds"`
	AnsweredAt      time.Time `bson:"answered_at" json:"answered_at"`
}

// ExamSession is one taker's pass through a fixed, pre-selected question
// sequence. The session value exclusively owns its answers and index;
// nothing else in the process tracks per-taker progress.
type ExamSession struct {
	ID                  string         `bson:"_id,omitempty" json:"id"`
	Category            string         `bson:"category" json:"category"`
	QuestionType        QuestionType   `bson:"question_type" json:"question_type"`
	Year                int            `bson:"year,omitempty" json:"year,omitempty"`
	SelectedQuestionIDs []string       `bson:"selected_question_ids" json:"selected_question_ids"`
	CurrentIndex        int            `bson:"current_index" json:"current_index"`
	Answers             []AnswerRecord `bson:"answers" json:"answers"`
	Status              string         `bson:"status" json:"status"`
	CreatedAt           time.Time      `bson:"created_at" json:"created_at"`
}

func (s *ExamSession) Completed() bool {
	return s.Status == SessionStatusCompleted
}

func (s *ExamSession) Length() int {
	return len(s.SelectedQuestionIDs)
}

// CurrentQuestionID returns the id of the question the session points
// at. The id for a given index never changes: the selection order is
// fixed at creation, so refreshing the current-question view is stable.
func (s *ExamSession) CurrentQuestionID() (string, error) {
	if s.Completed() {
		return "", ErrSessionCompleted
	}
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.SelectedQuestionIDs) {
		return "", &SessionCorruptedError{SessionID: s.ID, Index: s.CurrentIndex, Length: len(s.SelectedQuestionIDs)}
	}
	return s.SelectedQuestionIDs[s.CurrentIndex], nil
}

// RecordedAnswer reports whether questionID is the most recently
// answered question and, if so, returns its stored record. A duplicate
// submission (double-click, replayed form) lands here and must be
// answered with the original record, never scored a second time.
func (s *ExamSession) RecordedAnswer(questionID string) (AnswerRecord, bool) {
	last := s.CurrentIndex - 1
	if last < 0 || last >= len(s.Answers) {
		return AnswerRecord{}, false
	}
	if s.Answers[last].QuestionID != questionID {
		return AnswerRecord{}, false
	}
	return s.Answers[last], true
}

// Record appends the answer for the current question and advances the
// index by exactly one, completing the session when the last question
// has been answered. The caller is expected to have evaluated the
// answer already; Record only enforces the state machine.
func (s *ExamSession) Record(rec AnswerRecord) error {
	if s.Completed() {
		return ErrSessionCompleted
	}
	current, err := s.CurrentQuestionID()
	if err != nil {
		return err
	}
	if rec.QuestionID != current {
		return &QuestionMismatchError{Submitted: rec.QuestionID, Expected: current}
	}
	if len(s.Answers) != s.CurrentIndex {
		return &SessionCorruptedError{SessionID: s.ID, Index: s.CurrentIndex, Length: len(s.SelectedQuestionIDs)}
	}
	s.Answers = append(s.Answers, rec)
	s.CurrentIndex++
	if s.CurrentIndex == len(s.SelectedQuestionIDs) {
		s.Status = SessionStatusCompleted
	}
	return nil
}

// Clone returns a deep copy so that stores can hand out sessions
// without sharing the owned slices.
func (s *ExamSession) Clone() *ExamSession {
	out := *s
	out.SelectedQuestionIDs = make([]string, len(s.SelectedQuestionIDs))
	copy(out.SelectedQuestionIDs, s.SelectedQuestionIDs)
	out.Answers = make([]AnswerRecord, len(s.Answers))
	copy(out.Answers, s.Answers)
	return &out
}
