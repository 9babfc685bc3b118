package models

import (
	"errors"
	"testing"
	"time"
)

func newTestSession(questionIDs ...string) *ExamSession {
	return &ExamSession{
		ID:                  "sess-1",
		Category:            "道路",
		QuestionType:        QuestionTypeSpecialist,
		Year:                2018,
		SelectedQuestionIDs: questionIDs,
		Answers:             []AnswerRecord{},
		Status:              SessionStatusInProgress,
		CreatedAt:           time.Now().UTC(),
	}
}

func TestSessionWalkToCompletion(t *testing.T) {
	s := newTestSession("q1", "q2", "q3")

	for i, want := range []string{"q1", "q2", "q3"} {
		id, err := s.CurrentQuestionID()
		if err != nil {
			t.Fatalf("step %d: CurrentQuestionID: %v", i, err)
		}
		if id != want {
			t.Fatalf("step %d: current question %s, want %s", i, id, want)
		}
		if err := s.Record(AnswerRecord{QuestionID: id, SubmittedOption: "A"}); err != nil {
			t.Fatalf("step %d: Record: %v", i, err)
		}
		if s.CurrentIndex != i+1 {
			t.Fatalf("step %d: index %d, want %d", i, s.CurrentIndex, i+1)
		}
	}

	if !s.Completed() {
		t.Error("session should be completed after answering every question")
	}
	if _, err := s.CurrentQuestionID(); !errors.Is(err, ErrSessionCompleted) {
		t.Errorf("CurrentQuestionID on completed session = %v, want ErrSessionCompleted", err)
	}
	if err := s.Record(AnswerRecord{QuestionID: "q3"}); !errors.Is(err, ErrSessionCompleted) {
		t.Errorf("Record on completed session = %v, want ErrSessionCompleted", err)
	}
}

func TestSessionQuestionMismatch(t *testing.T) {
	s := newTestSession("q1", "q2")

	err := s.Record(AnswerRecord{QuestionID: "q2"})
	var mismatch *QuestionMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Record out of order = %v, want QuestionMismatchError", err)
	}
	if mismatch.Expected != "q1" || mismatch.Submitted != "q2" {
		t.Errorf("mismatch = %+v, want expected q1, submitted q2", mismatch)
	}
	if s.CurrentIndex != 0 || len(s.Answers) != 0 {
		t.Error("rejected submission must not mutate the session")
	}
}

func TestSessionRecordedAnswer(t *testing.T) {
	s := newTestSession("q1", "q2")

	if _, ok := s.RecordedAnswer("q1"); ok {
		t.Error("no answer recorded yet, RecordedAnswer should report false")
	}

	rec := AnswerRecord{QuestionID: "q1", SubmittedOption: "B", IsCorrect: true, ElapsedSeconds: 12}
	if err := s.Record(rec); err != nil {
		t.Fatalf("Record: %v", err)
	}

	stored, ok := s.RecordedAnswer("q1")
	if !ok {
		t.Fatal("RecordedAnswer should find the answer just recorded")
	}
	if stored.SubmittedOption != "B" || !stored.IsCorrect || stored.ElapsedSeconds != 12 {
		t.Errorf("stored record %+v does not match submission", stored)
	}
	if _, ok := s.RecordedAnswer("q2"); ok {
		t.Error("q2 has not been answered, RecordedAnswer should report false")
	}
}

func TestSessionIndexMonotonic(t *testing.T) {
	s := newTestSession("q1", "q2")

	if err := s.Record(AnswerRecord{QuestionID: "q1"}); err != nil {
		t.Fatalf("Record q1: %v", err)
	}
	// A duplicate of q1 must not advance or rewind the index.
	if err := s.Record(AnswerRecord{QuestionID: "q1"}); err == nil {
		t.Fatal("re-recording q1 should fail, caller handles duplicates via RecordedAnswer")
	}
	if s.CurrentIndex != 1 {
		t.Errorf("index %d after duplicate rejection, want 1", s.CurrentIndex)
	}

	if err := s.Record(AnswerRecord{QuestionID: "q2"}); err != nil {
		t.Fatalf("Record q2: %v", err)
	}
	if s.CurrentIndex != len(s.SelectedQuestionIDs) {
		t.Errorf("final index %d, want %d", s.CurrentIndex, len(s.SelectedQuestionIDs))
	}
}

func TestSessionCorruptedIndex(t *testing.T) {
	s := newTestSession("q1", "q2")
	s.CurrentIndex = 7

	_, err := s.CurrentQuestionID()
	var corrupted *SessionCorruptedError
	if !errors.As(err, &corrupted) {
		t.Fatalf("CurrentQuestionID with bad index = %v, want SessionCorruptedError", err)
	}
	if corrupted.Index != 7 {
		t.Errorf("corrupted.Index = %d, want 7", corrupted.Index)
	}
}

func TestSessionClone(t *testing.T) {
	s := newTestSession("q1", "q2")
	if err := s.Record(AnswerRecord{QuestionID: "q1"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	clone := s.Clone()
	clone.SelectedQuestionIDs[0] = "other"
	clone.Answers[0].SubmittedOption = "D"

	if s.SelectedQuestionIDs[0] != "q1" {
		t.Error("clone shares SelectedQuestionIDs with the original")
	}
	if s.Answers[0].SubmittedOption == "D" {
		t.Error("clone shares Answers with the original")
	}
}
