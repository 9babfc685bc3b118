package repository

import (
	"context"
	"errors"
	"testing"

	"exam-service/internal/models"
)

func storedSession(id string) *models.ExamSession {
	return &models.ExamSession{
		ID:                  id,
		Category:            "道路",
		QuestionType:        models.QuestionTypeSpecialist,
		Year:                2018,
		SelectedQuestionIDs: []string{"q1", "q2"},
		Answers:             []models.AnswerRecord{},
		Status:              models.SessionStatusInProgress,
	}
}

func TestMemoryStoreCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	session := storedSession("s1")
	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Create(ctx, session); !errors.Is(err, ErrSessionExists) {
		t.Errorf("second Create = %v, want ErrSessionExists", err)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != "s1" || len(got.SelectedQuestionIDs) != 2 {
		t.Errorf("Get returned %+v", got)
	}

	// The store must not share state with callers.
	got.SelectedQuestionIDs[0] = "tampered"
	again, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if again.SelectedQuestionIDs[0] != "q1" {
		t.Error("mutating a returned session leaked into the store")
	}

	if _, err := store.Get(ctx, "absent"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get(absent) = %v, want ErrSessionNotFound", err)
	}
}

func TestMemoryStoreReplaceCAS(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Create(ctx, storedSession("s1")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Two readers pick up the session at index 0 and both try to apply
	// an answer. The first swap wins; the second is an index conflict.
	first, _ := store.Get(ctx, "s1")
	second, _ := store.Get(ctx, "s1")

	first.Answers = append(first.Answers, models.AnswerRecord{QuestionID: "q1", SubmittedOption: "A"})
	first.CurrentIndex = 1
	if err := store.Replace(ctx, first, 0); err != nil {
		t.Fatalf("first Replace: %v", err)
	}

	second.Answers = append(second.Answers, models.AnswerRecord{QuestionID: "q1", SubmittedOption: "B"})
	second.CurrentIndex = 1
	if err := store.Replace(ctx, second, 0); !errors.Is(err, ErrIndexConflict) {
		t.Fatalf("second Replace = %v, want ErrIndexConflict", err)
	}

	stored, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Answers[0].SubmittedOption != "A" {
		t.Errorf("stored answer %q, want the first writer's A", stored.Answers[0].SubmittedOption)
	}
}

func TestMemoryStoreReplaceMissingSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.Replace(ctx, storedSession("ghost"), 0)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Replace(ghost) = %v, want ErrSessionNotFound", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Create(ctx, storedSession("s1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after Delete = %v, want ErrSessionNotFound", err)
	}
	if err := store.Delete(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second Delete = %v, want ErrSessionNotFound", err)
	}
}
