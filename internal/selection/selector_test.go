package selection

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"exam-service/internal/corpus"
	"exam-service/internal/models"
)

type fixtureSource struct {
	records []corpus.Record
}

func (s *fixtureSource) Records(ctx context.Context) ([]corpus.Record, error) {
	return s.records, nil
}

func specialistRecord(id, category string, year int) corpus.Record {
	return corpus.Record{
		ID:           id,
		Category:     category,
		QuestionType: "specialist",
		Year:         fmt.Sprintf("%d", year),
		Prompt:       "設問 " + id,
		OptionA:      "ア", OptionB: "イ", OptionC: "ウ", OptionD: "エ",
		CorrectOption: "A",
	}
}

func fixtureRepository(t *testing.T) *corpus.Repository {
	t.Helper()
	records := make([]corpus.Record, 0, 52)
	for i := 0; i < 50; i++ {
		records = append(records, specialistRecord(fmt.Sprintf("road-%02d", i), "道路", 2018))
	}
	records = append(records,
		specialistRecord("tunnel-01", "トンネル", 2018),
		specialistRecord("tunnel-02", "トンネル", 2018),
	)
	repo := corpus.NewRepository(&fixtureSource{records: records})
	if err := repo.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return repo
}

func TestSelectReturnsExactDistinctCount(t *testing.T) {
	selector := NewSelector(fixtureRepository(t))

	ids, err := selector.Select("道路", models.QuestionTypeSpecialist, 2018, 10)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(ids) != 10 {
		t.Fatalf("selected %d ids, want 10", len(ids))
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate id %s in selection", id)
		}
		seen[id] = true
	}
}

func TestSelectIsCategoryPure(t *testing.T) {
	repo := fixtureRepository(t)
	selector := NewSelector(repo)

	for round := 0; round < 20; round++ {
		ids, err := selector.Select("道路", models.QuestionTypeSpecialist, 2018, 10)
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		for _, id := range ids {
			q, err := repo.FindByID(id)
			if err != nil {
				t.Fatalf("FindByID(%s): %v", id, err)
			}
			if q.Category != "道路" {
				t.Fatalf("selection mixed in %s from category %q", id, q.Category)
			}
		}
	}
}

func TestSelectInsufficientQuestionsNeverBackfills(t *testing.T) {
	selector := NewSelector(fixtureRepository(t))

	// 50 road questions exist for 2018, none for 2099; the shortfall
	// must surface as a typed failure, never as padding from another
	// year or category.
	_, err := selector.Select("道路", models.QuestionTypeSpecialist, 2099, 10)
	var insufficient *InsufficientQuestionsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Select = %v, want InsufficientQuestionsError", err)
	}
	if insufficient.Available != 0 || insufficient.Requested != 10 {
		t.Errorf("got (%d,%d), want (0,10)", insufficient.Available, insufficient.Requested)
	}

	_, err = selector.Select("トンネル", models.QuestionTypeSpecialist, 2018, 10)
	if !errors.As(err, &insufficient) {
		t.Fatalf("Select = %v, want InsufficientQuestionsError", err)
	}
	if insufficient.Available != 2 || insufficient.Requested != 10 {
		t.Errorf("got (%d,%d), want (2,10)", insufficient.Available, insufficient.Requested)
	}
}

func TestSelectRejectsNonPositiveCount(t *testing.T) {
	selector := NewSelector(fixtureRepository(t))

	for _, count := range []int{0, -1} {
		if _, err := selector.Select("道路", models.QuestionTypeSpecialist, 2018, count); err == nil {
			t.Errorf("Select with count %d should fail", count)
		}
	}
}
