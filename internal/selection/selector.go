// Package selection draws the fixed question set for a new exam
// session: category-pure, exact size, uniformly random without
// replacement. A filter shortfall is a typed failure — the selector
// never pads a set with questions from another category or paper.
package selection

import (
	"fmt"
	"math/rand"
	"time"

	"exam-service/internal/corpus"
	"exam-service/internal/models"
)

// InsufficientQuestionsError reports that the filter matched fewer
// questions than requested.
type InsufficientQuestionsError struct {
	Available int
	Requested int
}

func (e *InsufficientQuestionsError) Error() string {
	return fmt.Sprintf("insufficient questions: %d available, %d requested", e.Available, e.Requested)
}

// CategoryPurityViolationError reports a candidate whose category does
// not match the request. The repository filter should make this
// impossible; the selector still checks every candidate so that any
// upstream mapping drift surfaces here instead of in a served exam.
type CategoryPurityViolationError struct {
	Requested  string
	Found      string
	QuestionID string
}

func (e *CategoryPurityViolationError) Error() string {
	return fmt.Sprintf("category purity violation: question %s has category %q, requested %q",
		e.QuestionID, e.Found, e.Requested)
}

// Selector samples question ids from the corpus.
type Selector struct {
	repo *corpus.Repository
	rand *rand.Rand
}

func NewSelector(repo *corpus.Repository) *Selector {
	return &Selector{
		repo: repo,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Select returns count distinct question ids matching (category,
// questionType, year), in an order fixed once here and reused verbatim
// for the lifetime of the session built from it.
func (s *Selector) Select(category string, qtype models.QuestionType, year, count int) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("question count must be positive, got %d", count)
	}

	candidates := s.repo.GetByFilter(category, qtype, year)
	for _, q := range candidates {
		if q.Category != category {
			return nil, &CategoryPurityViolationError{
				Requested:  category,
				Found:      q.Category,
				QuestionID: q.ID,
			}
		}
	}

	if len(candidates) < count {
		return nil, &InsufficientQuestionsError{Available: len(candidates), Requested: count}
	}

	ids := make([]string, len(candidates))
	for i, q := range candidates {
		ids[i] = q.ID
	}
	s.rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids[:count], nil
}
