// Package corpus loads and indexes the question corpus. The loaded
// snapshot is immutable; a refresh builds a complete replacement and
// swaps it in, so readers never observe a partially loaded corpus.
package corpus

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"

	"exam-service/internal/evaluator"
	"exam-service/internal/models"
)

// DataLoadError is fatal: the source was unreadable or yielded no
// usable questions. A corpus that loads zero questions must abort
// startup, not serve an empty exam.
type DataLoadError struct {
	Reason string
	Err    error
}

func (e *DataLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corpus load failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("corpus load failed: %s", e.Reason)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// QuestionNotFoundError reports a lookup for an id absent from the
// loaded snapshot.
type QuestionNotFoundError struct {
	ID string
}

func (e *QuestionNotFoundError) Error() string {
	return fmt.Sprintf("question %s not found in corpus", e.ID)
}

// SnapshotCheck is run against a freshly built snapshot's category set
// before it replaces the served one. Failing the check discards the
// candidate snapshot and keeps the current one.
type SnapshotCheck func(categories []string) error

type filterKey struct {
	category string
	qtype    models.QuestionType
	year     int
}

type snapshot struct {
	byID       map[string]models.Question
	byFilter   map[filterKey][]string
	categories []string
	loaded     int
	skipped    int
}

// Repository holds the indexed corpus snapshot shared read-only by all
// sessions.
type Repository struct {
	source Source

	mu   sync.RWMutex
	snap *snapshot
}

func NewRepository(source Source) *Repository {
	return &Repository{source: source}
}

// Load performs the initial corpus load.
func (r *Repository) Load(ctx context.Context) error {
	return r.Refresh(ctx, nil)
}

// Refresh rebuilds the snapshot from the source. A single malformed
// record is skipped with a logged warning; zero usable records is a
// DataLoadError. When a check is given, the new snapshot is only
// installed if the check passes.
func (r *Repository) Refresh(ctx context.Context, check SnapshotCheck) error {
	records, err := r.source.Records(ctx)
	if err != nil {
		return &DataLoadError{Reason: "source unreadable", Err: err}
	}

	snap := &snapshot{
		byID:     make(map[string]models.Question, len(records)),
		byFilter: make(map[filterKey][]string),
	}
	for _, rec := range records {
		q, err := buildQuestion(rec)
		if err != nil {
			snap.skipped++
			log.Printf("corpus: skipping malformed record %q: %v", rec.ID, err)
			continue
		}
		if _, dup := snap.byID[q.ID]; dup {
			snap.skipped++
			log.Printf("corpus: skipping duplicate question id %q", q.ID)
			continue
		}
		snap.byID[q.ID] = q
		key := filterKey{category: q.Category, qtype: q.QuestionType, year: q.Year}
		snap.byFilter[key] = append(snap.byFilter[key], q.ID)
		snap.loaded++
	}

	if snap.loaded == 0 {
		return &DataLoadError{Reason: fmt.Sprintf("no usable questions (%d records skipped)", snap.skipped)}
	}

	seen := make(map[string]bool)
	for _, q := range snap.byID {
		if !seen[q.Category] {
			seen[q.Category] = true
			snap.categories = append(snap.categories, q.Category)
		}
	}
	sort.Strings(snap.categories)

	if check != nil {
		if err := check(snap.categories); err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.snap = snap
	r.mu.Unlock()

	log.Printf("corpus: loaded %d questions across %d categories (%d records skipped)",
		snap.loaded, len(snap.categories), snap.skipped)
	return nil
}

func (r *Repository) snapshot() *snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// FindByID returns the question with the given id.
func (r *Repository) FindByID(id string) (models.Question, error) {
	snap := r.snapshot()
	if snap == nil {
		return models.Question{}, &QuestionNotFoundError{ID: id}
	}
	q, ok := snap.byID[id]
	if !ok {
		return models.Question{}, &QuestionNotFoundError{ID: id}
	}
	return q, nil
}

// GetByFilter returns every question matching (category, questionType,
// year) exactly. Year is 0 for basic questions.
func (r *Repository) GetByFilter(category string, qtype models.QuestionType, year int) []models.Question {
	snap := r.snapshot()
	if snap == nil {
		return nil
	}
	ids := snap.byFilter[filterKey{category: category, qtype: qtype, year: year}]
	out := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		out = append(out, snap.byID[id])
	}
	return out
}

// Categories returns the sorted canonical category set discovered from
// the loaded corpus.
func (r *Repository) Categories() []string {
	snap := r.snapshot()
	if snap == nil {
		return nil
	}
	out := make([]string, len(snap.categories))
	copy(out, snap.categories)
	return out
}

// Size returns the number of loaded questions.
func (r *Repository) Size() int {
	snap := r.snapshot()
	if snap == nil {
		return 0
	}
	return snap.loaded
}

func buildQuestion(rec Record) (models.Question, error) {
	year := 0
	rawYear := strings.TrimSpace(rec.Year)
	if rawYear != "" {
		parsed, err := strconv.Atoi(rawYear)
		if err != nil {
			return models.Question{}, fmt.Errorf("year %q is not a number", rec.Year)
		}
		year = parsed
	}

	// Historical corpus files record the correct option as a letter or
	// an option number; fold through the same table submissions use.
	correct, err := evaluator.Normalize(rec.CorrectOption)
	if err != nil {
		return models.Question{}, fmt.Errorf("correct option: %w", err)
	}

	q := models.Question{
		ID:           strings.TrimSpace(rec.ID),
		Category:     strings.TrimSpace(rec.Category),
		QuestionType: models.QuestionType(strings.TrimSpace(rec.QuestionType)),
		Year:         year,
		Prompt:       strings.TrimSpace(rec.Prompt),
		Options: []models.Option{
			{Label: "A", Text: strings.TrimSpace(rec.OptionA)},
			{Label: "B", Text: strings.TrimSpace(rec.OptionB)},
			{Label: "C", Text: strings.TrimSpace(rec.OptionC)},
			{Label: "D", Text: strings.TrimSpace(rec.OptionD)},
		},
		CorrectOption: correct,
	}
	if err := q.Validate(); err != nil {
		return models.Question{}, err
	}
	return q, nil
}
