// Package service wires the exam engine together behind the four
// operations the HTTP layer consumes: start an exam, fetch the current
// question, submit an answer, fetch the result.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"exam-service/internal/corpus"
	"exam-service/internal/department"
	"exam-service/internal/evaluator"
	"exam-service/internal/models"
	"exam-service/internal/repository"
	"exam-service/internal/result"
	"exam-service/internal/selection"

	"github.com/google/uuid"
)

var (
	ErrInvalidCount        = errors.New("question count must be between 1 and 100")
	ErrInvalidQuestionType = errors.New("question type must be basic or specialist")

	// ErrYearRequired / ErrUnexpectedYear enforce the year rule at the
	// request boundary: specialist papers are per-year, basic papers are
	// not.
	ErrYearRequired   = errors.New("specialist exams require a year")
	ErrUnexpectedYear = errors.New("basic exams do not take a year")
)

const maxQuestionCount = 100

// SubmissionResult is what one answer submission returns. Duplicate is
// set when the record was served from an earlier identical submission
// instead of being scored now.
type SubmissionResult struct {
	Record        models.AnswerRecord `json:"record"`
	CorrectOption string              `json:"correct_option"`
	Duplicate     bool                `json:"duplicate"`
}

// ExamService orchestrates resolver, selector, corpus and session store.
type ExamService struct {
	Corpus   *corpus.Repository
	Resolver *department.Resolver
	Selector *selection.Selector
	Sessions repository.SessionStore
}

func NewExamService(
	corpusRepo *corpus.Repository,
	resolver *department.Resolver,
	selector *selection.Selector,
	sessions repository.SessionStore,
) *ExamService {
	return &ExamService{
		Corpus:   corpusRepo,
		Resolver: resolver,
		Selector: selector,
		Sessions: sessions,
	}
}

// StartExam resolves the department, draws the question set and creates
// the session. When replacesSessionID names an earlier session it is
// deleted first, so an abandoned exam leaves no state behind.
func (s *ExamService) StartExam(
	ctx context.Context,
	departmentID string,
	qtype models.QuestionType,
	year int,
	count int,
	replacesSessionID string,
) (*models.ExamSession, error) {
	if count <= 0 || count > maxQuestionCount {
		return nil, ErrInvalidCount
	}
	if _, err := models.ParseQuestionType(string(qtype)); err != nil {
		return nil, ErrInvalidQuestionType
	}
	if qtype == models.QuestionTypeSpecialist && year == 0 {
		return nil, ErrYearRequired
	}
	if qtype == models.QuestionTypeBasic && year != 0 {
		return nil, ErrUnexpectedYear
	}

	category, err := s.Resolver.Resolve(departmentID)
	if err != nil {
		return nil, err
	}

	ids, err := s.Selector.Select(category, qtype, year, count)
	if err != nil {
		return nil, err
	}

	if replacesSessionID != "" {
		if err := s.Sessions.Delete(ctx, replacesSessionID); err != nil &&
			!errors.Is(err, repository.ErrSessionNotFound) {
			return nil, fmt.Errorf("replace previous session: %w", err)
		}
	}

	session := &models.ExamSession{
		ID:                  uuid.NewString(),
		Category:            category,
		QuestionType:        qtype,
		Year:                year,
		SelectedQuestionIDs: ids,
		CurrentIndex:        0,
		Answers:             []models.AnswerRecord{},
		Status:              models.SessionStatusInProgress,
		CreatedAt:           time.Now().UTC(),
	}
	if err := s.Sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetCurrentQuestion returns the question the session points at, in its
// public shape.
func (s *ExamService) GetCurrentQuestion(ctx context.Context, sessionID string) (models.PublicQuestion, int, error) {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return models.PublicQuestion{}, 0, err
	}
	id, err := session.CurrentQuestionID()
	if err != nil {
		var corrupted *models.SessionCorruptedError
		if errors.As(err, &corrupted) {
			log.Printf("severe: %v", corrupted)
		}
		return models.PublicQuestion{}, 0, err
	}
	q, err := s.Corpus.FindByID(id)
	if err != nil {
		return models.PublicQuestion{}, 0, err
	}
	return q.Public(), session.CurrentIndex, nil
}

// SubmitAnswer normalizes and scores one answer and advances the
// session by exactly one step. A duplicate submission for the question
// just answered returns the stored record unchanged. The write is a
// compare-and-swap on the progress index; losing the swap means another
// identical submission got there first, so the loser re-reads and
// returns that record.
func (s *ExamService) SubmitAnswer(
	ctx context.Context,
	sessionID string,
	questionID string,
	rawAnswer string,
	elapsedSeconds int,
) (SubmissionResult, error) {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return SubmissionResult{}, err
	}

	if rec, ok := session.RecordedAnswer(questionID); ok {
		return s.duplicateResult(rec)
	}
	if session.Completed() {
		return SubmissionResult{}, models.ErrSessionCompleted
	}

	currentID, err := session.CurrentQuestionID()
	if err != nil {
		var corrupted *models.SessionCorruptedError
		if errors.As(err, &corrupted) {
			log.Printf("severe: %v", corrupted)
		}
		return SubmissionResult{}, err
	}
	if questionID != currentID {
		return SubmissionResult{}, &models.QuestionMismatchError{Submitted: questionID, Expected: currentID}
	}

	question, err := s.Corpus.FindByID(currentID)
	if err != nil {
		return SubmissionResult{}, err
	}

	// Normalization failures reject the submission before anything is
	// recorded; the session is untouched and the caller re-prompts.
	normalized, err := evaluator.Normalize(rawAnswer)
	if err != nil {
		return SubmissionResult{}, err
	}
	verdict := evaluator.Evaluate(question, normalized)

	rec := models.AnswerRecord{
		QuestionID:      questionID,
		SubmittedOption: normalized,
		IsCorrect:       verdict.IsCorrect,
		ElapsedSeconds:  elapsedSeconds,
		AnsweredAt:      time.Now().UTC(),
	}

	expectedIndex := session.CurrentIndex
	if err := session.Record(rec); err != nil {
		return SubmissionResult{}, err
	}

	err = s.Sessions.Replace(ctx, session, expectedIndex)
	if errors.Is(err, repository.ErrIndexConflict) {
		fresh, getErr := s.Sessions.Get(ctx, sessionID)
		if getErr != nil {
			return SubmissionResult{}, getErr
		}
		if stored, ok := fresh.RecordedAnswer(questionID); ok {
			return s.duplicateResult(stored)
		}
		return SubmissionResult{}, err
	}
	if err != nil {
		return SubmissionResult{}, err
	}

	return SubmissionResult{Record: rec, CorrectOption: verdict.CorrectOption}, nil
}

func (s *ExamService) duplicateResult(rec models.AnswerRecord) (SubmissionResult, error) {
	question, err := s.Corpus.FindByID(rec.QuestionID)
	if err != nil {
		return SubmissionResult{}, err
	}
	return SubmissionResult{
		Record:        rec,
		CorrectOption: question.CorrectOption,
		Duplicate:     true,
	}, nil
}

// GetResult aggregates a completed session.
func (s *ExamService) GetResult(ctx context.Context, sessionID string) (models.ResultSummary, error) {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return models.ResultSummary{}, err
	}
	return result.Aggregate(session)
}

// RefreshCorpus reloads the corpus on demand. The fresh snapshot is
// validated against the department table before it replaces the served
// one; an inconsistent reload is rejected and the old snapshot stays.
func (s *ExamService) RefreshCorpus(ctx context.Context) error {
	return s.Corpus.Refresh(ctx, s.Resolver.ValidateCategories)
}
