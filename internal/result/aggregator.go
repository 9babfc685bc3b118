// Package result aggregates a completed exam session into its final
// statistics. Aggregation is pure: it reads the session value and
// nothing else, and repeated calls over the same session are identical.
package result

import (
	"errors"
	"math"

	"exam-service/internal/models"
)

// ErrSessionNotCompleted rejects aggregation over a session that still
// has unanswered questions.
var ErrSessionNotCompleted = errors.New("exam session not completed")

// Aggregate computes the result summary for a completed session.
func Aggregate(session *models.ExamSession) (models.ResultSummary, error) {
	if !session.Completed() {
		return models.ResultSummary{}, ErrSessionNotCompleted
	}

	summary := models.ResultSummary{
		SessionID:    session.ID,
		Category:     session.Category,
		QuestionType: session.QuestionType,
		Year:         session.Year,
		PerCategory:  make(map[string]models.CategoryStats),
	}

	totalElapsed := 0
	for _, rec := range session.Answers {
		summary.TotalAnswered++
		if rec.IsCorrect {
			summary.TotalCorrect++
		}
		totalElapsed += rec.ElapsedSeconds
	}

	// Sessions are category-pure by construction, so the breakdown has
	// a single entry keyed by the session's category.
	summary.PerCategory[session.Category] = models.CategoryStats{
		Answered: summary.TotalAnswered,
		Correct:  summary.TotalCorrect,
	}

	if summary.TotalAnswered > 0 {
		summary.AccuracyPercent = roundHalfUp1(float64(summary.TotalCorrect) / float64(summary.TotalAnswered) * 100)
		summary.AverageElapsedSeconds = roundHalfUp1(float64(totalElapsed) / float64(summary.TotalAnswered))
	}
	return summary, nil
}

// roundHalfUp1 rounds half-up to one decimal place.
func roundHalfUp1(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}
