package handlers

import (
	"context"
	"errors"
	"net/http"

	"exam-service/internal/corpus"
	"exam-service/internal/department"
	"exam-service/internal/evaluator"
	"exam-service/internal/models"
	"exam-service/internal/repository"
	"exam-service/internal/result"
	"exam-service/internal/selection"
	"exam-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ExamHandler struct {
	Service *service.ExamService
}

func NewExamHandler(s *service.ExamService) *ExamHandler {
	return &ExamHandler{Service: s}
}

// StartExam creates a new exam session for a department.
func (h *ExamHandler) StartExam(c *gin.Context) {
	var req struct {
		Department        string `json:"department" binding:"required"`
		QuestionType      string `json:"question_type" binding:"required"`
		Year              int    `json:"year"`
		Count             int    `json:"count"`
		ReplacesSessionID string `json:"replaces_session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format", "details": err.Error()})
		return
	}
	if req.Count == 0 {
		req.Count = 10
	}

	session, err := h.Service.StartExam(
		context.Background(),
		req.Department,
		models.QuestionType(req.QuestionType),
		req.Year,
		req.Count,
		req.ReplacesSessionID,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"session_id":     session.ID,
		"category":       session.Category,
		"question_type":  session.QuestionType,
		"year":           session.Year,
		"question_count": session.Length(),
		"created_at":     session.CreatedAt,
	})
}

// CurrentQuestion returns the question the session points at.
func (h *ExamHandler) CurrentQuestion(c *gin.Context) {
	id := c.Param("id")
	question, index, err := h.Service.GetCurrentQuestion(context.Background(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"question": question,
		"position": index + 1,
	})
}

// SubmitAnswer records one answer and advances the session.
func (h *ExamHandler) SubmitAnswer(c *gin.Context) {
	id := c.Param("id")
	var req struct {
		QuestionID     string `json:"question_id" binding:"required"`
		Answer         string `json:"answer"`
		ElapsedSeconds int    `json:"elapsed_seconds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format", "details": err.Error()})
		return
	}

	submission, err := h.Service.SubmitAnswer(
		context.Background(), id, req.QuestionID, req.Answer, req.ElapsedSeconds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

// Result returns the aggregate outcome of a completed session.
func (h *ExamHandler) Result(c *gin.Context) {
	id := c.Param("id")
	summary, err := h.Service.GetResult(context.Background(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// RefreshCorpus reloads the question corpus on demand.
func (h *ExamHandler) RefreshCorpus(c *gin.Context) {
	if err := h.Service.RefreshCorpus(context.Background()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}

// respondError translates the engine's typed errors into status codes.
// Every error kind is matched explicitly; nothing is collapsed into a
// vague generic failure.
func respondError(c *gin.Context, err error) {
	var (
		unknownDept  *department.UnknownDepartmentError
		insufficient *selection.InsufficientQuestionsError
		purity       *selection.CategoryPurityViolationError
		notFound     *corpus.QuestionNotFoundError
		invalid      *evaluator.InvalidAnswerError
		mismatch     *models.QuestionMismatchError
		corrupted    *models.SessionCorruptedError
	)
	switch {
	case errors.As(err, &unknownDept):
		c.JSON(http.StatusNotFound, gin.H{"error": unknownDept.Error()})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     insufficient.Error(),
			"available": insufficient.Available,
			"requested": insufficient.Requested,
		})
	case errors.As(err, &purity):
		c.JSON(http.StatusInternalServerError, gin.H{"error": purity.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
	case errors.As(err, &mismatch):
		c.JSON(http.StatusConflict, gin.H{
			"error":    mismatch.Error(),
			"expected": mismatch.Expected,
		})
	case errors.As(err, &corrupted):
		c.JSON(http.StatusInternalServerError, gin.H{"error": corrupted.Error()})
	case errors.Is(err, models.ErrSessionCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, result.ErrSessionNotCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCount),
		errors.Is(err, service.ErrInvalidQuestionType),
		errors.Is(err, service.ErrYearRequired),
		errors.Is(err, service.ErrUnexpectedYear):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
