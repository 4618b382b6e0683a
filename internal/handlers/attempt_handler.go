package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/assignment-engine/internal/middleware"
	"github.com/SAP-F-2025/assignment-engine/internal/models"
	"github.com/SAP-F-2025/assignment-engine/internal/services"
	"github.com/SAP-F-2025/assignment-engine/internal/utils"
)

// AttemptHandler exposes the take flow over HTTP.
type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
}

func NewAttemptHandler(attemptService services.AttemptService, logger utils.Logger) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		attemptService: attemptService,
	}
}

// SaveAnswerRequest carries a single draft answer. The payload shape is
// type-dependent and opaque to the transport layer.
type SaveAnswerRequest struct {
	Answer json.RawMessage `json:"answer" binding:"required"`
}

// SubmitRequest carries the final answer set, keyed by original question
// index. Answers saved as drafts may be omitted; the engine merges them.
type SubmitRequest struct {
	Answers models.AnswerSet `json:"answers"`
}

// Start begins or resumes an attempt.
// POST /api/v1/assignments/:id/attempt
func (h *AttemptHandler) Start(c *gin.Context) {
	student, ok := middleware.StudentFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authenticated"})
		return
	}

	assignmentID := c.Param("id")
	h.LogRequest(c, "Starting attempt", "assignment_id", assignmentID, "student_id", student.ID)

	response, err := h.attemptService.Start(c.Request.Context(), assignmentID, student)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Attempt started",
		Data:    response,
	})
}

// SaveAnswer stores a draft answer for one question.
// PUT /api/v1/assignments/:id/attempt/answers/:index
func (h *AttemptHandler) SaveAnswer(c *gin.Context) {
	student, ok := middleware.StudentFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authenticated"})
		return
	}

	assignmentID := c.Param("id")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid question index"})
		return
	}

	var req SaveAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if err := h.attemptService.SaveAnswer(c.Request.Context(), assignmentID, student, index, req.Answer); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Answer saved"})
}

// TimeRemaining reports the attempt's timer state.
// GET /api/v1/assignments/:id/attempt/time
func (h *AttemptHandler) TimeRemaining(c *gin.Context) {
	student, ok := middleware.StudentFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authenticated"})
		return
	}

	response, err := h.attemptService.TimeRemaining(c.Request.Context(), c.Param("id"), student)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Time remaining retrieved",
		Data:    response,
	})
}

// Submit finalizes the attempt with the provided answers.
// POST /api/v1/assignments/:id/attempt/submit
func (h *AttemptHandler) Submit(c *gin.Context) {
	student, ok := middleware.StudentFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authenticated"})
		return
	}

	assignmentID := c.Param("id")
	h.LogRequest(c, "Submitting attempt", "assignment_id", assignmentID, "student_id", student.ID)

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}
	if req.Answers == nil {
		req.Answers = models.AnswerSet{}
	}

	response, err := h.attemptService.Submit(c.Request.Context(), assignmentID, student, req.Answers)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Submission recorded",
		Data:    response,
	})
}

// Review returns the stored submission with per-question results.
// GET /api/v1/assignments/:id/submission
func (h *AttemptHandler) Review(c *gin.Context) {
	student, ok := middleware.StudentFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authenticated"})
		return
	}

	response, err := h.attemptService.Review(c.Request.Context(), c.Param("id"), student.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Submission retrieved",
		Data:    response,
	})
}
