package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SAP-F-2025/assignment-engine/internal/services"
	"github.com/SAP-F-2025/assignment-engine/internal/utils"
)

// PracticeHandler exposes the ungraded study surfaces.
type PracticeHandler struct {
	BaseHandler
	practiceService services.PracticeService
}

func NewPracticeHandler(practiceService services.PracticeService, logger utils.Logger) *PracticeHandler {
	return &PracticeHandler{
		BaseHandler:     NewBaseHandler(logger),
		practiceService: practiceService,
	}
}

// sessionID scopes the practice shuffle seeds. Clients pass ?session= to
// reproduce an arrangement; without it every request is a fresh session.
func sessionID(c *gin.Context) string {
	if session := c.Query("session"); session != "" {
		return session
	}
	return uuid.NewString()
}

// Flashcards returns question/answer pairs for self-study.
// GET /api/v1/assignments/:id/practice/flashcards
func (h *PracticeHandler) Flashcards(c *gin.Context) {
	cards, err := h.practiceService.Flashcards(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Flashcards generated",
		Data:    gin.H{"flashcards": cards, "count": len(cards)},
	})
}

// Quiz returns a capped multiple-choice practice round.
// GET /api/v1/assignments/:id/practice/quiz
func (h *PracticeHandler) Quiz(c *gin.Context) {
	session := sessionID(c)
	items, err := h.practiceService.Quiz(c.Request.Context(), c.Param("id"), session)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Quiz generated",
		Data:    gin.H{"session": session, "items": items, "count": len(items)},
	})
}

// Exercises returns interactive practice items for every gradable type.
// GET /api/v1/assignments/:id/practice/exercises
func (h *PracticeHandler) Exercises(c *gin.Context) {
	session := sessionID(c)
	exercises, err := h.practiceService.Exercises(c.Request.Context(), c.Param("id"), session)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Exercises generated",
		Data:    gin.H{"session": session, "exercises": exercises, "count": len(exercises)},
	})
}
