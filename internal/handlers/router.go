package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/assignment-engine/internal/middleware"
	"github.com/SAP-F-2025/assignment-engine/internal/models"
	"github.com/SAP-F-2025/assignment-engine/internal/utils"
)

// SetupRouter wires all HTTP routes. Attempt and practice surfaces need
// any authenticated caller; the export surface is teacher/admin only.
func SetupRouter(
	attemptHandler *AttemptHandler,
	practiceHandler *PracticeHandler,
	exportHandler *ExportHandler,
	logger utils.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.RequestLogger(logger))

	router.GET("/health", HealthCheck)

	api := router.Group("/api/v1")
	api.Use(middleware.RequireAuth())

	assignments := api.Group("/assignments/:id")
	{
		assignments.POST("/attempt", attemptHandler.Start)
		assignments.PUT("/attempt/answers/:index", attemptHandler.SaveAnswer)
		assignments.GET("/attempt/time", attemptHandler.TimeRemaining)
		assignments.POST("/attempt/submit", attemptHandler.Submit)
		assignments.GET("/submission", attemptHandler.Review)

		practice := assignments.Group("/practice")
		{
			practice.GET("/flashcards", practiceHandler.Flashcards)
			practice.GET("/quiz", practiceHandler.Quiz)
			practice.GET("/exercises", practiceHandler.Exercises)
		}

		assignments.GET("/submissions/export",
			middleware.RequireRole(models.RoleTeacher, models.RoleAdmin),
			exportHandler.ExportSubmissions)
	}

	return router
}
