package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/assignment-engine/internal/services"
	"github.com/SAP-F-2025/assignment-engine/internal/utils"
)

// ExportHandler serves the teacher-side submissions export.
type ExportHandler struct {
	BaseHandler
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler:   NewBaseHandler(logger),
		exportService: exportService,
	}
}

// ExportSubmissions streams an XLSX roster of all submissions.
// GET /api/v1/assignments/:id/submissions/export
func (h *ExportHandler) ExportSubmissions(c *gin.Context) {
	assignmentID := c.Param("id")
	h.LogRequest(c, "Exporting submissions", "assignment_id", assignmentID)

	data, err := h.exportService.ExportSubmissions(c.Request.Context(), assignmentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("submissions_%s.xlsx", assignmentID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		data)
}
