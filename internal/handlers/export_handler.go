package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classpilot/analytics-service/internal/services"
	"github.com/classpilot/analytics-service/internal/utils"
)

// ExportHandler handles report download endpoints
type ExportHandler struct {
	BaseHandler
	service services.ExportService
}

func NewExportHandler(service services.ExportService, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ExportClassAnalytics godoc
// @Summary Export class analytics
// @Description Downloads the class overview and student roster as a spreadsheet
// @Tags export
// @Produce application/octet-stream
// @Param id path int true "Class ID"
// @Param format query string false "Export format (xlsx or csv)" default(xlsx)
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /classes/{id}/analytics/export [get]
func (h *ExportHandler) ExportClassAnalytics(c *gin.Context) {
	h.LogRequest(c, "Exporting class analytics")

	teacherID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondWithError(c, http.StatusUnauthorized, "Authentication required", err)
		return
	}

	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	format := services.ExportFormat(c.DefaultQuery("format", string(services.ExportFormatXLSX)))

	result, err := h.service.ExportClassAnalytics(c.Request.Context(), teacherID, classID, format)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
