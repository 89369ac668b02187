package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classpilot/analytics-service/internal/services"
	"github.com/classpilot/analytics-service/internal/utils"
)

// AnalyticsHandler handles class and assignment aggregation endpoints
type AnalyticsHandler struct {
	BaseHandler
	service services.AnalyticsService
}

func NewAnalyticsHandler(service services.AnalyticsService, logger utils.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetClassOverview godoc
// @Summary Get class analytics overview
// @Description Returns per-assignment rollups, pooled message/time distributions and the overall completion rate for a class the caller teaches
// @Tags analytics
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} services.ClassOverviewResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /classes/{id}/analytics [get]
func (h *AnalyticsHandler) GetClassOverview(c *gin.Context) {
	h.LogRequest(c, "Getting class overview")

	teacherID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondWithError(c, http.StatusUnauthorized, "Authentication required", err)
		return
	}

	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	overview, err := h.service.GetClassOverview(c.Request.Context(), teacherID, classID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// GetAssignmentComparison godoc
// @Summary Compare assignments in a class
// @Description Returns side-by-side summaries of every assignment that has at least one student session
// @Tags analytics
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} services.AssignmentComparisonResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /classes/{id}/analytics/comparison [get]
func (h *AnalyticsHandler) GetAssignmentComparison(c *gin.Context) {
	h.LogRequest(c, "Getting assignment comparison")

	teacherID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondWithError(c, http.StatusUnauthorized, "Authentication required", err)
		return
	}

	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comparison, err := h.service.GetAssignmentComparison(c.Request.Context(), teacherID, classID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, comparison)
}

// GetQuestionBreakdown godoc
// @Summary Get per-question metrics for an assignment
// @Description Returns success rates, message and time statistics per question, plus the top struggle questions
// @Tags analytics
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} services.QuestionBreakdownResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /assignments/{id}/analytics/questions [get]
func (h *AnalyticsHandler) GetQuestionBreakdown(c *gin.Context) {
	h.LogRequest(c, "Getting question breakdown")

	teacherID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondWithError(c, http.StatusUnauthorized, "Authentication required", err)
		return
	}

	assignmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	breakdown, err := h.service.GetQuestionBreakdown(c.Request.Context(), teacherID, assignmentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, breakdown)
}
