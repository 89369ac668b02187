package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classpilot/analytics-service/internal/services"
	"github.com/classpilot/analytics-service/internal/utils"
)

// StudentInsightHandler handles student-level aggregation endpoints
type StudentInsightHandler struct {
	BaseHandler
	service services.StudentInsightService
}

func NewStudentInsightHandler(service services.StudentInsightService, logger utils.Logger) *StudentInsightHandler {
	return &StudentInsightHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetAssignmentStudents godoc
// @Summary List students for an assignment
// @Description Returns per-session completion, message load and understanding level, most recently active first
// @Tags students
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} services.AssignmentStudentsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /assignments/{id}/students [get]
func (h *StudentInsightHandler) GetAssignmentStudents(c *gin.Context) {
	h.LogRequest(c, "Getting assignment students")

	teacherID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondWithError(c, http.StatusUnauthorized, "Authentication required", err)
		return
	}

	assignmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	students, err := h.service.GetAssignmentStudents(c.Request.Context(), teacherID, assignmentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// GetClassStudents godoc
// @Summary List students across a class
// @Description Merges sessions by student display name across all assignments in the class
// @Tags students
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} services.ClassStudentsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /classes/{id}/students [get]
func (h *StudentInsightHandler) GetClassStudents(c *gin.Context) {
	h.LogRequest(c, "Getting class students")

	teacherID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondWithError(c, http.StatusUnauthorized, "Authentication required", err)
		return
	}

	classID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	students, err := h.service.GetClassStudents(c.Request.Context(), teacherID, classID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// GetSessionDetail godoc
// @Summary Get one student session in detail
// @Description Returns per-question status, message counts and time spent for a single session
// @Tags students
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} services.SessionDetailResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /sessions/{id}/detail [get]
func (h *StudentInsightHandler) GetSessionDetail(c *gin.Context) {
	h.LogRequest(c, "Getting session detail")

	teacherID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondWithError(c, http.StatusUnauthorized, "Authentication required", err)
		return
	}

	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.service.GetSessionDetail(c.Request.Context(), teacherID, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}
