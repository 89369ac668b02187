package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classpilot/analytics-service/internal/config"
	"github.com/classpilot/analytics-service/internal/models"
	"github.com/classpilot/analytics-service/internal/repositories"
	"github.com/classpilot/analytics-service/internal/services"
	"github.com/classpilot/analytics-service/internal/utils"
)

type HandlerManager struct {
	serviceManager        services.ServiceManager
	analyticsHandler      *AnalyticsHandler
	studentInsightHandler *StudentInsightHandler
	exportHandler         *ExportHandler
	authMiddleware        *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		serviceManager:        serviceManager,
		analyticsHandler:      NewAnalyticsHandler(serviceManager.Analytics(), logger),
		studentInsightHandler: NewStudentInsightHandler(serviceManager.StudentInsight(), logger),
		exportHandler:         NewExportHandler(serviceManager.Export(), logger),
		authMiddleware:        authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes with authentication; analytics is a teacher-facing surface
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	v1.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher))
	{
		classes := v1.Group("/classes")
		{
			classes.GET("/:id/analytics", hm.analyticsHandler.GetClassOverview)
			classes.GET("/:id/analytics/comparison", hm.analyticsHandler.GetAssignmentComparison)
			classes.GET("/:id/analytics/export", hm.exportHandler.ExportClassAnalytics)
			classes.GET("/:id/students", hm.studentInsightHandler.GetClassStudents)
		}

		assignments := v1.Group("/assignments")
		{
			assignments.GET("/:id/analytics/questions", hm.analyticsHandler.GetQuestionBreakdown)
			assignments.GET("/:id/students", hm.studentInsightHandler.GetAssignmentStudents)
		}

		sessions := v1.Group("/sessions")
		{
			sessions.GET("/:id/detail", hm.studentInsightHandler.GetSessionDetail)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": "analytics-service",
				"error":   err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "analytics-service",
		})
	})
}
