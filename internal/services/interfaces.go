package services

import "context"

// Service interfaces are declared next to their implementations; this file
// only carries the manager contract.

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Analytics() AnalyticsService
	StudentInsight() StudentInsightService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
