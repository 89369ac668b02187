package repositories

import (
	"context"

	"github.com/classpilot/analytics-service/internal/models"
	"gorm.io/gorm"
)

// SessionRepository interface for student session operations
type SessionRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.StudentSession, error)

	// Query operations
	ListByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint, filters SessionFilters) ([]*models.StudentSession, error)
	ListByAssignments(ctx context.Context, tx *gorm.DB, assignmentIDs []uint, filters SessionFilters) ([]*models.StudentSession, error)
	CountByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint, filters SessionFilters) (int64, error)
}

// ProgressRepository interface for student progress records
type ProgressRepository interface {
	// ListByAssignment fetches rows through the denormalized assignment_id
	// column. Legacy rows with a NULL assignment_id are not returned here;
	// callers fall back to ListBySession for those.
	ListByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]*models.StudentProgress, error)
	ListBySession(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*models.StudentProgress, error)
}

// MessageRepository interface for tutoring chat messages
type MessageRepository interface {
	// Student-authored messages only; tutor and system rows are excluded at
	// the query level so aggregation never sees them.
	ListStudentByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]*models.ChatMessage, error)
	ListStudentBySession(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*models.ChatMessage, error)
}
