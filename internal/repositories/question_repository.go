package repositories

import (
	"context"

	"github.com/classpilot/analytics-service/internal/models"
	"gorm.io/gorm"
)

// QuestionRepository interface for question-specific operations
type QuestionRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error)

	// ListCountable returns approved, non-skipped questions for an assignment
	// ordered by Number. Every analytics computation runs over this set.
	ListCountable(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]*models.Question, error)
	CountCountable(ctx context.Context, tx *gorm.DB, assignmentID uint) (int64, error)

	// ListByAssignment returns all questions regardless of status, for
	// review-oriented views.
	ListByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]*models.Question, error)
}
