package repositories

import (
	"context"

	"github.com/classpilot/analytics-service/internal/models"
	"gorm.io/gorm"
)

// ClassRepository interface for class operations
type ClassRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Class, error)
	GetByTeacher(ctx context.Context, tx *gorm.DB, teacherID string) ([]*models.Class, error)

	// Validation and checks
	ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	IsOwnedBy(ctx context.Context, tx *gorm.DB, id uint, teacherID string) (bool, error)
}

// AssignmentRepository interface for assignment operations
type AssignmentRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error)
	GetByIDWithClass(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error)

	// Query operations
	ListByClass(ctx context.Context, tx *gorm.DB, classID uint, filters AssignmentFilters) ([]*models.Assignment, error)
	CountByClass(ctx context.Context, tx *gorm.DB, classID uint, filters AssignmentFilters) (int64, error)
}
