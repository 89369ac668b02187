package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/classpilot/analytics-service/internal/models"
	"github.com/classpilot/analytics-service/internal/repositories"
	"gorm.io/gorm"
)

type AssignmentPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewAssignmentPostgreSQL(db *gorm.DB) repositories.AssignmentRepository {
	return &AssignmentPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (a *AssignmentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}

// GetByID retrieves an assignment by ID
func (a *AssignmentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error) {
	db := a.getDB(tx)
	var assignment models.Assignment
	if err := db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("assignment not found with ID %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return &assignment, nil
}

// GetByIDWithClass retrieves an assignment with its owning class preloaded,
// used for ownership checks at the service layer.
func (a *AssignmentPostgreSQL) GetByIDWithClass(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error) {
	db := a.getDB(tx)
	var assignment models.Assignment
	if err := db.WithContext(ctx).
		Preload("Class").
		First(&assignment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("assignment not found with ID %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get assignment with class: %w", err)
	}
	return &assignment, nil
}

// ListByClass retrieves assignments for a class
func (a *AssignmentPostgreSQL) ListByClass(ctx context.Context, tx *gorm.DB, classID uint, filters repositories.AssignmentFilters) ([]*models.Assignment, error) {
	db := a.getDB(tx)
	var assignments []*models.Assignment

	query := db.WithContext(ctx).Where("class_id = ?", classID)
	query = a.helpers.ApplyAssignmentFilters(query, filters)

	if err := query.Order("created_at ASC").Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments by class: %w", err)
	}
	return assignments, nil
}

// CountByClass counts assignments for a class
func (a *AssignmentPostgreSQL) CountByClass(ctx context.Context, tx *gorm.DB, classID uint, filters repositories.AssignmentFilters) (int64, error) {
	db := a.getDB(tx)
	var count int64

	query := db.WithContext(ctx).Model(&models.Assignment{}).Where("class_id = ?", classID)
	query = a.helpers.ApplyAssignmentFilters(query, filters)

	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count assignments by class: %w", err)
	}
	return count, nil
}
