package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/classpilot/analytics-service/internal/models"
	"github.com/classpilot/analytics-service/internal/repositories"
	"gorm.io/gorm"
)

type ClassPostgreSQL struct {
	db *gorm.DB
}

func NewClassPostgreSQL(db *gorm.DB) repositories.ClassRepository {
	return &ClassPostgreSQL{db: db}
}

func (c *ClassPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

// GetByID retrieves a class by ID
func (c *ClassPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Class, error) {
	db := c.getDB(tx)
	var class models.Class
	if err := db.WithContext(ctx).First(&class, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("class not found with ID %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	return &class, nil
}

// GetByTeacher retrieves all classes owned by a teacher
func (c *ClassPostgreSQL) GetByTeacher(ctx context.Context, tx *gorm.DB, teacherID string) ([]*models.Class, error) {
	db := c.getDB(tx)
	var classes []*models.Class
	if err := db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&classes).Error; err != nil {
		return nil, fmt.Errorf("failed to get classes by teacher: %w", err)
	}
	return classes, nil
}

// ExistsByID checks whether a class exists
func (c *ClassPostgreSQL) ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := c.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Class{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check class existence: %w", err)
	}
	return count > 0, nil
}

// IsOwnedBy checks whether the class belongs to the given teacher
func (c *ClassPostgreSQL) IsOwnedBy(ctx context.Context, tx *gorm.DB, id uint, teacherID string) (bool, error) {
	db := c.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Class{}).
		Where("id = ? AND teacher_id = ?", id, teacherID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check class ownership: %w", err)
	}
	return count > 0, nil
}
