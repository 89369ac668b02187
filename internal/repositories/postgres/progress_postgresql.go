package postgres

import (
	"context"
	"fmt"

	"github.com/classpilot/analytics-service/internal/models"
	"github.com/classpilot/analytics-service/internal/repositories"
	"gorm.io/gorm"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

func (p *ProgressPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

// ListByAssignment retrieves progress rows through the denormalized
// assignment_id column. Legacy rows with a NULL assignment_id are picked up
// by the per-session fallback instead.
func (p *ProgressPostgreSQL) ListByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]*models.StudentProgress, error) {
	db := p.getDB(tx)
	var records []*models.StudentProgress
	if err := db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list progress by assignment: %w", err)
	}
	return records, nil
}

// ListBySession retrieves all progress rows of a session
func (p *ProgressPostgreSQL) ListBySession(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*models.StudentProgress, error) {
	db := p.getDB(tx)
	var records []*models.StudentProgress
	if err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list progress by session: %w", err)
	}
	return records, nil
}
