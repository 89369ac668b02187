package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/classpilot/analytics-service/internal/models"
	"github.com/classpilot/analytics-service/internal/repositories"
	"gorm.io/gorm"
)

type SessionPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (s *SessionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

// GetByID retrieves a session by ID. Mode filtering is left to the caller so
// preview sessions can be rejected with an explicit error.
func (s *SessionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.StudentSession, error) {
	db := s.getDB(tx)
	var session models.StudentSession
	if err := db.WithContext(ctx).First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session not found with ID %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// ListByAssignment retrieves sessions for an assignment
func (s *SessionPostgreSQL) ListByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint, filters repositories.SessionFilters) ([]*models.StudentSession, error) {
	db := s.getDB(tx)
	var sessions []*models.StudentSession

	query := db.WithContext(ctx).Where("assignment_id = ?", assignmentID)
	query = s.helpers.ApplySessionFilters(query, filters)

	if err := query.Order("last_active_at DESC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions by assignment: %w", err)
	}
	return sessions, nil
}

// ListByAssignments retrieves sessions for a set of assignments in one query
func (s *SessionPostgreSQL) ListByAssignments(ctx context.Context, tx *gorm.DB, assignmentIDs []uint, filters repositories.SessionFilters) ([]*models.StudentSession, error) {
	if len(assignmentIDs) == 0 {
		return []*models.StudentSession{}, nil
	}

	db := s.getDB(tx)
	var sessions []*models.StudentSession

	query := db.WithContext(ctx).Where("assignment_id IN ?", assignmentIDs)
	query = s.helpers.ApplySessionFilters(query, filters)

	if err := query.Order("last_active_at DESC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions by assignments: %w", err)
	}
	return sessions, nil
}

// CountByAssignment counts sessions for an assignment
func (s *SessionPostgreSQL) CountByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint, filters repositories.SessionFilters) (int64, error) {
	db := s.getDB(tx)
	var count int64

	query := db.WithContext(ctx).
		Model(&models.StudentSession{}).
		Where("assignment_id = ?", assignmentID)
	query = s.helpers.ApplySessionFilters(query, filters)

	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count sessions by assignment: %w", err)
	}
	return count, nil
}
