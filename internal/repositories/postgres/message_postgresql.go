package postgres

import (
	"context"
	"fmt"

	"github.com/classpilot/analytics-service/internal/models"
	"github.com/classpilot/analytics-service/internal/repositories"
	"gorm.io/gorm"
)

type MessagePostgreSQL struct {
	db *gorm.DB
}

func NewMessagePostgreSQL(db *gorm.DB) repositories.MessageRepository {
	return &MessagePostgreSQL{db: db}
}

func (m *MessagePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return m.db
}

// ListStudentByAssignment retrieves student-authored messages through the
// denormalized assignment_id column
func (m *MessagePostgreSQL) ListStudentByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]*models.ChatMessage, error) {
	db := m.getDB(tx)
	var messages []*models.ChatMessage
	if err := db.WithContext(ctx).
		Where("assignment_id = ? AND role = ?", assignmentID, models.MessageRoleStudent).
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to list student messages by assignment: %w", err)
	}
	return messages, nil
}

// ListStudentBySession retrieves student-authored messages of a session
func (m *MessagePostgreSQL) ListStudentBySession(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*models.ChatMessage, error) {
	db := m.getDB(tx)
	var messages []*models.ChatMessage
	if err := db.WithContext(ctx).
		Where("session_id = ? AND role = ?", sessionID, models.MessageRoleStudent).
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to list student messages by session: %w", err)
	}
	return messages, nil
}
