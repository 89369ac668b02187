package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/classpilot/analytics-service/internal/models"
	"github.com/classpilot/analytics-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (q *QuestionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return q.db
}

// GetByID retrieves a question by ID
func (q *QuestionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
	db := q.getDB(tx)
	var question models.Question
	if err := db.WithContext(ctx).First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question not found with ID %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return &question, nil
}

// ListCountable retrieves the analytics-eligible questions of an assignment
// ordered by their extraction number.
func (q *QuestionPostgreSQL) ListCountable(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]*models.Question, error) {
	db := q.getDB(tx)
	var questions []*models.Question

	query := q.helpers.ApplyCountableQuestionScope(
		db.WithContext(ctx).Where("assignment_id = ?", assignmentID),
	)

	if err := query.Order("number ASC").Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to list countable questions: %w", err)
	}
	return questions, nil
}

// CountCountable counts the analytics-eligible questions of an assignment
func (q *QuestionPostgreSQL) CountCountable(ctx context.Context, tx *gorm.DB, assignmentID uint) (int64, error) {
	db := q.getDB(tx)
	var count int64

	query := q.helpers.ApplyCountableQuestionScope(
		db.WithContext(ctx).
			Model(&models.Question{}).
			Where("assignment_id = ?", assignmentID),
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count countable questions: %w", err)
	}
	return count, nil
}

// ListByAssignment retrieves all questions of an assignment regardless of status
func (q *QuestionPostgreSQL) ListByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]*models.Question, error) {
	db := q.getDB(tx)
	var questions []*models.Question
	if err := db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("number ASC").
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to list questions by assignment: %w", err)
	}
	return questions, nil
}
