package postgres

import (
	"context"

	"github.com/classpilot/analytics-service/internal/models"
	"github.com/classpilot/analytics-service/internal/repositories"
	"gorm.io/gorm"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyCountableQuestionScope restricts a question query to the rows that
// participate in analytics: approved and not of the skipped type.
func (h *SharedHelpers) ApplyCountableQuestionScope(query *gorm.DB) *gorm.DB {
	return query.
		Where("status = ?", models.QuestionApproved).
		Where("type <> ?", models.Skipped)
}

// ApplySessionFilters applies common filters to session queries. Preview
// sessions are excluded by default; a missing mode counts as a student row.
func (h *SharedHelpers) ApplySessionFilters(query *gorm.DB, filters repositories.SessionFilters) *gorm.DB {
	if !filters.IncludePreviews {
		query = query.Where("mode IS NULL OR mode <> ?", models.SessionModeTeacherPreview)
	}
	return query
}

// ApplyAssignmentFilters applies common filters to assignment queries
func (h *SharedHelpers) ApplyAssignmentFilters(query *gorm.DB, filters repositories.AssignmentFilters) *gorm.DB {
	if !filters.IncludeDrafts {
		query = query.Where("is_draft = ?", false)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	return query
}

// CountCountableQuestions counts analytics-eligible questions for an assignment
func (h *SharedHelpers) CountCountableQuestions(ctx context.Context, assignmentID uint) (int64, error) {
	var count int64
	err := h.ApplyCountableQuestionScope(
		h.db.WithContext(ctx).
			Model(&models.Question{}).
			Where("assignment_id = ?", assignmentID),
	).Count(&count).Error
	return count, err
}
