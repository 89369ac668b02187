package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/classpilot/analytics-service/internal/events"
	"github.com/classpilot/analytics-service/internal/models"
	"github.com/classpilot/analytics-service/internal/repositories"
)

// ===== OWNERSHIP CHECKS =====

// ownedClass resolves a class and verifies the requesting teacher owns it.
// The caller maps both failure modes to the same external response.
func ownedClass(ctx context.Context, repo repositories.Repository, teacherID string, classID uint) (*models.Class, error) {
	class, err := repo.Class().GetByID(ctx, nil, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}

	if class.TeacherID != teacherID {
		return nil, ErrClassAccessDenied
	}
	return class, nil
}

// ownedAssignment resolves an assignment and verifies ownership through its
// class.
func ownedAssignment(ctx context.Context, repo repositories.Repository, teacherID string, assignmentID uint) (*models.Assignment, error) {
	assignment, err := repo.Assignment().GetByIDWithClass(ctx, nil, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	if assignment.Class == nil || assignment.Class.TeacherID != teacherID {
		return nil, ErrAssignmentAccessDenied
	}
	return assignment, nil
}

// ===== ASSIGNMENT ROLLUP =====

// assignmentRollup holds the raw sample vectors of one assignment so class
// level aggregation can pool them without recomputing.
type assignmentRollup struct {
	assignment     *models.Assignment
	questions      []*models.Question
	sessions       []*models.StudentSession
	rates          []float64 // per-session completion rates
	messageSamples []float64 // per (session, question) student message counts, zeros omitted
	timeSamples    []float64 // per progress record time spent, in milliseconds
}

func (r *assignmentRollup) summary() AssignmentSummary {
	return AssignmentSummary{
		AssignmentID:   r.assignment.ID,
		Title:          r.assignment.Title,
		StudentCount:   len(r.sessions),
		CompletionRate: meanOf(r.rates),
		MessageStats:   Summarize(r.messageSamples),
		TimeStats:      Summarize(r.timeSamples),
	}
}

// rollupAssignment computes the per-session sample vectors of one assignment.
// Progress and message rows that reference question IDs outside the countable
// set are orphans from deleted or rejected questions and are ignored.
func (s *analyticsService) rollupAssignment(ctx context.Context, assignment *models.Assignment) (*assignmentRollup, error) {
	questions, err := s.repo.Question().ListCountable(ctx, nil, assignment.ID)
	if err != nil {
		return nil, err
	}

	countable := make(map[uint]bool, len(questions))
	for _, question := range questions {
		countable[question.ID] = true
	}

	// The query scope already drops previews; the classifier re-applies the
	// rule so no store can leak one into the aggregates
	sessions, err := s.repo.Session().ListByAssignment(ctx, nil, assignment.ID, repositories.SessionFilters{})
	if err != nil {
		return nil, err
	}
	sessions = CountableSessions(sessions)

	ids := sessionIDs(sessions)
	progressIndex, err := buildProgressIndex(ctx, s.repo.Progress(), assignment.ID, ids)
	if err != nil {
		return nil, err
	}
	messageIndex, err := buildMessageIndex(ctx, s.repo.Message(), assignment.ID, ids)
	if err != nil {
		return nil, err
	}

	rollup := &assignmentRollup{
		assignment: assignment,
		questions:  questions,
		sessions:   sessions,
	}

	for _, id := range ids {
		correct := 0
		for _, record := range progressIndex[id] {
			if !countable[record.QuestionID] {
				continue
			}
			if record.Status == models.ProgressCorrect {
				correct++
			}
			rollup.timeSamples = append(rollup.timeSamples, float64(record.TimeSpentMs))
		}

		// Completion rate is 0 when the assignment has no countable
		// questions yet, never NaN
		rate := 0.0
		if len(questions) > 0 {
			rate = float64(correct) / float64(len(questions))
		}
		rollup.rates = append(rollup.rates, rate)

		perQuestion := make(map[uint]int)
		for _, msg := range messageIndex[id] {
			if countable[msg.QuestionID] {
				perQuestion[msg.QuestionID]++
			}
		}
		for _, count := range perQuestion {
			rollup.messageSamples = append(rollup.messageSamples, float64(count))
		}
	}

	return rollup, nil
}

func meanOf(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, v := range samples {
		sum += v
	}
	return sum / float64(len(samples))
}

// ===== EVENT PUBLISHING =====

// Event publishing is best effort. An unreachable broker must never fail an
// analytics query.

func (s *analyticsService) publishReportEvent(ctx context.Context, classID uint, teacherID, reportType string, studentCount, sessionCount int) {
	if s.publisher == nil {
		return
	}

	event := events.NewReportGeneratedEvent(classID, teacherID, reportType, studentCount, sessionCount)
	if err := s.publisher.PublishAnalyticsEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish report event", "class_id", classID, "error", err)
	}
}

func (s *analyticsService) publishStruggleEvents(ctx context.Context, assignmentID uint, struggles []QuestionMetrics) {
	if s.publisher == nil {
		return
	}

	for _, metric := range struggles {
		if metric.StruggleScore <= 0 {
			continue
		}
		event := events.NewStruggleDetectedEvent(assignmentID, metric.QuestionID, metric.Number, metric.StruggleScore, metric.SuccessRate)
		if err := s.publisher.PublishAnalyticsEvent(ctx, event); err != nil {
			s.logger.Warn("Failed to publish struggle event",
				"assignment_id", assignmentID,
				"question_id", metric.QuestionID,
				"error", err)
		}
	}
}
