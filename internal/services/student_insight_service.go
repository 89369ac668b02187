package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"gorm.io/gorm"

	"github.com/classpilot/analytics-service/internal/models"
	"github.com/classpilot/analytics-service/internal/repositories"
)

// ===== RESPONSE DTOs =====

type UnderstandingLevel string

const (
	UnderstandingHigh   UnderstandingLevel = "high"
	UnderstandingMedium UnderstandingLevel = "medium"
	UnderstandingLow    UnderstandingLevel = "low"
)

type AssignmentStudentsResponse struct {
	AssignmentID uint              `json:"assignment_id"`
	Title        string            `json:"title"`
	Students     []StudentOverview `json:"students"`
}

type StudentOverview struct {
	SessionID      uint               `json:"session_id"`
	Name           string             `json:"name"`
	CorrectCount   int                `json:"correct_count"`
	QuestionCount  int                `json:"question_count"`
	CompletionRate float64            `json:"completion_rate"`
	TotalMessages  int                `json:"total_messages"`
	AvgMessages    float64            `json:"avg_messages"`
	TotalTimeMs    int64              `json:"total_time_ms"`
	Understanding  UnderstandingLevel `json:"understanding"`
	LastActiveAt   int64              `json:"last_active_at"` // epoch millis
}

type ClassStudentsResponse struct {
	ClassID  uint               `json:"class_id"`
	Students []StudentAggregate `json:"students"`
}

type StudentAggregate struct {
	Name           string             `json:"name"`
	SessionCount   int                `json:"session_count"`
	CorrectTotal   int                `json:"correct_total"`
	QuestionTotal  int                `json:"question_total"`
	CompletionRate float64            `json:"completion_rate"`
	AvgMessages    float64            `json:"avg_messages"`
	Understanding  UnderstandingLevel `json:"understanding"`
	LastActiveAt   int64              `json:"last_active_at"` // epoch millis
}

type SessionDetailResponse struct {
	SessionID    uint                     `json:"session_id"`
	AssignmentID uint                     `json:"assignment_id"`
	Name         string                   `json:"name"`
	LastActiveAt int64                    `json:"last_active_at"` // epoch millis
	Questions    []QuestionProgressDetail `json:"questions"`
}

type QuestionProgressDetail struct {
	QuestionID   uint                  `json:"question_id"`
	Number       int                   `json:"number"`
	Text         string                `json:"text"`
	Status       models.ProgressStatus `json:"status"`
	MessageCount int                   `json:"message_count"`
	TimeSpentMs  int64                 `json:"time_spent_ms"`
}

// ===== SERVICE INTERFACE =====

type StudentInsightService interface {
	GetAssignmentStudents(ctx context.Context, teacherID string, assignmentID uint) (*AssignmentStudentsResponse, error)
	GetClassStudents(ctx context.Context, teacherID string, classID uint) (*ClassStudentsResponse, error)
	GetSessionDetail(ctx context.Context, teacherID string, sessionID uint) (*SessionDetailResponse, error)
}

// ===== SERVICE IMPLEMENTATION =====

type studentInsightService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewStudentInsightService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) StudentInsightService {
	return &studentInsightService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *studentInsightService) GetAssignmentStudents(ctx context.Context, teacherID string, assignmentID uint) (*AssignmentStudentsResponse, error) {
	s.logger.Info("Getting assignment students", "assignment_id", assignmentID, "teacher_id", teacherID)

	assignment, err := ownedAssignment(ctx, s.repo, teacherID, assignmentID)
	if err != nil {
		return nil, err
	}

	students, err := s.collectStudents(ctx, assignment)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(students, func(i, j int) bool {
		return students[i].LastActiveAt > students[j].LastActiveAt
	})

	return &AssignmentStudentsResponse{
		AssignmentID: assignment.ID,
		Title:        assignment.Title,
		Students:     students,
	}, nil
}

func (s *studentInsightService) GetClassStudents(ctx context.Context, teacherID string, classID uint) (*ClassStudentsResponse, error) {
	s.logger.Info("Getting class students", "class_id", classID, "teacher_id", teacherID)

	class, err := ownedClass(ctx, s.repo, teacherID, classID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.Assignment().ListByClass(ctx, nil, classID, repositories.AssignmentFilters{})
	if err != nil {
		return nil, err
	}

	// Sessions carry no account ID, so cross-assignment identity is the
	// display name the student typed when joining
	type nameTotals struct {
		sessionCount  int
		correctTotal  int
		questionTotal int
		messageTotal  int
		lastActiveAt  int64
	}
	totals := make(map[string]*nameTotals)
	var order []string

	for _, assignment := range assignments {
		students, err := s.collectStudents(ctx, assignment)
		if err != nil {
			return nil, err
		}

		for _, student := range students {
			agg, seen := totals[student.Name]
			if !seen {
				agg = &nameTotals{}
				totals[student.Name] = agg
				order = append(order, student.Name)
			}
			agg.sessionCount++
			agg.correctTotal += student.CorrectCount
			agg.questionTotal += student.QuestionCount
			agg.messageTotal += student.TotalMessages
			if student.LastActiveAt > agg.lastActiveAt {
				agg.lastActiveAt = student.LastActiveAt
			}
		}
	}

	students := make([]StudentAggregate, 0, len(order))
	for _, name := range order {
		agg := totals[name]

		// Weight by totals across assignments, not by averaging the
		// per-assignment rates: 3/5 and 4/4 merge to 7/9
		rate := 0.0
		avgMessages := 0.0
		if agg.questionTotal > 0 {
			rate = float64(agg.correctTotal) / float64(agg.questionTotal)
			avgMessages = float64(agg.messageTotal) / float64(agg.questionTotal)
		}

		students = append(students, StudentAggregate{
			Name:           name,
			SessionCount:   agg.sessionCount,
			CorrectTotal:   agg.correctTotal,
			QuestionTotal:  agg.questionTotal,
			CompletionRate: rate,
			AvgMessages:    avgMessages,
			Understanding:  understandingLevel(rate, avgMessages),
			LastActiveAt:   agg.lastActiveAt,
		})
	}

	sort.SliceStable(students, func(i, j int) bool {
		return students[i].LastActiveAt > students[j].LastActiveAt
	})

	return &ClassStudentsResponse{
		ClassID:  class.ID,
		Students: students,
	}, nil
}

func (s *studentInsightService) GetSessionDetail(ctx context.Context, teacherID string, sessionID uint) (*SessionDetailResponse, error) {
	s.logger.Info("Getting session detail", "session_id", sessionID, "teacher_id", teacherID)

	session, err := s.repo.Session().GetByID(ctx, nil, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if !session.IsCountable() {
		return nil, ErrSessionIsPreview
	}

	if _, err := ownedAssignment(ctx, s.repo, teacherID, session.AssignmentID); err != nil {
		return nil, err
	}

	questions, err := s.repo.Question().ListCountable(ctx, nil, session.AssignmentID)
	if err != nil {
		return nil, err
	}

	progress, err := s.repo.Progress().ListBySession(ctx, nil, sessionID)
	if err != nil {
		return nil, err
	}
	messages, err := s.repo.Message().ListStudentBySession(ctx, nil, sessionID)
	if err != nil {
		return nil, err
	}

	progressByQuestion := make(map[uint]*models.StudentProgress, len(progress))
	for _, record := range progress {
		progressByQuestion[record.QuestionID] = record
	}
	messagesByQuestion := make(map[uint]int)
	for _, msg := range messages {
		messagesByQuestion[msg.QuestionID]++
	}

	details := make([]QuestionProgressDetail, 0, len(questions))
	for _, question := range questions {
		detail := QuestionProgressDetail{
			QuestionID:   question.ID,
			Number:       question.Number,
			Text:         question.Text,
			Status:       models.ProgressNotStarted,
			MessageCount: messagesByQuestion[question.ID],
		}
		if record, ok := progressByQuestion[question.ID]; ok {
			detail.Status = record.Status
			detail.TimeSpentMs = record.TimeSpentMs
		}
		details = append(details, detail)
	}

	return &SessionDetailResponse{
		SessionID:    session.ID,
		AssignmentID: session.AssignmentID,
		Name:         session.Name,
		LastActiveAt: session.LastActiveAt.UnixMilli(),
		Questions:    details,
	}, nil
}

// collectStudents computes per-session overviews for one assignment
func (s *studentInsightService) collectStudents(ctx context.Context, assignment *models.Assignment) ([]StudentOverview, error) {
	questions, err := s.repo.Question().ListCountable(ctx, nil, assignment.ID)
	if err != nil {
		return nil, err
	}

	countable := make(map[uint]bool, len(questions))
	for _, question := range questions {
		countable[question.ID] = true
	}

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

	students := make([]StudentOverview, 0, len(sessions))
	for _, session := range sessions {
		correct := 0
		var timeTotal int64
		for _, record := range progressIndex[session.ID] {
			if !countable[record.QuestionID] {
				continue
			}
			if record.Status == models.ProgressCorrect {
				correct++
			}
			timeTotal += record.TimeSpentMs
		}

		messageCount := 0
		for _, msg := range messageIndex[session.ID] {
			if countable[msg.QuestionID] {
				messageCount++
			}
		}

		rate := 0.0
		avgMessages := 0.0
		if len(questions) > 0 {
			rate = float64(correct) / float64(len(questions))
			avgMessages = float64(messageCount) / float64(len(questions))
		}

		students = append(students, StudentOverview{
			SessionID:      session.ID,
			Name:           session.Name,
			CorrectCount:   correct,
			QuestionCount:  len(questions),
			CompletionRate: rate,
			TotalMessages:  messageCount,
			AvgMessages:    avgMessages,
			TotalTimeMs:    timeTotal,
			Understanding:  understandingLevel(rate, avgMessages),
			LastActiveAt:   session.LastActiveAt.UnixMilli(),
		})
	}

	return students, nil
}

// understandingLevel buckets a student by completion rate and tutoring load.
// High needs both a strong rate and low message reliance; medium needs either
// a passable rate or moderate reliance.
func understandingLevel(completionRate, avgMessages float64) UnderstandingLevel {
	switch {
	case completionRate >= 0.8 && avgMessages <= 5:
		return UnderstandingHigh
	case completionRate >= 0.5 || avgMessages <= 10:
		return UnderstandingMedium
	default:
		return UnderstandingLow
	}
}
