package services

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"gorm.io/gorm"

	"github.com/classpilot/analytics-service/internal/events"
	"github.com/classpilot/analytics-service/internal/models"
	"github.com/classpilot/analytics-service/internal/repositories"
)

// ===== RESPONSE DTOs =====

type QuestionBreakdownResponse struct {
	AssignmentID uint              `json:"assignment_id"`
	Title        string            `json:"title"`
	Questions    []QuestionMetrics `json:"questions"`
	TopStruggles []QuestionMetrics `json:"top_struggles"`
}

type QuestionMetrics struct {
	QuestionID     uint                `json:"question_id"`
	Number         int                 `json:"number"`
	Text           string              `json:"text"`
	Type           models.QuestionType `json:"type"`
	AttemptedCount int                 `json:"attempted_count"`
	CorrectCount   int                 `json:"correct_count"`
	SuccessRate    float64             `json:"success_rate"`
	MeanMessages   *float64            `json:"mean_messages"`
	MedianMessages *float64            `json:"median_messages"`
	MeanTimeMs     *float64            `json:"mean_time_ms"`
	StruggleScore  float64             `json:"struggle_score"`
}

type ClassOverviewResponse struct {
	ClassID               uint                `json:"class_id"`
	ClassName             string              `json:"class_name"`
	TotalAssignments      int                 `json:"total_assignments"`
	TotalStudents         int                 `json:"total_students"`
	HasData               bool                `json:"has_data"`
	OverallCompletionRate float64             `json:"overall_completion_rate"`
	MessageStats          *Distribution       `json:"message_stats"`
	TimeStats             *Distribution       `json:"time_stats"`
	Assignments           []AssignmentSummary `json:"assignments"`
}

type AssignmentSummary struct {
	AssignmentID   uint          `json:"assignment_id"`
	Title          string        `json:"title"`
	StudentCount   int           `json:"student_count"`
	CompletionRate float64       `json:"completion_rate"`
	MessageStats   *Distribution `json:"message_stats"`
	TimeStats      *Distribution `json:"time_stats"`
}

type AssignmentComparisonResponse struct {
	ClassID     uint                `json:"class_id"`
	Assignments []AssignmentSummary `json:"assignments"`
}

// ===== SERVICE INTERFACE =====

type AnalyticsService interface {
	GetQuestionBreakdown(ctx context.Context, teacherID string, assignmentID uint) (*QuestionBreakdownResponse, error)
	GetClassOverview(ctx context.Context, teacherID string, classID uint) (*ClassOverviewResponse, error)
	GetAssignmentComparison(ctx context.Context, teacherID string, classID uint) (*AssignmentComparisonResponse, error)
}

// ===== SERVICE IMPLEMENTATION =====

type analyticsService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	publisher events.EventPublisher
}

func NewAnalyticsService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, publisher events.EventPublisher) AnalyticsService {
	return &analyticsService{
		repo:      repo,
		db:        db,
		logger:    logger,
		publisher: publisher,
	}
}

func (s *analyticsService) GetQuestionBreakdown(ctx context.Context, teacherID string, assignmentID uint) (*QuestionBreakdownResponse, error) {
	s.logger.Info("Getting question breakdown", "assignment_id", assignmentID, "teacher_id", teacherID)

	assignment, err := ownedAssignment(ctx, s.repo, teacherID, assignmentID)
	if err != nil {
		return nil, err
	}

	questions, err := s.repo.Question().ListCountable(ctx, nil, assignmentID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.repo.Session().ListByAssignment(ctx, nil, assignmentID, repositories.SessionFilters{})
	if err != nil {
		return nil, err
	}
	sessions = CountableSessions(sessions)

	ids := sessionIDs(sessions)
	progressIndex, err := buildProgressIndex(ctx, s.repo.Progress(), assignmentID, ids)
	if err != nil {
		return nil, err
	}
	messageIndex, err := buildMessageIndex(ctx, s.repo.Message(), assignmentID, ids)
	if err != nil {
		return nil, err
	}

	metrics := make([]QuestionMetrics, 0, len(questions))
	for _, question := range questions {
		metrics = append(metrics, s.computeQuestionMetrics(question, ids, progressIndex, messageIndex))
	}

	response := &QuestionBreakdownResponse{
		AssignmentID: assignment.ID,
		Title:        assignment.Title,
		Questions:    metrics,
		TopStruggles: topStruggles(metrics, 5),
	}

	s.publishStruggleEvents(ctx, assignment.ID, response.TopStruggles)

	return response, nil
}

func (s *analyticsService) GetClassOverview(ctx context.Context, teacherID string, classID uint) (*ClassOverviewResponse, error) {
	s.logger.Info("Getting class overview", "class_id", classID, "teacher_id", teacherID)

	class, err := ownedClass(ctx, s.repo, teacherID, classID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.Assignment().ListByClass(ctx, nil, classID, repositories.AssignmentFilters{})
	if err != nil {
		return nil, err
	}

	var (
		summaries      []AssignmentSummary
		allRates       []float64
		messageSamples []float64
		timeSamples    []float64
		totalSessions  int
	)
	// A student active in several assignments counts once, under the same
	// display-name identity the class roster merges by
	studentNames := make(map[string]bool)

	for _, assignment := range assignments {
		rollup, err := s.rollupAssignment(ctx, assignment)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, rollup.summary())
		allRates = append(allRates, rollup.rates...)
		messageSamples = append(messageSamples, rollup.messageSamples...)
		timeSamples = append(timeSamples, rollup.timeSamples...)
		totalSessions += len(rollup.sessions)
		for _, session := range rollup.sessions {
			studentNames[session.Name] = true
		}
	}

	totalStudents := len(studentNames)

	response := &ClassOverviewResponse{
		ClassID:               class.ID,
		ClassName:             class.Name,
		TotalAssignments:      len(assignments),
		TotalStudents:         totalStudents,
		HasData:               totalStudents > 0,
		OverallCompletionRate: meanOf(allRates),
		MessageStats:          Summarize(messageSamples),
		TimeStats:             Summarize(timeSamples),
		Assignments:           summaries,
	}

	s.publishReportEvent(ctx, class.ID, teacherID, "class_overview", totalStudents, totalSessions)

	return response, nil
}

func (s *analyticsService) GetAssignmentComparison(ctx context.Context, teacherID string, classID uint) (*AssignmentComparisonResponse, error) {
	s.logger.Info("Getting assignment comparison", "class_id", classID, "teacher_id", teacherID)

	class, err := ownedClass(ctx, s.repo, teacherID, classID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.Assignment().ListByClass(ctx, nil, classID, repositories.AssignmentFilters{})
	if err != nil {
		return nil, err
	}

	summaries := make([]AssignmentSummary, 0, len(assignments))
	for _, assignment := range assignments {
		rollup, err := s.rollupAssignment(ctx, assignment)
		if err != nil {
			return nil, err
		}

		// Assignments nobody has worked on yet would distort the comparison
		if len(rollup.sessions) == 0 {
			continue
		}
		summaries = append(summaries, rollup.summary())
	}

	return &AssignmentComparisonResponse{
		ClassID:     class.ID,
		Assignments: summaries,
	}, nil
}

// computeQuestionMetrics aggregates one question over all countable sessions.
// Sessions without student messages on the question are left out of the
// message samples entirely instead of contributing zeros.
func (s *analyticsService) computeQuestionMetrics(question *models.Question, ids []uint, progressIndex map[uint][]*models.StudentProgress, messageIndex map[uint][]*models.ChatMessage) QuestionMetrics {
	var (
		attempted      int
		correct        int
		timeSamples    []float64
		messageSamples []float64
	)

	for _, id := range ids {
		for _, record := range progressIndex[id] {
			if record.QuestionID != question.ID {
				continue
			}
			attempted++
			if record.Status == models.ProgressCorrect {
				correct++
			}
			timeSamples = append(timeSamples, float64(record.TimeSpentMs))
		}

		count := 0
		for _, msg := range messageIndex[id] {
			if msg.QuestionID == question.ID {
				count++
			}
		}
		if count > 0 {
			messageSamples = append(messageSamples, float64(count))
		}
	}

	successRate := 0.0
	if attempted > 0 {
		successRate = float64(correct) / float64(attempted)
	}

	metrics := QuestionMetrics{
		QuestionID:     question.ID,
		Number:         question.Number,
		Text:           truncateText(question.Text, questionTextLimit),
		Type:           question.Type,
		AttemptedCount: attempted,
		CorrectCount:   correct,
		SuccessRate:    successRate,
	}

	avgMessages := 0.0
	if stats := Summarize(messageSamples); stats != nil {
		avgMessages = stats.Mean
		metrics.MeanMessages = &stats.Mean
		metrics.MedianMessages = &stats.Median
	}
	if stats := Summarize(timeSamples); stats != nil {
		metrics.MeanTimeMs = &stats.Mean
	}

	metrics.StruggleScore = (1 - successRate) * math.Max(avgMessages, 1)

	return metrics
}

// questionTextLimit caps question text in breakdown rows. The full text lives
// in the session drill-down.
const questionTextLimit = 80

func truncateText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

// topStruggles returns the highest-scoring questions. The stable sort keeps
// question order as the tie-break so equal scores rank by position in the
// assignment.
func topStruggles(metrics []QuestionMetrics, limit int) []QuestionMetrics {
	ranked := make([]QuestionMetrics, len(metrics))
	copy(ranked, metrics)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].StruggleScore > ranked[j].StruggleScore
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
