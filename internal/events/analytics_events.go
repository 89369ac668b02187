package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of analytics events
type EventType string

const (
	EventReportGenerated  EventType = "analytics.report.generated"
	EventStruggleDetected EventType = "analytics.struggle.detected"
	EventExportCompleted  EventType = "analytics.export.completed"
)

// AnalyticsEvent is the base event structure for all analytics events
type AnalyticsEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type ReportGeneratedEvent struct {
	ClassID      uint   `json:"class_id"`
	TeacherID    string `json:"teacher_id"`
	ReportType   string `json:"report_type"`
	StudentCount int    `json:"student_count"`
	SessionCount int    `json:"session_count"`
}

type StruggleDetectedEvent struct {
	AssignmentID  uint    `json:"assignment_id"`
	QuestionID    uint    `json:"question_id"`
	QuestionNum   int     `json:"question_number"`
	StruggleScore float64 `json:"struggle_score"`
	SuccessRate   float64 `json:"success_rate"`
}

type ExportCompletedEvent struct {
	ClassID   uint   `json:"class_id"`
	TeacherID string `json:"teacher_id"`
	Format    string `json:"format"`
	SizeBytes int    `json:"size_bytes"`
}

// Event factory functions

func NewReportGeneratedEvent(classID uint, teacherID, reportType string, studentCount, sessionCount int) *AnalyticsEvent {
	return &AnalyticsEvent{
		ID:        generateEventID(),
		Type:      EventReportGenerated,
		Timestamp: time.Now(),
		Source:    "analytics-service",
		Version:   "1.0",
		Data: ReportGeneratedEvent{
			ClassID:      classID,
			TeacherID:    teacherID,
			ReportType:   reportType,
			StudentCount: studentCount,
			SessionCount: sessionCount,
		},
	}
}

func NewStruggleDetectedEvent(assignmentID, questionID uint, questionNum int, struggleScore, successRate float64) *AnalyticsEvent {
	return &AnalyticsEvent{
		ID:        generateEventID(),
		Type:      EventStruggleDetected,
		Timestamp: time.Now(),
		Source:    "analytics-service",
		Version:   "1.0",
		Data: StruggleDetectedEvent{
			AssignmentID:  assignmentID,
			QuestionID:    questionID,
			QuestionNum:   questionNum,
			StruggleScore: struggleScore,
			SuccessRate:   successRate,
		},
	}
}

func NewExportCompletedEvent(classID uint, teacherID, format string, sizeBytes int) *AnalyticsEvent {
	return &AnalyticsEvent{
		ID:        generateEventID(),
		Type:      EventExportCompleted,
		Timestamp: time.Now(),
		Source:    "analytics-service",
		Version:   "1.0",
		Data: ExportCompletedEvent{
			ClassID:   classID,
			TeacherID: teacherID,
			Format:    format,
			SizeBytes: sizeBytes,
		},
	}
}

func generateEventID() string {
	return uuid.NewString()
}
