package models

import (
	"time"
)

type SessionMode string

const (
	SessionModeStudent SessionMode = "student"
	// SessionModeTeacherPreview tags sessions created when a teacher walks
	// through the student flow. They never count toward metrics.
	SessionModeTeacherPreview SessionMode = "teacher_preview"
)

type StudentSession struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	AssignmentID uint   `json:"assignment_id" gorm:"not null;index"`
	Name         string `json:"name" gorm:"not null;size:100"`

	// Mode is nullable: rows written before preview sessions existed have no
	// mode and count as student sessions.
	Mode *SessionMode `json:"mode" gorm:"size:32;index"`

	LastActiveAt time.Time `json:"last_active_at" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Assignment *Assignment `json:"assignment,omitempty" gorm:"foreignKey:AssignmentID"`
}

func (StudentSession) TableName() string {
	return "student_sessions"
}

// IsCountable reports whether the session contributes to analytics.
// A missing mode is treated as a real student session.
func (s *StudentSession) IsCountable() bool {
	return s.Mode == nil || *s.Mode != SessionModeTeacherPreview
}

type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCorrect    ProgressStatus = "correct"
	ProgressIncorrect  ProgressStatus = "incorrect"
)

type StudentProgress struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	SessionID  uint `json:"session_id" gorm:"not null;index"`
	QuestionID uint `json:"question_id" gorm:"not null;index"`

	// AssignmentID is a denormalized copy kept purely for assignment-scoped
	// queries. Legacy rows have it unset and are reached through the
	// per-session fallback index instead.
	AssignmentID *uint `json:"assignment_id" gorm:"index"`

	Status      ProgressStatus `json:"status" gorm:"default:not_started"`
	TimeSpentMs int64          `json:"time_spent_ms" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Session  *StudentSession `json:"session,omitempty" gorm:"foreignKey:SessionID"`
	Question *Question       `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
}

func (StudentProgress) TableName() string {
	return "student_progress"
}

type MessageRole string

const (
	MessageRoleStudent MessageRole = "student"
	MessageRoleTutor   MessageRole = "tutor"
	MessageRoleSystem  MessageRole = "system"
)

type ChatMessage struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	SessionID  uint `json:"session_id" gorm:"not null;index"`
	QuestionID uint `json:"question_id" gorm:"not null;index"`

	// Same denormalization-with-fallback contract as StudentProgress.
	AssignmentID *uint `json:"assignment_id" gorm:"index"`

	Role    MessageRole `json:"role" gorm:"not null;size:16;index"`
	Content string      `json:"content" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Session  *StudentSession `json:"session,omitempty" gorm:"foreignKey:SessionID"`
	Question *Question       `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
