package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	ShortAnswer    QuestionType = "short_answer"
	OpenEnded      QuestionType = "open_ended"
	// Skipped marks extracted content that is intentionally excluded from
	// scoring and from every analytics count.
	Skipped QuestionType = "skipped"
)

type QuestionStatus string

const (
	QuestionPending  QuestionStatus = "pending"
	QuestionApproved QuestionStatus = "approved"
	QuestionRejected QuestionStatus = "rejected"
)

type Question struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	AssignmentID uint         `json:"assignment_id" gorm:"not null;index"`
	Type         QuestionType `json:"type" gorm:"not null;index"`
	Text         string       `json:"text" gorm:"type:text;not null" validate:"required"`

	// Number is the stable extraction order within the assignment, used for
	// display and for ordering aggregated results.
	Number int `json:"number" gorm:"not null;default:0"`

	Status QuestionStatus `json:"status" gorm:"default:pending;index"`

	// Answer stored as JSONB; see AnswerSpec for the schema
	Answer datatypes.JSON `json:"answer" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Assignment *Assignment `json:"assignment,omitempty" gorm:"foreignKey:AssignmentID"`
}

func (Question) TableName() string {
	return "questions"
}

// Countable reports whether the question participates in analytics.
func (q *Question) Countable() bool {
	return q.Status == QuestionApproved && q.Type != Skipped
}

// ===== ANSWER SCHEMA =====

type AnswerKind string

const (
	AnswerSingle   AnswerKind = "single"
	AnswerMultiple AnswerKind = "multiple"
	AnswerBoolean  AnswerKind = "boolean"
)

// AnswerSpec is the discriminated form of a question's expected answer.
// Legacy rows stored a bare string or a bare string array; UnmarshalJSON
// upgrades both shapes to the tagged form.
type AnswerSpec struct {
	Kind   AnswerKind `json:"kind"`
	Value  string     `json:"value,omitempty"`
	Values []string   `json:"values,omitempty"`
	Flag   bool       `json:"flag,omitempty"`
}

func (a *AnswerSpec) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		a.Kind = AnswerSingle
		a.Value = single
		return nil
	}

	var multiple []string
	if err := json.Unmarshal(data, &multiple); err == nil {
		a.Kind = AnswerMultiple
		a.Values = multiple
		return nil
	}

	type tagged AnswerSpec
	var t tagged
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	*a = AnswerSpec(t)
	return nil
}

// ParseAnswer decodes the stored answer column into its tagged form.
func (q *Question) ParseAnswer() (*AnswerSpec, error) {
	if len(q.Answer) == 0 {
		return nil, nil
	}
	var spec AnswerSpec
	if err := json.Unmarshal(q.Answer, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}
