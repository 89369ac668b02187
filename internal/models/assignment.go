package models

import (
	"time"

	"gorm.io/gorm"
)

type AssignmentStatus string

const (
	AssignmentDraft    AssignmentStatus = "draft"
	AssignmentActive   AssignmentStatus = "active"
	AssignmentArchived AssignmentStatus = "archived"
)

type Assignment struct {
	ID      uint             `json:"id" gorm:"primaryKey"`
	ClassID uint             `json:"class_id" gorm:"not null;index"`
	Title   string           `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	IsDraft bool             `json:"is_draft" gorm:"default:true;index"`
	Status  AssignmentStatus `json:"status" gorm:"default:draft;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Class     *Class           `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	Questions []Question       `json:"questions,omitempty" gorm:"foreignKey:AssignmentID"`
	Sessions  []StudentSession `json:"sessions,omitempty" gorm:"foreignKey:AssignmentID"`
}

func (Assignment) TableName() string {
	return "assignments"
}
