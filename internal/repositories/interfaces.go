package repositories

import (
	"github.com/classpilot/analytics-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type AssignmentFilters struct {
	IncludeDrafts bool                     `json:"include_drafts"`
	Status        *models.AssignmentStatus `json:"status"`
}

type SessionFilters struct {
	// IncludePreviews keeps teacher_preview sessions in the result. Analytics
	// queries leave this false; the session detail endpoint needs the raw row
	// to reject previews explicitly.
	IncludePreviews bool `json:"include_previews"`
}

// UserFilters defines filters for user queries
type UserFilters struct {
	Query  string // Search query for name or email
	Limit  int    // Page size
	Offset int    // Offset for pagination
}
