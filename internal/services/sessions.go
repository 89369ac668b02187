package services

import (
	"github.com/classpilot/analytics-service/internal/models"
)

// CountableSessions filters out teacher preview sessions. Sessions without a
// mode predate the preview feature and count as real student work.
func CountableSessions(sessions []*models.StudentSession) []*models.StudentSession {
	countable := make([]*models.StudentSession, 0, len(sessions))
	for _, session := range sessions {
		if session.IsCountable() {
			countable = append(countable, session)
		}
	}
	return countable
}

func sessionIDs(sessions []*models.StudentSession) []uint {
	ids := make([]uint, len(sessions))
	for i, session := range sessions {
		ids[i] = session.ID
	}
	return ids
}
