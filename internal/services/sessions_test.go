package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/classpilot/analytics-service/internal/models"
)

func sessionMode(mode models.SessionMode) *models.SessionMode {
	return &mode
}

func TestCountableSessions(t *testing.T) {
	sessions := []*models.StudentSession{
		{ID: 1, Name: "An", Mode: sessionMode(models.SessionModeStudent)},
		{ID: 2, Name: "Binh", Mode: sessionMode(models.SessionModeTeacherPreview)},
		{ID: 3, Name: "Chi", Mode: nil}, // pre-preview row, counts as a student
	}

	countable := CountableSessions(sessions)

	assert.Len(t, countable, 2)
	assert.Equal(t, uint(1), countable[0].ID)
	assert.Equal(t, uint(3), countable[1].ID)
}

func TestCountableSessions_Empty(t *testing.T) {
	assert.Empty(t, CountableSessions(nil))

	onlyPreviews := []*models.StudentSession{
		{ID: 1, Mode: sessionMode(models.SessionModeTeacherPreview)},
	}
	assert.Empty(t, CountableSessions(onlyPreviews))
}

func TestSessionIDs(t *testing.T) {
	sessions := []*models.StudentSession{{ID: 7}, {ID: 3}, {ID: 9}}

	assert.Equal(t, []uint{7, 3, 9}, sessionIDs(sessions))
}
