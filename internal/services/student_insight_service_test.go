package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classpilot/analytics-service/internal/models"
)

// buildInsightFixture sets up a class where student "An" worked on two
// assignments: 3 of 5 questions on the first, 4 of 4 on the second.
func buildInsightFixture() *fakeRepository {
	repo := newFakeRepository()

	repo.addClass(&models.Class{ID: 1, Name: "Math 6A", TeacherID: "t1"})
	repo.addAssignment(&models.Assignment{ID: 10, ClassID: 1, Title: "Fractions"})
	repo.addAssignment(&models.Assignment{ID: 11, ClassID: 1, Title: "Decimals"})

	for i := uint(1); i <= 5; i++ {
		repo.questions[10] = append(repo.questions[10], &models.Question{ID: i, AssignmentID: 10, Number: int(i)})
	}
	for i := uint(6); i <= 9; i++ {
		repo.questions[11] = append(repo.questions[11], &models.Question{ID: i, AssignmentID: 11, Number: int(i - 5)})
	}

	repo.addSession(&models.StudentSession{ID: 100, AssignmentID: 10, Name: "An", LastActiveAt: time.Unix(1000, 0)})
	repo.addSession(&models.StudentSession{ID: 200, AssignmentID: 11, Name: "An", LastActiveAt: time.Unix(5000, 0)})

	for i := uint(1); i <= 3; i++ {
		repo.addProgress(10, &models.StudentProgress{SessionID: 100, QuestionID: i, Status: models.ProgressCorrect, TimeSpentMs: 10000})
	}
	for i := uint(6); i <= 9; i++ {
		repo.addProgress(11, &models.StudentProgress{SessionID: 200, QuestionID: i, Status: models.ProgressCorrect, TimeSpentMs: 5000})
	}

	return repo
}

func TestGetClassStudents_MergesByName(t *testing.T) {
	ctx := context.Background()
	repo := buildInsightFixture()
	service := NewStudentInsightService(repo, nil, testLogger())

	roster, err := service.GetClassStudents(ctx, "t1", 1)
	require.NoError(t, err)

	require.Len(t, roster.Students, 1)
	student := roster.Students[0]

	assert.Equal(t, "An", student.Name)
	assert.Equal(t, 2, student.SessionCount)
	assert.Equal(t, 7, student.CorrectTotal)
	assert.Equal(t, 9, student.QuestionTotal)
	// Totals are pooled before dividing: 7/9, not the mean of 3/5 and 4/4
	assert.InDelta(t, 7.0/9.0, student.CompletionRate, 1e-9)
	assert.Equal(t, time.Unix(5000, 0).UnixMilli(), student.LastActiveAt)
}

func TestGetAssignmentStudents_SortedByLastActive(t *testing.T) {
	ctx := context.Background()
	repo := buildInsightFixture()
	repo.addSession(&models.StudentSession{ID: 101, AssignmentID: 10, Name: "Binh", LastActiveAt: time.Unix(9000, 0)})
	repo.addMessage(10, &models.ChatMessage{SessionID: 100, QuestionID: 1, Content: "is 2/4 the same as 1/2"})
	repo.addMessage(10, &models.ChatMessage{SessionID: 100, QuestionID: 2, Content: "stuck here"})
	service := NewStudentInsightService(repo, nil, testLogger())

	resp, err := service.GetAssignmentStudents(ctx, "t1", 10)
	require.NoError(t, err)

	assert.Equal(t, "Fractions", resp.Title)
	require.Len(t, resp.Students, 2)
	assert.Equal(t, "Binh", resp.Students[0].Name) // most recently active first
	assert.Equal(t, "An", resp.Students[1].Name)

	an := resp.Students[1]
	assert.Equal(t, 3, an.CorrectCount)
	assert.Equal(t, 5, an.QuestionCount)
	assert.InDelta(t, 0.6, an.CompletionRate, 1e-9)
	assert.Equal(t, 2, an.TotalMessages)
	assert.InDelta(t, 0.4, an.AvgMessages, 1e-9)
	assert.Equal(t, int64(30000), an.TotalTimeMs) // 3 progress rows x 10s

	binh := resp.Students[0]
	assert.Equal(t, 0, binh.CorrectCount)
	assert.Equal(t, 0.0, binh.CompletionRate)
	assert.Equal(t, 0, binh.TotalMessages)
	assert.Equal(t, int64(0), binh.TotalTimeMs)
}

func TestGetAssignmentStudents_NoQuestions(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	repo.addClass(&models.Class{ID: 1, TeacherID: "t1"})
	repo.addAssignment(&models.Assignment{ID: 10, ClassID: 1, Title: "Empty"})
	repo.addSession(&models.StudentSession{ID: 100, AssignmentID: 10, Name: "An", LastActiveAt: time.Unix(1000, 0)})

	service := NewStudentInsightService(repo, nil, testLogger())

	resp, err := service.GetAssignmentStudents(ctx, "t1", 10)
	require.NoError(t, err)

	require.Len(t, resp.Students, 1)
	// Zero countable questions must yield a 0 rate, never NaN
	assert.Equal(t, 0.0, resp.Students[0].CompletionRate)
	assert.Equal(t, 0, resp.Students[0].QuestionCount)
}

func TestGetSessionDetail(t *testing.T) {
	ctx := context.Background()
	repo := buildInsightFixture()
	repo.addMessage(10, &models.ChatMessage{SessionID: 100, QuestionID: 1, Content: "hint please"})
	service := NewStudentInsightService(repo, nil, testLogger())

	detail, err := service.GetSessionDetail(ctx, "t1", 100)
	require.NoError(t, err)

	assert.Equal(t, uint(100), detail.SessionID)
	assert.Equal(t, "An", detail.Name)
	require.Len(t, detail.Questions, 5)

	first := detail.Questions[0]
	assert.Equal(t, models.ProgressCorrect, first.Status)
	assert.Equal(t, 1, first.MessageCount)
	assert.Equal(t, int64(10000), first.TimeSpentMs)

	// Question 4 has no progress row: defaults, not an omission
	fourth := detail.Questions[3]
	assert.Equal(t, models.ProgressNotStarted, fourth.Status)
	assert.Equal(t, 0, fourth.MessageCount)
	assert.Equal(t, int64(0), fourth.TimeSpentMs)
}

func TestGetSessionDetail_Concealment(t *testing.T) {
	ctx := context.Background()
	repo := buildInsightFixture()
	preview := models.SessionModeTeacherPreview
	repo.addSession(&models.StudentSession{ID: 300, AssignmentID: 10, Name: "Teacher", Mode: &preview})
	service := NewStudentInsightService(repo, nil, testLogger())

	t.Run("unknown session", func(t *testing.T) {
		_, err := service.GetSessionDetail(ctx, "t1", 999)
		assert.ErrorIs(t, err, ErrSessionNotFound)
		assert.True(t, IsConcealable(err))
	})

	t.Run("preview session", func(t *testing.T) {
		_, err := service.GetSessionDetail(ctx, "t1", 300)
		assert.ErrorIs(t, err, ErrSessionIsPreview)
		assert.True(t, IsConcealable(err))
	})

	t.Run("session of a foreign assignment", func(t *testing.T) {
		_, err := service.GetSessionDetail(ctx, "t2", 100)
		assert.ErrorIs(t, err, ErrAssignmentAccessDenied)
		assert.True(t, IsConcealable(err))
	})
}

func TestUnderstandingLevel(t *testing.T) {
	tests := []struct {
		name        string
		rate        float64
		avgMessages float64
		want        UnderstandingLevel
	}{
		{name: "strong rate, few messages", rate: 0.9, avgMessages: 2, want: UnderstandingHigh},
		{name: "boundary high", rate: 0.8, avgMessages: 5, want: UnderstandingHigh},
		{name: "strong rate but heavy tutoring", rate: 0.9, avgMessages: 6, want: UnderstandingMedium},
		{name: "weak rate but light tutoring", rate: 0.2, avgMessages: 3, want: UnderstandingMedium},
		{name: "boundary medium by rate", rate: 0.5, avgMessages: 20, want: UnderstandingMedium},
		{name: "boundary medium by messages", rate: 0.1, avgMessages: 10, want: UnderstandingMedium},
		{name: "weak on both", rate: 0.4, avgMessages: 11, want: UnderstandingLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, understandingLevel(tt.rate, tt.avgMessages))
		})
	}
}
