package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestQuestionCountable(t *testing.T) {
	tests := []struct {
		name     string
		question Question
		want     bool
	}{
		{name: "approved multiple choice", question: Question{Status: QuestionApproved, Type: MultipleChoice}, want: true},
		{name: "approved open ended", question: Question{Status: QuestionApproved, Type: OpenEnded}, want: true},
		{name: "approved but skipped", question: Question{Status: QuestionApproved, Type: Skipped}, want: false},
		{name: "pending", question: Question{Status: QuestionPending, Type: MultipleChoice}, want: false},
		{name: "rejected", question: Question{Status: QuestionRejected, Type: ShortAnswer}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.question.Countable())
		})
	}
}

func TestSessionIsCountable(t *testing.T) {
	student := SessionModeStudent
	preview := SessionModeTeacherPreview

	tests := []struct {
		name    string
		session StudentSession
		want    bool
	}{
		{name: "student mode", session: StudentSession{Mode: &student}, want: true},
		{name: "missing mode counts as student", session: StudentSession{Mode: nil}, want: true},
		{name: "teacher preview", session: StudentSession{Mode: &preview}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.session.IsCountable())
		})
	}
}

func TestParseAnswer(t *testing.T) {
	t.Run("legacy bare string upgrades to single", func(t *testing.T) {
		q := Question{Answer: datatypes.JSON(`"42"`)}

		spec, err := q.ParseAnswer()
		require.NoError(t, err)
		require.NotNil(t, spec)
		assert.Equal(t, AnswerSingle, spec.Kind)
		assert.Equal(t, "42", spec.Value)
	})

	t.Run("legacy bare array upgrades to multiple", func(t *testing.T) {
		q := Question{Answer: datatypes.JSON(`["a","c"]`)}

		spec, err := q.ParseAnswer()
		require.NoError(t, err)
		assert.Equal(t, AnswerMultiple, spec.Kind)
		assert.Equal(t, []string{"a", "c"}, spec.Values)
	})

	t.Run("tagged form passes through", func(t *testing.T) {
		q := Question{Answer: datatypes.JSON(`{"kind":"boolean","flag":true}`)}

		spec, err := q.ParseAnswer()
		require.NoError(t, err)
		assert.Equal(t, AnswerBoolean, spec.Kind)
		assert.True(t, spec.Flag)
	})

	t.Run("empty answer returns nil", func(t *testing.T) {
		q := Question{}

		spec, err := q.ParseAnswer()
		require.NoError(t, err)
		assert.Nil(t, spec)
	})
}
