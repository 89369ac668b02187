package events

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestMockEventPublisher(t *testing.T) {
	ctx := context.Background()
	publisher := NewMockEventPublisher(testLogger())

	event := NewReportGeneratedEvent(1, "t1", "class_overview", 12, 12)
	require.NoError(t, publisher.PublishAnalyticsEvent(ctx, event))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, EventReportGenerated, published[0].Type)
	assert.Equal(t, event.ID, published[0].ID)

	publisher.ClearEvents()
	assert.Empty(t, publisher.GetPublishedEvents())

	assert.NoError(t, publisher.Close())
}

func TestEventFactories(t *testing.T) {
	t.Run("report generated", func(t *testing.T) {
		event := NewReportGeneratedEvent(1, "t1", "class_overview", 12, 12)

		assert.NotEmpty(t, event.ID)
		assert.Equal(t, EventReportGenerated, event.Type)
		assert.Equal(t, "analytics-service", event.Source)
		assert.Equal(t, "1.0", event.Version)

		data, ok := event.Data.(ReportGeneratedEvent)
		require.True(t, ok)
		assert.Equal(t, uint(1), data.ClassID)
		assert.Equal(t, "class_overview", data.ReportType)
	})

	t.Run("struggle detected", func(t *testing.T) {
		event := NewStruggleDetectedEvent(10, 2, 2, 6.4, 0.2)

		assert.Equal(t, EventStruggleDetected, event.Type)

		data, ok := event.Data.(StruggleDetectedEvent)
		require.True(t, ok)
		assert.Equal(t, uint(10), data.AssignmentID)
		assert.Equal(t, 6.4, data.StruggleScore)
		assert.Equal(t, 0.2, data.SuccessRate)
	})

	t.Run("export completed", func(t *testing.T) {
		event := NewExportCompletedEvent(1, "t1", "xlsx", 2048)

		assert.Equal(t, EventExportCompleted, event.Type)

		data, ok := event.Data.(ExportCompletedEvent)
		require.True(t, ok)
		assert.Equal(t, "xlsx", data.Format)
		assert.Equal(t, 2048, data.SizeBytes)
	})

	t.Run("event IDs are unique", func(t *testing.T) {
		first := NewReportGeneratedEvent(1, "t1", "class_overview", 1, 1)
		second := NewReportGeneratedEvent(1, "t1", "class_overview", 1, 1)

		assert.NotEqual(t, first.ID, second.ID)
	})
}
