package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classpilot/analytics-service/internal/events"
)

func newExportFixture(t *testing.T, publisher events.EventPublisher) ExportService {
	t.Helper()

	repo := buildAnalyticsFixture()
	analytics := NewAnalyticsService(repo, nil, testLogger(), nil)
	students := NewStudentInsightService(repo, nil, testLogger())
	return NewExportService(analytics, students, testLogger(), publisher)
}

func TestExportClassAnalytics_XLSX(t *testing.T) {
	ctx := context.Background()
	publisher := events.NewMockEventPublisher(testLogger())
	service := newExportFixture(t, publisher)

	result, err := service.ExportClassAnalytics(ctx, "t1", 1, ExportFormatXLSX)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Data)
	assert.Equal(t, "class-1-analytics.xlsx", result.Filename)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.ContentType)

	// xlsx files are zip archives
	assert.Equal(t, []byte{'P', 'K'}, result.Data[:2])

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventExportCompleted, published[0].Type)
}

func TestExportClassAnalytics_CSV(t *testing.T) {
	ctx := context.Background()
	service := newExportFixture(t, nil)

	result, err := service.ExportClassAnalytics(ctx, "t1", 1, ExportFormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "class-1-analytics.csv", result.Filename)
	assert.Equal(t, "text/csv", result.ContentType)

	records, err := csv.NewReader(bytes.NewReader(result.Data)).ReadAll()
	require.NoError(t, err)

	// Header plus the two students from the fixture
	require.Len(t, records, 3)
	assert.Equal(t, "name", records[0][0])
	assert.Equal(t, "An", records[1][0])
	assert.Equal(t, "Binh", records[2][0])
}

func TestExportClassAnalytics_UnsupportedFormat(t *testing.T) {
	ctx := context.Background()
	service := newExportFixture(t, nil)

	_, err := service.ExportClassAnalytics(ctx, "t1", 1, ExportFormat("pdf"))
	assert.ErrorIs(t, err, ErrExportUnsupportedFormat)
}

func TestExportClassAnalytics_Concealment(t *testing.T) {
	ctx := context.Background()
	service := newExportFixture(t, nil)

	_, err := service.ExportClassAnalytics(ctx, "t2", 1, ExportFormatXLSX)
	assert.True(t, IsConcealable(err))
}
