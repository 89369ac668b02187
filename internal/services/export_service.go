package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/classpilot/analytics-service/internal/events"
)

// ===== EXPORT TYPES =====

type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatCSV  ExportFormat = "csv"
)

type ExportResult struct {
	Data        []byte `json:"-"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// ===== SERVICE INTERFACE =====

type ExportService interface {
	ExportClassAnalytics(ctx context.Context, teacherID string, classID uint, format ExportFormat) (*ExportResult, error)
}

// ===== SERVICE IMPLEMENTATION =====

type exportService struct {
	analytics AnalyticsService
	students  StudentInsightService
	logger    *slog.Logger
	publisher events.EventPublisher
}

func NewExportService(analytics AnalyticsService, students StudentInsightService, logger *slog.Logger, publisher events.EventPublisher) ExportService {
	return &exportService{
		analytics: analytics,
		students:  students,
		logger:    logger,
		publisher: publisher,
	}
}

// ExportClassAnalytics renders the class overview and student roster as a
// downloadable file. Ownership is enforced by the underlying queries.
func (s *exportService) ExportClassAnalytics(ctx context.Context, teacherID string, classID uint, format ExportFormat) (*ExportResult, error) {
	s.logger.Info("Exporting class analytics", "class_id", classID, "format", format)

	overview, err := s.analytics.GetClassOverview(ctx, teacherID, classID)
	if err != nil {
		return nil, err
	}

	roster, err := s.students.GetClassStudents(ctx, teacherID, classID)
	if err != nil {
		return nil, err
	}

	var result *ExportResult
	switch format {
	case ExportFormatXLSX:
		result, err = s.buildWorkbook(overview, roster)
	case ExportFormatCSV:
		result, err = s.buildCSV(overview, roster)
	default:
		return nil, ErrExportUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := events.NewExportCompletedEvent(classID, teacherID, string(format), len(result.Data))
		if err := s.publisher.PublishAnalyticsEvent(ctx, event); err != nil {
			s.logger.Warn("Failed to publish export event", "class_id", classID, "error", err)
		}
	}

	return result, nil
}

func (s *exportService) buildWorkbook(overview *ClassOverviewResponse, roster *ClassStudentsResponse) (*ExportResult, error) {
	f := excelize.NewFile()

	// Overview sheet
	sheetName := "Overview"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	overviewRows := [][]interface{}{
		{"Class", overview.ClassName},
		{"Assignments", overview.TotalAssignments},
		{"Students", overview.TotalStudents},
		{"Overall completion rate", roundFloat(overview.OverallCompletionRate*100, 1)},
	}
	for rowIndex, row := range overviewRows {
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+1)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	// Assignments sheet
	assignmentSheet := "Assignments"
	if _, err := f.NewSheet(assignmentSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	assignmentHeaders := []string{"Assignment", "Students", "Completion Rate (%)", "Median Messages", "Median Time (s)"}
	for i, header := range assignmentHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(assignmentSheet, cell, header)
	}
	for rowIndex, summary := range overview.Assignments {
		row := []interface{}{
			summary.Title,
			summary.StudentCount,
			roundFloat(summary.CompletionRate*100, 1),
			distributionMedian(summary.MessageStats),
			distributionMedianSeconds(summary.TimeStats),
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(assignmentSheet, cell, value)
		}
	}

	// Students sheet
	studentSheet := "Students"
	if _, err := f.NewSheet(studentSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	studentHeaders := []string{"Name", "Sessions", "Correct", "Questions", "Completion Rate (%)", "Avg Messages", "Understanding", "Last Active"}
	for i, header := range studentHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(studentSheet, cell, header)
	}
	for rowIndex, student := range roster.Students {
		row := []interface{}{
			student.Name,
			student.SessionCount,
			student.CorrectTotal,
			student.QuestionTotal,
			roundFloat(student.CompletionRate*100, 1),
			roundFloat(student.AvgMessages, 1),
			string(student.Understanding),
			time.UnixMilli(student.LastActiveAt).UTC().Format("2006-01-02 15:04"),
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(studentSheet, cell, value)
		}
	}

	// Remove the default sheet excelize creates
	f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return &ExportResult{
		Data:        buf.Bytes(),
		Filename:    fmt.Sprintf("class-%d-analytics.xlsx", overview.ClassID),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}, nil
}

func (s *exportService) buildCSV(overview *ClassOverviewResponse, roster *ClassStudentsResponse) (*ExportResult, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"name", "sessions", "correct", "questions", "completion_rate", "avg_messages", "understanding", "last_active"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, student := range roster.Students {
		record := []string{
			student.Name,
			strconv.Itoa(student.SessionCount),
			strconv.Itoa(student.CorrectTotal),
			strconv.Itoa(student.QuestionTotal),
			strconv.FormatFloat(student.CompletionRate, 'f', 4, 64),
			strconv.FormatFloat(student.AvgMessages, 'f', 2, 64),
			string(student.Understanding),
			time.UnixMilli(student.LastActiveAt).UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return &ExportResult{
		Data:        buf.Bytes(),
		Filename:    fmt.Sprintf("class-%d-analytics.csv", overview.ClassID),
		ContentType: "text/csv",
	}, nil
}

func distributionMedian(stats *Distribution) interface{} {
	if stats == nil {
		return ""
	}
	return roundFloat(stats.Median, 1)
}

func distributionMedianSeconds(stats *Distribution) interface{} {
	if stats == nil {
		return ""
	}
	return roundFloat(stats.Median/1000, 1)
}
