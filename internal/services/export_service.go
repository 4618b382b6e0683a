package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/assignment-engine/internal/repositories"
)

// ExportService produces the teacher-side XLSX roster of submissions for
// an assignment. Scores come straight from the stored submissions; this
// surface never re-derives grades.
type ExportService interface {
	ExportSubmissions(ctx context.Context, assignmentID string) ([]byte, error)
}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportSubmissions(ctx context.Context, assignmentID string) ([]byte, error) {
	assignment, err := s.repo.Assignment().GetByID(ctx, assignmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	submissions, err := s.repo.Submission().GetByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submissions: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Submissions"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Student ID", "Student Name", "Grade", "Max Points", "Percentage",
		"Status", "Auto Submitted", "Submitted At",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, submission := range submissions {
		percentage := 0.0
		if submission.MaxPoints > 0 {
			percentage = float64(submission.Grade) / float64(submission.MaxPoints) * 100
		}
		row := []interface{}{
			submission.StudentID,
			submission.StudentName,
			submission.Grade,
			submission.MaxPoints,
			fmt.Sprintf("%.1f%%", percentage),
			string(submission.Status),
			submission.AutoSubmitted,
			submission.SubmittedAt.Format(time.RFC3339),
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported submissions",
		"assignment_id", assignment.ID,
		"count", len(submissions))

	return buf.Bytes(), nil
}
