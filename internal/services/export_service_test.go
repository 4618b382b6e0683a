package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/assignment-engine/internal/models"
)

func TestExportSubmissions(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository(testAssignment(t, 0))
	repo.submissions["assignment-1:student-1"] = &models.Submission{
		ID:           "sub-1",
		AssignmentID: "assignment-1",
		StudentID:    "student-1",
		StudentName:  "Alex",
		Grade:        6,
		MaxPoints:    8,
		Status:       models.SubmissionGraded,
		SubmittedAt:  time.Unix(1_700_000_000, 0),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewExportService(repo, logger)

	data, err := service.ExportSubmissions(ctx, "assignment-1")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Submissions")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Student ID", rows[0][0])
	assert.Equal(t, "student-1", rows[1][0])
	assert.Equal(t, "Alex", rows[1][1])
	assert.Equal(t, "6", rows[1][2])
	assert.Equal(t, "75.0%", rows[1][4])
	assert.Equal(t, "graded", rows[1][5])
}

func TestExportSubmissions_UnknownAssignment(t *testing.T) {
	repo := newFakeRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewExportService(repo, logger)

	_, err := service.ExportSubmissions(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}
