package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/forsyth-county/learn/internal/models"
	"github.com/forsyth-county/learn/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

func exportFixtures() (*models.Quiz, []*models.Submission) {
	quiz := scenarioQuiz()
	quiz.ID = 7

	identifier := "=HYPERLINK(\"x\")"
	taken := 95
	submissions := []*models.Submission{
		{
			ID:          1,
			QuizID:      7,
			StudentName: "Ada",
			Answers:     datatypes.JSON(`{"Q1":"4","Q2":["A","C"]}`),
			Score:       3,
			TotalPoints: 3,
			CompletedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
			TimeTaken:   &taken,
		},
		{
			ID:                2,
			QuizID:            7,
			StudentName:       "Bo",
			StudentIdentifier: &identifier,
			Answers:           datatypes.JSON(`{"Q1":"5"}`),
			Score:             0,
			TotalPoints:       3,
			CompletedAt:       time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC),
			ExceededTimeLimit: true,
		},
	}
	return quiz, submissions
}

func newExportRepo(quiz *models.Quiz, submissions []*models.Submission) *MockRepository {
	repo := newMockRepository()
	repo.quiz.On("GetByID", mock.Anything, quiz.ID).Return(quiz, nil)
	repo.submission.On("ListByQuiz", mock.Anything, quiz.ID, repositories.SubmissionFilters{}).
		Return(submissions, int64(len(submissions)), nil)
	return repo
}

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    ExportFormat
		wantErr bool
	}{
		{"", ExportCSV, false},
		{"csv", ExportCSV, false},
		{" XLSX ", ExportXLSX, false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseExportFormat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				assert.True(t, IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExportService_CSV(t *testing.T) {
	quiz, submissions := exportFixtures()
	svc := NewExportService(newExportRepo(quiz, submissions), testLogger())

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), quiz.ID, "teacher-1", ExportCSV, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"Student Name", "Student Identifier", "Score", "Total Points", "Percentage",
		"Completed At", "Time Taken (s)", "Exceeded Time Limit", "Q1: 2+2?", "Q2: Pick the vowels",
	}, records[0])
	assert.Equal(t, []string{
		"Ada", "", "3", "3", "100", "2025-03-01T12:00:00Z", "95", "false", "4", "A, C",
	}, records[1])
	assert.Equal(t, "'=HYPERLINK(\"x\")", records[2][1])
	assert.Equal(t, "true", records[2][7])
	assert.Equal(t, "", records[2][9])
}

func TestExportService_XLSX(t *testing.T) {
	quiz, submissions := exportFixtures()
	svc := NewExportService(newExportRepo(quiz, submissions), testLogger())

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), quiz.ID, "teacher-1", ExportXLSX, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Student Name", rows[0][0])
	assert.Equal(t, "Bo", rows[2][0])
	assert.Equal(t, "=HYPERLINK(\"x\")", rows[2][1])
}

func TestExportService_NotOwner(t *testing.T) {
	quiz, _ := exportFixtures()
	repo := newMockRepository()
	repo.quiz.On("GetByID", mock.Anything, quiz.ID).Return(quiz, nil)
	svc := NewExportService(repo, testLogger())

	var buf bytes.Buffer
	err := svc.Export(context.Background(), quiz.ID, "teacher-2", ExportCSV, &buf)
	assert.ErrorIs(t, err, ErrQuizNotFound)
	assert.Zero(t, buf.Len())
	repo.submission.AssertNotCalled(t, "ListByQuiz", mock.Anything, mock.Anything, mock.Anything)
}

func TestExportService_UnknownFormat(t *testing.T) {
	quiz, submissions := exportFixtures()
	svc := NewExportService(newExportRepo(quiz, submissions), testLogger())

	var buf bytes.Buffer
	err := svc.Export(context.Background(), quiz.ID, "teacher-1", ExportFormat("pdf"), &buf)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestCSVSafe(t *testing.T) {
	tests := map[string]string{
		"":     "",
		"Ada":  "Ada",
		"=1+1": "'=1+1",
		"+1":   "'+1",
		"-1":   "'-1",
		"@SUM": "'@SUM",
		"\tx":  "'\tx",
		"a=b":  "a=b",
		"100":  "100",
		"A, C": "A, C",
	}
	for in, want := range tests {
		assert.Equal(t, want, csvSafe(in), "input %q", in)
	}
}
