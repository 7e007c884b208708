package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/forsyth-county/learn/internal/grading"
	"github.com/forsyth-county/learn/internal/models"
	"github.com/forsyth-county/learn/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Submissions"

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// ParseExportFormat accepts "csv" or "xlsx", case-insensitively; empty means csv
func ParseExportFormat(value string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(ExportCSV):
		return ExportCSV, nil
	case string(ExportXLSX):
		return ExportXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, value)
	}
}

func (s *exportService) Export(ctx context.Context, quizID uint, creatorID string, format ExportFormat, w io.Writer) error {
	s.logger.Info("Exporting submissions", "quiz_id", quizID, "format", format)

	quiz, err := loadOwnedQuiz(ctx, s.repo, s.logger, quizID, creatorID)
	if err != nil {
		return err
	}

	submissions, _, err := s.repo.Submission().ListByQuiz(ctx, quiz.ID, repositories.SubmissionFilters{})
	if err != nil {
		return fmt.Errorf("failed to list submissions: %w", err)
	}

	rows := exportRows(quiz, submissions)

	switch format {
	case ExportCSV:
		err = writeCSV(w, rows)
	case ExportXLSX:
		err = writeXLSX(w, rows)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	s.logger.Info("Submissions exported successfully", "quiz_id", quiz.ID, "rows", len(submissions))
	return nil
}

// exportRows builds the header row followed by one row per submission
func exportRows(quiz *models.Quiz, submissions []*models.Submission) [][]string {
	header := []string{
		"Student Name",
		"Student Identifier",
		"Score",
		"Total Points",
		"Percentage",
		"Completed At",
		"Time Taken (s)",
		"Exceeded Time Limit",
	}
	for i := range quiz.Questions {
		header = append(header, fmt.Sprintf("Q%d: %s", i+1, quiz.Questions[i].Text))
	}

	rows := make([][]string, 0, len(submissions)+1)
	rows = append(rows, header)

	for _, sub := range submissions {
		identifier := ""
		if sub.StudentIdentifier != nil {
			identifier = *sub.StudentIdentifier
		}
		timeTaken := ""
		if sub.TimeTaken != nil {
			timeTaken = fmt.Sprintf("%d", *sub.TimeTaken)
		}

		row := []string{
			sub.StudentName,
			identifier,
			fmt.Sprintf("%d", sub.Score),
			fmt.Sprintf("%d", sub.TotalPoints),
			fmt.Sprintf("%d", sub.Percentage()),
			sub.CompletedAt.UTC().Format(time.RFC3339),
			timeTaken,
			fmt.Sprintf("%t", sub.ExceededTimeLimit),
		}

		var answers map[string]json.RawMessage
		if len(sub.Answers) > 0 {
			// A row with undecodable answers still exports its score
			_ = json.Unmarshal(sub.Answers, &answers)
		}
		for i := range quiz.Questions {
			value := grading.ParseValue(answers[quiz.Questions[i].ID])
			row = append(row, strings.Join(value.Values, ", "))
		}

		rows = append(rows, row)
	}
	return rows
}

// csvSafe stops spreadsheet applications from evaluating student input as a formula
func csvSafe(value string) string {
	if value != "" && strings.ContainsRune("=+-@\t\r", rune(value[0])) {
		return "'" + value
	}
	return value
}

func writeCSV(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	for _, row := range rows {
		safe := make([]string, len(row))
		for i, cell := range row {
			safe[i] = csvSafe(cell)
		}
		if err := writer.Write(safe); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeXLSX(w io.Writer, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(exportSheetName, cell, &values); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(exportSheetName, 1, 1, style); err != nil {
		return err
	}

	return f.Write(w)
}
