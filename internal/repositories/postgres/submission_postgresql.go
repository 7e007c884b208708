package postgres

import (
	"context"
	"fmt"

	"github.com/forsyth-county/learn/internal/models"
	"github.com/forsyth-county/learn/internal/repositories"
	"gorm.io/gorm"
)

type SubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{db: db}
}

func (s *SubmissionPostgreSQL) Create(ctx context.Context, submission *models.Submission) error {
	if err := s.db.WithContext(ctx).Omit("Quiz").Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

// ListByQuiz lists submissions for a quiz, newest first
func (s *SubmissionPostgreSQL) ListByQuiz(ctx context.Context, quizID uint, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Submission{}).Where("quiz_id = ?", quizID)
	if filters.DateFrom != nil {
		query = query.Where("completed_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("completed_at <= ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	var submissions []*models.Submission
	if err := applyPagination(query, filters.Limit, filters.Offset).
		Order("completed_at DESC").
		Order("id DESC").
		Find(&submissions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}

	return submissions, total, nil
}

// DeleteByQuiz removes every submission for a quiz and returns how many went
func (s *SubmissionPostgreSQL) DeleteByQuiz(ctx context.Context, quizID uint) (int64, error) {
	result := s.db.WithContext(ctx).Where("quiz_id = ?", quizID).Delete(&models.Submission{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete submissions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// GetCreatorStats aggregates quiz and submission counts for a creator. The
// average is over all submissions; a zero-point submission counts as 0%.
func (s *SubmissionPostgreSQL) GetCreatorStats(ctx context.Context, creatorID string) (*repositories.CreatorStats, error) {
	stats := &repositories.CreatorStats{}

	if err := s.db.WithContext(ctx).
		Model(&models.Quiz{}).
		Where("creator_id = ?", creatorID).
		Count(&stats.TotalQuizzes).Error; err != nil {
		return nil, fmt.Errorf("failed to count quizzes: %w", err)
	}

	var row struct {
		Total   int64
		Average float64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("COUNT(*) AS total, " +
			"COALESCE(AVG(CASE WHEN submissions.total_points > 0 " +
			"THEN submissions.score * 100.0 / submissions.total_points ELSE 0 END), 0) AS average").
		Joins("JOIN quizzes ON quizzes.id = submissions.quiz_id").
		Where("quizzes.creator_id = ?", creatorID).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate submissions: %w", err)
	}

	stats.TotalSubmissions = row.Total
	stats.AveragePercentage = row.Average
	return stats, nil
}

func (s *SubmissionPostgreSQL) ListRecentByCreator(ctx context.Context, creatorID string, limit int) ([]*repositories.RecentSubmission, error) {
	var recent []*repositories.RecentSubmission
	err := s.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("submissions.id, submissions.quiz_id, quizzes.title AS quiz_title, " +
			"submissions.student_name, submissions.score, submissions.total_points, submissions.completed_at").
		Joins("JOIN quizzes ON quizzes.id = submissions.quiz_id").
		Where("quizzes.creator_id = ?", creatorID).
		Order("submissions.completed_at DESC").
		Limit(limit).
		Scan(&recent).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent submissions: %w", err)
	}
	return recent, nil
}
