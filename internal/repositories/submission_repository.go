package repositories

import (
	"context"

	"github.com/forsyth-county/learn/internal/models"
)

// SubmissionRepository interface for submission operations. Submissions are
// append-only: there is no Update.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error

	// Query operations
	ListByQuiz(ctx context.Context, quizID uint, filters SubmissionFilters) ([]*models.Submission, int64, error)

	// Bulk operations
	DeleteByQuiz(ctx context.Context, quizID uint) (int64, error)

	// Statistics
	GetCreatorStats(ctx context.Context, creatorID string) (*CreatorStats, error)
	ListRecentByCreator(ctx context.Context, creatorID string, limit int) ([]*RecentSubmission, error)
}
