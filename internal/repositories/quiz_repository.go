package repositories

import (
	"context"

	"github.com/forsyth-county/learn/internal/models"
)

// QuizRepository interface for quiz-specific operations
type QuizRepository interface {
	// Basic CRUD operations. Reads include questions ordered by position;
	// Update replaces the question set and Delete cascades to submissions.
	Create(ctx context.Context, quiz *models.Quiz) error
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	Update(ctx context.Context, quiz *models.Quiz) error
	Delete(ctx context.Context, id uint) error

	// Query operations
	GetPublishedByLink(ctx context.Context, linkID string) (*models.Quiz, error)
	ListByCreator(ctx context.Context, creatorID string, filters QuizFilters) ([]*models.Quiz, int64, error)

	// Validation helpers
	ExistsByLink(ctx context.Context, linkID string) (bool, error)
}
