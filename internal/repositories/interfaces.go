package repositories

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("record not found")

// IsNotFoundError reports whether err means the record does not exist
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Repository groups the aggregate repositories and runs units of work
type Repository interface {
	Quiz() QuizRepository
	Submission() SubmissionRepository

	// WithTransaction runs fn against repositories bound to one transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithTransaction(ctx context.Context, fn func(tx Repository) error) error
}

// ===== SHARED FILTER STRUCTS =====

type QuizFilters struct {
	IsPublished *bool  `json:"isPublished"`
	Limit       int    `json:"limit"`
	Offset      int    `json:"offset"`
	SortBy      string `json:"sortBy"`    // "updated_at", "created_at", "title"
	SortOrder   string `json:"sortOrder"` // "asc", "desc"
}

type SubmissionFilters struct {
	DateFrom *time.Time `json:"dateFrom"`
	DateTo   *time.Time `json:"dateTo"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type CreatorStats struct {
	TotalQuizzes      int64   `json:"totalQuizzes"`
	TotalSubmissions  int64   `json:"totalSubmissions"`
	AveragePercentage float64 `json:"averageScore"`
}

type RecentSubmission struct {
	ID          uint      `json:"id"`
	QuizID      uint      `json:"quizId"`
	QuizTitle   string    `json:"quizTitle"`
	StudentName string    `json:"studentName"`
	Score       int       `json:"score"`
	TotalPoints int       `json:"totalPoints"`
	CompletedAt time.Time `json:"completedAt"`
}
