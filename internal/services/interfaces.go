package services

import (
	"context"
	"io"
)

// QuizService manages quizzes on behalf of their creator
type QuizService interface {
	Create(ctx context.Context, req *CreateQuizRequest, creatorID string) (*QuizResponse, error)
	Get(ctx context.Context, id uint, creatorID string) (*QuizResponse, error)
	List(ctx context.Context, creatorID string, filters QuizListFilters) (*QuizListResponse, error)
	Update(ctx context.Context, id uint, req *UpdateQuizRequest, creatorID string) (*QuizResponse, error)
	Delete(ctx context.Context, id uint, creatorID string) error
}

// SubmissionService runs the public quiz pipeline and submission administration
type SubmissionService interface {
	// Public read path: resolve and window check, answer keys stripped
	GetPublicQuiz(ctx context.Context, linkID string) (*PublicQuizView, error)
	// Submit grades and records one attempt and returns the result view
	Submit(ctx context.Context, linkID string, req *SubmitRequest, clientIP string) (*SubmissionResult, error)

	ListSubmissions(ctx context.Context, quizID uint, creatorID string, filters SubmissionListFilters) (*SubmissionListResponse, error)
	DeleteSubmissions(ctx context.Context, quizID uint, creatorID string) (int64, error)
}

// ExportService writes a quiz's submissions in a tabular format
type ExportService interface {
	Export(ctx context.Context, quizID uint, creatorID string, format ExportFormat, w io.Writer) error
}

// StatsService builds the creator dashboard
type StatsService interface {
	GetStats(ctx context.Context, creatorID string) (*StatsResponse, error)
}
