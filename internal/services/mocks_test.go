package services

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/forsyth-county/learn/internal/events"
	"github.com/forsyth-county/learn/internal/models"
	"github.com/forsyth-county/learn/internal/repositories"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// MockRepository is a mock implementation of repositories.Repository
type MockRepository struct {
	quiz       *MockQuizRepository
	submission *MockSubmissionRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		quiz:       &MockQuizRepository{},
		submission: &MockSubmissionRepository{},
	}
}

func (m *MockRepository) Quiz() repositories.QuizRepository             { return m.quiz }
func (m *MockRepository) Submission() repositories.SubmissionRepository { return m.submission }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(tx repositories.Repository) error) error {
	return fn(m)
}

// MockQuizRepository is a mock implementation of QuizRepository
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quiz), args.Error(1)
}

func (m *MockQuizRepository) Update(ctx context.Context, quiz *models.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuizRepository) GetPublishedByLink(ctx context.Context, linkID string) (*models.Quiz, error) {
	args := m.Called(ctx, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quiz), args.Error(1)
}

func (m *MockQuizRepository) ListByCreator(ctx context.Context, creatorID string, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	args := m.Called(ctx, creatorID, filters)
	return args.Get(0).([]*models.Quiz), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuizRepository) ExistsByLink(ctx context.Context, linkID string) (bool, error) {
	args := m.Called(ctx, linkID)
	return args.Bool(0), args.Error(1)
}

// MockSubmissionRepository is a mock implementation of SubmissionRepository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) ListByQuiz(ctx context.Context, quizID uint, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	args := m.Called(ctx, quizID, filters)
	return args.Get(0).([]*models.Submission), args.Get(1).(int64), args.Error(2)
}

func (m *MockSubmissionRepository) DeleteByQuiz(ctx context.Context, quizID uint) (int64, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubmissionRepository) GetCreatorStats(ctx context.Context, creatorID string) (*repositories.CreatorStats, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.CreatorStats), args.Error(1)
}

func (m *MockSubmissionRepository) ListRecentByCreator(ctx context.Context, creatorID string, limit int) ([]*repositories.RecentSubmission, error) {
	args := m.Called(ctx, creatorID, limit)
	return args.Get(0).([]*repositories.RecentSubmission), args.Error(1)
}

// failingPublisher rejects every event
type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, *events.Event) error { return errors.New("broker down") }
func (failingPublisher) Close() error                                  { return nil }
