package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/forsyth-county/learn/internal/repositories"
)

const recentSubmissionsLimit = 10

type statsService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewStatsService(repo repositories.Repository, logger *slog.Logger) StatsService {
	return &statsService{
		repo:   repo,
		logger: logger,
	}
}

func (s *statsService) GetStats(ctx context.Context, creatorID string) (*StatsResponse, error) {
	stats, err := s.repo.Submission().GetCreatorStats(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get creator stats: %w", err)
	}

	recent, err := s.repo.Submission().ListRecentByCreator(ctx, creatorID, recentSubmissionsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent submissions: %w", err)
	}
	if recent == nil {
		recent = []*repositories.RecentSubmission{}
	}

	s.logger.Debug("Stats computed", "creator_id", creatorID, "total_submissions", stats.TotalSubmissions)
	return &StatsResponse{CreatorStats: *stats, RecentSubmissions: recent}, nil
}
