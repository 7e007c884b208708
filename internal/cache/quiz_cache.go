package cache

import (
	"context"
	"errors"
	"time"

	"github.com/forsyth-county/learn/internal/models"
	"go.uber.org/zap"
)

const quizKeyPrefix = "quiz:link:"

// QuizCache stores published quizzes by shareable link. It holds the quiz
// only; availability windows are always checked by the caller.
type QuizCache interface {
	GetQuiz(ctx context.Context, linkID string) (*models.Quiz, bool)
	SetQuiz(ctx context.Context, quiz *models.Quiz)
	Invalidate(ctx context.Context, linkID string)
}

type quizCache struct {
	cache  CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// NewQuizCache wraps a CacheService. Cache errors are logged and never surface to callers.
func NewQuizCache(cache CacheService, ttl time.Duration, logger *zap.Logger) QuizCache {
	return &quizCache{
		cache:  cache,
		ttl:    ttl,
		logger: logger.Named("quiz_cache"),
	}
}

func quizKey(linkID string) string {
	return quizKeyPrefix + linkID
}

func (c *quizCache) GetQuiz(ctx context.Context, linkID string) (*models.Quiz, bool) {
	var quiz models.Quiz
	if err := c.cache.Get(ctx, quizKey(linkID), &quiz); err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn("quiz cache read failed", zap.String("link", linkID), zap.Error(err))
		}
		return nil, false
	}
	return &quiz, true
}

func (c *quizCache) SetQuiz(ctx context.Context, quiz *models.Quiz) {
	if err := c.cache.Set(ctx, quizKey(quiz.ShareableLinkID), quiz, c.ttl); err != nil {
		c.logger.Warn("quiz cache write failed", zap.String("link", quiz.ShareableLinkID), zap.Error(err))
	}
}

func (c *quizCache) Invalidate(ctx context.Context, linkID string) {
	if err := c.cache.Delete(ctx, quizKey(linkID)); err != nil {
		c.logger.Warn("quiz cache invalidation failed", zap.String("link", linkID), zap.Error(err))
	}
}

// NopQuizCache is used when no redis is configured
type NopQuizCache struct{}

func (NopQuizCache) GetQuiz(context.Context, string) (*models.Quiz, bool) { return nil, false }
func (NopQuizCache) SetQuiz(context.Context, *models.Quiz)               {}
func (NopQuizCache) Invalidate(context.Context, string)                  {}
