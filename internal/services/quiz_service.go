package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/forsyth-county/learn/internal/cache"
	"github.com/forsyth-county/learn/internal/events"
	"github.com/forsyth-county/learn/internal/grading"
	"github.com/forsyth-county/learn/internal/models"
	"github.com/forsyth-county/learn/internal/repositories"
	"github.com/forsyth-county/learn/internal/utils"
	"github.com/forsyth-county/learn/internal/validator"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	defaultQuizTitle  = "Untitled Quiz"
	shareableLinkSize = 10
	maxLinkAttempts   = 5
)

type quizService struct {
	repo      repositories.Repository
	cache     cache.QuizCache
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger
	newLinkID func() string
}

func NewQuizService(
	repo repositories.Repository,
	quizCache cache.QuizCache,
	publisher events.EventPublisher,
	validator *validator.Validator,
	logger *slog.Logger,
) QuizService {
	return &quizService{
		repo:      repo,
		cache:     quizCache,
		publisher: publisher,
		validator: validator,
		logger:    logger,
		newLinkID: generateLinkID,
	}
}

// generateLinkID returns a URL-safe random identifier of shareableLinkSize characters
func generateLinkID() string {
	id := uuid.New()
	return base64.RawURLEncoding.EncodeToString(id[:])[:shareableLinkSize]
}

func totalPoints(quiz *models.Quiz) int {
	return grading.TotalPoints(quiz.Questions)
}

// ===== CORE CRUD OPERATIONS =====

func (s *quizService) Create(ctx context.Context, req *CreateQuizRequest, creatorID string) (*QuizResponse, error) {
	s.logger.Info("Creating quiz", "creator_id", creatorID, "title", req.Title)

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	title := req.Title
	if strings.TrimSpace(title) == "" {
		title = defaultQuizTitle
	}

	quiz := &models.Quiz{
		CreatorID:   creatorID,
		Title:       utils.SanitizeInput(title),
		Description: utils.SanitizeOptional(req.Description),
		Subject:     utils.SanitizeOptional(req.Subject),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TimeLimit:   req.TimeLimit,
		MaxAttempts: req.MaxAttempts,
		Theme:       buildTheme(req.Theme),
		Questions:   buildQuestions(req.Questions),
		IsPublished: false,
	}

	if err := s.validator.ValidateQuiz(quiz); err != nil {
		return nil, err
	}

	linkID, err := s.uniqueLinkID(ctx)
	if err != nil {
		return nil, err
	}
	quiz.ShareableLinkID = linkID

	if err := s.repo.Quiz().Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	s.logger.Info("Quiz created successfully", "quiz_id", quiz.ID, "link_id", quiz.ShareableLinkID)
	return toQuizResponse(quiz), nil
}

func (s *quizService) Get(ctx context.Context, id uint, creatorID string) (*QuizResponse, error) {
	quiz, err := s.getOwned(ctx, id, creatorID)
	if err != nil {
		return nil, err
	}
	return toQuizResponse(quiz), nil
}

func (s *quizService) List(ctx context.Context, creatorID string, filters QuizListFilters) (*QuizListResponse, error) {
	quizzes, total, err := s.repo.Quiz().ListByCreator(ctx, creatorID, repositories.QuizFilters{
		IsPublished: filters.IsPublished,
		Limit:       filters.Limit,
		Offset:      filters.Offset,
		SortBy:      filters.SortBy,
		SortOrder:   filters.SortOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	summaries := make([]QuizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		summaries = append(summaries, toQuizSummary(quiz))
	}

	return &QuizListResponse{Quizzes: summaries, Total: total}, nil
}

func (s *quizService) Update(ctx context.Context, id uint, req *UpdateQuizRequest, creatorID string) (*QuizResponse, error) {
	s.logger.Info("Updating quiz", "quiz_id", id, "creator_id", creatorID)

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	quiz, err := s.getOwned(ctx, id, creatorID)
	if err != nil {
		return nil, err
	}
	wasPublished := quiz.IsPublished

	applyUpdate(quiz, req)

	if err := s.validator.ValidateQuiz(quiz); err != nil {
		return nil, err
	}

	// Evicted on both sides of the write: a public read that loaded the old
	// row before the commit may re-cache it after the first eviction.
	s.cache.Invalidate(ctx, quiz.ShareableLinkID)
	if err := s.repo.Quiz().Update(ctx, quiz); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to update quiz: %w", err)
	}

	s.cache.Invalidate(ctx, quiz.ShareableLinkID)

	if quiz.IsPublished && !wasPublished {
		s.publish(ctx, events.NewQuizPublishedEvent(events.QuizPublishedEvent{
			QuizID:          quiz.ID,
			QuizTitle:       quiz.Title,
			ShareableLinkID: quiz.ShareableLinkID,
			CreatorID:       quiz.CreatorID,
			StartDate:       quiz.StartDate,
			EndDate:         quiz.EndDate,
			QuestionCount:   len(quiz.Questions),
		}))
	}

	s.logger.Info("Quiz updated successfully", "quiz_id", quiz.ID, "is_published", quiz.IsPublished)
	return toQuizResponse(quiz), nil
}

// Delete removes the quiz and every submission for it in one transaction
func (s *quizService) Delete(ctx context.Context, id uint, creatorID string) error {
	s.logger.Info("Deleting quiz", "quiz_id", id, "creator_id", creatorID)

	quiz, err := s.getOwned(ctx, id, creatorID)
	if err != nil {
		return err
	}

	var deleted int64
	s.cache.Invalidate(ctx, quiz.ShareableLinkID)
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		count, err := tx.Submission().DeleteByQuiz(ctx, quiz.ID)
		if err != nil {
			return err
		}
		deleted = count
		return tx.Quiz().Delete(ctx, quiz.ID)
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	s.cache.Invalidate(ctx, quiz.ShareableLinkID)
	s.publish(ctx, events.NewQuizDeletedEvent(events.QuizDeletedEvent{
		QuizID:             quiz.ID,
		QuizTitle:          quiz.Title,
		CreatorID:          quiz.CreatorID,
		DeletedSubmissions: deleted,
	}))

	s.logger.Info("Quiz deleted successfully", "quiz_id", quiz.ID, "deleted_submissions", deleted)
	return nil
}

// ===== HELPERS =====

func (s *quizService) getOwned(ctx context.Context, id uint, creatorID string) (*models.Quiz, error) {
	return loadOwnedQuiz(ctx, s.repo, s.logger, id, creatorID)
}

// loadOwnedQuiz loads a quiz and hides it from anyone but its creator
func loadOwnedQuiz(ctx context.Context, repo repositories.Repository, logger *slog.Logger, id uint, creatorID string) (*models.Quiz, error) {
	quiz, err := repo.Quiz().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz.CreatorID != creatorID {
		logger.Warn("Quiz access by non-owner", "quiz_id", id, "user_id", creatorID)
		return nil, ErrQuizNotFound
	}
	return quiz, nil
}

func (s *quizService) uniqueLinkID(ctx context.Context) (string, error) {
	for i := 0; i < maxLinkAttempts; i++ {
		linkID := s.newLinkID()
		exists, err := s.repo.Quiz().ExistsByLink(ctx, linkID)
		if err != nil {
			return "", fmt.Errorf("failed to check shareable link: %w", err)
		}
		if !exists {
			return linkID, nil
		}
		s.logger.Warn("Shareable link collision", "link_id", linkID, "attempt", i+1)
	}
	return "", ErrLinkGeneration
}

func (s *quizService) publish(ctx context.Context, event *events.Event) {
	publishEvent(ctx, s.publisher, s.logger, event)
}

// publishEvent never fails the caller: the write it describes has already happened
func publishEvent(ctx context.Context, publisher events.EventPublisher, logger *slog.Logger, event *events.Event) {
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Error("Failed to publish event", "event_id", event.ID, "event_type", event.Type, "error", err)
	}
}

func applyUpdate(quiz *models.Quiz, req *UpdateQuizRequest) {
	if req.Title != nil {
		quiz.Title = utils.SanitizeInput(*req.Title)
	}
	if req.Description != nil {
		quiz.Description = utils.SanitizeOptional(req.Description)
	}
	if req.Subject != nil {
		quiz.Subject = utils.SanitizeOptional(req.Subject)
	}
	if req.Questions != nil {
		quiz.Questions = buildQuestions(*req.Questions)
	}
	if req.StartDate != nil {
		quiz.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		quiz.EndDate = req.EndDate
	}
	if req.TimeLimit != nil {
		quiz.TimeLimit = req.TimeLimit
	}
	if req.MaxAttempts != nil {
		quiz.MaxAttempts = req.MaxAttempts
	}
	if req.Theme != nil {
		quiz.Theme = buildTheme(req.Theme)
	}
	if req.IsPublished != nil {
		quiz.IsPublished = *req.IsPublished
	}
}

// buildTheme sanitizes the custom texts and fills unset fields from the default theme
func buildTheme(theme *models.Theme) models.Theme {
	if theme == nil {
		return models.DefaultTheme()
	}
	t := *theme
	t.CustomWelcomeText = utils.SanitizeOptional(t.CustomWelcomeText)
	t.CustomInstructions = utils.SanitizeOptional(t.CustomInstructions)
	t.CustomThankYouText = utils.SanitizeOptional(t.CustomThankYouText)
	return t.WithDefaults()
}

// buildQuestions turns request questions into models. Options of choice
// questions and their answer keys are sanitized the same way so keys keep
// matching options; free-text keys are kept verbatim.
func buildQuestions(reqs []QuestionRequest) []models.Question {
	questions := make([]models.Question, 0, len(reqs))
	for _, req := range reqs {
		q := models.Question{
			ID:          strings.TrimSpace(req.ID),
			Kind:        req.Kind,
			Text:        utils.SanitizeInput(req.Text),
			Points:      req.Points,
			Explanation: utils.SanitizeOptional(req.Explanation),
			ImageURL:    req.ImageURL,
			AnswerKey:   req.CorrectAnswer,
		}
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if q.Points <= 0 {
			q.Points = 1
		}

		switch {
		case q.Kind == models.TrueFalse:
			q.Options = datatypes.JSONSlice[string](append([]string(nil), models.TrueFalseOptions...))
			q.AnswerKey = sanitizeKey(req.CorrectAnswer)
		case q.Kind.HasOptions():
			options := make([]string, len(req.Options))
			for i, opt := range req.Options {
				options[i] = utils.SanitizeInput(opt)
			}
			q.Options = datatypes.JSONSlice[string](options)
			q.AnswerKey = sanitizeKey(req.CorrectAnswer)
		default:
			q.Options = datatypes.JSONSlice[string]{}
		}

		questions = append(questions, q)
	}
	return questions
}

func sanitizeKey(key models.AnswerKey) models.AnswerKey {
	values := make([]string, len(key.Values))
	for i, v := range key.Values {
		values[i] = utils.SanitizeInput(v)
	}
	return models.AnswerKey{Values: values, Multiple: key.Multiple}
}
