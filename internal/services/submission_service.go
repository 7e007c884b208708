package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/forsyth-county/learn/internal/cache"
	"github.com/forsyth-county/learn/internal/events"
	"github.com/forsyth-county/learn/internal/grading"
	"github.com/forsyth-county/learn/internal/metrics"
	"github.com/forsyth-county/learn/internal/models"
	"github.com/forsyth-county/learn/internal/repositories"
	"github.com/forsyth-county/learn/internal/utils"
	"gorm.io/datatypes"
)

const (
	maxStudentNameLength       = 100
	maxStudentIdentifierLength = 50
)

type submissionService struct {
	repo      repositories.Repository
	cache     cache.QuizCache
	publisher events.EventPublisher
	hasher    *utils.IPHasher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

func NewSubmissionService(
	repo repositories.Repository,
	quizCache cache.QuizCache,
	publisher events.EventPublisher,
	hasher *utils.IPHasher,
	m *metrics.Metrics,
	logger *slog.Logger,
) SubmissionService {
	return &submissionService{
		repo:      repo,
		cache:     quizCache,
		publisher: publisher,
		hasher:    hasher,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// ===== PUBLIC PIPELINE =====

func (s *submissionService) GetPublicQuiz(ctx context.Context, linkID string) (*PublicQuizView, error) {
	quiz, err := s.resolve(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if err := checkWindow(quiz, s.now()); err != nil {
		return nil, err
	}
	return toPublicQuizView(quiz), nil
}

// Submit runs resolve, window check, request validation, grading, sanitizing
// and persistence in that order. Nothing is written unless every step before
// persistence succeeds.
func (s *submissionService) Submit(ctx context.Context, linkID string, req *SubmitRequest, clientIP string) (*SubmissionResult, error) {
	s.logger.Info("Submitting quiz", "link_id", linkID)

	quiz, err := s.resolve(ctx, linkID)
	if err != nil {
		s.observe(metrics.OutcomeRejected, 0)
		return nil, err
	}

	now := s.now()
	if err := checkWindow(quiz, now); err != nil {
		s.observe(metrics.OutcomeUnavailable, 0)
		return nil, err
	}

	if err := validateSubmitRequest(req); err != nil {
		s.observe(metrics.OutcomeRejected, 0)
		return nil, err
	}

	result := grading.Grade(quiz.Questions, grading.ParseAnswers(req.Answers))

	answers, err := json.Marshal(req.Answers)
	if err != nil {
		s.observe(metrics.OutcomeRejected, 0)
		return nil, invalidRequest("answers", "must be a JSON object", nil)
	}

	submission := &models.Submission{
		QuizID:            quiz.ID,
		StudentName:       utils.Truncate(utils.SanitizeInput(req.StudentName), maxStudentNameLength),
		StudentIdentifier: sanitizeIdentifier(req.StudentIdentifier),
		Answers:           datatypes.JSON(answers),
		Score:             result.Score,
		TotalPoints:       result.TotalPoints,
		CompletedAt:       now.UTC(),
		IPHash:            s.hasher.Hash(clientIP),
		TimeTaken:         req.TimeTaken,
		ExceededTimeLimit: quiz.ExceedsTimeLimit(req.TimeTaken),
	}

	if err := s.repo.Submission().Create(ctx, submission); err != nil {
		s.observe(metrics.OutcomeFailed, 0)
		s.logger.Error("Failed to persist submission", "quiz_id", quiz.ID, "error", err)
		return nil, storageFailure("failed to save submission", err)
	}

	percentage := result.Percentage()
	s.observe(metrics.OutcomeGraded, percentage)

	publishEvent(ctx, s.publisher, s.logger, events.NewSubmissionRecordedEvent(events.SubmissionRecordedEvent{
		SubmissionID:      submission.ID,
		QuizID:            quiz.ID,
		QuizTitle:         quiz.Title,
		CreatorID:         quiz.CreatorID,
		Score:             submission.Score,
		TotalPoints:       submission.TotalPoints,
		Percentage:        percentage,
		ExceededTimeLimit: submission.ExceededTimeLimit,
		CompletedAt:       submission.CompletedAt,
	}))

	s.logger.Info("Submission recorded successfully",
		"submission_id", submission.ID,
		"quiz_id", quiz.ID,
		"score", result.Score,
		"total_points", result.TotalPoints,
		"exceeded_time_limit", submission.ExceededTimeLimit)

	return buildSubmissionResult(quiz, submission, req.Answers, result), nil
}

// ===== ADMINISTRATION =====

func (s *submissionService) ListSubmissions(ctx context.Context, quizID uint, creatorID string, filters SubmissionListFilters) (*SubmissionListResponse, error) {
	quiz, err := loadOwnedQuiz(ctx, s.repo, s.logger, quizID, creatorID)
	if err != nil {
		return nil, err
	}

	submissions, total, err := s.repo.Submission().ListByQuiz(ctx, quiz.ID, repositories.SubmissionFilters{
		DateFrom: filters.DateFrom,
		DateTo:   filters.DateTo,
		Limit:    filters.Limit,
		Offset:   filters.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	views := make([]SubmissionView, 0, len(submissions))
	for _, sub := range submissions {
		views = append(views, SubmissionView{Submission: sub, Percentage: sub.Percentage()})
	}

	summary := toQuizSummary(quiz)
	return &SubmissionListResponse{Quiz: &summary, Submissions: views, Total: total}, nil
}

func (s *submissionService) DeleteSubmissions(ctx context.Context, quizID uint, creatorID string) (int64, error) {
	s.logger.Info("Deleting submissions", "quiz_id", quizID, "creator_id", creatorID)

	quiz, err := loadOwnedQuiz(ctx, s.repo, s.logger, quizID, creatorID)
	if err != nil {
		return 0, err
	}

	count, err := s.repo.Submission().DeleteByQuiz(ctx, quiz.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete submissions: %w", err)
	}

	publishEvent(ctx, s.publisher, s.logger, events.NewSubmissionsPurgedEvent(events.SubmissionsPurgedEvent{
		QuizID:    quiz.ID,
		CreatorID: quiz.CreatorID,
		Count:     count,
	}))

	s.logger.Info("Submissions deleted successfully", "quiz_id", quiz.ID, "count", count)
	return count, nil
}

// ===== HELPERS =====

// resolve finds a published quiz by link, consulting the cache first
func (s *submissionService) resolve(ctx context.Context, linkID string) (*models.Quiz, error) {
	linkID = strings.TrimSpace(linkID)
	if linkID == "" {
		return nil, ErrQuizNotFound
	}

	if quiz, ok := s.cache.GetQuiz(ctx, linkID); ok {
		return quiz, nil
	}

	quiz, err := s.repo.Quiz().GetPublishedByLink(ctx, linkID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, storageFailure("failed to load quiz", err)
	}

	s.cache.SetQuiz(ctx, quiz)
	return quiz, nil
}

func (s *submissionService) observe(outcome string, percentage int) {
	s.metrics.ObserveSubmission(outcome, percentage)
}

// checkWindow is shared by the read and submit paths
func checkWindow(quiz *models.Quiz, now time.Time) error {
	switch quiz.AvailabilityAt(now) {
	case models.NotYetAvailable:
		return ErrQuizNotYetAvailable
	case models.Expired:
		return ErrQuizExpired
	default:
		return nil
	}
}

func validateSubmitRequest(req *SubmitRequest) error {
	if req == nil {
		return invalidRequest("body", "is required", nil)
	}
	if strings.TrimSpace(req.StudentName) == "" {
		return invalidRequest("studentName", "is required", req.StudentName)
	}
	if req.Answers == nil {
		return invalidRequest("answers", "is required", nil)
	}
	if req.TimeTaken != nil && *req.TimeTaken < 0 {
		return ValidationErrors{*NewValidationError("timeTaken", "must not be negative", *req.TimeTaken)}
	}
	return nil
}

func sanitizeIdentifier(identifier *string) *string {
	sanitized := utils.SanitizeOptional(identifier)
	if sanitized == nil {
		return nil
	}
	truncated := utils.Truncate(*sanitized, maxStudentIdentifierLength)
	return &truncated
}

func storageFailure(message string, err error) error {
	return fmt.Errorf("%s: %w: %w", message, ErrStorageFailure, err)
}

// buildSubmissionResult reveals the answer keys alongside each verdict
func buildSubmissionResult(quiz *models.Quiz, submission *models.Submission, answers map[string]json.RawMessage, result grading.Result) *SubmissionResult {
	questions := make([]QuestionResult, 0, len(quiz.Questions))
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		var verdict grading.Verdict
		if i < len(result.Verdicts) {
			verdict = result.Verdicts[i]
		}

		userAnswer := answers[q.ID]
		if len(userAnswer) == 0 {
			userAnswer = json.RawMessage("null")
		}

		questions = append(questions, QuestionResult{
			ID:            q.ID,
			Text:          q.Text,
			Kind:          q.Kind,
			CorrectAnswer: q.AnswerKey,
			UserAnswer:    userAnswer,
			IsCorrect:     verdict.IsCorrect,
			Points:        q.EffectivePoints(),
			Explanation:   q.Explanation,
		})
	}

	return &SubmissionResult{
		SubmissionID:      submission.ID,
		Score:             result.Score,
		TotalPoints:       result.TotalPoints,
		Percentage:        result.Percentage(),
		ThankYouMessage:   quiz.Theme.ThankYouMessage(),
		ExceededTimeLimit: submission.ExceededTimeLimit,
		Questions:         questions,
	}
}
