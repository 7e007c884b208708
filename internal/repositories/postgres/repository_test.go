package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/forsyth-county/learn/internal/models"
	"github.com/forsyth-county/learn/internal/repositories"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func newQuiz(creator, link string, published bool) *models.Quiz {
	return &models.Quiz{
		CreatorID:       creator,
		Title:           "Quiz " + link,
		Theme:           models.DefaultTheme(),
		ShareableLinkID: link,
		IsPublished:     published,
		Questions: []models.Question{
			{ID: link + "-1", Kind: models.SingleChoice, Text: "2+2", Options: datatypes.JSONSlice[string]{"3", "4"}, AnswerKey: models.SingleAnswer("4"), Points: 1},
			{ID: link + "-2", Kind: models.MultiChoice, Text: "Primes", Options: datatypes.JSONSlice[string]{"2", "3", "4"}, AnswerKey: models.MultipleAnswer("2", "3"), Points: 2},
		},
	}
}

func newSubmission(quizID uint, name string, score, total int, at time.Time) *models.Submission {
	return &models.Submission{
		QuizID:      quizID,
		StudentName: name,
		Answers:     datatypes.JSON(`{"a":"4"}`),
		Score:       score,
		TotalPoints: total,
		CompletedAt: at,
	}
}

func TestQuizRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	quiz := newQuiz("teacher-1", "abc123defg", false)
	require.NoError(t, repo.Quiz().Create(ctx, quiz))
	require.NotZero(t, quiz.ID)

	got, err := repo.Quiz().GetByID(ctx, quiz.ID)
	require.NoError(t, err)
	require.Len(t, got.Questions, 2)
	assert.Equal(t, "abc123defg-1", got.Questions[0].ID)
	assert.Equal(t, models.SingleAnswer("4"), got.Questions[0].AnswerKey)
	assert.Equal(t, models.MultipleAnswer("2", "3"), got.Questions[1].AnswerKey)
	assert.Equal(t, []string{"2", "3", "4"}, []string(got.Questions[1].Options))
	assert.Equal(t, models.DefaultPrimaryColor, got.Theme.PrimaryColor)

	_, err = repo.Quiz().GetByID(ctx, quiz.ID+100)
	assert.True(t, repositories.IsNotFoundError(err))
}

func TestQuizRepository_GetPublishedByLink(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	draft := newQuiz("teacher-1", "draftlink1", false)
	live := newQuiz("teacher-1", "livelink01", true)
	require.NoError(t, repo.Quiz().Create(ctx, draft))
	require.NoError(t, repo.Quiz().Create(ctx, live))

	got, err := repo.Quiz().GetPublishedByLink(ctx, "livelink01")
	require.NoError(t, err)
	assert.Equal(t, live.ID, got.ID)
	assert.Len(t, got.Questions, 2)

	_, err = repo.Quiz().GetPublishedByLink(ctx, "draftlink1")
	assert.True(t, repositories.IsNotFoundError(err))

	_, err = repo.Quiz().GetPublishedByLink(ctx, "missing")
	assert.True(t, repositories.IsNotFoundError(err))
}

func TestQuizRepository_UpdateReplacesQuestions(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	quiz := newQuiz("teacher-1", "updatelink", false)
	require.NoError(t, repo.Quiz().Create(ctx, quiz))

	quiz.Title = "Renamed"
	quiz.IsPublished = true
	quiz.Questions = []models.Question{
		{ID: "new-1", Kind: models.ShortAnswer, Text: "Capital of France", AnswerKey: models.SingleAnswer("Paris"), Points: 5},
	}
	require.NoError(t, repo.Quiz().Update(ctx, quiz))

	got, err := repo.Quiz().GetByID(ctx, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.True(t, got.IsPublished)
	require.Len(t, got.Questions, 1)
	assert.Equal(t, "new-1", got.Questions[0].ID)
	assert.Equal(t, 5, got.Questions[0].Points)

	missing := newQuiz("teacher-1", "nothere123", false)
	missing.ID = 9999
	assert.True(t, repositories.IsNotFoundError(repo.Quiz().Update(ctx, missing)))
}

func TestQuizRepository_DeleteCascadesSubmissions(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewRepository(db)

	doomed := newQuiz("teacher-1", "doomedlink", true)
	kept := newQuiz("teacher-1", "keptlink01", true)
	require.NoError(t, repo.Quiz().Create(ctx, doomed))
	require.NoError(t, repo.Quiz().Create(ctx, kept))

	now := time.Now()
	require.NoError(t, repo.Submission().Create(ctx, newSubmission(doomed.ID, "Ann", 3, 3, now)))
	require.NoError(t, repo.Submission().Create(ctx, newSubmission(doomed.ID, "Ben", 1, 3, now)))
	require.NoError(t, repo.Submission().Create(ctx, newSubmission(kept.ID, "Cal", 2, 3, now)))

	require.NoError(t, repo.Quiz().Delete(ctx, doomed.ID))

	_, count, err := repo.Submission().ListByQuiz(ctx, doomed.ID, repositories.SubmissionFilters{})
	require.NoError(t, err)
	assert.Zero(t, count)

	var orphans int64
	require.NoError(t, db.Model(&models.Question{}).Where("quiz_id = ?", doomed.ID).Count(&orphans).Error)
	assert.Zero(t, orphans)

	_, count, err = repo.Submission().ListByQuiz(ctx, kept.ID, repositories.SubmissionFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.True(t, repositories.IsNotFoundError(repo.Quiz().Delete(ctx, doomed.ID)))
}

func TestQuizRepository_ListByCreator(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.Quiz().Create(ctx, newQuiz("teacher-1", "listlink01", false)))
	require.NoError(t, repo.Quiz().Create(ctx, newQuiz("teacher-1", "listlink02", true)))
	require.NoError(t, repo.Quiz().Create(ctx, newQuiz("teacher-2", "listlink03", true)))

	quizzes, total, err := repo.Quiz().ListByCreator(ctx, "teacher-1", repositories.QuizFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, quizzes, 2)

	published := true
	quizzes, total, err = repo.Quiz().ListByCreator(ctx, "teacher-1", repositories.QuizFilters{IsPublished: &published})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "listlink02", quizzes[0].ShareableLinkID)

	exists, err := repo.Quiz().ExistsByLink(ctx, "listlink03")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSubmissionRepository_ListDeleteAndStats(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	quiz := newQuiz("teacher-1", "statslink1", true)
	empty := newQuiz("teacher-1", "emptylink1", true)
	other := newQuiz("teacher-2", "otherlink1", true)
	require.NoError(t, repo.Quiz().Create(ctx, quiz))
	require.NoError(t, repo.Quiz().Create(ctx, empty))
	require.NoError(t, repo.Quiz().Create(ctx, other))

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Submission().Create(ctx, newSubmission(quiz.ID, "Ann", 3, 3, base)))
	require.NoError(t, repo.Submission().Create(ctx, newSubmission(quiz.ID, "Ben", 0, 3, base.Add(time.Minute))))
	require.NoError(t, repo.Submission().Create(ctx, newSubmission(empty.ID, "Cal", 0, 0, base.Add(2*time.Minute))))
	require.NoError(t, repo.Submission().Create(ctx, newSubmission(other.ID, "Dee", 1, 1, base)))

	subs, total, err := repo.Submission().ListByQuiz(ctx, quiz.ID, repositories.SubmissionFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, subs, 2)
	assert.Equal(t, "Ben", subs[0].StudentName)

	stats, err := repo.Submission().GetCreatorStats(ctx, "teacher-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalQuizzes)
	assert.Equal(t, int64(3), stats.TotalSubmissions)
	assert.InDelta(t, 100.0/3, stats.AveragePercentage, 0.001)

	recent, err := repo.Submission().ListRecentByCreator(ctx, "teacher-1", 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "Cal", recent[0].StudentName)
	assert.Equal(t, "Quiz emptylink1", recent[0].QuizTitle)

	deleted, err := repo.Submission().DeleteByQuiz(ctx, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = repo.Quiz().GetByID(ctx, quiz.ID)
	assert.NoError(t, err)
}

func TestRepository_WithTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	quiz := newQuiz("teacher-1", "txlink0001", true)
	require.NoError(t, repo.Quiz().Create(ctx, quiz))

	err := repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Submission().Create(ctx, newSubmission(quiz.ID, "Ann", 1, 3, time.Now())); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, count, err := repo.Submission().ListByQuiz(ctx, quiz.ID, repositories.SubmissionFilters{})
	require.NoError(t, err)
	assert.Zero(t, count)
}
