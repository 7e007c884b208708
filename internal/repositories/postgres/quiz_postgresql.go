package postgres

import (
	"context"
	"fmt"

	"github.com/forsyth-county/learn/internal/models"
	"github.com/forsyth-county/learn/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizPostgreSQL struct {
	db *gorm.DB
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db}
}

var quizSortColumns = map[string]string{
	"updated_at": "updated_at",
	"created_at": "created_at",
	"title":      "title",
}

// Create creates a quiz together with its questions
func (q *QuizPostgreSQL) Create(ctx context.Context, quiz *models.Quiz) error {
	assignPositions(quiz)
	if err := q.db.WithContext(ctx).Create(quiz).Error; err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	return nil
}

// GetByID retrieves a quiz with questions in display order
func (q *QuizPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := q.db.WithContext(ctx).
		Preload("Questions", orderedQuestions).
		First(&quiz, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &quiz, nil
}

// GetPublishedByLink resolves a shareable link to a published quiz
func (q *QuizPostgreSQL) GetPublishedByLink(ctx context.Context, linkID string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := q.db.WithContext(ctx).
		Preload("Questions", orderedQuestions).
		Where("shareable_link_id = ? AND is_published = ?", linkID, true).
		First(&quiz).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &quiz, nil
}

// ListByCreator lists a creator's quizzes, most recently updated first by default
func (q *QuizPostgreSQL) ListByCreator(ctx context.Context, creatorID string, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	query := q.db.WithContext(ctx).Model(&models.Quiz{}).Where("creator_id = ?", creatorID)
	if filters.IsPublished != nil {
		query = query.Where("is_published = ?", *filters.IsPublished)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count quizzes: %w", err)
	}

	column, ok := quizSortColumns[filters.SortBy]
	if !ok {
		column = "updated_at"
	}
	desc := filters.SortOrder != "asc"

	var quizzes []*models.Quiz
	err := applyPagination(query, filters.Limit, filters.Offset).
		Preload("Questions", orderedQuestions).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
		Find(&quizzes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quizzes: %w", err)
	}

	return quizzes, total, nil
}

// Update saves quiz fields and replaces the question set
func (q *QuizPostgreSQL) Update(ctx context.Context, quiz *models.Quiz) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Quiz{ID: quiz.ID}).
			Select("*").
			Omit("ID", "CreatedAt", clause.Associations).
			Updates(quiz)
		if result.Error != nil {
			return fmt.Errorf("failed to update quiz: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return repositories.ErrNotFound
		}

		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
			return fmt.Errorf("failed to clear questions: %w", err)
		}

		assignPositions(quiz)
		if len(quiz.Questions) > 0 {
			if err := tx.Create(&quiz.Questions).Error; err != nil {
				return fmt.Errorf("failed to save questions: %w", err)
			}
		}
		return nil
	})
}

// Delete removes the quiz, its questions and every submission for it
func (q *QuizPostgreSQL) Delete(ctx context.Context, id uint) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&models.Submission{}).Error; err != nil {
			return fmt.Errorf("failed to delete submissions: %w", err)
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return fmt.Errorf("failed to delete questions: %w", err)
		}

		result := tx.Delete(&models.Quiz{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete quiz: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return repositories.ErrNotFound
		}
		return nil
	})
}

func (q *QuizPostgreSQL) ExistsByLink(ctx context.Context, linkID string) (bool, error) {
	var count int64
	if err := q.db.WithContext(ctx).
		Model(&models.Quiz{}).
		Where("shareable_link_id = ?", linkID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func assignPositions(quiz *models.Quiz) {
	for i := range quiz.Questions {
		quiz.Questions[i].Position = i
		quiz.Questions[i].QuizID = quiz.ID
	}
}
