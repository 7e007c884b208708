package services

import (
	"encoding/json"
	"time"

	"github.com/forsyth-county/learn/internal/models"
	"github.com/forsyth-county/learn/internal/repositories"
)

// ===== QUIZ REQUESTS =====

type QuestionRequest struct {
	ID            string              `json:"id" validate:"omitempty,max=64"`
	Kind          models.QuestionKind `json:"kind" validate:"required,question_kind"`
	Text          string              `json:"text" validate:"required,max=2000"`
	Options       []string            `json:"options" validate:"omitempty,max=10"`
	CorrectAnswer models.AnswerKey    `json:"correctAnswer"`
	Points        int                 `json:"points" validate:"omitempty,min=1,max=100"`
	Explanation   *string             `json:"explanation" validate:"omitempty,max=2000"`
	ImageURL      *string             `json:"imageUrl" validate:"omitempty,url"`
}

type CreateQuizRequest struct {
	Title       string            `json:"title" validate:"max=200"`
	Description *string           `json:"description" validate:"omitempty,max=2000"`
	Subject     *string           `json:"subject" validate:"omitempty,max=100"`
	Questions   []QuestionRequest `json:"questions" validate:"omitempty,dive"`
	StartDate   *time.Time        `json:"startDate"`
	EndDate     *time.Time        `json:"endDate"`
	TimeLimit   *int              `json:"timeLimit"`
	MaxAttempts *int              `json:"maxAttempts"`
	Theme       *models.Theme     `json:"theme"`
}

// UpdateQuizRequest is a partial update: nil fields are left unchanged and
// an empty description or subject clears the stored value.
type UpdateQuizRequest struct {
	Title       *string            `json:"title" validate:"omitempty,max=200"`
	Description *string            `json:"description" validate:"omitempty,max=2000"`
	Subject     *string            `json:"subject" validate:"omitempty,max=100"`
	Questions   *[]QuestionRequest `json:"questions" validate:"omitempty,dive"`
	StartDate   *time.Time         `json:"startDate"`
	EndDate     *time.Time         `json:"endDate"`
	TimeLimit   *int               `json:"timeLimit"`
	MaxAttempts *int               `json:"maxAttempts"`
	Theme       *models.Theme      `json:"theme"`
	IsPublished *bool              `json:"isPublished"`
}

type QuizListFilters struct {
	IsPublished *bool  `form:"isPublished"`
	Limit       int    `form:"limit"`
	Offset      int    `form:"offset"`
	SortBy      string `form:"sortBy"`
	SortOrder   string `form:"sortOrder"`
}

// ===== QUIZ RESPONSES =====

// QuizResponse is the creator's full view of a quiz, answer keys included
type QuizResponse struct {
	*models.Quiz
	QuestionCount int `json:"questionCount"`
	TotalPoints   int `json:"totalPoints"`
}

// QuizSummary is the list view: questions are present but answer keys are stripped
type QuizSummary struct {
	ID              uint             `json:"id"`
	Title           string           `json:"title"`
	Description     *string          `json:"description,omitempty"`
	Subject         *string          `json:"subject,omitempty"`
	ShareableLinkID string           `json:"shareableLinkId"`
	IsPublished     bool             `json:"isPublished"`
	StartDate       *time.Time       `json:"startDate,omitempty"`
	EndDate         *time.Time       `json:"endDate,omitempty"`
	TimeLimit       *int             `json:"timeLimit,omitempty"`
	Questions       []PublicQuestion `json:"questions"`
	QuestionCount   int              `json:"questionCount"`
	TotalPoints     int              `json:"totalPoints"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

type QuizListResponse struct {
	Quizzes []QuizSummary `json:"quizzes"`
	Total   int64         `json:"total"`
}

// ===== PUBLIC VIEWS =====

// PublicQuestion never carries the answer key or explanation
type PublicQuestion struct {
	ID       string              `json:"id"`
	Kind     models.QuestionKind `json:"kind"`
	Text     string              `json:"text"`
	Options  []string            `json:"options"`
	Points   int                 `json:"points"`
	ImageURL *string             `json:"imageUrl,omitempty"`
}

type PublicQuizView struct {
	ID          uint             `json:"id"`
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	Subject     *string          `json:"subject,omitempty"`
	TimeLimit   *int             `json:"timeLimit,omitempty"`
	Theme       models.Theme     `json:"theme"`
	Questions   []PublicQuestion `json:"questions"`
}

// ===== SUBMISSIONS =====

// SubmitRequest keeps answers raw so any JSON shape can be graded
type SubmitRequest struct {
	StudentName       string                     `json:"studentName"`
	StudentIdentifier *string                    `json:"studentIdentifier"`
	Answers           map[string]json.RawMessage `json:"answers"`
	TimeTaken         *int                       `json:"timeTaken"`
}

type QuestionResult struct {
	ID            string              `json:"id"`
	Text          string              `json:"text"`
	Kind          models.QuestionKind `json:"kind"`
	CorrectAnswer models.AnswerKey    `json:"correctAnswer"`
	UserAnswer    json.RawMessage     `json:"userAnswer"`
	IsCorrect     bool                `json:"isCorrect"`
	Points        int                 `json:"points"`
	Explanation   *string             `json:"explanation,omitempty"`
}

type SubmissionResult struct {
	SubmissionID      uint             `json:"submissionId"`
	Score             int              `json:"score"`
	TotalPoints       int              `json:"totalPoints"`
	Percentage        int              `json:"percentage"`
	ThankYouMessage   string           `json:"thankYouMessage"`
	ExceededTimeLimit bool             `json:"exceededTimeLimit"`
	Questions         []QuestionResult `json:"questions"`
}

type SubmissionListFilters struct {
	DateFrom *time.Time `form:"dateFrom" time_format:"2006-01-02" time_utc:"1"`
	DateTo   *time.Time `form:"dateTo" time_format:"2006-01-02" time_utc:"1"`
	Limit    int        `form:"limit"`
	Offset   int        `form:"offset"`
}

type SubmissionView struct {
	*models.Submission
	Percentage int `json:"percentage"`
}

type SubmissionListResponse struct {
	Quiz        *QuizSummary     `json:"quiz"`
	Submissions []SubmissionView `json:"submissions"`
	Total       int64            `json:"total"`
}

// ===== EXPORT =====

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// ContentType returns the MIME type of the export format
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// ===== STATS =====

type StatsResponse struct {
	repositories.CreatorStats
	RecentSubmissions []*repositories.RecentSubmission `json:"recentSubmissions"`
}

// ===== MAPPERS =====

func toPublicQuestions(questions []models.Question) []PublicQuestion {
	out := make([]PublicQuestion, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		options := []string(q.Options)
		if options == nil {
			options = []string{}
		}
		out = append(out, PublicQuestion{
			ID:       q.ID,
			Kind:     q.Kind,
			Text:     q.Text,
			Options:  options,
			Points:   q.EffectivePoints(),
			ImageURL: q.ImageURL,
		})
	}
	return out
}

func toPublicQuizView(quiz *models.Quiz) *PublicQuizView {
	return &PublicQuizView{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		Subject:     quiz.Subject,
		TimeLimit:   quiz.TimeLimit,
		Theme:       quiz.Theme.WithDefaults(),
		Questions:   toPublicQuestions(quiz.Questions),
	}
}

func toQuizSummary(quiz *models.Quiz) QuizSummary {
	return QuizSummary{
		ID:              quiz.ID,
		Title:           quiz.Title,
		Description:     quiz.Description,
		Subject:         quiz.Subject,
		ShareableLinkID: quiz.ShareableLinkID,
		IsPublished:     quiz.IsPublished,
		StartDate:       quiz.StartDate,
		EndDate:         quiz.EndDate,
		TimeLimit:       quiz.TimeLimit,
		Questions:       toPublicQuestions(quiz.Questions),
		QuestionCount:   len(quiz.Questions),
		TotalPoints:     totalPoints(quiz),
		CreatedAt:       quiz.CreatedAt,
		UpdatedAt:       quiz.UpdatedAt,
	}
}

func toQuizResponse(quiz *models.Quiz) *QuizResponse {
	return &QuizResponse{
		Quiz:          quiz,
		QuestionCount: len(quiz.Questions),
		TotalPoints:   totalPoints(quiz),
	}
}
