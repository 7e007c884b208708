package validator

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/forsyth-county/learn/internal/errors"
	"github.com/forsyth-county/learn/internal/models"
)

const (
	maxOptions   = 10
	maxPoints    = 100
	maxTimeLimit = 600 // minutes
)

// QuestionValidator checks answer-key invariants of questions and quizzes
type QuestionValidator struct{}

func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuiz validates schedule, time limit and every question of a quiz
func (v *QuestionValidator) ValidateQuiz(quiz *models.Quiz) error {
	var errs apperrors.ValidationErrors

	if strings.TrimSpace(quiz.Title) == "" {
		errs = append(errs, *apperrors.NewValidationErrorWithRule("title", "is required", "required", quiz.Title))
	}

	if err := v.ValidateSchedule(quiz.StartDate, quiz.EndDate); err != nil {
		errs = append(errs, *err)
	}

	if quiz.TimeLimit != nil && (*quiz.TimeLimit < 1 || *quiz.TimeLimit > maxTimeLimit) {
		errs = append(errs, *apperrors.NewValidationErrorWithRule("timeLimit", "must be between 1 and 600 minutes", "time_limit", *quiz.TimeLimit))
	}

	if quiz.MaxAttempts != nil && *quiz.MaxAttempts < 1 {
		errs = append(errs, *apperrors.NewValidationErrorWithRule("maxAttempts", "must be at least 1", "min", *quiz.MaxAttempts))
	}

	errs = append(errs, v.ValidateBatch(quiz.Questions)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateSchedule requires endDate to be after startDate when both are set
func (v *QuestionValidator) ValidateSchedule(start, end *time.Time) *apperrors.ValidationError {
	if start != nil && end != nil && !end.After(*start) {
		return apperrors.NewValidationErrorWithRule("endDate", "must be after startDate", "gtfield", end)
	}
	return nil
}

// ValidateBatch validates every question and prefixes field names with the question index
func (v *QuestionValidator) ValidateBatch(questions []models.Question) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors
	seen := make(map[string]bool, len(questions))

	for i := range questions {
		q := &questions[i]
		for _, err := range v.ValidateQuestion(q) {
			err.Field = fmt.Sprintf("questions[%d].%s", i, err.Field)
			errs = append(errs, err)
		}
		if q.ID != "" {
			if seen[q.ID] {
				errs = append(errs, *apperrors.NewValidationErrorWithRule(
					fmt.Sprintf("questions[%d].id", i), "must be unique within the quiz", "unique", q.ID))
			}
			seen[q.ID] = true
		}
	}

	return errs
}

// ValidateQuestion validates one question against the rules of its kind
func (v *QuestionValidator) ValidateQuestion(q *models.Question) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors

	if strings.TrimSpace(q.Text) == "" {
		errs = append(errs, *apperrors.NewValidationErrorWithRule("text", "is required", "required", q.Text))
	}

	if q.Points < 1 || q.Points > maxPoints {
		errs = append(errs, *apperrors.NewValidationErrorWithRule("points", "must be between 1 and 100", "points_range", q.Points))
	}

	if !q.Kind.IsValid() {
		errs = append(errs, *apperrors.NewValidationErrorWithRule("kind",
			"must be a valid question kind (single-choice, multi-choice, short-answer, true-false, fill-in-blank, matching)",
			"question_kind", q.Kind))
		return errs
	}

	var err error
	switch q.Kind {
	case models.SingleChoice:
		err = v.validateSingleChoice(q)
	case models.MultiChoice:
		err = v.validateMultiChoice(q)
	case models.TrueFalse:
		err = v.validateTrueFalse(q)
	default:
		err = v.validateFreeText(q)
	}
	if err != nil {
		errs = append(errs, *apperrors.NewValidationErrorWithRule("correctAnswer", err.Error(), "answer_key", q.AnswerKey.Values))
	}

	return errs
}

// Private validation methods for each question kind

func (v *QuestionValidator) validateOptions(options []string) error {
	if len(options) < 2 {
		return fmt.Errorf("must have at least 2 options")
	}
	if len(options) > maxOptions {
		return fmt.Errorf("cannot have more than %d options", maxOptions)
	}
	for _, option := range options {
		if strings.TrimSpace(option) == "" {
			return fmt.Errorf("option text cannot be empty")
		}
	}
	return nil
}

func (v *QuestionValidator) validateSingleChoice(q *models.Question) error {
	if err := v.validateOptions(q.Options); err != nil {
		return err
	}
	if q.AnswerKey.Multiple || len(q.AnswerKey.Values) != 1 {
		return fmt.Errorf("must be exactly one option")
	}
	if !contains(q.Options, q.AnswerKey.Values[0]) {
		return fmt.Errorf("correct answer '%s' does not match any option", q.AnswerKey.Values[0])
	}
	return nil
}

func (v *QuestionValidator) validateMultiChoice(q *models.Question) error {
	if err := v.validateOptions(q.Options); err != nil {
		return err
	}
	if len(q.AnswerKey.Values) == 0 {
		return fmt.Errorf("must have at least 1 correct answer")
	}

	seen := make(map[string]bool, len(q.AnswerKey.Values))
	for _, answer := range q.AnswerKey.Values {
		if !contains(q.Options, answer) {
			return fmt.Errorf("correct answer '%s' does not match any option", answer)
		}
		if seen[answer] {
			return fmt.Errorf("correct answers contain duplicate '%s'", answer)
		}
		seen[answer] = true
	}
	return nil
}

func (v *QuestionValidator) validateTrueFalse(q *models.Question) error {
	if len(q.Options) != len(models.TrueFalseOptions) ||
		q.Options[0] != models.TrueFalseOptions[0] || q.Options[1] != models.TrueFalseOptions[1] {
		return fmt.Errorf("true-false options must be exactly True and False")
	}
	if q.AnswerKey.Multiple || len(q.AnswerKey.Values) != 1 {
		return fmt.Errorf("must be exactly one of True or False")
	}
	if !contains(q.Options, q.AnswerKey.Values[0]) {
		return fmt.Errorf("correct answer must be True or False")
	}
	return nil
}

func (v *QuestionValidator) validateFreeText(q *models.Question) error {
	if q.AnswerKey.Multiple || len(q.AnswerKey.Values) != 1 {
		return fmt.Errorf("must be a single reference answer")
	}
	if strings.TrimSpace(q.AnswerKey.Values[0]) == "" {
		return fmt.Errorf("reference answer cannot be empty")
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
