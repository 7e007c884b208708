package validator

import (
	"testing"
	"time"

	apperrors "github.com/forsyth-county/learn/internal/errors"
	"github.com/forsyth-county/learn/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuiz() *models.Quiz {
	return &models.Quiz{
		Title: "Capitals",
		Theme: models.DefaultTheme(),
		Questions: []models.Question{
			{ID: "q1", Kind: models.SingleChoice, Text: "2+2", Options: []string{"3", "4"}, AnswerKey: models.SingleAnswer("4"), Points: 1},
			{ID: "q2", Kind: models.MultiChoice, Text: "Primes", Options: []string{"2", "3", "4"}, AnswerKey: models.MultipleAnswer("2", "3"), Points: 2},
			{ID: "q3", Kind: models.TrueFalse, Text: "Sky is blue", Options: []string{"True", "False"}, AnswerKey: models.SingleAnswer("True"), Points: 1},
			{ID: "q4", Kind: models.ShortAnswer, Text: "Capital of France", AnswerKey: models.SingleAnswer("Paris"), Points: 1},
			{ID: "q5", Kind: models.FillInBlank, Text: "H_O", AnswerKey: models.SingleAnswer("2"), Points: 1},
			{ID: "q6", Kind: models.Matching, Text: "Match", AnswerKey: models.SingleAnswer("a-1,b-2"), Points: 1},
		},
	}
}

func fieldNames(err error) []string {
	errs, ok := err.(apperrors.ValidationErrors)
	if !ok {
		return nil
	}
	names := make([]string, len(errs))
	for i, e := range errs {
		names[i] = e.Field
	}
	return names
}

func TestValidateQuiz_Valid(t *testing.T) {
	v := New()
	assert.NoError(t, v.ValidateQuiz(validQuiz()))
}

func TestValidateQuiz_AnswerKeyInvariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(q *models.Quiz)
		field  string
	}{
		{"single choice key not in options", func(q *models.Quiz) { q.Questions[0].AnswerKey = models.SingleAnswer("5") }, "questions[0].correctAnswer"},
		{"single choice with set key", func(q *models.Quiz) { q.Questions[0].AnswerKey = models.MultipleAnswer("3", "4") }, "questions[0].correctAnswer"},
		{"single choice with one option", func(q *models.Quiz) { q.Questions[0].Options = []string{"4"} }, "questions[0].correctAnswer"},
		{"multi choice empty key", func(q *models.Quiz) { q.Questions[1].AnswerKey = models.MultipleAnswer() }, "questions[1].correctAnswer"},
		{"multi choice key outside options", func(q *models.Quiz) { q.Questions[1].AnswerKey = models.MultipleAnswer("2", "9") }, "questions[1].correctAnswer"},
		{"multi choice duplicate key", func(q *models.Quiz) { q.Questions[1].AnswerKey = models.MultipleAnswer("2", "2") }, "questions[1].correctAnswer"},
		{"true false wrong options", func(q *models.Quiz) { q.Questions[2].Options = []string{"Yes", "No"} }, "questions[2].correctAnswer"},
		{"true false key outside", func(q *models.Quiz) { q.Questions[2].AnswerKey = models.SingleAnswer("Maybe") }, "questions[2].correctAnswer"},
		{"short answer blank key", func(q *models.Quiz) { q.Questions[3].AnswerKey = models.SingleAnswer("  ") }, "questions[3].correctAnswer"},
		{"fill in blank set key", func(q *models.Quiz) { q.Questions[4].AnswerKey = models.MultipleAnswer("2") }, "questions[4].correctAnswer"},
		{"unknown kind", func(q *models.Quiz) { q.Questions[5].Kind = "essay" }, "questions[5].kind"},
		{"empty text", func(q *models.Quiz) { q.Questions[0].Text = " " }, "questions[0].text"},
		{"points out of range", func(q *models.Quiz) { q.Questions[0].Points = 0 }, "questions[0].points"},
		{"duplicate question id", func(q *models.Quiz) { q.Questions[1].ID = "q1" }, "questions[1].id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiz := validQuiz()
			tt.mutate(quiz)

			err := New().ValidateQuiz(quiz)

			require.Error(t, err)
			assert.Contains(t, fieldNames(err), tt.field)
		})
	}
}

func TestValidateQuiz_QuizFields(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Hour)
	badLimit := 0
	badColor := models.DefaultTheme()
	badColor.PrimaryColor = "teal"
	badStyle := models.DefaultTheme()
	badStyle.BackgroundStyle = "plaid"

	tests := []struct {
		name   string
		mutate func(q *models.Quiz)
		field  string
	}{
		{"missing title", func(q *models.Quiz) { q.Title = "" }, "title"},
		{"end before start", func(q *models.Quiz) { q.StartDate = &now; q.EndDate = &earlier }, "endDate"},
		{"time limit zero", func(q *models.Quiz) { q.TimeLimit = &badLimit }, "timeLimit"},
		{"bad color", func(q *models.Quiz) { q.Theme = badColor }, "theme.primaryColor"},
		{"bad background", func(q *models.Quiz) { q.Theme = badStyle }, "theme.backgroundStyle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiz := validQuiz()
			tt.mutate(quiz)

			err := New().ValidateQuiz(quiz)

			require.Error(t, err)
			assert.Contains(t, fieldNames(err), tt.field)
		})
	}
}

func TestValidateStruct_CustomTags(t *testing.T) {
	type payload struct {
		Kind  string `json:"kind" validate:"required,question_kind"`
		Color string `json:"color" validate:"omitempty,hex_color"`
	}

	v := New()
	assert.NoError(t, v.ValidateStruct(payload{Kind: "matching", Color: "#fff"}))

	err := v.ValidateStruct(payload{Kind: "essay", Color: "#12"})
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"kind", "color"}, fieldNames(err))
}
