// Package grading scores quiz answers against question answer keys.
// Everything here is pure: no I/O, no clock, no shared state.
package grading

import (
	"github.com/forsyth-county/learn/internal/models"
)

// Verdict is the outcome for a single question
type Verdict struct {
	QuestionID    string `json:"questionId"`
	IsCorrect     bool   `json:"isCorrect"`
	PointsAwarded int    `json:"pointsAwarded"`
}

// Result is the outcome for a whole quiz
type Result struct {
	Score       int       `json:"score"`
	TotalPoints int       `json:"totalPoints"`
	Verdicts    []Verdict `json:"verdicts"`
}

func (r Result) Percentage() int {
	return models.Percentage(r.Score, r.TotalPoints)
}

// Verdict returns the verdict for questionID
func (r Result) Verdict(questionID string) (Verdict, bool) {
	for _, v := range r.Verdicts {
		if v.QuestionID == questionID {
			return v, true
		}
	}
	return Verdict{}, false
}

// Strategy decides whether a present answer matches a question's key
type Strategy interface {
	Matches(key models.AnswerKey, answer Value) bool
}

type Engine struct {
	strategies map[models.QuestionKind]Strategy
	fallback   Strategy
}

// NewEngine installs the built-in strategies. Matching questions use the
// generic string comparison.
func NewEngine() *Engine {
	return &Engine{
		strategies: map[models.QuestionKind]Strategy{
			models.MultiChoice:  setStrategy{},
			models.SingleChoice: textStrategy{},
			models.TrueFalse:    textStrategy{},
			models.ShortAnswer:  textStrategy{},
			models.FillInBlank:  textStrategy{},
			models.Matching:     textStrategy{},
		},
		fallback: textStrategy{},
	}
}

var defaultEngine = NewEngine()

// Grade scores answers against the full question set
func Grade(questions []models.Question, answers Answers) Result {
	return defaultEngine.Grade(questions, answers)
}

// GradeQuestion scores a single answer
func GradeQuestion(q *models.Question, answer Value) Verdict {
	return defaultEngine.GradeQuestion(q, answer)
}

// TotalPoints sums effective points of every question, answered or not
func TotalPoints(questions []models.Question) int {
	total := 0
	for i := range questions {
		total += questions[i].EffectivePoints()
	}
	return total
}

func (e *Engine) Grade(questions []models.Question, answers Answers) Result {
	result := Result{
		TotalPoints: TotalPoints(questions),
		Verdicts:    make([]Verdict, 0, len(questions)),
	}

	for i := range questions {
		q := &questions[i]
		verdict := e.GradeQuestion(q, answers[q.ID])
		result.Score += verdict.PointsAwarded
		result.Verdicts = append(result.Verdicts, verdict)
	}

	return result
}

func (e *Engine) GradeQuestion(q *models.Question, answer Value) Verdict {
	verdict := Verdict{QuestionID: q.ID}
	if !answer.Present || len(answer.Values) == 0 {
		return verdict
	}

	strategy, ok := e.strategies[q.Kind]
	if !ok {
		strategy = e.fallback
	}

	if strategy.Matches(q.AnswerKey, answer) {
		verdict.IsCorrect = true
		verdict.PointsAwarded = q.EffectivePoints()
	}
	return verdict
}

// --- Strategies ---

// setStrategy: same cardinality and every key element present, exact match
type setStrategy struct{}

func (setStrategy) Matches(key models.AnswerKey, answer Value) bool {
	if len(key.Values) != len(answer.Values) {
		return false
	}
	submitted := toSet(answer.Values)
	for _, k := range key.Values {
		if _, ok := submitted[k]; !ok {
			return false
		}
	}
	return true
}

// textStrategy compares normalized string forms
type textStrategy struct{}

func (textStrategy) Matches(key models.AnswerKey, answer Value) bool {
	return Normalize(answer) == normalizeString(key.String())
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
