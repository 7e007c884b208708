package models

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

type QuestionKind string

const (
	SingleChoice QuestionKind = "single-choice"
	MultiChoice  QuestionKind = "multi-choice"
	ShortAnswer  QuestionKind = "short-answer"
	TrueFalse    QuestionKind = "true-false"
	FillInBlank  QuestionKind = "fill-in-blank"
	Matching     QuestionKind = "matching"
)

// QuestionKinds lists every supported kind in display order
var QuestionKinds = []QuestionKind{
	SingleChoice,
	MultiChoice,
	ShortAnswer,
	TrueFalse,
	FillInBlank,
	Matching,
}

func (k QuestionKind) IsValid() bool {
	for _, kind := range QuestionKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// HasOptions reports whether the kind is answered by picking from options
func (k QuestionKind) HasOptions() bool {
	return k == SingleChoice || k == MultiChoice || k == TrueFalse
}

// TrueFalseOptions are the fixed options of a true-false question
var TrueFalseOptions = []string{"True", "False"}

type Question struct {
	ID          string                      `json:"id" gorm:"primaryKey;size:64"`
	QuizID      uint                        `json:"-" gorm:"primaryKey;autoIncrement:false"`
	Position    int                         `json:"-" gorm:"not null;default:0"`
	Kind        QuestionKind                `json:"kind" gorm:"size:32;not null"`
	Text        string                      `json:"text" gorm:"type:text;not null"`
	Options     datatypes.JSONSlice[string] `json:"options"`
	AnswerKey   AnswerKey                   `json:"correctAnswer"`
	Points      int                         `json:"points" gorm:"not null;default:1"`
	Explanation *string                     `json:"explanation,omitempty" gorm:"type:text"`
	ImageURL    *string                     `json:"imageUrl,omitempty" gorm:"size:2048"`
}

// EffectivePoints returns the points value used for scoring, defaulting to 1
func (q *Question) EffectivePoints() int {
	if q.Points <= 0 {
		return 1
	}
	return q.Points
}

// AnswerKey is the expected answer of a question: either one reference
// string or a set of strings for multi-choice questions.
type AnswerKey struct {
	Values   []string
	Multiple bool
}

func SingleAnswer(value string) AnswerKey {
	return AnswerKey{Values: []string{value}}
}

func MultipleAnswer(values ...string) AnswerKey {
	return AnswerKey{Values: values, Multiple: true}
}

func (k AnswerKey) IsZero() bool {
	return len(k.Values) == 0
}

// String renders the key the way a scalar comparison sees it
func (k AnswerKey) String() string {
	return strings.Join(k.Values, ",")
}

func (k AnswerKey) MarshalJSON() ([]byte, error) {
	if k.Multiple {
		values := k.Values
		if values == nil {
			values = []string{}
		}
		return json.Marshal(values)
	}
	if len(k.Values) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(k.String())
}

func (k *AnswerKey) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*k = AnswerKey{}
		return nil
	}

	switch trimmed[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("invalid answer key: %w", err)
		}
		values := make([]string, 0, len(raw))
		for _, item := range raw {
			values = append(values, CoerceString(item))
		}
		*k = AnswerKey{Values: values, Multiple: true}
	case '{':
		return errors.New("invalid answer key: must be a string or an array of strings")
	default:
		*k = SingleAnswer(CoerceString(data))
	}
	return nil
}

// Value implements driver.Valuer
func (k AnswerKey) Value() (driver.Value, error) {
	data, err := k.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (k *AnswerKey) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*k = AnswerKey{}
		return nil
	case []byte:
		return k.UnmarshalJSON(v)
	case string:
		return k.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("failed to scan answer key from %T", src)
	}
}

func (AnswerKey) GormDataType() string {
	return "json"
}

func (AnswerKey) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "JSONB"
	default:
		return "JSON"
	}
}

func (k AnswerKey) GormValue(ctx context.Context, db *gorm.DB) clause.Expr {
	data, _ := k.MarshalJSON()
	return gorm.Expr("?", string(data))
}
