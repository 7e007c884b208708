package grading

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"

	"github.com/forsyth-county/learn/internal/models"
	"golang.org/x/text/cases"
)

// Value is a submitted answer after decoding: nothing, one scalar string or
// a list of strings.
type Value struct {
	Values  []string
	List    bool
	Present bool
}

func Text(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{Values: []string{s}, Present: true}
}

func List(values ...string) Value {
	if len(values) == 0 {
		return Value{}
	}
	return Value{Values: values, List: true, Present: true}
}

// ParseValue decodes a raw JSON answer. null, "", 0, false and [] count as
// no answer at all.
func ParseValue(raw json.RawMessage) Value {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Value{}
	}

	switch string(raw) {
	case "null", `""`, "false":
		return Value{}
	}

	if raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return Value{}
		}
		values := make([]string, len(items))
		for i, item := range items {
			values[i] = models.CoerceString(item)
		}
		return List(values...)
	}

	s := models.CoerceString(raw)
	if raw[0] != '"' && (s == "0" || s == "-0") {
		return Value{}
	}
	return Text(s)
}

// Answers maps question id to the submitted value
type Answers map[string]Value

// ParseAnswers decodes a raw answers mapping keyed by question id
func ParseAnswers(raw map[string]json.RawMessage) Answers {
	answers := make(Answers, len(raw))
	for id, v := range raw {
		if parsed := ParseValue(v); parsed.Present {
			answers[id] = parsed
		}
	}
	return answers
}

// String renders the value the way a scalar comparison sees it: list
// elements joined by commas.
func (v Value) String() string {
	return strings.Join(v.Values, ",")
}

// Normalize coerces a value to its comparison form: string, case folded,
// surrounding whitespace removed.
func Normalize(v Value) string {
	return normalizeString(v.String())
}

// A Caser keeps state, so each call folds with a fresh one.
func normalizeString(s string) string {
	return strings.TrimFunc(cases.Fold().String(s), isTrimSpace)
}

func isTrimSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
