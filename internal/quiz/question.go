// Package quiz implements the quiz state machine: questions, answer
// checking, scoring and the final result.
package quiz

import (
	"fmt"
	"strings"

	"github.com/abhisek/eduquiz/internal/errs"
)

// Type is the answer format of a question.
type Type string

const (
	TypeMultipleChoice Type = "mc"
	TypeTrueFalse      Type = "tf"
	TypeFill           Type = "fill"
)

// ParseType accepts the short codes and a few long spellings.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mc", "multiple-choice", "multiple_choice":
		return TypeMultipleChoice, nil
	case "tf", "true-false", "true_false":
		return TypeTrueFalse, nil
	case "fill", "fill-in-blank", "fill_in_blank":
		return TypeFill, nil
	}
	return "", &errs.InvalidInputError{Field: "type", Reason: fmt.Sprintf("unknown question type %q", s)}
}

// Question is one generated quiz question. It is not modified after the
// quiz starts.
type Question struct {
	ID          int      `json:"id"`
	Type        Type     `json:"type"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options,omitempty"`
	Correct     Answer   `json:"correctAnswer"`
	Explanation string   `json:"explanation,omitempty"`
}

// CorrectText renders the correct answer for display.
func (q Question) CorrectText() string {
	return q.Render(q.Correct)
}

// Render formats a response to q for display. Multiple-choice answers show
// the option text.
func (q Question) Render(a Answer) string {
	if i, ok := a.Index(); ok && q.Type == TypeMultipleChoice {
		if i >= 0 && i < len(q.Options) {
			return q.Options[i]
		}
	}
	return a.String()
}

// Validate checks a single question. field prefixes the error location.
func (q Question) Validate(field string) error {
	bad := func(sub, reason string) error {
		return &errs.InvalidInputError{Field: field + sub, Reason: reason}
	}

	if q.ID <= 0 {
		return bad(".id", "must be positive")
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return bad(".prompt", "is empty")
	}

	switch q.Type {
	case TypeMultipleChoice:
		if len(q.Options) < 2 {
			return bad(".options", "need at least 2 options")
		}
		seen := make(map[string]bool, len(q.Options))
		for i, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return bad(fmt.Sprintf(".options[%d]", i), "is empty")
			}
			if seen[opt] {
				return bad(fmt.Sprintf(".options[%d]", i), fmt.Sprintf("duplicate option %q", opt))
			}
			seen[opt] = true
		}
		idx, ok := q.Correct.Index()
		if !ok {
			return bad(".correctAnswer", "must be an option index")
		}
		if idx < 0 || idx >= len(q.Options) {
			return bad(".correctAnswer", fmt.Sprintf("index %d outside %d options", idx, len(q.Options)))
		}
	case TypeTrueFalse:
		if _, ok := q.Correct.Bool(); !ok {
			return bad(".correctAnswer", "must be true or false")
		}
	case TypeFill:
		text, ok := q.Correct.Text()
		if !ok || NormalizeText(text) == "" {
			return bad(".correctAnswer", "must be a non-empty string")
		}
	default:
		return bad(".type", fmt.Sprintf("unknown question type %q", q.Type))
	}
	return nil
}

// ValidateSet checks a whole question list before any of it is used.
func ValidateSet(questions []Question) error {
	if len(questions) == 0 {
		return &errs.InvalidInputError{Field: "questions", Reason: "no questions"}
	}
	ids := make(map[int]bool, len(questions))
	for i, q := range questions {
		field := fmt.Sprintf("questions[%d]", i)
		if err := q.Validate(field); err != nil {
			return err
		}
		if ids[q.ID] {
			return &errs.InvalidInputError{Field: field + ".id", Reason: fmt.Sprintf("duplicate id %d", q.ID)}
		}
		ids[q.ID] = true
	}
	return nil
}
