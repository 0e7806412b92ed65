package quizgen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/eduquiz/internal/quiz"
)

// Validator checks one generated question.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name is a short identifier used in errors, e.g. "structural".
	Name() string

	// Validate returns nil when q passes.
	Validate(q *quiz.Question, req Request) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string
	Index     int
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: question %d: %s", e.Validator, e.Index+1, e.Message)
}

// StructuralValidator checks lengths and that the type is one the request
// allowed.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *quiz.Question, req Request) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg}
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return fail("question text is empty")
	}
	if len(q.Prompt) > 500 {
		return fail("question text exceeds 500 characters")
	}
	if len(q.Explanation) > 1000 {
		return fail("explanation exceeds 1000 characters")
	}
	if !slices.Contains(req.types(), q.Type) {
		return fail(fmt.Sprintf("type %q was not requested", q.Type))
	}
	if q.Type == quiz.TypeMultipleChoice && len(q.Options) > 6 {
		return fail("more than 6 options")
	}
	return nil
}

// AnswerValidator checks the answer against the options: enough unique
// options and an index inside them for mc, a usable value for tf and fill.
type AnswerValidator struct{}

func (v *AnswerValidator) Name() string { return "answer" }

func (v *AnswerValidator) Validate(q *quiz.Question, _ Request) *ValidationError {
	if err := q.Validate("question"); err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error()}
	}
	return nil
}

// DefaultValidators is the standard chain: structure first, then answers.
func DefaultValidators() []Validator {
	return []Validator{&StructuralValidator{}, &AnswerValidator{}}
}
