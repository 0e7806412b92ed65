// Package quizgen turns topics and source text into quiz questions and
// flashcards through an LLM provider.
package quizgen

import (
	"github.com/abhisek/eduquiz/internal/progress"
	"github.com/abhisek/eduquiz/internal/quiz"
)

// Request describes a quiz to generate.
type Request struct {
	Grade      string
	Subject    string
	Topic      string
	Difficulty progress.Tier
	Count      int
	// Types is the allowed mix. Empty means multiple-choice only.
	Types []quiz.Type
	// PriorPrompts are questions already asked on this topic, used to
	// steer the model away from repeats.
	PriorPrompts []string
	// Language is the language questions are written in. Empty leaves it
	// to the model.
	Language string
}

func (r Request) types() []quiz.Type {
	if len(r.Types) == 0 {
		return []quiz.Type{quiz.TypeMultipleChoice}
	}
	return r.Types
}

// CardsRequest asks for flashcards drawn from a document.
type CardsRequest struct {
	Text       string
	SourceName string
	Count      int
	Language   string
}

// MaxSourceChars bounds how much document text is sent to the model.
const MaxSourceChars = 30000

// Card count bounds for CardsRequest.
const (
	MinCards = 1
	MaxCards = 20
)

// ClampCardCount forces n into [MinCards, MaxCards].
func ClampCardCount(n int) int {
	return min(max(n, MinCards), MaxCards)
}

// TruncateSource cuts text to MaxSourceChars runes.
func TruncateSource(text string) string {
	n := 0
	for i := range text {
		if n == MaxSourceChars {
			return text[:i]
		}
		n++
	}
	return text
}
