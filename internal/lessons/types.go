package lessons

import (
	"github.com/abhisek/eduquiz/internal/cards"
	"github.com/abhisek/eduquiz/internal/progress"
	"github.com/abhisek/eduquiz/internal/quiz"
)

// Kit is a generated study pack for one topic: a summary to read,
// flashcards to review and a quiz to finish with.
type Kit struct {
	Topic            string          `json:"topic"`
	Summary          string          `json:"summary"`
	Flashcards       []cards.Card    `json:"flashcards"`
	Questions        []quiz.Question `json:"questions"`
	CriticalThinking string          `json:"criticalThinking"`
}

// KitInput holds the context for a learning kit.
type KitInput struct {
	Grade         string
	Subject       string
	Topic         string
	Difficulty    progress.Tier
	QuestionCount int
	CardCount     int
	Types         []quiz.Type
	Language      string
}

// WrongAnswer is one missed question, rendered for the tutor prompt.
type WrongAnswer struct {
	Prompt  string
	Given   string
	Correct string
}

// FeedbackInput holds a finished quiz's score and mistakes.
type FeedbackInput struct {
	Topic    string
	Score    int
	Wrong    []WrongAnswer
	Language string
}

// NewFeedbackInput collects the wrong answers of a finished quiz.
func NewFeedbackInput(topic string, questions []quiz.Question, answers map[int]quiz.Answer, score int) FeedbackInput {
	in := FeedbackInput{Topic: topic, Score: score}
	for _, q := range questions {
		given, ok := answers[q.ID]
		if ok && quiz.Check(q, given) {
			continue
		}
		rendered := "(no answer)"
		if ok {
			rendered = q.Render(given)
		}
		in.Wrong = append(in.Wrong, WrongAnswer{Prompt: q.Prompt, Given: rendered, Correct: q.CorrectText()})
	}
	return in
}

// PathInput holds the context for a learning path.
type PathInput struct {
	Grade    string
	Subject  string
	Language string
}
