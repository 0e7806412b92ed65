package quizgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/eduquiz/internal/quiz"
)

const systemPrompt = `You are an experienced teacher writing short quizzes for school students. Questions must be factually correct, unambiguous and suited to the stated grade. Every question has exactly one correct answer.`

const cardsSystemPrompt = `You turn study material into flashcards. Each card tests one fact that appears in the material. Do not invent facts that the material does not contain.`

var typeNames = map[quiz.Type]string{
	quiz.TypeMultipleChoice: "mc (multiple choice, 4 options)",
	quiz.TypeTrueFalse:      "tf (true/false)",
	quiz.TypeFill:           "fill (fill in the blank, short exact answer)",
}

func buildUserMessage(req Request, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Grade: %s\n", req.Grade)
	fmt.Fprintf(&b, "Subject: %s\n", req.Subject)
	if req.Topic != "" {
		fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	}
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)
	fmt.Fprintf(&b, "Number of questions: %d\n", req.Count)

	b.WriteString("Allowed question types:\n")
	for _, t := range req.types() {
		fmt.Fprintf(&b, "- %s\n", typeNames[t])
	}
	if req.Language != "" {
		fmt.Fprintf(&b, "Write everything in %s.\n", req.Language)
	}

	b.WriteString("\nAvoid repeating these earlier questions:\n")
	b.WriteString(buildDedup(req.PriorPrompts, cfg.MaxPriorPrompts))

	b.WriteString(`

Instructions:
1. Number questions from 1.
2. For mc, "a" is the 0-based index of the correct option. Options must be distinct.
3. For tf, "a" is "true" or "false" and "opts" is empty.
4. For fill, "a" is the exact word or short phrase that fills the blank and "opts" is empty.
5. Keep explanations to one or two sentences.`)

	return b.String()
}

// buildDedup lists the most recent prior prompts, or "None".
func buildDedup(prior []string, limit int) string {
	if len(prior) == 0 {
		return "None"
	}
	if limit > 0 && len(prior) > limit {
		prior = prior[len(prior)-limit:]
	}
	var b strings.Builder
	for i, q := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}

func buildCardsMessage(req CardsRequest) string {
	var b strings.Builder
	if req.SourceName != "" {
		fmt.Fprintf(&b, "Source: %s\n", req.SourceName)
	}
	fmt.Fprintf(&b, "Create exactly %d flashcards.\n", req.Count)
	if req.Language != "" {
		fmt.Fprintf(&b, "Write the cards in %s.\n", req.Language)
	}
	b.WriteString("\nMaterial:\n")
	b.WriteString(req.Text)
	return b.String()
}
