package lessons

import (
	"fmt"
	"strings"

	"github.com/abhisek/eduquiz/internal/history"
)

const kitSystemPrompt = `You are an experienced teacher preparing a compact study pack for one topic. Everything must be accurate and suited to the student's grade.`

func buildKitUserMessage(in KitInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Grade: %s\n", in.Grade)
	fmt.Fprintf(&b, "Subject: %s\n", in.Subject)
	fmt.Fprintf(&b, "Topic: %s\n", in.Topic)
	fmt.Fprintf(&b, "Difficulty: %s\n", in.Difficulty)
	if in.Language != "" {
		fmt.Fprintf(&b, "Language: %s\n", in.Language)
	}

	fmt.Fprintf(&b, `
Instructions:
1. Write a summary of the topic a student can read in five minutes.
2. Create %d flashcards with a short front and a one-sentence back.
3. Create %d quiz questions using only these types: %s. For mc, "a" is the 0-based index of the correct option. For tf, "a" is "true" or "false". For fill, "a" is the exact missing word.
4. Finish with one critical thinking question that has no single right answer.`,
		in.CardCount, in.QuestionCount, joinTypes(in))

	return b.String()
}

func joinTypes(in KitInput) string {
	if len(in.Types) == 0 {
		return "mc"
	}
	parts := make([]string, len(in.Types))
	for i, t := range in.Types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

const feedbackSystemPrompt = `You are a caring, encouraging tutor. A student has just finished a quiz. Look for a common cause behind the mistakes and give specific, constructive advice. Open with a positive remark about the score.`

func buildFeedbackUserMessage(in FeedbackInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Score: %d/100\n", in.Score)
	if in.Topic != "" {
		fmt.Fprintf(&b, "Topic: %s\n", in.Topic)
	}
	if in.Language != "" {
		fmt.Fprintf(&b, "Reply in %s.\n", in.Language)
	}

	b.WriteString("\nQuestions answered incorrectly:\n")
	for i, w := range in.Wrong {
		fmt.Fprintf(&b, "%d. %s\n   Student answered: %s\n   Correct answer: %s\n", i+1, w.Prompt, w.Given, w.Correct)
	}
	return b.String()
}

const pathSystemPrompt = `You are a curriculum planner. Build a realistic study plan that moves from fundamentals to harder material.`

func buildPathUserMessage(in PathInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Grade: %s\n", in.Grade)
	fmt.Fprintf(&b, "Subject: %s\n", in.Subject)
	if in.Language != "" {
		fmt.Fprintf(&b, "Language: %s\n", in.Language)
	}
	fmt.Fprintf(&b, `
Instructions:
Create a %d-week plan. Each week has a number starting at 1, a short title, 2-4 topics from the grade's curriculum and a one-sentence objective.`, history.PathWeeks)
	return b.String()
}
