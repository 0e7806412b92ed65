package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduquiz/internal/quiz"
	"github.com/abhisek/eduquiz/internal/ui/components"
	"github.com/abhisek/eduquiz/internal/ui/layout"
	"github.com/abhisek/eduquiz/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}

	inner := min(width-4, 76)
	var b strings.Builder

	bar := components.QuizProgress(fmt.Sprintf("Q %d/%d", s.index+1, s.total), s.index, s.total, inner)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Body.Bold(true).Width(inner).Render(s.question.Prompt)))
	b.WriteString("\n\n")

	if s.question.Type == quiz.TypeFill {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, "Answer: "+s.input.View()))
		b.WriteString("\n")
	} else {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choice.View()))
	}

	if s.showingFeedback() {
		b.WriteString("\n")
		b.WriteString(s.renderFeedback(width, inner))
	}
	return b.String()
}

func (s *Screen) renderFeedback(width, inner int) string {
	var lines []string
	switch {
	case s.outcome == nil:
		lines = append(lines, theme.Highlight.Render("Answer recorded"),
			theme.Dimmed.Render("Correct answer: "+s.question.CorrectText()))
	case s.outcome.Correct:
		lines = append(lines, theme.Correct.Render("Correct!"))
	default:
		lines = append(lines, theme.Incorrect.Render("Not quite"),
			theme.Body.Render("Correct answer: "+s.question.CorrectText()))
	}
	if s.question.Explanation != "" {
		lines = append(lines, "", theme.Dimmed.Render(layout.Wrap(s.question.Explanation, inner)))
	}
	lines = append(lines, "", theme.Hint.Render("Press any key to continue"))

	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

func renderQuitConfirm(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("\n\n" + theme.Highlight.Render("Leave the quiz?") + "\n\n" +
			theme.Dimmed.Render("Your progress is saved. Resume it with `eduquiz quiz resume`.") + "\n\n" +
			theme.Body.Render("[Y] Leave    [N] Keep going"))
}

func renderError(width int, msg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("\n\n" + theme.Incorrect.Render("Something went wrong") + "\n\n" +
			theme.Body.Render(msg) + "\n\n" +
			theme.Hint.Render("Press any key to exit"))
}
