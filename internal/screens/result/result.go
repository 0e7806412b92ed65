// Package result shows a finished quiz and waits for the tutor's review.
package result

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/abhisek/eduquiz/internal/quiz"
	"github.com/abhisek/eduquiz/internal/router"
	"github.com/abhisek/eduquiz/internal/study"
	"github.com/abhisek/eduquiz/internal/ui/components"
	"github.com/abhisek/eduquiz/internal/ui/layout"
	"github.com/abhisek/eduquiz/internal/ui/theme"
)

const (
	pollInterval    = 250 * time.Millisecond
	feedbackTimeout = 2 * time.Minute
)

type pollMsg time.Time

// Screen displays a Completion. Regular quizzes poll for tutor feedback;
// assignment attempts ask for the student's name and submit.
type Screen struct {
	ctx        context.Context
	study      *study.Study
	completion *study.Completion

	feedback *study.FeedbackResult
	started  time.Time
	gaveUp   bool

	name      components.TextInput
	submitted bool
	errMsg    string
}

var _ router.Screen = (*Screen)(nil)
var _ router.KeyHintProvider = (*Screen)(nil)

func New(ctx context.Context, st *study.Study, c *study.Completion) *Screen {
	return &Screen{
		ctx:        ctx,
		study:      st,
		completion: c,
		name:       components.NewTextInput("Your name", 60),
	}
}

func (s *Screen) assignment() bool { return s.completion.Assignment != "" }

func (s *Screen) Init() tea.Cmd {
	if s.assignment() {
		return s.name.Init()
	}
	s.started = time.Now()
	return poll()
}

func poll() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return pollMsg(t) })
}

func (s *Screen) Title() string { return "Results" }

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.assignment() && !s.submitted {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Discard"},
		}
	}
	return []layout.KeyHint{{Key: "Enter", Description: "Done"}}
}

func (s *Screen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pollMsg:
		if res, ok := s.study.ConsumeFeedback(); ok {
			s.feedback = &res
			return s, nil
		}
		if time.Time(msg).Sub(s.started) >= feedbackTimeout {
			s.gaveUp = true
			return s, nil
		}
		return s, poll()

	case tea.KeyMsg:
		key := msg.String()
		if s.assignment() && !s.submitted {
			switch key {
			case "esc":
				return s, tea.Quit
			case "enter":
				if err := s.study.SubmitAssignment(s.ctx, s.name.Value()); err != nil {
					s.errMsg = err.Error()
					return s, nil
				}
				s.submitted, s.errMsg = true, ""
				return s, nil
			}
			var cmd tea.Cmd
			s.name, cmd = s.name.Update(msg)
			return s, cmd
		}
		switch key {
		case "enter", "esc", "q":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	r := s.completion.Result
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}
	inner := min(width-4, 72)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(theme.Title.Render("Quiz complete!")))
	b.WriteString("\n\n")

	b.WriteString(center(theme.Verdict(r.Passed()).Render(fmt.Sprintf("%d / %d", r.Score, r.Total))))
	b.WriteString("\n")
	b.WriteString(center(components.ScoreBar(r.Score, r.Total, quiz.PassScore, inner/2).View()))
	b.WriteString("\n\n")
	b.WriteString(center(theme.Body.Render(fmt.Sprintf(
		"Correct: %d of %d    Best streak: %d", r.Correct, r.Questions, r.LongestStreak))))
	b.WriteString("\n")

	if s.completion.NewTier {
		b.WriteString("\n")
		b.WriteString(center(theme.Highlight.Render(fmt.Sprintf("%s difficulty unlocked!", cases.Title(language.English).String(string(s.completion.Unlocked))))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if s.assignment() {
		b.WriteString(s.renderSubmit(center))
	} else {
		b.WriteString(s.renderFeedback(center, inner))
	}
	return b.String()
}

func (s *Screen) renderSubmit(center func(string) string) string {
	if s.submitted {
		return center(theme.Correct.Render("Submitted. Your teacher can see your result."))
	}
	out := center(theme.Body.Render("Enter your name to submit: ") + s.name.View())
	if s.errMsg != "" {
		out += "\n\n" + center(theme.Incorrect.Render(s.errMsg))
	}
	return out
}

func (s *Screen) renderFeedback(center func(string) string, inner int) string {
	switch {
	case s.feedback != nil:
		fb := s.feedback.Feedback
		out := center(theme.Selected.Render(fb.Title)) + "\n\n" +
			center(theme.Body.Width(inner).Render(fb.Body))
		if s.feedback.Err != nil {
			out += "\n\n" + center(theme.Hint.Render("The tutor is unavailable right now; this is a general note."))
		}
		return out
	case s.gaveUp:
		return center(theme.Hint.Render("Feedback is taking a while. It will appear in `eduquiz history`."))
	}
	return center(theme.Hint.Render("Your tutor is reviewing your answers..."))
}
