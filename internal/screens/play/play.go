// Package play is the terminal screen that runs a quiz question by
// question.
package play

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduquiz/internal/quiz"
	"github.com/abhisek/eduquiz/internal/router"
	"github.com/abhisek/eduquiz/internal/screens/result"
	"github.com/abhisek/eduquiz/internal/study"
	"github.com/abhisek/eduquiz/internal/ui/components"
	"github.com/abhisek/eduquiz/internal/ui/layout"
)

const answerCharLimit = 120

// Screen plays the quiz held by a Study.
type Screen struct {
	ctx   context.Context
	study *study.Study

	question quiz.Question
	index    int
	total    int
	choice   components.MultiChoice
	input    components.TextInput

	// outcome is set while feedback is shown. A quiz resumed during
	// feedback has no outcome, only resumedFeedback.
	outcome         *quiz.Outcome
	resumedFeedback bool
	confirmQuit     bool
	errMsg          string
}

var _ router.Screen = (*Screen)(nil)
var _ router.KeyHintProvider = (*Screen)(nil)

// New returns a screen for the quiz already started on st.
func New(ctx context.Context, st *study.Study) *Screen {
	s := &Screen{ctx: ctx, study: st}
	s.load()
	return s
}

func (s *Screen) Init() tea.Cmd {
	if s.question.Type == quiz.TypeFill && !s.showingFeedback() {
		return s.input.Init()
	}
	return nil
}

func (s *Screen) Title() string {
	if s.total == 0 {
		return "Quiz"
	}
	return fmt.Sprintf("Question %d of %d", s.index+1, s.total)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Exit"}}
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Save and exit"},
			{Key: "N", Description: "Keep going"},
		}
	case s.showingFeedback():
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	case s.question.Type == quiz.TypeFill:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Check"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "A-" + components.Label(len(s.choice.Options)-1), Description: "Answer"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *Screen) showingFeedback() bool {
	return s.outcome != nil || s.resumedFeedback
}

// load reads the current question from the study and resets the input
// widgets for it.
func (s *Screen) load() {
	q, err := s.study.CurrentQuestion()
	if err != nil {
		s.errMsg = err.Error()
		return
	}
	index, total, state := s.study.Progress()
	s.question, s.index, s.total = q, index, total
	s.outcome = nil
	s.resumedFeedback = state == quiz.StateShowingFeedback

	switch q.Type {
	case quiz.TypeMultipleChoice:
		s.choice = components.NewMultiChoice(q.Options)
	case quiz.TypeTrueFalse:
		s.choice = components.NewTrueFalse()
	default:
		s.input = components.NewTextInput("Type your answer...", answerCharLimit)
	}
}

func (s *Screen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if s.question.Type == quiz.TypeFill && !s.showingFeedback() {
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return s, cmd
		}
		return s, nil
	}
	key := kmsg.String()

	if s.errMsg != "" {
		return s, tea.Quit
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			return s, tea.Quit
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if s.showingFeedback() {
		return s.advance()
	}

	if key == "esc" {
		s.confirmQuit = true
		return s, nil
	}

	if s.question.Type == quiz.TypeFill {
		if key == "enter" {
			if s.input.Value() == "" {
				return s, nil
			}
			return s.submit(quiz.Text(s.input.Value()))
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	s.choice, _ = s.choice.Update(msg)
	if !s.choice.Submitted {
		return s, nil
	}
	if s.question.Type == quiz.TypeTrueFalse {
		return s.submit(quiz.TrueFalse(s.choice.ChosenIndex == 0))
	}
	return s.submit(quiz.Choice(s.choice.ChosenIndex))
}

func (s *Screen) submit(a quiz.Answer) (router.Screen, tea.Cmd) {
	out, err := s.study.Submit(s.ctx, a)
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.outcome = &out

	switch s.question.Type {
	case quiz.TypeMultipleChoice:
		if i, ok := s.question.Correct.Index(); ok {
			s.choice.Reveal(i)
		}
	case quiz.TypeTrueFalse:
		if v, ok := s.question.Correct.Bool(); ok {
			i := 1
			if v {
				i = 0
			}
			s.choice.Reveal(i)
		}
	default:
		s.input.Submit(out.Correct)
	}
	return s, nil
}

func (s *Screen) advance() (router.Screen, tea.Cmd) {
	c, err := s.study.Advance(s.ctx)
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	if c != nil {
		next := result.New(s.ctx, s.study, c)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	s.load()
	return s, s.Init()
}
