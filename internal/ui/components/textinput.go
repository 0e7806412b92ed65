package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduquiz/internal/ui/theme"
)

// TextInput wraps bubbles/textinput for fill-in answers.
type TextInput struct {
	Model     textinput.Model
	submitted bool
	correct   bool
}

func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()
	return TextInput{Model: ti}
}

func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.submitted {
		return t, nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	view := t.Model.View()
	if t.submitted {
		mark := "✗"
		if t.correct {
			mark = "✓"
		}
		view += " " + theme.Verdict(t.correct).Render(mark)
	}
	return view
}

// Value returns the trimmed input.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Submit freezes the input and shows the check mark.
func (t *TextInput) Submit(correct bool) {
	t.submitted = true
	t.correct = correct
	t.Model.Blur()
}
