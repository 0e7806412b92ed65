package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduquiz/internal/ui/theme"
)

// MultiChoice is a lettered option picker. True/false questions use it
// with two options.
type MultiChoice struct {
	Options   []string
	Selected  int
	Submitted bool
	// CorrectIndex is revealed after Reveal; -1 before that.
	CorrectIndex int
	ChosenIndex  int
}

func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{
		Options:      options,
		CorrectIndex: -1,
		ChosenIndex:  -1,
	}
}

// NewTrueFalse returns a two-option picker; index 0 is true.
func NewTrueFalse() MultiChoice {
	return NewMultiChoice([]string{"True", "False"})
}

// Label returns the option letter for index i.
func Label(i int) string {
	return string(rune('A' + i))
}

// Update moves the cursor. Enter, a letter or a 1-based number submits.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.choose(m.Selected)
	default:
		if len(key) != 1 {
			break
		}
		c := strings.ToLower(key)[0]
		switch {
		case c >= 'a' && int(c-'a') < len(m.Options) && c != 'j' && c != 'k':
			m.choose(int(c - 'a'))
		case c >= '1' && int(c-'1') < len(m.Options):
			m.choose(int(c - '1'))
		}
	}
	return m, nil
}

func (m *MultiChoice) choose(i int) {
	m.Selected = i
	m.ChosenIndex = i
	m.Submitted = true
}

// Reveal marks the correct option for the feedback view.
func (m *MultiChoice) Reveal(correct int) {
	m.CorrectIndex = correct
}

func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, Label(i), opt)

		style := theme.Unselected
		switch {
		case m.Submitted && i == m.CorrectIndex:
			style = theme.Correct
		case m.Submitted && i == m.ChosenIndex:
			if m.CorrectIndex >= 0 {
				style = theme.Incorrect
			} else {
				style = theme.Selected
			}
		case m.Submitted:
			style = theme.Dimmed
		case i == m.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// Width returns the rendered width of the widest option line.
func (m MultiChoice) Width() int {
	w := 0
	for i, opt := range m.Options {
		w = max(w, lipgloss.Width(fmt.Sprintf("▸ %s)  %s", Label(i), opt)))
	}
	return w
}
