// Package theme holds the palette and the shared lipgloss styles.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Calm classroom colors that read on dark terminals.
var (
	Primary   = lipgloss.Color("#3B82F6") // blue
	Secondary = lipgloss.Color("#10B981") // emerald
	Accent    = lipgloss.Color("#F59E0B") // amber
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#EF4444")
	Text      = lipgloss.Color("#F1F5F9")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

func fg(c color.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

var (
	Title = fg(Primary).Bold(true).Align(lipgloss.Center)
	Body  = fg(Text)
	Hint  = fg(TextDim).Italic(true)

	Selected   = fg(Primary).Bold(true)
	Unselected = fg(Text)
	Dimmed     = fg(TextDim)
	Highlight  = fg(Accent).Bold(true)

	Correct   = fg(Success).Bold(true)
	Incorrect = fg(Error).Bold(true)
)

// Verdict is Correct when ok, Incorrect otherwise.
func Verdict(ok bool) lipgloss.Style {
	if ok {
		return Correct
	}
	return Incorrect
}
