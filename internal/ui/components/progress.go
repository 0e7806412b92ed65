package components

import (
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduquiz/internal/ui/theme"
)

// Bar is a horizontal meter. A non-zero Mark draws a tick at that fraction
// and colors the fill by whether it was reached, which is how scores show
// the pass threshold.
type Bar struct {
	Label   string
	Percent float64
	Width   int
	Mark    float64
}

// QuizProgress shows how many of total questions are behind the learner.
func QuizProgress(label string, done, total, width int) Bar {
	return Bar{Label: label, Percent: float64(done) / float64(max(total, 1)), Width: width}
}

// ScoreBar shows score out of total against the pass mark, both on the
// same scale.
func ScoreBar(score, total, passMark, width int) Bar {
	t := float64(max(total, 1))
	return Bar{Percent: float64(score) / t, Width: width, Mark: float64(passMark) / t}
}

// cells returns the filled cell count, the mark cell (-1 for none), and
// the bar width left after the label.
func (b Bar) cells(labelWidth int) (filled, mark, width int) {
	width = max(b.Width-labelWidth, 4)
	filled = min(max(int(float64(width)*b.Percent), 0), width)
	mark = -1
	if b.Mark > 0 && b.Mark < 1 {
		mark = min(int(math.Round(float64(width)*b.Mark)), width-1)
	}
	return filled, mark, width
}

func (b Bar) View() string {
	var out strings.Builder
	if b.Label != "" {
		out.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(b.Label))
		out.WriteString("  ")
	}
	filled, mark, width := b.cells(lipgloss.Width(out.String()))

	fill := theme.Secondary
	if b.Mark > 0 {
		fill = theme.Error
		if b.Percent >= b.Mark {
			fill = theme.Success
		}
	}
	on := lipgloss.NewStyle().Foreground(fill)
	off := lipgloss.NewStyle().Foreground(theme.Border)
	tick := lipgloss.NewStyle().Foreground(theme.Accent)

	for i := range width {
		switch {
		case i == mark:
			out.WriteString(tick.Render("│"))
		case i < filled:
			out.WriteString(on.Render("█"))
		default:
			out.WriteString(off.Render("░"))
		}
	}
	return out.String()
}
