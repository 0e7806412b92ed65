// Package app hosts the interactive quiz player.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduquiz/internal/router"
	"github.com/abhisek/eduquiz/internal/screens/play"
	"github.com/abhisek/eduquiz/internal/study"
	"github.com/abhisek/eduquiz/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	study  *study.Study
	width  int
	height int
}

func newAppModel(ctx context.Context, st *study.Study) AppModel {
	return AppModel{
		router: router.New(play.New(ctx, st)),
		study:  st,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// status is the header's right-hand side: the running question count.
func (m AppModel) status() string {
	index, total, _ := m.study.Progress()
	if total == 0 {
		return ""
	}
	return fmt.Sprintf("%s · %d/%d", m.study.Current().Topic, min(index+1, total), total)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}
	header := layout.RenderHeader(title, m.status(), m.width)

	hints := m.router.KeyHints()
	if hints == nil {
		hints = []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run plays the quiz already started on st until the learner quits or
// finishes. Progress is saved after every answer, so quitting midway can
// be resumed later.
func Run(ctx context.Context, st *study.Study) error {
	p := tea.NewProgram(newAppModel(ctx, st), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run quiz player: %w", err)
	}
	return nil
}
