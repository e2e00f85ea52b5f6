package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

var (
	_ View = ImportModel{}
	_ View = ReviewModel{}
	_ View = ListModel{}
	_ View = RecurrenceModel{}
)

var (
	frameTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	frameHelpStyle  = lipgloss.NewStyle().Faint(true)
)

// Frame renders a screen under its title with the key help below it. A
// positive width wraps the help line.
func Frame(v View, width int) string {
	help := frameHelpStyle
	if width > 0 {
		help = help.Width(width)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		frameTitleStyle.PaddingLeft(1).Render(v.Title()),
		v.View(),
		help.PaddingLeft(1).Render(v.ShortHelp()),
	)
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
