package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/recurrence"
)

// RecurrenceModel lists detected recurring movements and turns the accepted
// ones into forecasts for the current year.
type RecurrenceModel struct {
	recurrenceSvc *recurrence.Service

	table    table.Model
	patterns []*recurrence.Pattern
	showAll  bool
	year     int

	preview string
	status  string
	err     error
}

func NewRecurrenceModel(svc *recurrence.Service) RecurrenceModel {
	columns := []table.Column{
		{Title: "Company", Width: 12},
		{Title: "Description", Width: 30},
		{Title: "Amount", Width: 12},
		{Title: "Interval", Width: 13},
		{Title: "From", Width: 10},
		{Title: "Status", Width: 9},
		{Title: "Detected", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return RecurrenceModel{
		recurrenceSvc: svc,
		table:         t,
		year:          time.Now().Year(),
	}
}

func (m RecurrenceModel) Title() string { return "Recurrence Patterns" }

func (m RecurrenceModel) ShortHelp() string {
	return "Esc: back | p: preview | a: accept | x: reject | A: accept all | f: pending/all | r: refresh"
}

func (m RecurrenceModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m RecurrenceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case patternsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.patterns = msg.patterns
		m.refreshTable()

		return m, nil

	case patternActionMsg:
		m.preview = ""
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.status = msg.status

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 14)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "f":
			m.showAll = !m.showAll
			return m, m.loadCmd()
		case "p":
			m.preview, m.err = m.previewSelected()
			return m, nil
		case "a":
			if p := m.selected(); p != nil {
				return m, m.acceptCmd(p)
			}

			return m, nil
		case "x":
			if p := m.selected(); p != nil {
				return m, m.rejectCmd(p)
			}

			return m, nil
		case "A":
			return m, m.acceptPendingCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m RecurrenceModel) selected() *recurrence.Pattern {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.patterns) {
		return nil
	}

	return m.patterns[idx]
}

func (m RecurrenceModel) previewSelected() (string, error) {
	p := m.selected()
	if p == nil {
		return "", nil
	}

	drafts, err := recurrence.Expand(*p, m.year)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Forecasts for %d:\n", m.year)

	for _, d := range drafts {
		est := ""
		if d.Estimated {
			est = " (estimated)"
		}

		fmt.Fprintf(&b, "  %s  %s  %s%s\n", FormatDate(d.Date), FormatAmount(d.Amount), d.Description, est)
	}

	if len(drafts) == 0 {
		b.WriteString("  none left this year\n")
	}

	return b.String(), nil
}

func (m RecurrenceModel) View() string {
	filter := "Pending"
	if m.showAll {
		filter = "All"
	}

	header := fmt.Sprintf("Year: %d | [f] Showing: %s", m.year, activeStyle(filter))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	parts := []string{lipgloss.NewStyle().PaddingBottom(1).Render(header), tableView}

	if m.preview != "" {
		parts = append(parts, m.preview)
	}

	if m.status != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status))
	}

	if m.err != nil {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m *RecurrenceModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.patterns))

	for _, p := range m.patterns {
		amount := FormatSigned(p.Amount, p.Type)
		if p.Variable {
			amount = "~" + amount
		}

		rows = append(rows, table.Row{
			p.Company,
			p.Description,
			amount,
			string(p.Interval),
			p.AnchorMonth.String()[:3],
			string(p.Status),
			FormatAge(p.CreatedAt),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type patternsLoadedMsg struct {
	patterns []*recurrence.Pattern
	err      error
}

type patternActionMsg struct {
	status string
	err    error
}

func (m RecurrenceModel) loadCmd() tea.Cmd {
	var status *recurrence.Status
	if !m.showAll {
		status = new(recurrence.StatusPending)
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		patterns, err := m.recurrenceSvc.List(ctx, status)

		return patternsLoadedMsg{patterns: patterns, err: err}
	}
}

func (m RecurrenceModel) acceptCmd(p *recurrence.Pattern) tea.Cmd {
	id, year := p.ID, m.year

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.recurrenceSvc.Accept(ctx, id, year)
		if err != nil {
			return patternActionMsg{err: err}
		}

		return patternActionMsg{status: acceptSummary(res)}
	}
}

func (m RecurrenceModel) rejectCmd(p *recurrence.Pattern) tea.Cmd {
	id, desc := p.ID, p.Description

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.recurrenceSvc.Reject(ctx, id); err != nil {
			return patternActionMsg{err: err}
		}

		return patternActionMsg{status: fmt.Sprintf("Rejected %q.", desc)}
	}
}

func (m RecurrenceModel) acceptPendingCmd() tea.Cmd {
	year := m.year

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.recurrenceSvc.AcceptPending(ctx, year)
		if err != nil {
			return patternActionMsg{err: err}
		}

		created := 0
		for _, a := range res.Accepted {
			created += len(a.Created)
		}

		return patternActionMsg{status: fmt.Sprintf(
			"Accepted %d patterns, %d forecasts created, %d patterns skipped.",
			len(res.Accepted), created, len(res.Failed),
		)}
	}
}

func acceptSummary(res *recurrence.AcceptResult) string {
	s := fmt.Sprintf("Accepted %q: %d forecasts created", res.Pattern.Description, len(res.Created))
	if n := len(res.Duplicates); n > 0 {
		s += fmt.Sprintf(", %d already existed", n)
	}

	return s + "."
}
