package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/classification"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/reconcile"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateBankSelect importState = iota
	importStateCompany
	importStateFilePick
	importStateImporting
	importStateConflicts
	importStateResult
)

type ImportModel struct {
	txService       *transaction.Service
	importService   *importer.Service
	classifyService *classification.Service
	reconcileSvc    *reconcile.Service

	state        importState
	filePicker   filepicker.Model
	companyInput textinput.Model
	selectedBank importer.Bank
	bankOptions  []importer.Bank
	bankCursor   int

	newParams    []transaction.CreateParams
	conflicts    []transaction.Conflict
	conflictList list.Model
	selected     map[int]bool

	status string
	err    error
}

func NewImportModel(
	txSvc *transaction.Service,
	impSvc *importer.Service,
	classifySvc *classification.Service,
	reconcileSvc *reconcile.Service,
) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.SetHeight(15)

	ci := textinput.New()
	ci.Placeholder = "Company"
	ci.CharLimit = 64
	ci.Width = 30
	ci.Prompt = "Company: "

	return ImportModel{
		txService:       txSvc,
		importService:   impSvc,
		classifyService: classifySvc,
		reconcileSvc:    reconcileSvc,
		filePicker:      fp,
		companyInput:    ci,
		bankOptions:     impSvc.Banks(),
		selected:        make(map[int]bool),
	}
}

func (m ImportModel) Title() string { return "Import Transactions" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateConflicts:
		return "Space: toggle | a: all | n: none | Enter: confirm | Esc: cancel"
	case importStateCompany:
		return "Enter: continue | Esc: back"
	case importStateImporting, importStateResult:
		return "Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStateBankSelect:
			return m.updateBankSelect(msg)
		case importStateCompany:
			return m.updateCompany(msg)
		case importStateConflicts:
			return m.updateConflicts(msg)
		}

	case importResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		if len(msg.result.Conflicts) == 0 {
			m.state = importStateResult
			m.status = importSummary(len(msg.result.Imported), msg.awaiting)

			return m, nil
		}

		m.newParams = msg.result.New
		m.conflicts = msg.result.Conflicts
		m.selected = make(map[int]bool)
		m.state = importStateConflicts

		items := make([]list.Item, len(m.conflicts))
		for i, c := range m.conflicts {
			items[i] = conflictItem{conflict: c, index: i}
		}

		delegate := conflictDelegate{selected: &m.selected}
		m.conflictList = list.New(items, delegate, 80, 20)
		m.conflictList.Title = "Duplicate Conflicts"
		m.conflictList.SetShowStatusBar(false)
		m.conflictList.SetFilteringEnabled(false)
		m.conflictList.SetShowHelp(false)

		return m, nil

	case confirmResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = importSummary(msg.count, msg.awaiting)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func importSummary(imported, awaiting int) string {
	s := fmt.Sprintf("Imported %d transactions.", imported)
	if awaiting > 0 {
		s += fmt.Sprintf(" %d have a likely obligation match; confirm them in Review.", awaiting)
	}

	return s
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateCompany:
		m.state = importStateBankSelect
		m.companyInput.Blur()

		return m, nil
	case importStateFilePick:
		m.state = importStateCompany
		m.companyInput.Focus()

		return m, textinput.Blink
	case importStateResult:
		m.state = importStateBankSelect
		m.err = nil
		m.status = ""

		return m, nil
	case importStateConflicts:
		m.state = importStateBankSelect
		m.conflicts = nil
		m.newParams = nil
		m.selected = make(map[int]bool)

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateBankSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.bankCursor > 0 {
			m.bankCursor--
		}
	case tea.KeyDown:
		if m.bankCursor < len(m.bankOptions)-1 {
			m.bankCursor++
		}
	case tea.KeyEnter:
		if len(m.bankOptions) == 0 {
			return m, nil
		}

		m.selectedBank = m.bankOptions[m.bankCursor]
		m.state = importStateCompany
		m.err = nil
		m.companyInput.Focus()

		return m, textinput.Blink
	}

	return m, nil
}

func (m ImportModel) updateCompany(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		if strings.TrimSpace(m.companyInput.Value()) == "" {
			m.err = importer.ErrMissingCompany
			return m, nil
		}

		m.err = nil
		m.companyInput.Blur()
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	var cmd tea.Cmd
	m.companyInput, cmd = m.companyInput.Update(msg)

	return m, cmd
}

func (m ImportModel) updateConflicts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.conflictList.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a":
		for i := range m.conflicts {
			m.selected[i] = true
		}

		return m, nil
	case "n":
		for i := range m.conflicts {
			m.selected[i] = false
		}

		return m, nil
	case "enter":
		return m, m.confirmCmd()
	}

	var cmd tea.Cmd
	m.conflictList, cmd = m.conflictList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateBankSelect:
		return m.viewBankSelect()
	case importStateCompany:
		return m.viewCompany()
	case importStateFilePick:
		return m.viewFilePick()
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateConflicts:
		return lipgloss.NewStyle().Padding(1).Render(m.conflictList.View())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewBankSelect() string {
	s := "Select Bank:\n\n"

	for i, bank := range m.bankOptions {
		cursor := " "
		if i == m.bankCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, string(bank))
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewCompany() string {
	s := fmt.Sprintf("Importing a %s statement.\n\n%s", m.selectedBank, m.companyInput.View())
	if m.err != nil {
		s += "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.err.Error())
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewFilePick() string {
	return lipgloss.NewStyle().Padding(1).Render(
		fmt.Sprintf("Select file to import (%s, %s):\n\n%s",
			m.selectedBank, strings.TrimSpace(m.companyInput.Value()), m.filePicker.View()),
	)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.status),
		)
	}

	return style.Render(
		lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status),
	)
}

// Messages

type importResultMsg struct {
	result   *transaction.ImportResult
	awaiting int
	err      error
}

type confirmResultMsg struct {
	count    int
	awaiting int
	err      error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	bank := m.selectedBank
	company := m.companyInput.Value()

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		params, err := m.importService.Import(bank, company, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		m.classify(ctx, params)

		result, err := m.txService.ImportBatch(ctx, params)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result, awaiting: m.awaitingConfirmation(ctx, result.Imported)}
	}
}

func (m ImportModel) confirmCmd() tea.Cmd {
	newParams := m.newParams
	conflicts := m.conflicts
	selected := m.selected

	return func() tea.Msg {
		var allParams []transaction.CreateParams
		allParams = append(allParams, newParams...)

		for i, c := range conflicts {
			if !selected[i] {
				continue
			}

			allParams = append(allParams, c.Incoming)
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		txs, err := m.txService.CreateBatch(ctx, allParams)
		if err != nil {
			return confirmResultMsg{err: err}
		}

		return confirmResultMsg{count: len(txs), awaiting: m.awaitingConfirmation(ctx, txs)}
	}
}

// classify fills in descriptions and categories from learned mappings. A
// failed lookup leaves the row as the bank wrote it.
func (m ImportModel) classify(ctx context.Context, params []transaction.CreateParams) {
	for i, p := range params {
		s, err := m.classifyService.Suggest(ctx, p.RawDescription)
		if err != nil || s.Empty() {
			continue
		}

		if s.Description != "" {
			params[i].Description = s.Description
		}

		params[i].Category = s.Category
		params[i].Subcategory = s.Subcategory
	}
}

// awaitingConfirmation counts imported rows the gate would auto-link or ask
// about. The import has already succeeded, so scoring errors only zero the count.
func (m ImportModel) awaitingConfirmation(ctx context.Context, txs []*transaction.Transaction) int {
	if len(txs) == 0 {
		return 0
	}

	params := make([]transaction.CreateParams, len(txs))
	for i, tx := range txs {
		params[i] = tx.Params()
	}

	proposals, err := m.reconcileSvc.ProposeBatch(ctx, params)
	if err != nil {
		return 0
	}

	n := 0

	for _, p := range proposals {
		if awaitsConfirmation(p.Decision) {
			n++
		}
	}

	return n
}

func awaitsConfirmation(d reconcile.Decision) bool {
	return d.Ref != nil && (d.State == reconcile.StateAutoLinked || d.State == reconcile.StatePendingConfirmation)
}

// Conflict list item

type conflictItem struct {
	conflict transaction.Conflict
	index    int
}

func (i conflictItem) Title() string       { return "" }
func (i conflictItem) Description() string { return "" }
func (i conflictItem) FilterValue() string { return "" }

// Conflict list delegate

type conflictDelegate struct {
	selected *map[int]bool
}

func (d conflictDelegate) Height() int                             { return 3 }
func (d conflictDelegate) Spacing() int                            { return 0 }
func (d conflictDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d conflictDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(conflictItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if (*d.selected)[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	incoming := item.conflict.Incoming

	line1 := fmt.Sprintf("%s%s %s  %s  %s",
		cursor, checkbox,
		FormatDate(incoming.Date),
		FormatSigned(incoming.Amount, incoming.Type),
		incoming.Description,
	)

	var line2 string

	if existing := item.conflict.Existing; existing != nil {
		line2 = fmt.Sprintf("      Existing: %s  %s  %s [%s]",
			FormatDate(existing.Date),
			FormatSigned(existing.Amount, existing.Type),
			existing.Description,
			existing.Status,
		)
	} else {
		line2 = fmt.Sprintf("      Repeats row %d of this file", item.conflict.OtherRow+1)
	}

	fmt.Fprintf(w, "%s\n%s\n", line1, line2)
}
