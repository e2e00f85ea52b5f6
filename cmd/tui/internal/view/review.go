package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/classification"
	"github.com/MrJamesThe3rd/tally/internal/reconcile"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type reviewState int

const (
	reviewStateTimeframe reviewState = iota
	reviewStateLoading
	reviewStateDescribe
	reviewStateConfirm
	reviewStateDone
)

// reviewItem is one transaction waiting for a description, a link decision or both.
type reviewItem struct {
	tx           *transaction.Transaction
	suggestion   classification.Suggestion
	proposal     reconcile.Proposal
	confirmation *reconcile.Confirmation
}

// ReviewModel walks through draft transactions, renaming them with learned
// descriptions, and asks about every obligation link the gate did not settle
// on its own.
type ReviewModel struct {
	txService       *transaction.Service
	classifyService *classification.Service
	reconcileSvc    *reconcile.Service

	state           reviewState
	timeframePicker TimeframePicker
	descInput       textinput.Model

	queue      []*reviewItem
	current    *reviewItem
	totalCount int

	status string
	err    error
}

func NewReviewModel(
	txSvc *transaction.Service,
	classifySvc *classification.Service,
	reconcileSvc *reconcile.Service,
) ReviewModel {
	ti := textinput.New()
	ti.Placeholder = "Description"
	ti.Width = 50

	return ReviewModel{
		txService:       txSvc,
		classifyService: classifySvc,
		reconcileSvc:    reconcileSvc,
		state:           reviewStateTimeframe,
		timeframePicker: NewTimeframePicker(TimeframeThisWeek),
		descInput:       ti,
	}
}

func (m ReviewModel) Title() string { return "Review Transactions" }

func (m ReviewModel) ShortHelp() string {
	switch m.state {
	case reviewStateDescribe:
		return "Enter: save & next | Esc: back"
	case reviewStateConfirm:
		return "y: link | n: leave unlinked | Esc: back"
	}

	return "Esc: back"
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.state = reviewStateLoading
		return m, m.loadCmd(msg)

	case reviewLoadedMsg:
		if msg.err != nil {
			m.state = reviewStateDone
			m.err = msg.err

			return m, nil
		}

		m.queue = msg.items
		m.totalCount = len(msg.items)

		return m.next()

	case reviewSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil

		if awaitsConfirmation(m.current.proposal.Decision) {
			m.state = reviewStateConfirm
			m.descInput.Blur()

			return m, nil
		}

		return m.next()

	case reviewLinkedMsg:
		// The confirmation already left its pending state, so a failed link
		// is reported and the transaction stays unlinked for the next review.
		m.err = msg.err

		return m.next()

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	if m.state == reviewStateTimeframe {
		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)

		return m, cmd
	}

	if m.state == reviewStateDescribe {
		var cmd tea.Cmd
		m.descInput, cmd = m.descInput.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ReviewModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case reviewStateTimeframe:
		if msg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)

		return m, cmd

	case reviewStateLoading:
		return m, nil

	case reviewStateDescribe:
		switch msg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyEnter:
			desc := strings.TrimSpace(m.descInput.Value())
			if desc == "" {
				return m, nil
			}

			return m, m.saveCmd(m.current, desc)
		}

		var cmd tea.Cmd
		m.descInput, cmd = m.descInput.Update(msg)

		return m, cmd

	case reviewStateConfirm:
		switch msg.String() {
		case "esc":
			return m, Back
		case "y":
			if err := m.current.confirmation.Accept(); err != nil {
				m.err = err
				return m, nil
			}

			return m, m.linkCmd(m.current)
		case "n":
			if err := m.current.confirmation.Decline(); err != nil {
				m.err = err
				return m, nil
			}

			return m.next()
		}

	case reviewStateDone:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

// next pops the following item and picks the step it starts at. Committed
// transactions only ever reach the queue for a link decision.
func (m ReviewModel) next() (tea.Model, tea.Cmd) {
	if len(m.queue) == 0 {
		m.current = nil
		m.state = reviewStateDone
		m.descInput.Blur()

		if m.totalCount == 0 {
			m.status = "Nothing to review."
		} else {
			m.status = fmt.Sprintf("All done! Reviewed %d transactions.", m.totalCount)
		}

		return m, nil
	}

	m.current = m.queue[0]
	m.queue = m.queue[1:]
	m.status = fmt.Sprintf("Reviewing %d/%d", m.totalCount-len(m.queue), m.totalCount)

	if m.current.tx.Status == transaction.StatusCommitted {
		m.state = reviewStateConfirm
		m.descInput.Blur()

		return m, nil
	}

	value := m.current.tx.Description
	if m.current.suggestion.Description != "" {
		value = m.current.suggestion.Description
	}

	if value == "" {
		value = m.current.tx.RawDescription
	}

	m.descInput.SetValue(value)
	m.descInput.Focus()
	m.state = reviewStateDescribe

	return m, textinput.Blink
}

func (m ReviewModel) View() string {
	errStr := ""
	if m.err != nil {
		errStr = "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err))
	}

	var content string

	switch m.state {
	case reviewStateTimeframe:
		content = m.timeframePicker.View()
	case reviewStateLoading:
		content = "Loading transactions..."
	case reviewStateDescribe:
		content = fmt.Sprintf("%s\n\n%s\n\nDescription:\n%s",
			m.status, m.txInfo(), m.descInput.View())
	case reviewStateConfirm:
		content = fmt.Sprintf("%s\n\n%s\n\n%s",
			m.status, m.txInfo(), m.proposalInfo())
	case reviewStateDone:
		content = m.status
	}

	return lipgloss.NewStyle().Padding(2).Render(content + errStr)
}

func (m ReviewModel) txInfo() string {
	tx := m.current.tx

	info := fmt.Sprintf(
		"Company: %s\nDate:    %s\nAmount:  %s\nRaw:     %s",
		tx.Company,
		FormatDate(tx.Date),
		FormatSigned(tx.Amount, tx.Type),
		tx.RawDescription,
	)

	if s := m.current.suggestion; s.Category != "" {
		info += fmt.Sprintf("\nCategory: %s / %s", s.Category, s.Subcategory)
	}

	return info
}

func (m ReviewModel) proposalInfo() string {
	d := m.current.proposal.Decision
	if d.Candidate == nil {
		return "No obligation match."
	}

	o := d.Candidate.Obligation
	b := d.Candidate.Breakdown

	header := "Suggested link"
	if d.State == reconcile.StateAutoLinked {
		header = "Likely link"
	}

	s := fmt.Sprintf(
		"%s (score %.0f):\n  %s  %s\n  due %s, outstanding %s of %s\n  date %.0f | amount %.0f | description %.0f | category %.0f | subcategory %.0f",
		header, d.Candidate.Score,
		o.Kind, o.Description,
		FormatDate(o.DueDate), FormatAmount(o.Outstanding), FormatAmount(o.Amount),
		b.Date, b.Amount, b.Description, b.Category, b.Subcategory,
	)

	if d.OverduePriority {
		s += "\n  " + lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true).Render("OVERDUE")
	}

	return s
}

// Messages

type reviewLoadedMsg struct {
	items []*reviewItem
	err   error
}

type reviewSavedMsg struct {
	err error
}

type reviewLinkedMsg struct {
	err error
}

func (m ReviewModel) loadCmd(tf TimeframeSelectedMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		filter := transaction.ListFilter{Linked: new(false)}
		if !tf.All {
			filter.StartDate = &tf.Start
			filter.EndDate = &tf.End
		}

		txs, err := m.txService.List(ctx, filter)
		if err != nil {
			return reviewLoadedMsg{err: err}
		}

		params := make([]transaction.CreateParams, len(txs))
		for i, tx := range txs {
			params[i] = tx.Params()
		}

		proposals, err := m.reconcileSvc.ProposeBatch(ctx, params)
		if err != nil {
			return reviewLoadedMsg{err: err}
		}

		items := make([]*reviewItem, 0, len(txs))

		for i, tx := range txs {
			if tx.Status == transaction.StatusCommitted && !awaitsConfirmation(proposals[i].Decision) {
				continue
			}

			item := &reviewItem{
				tx:           tx,
				proposal:     proposals[i],
				confirmation: reconcile.NewConfirmation(proposals[i].Decision),
			}

			if tx.Status == transaction.StatusDraft && tx.RawDescription != "" {
				// A failed lookup only loses the prefill.
				item.suggestion, _ = m.classifyService.Suggest(ctx, tx.RawDescription)
			}

			items = append(items, item)
		}

		return reviewLoadedMsg{items: items}
	}
}

// saveCmd learns the description for the raw text, stores it and commits the draft.
func (m ReviewModel) saveCmd(item *reviewItem, desc string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		tx := item.tx

		if tx.RawDescription != "" {
			mapping := classification.Mapping{RawPattern: tx.RawDescription, Suggestion: item.suggestion}
			mapping.Description = desc

			if err := m.classifyService.Learn(ctx, mapping); err != nil {
				return reviewSavedMsg{err: err}
			}
		}

		tx.Description = desc
		if item.suggestion.Category != "" {
			tx.Category = item.suggestion.Category
			tx.Subcategory = item.suggestion.Subcategory
		}

		if err := m.txService.Update(ctx, tx); err != nil {
			return reviewSavedMsg{err: err}
		}

		if err := m.txService.UpdateStatus(ctx, tx.ID, transaction.StatusCommitted); err != nil {
			return reviewSavedMsg{err: err}
		}

		tx.Status = transaction.StatusCommitted

		return reviewSavedMsg{}
	}
}

func (m ReviewModel) linkCmd(item *reviewItem) tea.Cmd {
	ref := *item.confirmation.Ref

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, _, err := m.reconcileSvc.Accept(ctx, item.tx.ID, ref)

		return reviewLinkedMsg{err: err}
	}
}
