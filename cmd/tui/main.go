package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tally/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/tally/internal/classification"
	classificationStore "github.com/MrJamesThe3rd/tally/internal/classification/store"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/obligation"
	obligationStore "github.com/MrJamesThe3rd/tally/internal/obligation/store"
	"github.com/MrJamesThe3rd/tally/internal/reconcile"
	"github.com/MrJamesThe3rd/tally/internal/recurrence"
	recurrenceStore "github.com/MrJamesThe3rd/tally/internal/recurrence/store"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	txStore "github.com/MrJamesThe3rd/tally/internal/transaction/store"
)

type model struct {
	txService       *transaction.Service
	classifyService *classification.Service
	importService   *importer.Service
	reconcileSvc    *reconcile.Service
	recurrenceSvc   *recurrence.Service

	appName     string
	currentView View
	width       int

	importView     view.ImportModel
	reviewView     view.ReviewModel
	listView       view.ListModel
	recurrenceView view.RecurrenceModel
}

type View int

const (
	ViewMenu       View = 0
	ViewImport     View = 1
	ViewReview     View = 2
	ViewList       View = 3
	ViewRecurrence View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	table, err := cfg.ReconcileTable()
	if err != nil {
		slog.Error("failed to load reconcile weights", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg.ConnectionString(), cfg.Pool())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	txSvc := transaction.NewService(txStore.New(db))
	oblSvc := obligation.NewService(obligationStore.New(db))
	classifySvc := classification.NewService(classificationStore.New(db))
	recSvc := recurrence.NewService(recurrenceStore.New(db), oblSvc)
	impSvc := importer.NewService()
	reconcileSvc := reconcile.NewService(oblSvc, oblSvc, txSvc, table.Weights, table.Thresholds)

	return model{
		txService:       txSvc,
		classifyService: classifySvc,
		importService:   impSvc,
		reconcileSvc:    reconcileSvc,
		recurrenceSvc:   recSvc,
		appName:         cfg.App.Name,
		currentView:     ViewMenu,
		importView:      view.NewImportModel(txSvc, impSvc, classifySvc, reconcileSvc),
		reviewView:      view.NewReviewModel(txSvc, classifySvc, reconcileSvc),
		listView:        view.NewListModel(txSvc, reconcileSvc),
		recurrenceView:  view.NewRecurrenceModel(recSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.txService, m.importService, m.classifyService, m.reconcileSvc)

				return m, m.importView.Init()
			case "2":
				m.currentView = ViewReview
				m.reviewView = view.NewReviewModel(m.txService, m.classifyService, m.reconcileSvc)

				return m, m.reviewView.Init()
			case "3":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.txService, m.reconcileSvc)

				return m, m.listView.Init()
			case "4":
				m.currentView = ViewRecurrence
				m.recurrenceView = view.NewRecurrenceModel(m.recurrenceSvc)

				return m, m.recurrenceView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewReview:
		var newModel tea.Model
		newModel, cmd = m.reviewView.Update(msg)
		m.reviewView = newModel.(view.ReviewModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewRecurrence:
		var newModel tea.Model
		newModel, cmd = m.recurrenceView.Update(msg)
		m.recurrenceView = newModel.(view.RecurrenceModel)
	}

	return m, cmd
}

// screen returns the active screen, or nil on the menu.
func (m model) screen() view.View {
	switch m.currentView {
	case ViewImport:
		return m.importView
	case ViewReview:
		return m.reviewView
	case ViewList:
		return m.listView
	case ViewRecurrence:
		return m.recurrenceView
	}

	return nil
}

func (m model) View() string {
	if s := m.screen(); s != nil {
		return view.Frame(s, m.width)
	}

	if m.currentView != ViewMenu {
		return "Unknown View"
	}

	return lipgloss.NewStyle().Padding(2).Render(
		m.appName + " TUI\n\n" +
			"1. Import Transactions\n" +
			"2. Review & Confirm Links\n" +
			"3. List All Transactions\n" +
			"4. Recurrence Patterns\n\n" +
			"q. Quit",
	)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
