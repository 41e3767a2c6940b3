package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/finboard/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/finboard/internal/config"
	"github.com/MrJamesThe3rd/finboard/internal/export"
	"github.com/MrJamesThe3rd/finboard/internal/importer"
	"github.com/MrJamesThe3rd/finboard/internal/matching"
	"github.com/MrJamesThe3rd/finboard/internal/session"
	"github.com/MrJamesThe3rd/finboard/internal/source"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type model struct {
	txService       *transaction.Service
	matchingService *matching.Service
	importService   *importer.Service
	exportService   *export.Service
	sessions        *session.Manager
	session         *session.Session

	currentView View
	status      string

	listView   view.ListModel
	exportView view.ExportModel
	importView view.ImportModel
	reviewView view.ReviewModel
}

type View int

const (
	ViewMenu   View = 0
	ViewList   View = 1
	ViewExport View = 2
	ViewImport View = 3
	ViewReview View = 4
)

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewList
				m.listView = m.listView.Reload()

				return m, m.listView.Init()
			case "2":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService, m.session, nil)

				return m, m.exportView.Init()
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.txService, m.importService, m.matchingService)

				return m, m.importView.Init()
			case "4":
				m.currentView = ViewReview
				m.reviewView = view.NewReviewModel(m.txService, m.matchingService, m.session)

				return m, m.reviewView.Init()
			}

			return m, nil
		}

	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil

	case view.ChangedMsg:
		ctx, cancel := view.DbCtx()
		defer cancel()

		if _, err := m.sessions.Refresh(ctx, m.session.ID); err != nil {
			m.status = fmt.Sprintf("Reload failed: %v", err)
		} else {
			m.status = ""
		}

		m.listView = m.listView.Reload()

		return m, nil

	case view.ExportRequestMsg:
		m.currentView = ViewExport
		m.exportView = view.NewExportModel(m.exportService, m.session, &msg)

		return m, m.exportView.Init()
	}

	switch m.currentView {
	case ViewList:
		var next tea.Model
		next, cmd = m.listView.Update(msg)
		m.listView = next.(view.ListModel)
	case ViewExport:
		var next tea.Model
		next, cmd = m.exportView.Update(msg)
		m.exportView = next.(view.ExportModel)
	case ViewImport:
		var next tea.Model
		next, cmd = m.importView.Update(msg)
		m.importView = next.(view.ImportModel)
	case ViewReview:
		var next tea.Model
		next, cmd = m.reviewView.Update(msg)
		m.reviewView = next.(view.ReviewModel)
	}

	return m, cmd
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return m.viewMenu()
	case ViewList:
		current = m.listView
	case ViewExport:
		current = m.exportView
	case ViewImport:
		current = m.importView
	case ViewReview:
		current = m.reviewView
	default:
		return "Unknown View"
	}

	title := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render(current.Title())
	help := lipgloss.NewStyle().Faint(true).Padding(0, 1).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, current.View(), help)
}

func (m model) viewMenu() string {
	summary := m.session.View.Summary()

	menu := fmt.Sprintf("Finboard\n\n%d transactions loaded\n\n", summary.TransactionCount) +
		"1. Transactions\n" +
		"2. Export\n" +
		"3. Import\n" +
		"4. Review Uncategorized\n\n" +
		"q. Quit"

	if m.status != "" {
		menu += "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.status)
	}

	return lipgloss.NewStyle().Padding(2).Render(menu)
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()

	stores, err := source.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open source %s: %w", cfg.Source, err)
	}
	defer stores.Close()

	// The terminal belongs to the TUI. Service logs are dropped.
	logger := slog.New(slog.DiscardHandler)

	txSvc := transaction.NewService(stores.Transactions)
	sessions := session.NewManager(txSvc, logger)

	s, err := sessions.Create(ctx)
	if err != nil {
		return err
	}

	m := model{
		txService:       txSvc,
		matchingService: matching.NewService(stores.Rules),
		importService:   importer.NewService(cfg.Import.Account),
		exportService:   export.NewService(cfg.Export.Dir, cfg.Export.Title, logger),
		sessions:        sessions,
		session:         s,
		currentView:     ViewMenu,
		listView:        view.NewListModel(s),
	}

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()

	return err
}

func main() {
	if err := run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
