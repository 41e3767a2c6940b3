package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finboard/internal/bulk"
	"github.com/MrJamesThe3rd/finboard/internal/matching"
	"github.com/MrJamesThe3rd/finboard/internal/session"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type reviewState int

const (
	reviewStateTimeframe reviewState = iota
	reviewStateReviewing
)

// ReviewModel walks the uncategorized transactions of a timeframe one at a
// time. Every category entered is stored and learned as a rule.
type ReviewModel struct {
	CommonModel
	store   bulk.Store
	rules   *matching.Service
	session *session.Session

	state  reviewState
	picker TimeframePicker
	input  textinput.Model

	queue   []transaction.Transaction
	current *transaction.Transaction
	total   int
	changed bool

	status string
}

func NewReviewModel(store bulk.Store, rules *matching.Service, s *session.Session) ReviewModel {
	ti := textinput.New()
	ti.Placeholder = "Category"
	ti.Width = 40
	ti.ShowSuggestions = true

	return ReviewModel{
		store:   store,
		rules:   rules,
		session: s,
		picker:  NewTimeframePicker(TimeframeAll),
		input:   ti,
	}
}

func (m ReviewModel) Title() string { return "Review Uncategorized" }

func (m ReviewModel) ShortHelp() string {
	if m.state == reviewStateReviewing {
		return "Enter: save & next | Ctrl+s: skip | Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

// uncategorized returns the transactions in r still waiting for a category.
func uncategorized(txs []transaction.Transaction, r transaction.DateRange) []transaction.Transaction {
	return transaction.Filter(txs, transaction.Criteria{
		Categories: []string{transaction.Uncategorized},
		DateRange:  r,
	})
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.queue = uncategorized(m.session.View.All(), msg.Range)
		m.total = len(m.queue)
		m.state = reviewStateReviewing
		m.input.SetSuggestions(m.session.View.FilterOptions().Categories)
		m.next()

		return m, textinput.Blink

	case reviewSavedMsg:
		if msg.err != nil {
			m.status = errorStyle(fmt.Sprintf("Error saving: %v", msg.err))
			return m, nil
		}

		m.session.View.Recategorize([]string{msg.id}, msg.category)
		m.changed = true
		m.next()

		return m, textinput.Blink

	case tea.KeyMsg:
		if m.state == reviewStateTimeframe {
			if msg.Type == tea.KeyEsc && m.picker.IsSelecting() {
				return m, m.leave()
			}

			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)

			return m, cmd
		}

		switch msg.Type {
		case tea.KeyEsc:
			return m, m.leave()
		case tea.KeyCtrlS:
			m.next()
			return m, nil
		case tea.KeyEnter:
			category := strings.TrimSpace(m.input.Value())
			if m.current == nil || category == "" {
				return m, nil
			}

			return m, m.saveCmd(*m.current, category)
		}
	}

	if m.state == reviewStateTimeframe {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// leave returns to the menu, asking for a reload when anything was saved.
func (m ReviewModel) leave() tea.Cmd {
	if m.changed {
		return tea.Batch(Changed, Back)
	}

	return Back
}

func (m *ReviewModel) next() {
	if len(m.queue) == 0 {
		m.current = nil
		m.input.Blur()

		if m.total == 0 {
			m.status = "No uncategorized transactions in this timeframe."
		} else {
			m.status = "All done!"
		}

		return
	}

	tx := m.queue[0]
	m.queue = m.queue[1:]
	m.current = &tx
	m.status = fmt.Sprintf("Reviewing %d/%d", m.total-len(m.queue), m.total)

	suggestion := ""
	if m.rules != nil {
		ctx, cancel := DbCtx()
		suggestion, _ = m.rules.Suggest(ctx, rulePattern(tx))
		cancel()
	}

	m.input.SetValue(suggestion)
	m.input.CursorEnd()
	m.input.Focus()
}

// rulePattern is the text a learned rule matches on: the merchant when one
// is known, otherwise the description.
func rulePattern(tx transaction.Transaction) string {
	if tx.HasMerchant() {
		return strings.TrimSpace(tx.Merchant)
	}

	return strings.TrimSpace(tx.Description)
}

func (m ReviewModel) View() string {
	if m.state == reviewStateTimeframe {
		return lipgloss.NewStyle().Padding(2).Render(
			"Review uncategorized transactions from:\n\n" + m.picker.View(),
		)
	}

	if m.current == nil {
		return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\n(Esc to back)")
	}

	tx := m.current

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n\n", m.status)
	fmt.Fprintf(&sb, "Date:        %s\n", FormatDate(tx.Date))
	fmt.Fprintf(&sb, "Description: %s\n", tx.Description)
	fmt.Fprintf(&sb, "Amount:      %s\n", FormatAmount(tx.Amount))
	fmt.Fprintf(&sb, "Account:     %s\n", tx.Account)

	if tx.HasMerchant() {
		fmt.Fprintf(&sb, "Merchant:    %s\n", tx.Merchant)
	}

	fmt.Fprintf(&sb, "\nCategory:\n%s\n", m.input.View())

	return lipgloss.NewStyle().Padding(2).Render(sb.String())
}

type reviewSavedMsg struct {
	id       string
	category string
	err      error
}

func (m ReviewModel) saveCmd(tx transaction.Transaction, category string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.store.Categorize(ctx, []string{tx.ID}, category); err != nil {
			return reviewSavedMsg{err: err}
		}

		// Rule failures do not undo the saved category.
		if m.rules != nil {
			_ = m.rules.Learn(ctx, rulePattern(tx), category)
		}

		return reviewSavedMsg{id: tx.ID, category: category}
	}
}
