package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finboard/internal/bulk"
	"github.com/MrJamesThe3rd/finboard/internal/listview"
	"github.com/MrJamesThe3rd/finboard/internal/session"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateSearch
	listStateTimeframe
	listStateCategorize
	listStateConfirmDelete
	listStateDetails
)

var (
	typeCycle   = append([]transaction.Type{""}, transaction.Types...)
	statusCycle = append([]transaction.Status{""}, transaction.Statuses...)
	sortCycle   = []transaction.SortKey{transaction.SortByDate, transaction.SortByAmount, transaction.SortByCategory}
)

// ExportRequestMsg asks for the export screen, seeded from the list.
type ExportRequestMsg struct {
	Range     transaction.DateRange
	Selection bool
}

type ListModel struct {
	CommonModel
	session *session.Session

	state  listState
	table  table.Model
	rows   []transaction.Transaction
	search textinput.Model
	picker TimeframePicker
	form   *huh.Form

	timeframe Timeframe
	typeIdx   int
	statusIdx int

	pending *bulk.DeleteRequest
	details *listview.Details
	status  string
}

func NewListModel(s *session.Session) ListModel {
	columns := []table.Column{
		{Title: " ", Width: 1},
		{Title: "Date", Width: 10},
		{Title: "Description", Width: 28},
		{Title: "Amount", Width: 10},
		{Title: "Category", Width: 16},
		{Title: "Type", Width: 8},
		{Title: "Status", Width: 9},
		{Title: "Account", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		BorderBottom(true).
		Bold(false)
	st.Selected = st.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(st)

	search := textinput.New()
	search.Placeholder = "description, merchant, category, reference"
	search.Prompt = "/ "
	search.Width = 40

	m := ListModel{
		session: s,
		table:   t,
		search:  search,
		picker:  NewTimeframePicker(TimeframeAll),
	}
	m.refreshTable()

	return m
}

func (m ListModel) Title() string { return "Transactions" }

func (m ListModel) ShortHelp() string {
	switch m.state {
	case listStateSearch:
		return "Type to search | Enter: keep | Esc: clear"
	case listStateCategorize, listStateConfirmDelete:
		return "Navigate form | Esc: cancel"
	case listStateDetails, listStateTimeframe:
		return "Esc: back"
	}

	return "Space: select | a: all | x: none | /: search | t: type | s: status | d: dates | " +
		"o/O: sort | c: categorize | D: delete | e: export | Enter: details | r: reload | Esc: back"
}

func (m ListModel) Init() tea.Cmd {
	return nil
}

// Reload redraws the table after the session's transactions were replaced.
func (m ListModel) Reload() ListModel {
	m.refreshTable()
	return m
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-12, 5))

		return m, nil

	case categorizeResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Categorized %d transactions", msg.count)
		}

		m.refreshTable()

		return m, nil

	case deleteResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Deleted %d transactions", msg.count)
			m.pending = nil
		}

		m.refreshTable()

		return m, nil

	case TimeframeSelectedMsg:
		m.timeframe = msg.Timeframe
		m.state = listStateBrowse
		m.table.Focus()
		m.applyCriteria(func(c *transaction.Criteria) { c.DateRange = msg.Range })

		return m, nil
	}

	switch m.state {
	case listStateSearch:
		return m.updateSearch(msg)
	case listStateTimeframe:
		return m.updateTimeframe(msg)
	case listStateCategorize:
		return m.updateCategorize(msg)
	case listStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case listStateDetails:
		if key, ok := msg.(tea.KeyMsg); ok && (key.Type == tea.KeyEsc || key.Type == tea.KeyEnter) {
			m.state = listStateBrowse
			m.details = nil
			m.table.Focus()
		}

		return m, nil
	}

	return m.updateBrowse(msg)
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	v := m.session.View
	m.status = ""

	switch key.String() {
	case "esc":
		return m, Back
	case "r":
		return m, Changed
	case " ":
		if tx, ok := m.current(); ok {
			v.Toggle(tx.ID)
			m.refreshTable()
		}

		return m, nil
	case "a":
		v.SelectAll()
		m.refreshTable()

		return m, nil
	case "x":
		v.ClearSelection()
		m.refreshTable()

		return m, nil
	case "/":
		m.state = listStateSearch
		m.table.Blur()
		m.search.Focus()

		return m, textinput.Blink
	case "t":
		m.typeIdx = (m.typeIdx + 1) % len(typeCycle)
		m.applyCriteria(func(c *transaction.Criteria) {
			c.Types = nil
			if t := typeCycle[m.typeIdx]; t != "" {
				c.Types = []transaction.Type{t}
			}
		})

		return m, nil
	case "s":
		m.statusIdx = (m.statusIdx + 1) % len(statusCycle)
		m.applyCriteria(func(c *transaction.Criteria) {
			c.Statuses = nil
			if s := statusCycle[m.statusIdx]; s != "" {
				c.Statuses = []transaction.Status{s}
			}
		})

		return m, nil
	case "d":
		m.state = listStateTimeframe
		m.picker.Reset()
		m.table.Blur()

		return m, nil
	case "o":
		k, dir := v.Sort()
		v.SetSort(nextSortKey(k), dir)
		m.refreshTable()

		return m, nil
	case "O":
		k, dir := v.Sort()
		if dir == transaction.Asc {
			dir = transaction.Desc
		} else {
			dir = transaction.Asc
		}

		v.SetSort(k, dir)
		m.refreshTable()

		return m, nil
	case "c":
		return m.enterCategorize()
	case "D":
		return m.enterConfirmDelete()
	case "e":
		req := ExportRequestMsg{
			Range:     v.Criteria().DateRange,
			Selection: len(v.SelectedIDs()) > 0,
		}

		return m, func() tea.Msg { return req }
	case "enter":
		tx, ok := m.current()
		if !ok {
			return m, nil
		}

		d, err := v.Details(tx.ID)
		if err != nil {
			m.status = fmt.Sprintf("Error: %v", err)
			return m, nil
		}

		m.details = &d
		m.state = listStateDetails
		m.table.Blur()

		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func nextSortKey(k transaction.SortKey) transaction.SortKey {
	for i, s := range sortCycle {
		if s == k {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}

	return sortCycle[0]
}

func (m ListModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			m.search.SetValue("")
			m.applyCriteria(func(c *transaction.Criteria) { c.SearchTerm = "" })

			fallthrough
		case tea.KeyEnter:
			m.state = listStateBrowse
			m.search.Blur()
			m.table.Focus()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	term := m.search.Value()
	m.applyCriteria(func(c *transaction.Criteria) { c.SearchTerm = term })

	return m, cmd
}

func (m ListModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc && m.picker.IsSelecting() {
		m.state = listStateBrowse
		m.table.Focus()

		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m ListModel) enterCategorize() (tea.Model, tea.Cmd) {
	n := len(m.session.View.SelectedIDs())
	if n == 0 {
		m.status = bulk.ErrEmptySelection.Error()
		return m, nil
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("category").
				Title(fmt.Sprintf("Category for %d transactions", n)).
				Suggestions(m.session.View.FilterOptions().Categories).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return bulk.ErrNoCategory
					}

					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateCategorize
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateCategorize(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		return m.closeForm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	category := m.form.GetString("category")
	m = m.closeForm()

	return m, m.categorizeCmd(category)
}

func (m ListModel) enterConfirmDelete() (tea.Model, tea.Cmd) {
	req, err := m.session.Bulk.RequestDelete()
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	m.pending = req
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete %d transactions?", req.Count())).
				Description("This cannot be undone.").
				Affirmative("Delete").
				Negative("Cancel"),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateConfirmDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.pending = nil
		m.status = "Delete cancelled"

		return m.closeForm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	confirmed := m.form.GetBool("confirm")
	m = m.closeForm()

	if !confirmed {
		m.pending = nil
		m.status = "Delete cancelled"

		return m, nil
	}

	return m, m.deleteCmd(m.pending)
}

func (m ListModel) closeForm() ListModel {
	m.form = nil
	m.state = listStateBrowse
	m.table.Focus()

	return m
}

// applyCriteria edits a copy of the view's criteria and reapplies it.
func (m *ListModel) applyCriteria(edit func(*transaction.Criteria)) {
	c := m.session.View.Criteria()
	edit(&c)
	m.session.View.SetCriteria(c)
	m.refreshTable()
}

func (m ListModel) current() (transaction.Transaction, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return transaction.Transaction{}, false
	}

	return m.rows[idx], true
}

func (m *ListModel) refreshTable() {
	v := m.session.View
	m.rows = v.Visible()

	rows := make([]table.Row, 0, len(m.rows))
	for _, tx := range m.rows {
		mark := " "
		if v.IsSelected(tx.ID) {
			mark = "✓"
		}

		rows = append(rows, table.Row{
			mark,
			FormatDate(tx.Date),
			truncate(tx.Description, 28),
			FormatAmount(tx.Amount),
			truncate(tx.Category, 16),
			string(tx.Type),
			string(tx.Status),
			truncate(tx.Account, 16),
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m ListModel) View() string {
	v := m.session.View
	c := v.Criteria()
	key, dir := v.Sort()

	label := func(s string) string {
		if s == "" {
			return "All"
		}

		return s
	}

	filters := fmt.Sprintf(
		"[t] Type: %s | [s] Status: %s | [d] Dates: %s | [o] Sort: %s %s",
		activeStyle(label(string(typeCycle[m.typeIdx]))),
		activeStyle(label(string(statusCycle[m.statusIdx]))),
		activeStyle(DescribeRange(c.DateRange)),
		activeStyle(string(key)),
		activeStyle(string(dir)),
	)

	sum := v.Summary()
	totals := fmt.Sprintf(
		"%d transactions | income %s | expenses %s | net %s | %d selected",
		sum.TransactionCount,
		FormatAmount(sum.TotalIncome),
		FormatAmount(sum.TotalExpenses),
		FormatAmount(sum.NetAmount),
		len(v.SelectedIDs()),
	)

	lines := []string{filters, lipgloss.NewStyle().Faint(true).Render(totals)}
	if m.state == listStateSearch || c.SearchTerm != "" {
		lines = append(lines, m.search.View())
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(m.table.View())

	if len(m.rows) == 0 {
		tableView = lipgloss.NewStyle().Padding(1, 2).Render("No transactions match the current filters.")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(strings.Join(lines, "\n")),
		tableView,
	)

	if panel := m.sidePanel(); panel != "" {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m ListModel) sidePanel() string {
	style := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(48)

	switch m.state {
	case listStateTimeframe:
		return style.Render(m.picker.View())
	case listStateCategorize, listStateConfirmDelete:
		if m.form != nil {
			return style.Render(m.form.View())
		}
	case listStateDetails:
		if m.details != nil {
			return style.Render(renderDetails(m.details))
		}
	}

	return ""
}

func renderDetails(d *listview.Details) string {
	tx := d.Transaction

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n\n", lipgloss.NewStyle().Bold(true).Render(tx.Description))
	fmt.Fprintf(&sb, "Date:      %s\n", FormatDate(tx.Date))
	fmt.Fprintf(&sb, "Amount:    %s\n", FormatAmount(tx.Amount))
	fmt.Fprintf(&sb, "Category:  %s\n", tx.Category)
	fmt.Fprintf(&sb, "Type:      %s\n", tx.Type)
	fmt.Fprintf(&sb, "Status:    %s\n", tx.Status)
	fmt.Fprintf(&sb, "Account:   %s\n", tx.Account)

	if tx.HasReference() {
		fmt.Fprintf(&sb, "Reference: %s\n", tx.Reference)
	}

	if tx.HasMerchant() {
		fmt.Fprintf(&sb, "Merchant:  %s\n", tx.Merchant)
	}

	if tx.HasLocation() {
		fmt.Fprintf(&sb, "Location:  %s\n", tx.Location)
	}

	fmt.Fprintf(&sb, "\n%s this year: %s over %d transactions\n",
		tx.Category, FormatAmount(d.CategorySpendYTD), d.CategoryCountYTD)

	if len(d.MerchantHistory) > 0 {
		fmt.Fprintf(&sb, "\nOther %s transactions:\n", tx.Merchant)

		for _, h := range d.MerchantHistory {
			fmt.Fprintf(&sb, "  %s  %s\n", FormatDate(h.Date), FormatAmount(h.Amount))
		}
	}

	return sb.String()
}

// Messages

type categorizeResultMsg struct {
	count int
	err   error
}

func (m ListModel) categorizeCmd(category string) tea.Cmd {
	d := m.session.Bulk

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		n, err := d.Categorize(ctx, category)

		return categorizeResultMsg{count: n, err: err}
	}
}

type deleteResultMsg struct {
	count int
	err   error
}

func (m ListModel) deleteCmd(req *bulk.DeleteRequest) tea.Cmd {
	if req == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		n, err := req.Confirm(ctx)
		if errors.Is(err, bulk.ErrAlreadyConfirmed) {
			err = nil
		}

		return deleteResultMsg{count: n, err: err}
	}
}
