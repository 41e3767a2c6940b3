package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finboard/internal/export"
	"github.com/MrJamesThe3rd/finboard/internal/session"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type exportState int

const (
	exportStateTimeframe exportState = iota
	exportStateForm
	exportStateExporting
	exportStateResult
)

const (
	scopeFiltered = "filtered"
	scopeSelected = "selected"
)

// exportValues is shared by every copy of the model so form bindings stay
// valid.
type exportValues struct {
	format     string
	columns    []string
	categories []string
	filename   string
	scope      string
}

type ExportModel struct {
	CommonModel
	svc     *export.Service
	session *session.Session

	state   exportState
	picker  TimeframePicker
	dates   transaction.DateRange
	form    *huh.Form
	values  *exportValues
	spinner spinner.Model

	path   string
	result export.Summary
	err    error
}

// NewExportModel opens the export screen. A non-nil seed skips the
// timeframe step and preselects the range the list was showing.
func NewExportModel(svc *export.Service, s *session.Session, seed *ExportRequestMsg) ExportModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(activeColor)

	defaults := export.DefaultOptions()

	m := ExportModel{
		svc:     svc,
		session: s,
		state:   exportStateTimeframe,
		picker:  NewTimeframePicker(TimeframeThisMonth),
		spinner: sp,
		values: &exportValues{
			format:  string(defaults.Format),
			columns: columnNames(defaults.Columns),
			scope:   scopeFiltered,
		},
	}

	if seed != nil {
		m.dates = seed.Range
		if seed.Selection {
			m.values.scope = scopeSelected
		}

		m.form = m.buildForm()
		m.state = exportStateForm
	}

	return m
}

func columnNames(cols []export.Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = string(c)
	}

	return out
}

func (m ExportModel) Title() string { return "Export Transactions" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	case exportStateForm:
		return "Tab/Enter: next | Space/x: toggle | Esc: dates"
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	if m.form != nil {
		return m.form.Init()
	}

	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if tf, ok := msg.(TimeframeSelectedMsg); ok {
		m.dates = tf.Range
		m.form = m.buildForm()
		m.state = exportStateForm

		return m, m.form.Init()
	}

	switch m.state {
	case exportStateTimeframe:
		return m.updateTimeframe(msg)
	case exportStateForm:
		return m.updateForm(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc && m.picker.IsSelecting() {
		return m, Back
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.state = exportStateTimeframe
		m.picker.Reset()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	opts, err := m.options()
	if err != nil {
		m.state = exportStateResult
		m.err = err

		return m, nil
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(opts))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.path = result.path
		m.result = result.summary

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) buildForm() *huh.Form {
	columns := make([]huh.Option[string], 0, len(export.Columns))
	for _, c := range export.Columns {
		label := c.Label()
		if c.Required() {
			label += " (always)"
		}

		columns = append(columns, huh.NewOption(label, string(c)))
	}

	categories := huh.NewOptions(m.session.View.FilterOptions().Categories...)

	fields := []huh.Field{
		huh.NewSelect[string]().
			Title("Format").
			Options(
				huh.NewOption("CSV", string(export.FormatCSV)),
				huh.NewOption("PDF", string(export.FormatPDF)),
				huh.NewOption("Excel (XLSX)", string(export.FormatXLSX)),
			).
			Value(&m.values.format),
		huh.NewMultiSelect[string]().
			Title("Columns").
			Options(columns...).
			Value(&m.values.columns),
		huh.NewMultiSelect[string]().
			Title("Categories").
			Description("None selected exports every category").
			Options(categories...).
			Value(&m.values.categories),
		huh.NewInput().
			Title("File name").
			Placeholder(export.DefaultFilename(export.Format(m.values.format), time.Now())).
			Value(&m.values.filename),
	}

	if len(m.session.View.SelectedIDs()) > 0 {
		fields = append(fields, huh.NewSelect[string]().
			Title("Transactions").
			Options(
				huh.NewOption("All matching the dates and categories", scopeFiltered),
				huh.NewOption("Selected only", scopeSelected),
			).
			Value(&m.values.scope))
	}

	return huh.NewForm(huh.NewGroup(fields...)).WithWidth(60).WithShowHelp(false)
}

func (m ExportModel) options() (export.Options, error) {
	opts := export.DefaultOptions()
	opts.Format = export.Format(m.values.format)
	opts.DateRange = m.dates
	opts.Categories = m.values.categories
	opts.Filename = strings.TrimSpace(m.values.filename)

	opts.Columns = make([]export.Column, len(m.values.columns))
	for i, c := range m.values.columns {
		opts.Columns[i] = export.Column(c)
	}

	return opts, opts.Validate()
}

func (m ExportModel) selectedOnly() bool {
	return m.values.scope == scopeSelected && len(m.session.View.SelectedIDs()) > 0
}

// preview describes the rows an export with the current form values would
// contain.
func (m ExportModel) preview() (export.Summary, string) {
	opts, err := m.options()
	if err != nil {
		return export.Summary{}, ""
	}

	if m.selectedOnly() {
		rows := m.session.Bulk.Selected()
		return export.Summary{
			Count:     len(rows),
			Total:     transaction.Total(rows),
			DateRange: "Selected transactions",
		}, m.svc.Filename(opts)
	}

	return export.Preview(m.session.View.All(), opts), m.svc.Filename(opts)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())

	case exportStateForm:
		p, filename := m.preview()

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(40).
			Render(fmt.Sprintf(
				"Preview\n\nTransactions: %d\nTotal amount: %s\nDate range:   %s\nFile:         %s",
				p.Count, FormatAmount(p.Total), p.DateRange, filename,
			))

		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinHorizontal(lipgloss.Top, m.form.View(), "  ", panel),
		)

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Exporting transactions...", m.spinner.View()),
		)

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(okColor).
		Render("Export Complete!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			fmt.Sprintf("Written to %s", m.path),
			"",
			fmt.Sprintf("Transactions: %d", m.result.Count),
			fmt.Sprintf("Total amount: %s", FormatAmount(m.result.Total)),
			fmt.Sprintf("Date range:   %s", m.result.DateRange),
		),
	)
}

type exportResultMsg struct {
	path    string
	summary export.Summary
	err     error
}

func (m ExportModel) runExportCmd(opts export.Options) tea.Cmd {
	summary, _ := m.preview()
	selected := m.selectedOnly()

	return func() tea.Msg {
		var (
			path string
			err  error
		)

		if selected {
			path, err = m.svc.RenderToFile(m.session.Bulk.Selected(), opts)
		} else {
			path, err = m.svc.ExportToFile(m.session.View.All(), opts)
		}

		return exportResultMsg{path: path, summary: summary, err: err}
	}
}
