package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vueland/vuebot/internal/rfc"
	"github.com/vueland/vuebot/internal/rfc/compare"
)

// maxVisibleRows is the number of table rows shown before scrolling
const maxVisibleRows = 15

// itemStatus is how an RFC changed in the last refresh
type itemStatus int

const (
	statusUnchanged itemStatus = iota
	statusNew
	statusChanged
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#42b883")).MarginBottom(1)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).MarginTop(1)
	newStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// selectionBackground colours the selected row by its status
var selectionBackground = map[itemStatus]lipgloss.Color{
	statusUnchanged: lipgloss.Color("240"),
	statusNew:       lipgloss.Color("22"),
	statusChanged:   lipgloss.Color("130"),
}

// Model is the terminal browser for a set of RFCs
type Model struct {
	table     table.Model
	query     string
	items     []rfc.RFC
	report    compare.Report
	fetchedAt time.Time
	now       func() time.Time
	width     int
	height    int
}

// NewModel creates a browser for items, the result of query. The report
// highlights RFCs that are new or changed since the previous generation.
func NewModel(query string, items []rfc.RFC, report compare.Report, fetchedAt time.Time) Model {
	t := table.New(
		table.WithColumns(columnsFor(items, 0)),
		table.WithFocused(true),
		table.WithHeight(min(len(items), maxVisibleRows)+1),
	)

	m := Model{
		table:     t,
		query:     query,
		items:     items,
		report:    report,
		fetchedAt: fetchedAt,
		now:       time.Now,
	}

	rows := make([]table.Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, rowFor(item))
	}
	m.table.SetRows(rows)
	m.updateSelectionStyle()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columnsFor(m.items, m.width))
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	m.updateSelectionStyle()
	return m, cmd
}

// View renders the model
func (m Model) View() string {
	var s strings.Builder

	title := "All RFCs"
	if m.query != "" {
		title = fmt.Sprintf("RFCs matching %q", m.query)
	}
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", title, len(m.items))))
	s.WriteString("\n")

	if !m.fetchedAt.IsZero() {
		s.WriteString(infoStyle.Render(fmt.Sprintf("Fetched %s", humanize.RelTime(m.fetchedAt, m.now(), "ago", "from now"))))
		s.WriteString("\n")
	}
	if compare.HasChanges(m.report) {
		s.WriteString(infoStyle.Render("Changes: " + compare.Summary(m.report)))
		s.WriteString("\n")
	}

	s.WriteString(m.table.View())
	s.WriteString("\n")

	if len(m.items) > maxVisibleRows {
		s.WriteString(infoStyle.Render(fmt.Sprintf("Showing %d of %d RFCs, use arrow keys to scroll", maxVisibleRows, len(m.items))))
		s.WriteString("\n")
	}

	if item, ok := m.selected(); ok {
		s.WriteString(detailStyle.Render(fmt.Sprintf("#%d %s\n%s", item.Number, item.Title, item.URL)))
		s.WriteString("\n")
		s.WriteString(m.renderStatus(item))
	}

	s.WriteString(helpStyle.Render("Press 'q' to quit, arrow keys to navigate"))
	return s.String()
}

func (m Model) selected() (rfc.RFC, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.items) {
		return rfc.RFC{}, false
	}
	return m.items[cursor], true
}

func (m Model) statusOf(item rfc.RFC) itemStatus {
	for _, added := range m.report.New {
		if added.Number == item.Number {
			return statusNew
		}
	}
	if _, changed := m.report.Changed[item.Number]; changed {
		return statusChanged
	}
	return statusUnchanged
}

// renderStatus describes how the selected RFC changed in the last refresh
func (m Model) renderStatus(item rfc.RFC) string {
	var s strings.Builder
	switch m.statusOf(item) {
	case statusNew:
		s.WriteString(newStyle.Render("NEW RFC"))
		s.WriteString("\n")
	case statusChanged:
		s.WriteString(changedStyle.Render("CHANGED RFC"))
		s.WriteString("\n")
		for _, change := range m.report.Changed[item.Number] {
			s.WriteString(fmt.Sprintf("  • %s changed from '%s' to '%s'\n", change.Field, change.OldValue, change.NewValue))
		}
	}
	return s.String()
}

// updateSelectionStyle colours the selection by the selected RFC's status
func (m *Model) updateSelectionStyle() {
	status := statusUnchanged
	if item, ok := m.selected(); ok {
		status = m.statusOf(item)
	}

	styles := table.DefaultStyles()
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("230")).
		Background(selectionBackground[status]).
		Bold(true)
	m.table.SetStyles(styles)
}

func rowFor(item rfc.RFC) table.Row {
	return table.Row{
		fmt.Sprintf("#%d", item.Number),
		string(item.State),
		item.Title,
		item.Author,
		item.UpdatedAt.Format("2006-01-02"),
		strings.Join(item.LabelNames(), ", "),
	}
}

// columnsFor sizes the columns to their content, giving any terminal width
// left over to the title column
func columnsFor(items []rfc.RFC, width int) []table.Column {
	titles := []string{"#", "State", "Title", "Author", "Updated", "Labels"}
	widths := make([]int, len(titles))
	for i, title := range titles {
		widths[i] = len(title)
	}
	for _, item := range items {
		for i, cell := range rowFor(item) {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	// Titles can be long, keep them from pushing the other columns off screen
	const titleColumn, maxTitleWidth = 2, 60
	widths[titleColumn] = min(widths[titleColumn], maxTitleWidth)

	if width > 0 {
		used := 0
		for _, w := range widths {
			used += w + 2
		}
		if extra := width - used - 2; extra > 0 {
			widths[titleColumn] += extra
		}
	}

	columns := make([]table.Column, 0, len(titles))
	for i, title := range titles {
		columns = append(columns, table.Column{Title: title, Width: widths[i]})
	}
	return columns
}
