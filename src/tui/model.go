// Package tui provides the terminal user interface for browsing a
// finished diagnostic run: a severity-ranked recommendation list on
// top with a detail panel for the selected entry below.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sysdoctor-agent/src/contracts"
	"sysdoctor-agent/src/pipeline"
)

// Model is the Bubble Tea model for the diagnostic report TUI.
// It displays recommendations in a split-view layout:
// - Top: scrollable ranked recommendation list
// - Bottom: detail view for the selected recommendation
type Model struct {
	report pipeline.Report
	items  []Item

	list     list.Model
	delegate *Delegate
	styles   *StyleConfig

	detailScroll   int
	terminalWidth  int
	terminalHeight int
}

// NewModel creates a Model for a finished report. Recommendations are
// already in rank order; the model never re-sorts them.
func NewModel(report pipeline.Report) Model {
	styles := DefaultStyles()
	delegate := NewDelegate()

	items := make([]Item, len(report.Recommendations))
	listItems := make([]list.Item, len(report.Recommendations))
	for i, rec := range report.Recommendations {
		items[i] = Item{Rec: rec, Rank: i + 1}
		listItems[i] = items[i]
	}
	delegate.SetColumnWidths(len(items))

	l := list.New(listItems, &delegate, 0, 0)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return Model{
		report:   report,
		items:    items,
		list:     l,
		delegate: &delegate,
		styles:   styles,
	}
}

// Init initializes the model. Required by tea.Model interface.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.terminalWidth = msg.Width
		m.terminalHeight = msg.Height
		m.list.SetSize(msg.Width, m.listHeight())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		// Scroll detail view independently
		case "d":
			m.detailScroll++
			return m, nil
		case "u":
			if m.detailScroll > 0 {
				m.detailScroll--
			}
			return m, nil
		}

		// Any navigation resets the detail scroll.
		before := m.list.Index()
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		if m.list.Index() != before {
			m.detailScroll = 0
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// listHeight reserves a quarter of the available height for the list,
// matching the split used for detail-heavy triage screens.
func (m Model) listHeight() int {
	// UI overhead: title (1) + summary (1) + divider (1) + help (1)
	available := m.terminalHeight - 4
	if available < 8 {
		available = 8
	}
	h := available / 4
	if h < 2 {
		h = 2
	}
	return h
}

// View renders the split-view layout.
func (m Model) View() string {
	if m.terminalHeight == 0 {
		return "Initializing..."
	}

	if len(m.items) == 0 {
		return "No issues found. System logs look healthy.\n"
	}

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render("sysdoctor - Diagnostic Report"))
	b.WriteString("\n")
	b.WriteString(m.styles.HelpStyle().Render(m.summaryLine()))
	b.WriteString("\n")

	b.WriteString(m.list.View())
	b.WriteString("\n")

	divider := strings.Repeat("─", max(m.terminalWidth, 1))
	b.WriteString(lipgloss.NewStyle().Foreground(m.styles.BorderColor).Render(divider))
	b.WriteString("\n")

	detailHeight := m.terminalHeight - 4 - m.listHeight()
	if detailHeight < 4 {
		detailHeight = 4
	}
	detailLines := m.renderDetail()
	start := m.detailScroll
	if start > len(detailLines)-1 {
		start = max(len(detailLines)-1, 0)
	}
	end := min(start+detailHeight, len(detailLines))
	for i := start; i < end; i++ {
		b.WriteString(detailLines[i])
		b.WriteString("\n")
	}
	for i := end - start; i < detailHeight; i++ {
		b.WriteString("\n")
	}

	helpText := "↑/↓ navigate list • d/u scroll detail • q quit"
	b.WriteString(lipgloss.NewStyle().Faint(true).Render(helpText))

	return b.String()
}

// summaryLine formats the run totals shown under the title.
func (m Model) summaryLine() string {
	return fmt.Sprintf("%d recommendations │ %d lines processed │ %d filtered as noise",
		len(m.items), m.report.LinesProcessed, m.report.NoiseFiltered)
}

// renderDetail generates the detail view lines for the selected recommendation
func (m Model) renderDetail() []string {
	selected, ok := m.list.SelectedItem().(Item)
	if !ok {
		return []string{"No recommendation selected"}
	}

	var lines []string

	header := fmt.Sprintf("Rank %d/%d │ %s │ %s",
		selected.Rank, len(m.items), selected.Rec.Severity, selected.Rec.Category)
	lines = append(lines, m.styles.DetailHeaderStyle().Render(header))
	lines = append(lines, "")

	wrapWidth := m.terminalWidth - 4
	if wrapWidth < 20 {
		wrapWidth = 20
	}
	for _, line := range strings.Split(Wrap(selected.Rec.Text, wrapWidth), "\n") {
		lines = append(lines, "  "+line)
	}

	if counts := m.counterLines(); len(counts) > 0 {
		lines = append(lines, "")
		style := lipgloss.NewStyle().Foreground(m.styles.TextSecondary)
		lines = append(lines, style.Render("─── Event counts ───"))
		for _, c := range counts {
			lines = append(lines, style.Render("  "+c))
		}
	}

	return lines
}

// counterLines formats the tracker counters in a fixed kind order.
func (m Model) counterLines() []string {
	order := []contracts.EntityKind{contracts.KindUSB, contracts.KindThermal, contracts.KindGPU, contracts.KindWifi}

	var out []string
	for _, kind := range order {
		if n := m.report.Counters[kind]; n > 0 {
			out = append(out, fmt.Sprintf("%s: %d", kind, n))
		}
	}
	return out
}

// Run starts the interactive viewer and blocks until the user quits.
func Run(report pipeline.Report) error {
	p := tea.NewProgram(NewModel(report), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
