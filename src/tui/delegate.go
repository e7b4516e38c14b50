package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// listRenderingOverhead accounts for padding added by bubbles/list.
	listRenderingOverhead = 6

	severityColWidth = 13
	categoryColWidth = 20
)

// Delegate renders recommendations as table rows.
type Delegate struct {
	RankWidth int
	styles    *StyleConfig
}

// NewDelegate creates a new recommendation table delegate with default styles
func NewDelegate() Delegate {
	return Delegate{
		RankWidth: 2, // default minimum
		styles:    DefaultStyles(),
	}
}

// SetColumnWidths sets the rank column width for the highest rank shown
func (d *Delegate) SetColumnWidths(maxRank int) {
	d.RankWidth = len(fmt.Sprintf("%d", maxRank))
	if d.RankWidth < 2 {
		d.RankWidth = 2
	}
}

// Height returns the height of a list item
func (d Delegate) Height() int {
	return 1
}

// Spacing returns spacing between items
func (d Delegate) Spacing() int {
	return 0
}

// Update handles item updates
func (d Delegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Render renders a list item
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(Item)
	if !ok {
		return
	}

	isSelected := index == m.Index()

	rankFmt := fmt.Sprintf("%%%dd", d.RankWidth)
	rankCol := fmt.Sprintf(rankFmt, entry.Rank)
	sevCol := TruncateAndPad(entry.Rec.Severity.String(), severityColWidth, false)
	catCol := TruncateAndPad(entry.Rec.Category, categoryColWidth, false)

	fixedWidth := d.RankWidth + severityColWidth + categoryColWidth + 9
	availableWidth := m.Width() - fixedWidth - listRenderingOverhead

	var text string
	if availableWidth > 0 {
		text = TruncateAndPad(entry.Rec.Text, availableWidth, true)
	}

	sevStyled := d.styles.SeverityStyle(entry.Rec.Severity).Render(sevCol)

	line := fmt.Sprintf("%s │ %s │ %s │ %s", rankCol, sevStyled, catCol, text)

	style := lipgloss.NewStyle().Foreground(d.styles.TextSecondary)
	if isSelected {
		style = style.Bold(true).Foreground(d.styles.PrimaryBlue).Background(d.styles.SelectedColor)
	}

	fmt.Fprint(w, style.Render(line))
}
