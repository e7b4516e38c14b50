// Package report renders a finished diagnostic run for the terminal.
// The plain renderer is used for piped output and agent logs; the
// styled renderer colors severities for interactive use.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sysdoctor-agent/src/contracts"
	"sysdoctor-agent/src/pipeline"
)

// severityColors follows the triage palette: hotter severities get
// hotter colors.
var severityColors = map[contracts.Severity]lipgloss.Color{
	contracts.SeverityImmediate:     lipgloss.Color("#EA4335"), // Red
	contracts.SeverityUrgent:        lipgloss.Color("#FBBC04"), // Yellow
	contracts.SeverityImportant:     lipgloss.Color("#8AB4F8"), // Blue
	contracts.SeverityInformational: lipgloss.Color("#9AA0A6"), // Grey
	contracts.SeverityPreventive:    lipgloss.Color("#34A853"), // Green
}

// SeverityStyle returns the lipgloss style for a severity label.
func SeverityStyle(s contracts.Severity) lipgloss.Style {
	color, ok := severityColors[s]
	if !ok {
		color = lipgloss.Color("#9AA0A6")
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true)
}

// Render writes the report as plain text, one recommendation per line,
// in the aggregator's rank order.
func Render(r pipeline.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Processed %d log lines (%d filtered as noise)\n", r.LinesProcessed, r.NoiseFiltered)

	if len(r.Recommendations) == 0 {
		b.WriteString("No issues found. System logs look healthy.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%d recommendations:\n\n", len(r.Recommendations))
	for i, rec := range r.Recommendations {
		fmt.Fprintf(&b, "%2d. [%s] %s: %s\n", i+1, rec.Severity, rec.Category, rec.Text)
	}

	if summary := counterSummary(r.Counters); summary != "" {
		fmt.Fprintf(&b, "\nEvent counts: %s\n", summary)
	}

	return b.String()
}

// RenderStyled is Render with colored severity labels.
func RenderStyled(r pipeline.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Processed %d log lines (%d filtered as noise)\n", r.LinesProcessed, r.NoiseFiltered)

	if len(r.Recommendations) == 0 {
		b.WriteString(SeverityStyle(contracts.SeverityPreventive).Render("No issues found. System logs look healthy."))
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%d recommendations:\n\n", len(r.Recommendations))
	for i, rec := range r.Recommendations {
		label := SeverityStyle(rec.Severity).Render(fmt.Sprintf("[%s]", rec.Severity))
		fmt.Fprintf(&b, "%2d. %s %s: %s\n", i+1, label, rec.Category, rec.Text)
	}

	if summary := counterSummary(r.Counters); summary != "" {
		fmt.Fprintf(&b, "\nEvent counts: %s\n", summary)
	}

	return b.String()
}

// counterSummary formats the tracker counters in a fixed kind order so
// output is deterministic.
func counterSummary(counters map[contracts.EntityKind]int) string {
	order := []contracts.EntityKind{contracts.KindUSB, contracts.KindThermal, contracts.KindGPU, contracts.KindWifi}
	labels := map[contracts.EntityKind]string{
		contracts.KindUSB:     "usb",
		contracts.KindThermal: "thermal",
		contracts.KindGPU:     "gpu",
		contracts.KindWifi:    "wifi",
	}

	var parts []string
	for _, kind := range order {
		if n := counters[kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", labels[kind], n))
		}
	}
	return strings.Join(parts, ", ")
}
