package tui

import (
	"github.com/charmbracelet/lipgloss"

	"sysdoctor-agent/src/contracts"
)

// StyleConfig holds all customizable style colors for the report UI.
type StyleConfig struct {
	PrimaryBlue   lipgloss.Color
	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	BorderColor   lipgloss.Color
	SelectedColor lipgloss.Color

	// Severity accent colors, hottest first
	SeverityColors map[contracts.Severity]lipgloss.Color
}

// DefaultStyles returns the default color palette
func DefaultStyles() *StyleConfig {
	return &StyleConfig{
		PrimaryBlue:   lipgloss.Color("#8AB4F8"),
		TextPrimary:   lipgloss.Color("#E8EAED"),
		TextSecondary: lipgloss.Color("#9AA0A6"),
		BorderColor:   lipgloss.Color("#5F6368"),
		SelectedColor: lipgloss.Color("#303134"),
		SeverityColors: map[contracts.Severity]lipgloss.Color{
			contracts.SeverityImmediate:     lipgloss.Color("#EA4335"), // Red
			contracts.SeverityUrgent:        lipgloss.Color("#FBBC04"), // Yellow
			contracts.SeverityImportant:     lipgloss.Color("#8AB4F8"), // Blue
			contracts.SeverityInformational: lipgloss.Color("#9AA0A6"), // Grey
			contracts.SeverityPreventive:    lipgloss.Color("#34A853"), // Green
		},
	}
}

// SeverityStyle returns the accent style for a severity label
func (s *StyleConfig) SeverityStyle(sev contracts.Severity) lipgloss.Style {
	color, ok := s.SeverityColors[sev]
	if !ok {
		color = s.TextSecondary
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true)
}

// TitleStyle returns a title lipgloss style using this config
func (s *StyleConfig) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.PrimaryBlue).
		Bold(true).
		Padding(0, 1)
}

// HelpStyle returns a help text lipgloss style using this config
func (s *StyleConfig) HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.TextSecondary).
		Padding(0, 2)
}

// DetailHeaderStyle returns the detail panel header style
func (s *StyleConfig) DetailHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.PrimaryBlue).
		Bold(true).
		Padding(0, 1)
}
