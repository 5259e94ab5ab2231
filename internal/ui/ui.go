// Package ui holds the terminal styles shared by all commands.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Header styles the plan and section titles.
	Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

	// Accent highlights the value the user asked about (next session,
	// streak counts, record weights).
	Accent = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))

	// Warn marks dry-run notices and validation problems.
	Warn = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	// Muted renders secondary detail such as retired plan entries.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
