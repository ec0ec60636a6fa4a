package ui

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette for the terminal client. ANSI 256-color
// codes for broad terminal compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Accent is the brand color used for headers, the active nav
	// entry, and the caller's own message bubbles.
	Accent lipgloss.Color

	Success lipgloss.Color
	Error   lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	BorderColor lipgloss.Color
	HelpText    lipgloss.Color

	OnlineDot   lipgloss.Color
	UnreadBadge lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	Accent: lipgloss.Color("208"), // orange

	Success: lipgloss.Color("114"),
	Error:   lipgloss.Color("196"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	BorderColor: lipgloss.Color("240"),
	HelpText:    lipgloss.Color("241"),

	OnlineDot:   lipgloss.Color("46"),
	UnreadBadge: lipgloss.Color("196"),
}
