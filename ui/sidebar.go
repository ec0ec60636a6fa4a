package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const sidebarWidth = 18

var navItems = []struct {
	screen Screen
	label  string
	key    string
}{
	{ScreenHome, "Home", "1"},
	{ScreenSearch, "Search", "2"},
	{ScreenFriends, "Friend List", "3"},
	{ScreenRequests, "Requests", "4"},
}

// viewSidebar renders the static navigation with the active screen
// highlighted.
func (m Model) viewSidebar() string {
	brand := lipgloss.NewStyle().
		Foreground(m.theme.Accent).
		Bold(true).
		Width(sidebarWidth).
		Render(" Huddle")

	var rows []string
	rows = append(rows, brand, "")
	for _, item := range navItems {
		label := " " + item.key + " " + item.label
		style := lipgloss.NewStyle().Width(sidebarWidth).Foreground(m.theme.FaintText)
		if item.screen == m.screen {
			style = style.
				Foreground(m.theme.Accent).
				Bold(true)
			label = "›" + label[1:]
		}
		rows = append(rows, style.Render(label))
	}

	body := strings.Join(rows, "\n")
	return lipgloss.NewStyle().
		Height(m.contentHeight()).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(m.theme.BorderColor).
		Render(body)
}
