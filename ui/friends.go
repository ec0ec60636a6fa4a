package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"huddle/client"
	"huddle/models"
)

type friendsListMsg struct {
	seq     int
	friends []models.Friend
	err     error
}

// openChatMsg asks the root model to switch to the home screen with a
// conversation pre-selected.
type openChatMsg struct {
	friendID string
}

// FriendsModel is the full friend list screen. Selecting a friend
// jumps to the home screen with that conversation open.
type FriendsModel struct {
	svc   client.Service
	theme Theme
	keys  KeyMap

	width  int
	height int

	friends []models.Friend
	loading bool
	seq     int
	cursor  int
}

func newFriendsModel(svc client.Service, theme Theme, keys KeyMap) FriendsModel {
	return FriendsModel{svc: svc, theme: theme, keys: keys}
}

func (f FriendsModel) mount() (FriendsModel, tea.Cmd) {
	f.loading = true
	f.seq++
	return f, f.fetch(f.seq)
}

func (f FriendsModel) setSize(width, height int) FriendsModel {
	f.width = width
	f.height = height
	return f
}

func (f FriendsModel) typing() bool { return false }

func (f FriendsModel) fetch(seq int) tea.Cmd {
	svc := f.svc
	return func() tea.Msg {
		friends, err := svc.Friends(context.Background())
		return friendsListMsg{seq: seq, friends: friends, err: err}
	}
}

func (f FriendsModel) update(msg tea.Msg) (FriendsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case friendsListMsg:
		if msg.seq != f.seq {
			return f, nil
		}
		f.loading = false
		if msg.err != nil {
			return f, notifyError("Failed to load friends")
		}
		f.friends = msg.friends
		if f.cursor >= len(f.friends) {
			f.cursor = 0
		}
		return f, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, f.keys.Up):
			if f.cursor > 0 {
				f.cursor--
			}
		case key.Matches(msg, f.keys.Down):
			if f.cursor < len(f.friends)-1 {
				f.cursor++
			}
		case key.Matches(msg, f.keys.Select):
			if f.cursor < len(f.friends) {
				friendID := f.friends[f.cursor].ID
				return f, func() tea.Msg { return openChatMsg{friendID: friendID} }
			}
		}
	}

	return f, nil
}

func (f FriendsModel) view() string {
	count := fmt.Sprintf("%d Friend", len(f.friends))
	if len(f.friends) != 1 {
		count += "s"
	}
	header := lipgloss.NewStyle().Foreground(f.theme.Accent).Bold(true).Render("Friend List") +
		"  " + lipgloss.NewStyle().Foreground(f.theme.FaintText).Render(count)

	if f.loading && len(f.friends) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, "",
			lipgloss.NewStyle().Foreground(f.theme.FaintText).Render("Loading friends..."))
	}

	if len(f.friends) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, "",
			lipgloss.NewStyle().Foreground(f.theme.FaintText).
				Render("No friends yet.\nSearch for users and send friend requests to build your network."))
	}

	var rows []string
	for i, friend := range f.friends {
		presence := lipgloss.NewStyle().Foreground(f.theme.FaintText).Render("offline")
		if friend.IsOnline {
			presence = lipgloss.NewStyle().Foreground(f.theme.OnlineDot).Render("online")
		}

		row := fmt.Sprintf("%s  %s  %s", friend.Username,
			lipgloss.NewStyle().Foreground(f.theme.FaintText).Render(friend.Email),
			presence)
		row = ansi.Truncate(row, f.width-2, "…")

		style := lipgloss.NewStyle().Width(f.width - 2)
		if i == f.cursor {
			style = style.
				Background(f.theme.SelectedBackground).
				Foreground(f.theme.SelectedForeground)
		}
		rows = append(rows, style.Render(row))
	}

	help := lipgloss.NewStyle().Foreground(f.theme.HelpText).
		Render("↑/↓ select · Enter message")

	return lipgloss.JoinVertical(lipgloss.Left, header, "",
		strings.Join(rows, "\n"), "", help)
}
