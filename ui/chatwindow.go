package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Rendering for the home screen: friend list pane and chat window.

// listWidth returns the friend list pane width. With a conversation
// open the list shrinks to roughly a third, mirroring the master
// pane / detail pane split.
func (h HomeModel) listWidth() int {
	if h.selectedID == "" {
		return h.width
	}
	w := h.width * 3 / 10
	if w < 24 {
		w = 24
	}
	return w
}

func (h HomeModel) chatWidth() int {
	return h.width - h.listWidth() - 1
}

// chatHeight is the message area: pane minus header and composer.
func (h HomeModel) chatHeight() int {
	return h.height - 3
}

func (h HomeModel) view() string {
	if h.loading && len(h.friends) == 0 {
		return h.centered("Loading friends...")
	}

	list := h.viewFriendList()
	if h.selectedID == "" {
		return list
	}

	divider := lipgloss.NewStyle().
		Foreground(h.theme.BorderColor).
		Render(strings.TrimRight(strings.Repeat("│\n", h.height), "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, list, divider, h.viewChat())
}

func (h HomeModel) viewFriendList() string {
	width := h.listWidth()
	header := lipgloss.NewStyle().
		Foreground(h.theme.Accent).
		Bold(true).
		Width(width).
		Render("Chats")

	if len(h.friends) == 0 {
		empty := lipgloss.NewStyle().Foreground(h.theme.FaintText).
			Render("No friends yet.\nSearch for users and send\nfriend requests to start chatting.")
		return lipgloss.JoinVertical(lipgloss.Left, header, "", empty)
	}

	var rows []string
	for i, friend := range h.friends {
		dot := " "
		if friend.IsOnline {
			dot = lipgloss.NewStyle().Foreground(h.theme.OnlineDot).Render("●")
		}

		name := friend.Username
		if friend.UnreadCount > 0 {
			name += lipgloss.NewStyle().
				Foreground(h.theme.UnreadBadge).
				Render(fmt.Sprintf(" (%d)", friend.UnreadCount))
		}

		last := friend.LastMessage
		if last == "" {
			last = "No messages yet"
		}
		last = lipgloss.NewStyle().Foreground(h.theme.FaintText).Render(last)

		row := ansi.Truncate(fmt.Sprintf("%s %s  %s", dot, name, last), width-1, "…")

		style := lipgloss.NewStyle().Width(width)
		if i == h.cursor && !h.focusComposer {
			style = style.
				Background(h.theme.SelectedBackground).
				Foreground(h.theme.SelectedForeground)
		} else if friend.ID == h.selectedID {
			style = style.Foreground(h.theme.Accent)
		}
		rows = append(rows, style.Render(row))
	}

	body := strings.Join(rows, "\n")
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (h HomeModel) viewChat() string {
	width := h.chatWidth()
	friend := h.selectedFriend()

	title := "Conversation"
	status := ""
	if friend != nil {
		title = friend.Username
		if friend.IsOnline {
			status = lipgloss.NewStyle().Foreground(h.theme.OnlineDot).Render(" online")
		} else {
			status = lipgloss.NewStyle().Foreground(h.theme.FaintText).Render(" offline")
		}
	}
	header := lipgloss.NewStyle().
		Foreground(h.theme.Accent).
		Bold(true).
		Render(title) + status

	var body string
	switch {
	case h.messagesLoading:
		body = lipgloss.NewStyle().Foreground(h.theme.FaintText).Render("Loading messages...")
	case len(h.messages) == 0:
		body = lipgloss.NewStyle().Foreground(h.theme.FaintText).
			Render("No messages yet. Start the conversation!")
	default:
		body = h.viewMessages(width)
	}

	bodyBox := lipgloss.NewStyle().
		Width(width).
		Height(h.chatHeight()).
		Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, bodyBox, h.composer.View())
}

// viewMessages renders the visible slice of the conversation,
// pinned to the newest message minus the scroll offset. The caller's
// own messages sit flush right in the accent color.
func (h HomeModel) viewMessages(width int) string {
	height := h.chatHeight()

	end := len(h.messages) - h.scroll
	if end < 0 {
		end = 0
	}
	start := end - height
	if start < 0 {
		start = 0
	}

	ownStyle := lipgloss.NewStyle().Foreground(h.theme.Accent)
	otherStyle := lipgloss.NewStyle().Foreground(h.theme.NormalText)
	timeStyle := lipgloss.NewStyle().Foreground(h.theme.FaintText)

	var lines []string
	for _, message := range h.messages[start:end] {
		stamp := timeStyle.Render(message.CreatedAt.Local().Format("15:04"))
		text := ansi.Truncate(message.Content, width-8, "…")

		if message.SenderID == h.selfID {
			line := fmt.Sprintf("%s %s", ownStyle.Render(text), stamp)
			lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Right, line))
		} else {
			lines = append(lines, fmt.Sprintf("%s %s", stamp, otherStyle.Render(text)))
		}
	}

	return strings.Join(lines, "\n")
}

func (h HomeModel) centered(text string) string {
	return lipgloss.Place(h.width, h.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(h.theme.FaintText).Render(text))
}
