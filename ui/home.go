package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"huddle/client"
	"huddle/models"
)

// homeFriendsMsg carries the friend list fetched on mount. The seq
// field ties the response to the fetch that issued it; anything else
// is stale and dropped.
type homeFriendsMsg struct {
	seq     int
	friends []models.Friend
	err     error
}

// homeMessagesMsg carries one conversation's history.
type homeMessagesMsg struct {
	seq      int
	friendID string
	messages []models.Message
	err      error
}

type homeSentMsg struct {
	friendID string
	message  models.Message
	err      error
}

type homeMarkedReadMsg struct {
	friendID string
	err      error
}

// HomeModel is the master–detail chat screen: friend list on the
// left, the selected conversation on the right.
type HomeModel struct {
	svc    client.Service
	selfID string
	theme  Theme
	keys   KeyMap

	width  int
	height int

	friends    []models.Friend
	loading    bool
	friendsSeq int
	cursor     int

	// preselect is the "open this conversation" hint carried over
	// from the friends screen; applied once the list arrives.
	preselect string

	selectedID      string
	messages        []models.Message
	messagesLoading bool
	msgSeq          int

	composer      textinput.Model
	focusComposer bool

	// scroll is the offset from the newest message; 0 keeps the view
	// pinned to the bottom, which is also where it snaps whenever the
	// message list changes.
	scroll int
}

func newHomeModel(svc client.Service, selfID string, theme Theme, keys KeyMap) HomeModel {
	composer := textinput.New()
	composer.Placeholder = "Type a message..."
	composer.CharLimit = 2000
	composer.Prompt = "> "

	return HomeModel{
		svc:      svc,
		selfID:   selfID,
		theme:    theme,
		keys:     keys,
		composer: composer,
	}
}

// mount starts the friend list fetch. Called every time the screen
// becomes active: each visit re-fetches, nothing is cached across
// screens.
func (h HomeModel) mount() (HomeModel, tea.Cmd) {
	h.loading = true
	h.friendsSeq++
	return h, h.fetchFriends(h.friendsSeq)
}

// openConversation mounts the screen with a friend pre-selected (the
// navigation hint from the friends screen).
func (h HomeModel) openConversation(friendID string) (HomeModel, tea.Cmd) {
	h.preselect = friendID
	return h.mount()
}

func (h HomeModel) setSize(width, height int) HomeModel {
	h.width = width
	h.height = height
	h.composer.Width = h.chatWidth() - 6
	return h
}

func (h HomeModel) typing() bool { return h.focusComposer }

func (h HomeModel) fetchFriends(seq int) tea.Cmd {
	svc := h.svc
	return func() tea.Msg {
		friends, err := svc.Friends(context.Background())
		return homeFriendsMsg{seq: seq, friends: friends, err: err}
	}
}

func (h HomeModel) fetchMessages(seq int, friendID string) tea.Cmd {
	svc := h.svc
	return func() tea.Msg {
		messages, err := svc.Messages(context.Background(), friendID)
		return homeMessagesMsg{seq: seq, friendID: friendID, messages: messages, err: err}
	}
}

func (h HomeModel) markRead(friendID string) tea.Cmd {
	svc := h.svc
	return func() tea.Msg {
		err := svc.MarkMessagesAsRead(context.Background(), friendID)
		return homeMarkedReadMsg{friendID: friendID, err: err}
	}
}

func (h HomeModel) sendMessage(friendID, content string) tea.Cmd {
	svc := h.svc
	return func() tea.Msg {
		message, err := svc.SendMessage(context.Background(), friendID, content)
		return homeSentMsg{friendID: friendID, message: message, err: err}
	}
}

// selectFriend opens a conversation: bump the message sequence so any
// in-flight fetch for the previous friend lands stale, fetch history,
// and fire mark-as-read.
func (h HomeModel) selectFriend(friendID string) (HomeModel, tea.Cmd) {
	h.selectedID = friendID
	h.messages = nil
	h.messagesLoading = true
	h.msgSeq++
	h.scroll = 0
	h.focusComposer = true
	h.composer.Focus()

	// Clear the unread badge locally; the server-side flip is
	// fire-and-forget.
	for i := range h.friends {
		if h.friends[i].ID == friendID {
			h.friends[i].UnreadCount = 0
		}
	}

	return h, tea.Batch(h.fetchMessages(h.msgSeq, friendID), h.markRead(friendID))
}

func (h HomeModel) update(msg tea.Msg) (HomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case homeFriendsMsg:
		if msg.seq != h.friendsSeq {
			return h, nil
		}
		h.loading = false
		if msg.err != nil {
			// Prior list stays on screen.
			return h, notifyError("Failed to load friends")
		}
		h.friends = msg.friends
		if h.cursor >= len(h.friends) {
			h.cursor = 0
		}
		if h.preselect != "" {
			target := h.preselect
			h.preselect = ""
			for i, friend := range h.friends {
				if friend.ID == target {
					h.cursor = i
					return h.selectFriend(target)
				}
			}
		}
		return h, nil

	case homeMessagesMsg:
		// A response for a conversation the user has already left is
		// discarded outright; the loading flag belongs to the newest
		// fetch.
		if msg.seq != h.msgSeq {
			return h, nil
		}
		h.messagesLoading = false
		if msg.err != nil {
			return h, notifyError("Failed to load messages")
		}
		h.messages = msg.messages
		h.scroll = 0
		return h, nil

	case homeSentMsg:
		if msg.err != nil {
			return h, notifyError("Failed to send message")
		}
		if msg.friendID == h.selectedID {
			h.messages = append(h.messages, msg.message)
			h.scroll = 0
		}
		h.updateSummary(msg.friendID, msg.message, false)
		return h, notifySuccess("Message sent")

	case homeMarkedReadMsg:
		// Fire-and-forget; no re-fetch, no error surface.
		return h, nil

	case tea.KeyMsg:
		return h.handleKey(msg)
	}

	return h, nil
}

func (h HomeModel) handleKey(msg tea.KeyMsg) (HomeModel, tea.Cmd) {
	if h.focusComposer {
		switch {
		case msg.Type == tea.KeyEnter:
			content := strings.TrimSpace(h.composer.Value())
			if content == "" || h.selectedID == "" {
				return h, nil
			}
			h.composer.SetValue("")
			return h, h.sendMessage(h.selectedID, content)

		case key.Matches(msg, h.keys.Back):
			h.focusComposer = false
			h.composer.Blur()
			return h, nil

		case key.Matches(msg, h.keys.PageUp):
			h.scroll += h.chatHeight() / 2
			if max := len(h.messages) - 1; h.scroll > max {
				h.scroll = max
			}
			if h.scroll < 0 {
				h.scroll = 0
			}
			return h, nil

		case key.Matches(msg, h.keys.PageDown):
			h.scroll -= h.chatHeight() / 2
			if h.scroll < 0 {
				h.scroll = 0
			}
			return h, nil
		}

		var cmd tea.Cmd
		h.composer, cmd = h.composer.Update(msg)
		return h, cmd
	}

	switch {
	case key.Matches(msg, h.keys.Up):
		if h.cursor > 0 {
			h.cursor--
		}
	case key.Matches(msg, h.keys.Down):
		if h.cursor < len(h.friends)-1 {
			h.cursor++
		}
	case key.Matches(msg, h.keys.Select):
		if h.cursor < len(h.friends) {
			return h.selectFriend(h.friends[h.cursor].ID)
		}
	}
	return h, nil
}

// handleIncoming applies a pushed message. Inside the open
// conversation it appends and immediately marks read; elsewhere it
// bumps the friend's summary so the list stays roughly current.
func (h HomeModel) handleIncoming(message models.Message) (HomeModel, tea.Cmd) {
	if message.SenderID == h.selectedID {
		h.messages = append(h.messages, message)
		h.scroll = 0
		return h, h.markRead(message.SenderID)
	}
	h.updateSummary(message.SenderID, message, true)
	return h, nil
}

func (h *HomeModel) updateSummary(friendID string, message models.Message, unread bool) {
	for i := range h.friends {
		if h.friends[i].ID == friendID {
			h.friends[i].LastMessage = message.Content
			t := message.CreatedAt
			h.friends[i].LastMessageTime = &t
			if unread {
				h.friends[i].UnreadCount++
			}
			return
		}
	}
}

func (h HomeModel) selectedFriend() *models.Friend {
	for i := range h.friends {
		if h.friends[i].ID == h.selectedID {
			return &h.friends[i]
		}
	}
	return nil
}
