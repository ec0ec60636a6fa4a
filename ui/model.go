// Package ui is the terminal client: a sidebar-navigated shell with
// screens for chats, user search, the friend list, and friend request
// management. All data flows through an injected client.Service; each
// screen owns its fetched snapshot and re-fetches on every visit.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"huddle/client"
)

// Screen identifies which view fills the content pane.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenSearch
	ScreenFriends
	ScreenRequests
)

// Subscriber provides the live push stream. Optional; without it the
// client still works, just without incoming-message delivery.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan client.Event, error)
}

type subscribedMsg struct {
	events <-chan client.Event
	err    error
}

type wsEventMsg struct {
	event client.Event
}

type wsClosedMsg struct{}

type resubscribeMsg struct{}

// resubscribeDelay is the pause before redialing a dropped stream.
const resubscribeDelay = 5 * time.Second

// Config wires the root model. Service is required; Auth enables the
// sign-in gate when SelfID is empty; Subscriber enables live pushes.
type Config struct {
	Service    client.Service
	Auth       Authenticator
	Subscriber Subscriber

	// SelfID is the signed-in user's ID. Empty means not signed in
	// yet: the login screen gates everything until Auth succeeds.
	SelfID string
}

// Model is the top-level bubbletea model.
type Model struct {
	svc   client.Service
	sub   Subscriber
	theme Theme
	keys  KeyMap

	width  int
	height int
	ready  bool

	signedIn bool
	selfID   string
	login    LoginModel

	screen   Screen
	home     HomeModel
	search   SearchModel
	friends  FriendsModel
	requests RequestsModel

	noticeText  string
	noticeLevel noticeLevel
	noticeSeq   int

	events <-chan client.Event

	initCmd tea.Cmd
}

func NewModel(cfg Config) Model {
	theme := DefaultTheme
	keys := DefaultKeyMap

	m := Model{
		svc:      cfg.Service,
		sub:      cfg.Subscriber,
		theme:    theme,
		keys:     keys,
		signedIn: cfg.SelfID != "",
		selfID:   cfg.SelfID,
		login:    newLoginModel(cfg.Auth, theme),
		screen:   ScreenHome,
		home:     newHomeModel(cfg.Service, cfg.SelfID, theme, keys),
		search:   newSearchModel(cfg.Service, theme, keys),
		friends:  newFriendsModel(cfg.Service, theme, keys),
		requests: newRequestsModel(cfg.Service, theme, keys),
	}

	if m.signedIn {
		var mountCmd tea.Cmd
		m.home, mountCmd = m.home.mount()
		m.initCmd = tea.Batch(mountCmd, m.subscribe())
	}

	return m
}

func (m Model) Init() tea.Cmd {
	return m.initCmd
}

func (m Model) subscribe() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	return func() tea.Msg {
		events, err := sub.Subscribe(context.Background())
		return subscribedMsg{events: events, err: err}
	}
}

func waitEvent(events <-chan client.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return wsClosedMsg{}
		}
		return wsEventMsg{event: event}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		w, h := m.contentWidth(), m.contentHeight()
		m.login = m.login.setSize(msg.Width, msg.Height)
		m.home = m.home.setSize(w, h)
		m.search = m.search.setSize(w, h)
		m.friends = m.friends.setSize(w, h)
		m.requests = m.requests.setSize(w, h)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case noticeMsg:
		m.noticeText = msg.text
		m.noticeLevel = msg.level
		m.noticeSeq++
		seq := m.noticeSeq
		return m, tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg {
			return noticeFadeMsg{seq: seq}
		})

	case noticeFadeMsg:
		if msg.seq == m.noticeSeq {
			m.noticeText = ""
		}
		return m, nil

	case authResultMsg:
		var cmd tea.Cmd
		m.login, cmd = m.login.update(msg)
		if msg.err == nil {
			m.signedIn = true
			m.selfID = msg.user.ID
			m.home.selfID = msg.user.ID
			m.screen = ScreenHome
			var mountCmd tea.Cmd
			m.home, mountCmd = m.home.mount()
			return m, tea.Batch(cmd, mountCmd, m.subscribe())
		}
		return m, cmd

	case subscribedMsg:
		if msg.err != nil {
			return m, tea.Tick(resubscribeDelay, func(time.Time) tea.Msg {
				return resubscribeMsg{}
			})
		}
		m.events = msg.events
		return m, waitEvent(m.events)

	case wsEventMsg:
		var cmd tea.Cmd
		m, cmd = m.handleEvent(msg.event)
		if m.events == nil {
			return m, cmd
		}
		return m, tea.Batch(cmd, waitEvent(m.events))

	case wsClosedMsg:
		return m, tea.Tick(resubscribeDelay, func(time.Time) tea.Msg {
			return resubscribeMsg{}
		})

	case resubscribeMsg:
		return m, m.subscribe()

	case openChatMsg:
		m.screen = ScreenHome
		var cmd tea.Cmd
		m.home, cmd = m.home.openConversation(msg.friendID)
		return m, cmd

	// Data messages go to the screen that owns them, active or not:
	// a response for a screen the user left still lands in that
	// screen's snapshot.
	case homeFriendsMsg, homeMessagesMsg, homeSentMsg, homeMarkedReadMsg:
		var cmd tea.Cmd
		m.home, cmd = m.home.update(msg)
		return m, cmd

	case searchDebounceMsg, searchResultsMsg, searchRequestSentMsg:
		var cmd tea.Cmd
		m.search, cmd = m.search.update(msg)
		return m, cmd

	case friendsListMsg:
		var cmd tea.Cmd
		m.friends, cmd = m.friends.update(msg)
		return m, cmd

	case requestsListMsg, requestResolvedMsg:
		var cmd tea.Cmd
		m.requests, cmd = m.requests.update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if !m.signedIn {
		var cmd tea.Cmd
		m.login, cmd = m.login.update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.NextScreen):
		return m.switchScreen((m.screen + 1) % 4)
	case key.Matches(msg, m.keys.PrevScreen):
		return m.switchScreen((m.screen + 3) % 4)
	}

	if !m.activeTyping() {
		switch {
		case key.Matches(msg, m.keys.ScreenHome):
			return m.switchScreen(ScreenHome)
		case key.Matches(msg, m.keys.ScreenSearch):
			return m.switchScreen(ScreenSearch)
		case key.Matches(msg, m.keys.ScreenFriends):
			return m.switchScreen(ScreenFriends)
		case key.Matches(msg, m.keys.ScreenRequests):
			return m.switchScreen(ScreenRequests)
		case key.Matches(msg, m.keys.Back) && m.screen != ScreenHome:
			// Esc anywhere else lands on home, the catch-all.
			return m.switchScreen(ScreenHome)
		case msg.String() == "q":
			return m, tea.Quit
		}
	}

	return m.delegateKey(msg)
}

func (m Model) delegateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case ScreenHome:
		m.home, cmd = m.home.update(msg)
	case ScreenSearch:
		m.search, cmd = m.search.update(msg)
	case ScreenFriends:
		m.friends, cmd = m.friends.update(msg)
	case ScreenRequests:
		m.requests, cmd = m.requests.update(msg)
	}
	return m, cmd
}

func (m Model) activeTyping() bool {
	switch m.screen {
	case ScreenHome:
		return m.home.typing()
	case ScreenSearch:
		return m.search.typing()
	case ScreenFriends:
		return m.friends.typing()
	case ScreenRequests:
		return m.requests.typing()
	}
	return false
}

// switchScreen activates a screen and re-mounts it; every visit
// re-fetches because screens never share state.
func (m Model) switchScreen(screen Screen) (tea.Model, tea.Cmd) {
	if screen == m.screen {
		return m, nil
	}
	m.screen = screen

	var cmd tea.Cmd
	switch screen {
	case ScreenHome:
		m.home, cmd = m.home.mount()
	case ScreenSearch:
		m.search, cmd = m.search.mount()
	case ScreenFriends:
		m.friends, cmd = m.friends.mount()
	case ScreenRequests:
		m.requests, cmd = m.requests.mount()
	}
	return m, cmd
}

func (m Model) handleEvent(event client.Event) (Model, tea.Cmd) {
	switch event.Type {
	case "new_message":
		if event.Message == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.home, cmd = m.home.handleIncoming(*event.Message)
		return m, cmd

	case "friend_request":
		if m.screen == ScreenRequests {
			var cmd tea.Cmd
			m.requests, cmd = m.requests.mount()
			return m, cmd
		}
		return m, notifySuccess("You have a new friend request")

	case "friend_request_accepted":
		return m, notifySuccess("Your friend request was accepted")
	}

	return m, nil
}

func (m Model) contentWidth() int { return m.width - sidebarWidth - 3 }

func (m Model) contentHeight() int { return m.height - 1 }

func (m Model) View() string {
	if !m.ready {
		return ""
	}

	if !m.signedIn {
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Height(m.contentHeight()).Render(m.login.view()),
			m.viewStatusBar())
	}

	var content string
	switch m.screen {
	case ScreenHome:
		content = m.home.view()
	case ScreenSearch:
		content = m.search.view()
	case ScreenFriends:
		content = m.friends.view()
	case ScreenRequests:
		content = m.requests.view()
	}

	contentBox := lipgloss.NewStyle().
		Width(m.contentWidth()).
		Height(m.contentHeight()).
		Padding(0, 1).
		Render(content)

	main := lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(), contentBox)
	return lipgloss.JoinVertical(lipgloss.Left, main, m.viewStatusBar())
}

func (m Model) viewStatusBar() string {
	help := lipgloss.NewStyle().Foreground(m.theme.HelpText).
		Render(" 1-4 screens · Tab cycle · C-c quit")

	if m.noticeText == "" {
		return lipgloss.NewStyle().Width(m.width).Render(help)
	}

	color := m.theme.Success
	if m.noticeLevel == noticeError {
		color = m.theme.Error
	}
	notice := lipgloss.NewStyle().Foreground(color).Bold(true).Render(m.noticeText + " ")

	gap := m.width - lipgloss.Width(help) - lipgloss.Width(notice)
	if gap < 1 {
		return notice
	}
	return help + lipgloss.NewStyle().Width(gap).Render("") + notice
}
