package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"huddle/client"
	"huddle/models"
)

// searchDebounce is the cooldown after the last keystroke before a
// search is actually issued.
const searchDebounce = 300 * time.Millisecond

// searchDebounceMsg fires when the cooldown elapses. Only the latest
// generation triggers a fetch; earlier keystrokes' timers arrive with
// stale seq values and die here.
type searchDebounceMsg struct {
	seq int
}

type searchResultsMsg struct {
	seq   int
	users []models.User
	err   error
}

type searchRequestSentMsg struct {
	userID   string
	username string
	err      error
}

// SearchModel is the user search screen: a debounced query input over
// a result list with a per-row "Add Friend" action.
type SearchModel struct {
	svc   client.Service
	theme Theme
	keys  KeyMap

	width  int
	height int

	input   textinput.Model
	results []models.User
	loading bool
	cursor  int

	// debounceSeq advances on every keystroke; searchSeq advances on
	// every issued search. Separate counters because a keystroke can
	// invalidate a timer that never becomes a search (empty query).
	debounceSeq int
	searchSeq   int

	sending pendingSet
}

func newSearchModel(svc client.Service, theme Theme, keys KeyMap) SearchModel {
	input := textinput.New()
	input.Placeholder = "Search by username or email..."
	input.Prompt = "/ "
	input.CharLimit = 100
	input.Focus()

	return SearchModel{
		svc:     svc,
		theme:   theme,
		keys:    keys,
		input:   input,
		sending: newPendingSet(),
	}
}

// mount resets the screen; the query input regains focus, results are
// re-derived from whatever the user types next.
func (s SearchModel) mount() (SearchModel, tea.Cmd) {
	s.input.Focus()
	return s, nil
}

func (s SearchModel) setSize(width, height int) SearchModel {
	s.width = width
	s.height = height
	s.input.Width = width - 8
	return s
}

func (s SearchModel) typing() bool { return true }

func (s SearchModel) fetch(seq int, query string) tea.Cmd {
	svc := s.svc
	return func() tea.Msg {
		users, err := svc.SearchUsers(context.Background(), query)
		return searchResultsMsg{seq: seq, users: users, err: err}
	}
}

func (s SearchModel) sendRequest(userID, username string) tea.Cmd {
	svc := s.svc
	return func() tea.Msg {
		err := svc.SendFriendRequest(context.Background(), userID)
		return searchRequestSentMsg{userID: userID, username: username, err: err}
	}
}

func (s SearchModel) update(msg tea.Msg) (SearchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case searchDebounceMsg:
		if msg.seq != s.debounceSeq {
			return s, nil
		}
		query := strings.TrimSpace(s.input.Value())
		if query == "" {
			return s, nil
		}
		s.searchSeq++
		s.loading = true
		return s, s.fetch(s.searchSeq, query)

	case searchResultsMsg:
		if msg.seq != s.searchSeq {
			return s, nil
		}
		s.loading = false
		if msg.err != nil {
			return s, notifyError("Search failed")
		}
		s.results = msg.users
		s.cursor = 0
		return s, nil

	case searchRequestSentMsg:
		s.sending.done(msg.userID)
		if msg.err != nil {
			return s, notifyError("Failed to send friend request")
		}
		return s, notifySuccess("Friend request sent to " + msg.username)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s SearchModel) handleKey(msg tea.KeyMsg) (SearchModel, tea.Cmd) {
	switch {
	case key.Matches(msg, s.keys.Up):
		if msg.Type == tea.KeyUp { // plain "k" belongs to the query
			if s.cursor > 0 {
				s.cursor--
			}
			return s, nil
		}

	case key.Matches(msg, s.keys.Down):
		if msg.Type == tea.KeyDown {
			if s.cursor < len(s.results)-1 {
				s.cursor++
			}
			return s, nil
		}

	case key.Matches(msg, s.keys.Select):
		if s.cursor < len(s.results) {
			user := s.results[s.cursor]
			if s.sending.active(user.ID) {
				return s, nil
			}
			s.sending.start(user.ID)
			return s, s.sendRequest(user.ID, user.Username)
		}
		return s, nil
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if s.input.Value() != before {
		s.debounceSeq++
		if strings.TrimSpace(s.input.Value()) == "" {
			// Empty query short-circuits: clear results, issue no
			// facade call, and orphan any in-flight search.
			s.results = nil
			s.loading = false
			s.searchSeq++
			return s, cmd
		}
		seq := s.debounceSeq
		return s, tea.Batch(cmd, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
			return searchDebounceMsg{seq: seq}
		}))
	}

	return s, cmd
}

func (s SearchModel) view() string {
	header := lipgloss.NewStyle().
		Foreground(s.theme.Accent).
		Bold(true).
		Render("Search Users")

	inputLine := s.input.View()
	if s.loading {
		inputLine += lipgloss.NewStyle().Foreground(s.theme.Accent).Render("  searching...")
	}

	var body string
	query := strings.TrimSpace(s.input.Value())
	switch {
	case query != "" && !s.loading && len(s.results) == 0:
		body = lipgloss.NewStyle().Foreground(s.theme.FaintText).
			Render("No users found. Try a different search term.")
	case len(s.results) > 0:
		body = s.viewResults()
	}

	help := lipgloss.NewStyle().Foreground(s.theme.HelpText).
		Render("↑/↓ select · Enter add friend")

	return lipgloss.JoinVertical(lipgloss.Left, header, "", inputLine, "", body, "", help)
}

func (s SearchModel) viewResults() string {
	var rows []string
	for i, user := range s.results {
		dot := " "
		if user.IsOnline {
			dot = lipgloss.NewStyle().Foreground(s.theme.OnlineDot).Render("●")
		}

		action := "[Add Friend]"
		if s.sending.active(user.ID) {
			action = "[Sending...]"
		}

		row := fmt.Sprintf("%s %s  %s  %s", dot, user.Username,
			lipgloss.NewStyle().Foreground(s.theme.FaintText).Render(user.Email),
			lipgloss.NewStyle().Foreground(s.theme.Accent).Render(action))
		row = ansi.Truncate(row, s.width-2, "…")

		style := lipgloss.NewStyle().Width(s.width - 2)
		if i == s.cursor {
			style = style.
				Background(s.theme.SelectedBackground).
				Foreground(s.theme.SelectedForeground)
		}
		rows = append(rows, style.Render(row))
	}
	return strings.Join(rows, "\n")
}
