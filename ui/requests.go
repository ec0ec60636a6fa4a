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

type requestsListMsg struct {
	seq      int
	requests []models.FriendRequest
	err      error
}

type requestResolvedMsg struct {
	id       string
	username string
	accepted bool
	err      error
}

// RequestsModel is the incoming friend request screen. The facade
// returns requests in every status; only pending ones are kept — the
// filter is deliberately client-side.
type RequestsModel struct {
	svc   client.Service
	theme Theme
	keys  KeyMap

	width  int
	height int

	requests []models.FriendRequest
	loading  bool
	seq      int
	cursor   int

	processing pendingSet
}

func newRequestsModel(svc client.Service, theme Theme, keys KeyMap) RequestsModel {
	return RequestsModel{svc: svc, theme: theme, keys: keys, processing: newPendingSet()}
}

func (r RequestsModel) mount() (RequestsModel, tea.Cmd) {
	r.loading = true
	r.seq++
	return r, r.fetch(r.seq)
}

func (r RequestsModel) setSize(width, height int) RequestsModel {
	r.width = width
	r.height = height
	return r
}

func (r RequestsModel) typing() bool { return false }

func (r RequestsModel) fetch(seq int) tea.Cmd {
	svc := r.svc
	return func() tea.Msg {
		requests, err := svc.FriendRequests(context.Background())
		return requestsListMsg{seq: seq, requests: requests, err: err}
	}
}

func (r RequestsModel) resolve(request models.FriendRequest, accept bool) tea.Cmd {
	svc := r.svc
	return func() tea.Msg {
		var err error
		if accept {
			err = svc.AcceptFriendRequest(context.Background(), request.ID)
		} else {
			err = svc.RejectFriendRequest(context.Background(), request.ID)
		}
		return requestResolvedMsg{
			id:       request.ID,
			username: request.FromUser.Username,
			accepted: accept,
			err:      err,
		}
	}
}

func (r RequestsModel) update(msg tea.Msg) (RequestsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case requestsListMsg:
		if msg.seq != r.seq {
			return r, nil
		}
		r.loading = false
		if msg.err != nil {
			return r, notifyError("Failed to load friend requests")
		}
		r.requests = filterPending(msg.requests)
		if r.cursor >= len(r.requests) {
			r.cursor = 0
		}
		return r, nil

	case requestResolvedMsg:
		r.processing.done(msg.id)
		if msg.err != nil {
			if msg.accepted {
				return r, notifyError("Failed to accept friend request")
			}
			return r, notifyError("Failed to reject friend request")
		}
		r.remove(msg.id)
		if msg.accepted {
			return r, notifySuccess("Accepted friend request from " + msg.username)
		}
		return r, notifySuccess("Rejected friend request from " + msg.username)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, r.keys.Up):
			if r.cursor > 0 {
				r.cursor--
			}
		case key.Matches(msg, r.keys.Down):
			if r.cursor < len(r.requests)-1 {
				r.cursor++
			}
		case key.Matches(msg, r.keys.Accept), key.Matches(msg, r.keys.Select):
			return r.act(true)
		case key.Matches(msg, r.keys.Reject):
			return r.act(false)
		}
	}

	return r, nil
}

func (r RequestsModel) act(accept bool) (RequestsModel, tea.Cmd) {
	if r.cursor >= len(r.requests) {
		return r, nil
	}
	request := r.requests[r.cursor]
	if r.processing.active(request.ID) {
		return r, nil
	}
	r.processing.start(request.ID)
	return r, r.resolve(request, accept)
}

// remove drops exactly one request by id, leaving the rest untouched.
func (r *RequestsModel) remove(id string) {
	for i, request := range r.requests {
		if request.ID == id {
			r.requests = append(r.requests[:i], r.requests[i+1:]...)
			break
		}
	}
	if r.cursor >= len(r.requests) && r.cursor > 0 {
		r.cursor--
	}
}

func filterPending(requests []models.FriendRequest) []models.FriendRequest {
	var pending []models.FriendRequest
	for _, request := range requests {
		if request.Status == models.RequestPending {
			pending = append(pending, request)
		}
	}
	return pending
}

func (r RequestsModel) view() string {
	header := lipgloss.NewStyle().Foreground(r.theme.Accent).Bold(true).Render("Friend Requests")
	if len(r.requests) > 0 {
		header += "  " + lipgloss.NewStyle().Foreground(r.theme.Accent).
			Render(fmt.Sprintf("%d Pending", len(r.requests)))
	}

	if r.loading && len(r.requests) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, "",
			lipgloss.NewStyle().Foreground(r.theme.FaintText).Render("Loading friend requests..."))
	}

	if len(r.requests) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, "",
			lipgloss.NewStyle().Foreground(r.theme.FaintText).
				Render("No pending requests.\nFriend requests will appear here."))
	}

	var rows []string
	for i, request := range r.requests {
		action := "[a accept · x reject]"
		if r.processing.active(request.ID) {
			action = "[processing...]"
		}

		row := fmt.Sprintf("%s  %s  %s  %s",
			request.FromUser.Username,
			lipgloss.NewStyle().Foreground(r.theme.FaintText).Render(request.FromUser.Email),
			lipgloss.NewStyle().Foreground(r.theme.FaintText).Render(request.CreatedAt.Local().Format("Jan 2")),
			lipgloss.NewStyle().Foreground(r.theme.Accent).Render(action))
		row = ansi.Truncate(row, r.width-2, "…")

		style := lipgloss.NewStyle().Width(r.width - 2)
		if i == r.cursor {
			style = style.
				Background(r.theme.SelectedBackground).
				Foreground(r.theme.SelectedForeground)
		}
		rows = append(rows, style.Render(row))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(rows, "\n"))
}
