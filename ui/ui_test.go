package ui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"huddle/models"
)

// fakeService implements client.Service with function fields so each
// test wires only the calls it expects.
type fakeService struct {
	searchUsers         func(ctx context.Context, query string) ([]models.User, error)
	friends             func(ctx context.Context) ([]models.Friend, error)
	sendFriendRequest   func(ctx context.Context, userID string) error
	friendRequests      func(ctx context.Context) ([]models.FriendRequest, error)
	acceptFriendRequest func(ctx context.Context, requestID string) error
	rejectFriendRequest func(ctx context.Context, requestID string) error
	messages            func(ctx context.Context, friendID string) ([]models.Message, error)
	sendMessage         func(ctx context.Context, friendID, content string) (models.Message, error)
	markMessagesAsRead  func(ctx context.Context, friendID string) error
}

func (f *fakeService) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	if f.searchUsers == nil {
		return nil, nil
	}
	return f.searchUsers(ctx, query)
}

func (f *fakeService) Friends(ctx context.Context) ([]models.Friend, error) {
	if f.friends == nil {
		return nil, nil
	}
	return f.friends(ctx)
}

func (f *fakeService) SendFriendRequest(ctx context.Context, userID string) error {
	if f.sendFriendRequest == nil {
		return nil
	}
	return f.sendFriendRequest(ctx, userID)
}

func (f *fakeService) FriendRequests(ctx context.Context) ([]models.FriendRequest, error) {
	if f.friendRequests == nil {
		return nil, nil
	}
	return f.friendRequests(ctx)
}

func (f *fakeService) AcceptFriendRequest(ctx context.Context, requestID string) error {
	if f.acceptFriendRequest == nil {
		return nil
	}
	return f.acceptFriendRequest(ctx, requestID)
}

func (f *fakeService) RejectFriendRequest(ctx context.Context, requestID string) error {
	if f.rejectFriendRequest == nil {
		return nil
	}
	return f.rejectFriendRequest(ctx, requestID)
}

func (f *fakeService) Messages(ctx context.Context, friendID string) ([]models.Message, error) {
	if f.messages == nil {
		return nil, nil
	}
	return f.messages(ctx, friendID)
}

func (f *fakeService) SendMessage(ctx context.Context, friendID, content string) (models.Message, error) {
	if f.sendMessage == nil {
		return models.Message{}, nil
	}
	return f.sendMessage(ctx, friendID, content)
}

func (f *fakeService) MarkMessagesAsRead(ctx context.Context, friendID string) error {
	if f.markMessagesAsRead == nil {
		return nil
	}
	return f.markMessagesAsRead(ctx, friendID)
}

// runCmd executes a command and flattens batches into the messages
// they produce. Commands that wrap timers must not be passed here.
func runCmd(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmd(t, c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(keyType tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: keyType}
}

func testUser(id, username string) models.User {
	return models.User{
		ID:        id,
		Username:  username,
		Email:     username + "@example.com",
		CreatedAt: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
	}
}

func testFriend(id, username string) models.Friend {
	return models.Friend{User: testUser(id, username)}
}
