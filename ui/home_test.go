package ui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"huddle/models"
)

func newTestHome(svc *fakeService) HomeModel {
	h := newHomeModel(svc, "me", DefaultTheme, DefaultKeyMap)
	return h.setSize(100, 30)
}

func testMessage(id, senderID, receiverID, content string, at time.Time) models.Message {
	return models.Message{
		ID:         id,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  at,
	}
}

func TestHomeSelectFriendFetchesAndMarksRead(t *testing.T) {
	var fetched, marked []string
	svc := &fakeService{
		messages: func(_ context.Context, friendID string) ([]models.Message, error) {
			fetched = append(fetched, friendID)
			return []models.Message{
				testMessage("m1", friendID, "me", "hey", time.Now()),
			}, nil
		},
		markMessagesAsRead: func(_ context.Context, friendID string) error {
			marked = append(marked, friendID)
			return nil
		},
	}
	h := newTestHome(svc)
	h.friends = []models.Friend{testFriend("f1", "ana_b")}
	h.friends[0].UnreadCount = 3

	h, cmd := h.selectFriend("f1")
	if !h.messagesLoading {
		t.Error("loading flag not set")
	}
	if h.friends[0].UnreadCount != 0 {
		t.Error("unread badge not cleared locally on open")
	}
	if !h.focusComposer {
		t.Error("composer not focused on open")
	}

	for _, msg := range runCmd(t, cmd) {
		h, _ = h.update(msg)
	}

	if len(fetched) != 1 || fetched[0] != "f1" {
		t.Errorf("fetched %v, want [f1]", fetched)
	}
	if len(marked) != 1 || marked[0] != "f1" {
		t.Errorf("marked read %v, want [f1]", marked)
	}
	if len(h.messages) != 1 || h.messages[0].ID != "m1" {
		t.Errorf("messages = %+v", h.messages)
	}
}

func TestHomeStaleConversationDiscarded(t *testing.T) {
	h := newTestHome(&fakeService{})
	h.friends = []models.Friend{testFriend("f1", "ana_b"), testFriend("f2", "carlos")}

	h, _ = h.selectFriend("f1")
	staleSeq := h.msgSeq
	h, _ = h.selectFriend("f2")

	// The first conversation's response arrives after the switch.
	h, _ = h.update(homeMessagesMsg{
		seq:      staleSeq,
		friendID: "f1",
		messages: []models.Message{testMessage("m1", "f1", "me", "old", time.Now())},
	})

	if len(h.messages) != 0 {
		t.Fatalf("stale conversation applied: %+v", h.messages)
	}
	if !h.messagesLoading {
		t.Error("stale response cleared the loading flag for the live fetch")
	}

	h, _ = h.update(homeMessagesMsg{
		seq:      h.msgSeq,
		friendID: "f2",
		messages: []models.Message{testMessage("m2", "f2", "me", "current", time.Now())},
	})
	if len(h.messages) != 1 || h.messages[0].ID != "m2" {
		t.Errorf("live conversation not applied: %+v", h.messages)
	}
}

func TestHomeSendAppendsOneAndClearsComposer(t *testing.T) {
	now := time.Now()
	svc := &fakeService{
		sendMessage: func(_ context.Context, friendID, content string) (models.Message, error) {
			return testMessage("m2", "me", friendID, content, now.Add(time.Second)), nil
		},
	}
	h := newTestHome(svc)
	h.friends = []models.Friend{testFriend("f1", "ana_b")}
	h.selectedID = "f1"
	h.focusComposer = true
	h.messages = []models.Message{testMessage("m1", "f1", "me", "hey", now)}
	h.composer.SetValue("  hello there  ")

	h, cmd := h.update(keyOf(tea.KeyEnter))
	if h.composer.Value() != "" {
		t.Error("composer not cleared immediately on send")
	}

	for _, msg := range runCmd(t, cmd) {
		h, _ = h.update(msg)
	}

	if len(h.messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(h.messages))
	}
	tail := h.messages[len(h.messages)-1]
	if tail.Content != "hello there" {
		t.Errorf("sent content %q, want trimmed %q", tail.Content, "hello there")
	}
	if tail.CreatedAt.Before(h.messages[0].CreatedAt) {
		t.Error("appended message older than previous tail")
	}
	if h.friends[0].LastMessage != "hello there" {
		t.Error("friend summary not updated with the sent message")
	}
}

func TestHomeSendBlankDoesNothing(t *testing.T) {
	svc := &fakeService{
		sendMessage: func(context.Context, string, string) (models.Message, error) {
			t.Error("facade called for a blank message")
			return models.Message{}, nil
		},
	}
	h := newTestHome(svc)
	h.selectedID = "f1"
	h.focusComposer = true
	h.composer.SetValue("   ")

	h, cmd := h.update(keyOf(tea.KeyEnter))
	if cmd != nil {
		t.Fatal("blank message issued a send command")
	}
}

func TestHomeIncomingAppendsToOpenConversation(t *testing.T) {
	var marked []string
	svc := &fakeService{
		markMessagesAsRead: func(_ context.Context, friendID string) error {
			marked = append(marked, friendID)
			return nil
		},
	}
	h := newTestHome(svc)
	h.friends = []models.Friend{testFriend("f1", "ana_b"), testFriend("f2", "carlos")}
	h.selectedID = "f1"

	h, cmd := h.handleIncoming(testMessage("m1", "f1", "me", "hi", time.Now()))
	for _, msg := range runCmd(t, cmd) {
		h, _ = h.update(msg)
	}

	if len(h.messages) != 1 {
		t.Fatal("pushed message not appended to the open conversation")
	}
	if len(marked) != 1 || marked[0] != "f1" {
		t.Errorf("marked read %v, want [f1]", marked)
	}
	if h.friends[0].UnreadCount != 0 {
		t.Error("open conversation gained an unread badge")
	}
}

func TestHomeIncomingBumpsOtherConversationSummary(t *testing.T) {
	h := newTestHome(&fakeService{})
	h.friends = []models.Friend{testFriend("f1", "ana_b"), testFriend("f2", "carlos")}
	h.selectedID = "f1"

	h, cmd := h.handleIncoming(testMessage("m1", "f2", "me", "psst", time.Now()))
	if cmd != nil {
		t.Error("background push triggered a command")
	}

	if len(h.messages) != 0 {
		t.Error("background push leaked into the open conversation")
	}
	if h.friends[1].UnreadCount != 1 {
		t.Errorf("unread = %d, want 1", h.friends[1].UnreadCount)
	}
	if h.friends[1].LastMessage != "psst" {
		t.Error("friend summary not updated from the push")
	}
}

func TestHomePreselectOpensConversation(t *testing.T) {
	svc := &fakeService{
		friends: func(context.Context) ([]models.Friend, error) {
			return []models.Friend{testFriend("f1", "ana_b"), testFriend("f2", "carlos")}, nil
		},
		messages: func(_ context.Context, friendID string) ([]models.Message, error) {
			return nil, nil
		},
	}
	h := newTestHome(svc)

	h, cmd := h.openConversation("f2")
	for _, msg := range runCmd(t, cmd) {
		var next tea.Cmd
		h, next = h.update(msg)
		for _, m := range runCmd(t, next) {
			h, _ = h.update(m)
		}
	}

	if h.selectedID != "f2" {
		t.Fatalf("selected %q, want f2", h.selectedID)
	}
	if h.cursor != 1 {
		t.Errorf("cursor = %d, want 1", h.cursor)
	}
	if h.preselect != "" {
		t.Error("preselect hint not consumed")
	}
}

func TestHomeStaleFriendListDiscarded(t *testing.T) {
	h := newTestHome(&fakeService{})
	h.friendsSeq = 2
	h.friends = []models.Friend{testFriend("f9", "current")}

	h, _ = h.update(homeFriendsMsg{seq: 1, friends: []models.Friend{testFriend("f1", "old")}})

	if len(h.friends) != 1 || h.friends[0].ID != "f9" {
		t.Errorf("stale friend list applied: %+v", h.friends)
	}
}
