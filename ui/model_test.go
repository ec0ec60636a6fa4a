package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"huddle/client"
	"huddle/models"
)

func newTestModel(svc *fakeService) Model {
	m := NewModel(Config{Service: svc, SelfID: "me"})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestNumberKeysSwitchScreens(t *testing.T) {
	m := newTestModel(&fakeService{})

	m, cmd := update(t, m, keyRunes("4"))
	if m.screen != ScreenRequests {
		t.Fatalf("screen = %v, want requests", m.screen)
	}
	if cmd == nil {
		t.Error("switching to requests did not re-fetch")
	}

	m, cmd = update(t, m, keyRunes("3"))
	if m.screen != ScreenFriends {
		t.Fatalf("screen = %v, want friends", m.screen)
	}
	if cmd == nil {
		t.Error("switching to friends did not re-fetch")
	}
}

func TestTabCyclesScreens(t *testing.T) {
	m := newTestModel(&fakeService{})

	m, _ = update(t, m, keyOf(tea.KeyTab))
	if m.screen != ScreenSearch {
		t.Fatalf("screen = %v, want search", m.screen)
	}
	m, _ = update(t, m, keyOf(tea.KeyShiftTab))
	if m.screen != ScreenHome {
		t.Fatalf("screen = %v, want home", m.screen)
	}
}

func TestNumberKeysBelongToSearchInput(t *testing.T) {
	m := newTestModel(&fakeService{})
	m, _ = update(t, m, keyOf(tea.KeyTab))

	// The search input has focus, so digits are query text, not
	// navigation.
	m, _ = update(t, m, keyRunes("3"))
	if m.screen != ScreenSearch {
		t.Fatalf("digit navigated away from search to %v", m.screen)
	}
	if got := m.search.input.Value(); got != "3" {
		t.Errorf("input = %q, want the typed digit", got)
	}
}

func TestEscReturnsHome(t *testing.T) {
	m := newTestModel(&fakeService{})
	m, _ = update(t, m, keyRunes("4"))

	m, cmd := update(t, m, keyOf(tea.KeyEsc))
	if m.screen != ScreenHome {
		t.Fatalf("screen = %v, want home", m.screen)
	}
	if cmd == nil {
		t.Error("returning home did not re-fetch")
	}
}

func TestNoticeFadeGenerations(t *testing.T) {
	m := newTestModel(&fakeService{})

	m, _ = update(t, m, noticeMsg{level: noticeSuccess, text: "first"})
	firstSeq := m.noticeSeq
	m, _ = update(t, m, noticeMsg{level: noticeError, text: "second"})

	// The first notice's timer fires after it was replaced; the
	// newer notice must survive.
	m, _ = update(t, m, noticeFadeMsg{seq: firstSeq})
	if m.noticeText != "second" {
		t.Fatalf("noticeText = %q, stale timer clobbered the newer notice", m.noticeText)
	}

	m, _ = update(t, m, noticeFadeMsg{seq: m.noticeSeq})
	if m.noticeText != "" {
		t.Error("live timer did not clear the notice")
	}
}

func TestIncomingMessageReachesHome(t *testing.T) {
	m := newTestModel(&fakeService{})
	m.home.friends = []models.Friend{testFriend("f1", "ana_b")}

	msg := models.Message{
		ID: "m1", SenderID: "f1", ReceiverID: "me",
		Content: "hey", CreatedAt: time.Now(),
	}
	m, _ = update(t, m, wsEventMsg{event: client.Event{Type: "new_message", Message: &msg}})

	if m.home.friends[0].UnreadCount != 1 {
		t.Error("pushed message did not update the friend summary")
	}
}

func TestIncomingFriendRequestRefreshesRequestsScreen(t *testing.T) {
	fetches := 0
	svc := &fakeService{
		friendRequests: func(context.Context) ([]models.FriendRequest, error) {
			fetches++
			return nil, nil
		},
	}
	m := newTestModel(svc)
	m, cmd := update(t, m, keyRunes("4"))
	for _, msg := range runCmd(t, cmd) {
		m, _ = update(t, m, msg)
	}

	m, cmd = update(t, m, wsEventMsg{event: client.Event{Type: "friend_request"}})
	for _, msg := range runCmd(t, cmd) {
		if _, ok := msg.(noticeMsg); ok {
			t.Error("active requests screen got a notice instead of a refresh")
		}
		m, _ = update(t, m, msg)
	}

	if fetches != 2 {
		t.Errorf("request fetches = %d, want a mount fetch plus a push refresh", fetches)
	}
}

func TestIncomingFriendRequestNoticeElsewhere(t *testing.T) {
	m := newTestModel(&fakeService{})
	if m.screen != ScreenHome {
		t.Fatal("expected to start on home")
	}

	_, cmd := update(t, m, wsEventMsg{event: client.Event{Type: "friend_request"}})
	found := false
	for _, msg := range runCmd(t, cmd) {
		if n, ok := msg.(noticeMsg); ok && strings.Contains(n.text, "friend request") {
			found = true
		}
	}
	if !found {
		t.Error("push on another screen produced no notice")
	}
}

func TestSignInGate(t *testing.T) {
	auth := &fakeAuth{
		login: func(context.Context, string, string) (models.User, error) {
			return testUser("u1", "ana_b"), nil
		},
	}
	m := NewModel(Config{Service: &fakeService{}, Auth: auth})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)

	if m.signedIn {
		t.Fatal("model signed in without credentials")
	}
	if !strings.Contains(m.View(), "Sign in") {
		t.Error("view does not show the sign-in gate")
	}

	// Screen keys must not leak past the gate.
	m, _ = update(t, m, keyRunes("4"))
	if m.screen != ScreenHome {
		t.Error("navigation leaked past the sign-in gate")
	}

	m, _ = update(t, m, authResultMsg{user: testUser("u1", "ana_b")})
	if !m.signedIn || m.selfID != "u1" {
		t.Fatalf("signedIn=%v selfID=%q after successful auth", m.signedIn, m.selfID)
	}
	if m.home.selfID != "u1" {
		t.Error("home screen did not learn the signed-in user")
	}
}

type fakeAuth struct {
	login    func(ctx context.Context, username, password string) (models.User, error)
	register func(ctx context.Context, username, email, password string) (models.User, error)
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (models.User, error) {
	return f.login(ctx, username, password)
}

func (f *fakeAuth) Register(ctx context.Context, username, email, password string) (models.User, error) {
	return f.register(ctx, username, email, password)
}
