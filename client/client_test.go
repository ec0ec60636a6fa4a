package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func TestLoginStoresCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Username != "ana_b" || creds.Password != "secret" {
			t.Errorf("credentials = %+v", creds)
		}
		respond(w, http.StatusOK, map[string]interface{}{
			"data": map[string]interface{}{
				"token": "tok-123",
				"user":  map[string]string{"id": "u1", "username": "ana_b"},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	user, err := c.Login(context.Background(), "ana_b", "secret")
	if err != nil {
		t.Fatal(err)
	}
	if user.ID != "u1" {
		t.Errorf("user.ID = %q", user.ID)
	}
	if c.Token() != "tok-123" || c.UserID() != "u1" || !c.SignedIn() {
		t.Errorf("client state token=%q userID=%q", c.Token(), c.UserID())
	}
}

func TestRequestsCarryBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		respond(w, http.StatusOK, map[string]interface{}{"data": []interface{}{}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok-123")
	if _, err := c.Friends(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestSearchUsersEscapesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "ana b&c" {
			t.Errorf("q = %q", got)
		}
		respond(w, http.StatusOK, map[string]interface{}{
			"data": []map[string]string{{"id": "u1", "username": "ana_b"}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	users, err := c.SearchUsers(context.Background(), "ana b&c")
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].Username != "ana_b" {
		t.Errorf("users = %+v", users)
	}
}

func TestSendMessageDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/messages/f1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		respond(w, http.StatusOK, map[string]interface{}{
			"data": map[string]string{"id": "m1", "sender_id": "u1", "receiver_id": "f1", "content": "hello"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	msg, err := c.SendMessage(context.Background(), "f1", "hello")
	if err != nil {
		t.Fatal(err)
	}
	if msg.ID != "m1" || msg.Content != "hello" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestErrorClassMapping(t *testing.T) {
	tests := []struct {
		status  int
		message string
		class   error
	}{
		{http.StatusBadRequest, "friend request already sent", ErrBadRequest},
		{http.StatusUnauthorized, "invalid token", ErrUnauthorized},
		{http.StatusForbidden, "not friends", ErrForbidden},
		{http.StatusNotFound, "user not found", ErrNotFound},
		{http.StatusInternalServerError, "", ErrServer},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			respond(w, tt.status, map[string]string{"error": tt.message})
		}))

		c := New(srv.URL)
		err := c.SendFriendRequest(context.Background(), "u1")
		srv.Close()

		if err == nil {
			t.Fatalf("status %d returned no error", tt.status)
		}
		if !errors.Is(err, tt.class) {
			t.Errorf("status %d: errors.Is(%v, %v) = false", tt.status, err, tt.class)
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("status %d: error is not *APIError", tt.status)
		}
		if apiErr.Status != tt.status || apiErr.Message != tt.message {
			t.Errorf("apiErr = %+v", apiErr)
		}
	}
}

func TestMessagesEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, map[string]interface{}{"data": nil})
	}))
	defer srv.Close()

	c := New(srv.URL)
	messages, err := c.Messages(context.Background(), "f1")
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 0 {
		t.Errorf("messages = %+v, want empty", messages)
	}
}

var _ Service = (*Client)(nil)
