// Package client is the sole boundary between the UI and the backend.
// The Service interface carries the nine data operations every screen
// relies on; Client is the HTTP implementation. It is constructed once
// at startup and passed explicitly into the UI — it holds transport
// configuration only, never domain state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"huddle/models"
)

// Service is the remote access facade. All operations are single-shot
// and asynchronous from the UI's point of view; rate limiting (search
// debounce) and stale-response discard are the caller's job.
type Service interface {
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
	Friends(ctx context.Context) ([]models.Friend, error)
	SendFriendRequest(ctx context.Context, userID string) error
	FriendRequests(ctx context.Context) ([]models.FriendRequest, error)
	AcceptFriendRequest(ctx context.Context, requestID string) error
	RejectFriendRequest(ctx context.Context, requestID string) error
	Messages(ctx context.Context, friendID string) ([]models.Message, error)
	SendMessage(ctx context.Context, friendID, content string) (models.Message, error)
	MarkMessagesAsRead(ctx context.Context, friendID string) error
}

type Client struct {
	baseURL string
	token   string
	userID  string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken installs a previously obtained bearer token, e.g. one
// cached on disk between runs. The user ID still has to be resolved
// via Me before the UI can align "sent by me" messages.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string { return c.token }

// SignedIn reports whether the client holds credentials. The terminal
// UI gates every screen behind this.
func (c *Client) SignedIn() bool { return c.token != "" }

// UserID is the signed-in user's ID, set by Login, Register, or Me.
func (c *Client) UserID() string { return c.userID }

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, username, password string) (models.User, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", credentials{Username: username, Password: password}, &resp)
	if err != nil {
		return models.User{}, err
	}
	c.token = resp.Token
	c.userID = resp.User.ID
	return resp.User, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (models.User, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", credentials{Username: username, Email: email, Password: password}, &resp)
	if err != nil {
		return models.User{}, err
	}
	c.token = resp.Token
	c.userID = resp.User.ID
	return resp.User, nil
}

// Me fetches the signed-in user and remembers their ID.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &user); err != nil {
		return models.User{}, err
	}
	c.userID = user.ID
	return user, nil
}

func (c *Client) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	var users []models.User
	path := "/api/users/search?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) Friends(ctx context.Context) ([]models.Friend, error) {
	var friends []models.Friend
	if err := c.do(ctx, http.MethodGet, "/api/friends", nil, &friends); err != nil {
		return nil, err
	}
	return friends, nil
}

func (c *Client) SendFriendRequest(ctx context.Context, userID string) error {
	body := struct {
		UserID string `json:"user_id"`
	}{UserID: userID}
	return c.do(ctx, http.MethodPost, "/api/friends/requests", body, nil)
}

func (c *Client) FriendRequests(ctx context.Context) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := c.do(ctx, http.MethodGet, "/api/friends/requests", nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (c *Client) AcceptFriendRequest(ctx context.Context, requestID string) error {
	return c.do(ctx, http.MethodPost, "/api/friends/requests/"+url.PathEscape(requestID)+"/accept", nil, nil)
}

func (c *Client) RejectFriendRequest(ctx context.Context, requestID string) error {
	return c.do(ctx, http.MethodPost, "/api/friends/requests/"+url.PathEscape(requestID)+"/reject", nil, nil)
}

func (c *Client) Messages(ctx context.Context, friendID string) ([]models.Message, error) {
	var messages []models.Message
	if err := c.do(ctx, http.MethodGet, "/api/messages/"+url.PathEscape(friendID), nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (c *Client) SendMessage(ctx context.Context, friendID, content string) (models.Message, error) {
	body := struct {
		Content string `json:"content"`
	}{Content: content}
	var msg models.Message
	if err := c.do(ctx, http.MethodPost, "/api/messages/"+url.PathEscape(friendID), body, &msg); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

func (c *Client) MarkMessagesAsRead(ctx context.Context, friendID string) error {
	return c.do(ctx, http.MethodPost, "/api/messages/"+url.PathEscape(friendID)+"/read", nil, nil)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// do performs one request against the server's JSON envelope. Non-2xx
// responses become *APIError; transport failures pass through as-is.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && err != io.EOF {
		if resp.StatusCode >= 300 {
			return &APIError{Status: resp.StatusCode}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: env.Error}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}
