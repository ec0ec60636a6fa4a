package models

import "time"

// Friend is a user plus a summary of the conversation with them. The
// summary fields are recomputed on every fetch; there is no incremental
// update contract beyond the client's optimistic append on send.
type Friend struct {
	User
	LastMessage     string     `json:"last_message,omitempty"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
	UnreadCount     int        `json:"unread_count"`
}
