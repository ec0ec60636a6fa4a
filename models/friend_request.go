package models

import "time"

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// FriendRequest carries a snapshot of the requesting user. Once the
// status leaves pending it never changes again.
type FriendRequest struct {
	ID        string        `json:"id"`
	FromUser  User          `json:"from_user"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}
