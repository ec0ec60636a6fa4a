package handlers

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	"huddle/database"
	"huddle/middleware"
	"huddle/models"
	"huddle/utils"
	"huddle/websocket"
)

type SendFriendRequestBody struct {
	UserID string `json:"user_id" binding:"required"`
}

// GetFriends returns the caller's accepted friends with conversation
// summaries: last message, its time, and the count of unread incoming
// messages. Presence comes from the websocket hub.
func GetFriends(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := database.DB.Query(`
		SELECT u.id, u.username, u.email, COALESCE(u.avatar_url, ''), u.created_at,
			   COALESCE((SELECT m.content FROM messages m
				WHERE (m.sender_id = f.user_id AND m.receiver_id = f.friend_id)
				   OR (m.sender_id = f.friend_id AND m.receiver_id = f.user_id)
				ORDER BY m.created_at DESC LIMIT 1), ''),
			   (SELECT m.created_at FROM messages m
				WHERE (m.sender_id = f.user_id AND m.receiver_id = f.friend_id)
				   OR (m.sender_id = f.friend_id AND m.receiver_id = f.user_id)
				ORDER BY m.created_at DESC LIMIT 1),
			   (SELECT COUNT(*) FROM messages m
				WHERE m.sender_id = f.friend_id AND m.receiver_id = f.user_id AND m.is_read = FALSE)
		FROM friendships f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = ?
		ORDER BY u.username
	`, userID)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	defer rows.Close()

	var friends []models.Friend
	for rows.Next() {
		var f models.Friend
		var lastAt sql.NullTime
		if err := rows.Scan(
			&f.ID, &f.Username, &f.Email, &f.AvatarURL, &f.CreatedAt,
			&f.LastMessage, &lastAt, &f.UnreadCount,
		); err != nil {
			continue
		}
		if lastAt.Valid {
			t := lastAt.Time
			f.LastMessageTime = &t
		}
		f.IsOnline = websocket.HubInstance.IsOnline(f.ID)
		friends = append(friends, f)
	}

	if friends == nil {
		friends = []models.Friend{}
	}

	utils.Success(c, friends)
}

// GetFriendRequests returns every request addressed to the caller,
// regardless of status. Filtering to pending is the client's job.
func GetFriendRequests(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := database.DB.Query(`
		SELECT r.id, r.status, r.created_at,
			   u.id, u.username, u.email, COALESCE(u.avatar_url, ''), u.created_at
		FROM friend_requests r
		JOIN users u ON u.id = r.from_id
		WHERE r.to_id = ?
		ORDER BY r.created_at DESC
	`, userID)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	defer rows.Close()

	var requests []models.FriendRequest
	for rows.Next() {
		var r models.FriendRequest
		if err := rows.Scan(
			&r.ID, &r.Status, &r.CreatedAt,
			&r.FromUser.ID, &r.FromUser.Username, &r.FromUser.Email, &r.FromUser.AvatarURL, &r.FromUser.CreatedAt,
		); err != nil {
			continue
		}
		r.FromUser.IsOnline = websocket.HubInstance.IsOnline(r.FromUser.ID)
		requests = append(requests, r)
	}

	if requests == nil {
		requests = []models.FriendRequest{}
	}

	utils.Success(c, requests)
}

// SendFriendRequest creates a pending request toward the target user.
// Duplicate pending or already-friends pairs are rejected, and a
// pending request in the opposite direction accepts immediately: both
// sides asking means both sides agree.
func SendFriendRequest(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req SendFriendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if req.UserID == userID {
		utils.BadRequest(c, "cannot add yourself as friend")
		return
	}

	var exists bool
	err := database.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", req.UserID).Scan(&exists)
	if err != nil || !exists {
		utils.NotFound(c, "user not found")
		return
	}

	err = database.DB.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM friendships WHERE user_id = ? AND friend_id = ?)",
		userID, req.UserID,
	).Scan(&exists)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	if exists {
		utils.BadRequest(c, "already friends")
		return
	}

	var status string
	err = database.DB.QueryRow(
		"SELECT status FROM friend_requests WHERE from_id = ? AND to_id = ? AND status = 'pending'",
		userID, req.UserID,
	).Scan(&status)
	if err == nil {
		utils.BadRequest(c, "friend request already sent")
		return
	}

	var reverseID string
	err = database.DB.QueryRow(
		"SELECT id FROM friend_requests WHERE from_id = ? AND to_id = ? AND status = 'pending'",
		req.UserID, userID,
	).Scan(&reverseID)
	if err == nil {
		resolveFriendRequest(c, reverseID, userID, models.RequestAccepted)
		return
	}

	id := utils.GenerateUUID()
	now := time.Now()

	_, err = database.DB.Exec(
		"INSERT INTO friend_requests (id, from_id, to_id, status, created_at, updated_at) VALUES (?, ?, ?, 'pending', ?, ?)",
		id, userID, req.UserID, now, now,
	)
	if err != nil {
		utils.InternalError(c, "failed to send friend request")
		return
	}

	websocket.HubInstance.SendToUser(req.UserID, &websocket.Message{
		Event: "friend_request",
		Data:  gin.H{"request_id": id, "from_id": userID},
	})

	utils.Success(c, gin.H{"message": "friend request sent"})
}

func AcceptFriendRequest(c *gin.Context) {
	resolveFriendRequest(c, c.Param("id"), middleware.GetUserID(c), models.RequestAccepted)
}

func RejectFriendRequest(c *gin.Context) {
	resolveFriendRequest(c, c.Param("id"), middleware.GetUserID(c), models.RequestRejected)
}

// resolveFriendRequest applies a terminal transition to a pending
// request addressed to userID. Accepting also materializes the
// friendship in both directions so GetFriends stays a plain join.
func resolveFriendRequest(c *gin.Context, requestID, userID string, status models.RequestStatus) {
	tx, err := database.DB.Begin()
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	now := time.Now()

	var fromID string
	err = tx.QueryRow(
		"SELECT from_id FROM friend_requests WHERE id = ? AND to_id = ? AND status = 'pending' FOR UPDATE",
		requestID, userID,
	).Scan(&fromID)
	if err == sql.ErrNoRows {
		tx.Rollback()
		utils.NotFound(c, "friend request not found")
		return
	}
	if err != nil {
		tx.Rollback()
		utils.InternalError(c, "database error")
		return
	}

	_, err = tx.Exec(
		"UPDATE friend_requests SET status = ?, updated_at = ? WHERE id = ?",
		string(status), now, requestID,
	)
	if err != nil {
		tx.Rollback()
		utils.InternalError(c, "failed to update friend request")
		return
	}

	if status == models.RequestAccepted {
		for _, pair := range [][2]string{{userID, fromID}, {fromID, userID}} {
			_, err = tx.Exec(
				"INSERT INTO friendships (id, user_id, friend_id, created_at) VALUES (?, ?, ?, ?)",
				utils.GenerateUUID(), pair[0], pair[1], now,
			)
			if err != nil {
				tx.Rollback()
				utils.InternalError(c, "failed to create friendship")
				return
			}
		}
	}

	if err := tx.Commit(); err != nil {
		utils.InternalError(c, "failed to commit transaction")
		return
	}

	if status == models.RequestAccepted {
		websocket.HubInstance.SendToUser(fromID, &websocket.Message{
			Event: "friend_request_accepted",
			Data:  gin.H{"user_id": userID},
		})
	}

	utils.Success(c, gin.H{"message": "friend request " + string(status)})
}
