package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"huddle/database"
	"huddle/middleware"
	"huddle/models"
	"huddle/utils"
	"huddle/websocket"
)

type SendMessageBody struct {
	Content string `json:"content" binding:"required"`
}

func areFriends(userID, friendID string) bool {
	var exists bool
	database.DB.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM friendships WHERE user_id = ? AND friend_id = ?)",
		userID, friendID,
	).Scan(&exists)
	return exists
}

// GetMessages returns the conversation with a friend in chronological
// order. Without parameters the full history comes back; `before`
// (RFC3339) and `limit` page backwards from the tail.
func GetMessages(c *gin.Context) {
	userID := middleware.GetUserID(c)
	friendID := c.Param("friend_id")

	if !areFriends(userID, friendID) {
		utils.Forbidden(c, "not friends with this user")
		return
	}

	baseQuery := `
		SELECT id, sender_id, receiver_id, content, is_read, created_at
		FROM messages
		WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)`
	args := []interface{}{userID, friendID, friendID, userID}

	if before := c.Query("before"); before != "" {
		cutoff, err := time.Parse(time.RFC3339, before)
		if err != nil {
			utils.BadRequest(c, "invalid before timestamp")
			return
		}
		baseQuery += " AND created_at < ?"
		args = append(args, cutoff)
	}

	baseQuery += " ORDER BY created_at DESC"

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			utils.BadRequest(c, "invalid limit")
			return
		}
		if limit > 200 {
			limit = 200
		}
		baseQuery += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := database.DB.Query(baseQuery, args...)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			continue
		}
		messages = append(messages, m)
	}

	// Query walks backwards from the newest; flip to chronological.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	if messages == nil {
		messages = []models.Message{}
	}

	utils.Success(c, messages)
}

// SendMessage stores the message and returns it with its server-issued
// id and timestamp so the sender can append without a re-fetch. The
// receiver gets a push over the websocket hub.
func SendMessage(c *gin.Context) {
	userID := middleware.GetUserID(c)
	friendID := c.Param("friend_id")

	var req SendMessageBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		utils.BadRequest(c, "message content is empty")
		return
	}

	if !areFriends(userID, friendID) {
		utils.Forbidden(c, "not friends with this user")
		return
	}

	msg := models.Message{
		ID:         utils.GenerateUUID(),
		SenderID:   userID,
		ReceiverID: friendID,
		Content:    content,
		CreatedAt:  time.Now(),
	}

	_, err := database.DB.Exec(
		"INSERT INTO messages (id, sender_id, receiver_id, content, is_read, created_at) VALUES (?, ?, ?, ?, FALSE, ?)",
		msg.ID, msg.SenderID, msg.ReceiverID, msg.Content, msg.CreatedAt,
	)
	if err != nil {
		utils.InternalError(c, "failed to send message")
		return
	}

	websocket.HubInstance.SendToUser(friendID, &websocket.Message{
		Event: "new_message",
		Data:  msg,
	})

	utils.Success(c, msg)
}

// MarkMessagesAsRead flips every unread message from the friend to the
// caller. Fire-and-forget on the client side; the response carries no
// confirmation payload.
func MarkMessagesAsRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	friendID := c.Param("friend_id")

	_, err := database.DB.Exec(
		"UPDATE messages SET is_read = TRUE WHERE sender_id = ? AND receiver_id = ? AND is_read = FALSE",
		friendID, userID,
	)
	if err != nil {
		utils.InternalError(c, "failed to mark messages as read")
		return
	}

	utils.Success(c, nil)
}
