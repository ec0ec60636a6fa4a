package handlers

import (
	"database/sql"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"huddle/database"
	"huddle/middleware"
	"huddle/models"
	"huddle/utils"
	"huddle/websocket"
)

type UpdateUserRequest struct {
	AvatarURL string `json:"avatar_url"`
}

func GetCurrentUser(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var user models.User
	err := database.DB.QueryRow(
		"SELECT id, username, email, COALESCE(avatar_url, ''), created_at FROM users WHERE id = ?",
		userID,
	).Scan(&user.ID, &user.Username, &user.Email, &user.AvatarURL, &user.CreatedAt)

	if err == sql.ErrNoRows {
		utils.NotFound(c, "user not found")
		return
	}
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	user.IsOnline = true
	utils.Success(c, user)
}

func UpdateCurrentUser(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	_, err := database.DB.Exec(
		"UPDATE users SET avatar_url = COALESCE(NULLIF(?, ''), avatar_url), updated_at = ? WHERE id = ?",
		req.AvatarURL, time.Now(), userID,
	)
	if err != nil {
		utils.InternalError(c, "failed to update user")
		return
	}

	GetCurrentUser(c)
}

// SearchUsers matches the query against usernames and emails. The
// caller is excluded from results; matching is substring, capped at 20.
func SearchUsers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		utils.Success(c, []models.User{})
		return
	}

	userID := middleware.GetUserID(c)
	pattern := "%" + escapeLikePattern(query) + "%"

	rows, err := database.DB.Query(`
		SELECT id, username, email, COALESCE(avatar_url, ''), created_at FROM users
		WHERE id != ? AND (username LIKE ? OR email LIKE ?)
		ORDER BY username
		LIMIT 20
	`, userID, pattern, pattern)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.AvatarURL, &user.CreatedAt); err != nil {
			continue
		}
		user.IsOnline = websocket.HubInstance.IsOnline(user.ID)
		users = append(users, user)
	}

	if users == nil {
		users = []models.User{}
	}

	utils.Success(c, users)
}

func escapeLikePattern(pattern string) string {
	pattern = strings.ReplaceAll(pattern, "\\", "\\\\")
	pattern = strings.ReplaceAll(pattern, "%", "\\%")
	pattern = strings.ReplaceAll(pattern, "_", "\\_")
	return pattern
}
