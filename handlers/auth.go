package handlers

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"huddle/database"
	"huddle/models"
	"huddle/utils"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var exists bool
	err := database.DB.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = ? OR email = ?)",
		req.Username, req.Email,
	).Scan(&exists)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	if exists {
		utils.BadRequest(c, "username or email already taken")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.InternalError(c, "failed to hash password")
		return
	}

	id := utils.GenerateUUID()
	now := time.Now()

	_, err = database.DB.Exec(
		"INSERT INTO users (id, username, email, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		id, req.Username, req.Email, string(hashedPassword), now, now,
	)
	if err != nil {
		utils.InternalError(c, "failed to create user")
		return
	}

	token, err := utils.GenerateToken(id)
	if err != nil {
		utils.InternalError(c, "failed to generate token")
		return
	}

	utils.Success(c, AuthResponse{
		Token: token,
		User: models.User{
			ID:        id,
			Username:  req.Username,
			Email:     req.Email,
			CreatedAt: now,
		},
	})
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var user models.User
	var hashedPassword string
	err := database.DB.QueryRow(
		"SELECT id, username, email, COALESCE(avatar_url, ''), password, created_at FROM users WHERE username = ?",
		req.Username,
	).Scan(&user.ID, &user.Username, &user.Email, &user.AvatarURL, &hashedPassword, &user.CreatedAt)

	if err == sql.ErrNoRows {
		utils.Unauthorized(c, "invalid username or password")
		return
	}
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(req.Password)); err != nil {
		utils.Unauthorized(c, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		utils.InternalError(c, "failed to generate token")
		return
	}

	utils.Success(c, AuthResponse{Token: token, User: user})
}
