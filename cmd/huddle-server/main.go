package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"huddle/config"
	"huddle/database"
	"huddle/handlers"
	"huddle/middleware"
	"huddle/websocket"
)

func main() {
	config.Load()

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.CreateTables(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	websocket.InitHub()

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
	}

	users := r.Group("/api/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", handlers.GetCurrentUser)
		users.PUT("/me", handlers.UpdateCurrentUser)
		users.GET("/search", handlers.SearchUsers)
	}

	friends := r.Group("/api/friends")
	friends.Use(middleware.AuthMiddleware())
	{
		friends.GET("", handlers.GetFriends)
		friends.GET("/requests", handlers.GetFriendRequests)
		friends.POST("/requests", handlers.SendFriendRequest)
		friends.POST("/requests/:id/accept", handlers.AcceptFriendRequest)
		friends.POST("/requests/:id/reject", handlers.RejectFriendRequest)
	}

	messages := r.Group("/api/messages")
	messages.Use(middleware.AuthMiddleware())
	{
		messages.GET("/:friend_id", handlers.GetMessages)
		messages.POST("/:friend_id", handlers.SendMessage)
		messages.POST("/:friend_id/read", handlers.MarkMessagesAsRead)
	}

	r.GET("/ws", websocket.HandleWebSocket)

	log.Printf("Server starting on %s", config.Cfg.ServerAddr)
	if err := r.Run(config.Cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
