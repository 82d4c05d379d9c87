package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pritamkumarbishwas/backend/internal/handlers"
	"github.com/pritamkumarbishwas/backend/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	chatHandler *handlers.ChatHandler,
	messageHandler *handlers.MessageHandler,
	wsHandler *handlers.WSHandler,
) *gin.Engine {

	// ---- public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/ws", wsHandler.Serve)

	// ---- protected
	r.Use(middleware.AuthMiddleware(jwtSecret))

	// USERS
	users := r.Group("/users")
	{
		users.GET("", userHandler.Search)
		users.PUT("/:id", userHandler.Update)
	}

	// CHATS
	chats := r.Group("/chats")
	{
		chats.GET("", chatHandler.List)
		chats.POST("", chatHandler.Access)
		chats.POST("/group", chatHandler.CreateGroup)
		chats.PUT("/rename", chatHandler.Rename)
		chats.PUT("/members/add", chatHandler.AddMember)
		chats.PUT("/members/remove", chatHandler.RemoveMember)
	}

	// MESSAGES
	messages := r.Group("/messages")
	{
		messages.GET("/:chatId", messageHandler.List)
		messages.POST("", messageHandler.Send)
		messages.PUT("/:id", messageHandler.Edit)
		messages.DELETE("/:id", messageHandler.Delete)
	}

	return r
}
