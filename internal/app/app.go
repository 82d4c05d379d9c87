package app

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/pritamkumarbishwas/backend/internal/config"
	"github.com/pritamkumarbishwas/backend/internal/handlers"
	"github.com/pritamkumarbishwas/backend/internal/realtime"
	"github.com/pritamkumarbishwas/backend/internal/repositories"
	"github.com/pritamkumarbishwas/backend/internal/routes"
	"github.com/pritamkumarbishwas/backend/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func Run() {
	cfg := config.LoadConfig()
	if cfg.Database.DSN == "" {
		log.Fatal("database url is not configured")
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("jwt secret is not configured")
	}

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	chatRepo := repositories.NewChatRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	// === Services ===
	authService := services.NewAuthService()

	var emailService services.EmailService
	if cfg.Email.SMTPHost != "" {
		emailService = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}

	resolver := services.NewResolver(userRepo, messageRepo)
	userService := services.NewUserService(userRepo, emailService, authService)
	chatService := services.NewChatService(chatRepo, resolver)
	messageService := services.NewMessageService(messageRepo, chatRepo, resolver)

	// === Relay ===
	registry := realtime.NewRegistry()
	relay := realtime.NewRelay(registry, cfg.Relay.TypingIncludesSender)

	// === Handlers ===
	jwtSecret := []byte(cfg.Auth.JWTSecret)
	tokenTTL := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	authHandler := handlers.NewAuthHandler(userService, jwtSecret, tokenTTL)
	userHandler := handlers.NewUserHandler(userService)
	chatHandler := handlers.NewChatHandler(chatService)
	messageHandler := handlers.NewMessageHandler(messageService)
	wsHandler := handlers.NewWSHandler(relay)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		jwtSecret,
		authHandler,
		userHandler,
		chatHandler,
		messageHandler,
		wsHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server failed: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
