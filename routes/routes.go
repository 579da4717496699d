// File: /routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"skillsync-api/config"
	"skillsync-api/controllers"
	"skillsync-api/middleware"
	"skillsync-api/realtime"
	"skillsync-api/services"
)

// SetupCORS handles cross-origin requests from the web client
func SetupCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// SetupRoutes wires controllers onto the router
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, hub *realtime.Hub) {
	emailService := services.NewEmailService(cfg)
	meetingService := services.NewMeetingService(cfg.MeetingAPIURL, cfg.MeetingAPIKey)

	authController := controllers.NewAuthController(db, cfg.JWTSecret, emailService)
	userController := controllers.NewUserController(db)
	notificationController := controllers.NewNotificationController(db, hub)
	connectionController := controllers.NewConnectionController(db, notificationController, hub)
	sessionController := controllers.NewSessionController(db, notificationController, meetingService, hub)
	messageController := controllers.NewMessageController(db, hub)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"realtime_users": hub.ConnectedUsers(),
		})
	})

	// Realtime change feed (token auth via query parameter)
	router.GET("/ws", realtime.ServeWS(hub, cfg.JWTSecret))

	api := router.Group("/api")

	// Public auth endpoints, tighter rate limit
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(20, 5))
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/logout", authController.Logout)
		auth.POST("/send-verification-code", authController.SendVerificationCode)
		auth.POST("/verify-code", authController.VerifyCode)
		auth.POST("/reset-password", authController.ResetPassword)
	}

	if gin.Mode() == gin.DebugMode {
		auth.GET("/verification-code", authController.GetVerificationCode)
	}

	// Everything below requires a valid token
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protected.Use(middleware.RateLimit(120, 30))
	{
		// Profiles
		protected.GET("/profile", userController.GetProfile)
		protected.PUT("/profile", userController.UpdateProfile)
		protected.GET("/users/search", userController.SearchUsers)
		protected.GET("/users/:user_id", userController.GetUser)
		protected.GET("/time-slots", userController.GetTimeSlots)

		// Connection request lifecycle
		protected.POST("/connections/request/:user_id", connectionController.SendRequest)
		protected.POST("/connections/:id/respond", connectionController.RespondToRequest)
		protected.DELETE("/connections/:id/cancel", connectionController.CancelRequest)
		protected.DELETE("/connections/:id", connectionController.RemoveConnection)
		protected.GET("/connections", connectionController.GetConnections)
		protected.GET("/connections/pending", connectionController.GetPendingRequests)
		protected.GET("/connections/sent", connectionController.GetSentRequests)
		protected.GET("/connections/status/:user_id", connectionController.GetConnectionStatus)

		// Session request lifecycle
		protected.POST("/sessions", sessionController.RequestSession)
		protected.GET("/sessions", sessionController.GetSessions)
		protected.GET("/sessions/:id", sessionController.GetSession)
		protected.POST("/sessions/:id/accept", sessionController.AcceptSession)
		protected.POST("/sessions/:id/decline", sessionController.DeclineSession)

		// Notifications
		protected.GET("/notifications", notificationController.GetNotifications)
		protected.GET("/notifications/stats", notificationController.GetNotificationStats)
		protected.PATCH("/notifications/:id/read", notificationController.MarkAsRead)
		protected.PATCH("/notifications/read-all", notificationController.MarkAllAsRead)
		protected.DELETE("/notifications/:id", notificationController.DeleteNotification)

		// Messaging
		protected.POST("/messages", messageController.SendMessage)
		protected.GET("/messages/unread-count", messageController.GetUnreadCount)
		protected.GET("/messages/:connection_id", messageController.GetConversation)
	}
}
