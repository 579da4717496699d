// File: /main.go
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"skillsync-api/config"
	"skillsync-api/database"
	"skillsync-api/jobs"
	"skillsync-api/middleware"
	"skillsync-api/realtime"
	"skillsync-api/routes"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Seed development data
	if err := database.SeedData(db); err != nil {
		log.Printf("Warning: Failed to seed database: %v", err)
	}

	// Realtime change feed
	hub := realtime.NewHub()
	go hub.Run()

	// Mark past accepted sessions as completed once an hour
	completionJob := jobs.NewSessionCompletionJob(db, time.Hour)
	completionJob.Start()
	defer completionJob.Stop()

	// Setup Gin router
	router := gin.Default()
	router.Use(routes.SetupCORS())
	router.Use(middleware.SecurityHeaders())

	routes.SetupRoutes(router, db, cfg, hub)

	fmt.Printf("🚀 SkillSync API server starting on port %s\n", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
