package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/jibbitats/jibbit-ats/internal/config"
	"github.com/jibbitats/jibbit-ats/internal/database"
	"github.com/jibbitats/jibbit-ats/internal/handlers"
	"github.com/jibbitats/jibbit-ats/internal/logger"
	"github.com/jibbitats/jibbit-ats/internal/services"
)

func main() {
	// .env is optional; env-only deployments skip it
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	lg := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: "jibbit-ats",
	})

	db, err := database.Connect(&cfg.Database, lg)
	if err != nil {
		lg.WithError(err).Fatal("database connection failed")
	}
	defaultUser, err := database.EnsureDefaultUser(db)
	if err != nil {
		lg.WithError(err).Fatal("default user setup failed")
	}

	jobService := services.NewJobService(db, lg)
	statsService := services.NewStatsService(jobService, lg)

	// Extraction is optional: without an API key the endpoint reports 503
	// but the rest of the tracker works.
	var llmService *services.LLMService
	if cfg.Gemini.APIKey != "" {
		llmService, err = services.NewLLMService(context.Background(), &cfg.Gemini)
		if err != nil {
			lg.WithError(err).Warn("gemini client unavailable, extraction disabled")
			llmService = nil
		}
	} else {
		lg.Warn("JIBBIT_GEMINI_API_KEY not set, extraction disabled")
	}

	jobHandler := handlers.NewJobHandler(jobService, llmService, lg, defaultUser.ID)
	statsHandler := handlers.NewStatsHandler(statsService, lg, defaultUser.ID)

	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // For development only
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-User-ID"}
	r.Use(cors.New(corsConfig))

	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)

		api.POST("/jobs/extract", jobHandler.Extract)
		api.POST("/jobs", jobHandler.Create)
		api.GET("/jobs", jobHandler.List)
		api.GET("/jobs/:id", jobHandler.Get)
		api.PUT("/jobs/:id", jobHandler.Update)
		api.DELETE("/jobs/:id", jobHandler.Delete)

		api.POST("/jobs/:id/status", jobHandler.Transition)
		api.GET("/jobs/:id/status-at", jobHandler.StatusAt)
		api.POST("/jobs/:id/archive", jobHandler.Archive)
		api.POST("/jobs/:id/unarchive", jobHandler.Unarchive)

		api.POST("/jobs/:id/contacts", jobHandler.AddContact)
		api.DELETE("/jobs/:id/contacts/:contactID", jobHandler.RemoveContact)

		api.GET("/pipeline", statsHandler.Pipeline)
		api.GET("/stats", statsHandler.Summary)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	lg.WithField("addr", addr).Info("server starting")
	if err := r.Run(addr); err != nil {
		lg.WithError(err).Fatal("server failed to start")
	}
}
