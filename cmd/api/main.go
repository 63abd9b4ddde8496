package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/lumenworks/studio-portal-backend/internal/api/handlers"
	"github.com/lumenworks/studio-portal-backend/internal/api/middleware"
	"github.com/lumenworks/studio-portal-backend/internal/config"
	"github.com/lumenworks/studio-portal-backend/internal/cron"
	"github.com/lumenworks/studio-portal-backend/internal/db"
	"github.com/lumenworks/studio-portal-backend/internal/email"
	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/seed"
	"github.com/lumenworks/studio-portal-backend/internal/service"
	"github.com/lumenworks/studio-portal-backend/internal/socket"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ============================================
	// Run Database Migrations FIRST
	// ============================================
	log.Println("🔄 Running database migrations...")
	migrationsPath := "./internal/db/migrations"
	if err := db.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// ============================================
	// Initialize PostgreSQL
	// ============================================
	postgres, err := db.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to PostgreSQL: %v", err)
	}
	defer postgres.Close()

	repos := repository.NewRepositories(postgres.Pool, postgres.Reporting)
	log.Println("📦 Repositories initialized")

	// ============================================
	// Initialize Redis (optional)
	// ============================================
	var redisDB *db.RedisDB
	if cfg.RedisURL != "" {
		redisDB, err = db.NewRedisDB(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (continuing without cache)", err)
			redisDB = nil
		} else {
			defer redisDB.Close()
			log.Println("⚡ Redis cache enabled")
		}
	}

	// ============================================
	// Initialize Email Service
	// ============================================
	emailSvc := email.NewService(cfg)
	if cfg.SMTPHost == "" {
		log.Println("⚠️  SMTP not configured, emails logged instead of sent")
	} else {
		log.Println("📧 Email service initialized")
	}

	// ============================================
	// Initialize WebSocket Hub
	// ============================================
	hub := socket.NewHub()
	go hub.Run()
	broadcaster := socket.NewBroadcaster(hub)
	wsHandler := socket.NewHandler(hub, cfg.JWTSecret)
	log.Println("🔌 WebSocket hub initialized")

	// ============================================
	// Seed Data (for development)
	// ============================================
	if cfg.Environment != "production" {
		seed.SeedData(repos)
	}

	// ============================================
	// Initialize Services & Handlers
	// ============================================
	services := service.NewServices(&service.ServiceDeps{
		Config:      cfg,
		Repos:       repos,
		Redis:       redisDB,
		EmailSvc:    emailSvc,
		Broadcaster: broadcaster,
	})
	log.Println("✨ All services initialized")

	h := handlers.NewHandlers(services)

	// ============================================
	// Initialize Cron Scheduler
	// ============================================
	scheduler := cron.NewScheduler(repos, broadcaster)
	scheduler.Start()
	defer scheduler.Stop()

	// ============================================
	// Create Gin Router
	// ============================================
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", cfg.PortalURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"timestamp":  time.Now(),
			"database":   "connected",
			"cache":      cacheStatus(redisDB),
			"email":      emailStatus(cfg),
			"ws_clients": hub.GetConnectedClientsCount(),
		})
	})

	api := r.Group("/api")
	{
		// ============================================
		// Public routes (no auth required)
		// ============================================
		api.POST("/contact", h.Message.Intake)

		auth := api.Group("/auth")
		{
			auth.POST("/request-link", h.Auth.RequestLink)
			auth.POST("/redeem", h.Auth.Redeem)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Billing provider webhook authenticates with a shared secret
		api.POST("/billing/webhook", h.Billing.Webhook)

		// WebSocket route (token passed as query param)
		api.GET("/ws", wsHandler.HandleWebSocket)

		// ============================================
		// Protected routes
		// ============================================
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(services.Auth))
		{
			users := protected.Group("/users")
			{
				users.GET("/me", h.User.Me)
				users.PATCH("/me", h.User.UpdateMe)
			}

			billing := protected.Group("/billing")
			{
				billing.GET("/subscription", h.Billing.GetSubscription)
				billing.POST("/checkout", h.Billing.CreateCheckout)
				billing.GET("/checkout/:id", h.Billing.GetCheckout)
			}

			// Clients see only their own projects; staff see all
			protected.GET("/projects", h.Project.List)
			protected.GET("/projects/:id", h.Project.Get)

			// ============================================
			// Staff routes
			// ============================================
			staff := protected.Group("")
			staff.Use(middleware.RequireStaff())
			{
				leads := staff.Group("/leads")
				{
					leads.GET("", h.Lead.List)
					leads.POST("", h.Lead.Create)
					leads.GET("/:id", h.Lead.Get)
					leads.PATCH("/:id", h.Lead.Update)
					leads.DELETE("/:id", h.Lead.Delete)
					leads.POST("/:id/convert", h.Lead.Convert)
				}

				pipeline := staff.Group("/pipeline")
				{
					pipeline.GET("", h.Pipeline.GetBoard)
					pipeline.POST("/:id/forward", h.Pipeline.MoveForward)
					pipeline.POST("/:id/back", h.Pipeline.MoveBack)
					pipeline.PATCH("/:id/stage", h.Pipeline.SetStage)
				}

				messages := staff.Group("/messages")
				{
					messages.GET("", h.Message.ListThreads)
					messages.GET("/threads/:threadId", h.Message.GetThread)
					messages.POST("/threads/:threadId/reply", h.Message.Reply)
					messages.POST("/threads/:threadId/convert", h.Message.Convert)
					messages.POST("/:id/read", h.Message.MarkRead)
					messages.PATCH("/:id/status", h.Message.SetStatus)
					messages.DELETE("/:id", h.Message.Delete)
				}

				projects := staff.Group("/projects")
				{
					projects.POST("", h.Project.Create)
					projects.PATCH("/:id", h.Project.Update)
					projects.PATCH("/:id/status", h.Project.SetStatus)
					projects.PATCH("/:id/phase", h.Project.SetPhase)
				}

				stats := staff.Group("/stats")
				{
					stats.GET("/overview", h.Stats.Overview)
					stats.GET("/forecast", h.Stats.Forecast)
					stats.GET("/clients", h.Stats.ClientProjections)
					stats.GET("/lead-scores", h.Stats.LeadScores)
				}

				export := staff.Group("/export")
				{
					export.GET("/projects.csv", h.Export.Projects)
					export.GET("/messages.csv", h.Export.Messages)
					export.GET("/forecast.csv", h.Export.Forecast)
				}
			}

			// ============================================
			// Admin routes
			// ============================================
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/admin/users/:uid", h.User.Get)
				admin.PUT("/admin/users/:uid/role", h.User.SetRole)
				admin.PUT("/admin/users/:uid/active", h.User.SetActive)
				admin.POST("/admin/users/:uid/sync-claims", h.User.SyncClaims)

				// Hard delete never happens in portal flows; admins only.
				admin.DELETE("/projects/:id", h.Project.Delete)

				invites := admin.Group("/invites")
				{
					invites.POST("", h.Invite.Create)
					invites.GET("", h.Invite.List)
					invites.DELETE("/:id", h.Invite.Revoke)
				}
			}
		}
	}

	// ============================================
	// Start Server
	// ============================================
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func cacheStatus(redisDB *db.RedisDB) string {
	if redisDB != nil {
		return "connected"
	}
	return "disabled"
}

func emailStatus(cfg *config.Config) string {
	if cfg.SMTPHost != "" {
		return "smtp"
	}
	return "dev"
}
