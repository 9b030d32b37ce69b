package http

import (
	"learningleague/internal/catalog"
	"learningleague/internal/config"
	"learningleague/internal/http/handlers"
	"learningleague/internal/http/middleware"
	"learningleague/internal/store"
	"learningleague/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cat *catalog.Catalog, sessions *store.Manager, hub *ws.Hub, cfg *config.Config, version string) {
	h := handlers.NewHandler(db, cat, sessions, hub)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))

	// Auth. Login gets the stricter per-IP window.
	api.POST("/auth/login", middleware.RedisRateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow), h.Login)
	api.POST("/auth/logout", middleware.JWT(), h.Logout)

	// Current user
	api.GET("/me", middleware.JWT(), h.Me)
	api.POST("/me/avatar", middleware.JWT(), h.SetAvatar)

	// Catalog (static reference data)
	api.GET("/catalog/courses", h.Courses)
	api.GET("/catalog/shop", h.ShopItems)
	api.GET("/catalog/badges", h.Badges)
	api.GET("/catalog/classrooms", h.Classrooms)
	api.GET("/catalog/goals", middleware.JWT(), h.Goals)

	// Command endpoints, per-user rate limited so one client cannot
	// hammer the progress engine.
	cmdRL := middleware.UserRateLimit(cfg.CommandRateLimit, cfg.CommandRateWindow)
	api.POST("/lessons/:id/complete", middleware.JWT(), cmdRL, h.CompleteLesson)
	api.POST("/goals/:id/complete", middleware.JWT(), cmdRL, h.CompleteGoal)
	api.POST("/shop/:id/purchase", middleware.JWT(), cmdRL, h.PurchaseItem)

	// Leaderboard
	api.GET("/leaderboard", middleware.JWT(), h.Leaderboard)

	// Tutor views
	tutor := api.Group("/tutor")
	tutor.Use(middleware.JWT(), middleware.TutorOnly())
	{
		tutor.GET("/students", h.ListStudents)
		tutor.GET("/students/:id/report", h.WeeklyReport)
		tutor.POST("/students/:id/goals", h.AssignGoal)
		tutor.POST("/students/:id/badges/:bid", h.AwardBadge)
		tutor.POST("/students/:id/notes", h.CreateNote)
		tutor.GET("/students/:id/notes", h.ListNotes)
	}

	// WebSocket snapshot feed
	r.GET("/ws", ws.Handle(hub))
}
