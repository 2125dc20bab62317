package app

import (
	"dentsim_backend/internal/config"
	"dentsim_backend/internal/middleware"
	"dentsim_backend/internal/model"
	"dentsim_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// public routes
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// authenticated routes
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.POST("/sessions", c.session.StartSession)
		authGroup.POST("/sessions/:id/messages", c.session.SendMessage)
		authGroup.POST("/sessions/:id/diagnosis", c.session.SubmitDiagnosis)
		authGroup.GET("/sessions/history", c.session.GetHistory)

		authGroup.GET("/profile", c.progression.GetProfile)
		authGroup.GET("/badges", c.progression.GetBadges)
		authGroup.GET("/leaderboard", c.progression.GetLeaderboard)

		authGroup.GET("/cases", middleware.RoleMiddleware(model.Instructor), c.catalog.ListCases)
	}
}
