package main

import (
	"github.com/collabspace/backend/internal/middleware"
	"github.com/collabspace/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(middleware.RequestID(), logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Public auth endpoints carry a per-IP rate limit
	authLimiter := middleware.NewRateLimiter(svc.cfg.Auth.RateLimitRPS, svc.cfg.Auth.RateLimitBurst)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "collabspace"})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
		}

		// Public project reads
		api.GET("/projects", svc.projectHandler.List)
		api.GET("/projects/user/:address", svc.projectHandler.GetUserProjects)
		api.GET("/projects/:id", svc.projectHandler.GetByID)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			protected.GET("/auth", svc.authHandler.GetCurrentUser)

			protected.GET("/user-data", svc.profileHandler.Get)
			protected.GET("/profile", svc.profileHandler.Get)
			protected.PUT("/profile", svc.profileHandler.Update)

			protected.POST("/projects", svc.projectHandler.Upsert)
			protected.POST("/projects/recover", svc.projectHandler.Recover)
			protected.PUT("/projects/:id/status", svc.projectHandler.UpdateStatus)

			protected.POST("/projects/:id/collaborate", svc.collaboratorHandler.Request)
			protected.PUT("/projects/:id/collaborate/:userId", svc.collaboratorHandler.Respond)
			protected.DELETE("/projects/:id/collaborate/:userId", svc.collaboratorHandler.Remove)

			protected.GET("/audit-logs", svc.auditLogHandler.List)
		}
	}
}
