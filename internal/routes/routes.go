package routes

import (
	"time"

	"admin-dashboard-api/internal/handlers"
	"admin-dashboard-api/internal/kanban"
	"admin-dashboard-api/internal/metrics"
	"admin-dashboard-api/internal/middleware"
	"admin-dashboard-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

// Deps are the long-lived components the router hands to its handlers.
type Deps struct {
	Kanban         *kanban.Service
	Hub            *realtime.Hub
	Limiter        *middleware.RateLimiter
	PersistTimeout time.Duration
}

func SetupRoutes(deps Deps) *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.New()
	ginRouter.Use(middleware.RequestLogger(), gin.Recovery())

	// CORS middleware (for frontend integration)
	ginRouter.Use(middleware.CORS())

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Admin Dashboard API is running",
		})
	})
	ginRouter.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		// Login endpoint
		api.POST("/login", handlers.Login)
	}

	kanbanHandler := handlers.NewKanbanHandler(deps.Kanban, deps.PersistTimeout)

	// writes are throttled per user
	throttle := func(c *gin.Context) { c.Next() }
	if deps.Limiter != nil {
		throttle = deps.Limiter.Handler()
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		// Kanban endpoints
		protectedRoutes.GET("/kanban", kanbanHandler.GetBoard)
		protectedRoutes.POST("/kanban/seed", throttle, kanbanHandler.Seed)
		protectedRoutes.POST("/kanban/tasks", throttle, kanbanHandler.CreateTask)
		protectedRoutes.DELETE("/kanban/tasks/:id", throttle, kanbanHandler.DeleteTask)
		protectedRoutes.POST("/kanban/moves", throttle, kanbanHandler.MoveTask)
		protectedRoutes.POST("/kanban/columns", middleware.RequireRole("Admin"), throttle, kanbanHandler.CreateColumn)
		// Users endpoint
		protectedRoutes.GET("/users", handlers.GetAllUsers)
		// Board stream
		protectedRoutes.GET("/ws", kanbanHandler.WebSocket(deps.Hub))
	}

	return ginRouter
}
