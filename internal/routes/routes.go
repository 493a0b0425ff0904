package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskflow/internal/authz"
	"taskflow/internal/handlers"
	"taskflow/internal/middleware"
	"taskflow/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	authService services.AuthService,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	taskHandler *handlers.TaskHandler,
	reportHandler *handlers.ReportHandler,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api")
	api.POST("/auth/login", authHandler.Login)

	// ---- protected
	api.Use(middleware.AuthMiddleware(authService))

	api.POST("/auth/register", middleware.RequireRoles(authz.RoleAdmin), userHandler.Register)

	// USERS
	users := api.Group("/users")
	{
		users.GET("", userHandler.ListUsers)
		users.GET("/workers", userHandler.ListWorkers)
	}

	// TASKS
	tasks := api.Group("/tasks")
	{
		tasks.GET("", taskHandler.List)
		tasks.POST("", middleware.RequireRoles(authz.RoleAdmin), taskHandler.Create)
		tasks.PATCH("/:id/status", taskHandler.UpdateStatus)
		tasks.POST("/:id/errors", middleware.RequireRoles(authz.RoleAdmin), taskHandler.AddError)
		tasks.GET("/:id/errors", taskHandler.ListErrors)
	}

	// STATS
	stats := api.Group("/stats")
	{
		stats.GET("", reportHandler.GetStats)
		stats.GET("/report", reportHandler.StatsPDF)
	}

	return r
}
