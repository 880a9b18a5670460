// Package routes defines HTTP routes for the task management service.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/visorry/task-management-system/docs"
	"github.com/visorry/task-management-system/internal/config"
	"github.com/visorry/task-management-system/internal/handlers"
	"github.com/visorry/task-management-system/internal/metrics"
	"github.com/visorry/task-management-system/internal/middleware"
	"github.com/visorry/task-management-system/internal/service"
)

// Setup configures all HTTP routes for the application. The task group is
// the only place the auth gate is attached; every task route inherits it.
func Setup(router *gin.Engine, authHandler *handlers.AuthHandler, taskHandler *handlers.TaskHandler, healthHandler *handlers.HealthHandler, jwtService service.JWTService, cfg *config.Config, m *metrics.Metrics) {
	router.Use(m.Middleware())

	// Health check
	router.GET("/health", healthHandler.Check)
	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth routes (no gate)
	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Task routes, all behind the auth gate
	tasks := router.Group("/api/tasks")
	tasks.Use(middleware.Auth(jwtService))
	{
		tasks.POST("", taskHandler.Create)
		tasks.GET("", taskHandler.List)
		tasks.GET("/:id", taskHandler.Get)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.DELETE("/:id", taskHandler.Delete)
	}

	// Swagger documentation (only if SWAGGER_HOST is configured)
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
