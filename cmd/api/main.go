// Package main is the entry point for the task management service.
package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/visorry/task-management-system/docs"
	"github.com/visorry/task-management-system/internal/cache"
	"github.com/visorry/task-management-system/internal/config"
	"github.com/visorry/task-management-system/internal/database"
	"github.com/visorry/task-management-system/internal/handlers"
	"github.com/visorry/task-management-system/internal/metrics"
	"github.com/visorry/task-management-system/internal/repository"
	"github.com/visorry/task-management-system/internal/routes"
	"github.com/visorry/task-management-system/internal/service"
	"github.com/visorry/task-management-system/pkg/redis"
)

// @title Task Management API
// @version 1.0
// @description API documentation for Task Management
// @host localhost:3000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load .env when present; real environments set variables directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	// Initialize Redis (optional; nil disables the task cache)
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Initialize services
	jwtService, err := service.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry)
	if err != nil {
		log.Fatal("Failed to create JWT service: ", err)
	}
	authService := service.NewAuthService(userRepo, jwtService, cfg.BcryptCost)
	taskCache := cache.NewTaskCache(redisClient, cfg.CacheTTL)
	taskService := service.NewTaskService(taskRepo, taskCache)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	healthHandler := handlers.NewHealthHandler()

	// Setup router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	m := metrics.New(prometheus.DefaultRegisterer)
	routes.Setup(router, authHandler, taskHandler, healthHandler, jwtService, cfg, m)

	log.Printf("Starting task management service on port %s", cfg.Port)
	if err := router.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
