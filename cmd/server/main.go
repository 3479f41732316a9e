package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/solunkeprithwiraj/todo-api/internal/config"
	"github.com/solunkeprithwiraj/todo-api/internal/database"
	"github.com/solunkeprithwiraj/todo-api/internal/handlers"
	"github.com/solunkeprithwiraj/todo-api/internal/mail"
	"github.com/solunkeprithwiraj/todo-api/internal/middleware"
	"github.com/solunkeprithwiraj/todo-api/internal/repository"
	"github.com/solunkeprithwiraj/todo-api/internal/services"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database; failure here is fatal
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories and services
	userRepo := repository.NewUserRepository(database.GetDB())
	taskRepo := repository.NewTaskRepository(database.GetDB())

	mailer := mail.NewSMTPMailer(cfg, logger)
	authService := services.NewAuthService(userRepo, mailer, cfg.JWTSecret, logger)
	taskService := services.NewTaskService(taskRepo)
	adminService := services.NewAdminService(taskRepo, userRepo)

	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Guards evaluated in fixed order: authenticate, then the admin gate
	requireAuth := middleware.Chain(middleware.Authenticate(cfg.JWTSecret, userRepo))
	requireAdmin := middleware.Chain(middleware.Authenticate(cfg.JWTSecret, userRepo), middleware.RequireAdmin())

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.AllowedOrigin},
		AllowMethods: []string{"POST", "GET", "PUT", "DELETE", "PATCH"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Todo API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public; signup honors an optional bearer token)
		user := api.Group("/user")
		{
			user.POST("/signup", authHandler.Signup)
			user.POST("/login", authHandler.Login)
			user.GET("/verify-email", authHandler.VerifyEmail)
		}

		// Task routes (protected)
		api.POST("/tasks", requireAuth, taskHandler.CreateTask)
		api.GET("/tasks", requireAuth, taskHandler.ListTasks)
		api.GET("/task/:id", requireAuth, taskHandler.GetTask)
		api.PUT("/task/:id", requireAuth, taskHandler.UpdateTask)
		api.DELETE("/task/:id", requireAuth, taskHandler.DeleteTask)

		// Admin routes (protected + admin gate)
		admin := api.Group("/admin")
		admin.Use(requireAdmin)
		{
			admin.GET("/tasks", adminHandler.ListAllTasks)
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/user/:id/tasks", adminHandler.ListUserTasks)
			admin.PATCH("/tasks/delete", adminHandler.SoftDeleteAllTasks)
			admin.PATCH("/tasks/:id", adminHandler.EditTask)
			admin.PUT("/task/:id", adminHandler.ToggleTask)
			admin.DELETE("/tasks/:id", adminHandler.DeleteTask)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", slog.String("error", err.Error()))
	}
	if err := database.Close(); err != nil {
		logger.Error("database close failed", slog.String("error", err.Error()))
	}
}
