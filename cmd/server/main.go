package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"comment-service/internal/clock"
	"comment-service/internal/config"
	"comment-service/internal/handler"
	"comment-service/internal/infrastructure/database"
	"comment-service/internal/logger"
	"comment-service/internal/metrics"
	"comment-service/internal/middleware"
	"comment-service/internal/repository"
	"comment-service/internal/service"
	"comment-service/internal/validator"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration",
			slog.String("error", err.Error()))
	}

	// Connect to database
	pool, err := database.NewPostgres(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database",
			slog.String("error", err.Error()))
	}
	defer pool.Close()

	// Start database pool metrics collector
	poolStatsCollector := metrics.NewPoolStatsCollector(pool)
	poolStatsCollector.Start(15 * time.Second)
	defer poolStatsCollector.Stop()

	// Initialize repositories
	commentRepo := repository.NewPostgresCommentRepository(pool)
	notificationRepo := repository.NewPostgresNotificationRepository(pool)

	// Initialize services
	clk := clock.NewSystem()
	v := validator.NewValidator()

	notificationService := service.NewNotificationService(notificationRepo, clk)
	commentService := service.NewCommentService(
		commentRepo,
		notificationService,
		v,
		clk,
		cfg.ModerationWindow,
		cfg.NotifyTimeout,
	)

	// Start the retention sweeper
	sweeper := service.NewSweeper(commentRepo, clk, cfg.SweepInterval, cfg.ModerationWindow)
	sweeper.Start()
	defer sweeper.Stop()

	// Initialize handlers
	commentHandler := handler.NewCommentHandler(commentService, v, clk, cfg.ModerationWindow, cfg.DefaultPageSize, cfg.MaxPageSize)
	notificationHandler := handler.NewNotificationHandler(notificationService, v)
	healthHandler := handler.NewHealthHandler(pool, sweeper)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(gin.Logger())

	// Health and metrics endpoints
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/live", healthHandler.Live)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1", middleware.Auth(cfg.JWTSecret))
	{
		comments := v1.Group("/comments")
		{
			comments.POST("", commentHandler.CreateComment)
			comments.GET("", commentHandler.ListComments)
			comments.GET("/deleted", commentHandler.ListDeletedComments)
			comments.GET("/:id", commentHandler.GetComment)
			comments.PATCH("/:id", commentHandler.EditComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
			comments.POST("/:id/soft-delete", commentHandler.SoftDeleteComment)
			comments.POST("/:id/restore", commentHandler.RestoreComment)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.POST("/read-all", notificationHandler.MarkAllNotificationsRead)
			notifications.POST("/:id/read", notificationHandler.MarkNotificationRead)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting server",
			slog.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server",
				slog.String("error", err.Error()))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	// Shutdown HTTP server
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error",
			slog.String("error", err.Error()))
	}

	logger.Info("Server exited")
}
