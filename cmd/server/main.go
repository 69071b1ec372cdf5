package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ramrodpineapple01/autoexel/internal/config"
	"github.com/ramrodpineapple01/autoexel/internal/database"
	"github.com/ramrodpineapple01/autoexel/internal/handlers"
	"github.com/ramrodpineapple01/autoexel/internal/logger"
	"github.com/ramrodpineapple01/autoexel/internal/middleware"
	"github.com/ramrodpineapple01/autoexel/internal/repository"
	"github.com/ramrodpineapple01/autoexel/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewWithOptions(cfg.Server.Env, logger.Options{Level: cfg.Server.LogLevel})
	log.Info("Starting community data API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"backend":     cfg.Store.Backend,
	})

	// Open the persistence backend and load the table image
	ctx := context.Background()
	backend, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open store backend", err, map[string]interface{}{
			"backend":   cfg.Store.Backend,
			"data_file": cfg.Store.DataFile,
		})
	}
	defer backend.Close()

	store, err := repository.NewStore(ctx, backend)
	if err != nil {
		log.Fatal("Failed to load community tables", err, map[string]interface{}{
			"backend": backend.Describe(),
		})
	}

	log.Info("Community tables loaded", map[string]interface{}{
		"backend":       backend.Describe(),
		"max_upload_mb": cfg.Store.MaxUploadMB,
		"cors_origins":  cfg.CORS.Origins,
		"log_level":     cfg.Server.LogLevel,
	})

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Middleware order: RequestID -> Logger -> Recovery -> CORS -> BodyLimit
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))
	router.Use(middleware.BodyLimit(cfg.Store.MaxUploadBytes()))
	router.MaxMultipartMemory = cfg.Store.MaxUploadBytes()

	// Initialize service layer
	directoryService := services.NewDirectoryService(store, log)
	boardService := services.NewBoardService(store, log)
	committeeService := services.NewCommitteeService(store, log)
	lotOwnerService := services.NewLotOwnerService(store, log)
	lotMapService := services.NewLotMapService(store, log)

	// Initialize handlers and register routes
	handlers.RegisterRoutes(router, handlers.Handlers{
		Health:    handlers.NewHealthHandler(backend, cfg.Server.Env),
		Directory: handlers.NewDirectoryHandler(directoryService),
		Roster:    handlers.NewRosterHandler(boardService, committeeService),
		Lots:      handlers.NewLotHandler(lotOwnerService, lotMapService),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	// Give in-flight requests time to finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
