package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"

	"github.com/SAP-F-2025/assignment-engine/internal/cache"
	"github.com/SAP-F-2025/assignment-engine/internal/config"
	"github.com/SAP-F-2025/assignment-engine/internal/handlers"
	"github.com/SAP-F-2025/assignment-engine/internal/models"
	"github.com/SAP-F-2025/assignment-engine/internal/repositories/postgres"
	"github.com/SAP-F-2025/assignment-engine/internal/services"
	"github.com/SAP-F-2025/assignment-engine/internal/utils"
	"github.com/SAP-F-2025/assignment-engine/internal/validator"
	"github.com/SAP-F-2025/assignment-engine/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := logger.Slog()

	casdoorsdk.InitConfig(
		cfg.Casdoor.Endpoint,
		cfg.Casdoor.ClientID,
		cfg.Casdoor.ClientSecret,
		cfg.Casdoor.Certificate,
		cfg.Casdoor.Organization,
		cfg.Casdoor.Application,
	)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "Failed to connect to database")
		os.Exit(1)
	}
	if err := db.AutoMigrate(&models.Assignment{}, &models.Submission{}); err != nil {
		logger.LogError(err, "Failed to run migrations")
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.LogError(err, "Failed to connect to Redis")
		os.Exit(1)
	}
	defer redisClient.Close()

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.LogError(err, "Failed to create event publisher")
		os.Exit(1)
	}
	defer publisher.Close()

	repo := postgres.NewRepository(db)
	v := validator.New()
	deadlines := cache.NewRedisDeadlineStore(redisClient, cfg.SessionTTL)
	drafts := cache.NewRedisDraftStore(redisClient, cfg.SessionTTL)

	attemptService := services.NewAttemptService(repo, deadlines, drafts, publisher, slogger, v, nil)
	practiceService := services.NewPracticeService(repo, slogger, v)
	exportService := services.NewExportService(repo, slogger)

	router := handlers.SetupRouter(
		handlers.NewAttemptHandler(attemptService, logger),
		handlers.NewPracticeHandler(practiceService, logger),
		handlers.NewExportHandler(exportService, logger),
		logger,
	)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting assignment engine", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.LogError(err, "Server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.LogError(err, "Forced shutdown")
	}
}
