package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/livescores-dashboard/config"
	"github.com/Dosada05/livescores-dashboard/db"
	"github.com/Dosada05/livescores-dashboard/handlers"
	"github.com/Dosada05/livescores-dashboard/live"
	"github.com/Dosada05/livescores-dashboard/metrics"
	"github.com/Dosada05/livescores-dashboard/repositories"
	api "github.com/Dosada05/livescores-dashboard/routes"
	"github.com/Dosada05/livescores-dashboard/services"
	"github.com/Dosada05/livescores-dashboard/storage"
	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("scores_table", cfg.ScoresTable))

	// Подключение к базе данных
	dbConn, err := db.Open(cfg.DSN(), cfg.DBConnectTimeout)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Ссылки на эмблемы команд (Cloudflare R2 или как есть)
	badges := storage.NewPassthroughBadgeResolver()
	if cfg.BadgeStorageEnabled() {
		badges, err = storage.NewCloudflareR2BadgeResolver(storage.CloudflareR2BadgeConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
			PresignTTL:      cfg.BadgeURLTTL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 badge resolver", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 badge resolver initialized", slog.String("bucket", cfg.R2BucketName))
	}

	appMetrics := metrics.New()

	scoreRepo, err := repositories.NewPostgresScoreRepository(dbConn, cfg.ScoresTable)
	if err != nil {
		logger.Error("failed to initialize score repository", slog.Any("error", err))
		os.Exit(1)
	}

	dashboardService := services.NewDashboardService(scoreRepo, badges, appMetrics, logger)
	logger.Info("Services initialized")

	// Инициализация WebSocket Hub
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	wsHub := live.NewHub(dashboardService, cfg.DefaultStartDate, cfg.DefaultEndDate, logger, appMetrics.SetLiveSessions)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Инициализация обработчиков HTTP
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, cfg.DefaultStartDate, cfg.DefaultEndDate)
	healthHandler := handlers.NewHealthHandler(dbConn, cfg.DBConnectTimeout)
	liveHandler := handlers.NewLiveHandler(wsHub, cfg.CORSOrigins)

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, dashboardHandler, healthHandler, liveHandler, appMetrics, logger, cfg.CORSOrigins)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		// Закрываем живые сессии до остановки сервера
		stop()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
