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

	"github.com/mfarghaly/egx_dashboard_api/config"
	"github.com/mfarghaly/egx_dashboard_api/data"
	"github.com/mfarghaly/egx_dashboard_api/data/cache"
	"github.com/mfarghaly/egx_dashboard_api/data/lock"
	"github.com/mfarghaly/egx_dashboard_api/data/repository"
	"github.com/mfarghaly/egx_dashboard_api/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/mfarghaly/egx_dashboard_api/internal/externalApi/egxApi"
	"github.com/mfarghaly/egx_dashboard_api/internal/reportGenerator/xlsxGenerator"
	"github.com/mfarghaly/egx_dashboard_api/internal/scheduler"
	"github.com/mfarghaly/egx_dashboard_api/internal/service/dashboardService"
	"github.com/mfarghaly/egx_dashboard_api/internal/transport/rest"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgClient := data.NewPostgresClient(cfg)
	defer pgClient.Close()

	pgRepo := repository.NewPostgres(cfg, pgClient)

	redisClient := data.NewRedisClient(cfg)
	defer redisClient.Close()

	redisCache := cache.NewRedisCache(redisClient, cfg)
	rebalanceLock := lock.NewRedisLock(redisClient, cfg)

	egxApiClient := egxApi.New(cfg)

	reportGenerator := xlsxGenerator.New()

	var cloudStorage dashboardService.CloudStorage
	if cfg.GoogleDrive.Enabled {
		cloudStorage = googleDriveApi.New(ctx, cfg)
	}

	dashboardSrv := dashboardService.New(cfg, pgRepo, redisCache, egxApiClient, rebalanceLock, reportGenerator, cloudStorage)

	sched := scheduler.New()
	sched.NewIntervalJob("refresh quotes", dashboardSrv.RefreshQuotes, cfg.Jobs.RefreshQuotesInterval, true)
	sched.NewCrontabJob("daily snapshots", dashboardSrv.TakeDailySnapshots, cfg.Jobs.SnapshotsCrontab, false)
	if cfg.GoogleDrive.Enabled {
		sched.NewIntervalJob("cleanup reports", dashboardSrv.CleanupReports, cfg.Jobs.DriveCleanupInterval, false)
	}
	sched.Start()
	defer sched.Stop()

	controller := rest.NewController(dashboardSrv)
	router := rest.NewRouter(cfg, controller)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.HTTP.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", slog.String("err", err.Error()))
			cancel()
		}
	}()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-interrupt:
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown failed", slog.String("err", err.Error()))
	}
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
