// Package main is the entry point for hedgeguard, a volatility-targeting
// position sizer and historical tail-risk estimator served over HTTP.
//
// Startup order:
// 1. Load configuration from the environment (.env supported)
// 2. Initialize logging
// 3. Wire dependencies (calculations.db, services, maintenance jobs)
// 4. Start the scheduler and the HTTP server
// 5. Wait for SIGINT/SIGTERM and shut down gracefully
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/hedgeguard/internal/config"
	"github.com/aristath/hedgeguard/internal/di"
	"github.com/aristath/hedgeguard/internal/server"
	"github.com/aristath/hedgeguard/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config failed before we know the log level
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Float64("target_annualized_volatility", cfg.Policy.TargetAnnualizedVolatility).
		Float64("max_leverage", cfg.Policy.MaxLeverage).
		Int("trading_days_per_year", cfg.Policy.TradingDaysPerYear).
		Msg("Starting hedgeguard")

	container, jobs, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer container.Close()

	if jobs.Backup != nil {
		log.Info().Str("schedule", cfg.Backup.Schedule).Msg("R2 backups enabled")
	}

	container.Scheduler.Start()

	srv := server.New(server.Config{
		Log:       log,
		Config:    cfg,
		Container: container,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// In-flight requests get up to 10 seconds
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Waits for a running maintenance job to finish before databases close
	container.Scheduler.Stop()

	log.Info().Msg("Server stopped")
}
