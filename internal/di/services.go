package di

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/hedgeguard/internal/config"
	"github.com/aristath/hedgeguard/internal/events"
	"github.com/aristath/hedgeguard/internal/modules/calculations"
	"github.com/aristath/hedgeguard/internal/modules/hedging"
	"github.com/aristath/hedgeguard/internal/modules/risk"
	"github.com/aristath/hedgeguard/internal/reliability"
	"github.com/aristath/hedgeguard/internal/scheduler"
	"github.com/rs/zerolog"
)

// InitializeServices creates the event system, domain services and the scheduler
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}
	if container.CalculationRepo == nil {
		return fmt.Errorf("repositories not initialized")
	}

	container.EventBus = events.NewBus(log)
	container.EventManager = events.NewManager(container.EventBus, log)

	container.Recorder = calculations.NewRecorder(container.CalculationRepo, log)

	container.RiskService = risk.NewService(
		cfg.DefaultAlpha,
		cfg.Policy.TradingDaysPerYear,
		container.Recorder,
		container.EventManager,
		log,
	)

	container.HedgingService = hedging.NewService(
		cfg.Policy,
		container.Recorder,
		container.EventManager,
		log,
	)

	if cfg.Backup.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client, err := reliability.NewR2Client(
			ctx,
			cfg.Backup.AccountID,
			cfg.Backup.AccessKeyID,
			cfg.Backup.SecretAccessKey,
			cfg.Backup.BucketName,
			log,
		)
		if err != nil {
			return fmt.Errorf("failed to create R2 client: %w", err)
		}

		container.BackupService = reliability.NewR2BackupService(client, cfg.DataDir, log, container.CalculationsDB)
	} else {
		log.Info().Msg("R2 credentials not configured, backups disabled")
	}

	container.Scheduler = scheduler.New(log)
	container.Scheduler.SetEventManager(container.EventManager)

	return nil
}
