package di

import (
	"fmt"
	"path/filepath"

	"github.com/aristath/hedgeguard/internal/config"
	"github.com/aristath/hedgeguard/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens calculations.db and applies its schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// Served calculations are an audit trail: maximum durability
	calculationsDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "calculations.db"),
		Profile: database.ProfileLedger,
		Name:    "calculations",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize calculations database: %w", err)
	}

	if err := calculationsDB.Migrate(); err != nil {
		calculationsDB.Close()
		return nil, fmt.Errorf("failed to migrate calculations database: %w", err)
	}
	container.CalculationsDB = calculationsDB

	log.Info().
		Str("path", calculationsDB.Path()).
		Str("profile", string(calculationsDB.Profile())).
		Msg("Calculations database initialized")

	return container, nil
}
