package di

import (
	"fmt"

	"github.com/aristath/hedgeguard/internal/modules/calculations"
	"github.com/rs/zerolog"
)

// InitializeRepositories creates all repositories and stores them in the container
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}
	if container.CalculationsDB == nil {
		return fmt.Errorf("calculations database not initialized")
	}

	container.CalculationRepo = calculations.NewRepository(container.CalculationsDB.Conn(), log)

	return nil
}
