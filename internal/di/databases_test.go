package di

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aristath/hedgeguard/internal/config"
	"github.com/aristath/hedgeguard/internal/database"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeDatabases(t *testing.T) {
	tmpDir := t.TempDir()

	container, err := InitializeDatabases(&config.Config{DataDir: tmpDir}, zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	require.NotNil(t, container.CalculationsDB)
	assert.Equal(t, database.ProfileLedger, container.CalculationsDB.Profile())
	assert.FileExists(t, filepath.Join(tmpDir, "calculations.db"))

	var name string
	err = container.CalculationsDB.Conn().
		QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='calculations'`).
		Scan(&name)
	require.NoError(t, err)
}

func TestInitializeDatabases_InvalidPath(t *testing.T) {
	// A regular file where the data directory should be
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := InitializeDatabases(&config.Config{DataDir: filepath.Join(blocker, "data")}, zerolog.Nop())
	assert.Error(t, err)
}

func TestInitializeRepositories_RequiresDatabase(t *testing.T) {
	assert.Error(t, InitializeRepositories(nil, zerolog.Nop()))
	assert.Error(t, InitializeRepositories(&Container{}, zerolog.Nop()))
}
