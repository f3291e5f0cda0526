// Package testing provides testing utilities and helpers for the hedgeguard project.
package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/aristath/hedgeguard/internal/database"
)

// NewTestDB creates a file-backed SQLite database in a per-test temp directory
// and applies the embedded schema for name (e.g. "calculations").
// Unknown names produce an empty database. The database is closed on test cleanup.
func NewTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), fmt.Sprintf("test_%s.db", name)),
		Profile: database.ProfileStandard,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
	})

	return db
}

// NewTestDBWithSchema creates a test database and executes a custom schema on it.
func NewTestDBWithSchema(t *testing.T, name string, schema string) *database.DB {
	t.Helper()

	db := NewTestDB(t, name)
	if schema != "" {
		if _, err := db.Conn().Exec(schema); err != nil {
			t.Fatalf("Failed to execute custom schema for test database %s: %v", name, err)
		}
	}

	return db
}

// CreateTempDBFile returns a path for a database file that does not exist yet.
// Useful as a backup destination.
func CreateTempDBFile(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), fmt.Sprintf("%s.db", name))
	if _, err := os.Stat(path); err == nil {
		t.Fatalf("Temporary database file already exists: %s", path)
	}
	return path
}
