package actions

import (
	"database/sql"
	"testing"
	"time"

	"github.com/dotcommander/mishap/internal/app"
	"github.com/dotcommander/mishap/internal/store"
)

// setupTestDB creates a file-backed test DB closed via t.Cleanup.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	tempDir := t.TempDir()
	testDBPath := tempDir + "/test.db"

	db, err := store.InitDBWithPath(testDBPath)
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func testLogSettings() app.LogSettings {
	return app.LogSettings{
		MaxAge:        24 * time.Hour,
		SweepInterval: 5 * time.Minute,
		PatternWindow: 60 * time.Second,
		PatternLastN:  10,
	}
}
