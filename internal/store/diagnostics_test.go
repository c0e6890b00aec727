package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dotcommander/mishap/internal/models"
)

func TestRunDiagnostics_Clean(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, SaveEvents(db, []models.ErrorEvent{
		models.NewErrorEvent(models.Timeout{}, "", 0, time.Now()),
	}, Retention{}))

	diags, err := RunDiagnostics(db)
	require.NoError(t, err)
	require.Empty(t, diags)
}

func TestRunDiagnostics_UnknownCode(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := db.Exec(`
		INSERT INTO error_events (id, code, category, message, occurred_at)
		VALUES ('ev_legacy_001', 'sync_conflict', 'cloud_sync', 'Conflict', '2026-01-01T00:00:00Z')
	`)
	require.NoError(t, err)

	diags, err := RunDiagnostics(db)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	require.Equal(t, "UNKNOWN_ERROR_CODE", diags[0].Code)
	require.Equal(t, "warning", diags[0].Level)
	require.Contains(t, diags[0].Message, "sync_conflict")
	require.NotEmpty(t, diags[0].SuggestedAction)
}

func TestRunDiagnostics_CategoryMismatch(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := db.Exec(`
		INSERT INTO error_events (id, code, category, message, occurred_at)
		VALUES ('ev_001', 'timeout', 'general', 'Timed out', '2026-01-01T00:00:00Z')
	`)
	require.NoError(t, err)

	diags, err := RunDiagnostics(db)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	require.Equal(t, "CATEGORY_MISMATCH", diags[0].Code)
	require.Contains(t, diags[0].Message, "network")
}

func TestRunDiagnostics_OverCapacity(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := NewPreferences(db).SetMaxEvents(10)
	require.NoError(t, err)

	events := make([]models.ErrorEvent, 0, 12)
	for i := 0; i < 12; i++ {
		events = append(events, models.NewErrorEvent(models.Timeout{}, fmt.Sprintf("op-%d", i), 0, time.Now()))
	}
	require.NoError(t, SaveEvents(db, events, Retention{}))

	diags, err := RunDiagnostics(db)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	require.Equal(t, "OVER_CAPACITY", diags[0].Code)
	require.Contains(t, diags[0].Message, "12")
}
