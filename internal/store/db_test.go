package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDBWithPath_CreatesHistorySchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mishap.db")

	db, err := InitDBWithPath(path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.FileExists(t, path)
	require.FileExists(t, path+".migrate.lock")

	for _, table := range []string{"error_events", "preferences"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	var journalMode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)
}

func TestInitDBWithPath_ReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mishap.db")

	first, err := InitDBWithPath(path)
	require.NoError(t, err)
	require.NoError(t, SetPreference(first, PrefMaxEventCount, "25"))
	require.NoError(t, first.Close())

	second, err := InitDBWithPath(path)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	assert.Equal(t, 25, NewPreferences(second).MaxEvents())
}

func TestBusyTimeoutMS(t *testing.T) {
	tests := []struct {
		env  string
		want int
	}{
		{"", defaultBusyTimeoutMS},
		{"250", 250},
		{"0", defaultBusyTimeoutMS},
		{"soon", defaultBusyTimeoutMS},
	}
	for _, tt := range tests {
		t.Setenv(BusyTimeoutEnv, tt.env)
		assert.Equal(t, tt.want, busyTimeoutMS(), "env %q", tt.env)
	}
}

func TestInitDBWithPath_AppliesBusyTimeout(t *testing.T) {
	t.Setenv(BusyTimeoutEnv, "1234")

	db, cleanup := setupTestDB(t)
	defer cleanup()

	var timeout int
	require.NoError(t, db.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout))
	assert.Equal(t, 1234, timeout)
}

func TestSchemaVersion_AtLatestAfterInit(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	current, latest, err := SchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), latest)
	assert.Equal(t, latest, current)
}

func TestNormalizeSQLiteDSN(t *testing.T) {
	cases := map[string]string{
		"/tmp/x.db":          "file:/tmp/x.db?mode=rwc",
		":memory:":           "file::memory:?cache=shared",
		"file:/tmp/y.db?a=b": "file:/tmp/y.db?a=b",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeSQLiteDSN(in), in)
	}
	assert.True(t, isFileBacked("/tmp/x.db"))
	assert.False(t, isFileBacked(":memory:"))
	assert.False(t, isFileBacked("file:/tmp/y.db?a=b"))
}

func TestMigrationLock_ReleaseIsNilSafe(t *testing.T) {
	var nilLock *migrationLock
	nilLock.Release()

	lock, err := acquireMigrationLock(filepath.Join(t.TempDir(), "mishap.db"))
	require.NoError(t, err)
	lock.Release()
	lock.Release()
}
