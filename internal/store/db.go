package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dotcommander/mishap/internal/app"
	_ "modernc.org/sqlite"
)

// BusyTimeoutEnv overrides how long a history transaction waits for
// another mishap process to commit.
const BusyTimeoutEnv = "MISHAP_BUSY_TIMEOUT_MS"

const defaultBusyTimeoutMS = 5000

// InitDB opens the error history at the resolved database path.
func InitDB() (*sql.DB, error) {
	dbPath, err := app.GetDBPath()
	if err != nil {
		return nil, err
	}
	return InitDBWithPath(dbPath)
}

// InitDBWithPath opens (creating if needed) the error history at dbPath
// and migrates it to the latest schema.
//
// Every mishap command is a short-lived process that loads the history,
// applies one change and merges it back inside TransactHistory. Processes
// sharing the file queue on the SQLite write lock for up to the busy
// timeout; a transaction that still finds the database busy is rerun by
// RetryWithBackoff.
func InitDBWithPath(dbPath string) (*sql.DB, error) {
	if isFileBacked(dbPath) {
		if _, err := app.EnsureDBDir(dbPath); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", normalizeSQLiteDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection per process. A history transaction must read
	// preferences and events through its own *sql.Tx.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// busy_timeout comes first so the WAL switch itself waits on locks.
	// WAL lets `history list` and `analyze` read while another process
	// records. synchronous=NORMAL is crash safe under WAL; only the last
	// few commits can be lost on power failure.
	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeoutMS()),
		"PRAGMA synchronous=NORMAL",
		"PRAGMA journal_mode=WAL",
	}
	for _, pragma := range pragmas {
		if err := RetryWithBackoff(func() error {
			_, err := db.ExecContext(context.Background(), pragma)
			return err
		}); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := RetryWithBackoff(func() error { return MigrateDB(db, dbPath) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func busyTimeoutMS() int {
	v := os.Getenv(BusyTimeoutEnv)
	if v == "" {
		return defaultBusyTimeoutMS
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("ignoring invalid busy timeout", "env", BusyTimeoutEnv, "value", v)
		return defaultBusyTimeoutMS
	}
	return n
}

// isFileBacked reports whether dbPath names a plain file on disk, as
// opposed to an in-memory database or a ready-made file: DSN.
func isFileBacked(dbPath string) bool {
	return !strings.Contains(dbPath, ":memory:") && !strings.HasPrefix(dbPath, "file:")
}

func normalizeSQLiteDSN(dbPath string) string {
	if strings.HasPrefix(dbPath, "file:") {
		return dbPath
	}
	if dbPath == ":memory:" {
		return "file::memory:?cache=shared"
	}
	// mode=rwc creates the file on first use instead of failing read-only.
	return "file:" + dbPath + "?mode=rwc"
}
