package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// Querier is the statement surface shared by *sql.DB and *sql.Tx, so
// history and preference reads work both standalone and inside a
// history transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PrefHistoryRevision counts committed history transactions.
const PrefHistoryRevision = "history_revision"

// Transact runs fn in a transaction wrapped with RetryWithBackoff. A busy
// error anywhere in fn rolls back and reruns fn from the start.
func Transact(db *sql.DB, fn func(tx *sql.Tx) error) error {
	return RetryWithBackoff(func() error {
		tx, err := db.BeginTx(context.Background(), nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer func() {
			_ = tx.Rollback()
		}()

		if err := fn(tx); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}

		return nil
	})
}

// TransactHistory runs fn as a read-modify-write of the persisted history.
// Its first statement bumps the history revision, which takes the SQLite
// write lock before fn reads anything. Concurrent mishap processes
// therefore apply their load, record and save cycles one after another
// instead of saving over each other.
func TransactHistory(db *sql.DB, fn func(tx *sql.Tx) error) error {
	return Transact(db, func(tx *sql.Tx) error {
		if _, err := bumpHistoryRevisionTx(tx); err != nil {
			return err
		}
		return fn(tx)
	})
}

func bumpHistoryRevisionTx(tx *sql.Tx) (int64, error) {
	var rev int64
	err := tx.QueryRowContext(context.Background(), `
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, '1', CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = CAST(CAST(value AS INTEGER) + 1 AS TEXT),
			updated_at = CURRENT_TIMESTAMP
		RETURNING CAST(value AS INTEGER)
	`, PrefHistoryRevision).Scan(&rev)
	if err != nil {
		return 0, fmt.Errorf("failed to claim history: %w", err)
	}
	return rev, nil
}

// HistoryRevision reports how many history transactions have committed.
// It is 0 for a database that has never recorded an event.
func HistoryRevision(q Querier) (int64, error) {
	raw, err := GetPreference(q, PrefHistoryRevision)
	if errors.Is(err, ErrPreferenceNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	rev, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &CorruptPreferenceError{Key: PrefHistoryRevision, Value: raw}
	}
	return rev, nil
}
