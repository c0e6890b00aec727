package actions

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dotcommander/mishap/internal/analytics"
	"github.com/dotcommander/mishap/internal/app"
	"github.com/dotcommander/mishap/internal/eventlog"
	"github.com/dotcommander/mishap/internal/models"
	"github.com/dotcommander/mishap/internal/store"
)

// OpenLog hydrates an event log from the persisted history read through q,
// which is either the database or an open history transaction. The log's
// capacity is read from the preferences table on every record.
func OpenLog(q store.Querier, settings app.LogSettings, opts ...eventlog.Option) (*eventlog.Log, error) {
	events, err := store.LoadEvents(q)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	base := []eventlog.Option{
		eventlog.WithCapacity(store.NewPreferences(q)),
		eventlog.WithMaxAge(settings.MaxAge),
		eventlog.WithSweepInterval(settings.SweepInterval),
	}
	log := eventlog.New(append(base, opts...)...)
	log.Restore(events)
	return log, nil
}

func retentionOf(log *eventlog.Log) store.Retention {
	return store.Retention{MaxEvents: log.Capacity(), NotBefore: log.StaleBefore()}
}

// SaveLog merges the contents of log into db. Events other processes saved
// since log was opened are kept; the table is then trimmed with the log's
// own capacity and max age.
func SaveLog(db *sql.DB, log *eventlog.Log) error {
	if err := store.SaveEvents(db, log.Snapshot(), retentionOf(log)); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	return nil
}

// RecordError reports kind against the persisted history and saves it back.
// Load, record and save run in one history transaction, so concurrent
// mishap processes each see the other's events.
func RecordError(db *sql.DB, settings app.LogSettings, kind models.ErrorKind, context string, retryCount int) (Outcome, error) {
	var out Outcome
	err := store.TransactHistory(db, func(tx *sql.Tx) error {
		log, err := OpenLog(tx, settings)
		if err != nil {
			return err
		}

		out, err = NewReporter(log).Report(kind, context, retryCount)
		if err != nil {
			return err
		}

		if err := store.SaveEventsTx(tx, log.Snapshot(), retentionOf(log)); err != nil {
			return fmt.Errorf("save events: %w", err)
		}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return out, nil
}

// ListHistory returns persisted events, oldest first. A positive within
// limits the result to events recorded in that trailing window.
func ListHistory(db *sql.DB, settings app.LogSettings, within time.Duration) ([]models.ErrorEvent, error) {
	log, err := OpenLog(db, settings)
	if err != nil {
		return nil, err
	}
	if within > 0 {
		return log.Recent(within), nil
	}
	return log.Snapshot(), nil
}

// ClearHistory deletes every persisted event.
func ClearHistory(db *sql.DB) error {
	if err := store.ClearEvents(db); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}
	return nil
}

// Analyze summarizes the persisted history.
func Analyze(db *sql.DB, settings app.LogSettings) (analytics.Summary, error) {
	log, err := OpenLog(db, settings)
	if err != nil {
		return analytics.Summary{}, err
	}
	agg := analytics.New(log,
		analytics.WithWindow(settings.PatternWindow),
		analytics.WithLastN(settings.PatternLastN),
	)
	return agg.Summarize(), nil
}

// SetMaxEvents stores a new capacity and trims the persisted history to it
// in the same transaction. It returns the clamped value actually stored.
func SetMaxEvents(db *sql.DB, n int) (int, error) {
	var stored int
	err := store.TransactHistory(db, func(tx *sql.Tx) error {
		var err error
		stored, err = store.NewPreferences(tx).SetMaxEvents(n)
		if err != nil {
			return fmt.Errorf("set max events: %w", err)
		}
		return store.SaveEventsTx(tx, nil, store.Retention{MaxEvents: stored})
	})
	if err != nil {
		return 0, err
	}
	return stored, nil
}
