package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dotcommander/mishap/internal/app"
)

// PrefMaxEventCount is the preference key holding the event log capacity.
const PrefMaxEventCount = "max_event_count"

// GetPreference reads a raw preference value.
func GetPreference(q Querier, key string) (string, error) {
	var value string
	err := RetryWithBackoff(func() error {
		return q.QueryRowContext(context.Background(),
			`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrPreferenceNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return value, nil
}

// SetPreference upserts a raw preference value. The upsert is a single
// statement, so it is atomic against q whether q is a *sql.DB or a *sql.Tx.
func SetPreference(q Querier, key, value string) error {
	err := RetryWithBackoff(func() error {
		_, err := q.ExecContext(context.Background(), `
			INSERT INTO preferences (key, value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
		`, key, value)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to write preference %s: %w", key, err)
	}
	return nil
}

// Preferences is the persisted settings store shared by every component
// in the process. It satisfies eventlog.CapacitySource.
type Preferences struct {
	q      Querier
	logger *slog.Logger
}

// NewPreferences returns Preferences read through q. Pass the history
// transaction when one is open: the pool holds a single connection, so
// reading through the *sql.DB would wait on the transaction itself.
func NewPreferences(q Querier) *Preferences {
	return &Preferences{q: q, logger: slog.Default()}
}

// MaxEvents reads the event log capacity. It never fails: missing,
// unreadable or corrupt values yield app.DefaultMaxEvents, and stored
// values are clamped to the allowed range.
func (p *Preferences) MaxEvents() int {
	n, err := p.LoadMaxEvents()
	if err != nil {
		if !errors.Is(err, ErrPreferenceNotFound) {
			p.logger.Warn("falling back to default event capacity", "error", err.Error())
		}
		return app.DefaultMaxEvents
	}
	return n
}

// LoadMaxEvents reads and clamps the stored capacity, surfacing errors.
func (p *Preferences) LoadMaxEvents() (int, error) {
	raw, err := GetPreference(p.q, PrefMaxEventCount)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &CorruptPreferenceError{Key: PrefMaxEventCount, Value: raw}
	}
	return app.ClampMaxEvents(n), nil
}

// SetMaxEvents clamps n and persists it, returning the stored value.
func (p *Preferences) SetMaxEvents(n int) (int, error) {
	clamped := app.ClampMaxEvents(n)
	if err := SetPreference(p.q, PrefMaxEventCount, strconv.Itoa(clamped)); err != nil {
		return 0, err
	}
	return clamped, nil
}
