package store

import (
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Store-level busy handling. These bounds are independent of the recovery
// planner's policies, which govern user-facing operations.
const (
	busyInitialInterval = 50 * time.Millisecond
	busyMaxInterval     = 2 * time.Second
	busyMaxElapsed      = 10 * time.Second
)

// RetryWithBackoff runs operation, retrying while SQLite reports the
// database as busy. Any other error stops immediately.
func RetryWithBackoff(operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = busyInitialInterval
	b.MaxInterval = busyMaxInterval
	b.MaxElapsedTime = busyMaxElapsed
	b.RandomizationFactor = 0.1

	return backoff.RetryNotify(func() error {
		err := operation()
		if err == nil {
			return nil
		}
		if isRetryableError(err) {
			return err
		}
		return backoff.Permanent(err)
	}, b, func(err error, wait time.Duration) {
		slog.Debug("sqlite busy, retrying", "error", err.Error(), "wait_ms", wait.Milliseconds())
	})
}

// isRetryableError matches on modernc.org/sqlite error text. Update the
// matchers if its message format changes.
func isRetryableError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY")
}
