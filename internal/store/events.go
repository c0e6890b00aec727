package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dotcommander/mishap/internal/models"
)

// Event payload size constraints enforced by validateEvent.
const (
	MaxEventContextLength = 4096
	MaxEventMessageLength = 4096
)

// occurredAtLayout is fixed width so occurred_at sorts chronologically as text.
const occurredAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Retention bounds the persisted history after a save.
type Retention struct {
	// MaxEvents keeps only the newest rows. Zero or negative keeps all.
	MaxEvents int
	// NotBefore drops rows that occurred earlier. The zero time keeps all.
	NotBefore time.Time
}

func validateEvent(e models.ErrorEvent) error {
	if strings.TrimSpace(e.ID) == "" {
		return &InvalidEventError{ID: "<empty>", Reason: "event id is required"}
	}
	if e.Timestamp.IsZero() {
		return &InvalidEventError{ID: e.ID, Reason: "timestamp is required"}
	}
	if e.RetryCount < 0 {
		return &InvalidEventError{ID: e.ID, Reason: "retry count must not be negative"}
	}
	if len(e.Context) > MaxEventContextLength {
		return &InvalidEventError{ID: e.ID, Reason: fmt.Sprintf("context exceeds max length (%d)", MaxEventContextLength)}
	}
	if len(e.Message()) > MaxEventMessageLength {
		return &InvalidEventError{ID: e.ID, Reason: fmt.Sprintf("message exceeds max length (%d)", MaxEventMessageLength)}
	}
	return nil
}

// SaveEvents merges events into the persisted history and applies keep.
func SaveEvents(db *sql.DB, events []models.ErrorEvent, keep Retention) error {
	return Transact(db, func(tx *sql.Tx) error {
		return SaveEventsTx(tx, events, keep)
	})
}

// SaveEventsTx inserts the events not yet persisted, then trims the table
// to keep. Rows written by other processes stay unless keep evicts them,
// so a save never discards history it did not load.
func SaveEventsTx(tx *sql.Tx, events []models.ErrorEvent, keep Retention) error {
	for _, e := range events {
		if err := validateEvent(e); err != nil {
			return err
		}
	}

	stmt, err := tx.PrepareContext(context.Background(), `
		INSERT INTO error_events (id, code, category, message, context, retry_count, payload, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare event insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range events {
		payload, err := json.Marshal(models.PayloadOf(e.Kind))
		if err != nil {
			return fmt.Errorf("failed to encode payload for event %s: %w", e.ID, err)
		}
		if _, err := stmt.ExecContext(context.Background(),
			e.ID,
			string(e.Code()),
			string(e.Category()),
			e.Message(),
			e.Context,
			e.RetryCount,
			string(payload),
			e.Timestamp.UTC().Format(occurredAtLayout),
		); err != nil {
			return fmt.Errorf("failed to insert event %s: %w", e.ID, err)
		}
	}

	return trimEventsTx(tx, keep)
}

func trimEventsTx(tx *sql.Tx, keep Retention) error {
	if !keep.NotBefore.IsZero() {
		if _, err := tx.ExecContext(context.Background(),
			`DELETE FROM error_events WHERE occurred_at < ?`,
			keep.NotBefore.UTC().Format(occurredAtLayout),
		); err != nil {
			return fmt.Errorf("failed to drop stale events: %w", err)
		}
	}
	if keep.MaxEvents > 0 {
		if _, err := tx.ExecContext(context.Background(), `
			DELETE FROM error_events
			WHERE seq NOT IN (
				SELECT seq FROM error_events
				ORDER BY occurred_at DESC, seq DESC
				LIMIT ?
			)
		`, keep.MaxEvents); err != nil {
			return fmt.Errorf("failed to trim events: %w", err)
		}
	}
	return nil
}

// LoadEvents returns persisted events oldest first. Rows whose kind cannot
// be rebuilt are restored as Unknown carrying the stored message.
func LoadEvents(q Querier) ([]models.ErrorEvent, error) {
	var out []models.ErrorEvent
	err := RetryWithBackoff(func() error {
		rows, err := q.QueryContext(context.Background(), `
			SELECT id, code, message, context, retry_count, payload, occurred_at
			FROM error_events
			ORDER BY occurred_at ASC, seq ASC
		`)
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}
		defer func() { _ = rows.Close() }()

		out = make([]models.ErrorEvent, 0)
		for rows.Next() {
			var (
				e          models.ErrorEvent
				code       string
				message    string
				payload    sql.NullString
				occurredAt string
			)
			if err := rows.Scan(&e.ID, &code, &message, &e.Context, &e.RetryCount, &payload, &occurredAt); err != nil {
				return fmt.Errorf("failed to scan event: %w", err)
			}
			ts, err := time.Parse(time.RFC3339Nano, occurredAt)
			if err != nil {
				return &InvalidEventError{ID: e.ID, Reason: "unparseable timestamp " + occurredAt}
			}
			e.Timestamp = ts
			e.Kind = rebuildKind(code, message, payload)
			out = append(out, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CountEvents returns the number of persisted events.
func CountEvents(q Querier) (int, error) {
	var n int
	if err := q.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM error_events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}

// ClearEvents deletes all persisted events.
func ClearEvents(db *sql.DB) error {
	return TransactHistory(db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(context.Background(), `DELETE FROM error_events`)
		return err
	})
}

func rebuildKind(code, message string, payload sql.NullString) models.ErrorKind {
	var p models.KindPayload
	if payload.Valid && payload.String != "" {
		if err := json.Unmarshal([]byte(payload.String), &p); err != nil {
			return models.Unknown{Detail: message}
		}
	}
	k, err := models.ParseKind(code, p)
	if err != nil {
		return models.Unknown{Detail: message}
	}
	return k
}
