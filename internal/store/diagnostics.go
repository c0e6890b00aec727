package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dotcommander/mishap/internal/models"
)

// Diagnostic represents a single consistency check finding.
type Diagnostic struct {
	Level           string `json:"level"` // "warning" or "error"
	Code            string `json:"code"`
	Message         string `json:"message"`
	SuggestedAction string `json:"suggested_action,omitempty"`
}

// RunDiagnostics performs consistency checks on the persisted history and
// returns findings.
func RunDiagnostics(db *sql.DB) ([]Diagnostic, error) {
	var diags []Diagnostic

	codes, err := findCodeDrift(db)
	if err != nil {
		return nil, fmt.Errorf("code drift check: %w", err)
	}
	diags = append(diags, codes...)

	over, err := findOverCapacity(db)
	if err != nil {
		return nil, fmt.Errorf("capacity check: %w", err)
	}
	diags = append(diags, over...)

	return diags, nil
}

// findCodeDrift finds rows whose code left the taxonomy or whose stored
// category no longer matches the code.
func findCodeDrift(db *sql.DB) ([]Diagnostic, error) {
	rows, err := db.QueryContext(context.Background(), `
		SELECT code, category, COUNT(*)
		FROM error_events
		GROUP BY code, category
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var diags []Diagnostic
	for rows.Next() {
		var (
			code     string
			category string
			n        int
		)
		if err := rows.Scan(&code, &category, &n); err != nil {
			return nil, err
		}
		c := models.Code(code)
		switch {
		case !c.IsKnown():
			diags = append(diags, Diagnostic{
				Level:           "warning",
				Code:            "UNKNOWN_ERROR_CODE",
				Message:         fmt.Sprintf("%d stored events use unknown code %s", n, code),
				SuggestedAction: "they load as unknown errors; mishap history clear removes them",
			})
		case string(c.Category()) != category:
			diags = append(diags, Diagnostic{
				Level:   "warning",
				Code:    "CATEGORY_MISMATCH",
				Message: fmt.Sprintf("%d stored %s events are filed under %s instead of %s", n, code, category, c.Category()),
			})
		}
	}
	return diags, rows.Err()
}

// findOverCapacity reports a history larger than the configured capacity.
func findOverCapacity(db *sql.DB) ([]Diagnostic, error) {
	n, err := CountEvents(db)
	if err != nil {
		return nil, err
	}
	limit := NewPreferences(db).MaxEvents()
	if n <= limit {
		return nil, nil
	}
	return []Diagnostic{{
		Level:           "warning",
		Code:            "OVER_CAPACITY",
		Message:         fmt.Sprintf("%d stored events exceed the capacity of %d", n, limit),
		SuggestedAction: "the next mishap record trims the oldest events",
	}}, nil
}
