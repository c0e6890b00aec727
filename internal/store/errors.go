package store

import (
	"errors"
	"fmt"

	"github.com/dotcommander/mishap/internal/models"
)

// RecoverableError is an alias for models.RecoverableError, retained so
// callers can reference store.RecoverableError.
type RecoverableError = models.RecoverableError

// ErrPreferenceNotFound is returned when a preference key has never been set.
var ErrPreferenceNotFound = errors.New("preference not found")

// ErrCorruptPreference is the sentinel matched by CorruptPreferenceError.
var ErrCorruptPreference = errors.New("preference value is corrupt")

// CorruptPreferenceError reports a stored preference that cannot be parsed.
type CorruptPreferenceError struct {
	Key   string
	Value string
}

func (e *CorruptPreferenceError) Error() string {
	return fmt.Sprintf("preference %s has corrupt value %q", e.Key, e.Value)
}
func (e *CorruptPreferenceError) ErrorCode() string { return "CORRUPT_PREFERENCE" }
func (e *CorruptPreferenceError) Context() map[string]string {
	return map[string]string{
		"key":   e.Key,
		"value": e.Value,
	}
}
func (e *CorruptPreferenceError) SuggestedAction() string {
	return "mishap config set max-events <n>"
}
func (e *CorruptPreferenceError) Is(target error) bool { return target == ErrCorruptPreference }

// ErrInvalidEvent is the sentinel matched by InvalidEventError.
var ErrInvalidEvent = errors.New("invalid event")

// InvalidEventError reports an event that cannot be persisted.
type InvalidEventError struct {
	ID     string
	Reason string
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("invalid event %s: %s", e.ID, e.Reason)
}
func (e *InvalidEventError) ErrorCode() string { return "INVALID_EVENT" }
func (e *InvalidEventError) Context() map[string]string {
	return map[string]string{"id": e.ID}
}
func (e *InvalidEventError) SuggestedAction() string {
	return "mishap history clear"
}
func (e *InvalidEventError) Is(target error) bool { return target == ErrInvalidEvent }
