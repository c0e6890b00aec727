package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRecoverableError_Is verifies each struct type matches its own sentinel
// via errors.Is and does not cross-match other sentinels.
func TestRecoverableError_Is(t *testing.T) {
	corrupt := &CorruptPreferenceError{Key: PrefMaxEventCount, Value: "lots"}
	invalid := &InvalidEventError{ID: "e1", Reason: "timestamp is required"}

	assert.ErrorIs(t, corrupt, ErrCorruptPreference)
	assert.ErrorIs(t, invalid, ErrInvalidEvent)

	assert.False(t, errors.Is(corrupt, ErrInvalidEvent))
	assert.False(t, errors.Is(invalid, ErrCorruptPreference))
	assert.False(t, errors.Is(corrupt, ErrPreferenceNotFound))
}

func TestRecoverableError_Fields(t *testing.T) {
	tests := []struct {
		name    string
		err     RecoverableError
		code    string
		ctxKey  string
		ctxWant string
	}{
		{
			name:    "CorruptPreferenceError",
			err:     &CorruptPreferenceError{Key: PrefMaxEventCount, Value: "lots"},
			code:    "CORRUPT_PREFERENCE",
			ctxKey:  "value",
			ctxWant: "lots",
		},
		{
			name:    "InvalidEventError",
			err:     &InvalidEventError{ID: "e1", Reason: "timestamp is required"},
			code:    "INVALID_EVENT",
			ctxKey:  "id",
			ctxWant: "e1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, tc.err.ErrorCode())
			assert.Equal(t, tc.ctxWant, tc.err.Context()[tc.ctxKey])
			assert.NotEmpty(t, tc.err.SuggestedAction())
			assert.NotEmpty(t, tc.err.Error())
		})
	}
}

// TestRecoverableError_WrappedIs verifies errors.Is and errors.As work
// through fmt.Errorf %w wrapping chains.
func TestRecoverableError_WrappedIs(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", fmt.Errorf("load: %w", &CorruptPreferenceError{Key: "k", Value: "v"}))
	assert.ErrorIs(t, wrapped, ErrCorruptPreference)

	var re RecoverableError
	require.ErrorAs(t, wrapped, &re)
	assert.Equal(t, "CORRUPT_PREFERENCE", re.ErrorCode())
}
