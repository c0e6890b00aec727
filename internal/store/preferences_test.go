package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/mishap/internal/app"
)

func TestPreferences_MaxEventsDefaultsWhenUnset(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	prefs := NewPreferences(db)
	assert.Equal(t, app.DefaultMaxEvents, prefs.MaxEvents())

	_, err := prefs.LoadMaxEvents()
	require.ErrorIs(t, err, ErrPreferenceNotFound)
}

func TestPreferences_SetMaxEventsClampsOnWrite(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	prefs := NewPreferences(db)

	stored, err := prefs.SetMaxEvents(500)
	require.NoError(t, err)
	assert.Equal(t, app.MaxMaxEvents, stored)

	raw, err := GetPreference(db, PrefMaxEventCount)
	require.NoError(t, err)
	assert.Equal(t, "200", raw)

	stored, err = prefs.SetMaxEvents(3)
	require.NoError(t, err)
	assert.Equal(t, app.MinMaxEvents, stored)
	assert.Equal(t, app.MinMaxEvents, prefs.MaxEvents())

	stored, err = prefs.SetMaxEvents(75)
	require.NoError(t, err)
	assert.Equal(t, 75, stored)
	assert.Equal(t, 75, prefs.MaxEvents())
}

func TestPreferences_MaxEventsClampsOnRead(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	prefs := NewPreferences(db)

	// Written behind the clamp, e.g. by an older build.
	require.NoError(t, SetPreference(db, PrefMaxEventCount, "9000"))
	assert.Equal(t, app.MaxMaxEvents, prefs.MaxEvents())

	require.NoError(t, SetPreference(db, PrefMaxEventCount, "-4"))
	assert.Equal(t, app.DefaultMaxEvents, prefs.MaxEvents())
}

func TestPreferences_CorruptValueFallsBackToDefault(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	prefs := NewPreferences(db)
	require.NoError(t, SetPreference(db, PrefMaxEventCount, "fifty"))

	assert.Equal(t, app.DefaultMaxEvents, prefs.MaxEvents())

	_, err := prefs.LoadMaxEvents()
	require.ErrorIs(t, err, ErrCorruptPreference)

	var cpe *CorruptPreferenceError
	require.True(t, errors.As(err, &cpe))
	assert.Equal(t, "fifty", cpe.Context()["value"])
}

func TestPreferences_ReadsEveryAccess(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	a := NewPreferences(db)
	b := NewPreferences(db)

	_, err := a.SetMaxEvents(120)
	require.NoError(t, err)
	assert.Equal(t, 120, b.MaxEvents())

	_, err = b.SetMaxEvents(30)
	require.NoError(t, err)
	assert.Equal(t, 30, a.MaxEvents())
}
