package actions

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/mishap/internal/models"
	"github.com/dotcommander/mishap/internal/store"
)

func TestRecordError_PersistsAcrossOpens(t *testing.T) {
	db := setupTestDB(t)
	settings := testLogSettings()

	_, err := RecordError(db, settings, models.OrganizationInUse{Name: "Work", Count: 4}, "delete org", 0)
	require.NoError(t, err)
	_, err = RecordError(db, settings, models.Timeout{}, "sync", 2)
	require.NoError(t, err)

	events, err := ListHistory(db, settings, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.OrganizationInUse{Name: "Work", Count: 4}, events[0].Kind)
	assert.Equal(t, 2, events[1].RetryCount)
}

func TestRecordError_RespectsPersistedCapacity(t *testing.T) {
	db := setupTestDB(t)
	settings := testLogSettings()

	stored, err := SetMaxEvents(db, 3)
	require.NoError(t, err)
	assert.Equal(t, 10, stored, "capacity is clamped to the minimum")

	for i := 0; i < 12; i++ {
		_, err := RecordError(db, settings, models.Timeout{}, fmt.Sprintf("op-%d", i), 0)
		require.NoError(t, err)
	}

	events, err := ListHistory(db, settings, 0)
	require.NoError(t, err)
	require.Len(t, events, 10)
	assert.Equal(t, "op-2", events[0].Context)
}

func TestSetMaxEvents_TrimsHistory(t *testing.T) {
	db := setupTestDB(t)
	settings := testLogSettings()

	for i := 0; i < 30; i++ {
		_, err := RecordError(db, settings, models.FileNotFound{}, fmt.Sprintf("op-%d", i), 0)
		require.NoError(t, err)
	}

	stored, err := SetMaxEvents(db, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, stored)

	events, err := store.LoadEvents(db)
	require.NoError(t, err)
	require.Len(t, events, 20)
	assert.Equal(t, "op-10", events[0].Context)
}

func TestListHistory_Within(t *testing.T) {
	db := setupTestDB(t)
	settings := testLogSettings()

	old := models.NewErrorEvent(models.Timeout{}, "old", 0, time.Now().Add(-2*time.Hour))
	fresh := models.NewErrorEvent(models.Timeout{}, "fresh", 0, time.Now().Add(-time.Minute))
	require.NoError(t, store.SaveEvents(db, []models.ErrorEvent{old, fresh}, store.Retention{}))

	events, err := ListHistory(db, settings, time.Hour)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "fresh", events[0].Context)
}

func TestOpenLog_DropsStaleHistory(t *testing.T) {
	db := setupTestDB(t)
	settings := testLogSettings()

	stale := models.NewErrorEvent(models.Timeout{}, "stale", 0, time.Now().Add(-48*time.Hour))
	require.NoError(t, store.SaveEvents(db, []models.ErrorEvent{stale}, store.Retention{}))

	log, err := OpenLog(db, settings)
	require.NoError(t, err)
	assert.Equal(t, 0, log.Len())
}

func TestClearHistory(t *testing.T) {
	db := setupTestDB(t)
	settings := testLogSettings()

	_, err := RecordError(db, settings, models.Timeout{}, "", 0)
	require.NoError(t, err)
	require.NoError(t, ClearHistory(db))

	events, err := ListHistory(db, settings, 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestAnalyze(t *testing.T) {
	db := setupTestDB(t)
	settings := testLogSettings()

	for _, k := range []models.ErrorKind{models.CloudSyncFailed{}, models.CloudUnavailable{}, models.CloudQuotaExceeded{}} {
		_, err := RecordError(db, settings, k, "", 0)
		require.NoError(t, err)
	}

	summary, err := Analyze(db, settings)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, models.CategoryCloudSync, summary.MostCommonCategory)
	assert.Equal(t, []string{"rapid_consecutive_errors", "repeated_cloud_sync"}, summary.Patterns)
}

func TestSaveLog_KeepsEventsSavedByAnotherLog(t *testing.T) {
	db := setupTestDB(t)
	settings := testLogSettings()

	first, err := OpenLog(db, settings)
	require.NoError(t, err)
	second, err := OpenLog(db, settings)
	require.NoError(t, err)

	_, err = NewReporter(first).Report(models.Timeout{}, "first", 0)
	require.NoError(t, err)
	_, err = NewReporter(second).Report(models.NetworkUnavailable{}, "second", 0)
	require.NoError(t, err)

	require.NoError(t, SaveLog(db, first))
	require.NoError(t, SaveLog(db, second))

	events, err := store.LoadEvents(db)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.ElementsMatch(t, []string{"first", "second"}, []string{events[0].Context, events[1].Context})
}

func TestRecordError_ConcurrentProcessesLoseNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	settings := testLogSettings()

	// Separate handles stand in for separate mishap processes.
	handles := make([]*sql.DB, 2)
	for i := range handles {
		db, err := store.InitDBWithPath(path)
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		handles[i] = db
	}

	const perWriter = 10
	var wg sync.WaitGroup
	errs := make(chan error, len(handles)*perWriter)
	for w, db := range handles {
		wg.Add(1)
		go func(w int, db *sql.DB) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				if _, err := RecordError(db, settings, models.Timeout{}, fmt.Sprintf("w%d-%d", w, i), 0); err != nil {
					errs <- err
				}
			}
		}(w, db)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	events, err := store.LoadEvents(handles[0])
	require.NoError(t, err)
	require.Len(t, events, len(handles)*perWriter)

	rev, err := store.HistoryRevision(handles[1])
	require.NoError(t, err)
	assert.Equal(t, int64(len(handles)*perWriter), rev)
}
