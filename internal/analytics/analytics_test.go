package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/mishap/internal/eventlog"
	"github.com/dotcommander/mishap/internal/models"
)

type staticEvents []models.ErrorEvent

func (s staticEvents) Snapshot() []models.ErrorEvent { return append([]models.ErrorEvent(nil), s...) }

var t0 = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func at(kind models.ErrorKind, offset time.Duration) models.ErrorEvent {
	return models.NewErrorEvent(kind, "", 0, t0.Add(offset))
}

func TestDetectPatterns_RepeatedAndRapid(t *testing.T) {
	events := staticEvents{
		at(models.NetworkUnavailable{}, 0),
		at(models.Timeout{}, 4*time.Second),
		at(models.ServerError{Status: 502, Message: "bad gateway"}, 9*time.Second),
	}

	got := New(events).DetectPatterns()
	assert.Equal(t, []string{"rapid_consecutive_errors", "repeated_network"}, got)
}

func TestDetectPatterns_SpreadOutSameCategory(t *testing.T) {
	events := staticEvents{
		at(models.DatabaseSaveFailed{}, 0),
		at(models.DatabaseLoadFailed{}, 5*time.Minute),
		at(models.DatabaseSaveFailed{}, 10*time.Minute),
	}
	assert.Equal(t, []string{"repeated_database"}, New(events).DetectPatterns())
}

func TestDetectPatterns_RapidMixedCategories(t *testing.T) {
	events := staticEvents{
		at(models.FileNotFound{}, 0),
		at(models.InvalidDateRange{}, time.Second),
		at(models.Timeout{}, 2*time.Second),
	}
	assert.Equal(t, []string{"rapid_consecutive_errors"}, New(events).DetectPatterns())
}

func TestDetectPatterns_TooFewEvents(t *testing.T) {
	assert.Empty(t, New(staticEvents{}).DetectPatterns())
	assert.Empty(t, New(staticEvents{at(models.Timeout{}, 0), at(models.Timeout{}, time.Second)}).DetectPatterns())
}

func TestDetectPatterns_OnlyLastNConsidered(t *testing.T) {
	var events staticEvents
	for i := 0; i < 3; i++ {
		events = append(events, at(models.Timeout{}, time.Duration(i)*time.Second))
	}
	for i := 0; i < 10; i++ {
		kinds := []models.ErrorKind{models.FileNotFound{}, models.InvalidDateRange{}}
		events = append(events, at(kinds[i%2], time.Hour+time.Duration(i)*time.Hour))
	}

	assert.Empty(t, New(events).DetectPatterns())
}

func TestDetectPatterns_WindowOption(t *testing.T) {
	events := staticEvents{
		at(models.Timeout{}, 0),
		at(models.FileNotFound{}, 90*time.Second),
		at(models.InvalidDateRange{}, 100*time.Second),
	}
	assert.Empty(t, New(events).DetectPatterns())
	assert.Equal(t, []string{"rapid_consecutive_errors"}, New(events, WithWindow(2*time.Minute)).DetectPatterns())
}

func TestDetectPatterns_WindowBoundaryIsExclusive(t *testing.T) {
	exact := staticEvents{
		at(models.Timeout{}, 0),
		at(models.FileNotFound{}, 30*time.Second),
		at(models.InvalidDateRange{}, DefaultWindow),
	}
	assert.Empty(t, New(exact).DetectPatterns(), "a span equal to the window is not rapid")

	inside := staticEvents{
		at(models.Timeout{}, time.Millisecond),
		at(models.FileNotFound{}, 30*time.Second),
		at(models.InvalidDateRange{}, DefaultWindow),
	}
	assert.Equal(t, []string{PatternRapidConsecutive}, New(inside).DetectPatterns())
}

func TestMostCommonCategory(t *testing.T) {
	_, ok := New(staticEvents{}).MostCommonCategory()
	assert.False(t, ok)

	events := staticEvents{
		at(models.Timeout{}, 0),
		at(models.FileNotFound{}, time.Second),
		at(models.FileCorrupted{}, 2*time.Second),
		at(models.NetworkUnavailable{}, 3*time.Second),
	}
	cat, ok := New(events).MostCommonCategory()
	require.True(t, ok)
	assert.Equal(t, models.CategoryNetwork, cat, "ties go to the category seen first")

	events = append(events, at(models.FileNotFound{}, 4*time.Second))
	cat, _ = New(events).MostCommonCategory()
	assert.Equal(t, models.CategoryFileSystem, cat)
}

func TestMostCommonCategory_LastNWindow(t *testing.T) {
	var events staticEvents
	for i := 0; i < 8; i++ {
		events = append(events, at(models.Timeout{}, time.Duration(i)*time.Second))
	}
	for i := 0; i < 4; i++ {
		events = append(events, at(models.CloudSyncFailed{}, time.Minute+time.Duration(i)*time.Second))
	}

	cat, _ := New(events).MostCommonCategory()
	assert.Equal(t, models.CategoryNetwork, cat)

	cat, _ = New(events, WithLastN(4)).MostCommonCategory()
	assert.Equal(t, models.CategoryCloudSync, cat)
}

func TestSummarize(t *testing.T) {
	log := eventlog.New(eventlog.WithClock(func() time.Time { return t0 }))
	log.Record(at(models.Timeout{}, -2*time.Second))
	log.Record(at(models.Timeout{}, -time.Second))
	log.Record(at(models.DuplicateEntry{Item: "Lisbon"}, 0))

	s := New(log).Summarize()
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, map[models.Category]int{models.CategoryNetwork: 2, models.CategoryValidation: 1}, s.ByCategory)
	assert.Equal(t, map[models.Code]int{models.CodeTimeout: 2, models.CodeDuplicateEntry: 1}, s.ByCode)
	assert.Equal(t, models.CategoryNetwork, s.MostCommonCategory)
	assert.Equal(t, []string{"rapid_consecutive_errors"}, s.Patterns)
	require.NotNil(t, s.Oldest)
	assert.Equal(t, t0.Add(-2*time.Second), *s.Oldest)
	assert.Equal(t, t0, *s.Newest)

	empty := New(eventlog.New()).Summarize()
	assert.Zero(t, empty.Total)
	assert.Nil(t, empty.Oldest)
	assert.Empty(t, empty.Patterns)
}
