package actions

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/mishap/internal/eventlog"
	"github.com/dotcommander/mishap/internal/models"
	"github.com/dotcommander/mishap/internal/recovery"
)

func newTestReporter() (*Reporter, *eventlog.Log) {
	now := time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	log := eventlog.New(eventlog.WithClock(clock))
	return &Reporter{Log: log, Planner: recovery.NewPlanner(nil), Now: clock}, log
}

func TestReport_RecordsAndDerives(t *testing.T) {
	r, log := newTestReporter()

	out, err := r.Report(models.NetworkUnavailable{}, "sync trips", 0)
	require.NoError(t, err)

	assert.Equal(t, 1, log.Len())
	assert.Equal(t, out.Event.ID, log.Snapshot()[0].ID)
	assert.Equal(t, "sync trips", out.Event.Context)
	assert.Equal(t, models.TierBanner, out.Presentation.Tier)
	assert.Equal(t, "Error: Connection Problem. "+models.Message(models.NetworkUnavailable{}), out.Accessibility.Label)
	assert.True(t, out.Plan.AutoRetryEligible)
	assert.Equal(t, models.ActionRetry, out.Plan.PrimaryAction)
}

func TestReport_CorruptionIsTerminal(t *testing.T) {
	r, _ := newTestReporter()

	out, err := r.Report(models.DatabaseCorrupted{}, "open store", 0)
	require.NoError(t, err)
	assert.False(t, out.Plan.AutoRetryEligible)
	assert.Equal(t, models.ActionContactSupport, out.Plan.PrimaryAction)
	assert.True(t, out.Presentation.BlocksInteraction)
}

func TestReport_RejectsInvalidInput(t *testing.T) {
	r, log := newTestReporter()

	_, err := r.Report(models.InvalidInput{}, "", 0)
	var kindErr *models.InvalidKindError
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, "field", kindErr.Field)

	_, err = r.Report(nil, "", 0)
	require.Error(t, err)

	_, err = r.Report(models.Timeout{}, strings.Repeat("x", 5000), 0)
	require.Error(t, err)

	_, err = r.Report(models.Timeout{}, "", -1)
	require.Error(t, err)

	assert.Equal(t, 0, log.Len(), "rejected reports are not recorded")
}

func TestReportError(t *testing.T) {
	r, log := newTestReporter()

	out, err := r.ReportError(context.DeadlineExceeded, "fetch rates", 1)
	require.NoError(t, err)
	assert.Equal(t, models.Timeout{}, out.Event.Kind)
	assert.Equal(t, 1, out.Event.RetryCount)

	out, err = r.ReportError(errors.New("disk on fire"), "", 0)
	require.NoError(t, err)
	assert.Equal(t, models.Unknown{Detail: "disk on fire"}, out.Event.Kind)
	assert.Equal(t, "disk on fire", out.Event.Message())

	_, err = r.ReportError(nil, "", 0)
	require.Error(t, err)
	assert.Equal(t, 2, log.Len())
}

func TestPreview_DoesNotRecord(t *testing.T) {
	out, err := Preview(recovery.NewPlanner(nil), models.InvalidDateRange{}, 0)
	require.NoError(t, err)
	assert.Equal(t, models.TierInline, out.Presentation.Tier)
	assert.Equal(t, []string{"Fix Input", "Cancel"}, out.Presentation.Actions)
	assert.False(t, out.Presentation.BlocksInteraction)
}
