package actions

import (
	"fmt"
	"time"

	"github.com/dotcommander/mishap/internal/classify"
	"github.com/dotcommander/mishap/internal/eventlog"
	"github.com/dotcommander/mishap/internal/models"
	"github.com/dotcommander/mishap/internal/recovery"
	"github.com/dotcommander/mishap/internal/store"
)

// Outcome is everything a caller needs to surface one reported error.
type Outcome struct {
	Event         models.ErrorEvent       `json:"event"`
	Presentation  models.PresentationSpec `json:"presentation"`
	Accessibility models.Accessibility    `json:"accessibility"`
	Plan          models.RecoveryPlan     `json:"plan"`
}

// Reporter records errors into a log and derives how to present and
// recover from them.
type Reporter struct {
	Log     *eventlog.Log
	Planner *recovery.Planner
	Now     func() time.Time
}

// NewReporter returns a reporter over log using the effective retry policies.
func NewReporter(log *eventlog.Log) *Reporter {
	return &Reporter{Log: log, Planner: recovery.DefaultPlanner(), Now: time.Now}
}

// Report validates kind, records it with context and retryCount, and
// returns the derived outcome. Only invalid input fails.
func (r *Reporter) Report(kind models.ErrorKind, context string, retryCount int) (Outcome, error) {
	if err := models.ValidateKind(kind); err != nil {
		return Outcome{}, err
	}
	if len(context) > store.MaxEventContextLength {
		return Outcome{}, fmt.Errorf("context exceeds max length (%d)", store.MaxEventContextLength)
	}
	if retryCount < 0 {
		return Outcome{}, fmt.Errorf("retry count must not be negative")
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	planner := r.Planner
	if planner == nil {
		planner = recovery.NewPlanner(nil)
	}

	ev := models.NewErrorEvent(kind, context, retryCount, now())
	if r.Log != nil {
		ev = r.Log.Record(ev)
	}

	return Outcome{
		Event:         ev,
		Presentation:  classify.Present(kind),
		Accessibility: classify.Describe(kind),
		Plan:          planner.Plan(kind, retryCount),
	}, nil
}

// ReportError classifies err and reports the resulting kind.
func (r *Reporter) ReportError(err error, context string, retryCount int) (Outcome, error) {
	if err == nil {
		return Outcome{}, fmt.Errorf("error is required")
	}
	return r.Report(classify.FromError(err), context, retryCount)
}

// Preview derives the outcome of kind without recording it.
func Preview(planner *recovery.Planner, kind models.ErrorKind, retryCount int) (Outcome, error) {
	if err := models.ValidateKind(kind); err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Event:         models.NewErrorEvent(kind, "", retryCount, time.Now()),
		Presentation:  classify.Present(kind),
		Accessibility: classify.Describe(kind),
		Plan:          planner.Plan(kind, retryCount),
	}, nil
}
