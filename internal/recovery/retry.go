package recovery

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dotcommander/mishap/internal/classify"
	"github.com/dotcommander/mishap/internal/models"
)

// Recorder receives one event per failed attempt. *eventlog.Log satisfies it.
type Recorder interface {
	Record(ev models.ErrorEvent) models.ErrorEvent
}

type retryConfig struct {
	recorder Recorder
	context  string
	now      func() time.Time
}

// RetryOption configures Retry.
type RetryOption func(*retryConfig)

// WithRecorder records every failed attempt into r.
func WithRecorder(r Recorder) RetryOption {
	return func(c *retryConfig) { c.recorder = r }
}

// WithEventContext sets the context text attached to recorded events.
func WithEventContext(text string) RetryOption {
	return func(c *retryConfig) { c.context = text }
}

// Retry runs op until it succeeds, its failure is no longer eligible for
// automatic retry, or ctx is done. Each failure is classified with
// classify.FromError and delayed according to the plan for that kind.
//
// The returned error carries the kind of the last failure, or
// OperationCancelled/Timeout when ctx ends the loop.
func (p *Planner) Retry(ctx context.Context, op func(context.Context) error, opts ...RetryOption) error {
	cfg := retryConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	sched := &planBackOff{planner: p}

	err := backoff.Retry(func() error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		kind := classify.FromError(err)
		sched.kind = kind

		if cfg.recorder != nil {
			cfg.recorder.Record(models.NewErrorEvent(kind, cfg.context, sched.attempt, cfg.now()))
		}
		if !p.Plan(kind, sched.attempt).AutoRetryEligible {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(sched, ctx))
	if err == nil {
		return nil
	}
	return models.NewError(cfg.context, classify.FromError(err), err)
}
