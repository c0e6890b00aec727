// Package eventlog holds the bounded, in-memory history of error events.
//
// A Log is explicitly constructed and owned by its caller. All reads and
// mutations are serialised by one mutex, so readers observe the log either
// before or after any given Record, never in between.
package eventlog

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dotcommander/mishap/internal/app"
	"github.com/dotcommander/mishap/internal/models"
)

const (
	DefaultMaxAge        = 24 * time.Hour
	DefaultSweepInterval = 5 * time.Minute
)

// CapacitySource supplies the maximum number of retained events. It is
// consulted on every Record so that preference changes apply immediately.
type CapacitySource interface {
	MaxEvents() int
}

// StaticCapacity is a fixed CapacitySource.
type StaticCapacity int

func (c StaticCapacity) MaxEvents() int { return int(c) }

// Option configures a Log.
type Option func(*Log)

// WithCapacity sets the capacity source. Defaults to app.DefaultMaxEvents.
func WithCapacity(src CapacitySource) Option {
	return func(l *Log) {
		if src != nil {
			l.capacity = src
		}
	}
}

// WithMaxAge sets how old an event may get before a sweep drops it.
func WithMaxAge(d time.Duration) Option {
	return func(l *Log) {
		if d > 0 {
			l.maxAge = d
		}
	}
}

// WithSweepInterval sets the minimum time between staleness sweeps.
func WithSweepInterval(d time.Duration) Option {
	return func(l *Log) {
		if d >= 0 {
			l.sweepInterval = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger sets the logger used for eviction diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Log) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Log is a bounded FIFO of error events, oldest first.
type Log struct {
	mu            sync.Mutex
	events        []models.ErrorEvent
	lastSweep     time.Time
	capacity      CapacitySource
	maxAge        time.Duration
	sweepInterval time.Duration
	now           func() time.Time
	logger        *slog.Logger

	subs   map[int]chan models.ErrorEvent
	nextID int
}

// New returns an empty log.
func New(opts ...Option) *Log {
	l := &Log{
		capacity:      StaticCapacity(app.DefaultMaxEvents),
		maxAge:        DefaultMaxAge,
		sweepInterval: DefaultSweepInterval,
		now:           time.Now,
		logger:        slog.Default(),
		subs:          make(map[int]chan models.ErrorEvent),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Log) maxEvents() int {
	return app.ClampMaxEvents(l.capacity.MaxEvents())
}

// Record appends ev, evicts the oldest events beyond capacity and, at most
// once per sweep interval, drops events older than the max age. A zero
// timestamp is set from the clock. The stored event is returned.
func (l *Log) Record(ev models.ErrorEvent) models.ErrorEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if ev.Timestamp.IsZero() {
		ev.Timestamp = now
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Kind == nil {
		ev.Kind = models.Unknown{}
	}
	if ev.RetryCount < 0 {
		ev.RetryCount = 0
	}

	l.events = append(l.events, ev)

	overflow := 0
	if limit := l.maxEvents(); len(l.events) > limit {
		overflow = len(l.events) - limit
		l.events = append([]models.ErrorEvent(nil), l.events[overflow:]...)
		l.logger.Debug("evicted oldest error events", "count", overflow, "capacity", limit)
	}

	stale := 0
	if l.lastSweep.IsZero() || now.Sub(l.lastSweep) >= l.sweepInterval {
		stale = l.sweepLocked(now)
		l.lastSweep = now
	}

	recordMetrics(ev, overflow, stale, len(l.events))
	l.publishLocked(ev)
	return ev
}

// sweepLocked drops events older than maxAge and returns how many it dropped.
func (l *Log) sweepLocked(now time.Time) int {
	cutoff := now.Add(-l.maxAge)
	kept := l.events[:0]
	for _, ev := range l.events {
		if ev.Timestamp.Before(cutoff) {
			continue
		}
		kept = append(kept, ev)
	}
	dropped := len(l.events) - len(kept)
	for i := len(kept); i < len(l.events); i++ {
		l.events[i] = models.ErrorEvent{}
	}
	l.events = kept
	if dropped > 0 {
		l.logger.Debug("swept stale error events", "count", dropped, "max_age", l.maxAge.String())
	}
	return dropped
}

// Restore replaces the contents with events (oldest first), dropping stale
// entries and keeping only the newest events that fit the capacity.
// Subscribers are not notified.
func (l *Log) Restore(events []models.ErrorEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append([]models.ErrorEvent(nil), events...)
	now := l.now()
	stale := l.sweepLocked(now)
	l.lastSweep = now

	overflow := 0
	if limit := l.maxEvents(); len(l.events) > limit {
		overflow = len(l.events) - limit
		l.events = append([]models.ErrorEvent(nil), l.events[overflow:]...)
	}
	if stale > 0 {
		evictions.WithLabelValues(EvictStale).Add(float64(stale))
	}
	if overflow > 0 {
		evictions.WithLabelValues(EvictCapacity).Add(float64(overflow))
	}
	logSize.Set(float64(len(l.events)))
}

// Snapshot returns a copy of the events, oldest first. The copy is not
// affected by later mutations of the log.
func (l *Log) Snapshot() []models.ErrorEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.ErrorEvent(nil), l.events...)
}

// Recent returns the events recorded within the last d, oldest first.
func (l *Log) Recent(d time.Duration) []models.ErrorEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-d)
	var out []models.ErrorEvent
	for _, ev := range l.events {
		if !ev.Timestamp.Before(cutoff) {
			out = append(out, ev)
		}
	}
	return out
}

// Clear removes every event and resets the sweep timer.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
	l.lastSweep = time.Time{}
	logSize.Set(0)
}

// Len returns the number of retained events.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Capacity returns the clamped capacity currently in force.
func (l *Log) Capacity() int { return l.maxEvents() }

// StaleBefore returns the instant before which a sweep drops events.
func (l *Log) StaleBefore() time.Time { return l.now().Add(-l.maxAge) }

// Subscribe returns a channel receiving every subsequently recorded event.
// Delivery is non-blocking: when the buffer is full the event is dropped
// for that subscriber. The returned func unsubscribes and closes the
// channel; calling it more than once is safe.
func (l *Log) Subscribe(buffer int) (<-chan models.ErrorEvent, func()) {
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan models.ErrorEvent, buffer)

	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = ch
	l.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, id)
			l.mu.Unlock()
			close(ch)
		})
	}
}

func (l *Log) publishLocked(ev models.ErrorEvent) {
	for _, ch := range l.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
