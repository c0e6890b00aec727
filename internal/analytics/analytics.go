// Package analytics derives aggregate views over a snapshot of the error
// event log. It keeps no state of its own.
package analytics

import (
	"sort"
	"time"

	"github.com/dotcommander/mishap/internal/models"
)

const (
	DefaultWindow = 60 * time.Second
	DefaultLastN  = 10

	// patternThreshold is the minimum number of events forming a pattern.
	patternThreshold = 3
)

// Pattern tags.
const (
	PatternRapidConsecutive = "rapid_consecutive_errors"
	repeatedPrefix          = "repeated_"
)

// RepeatedPattern returns the tag for consecutive errors of category c.
func RepeatedPattern(c models.Category) string { return repeatedPrefix + string(c) }

// Snapshotter supplies the events to analyze, oldest first.
type Snapshotter interface {
	Snapshot() []models.ErrorEvent
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithWindow sets the time window for rapid error detection.
func WithWindow(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.window = d
		}
	}
}

// WithLastN sets how many recent events the analysis considers.
func WithLastN(n int) Option {
	return func(a *Aggregator) {
		if n >= patternThreshold {
			a.lastN = n
		}
	}
}

// Aggregator computes category and pattern statistics over the events its
// Snapshotter returns. Every call takes a fresh snapshot.
type Aggregator struct {
	src    Snapshotter
	window time.Duration
	lastN  int
}

// New returns an Aggregator over src using DefaultWindow and DefaultLastN
// unless opts override them.
func New(src Snapshotter, opts ...Option) *Aggregator {
	a := &Aggregator{src: src, window: DefaultWindow, lastN: DefaultLastN}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aggregator) recent() []models.ErrorEvent {
	events := a.src.Snapshot()
	if len(events) > a.lastN {
		events = events[len(events)-a.lastN:]
	}
	return events
}

// MostCommonCategory returns the most frequent category among the most
// recent events. Ties go to the category seen first, oldest to newest.
// The bool is false when the log is empty.
func (a *Aggregator) MostCommonCategory() (models.Category, bool) {
	return mostCommon(a.recent())
}

func mostCommon(events []models.ErrorEvent) (models.Category, bool) {
	if len(events) == 0 {
		return "", false
	}
	counts := make(map[models.Category]int)
	var order []models.Category
	for _, ev := range events {
		c := ev.Category()
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}

	best := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best, true
}

// DetectPatterns returns the sorted pattern tags present in the most
// recent events.
func (a *Aggregator) DetectPatterns() []string {
	return detect(a.recent(), a.window)
}

func detect(events []models.ErrorEvent, window time.Duration) []string {
	patterns := []string{}
	if len(events) < patternThreshold {
		return patterns
	}

	// Events count as rapid when they span strictly less than the window.
	newest := events[len(events)-1].Timestamp
	inWindow := 0
	for _, ev := range events {
		if newest.Sub(ev.Timestamp) < window {
			inWindow++
		}
	}
	if inWindow >= patternThreshold {
		patterns = append(patterns, PatternRapidConsecutive)
	}

	tail := events[len(events)-patternThreshold:]
	cat := tail[0].Category()
	same := true
	for _, ev := range tail[1:] {
		if ev.Category() != cat {
			same = false
			break
		}
	}
	if same {
		patterns = append(patterns, RepeatedPattern(cat))
	}

	sort.Strings(patterns)
	return patterns
}

// Summary is the diagnostics view of the whole log.
type Summary struct {
	Total              int                     `json:"total"`
	ByCategory         map[models.Category]int `json:"by_category"`
	ByCode             map[models.Code]int     `json:"by_code"`
	MostCommonCategory models.Category         `json:"most_common_category,omitempty"`
	Patterns           []string                `json:"patterns"`
	Oldest             *time.Time              `json:"oldest,omitempty"`
	Newest             *time.Time              `json:"newest,omitempty"`
}

// Summarize counts the whole snapshot and runs the recent-event analyses
// over the same snapshot.
func (a *Aggregator) Summarize() Summary {
	events := a.src.Snapshot()
	s := Summary{
		Total:      len(events),
		ByCategory: make(map[models.Category]int),
		ByCode:     make(map[models.Code]int),
	}
	for _, ev := range events {
		s.ByCategory[ev.Category()]++
		s.ByCode[ev.Code()]++
	}

	recent := events
	if len(recent) > a.lastN {
		recent = recent[len(recent)-a.lastN:]
	}
	if c, ok := mostCommon(recent); ok {
		s.MostCommonCategory = c
	}
	s.Patterns = detect(recent, a.window)

	if len(events) > 0 {
		oldest, newest := events[0].Timestamp, events[len(events)-1].Timestamp
		s.Oldest, s.Newest = &oldest, &newest
	}
	return s
}
