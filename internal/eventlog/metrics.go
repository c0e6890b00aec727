package eventlog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dotcommander/mishap/internal/models"
)

// Eviction reasons.
const (
	EvictCapacity = "capacity"
	EvictStale    = "stale"
)

var (
	errorsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mishap_errors_recorded_total",
			Help: "Total error events recorded by category and code",
		},
		[]string{"category", "code"},
	)

	evictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mishap_eventlog_evictions_total",
			Help: "Total events evicted from the log by reason",
		},
		[]string{"reason"},
	)

	logSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mishap_eventlog_size",
		Help: "Number of events currently held in the log",
	})
)

// recordMetrics records one appended event and any evictions it caused.
func recordMetrics(ev models.ErrorEvent, overflow, stale, size int) {
	errorsRecorded.WithLabelValues(string(ev.Category()), string(ev.Code())).Inc()
	if overflow > 0 {
		evictions.WithLabelValues(EvictCapacity).Add(float64(overflow))
	}
	if stale > 0 {
		evictions.WithLabelValues(EvictStale).Add(float64(stale))
	}
	logSize.Set(float64(size))
}
