package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	expansionRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "care_service",
		Subsystem: "schedule",
		Name:      "expansion_runs_total",
		Help:      "Number of schedule expansion passes executed.",
	})
	expansionStaged = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "care_service",
		Subsystem: "schedule",
		Name:      "instances_staged_total",
		Help:      "Number of daily task instances staged for insert by the expander.",
	})
	expansionInserted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "care_service",
		Subsystem: "schedule",
		Name:      "instances_inserted_total",
		Help:      "Number of daily task instances actually inserted (conflicts excluded).",
	})
	expansionDeferred = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "care_service",
		Subsystem: "schedule",
		Name:      "expansion_deferred_total",
		Help:      "Number of expansion passes whose inserts were deferred to the next trigger.",
	})
	instancePersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "care_service",
		Subsystem: "persistence",
		Name:      "last_instance_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent instance batch persisted to Postgres.",
	})
)

func init() {
	prometheus.MustRegister(expansionRuns, expansionStaged, expansionInserted, expansionDeferred, instancePersistGauge)
}

// RecordExpansion updates the expansion counters after one ensure pass.
func RecordExpansion(staged, inserted int, deferred bool) {
	expansionRuns.Inc()
	expansionStaged.Add(float64(staged))
	expansionInserted.Add(float64(inserted))
	if deferred {
		expansionDeferred.Inc()
	}
}

// RecordInstancesPersisted updates the persistence watermark gauge.
func RecordInstancesPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	instancePersistGauge.Set(float64(ts.Unix()))
}
