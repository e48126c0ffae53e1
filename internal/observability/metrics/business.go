package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion metrics track batch import runs and per-row outcomes.
var (
	// ImportRunsTotal counts ingestion runs by content kind and terminal state
	ImportRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_runs_total",
			Help: "Total number of ingestion runs by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// ImportRunDuration measures end-to-end ingestion run duration in seconds
	ImportRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "import_run_duration_seconds",
			Help:    "Ingestion run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"kind"},
	)

	// ImportRowsTotal counts input rows by kind and outcome
	// (processed, skipped, failed, invalid)
	ImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_rows_total",
			Help: "Total number of ingested rows by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// MediaFetchTotal counts media acquisition attempts by result
	MediaFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_fetch_total",
			Help: "Total number of media acquisition attempts by result",
		},
		[]string{"result"},
	)

	// LifecycleJobsTotal counts executed lifecycle transition jobs by result
	LifecycleJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifecycle_jobs_total",
			Help: "Total number of executed lifecycle transition jobs by result",
		},
		[]string{"result"},
	)
)

// RecordImportRun records one completed ingestion run.
func RecordImportRun(kind, outcome string, duration time.Duration) {
	ImportRunsTotal.WithLabelValues(kind, outcome).Inc()
	ImportRunDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordRowOutcome records the terminal outcome of one input row.
func RecordRowOutcome(kind, outcome string) {
	ImportRowsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordMediaFetch records one media acquisition attempt.
func RecordMediaFetch(result string) {
	MediaFetchTotal.WithLabelValues(result).Inc()
}

// RecordLifecycleJob records one executed lifecycle transition job.
func RecordLifecycleJob(result string) {
	LifecycleJobsTotal.WithLabelValues(result).Inc()
}
