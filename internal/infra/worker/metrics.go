package worker

import (
	"research-hub/internal/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkerMetrics provides Prometheus metrics for the lifecycle worker.
// It embeds the standard ConfigMetrics for configuration monitoring and
// adds worker-specific metrics for the due-job poll.
//
// Worker-specific metrics:
//   - worker_cron_job_runs_total: Total poll runs by status (success/failure)
//   - worker_cron_job_duration_seconds: Duration histogram of poll runs
//   - worker_cron_jobs_processed_total: Total scheduled jobs processed
//   - worker_cron_job_last_success_timestamp: Unix timestamp of last successful run
type WorkerMetrics struct {
	*config.ConfigMetrics

	// CronJobRunsTotal counts poll runs, labeled success or failure.
	CronJobRunsTotal *prometheus.CounterVec

	// CronJobDurationSeconds measures poll run duration.
	// Buckets cover sub-second no-op runs up to multi-minute backlogs.
	CronJobDurationSeconds prometheus.Histogram

	// CronJobsProcessedTotal counts scheduled jobs processed across runs.
	CronJobsProcessedTotal prometheus.Counter

	// CronJobLastSuccessTimestamp records the last successful run.
	CronJobLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates a WorkerMetrics instance. Metrics register
// with the Prometheus default registry via promauto.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		CronJobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total number of cron poll runs by status (success/failure)",
		}, []string{"status"}),

		CronJobDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of cron poll runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 30, 60, 300},
		}),

		CronJobsProcessedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_cron_jobs_processed_total",
			Help: "Total number of scheduled jobs processed across all poll runs",
		}),

		CronJobLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful cron poll run",
		}),
	}
}

// MustRegister is a no-op kept for API symmetry: promauto already
// registered everything in NewWorkerMetrics.
func (m *WorkerMetrics) MustRegister() {}

// RecordJobRun increments the run counter. Status is "success" or "failure".
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.CronJobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes the duration of a poll run in seconds.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.CronJobDurationSeconds.Observe(seconds)
}

// RecordJobsProcessed adds the number of scheduled jobs handled in a run.
func (m *WorkerMetrics) RecordJobsProcessed(count int) {
	m.CronJobsProcessedTotal.Add(float64(count))
}

// RecordLastSuccess records the current time as the last successful run.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.CronJobLastSuccessTimestamp.SetToCurrentTime()
}
