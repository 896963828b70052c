// internal/common/metrics/metrics.go
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	RecommendationsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "policy_recommendations_returned",
			Help:    "Number of policies returned per recommendation request",
			Buckets: []float64{0, 1, 2, 3},
		},
	)

	ComparisonsBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "policy_comparisons_built_total",
			Help: "Total number of comparison tables built, by number of selected policies",
		},
		[]string{"policies"},
	)

	CatalogCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_requests_total",
			Help: "Catalog cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Shortlist notifications by channel and status",
		},
		[]string{"channel", "status"},
	)
)

// JobObserver receives every finished job in addition to the Prometheus collectors.
type JobObserver func(taskType, status string, duration time.Duration)

var (
	observerMu  sync.RWMutex
	jobObserver JobObserver
)

// ObserveJobs registers fn for finished jobs. A nil fn removes the observer.
func ObserveJobs(fn JobObserver) {
	observerMu.Lock()
	defer observerMu.Unlock()
	jobObserver = fn
}

// JobTimer tracks one in-flight job.
type JobTimer struct {
	taskType string
	start    time.Time
}

// StartJob marks a job active for taskType.
func StartJob(taskType string) *JobTimer {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return &JobTimer{taskType: taskType, start: time.Now()}
}

func (t *JobTimer) Completed() {
	t.finish("completed")
	WorkerJobsCompleted.WithLabelValues(t.taskType).Inc()
}

func (t *JobTimer) Failed(errorCode string) {
	t.finish("failed")
	WorkerJobsFailed.WithLabelValues(t.taskType, errorCode).Inc()
}

func (t *JobTimer) finish(status string) {
	elapsed := time.Since(t.start)
	WorkerJobsActive.WithLabelValues(t.taskType).Dec()
	WorkerJobDuration.WithLabelValues(t.taskType).Observe(elapsed.Seconds())

	observerMu.RLock()
	fn := jobObserver
	observerMu.RUnlock()
	if fn != nil {
		fn(t.taskType, status, elapsed)
	}
}
