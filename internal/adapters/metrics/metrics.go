package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "events_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	tasksProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_tasks_processed_total",
			Help: "Total number of background tasks processed",
		},
		[]string{"task", "result"},
	)

	taskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "events_task_duration_seconds",
			Help:    "Background task duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"task"},
	)

	tasksQueued = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "events_tasks_queued",
			Help: "Number of tasks per queue state",
		},
		[]string{"state"},
	)

	importRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_import_rows_total",
			Help: "Total number of imported spreadsheet rows",
		},
		[]string{"result"},
	)
)

// Task results.
const (
	TaskSucceeded = "succeeded"
	TaskRetried   = "retried"
	TaskDead      = "dead"
)

// RecordHTTPRequest records a served request. route is the matched route template.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordTask records the outcome of a task run.
func RecordTask(task, result string, duration time.Duration) {
	tasksProcessedTotal.WithLabelValues(task, result).Inc()
	taskDuration.WithLabelValues(task).Observe(duration.Seconds())
}

// SetQueueDepth sets the number of tasks in each queue state.
func SetQueueDepth(pending, processing, delayed, dead int64) {
	tasksQueued.WithLabelValues("pending").Set(float64(pending))
	tasksQueued.WithLabelValues("processing").Set(float64(processing))
	tasksQueued.WithLabelValues("delayed").Set(float64(delayed))
	tasksQueued.WithLabelValues("dead").Set(float64(dead))
}

// RecordImport records the row outcomes of a spreadsheet import.
func RecordImport(created, failed int) {
	importRowsTotal.WithLabelValues("created").Add(float64(created))
	importRowsTotal.WithLabelValues("failed").Add(float64(failed))
}

// Handler returns the Prometheus metrics handler
func Handler() http.Handler {
	return promhttp.Handler()
}
