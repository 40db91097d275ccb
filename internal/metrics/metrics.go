// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests.
	// Labels: method, route (gin full path), status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cas_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cas_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	// EntriesCreated counts created entries by strand.
	EntriesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cas_entries_created_total",
			Help: "Total number of entries created",
		},
		[]string{"kind"},
	)

	EntriesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cas_entries_deleted_total",
			Help: "Total number of entries deleted",
		},
	)

	// MediaUploads counts files sent to the media host.
	// Labels:
	//   - resource_type: "image", "video"
	//   - outcome: "success", "failure", "rejected"
	MediaUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cas_media_uploads_total",
			Help: "Total number of media uploads to the media host",
		},
		[]string{"resource_type", "outcome"},
	)

	MediaUploadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cas_media_upload_duration_seconds",
			Help:    "Duration of single media uploads in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"resource_type"},
	)

	// MediaBreakerState is 0 closed, 1 half-open, 2 open.
	MediaBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cas_media_breaker_state",
			Help: "Media host circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// LoginAttempts counts admin password checks.
	// Labels: outcome ("success", "failure", "invalid")
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cas_admin_login_attempts_total",
			Help: "Total number of admin login attempts",
		},
		[]string{"outcome"},
	)

	ListCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cas_list_cache_lookups_total",
			Help: "Entry list cache lookups",
		},
		[]string{"result"},
	)

	StreakDays = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cas_streak_days",
			Help: "Current consecutive day streak as of the last summary run",
		},
	)

	MonthEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cas_month_entries",
			Help: "Entries in the current month as of the last summary run",
		},
	)

	// JobRuns counts scheduled job executions.
	// Labels: job, outcome ("success", "failure")
	JobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cas_job_runs_total",
			Help: "Total number of scheduled job runs",
		},
		[]string{"job", "outcome"},
	)
)
