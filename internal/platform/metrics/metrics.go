// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Ingestion
	EventsReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "spillway_events_received_total",
			Help: "Log events accepted into the pipeline before persistence",
		},
	)

	EventsPersisted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "spillway_events_persisted_total",
			Help: "Log events written to the store",
		},
	)

	EventsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spillway_events_rejected_total",
			Help: "Batches rejected before persistence, by reason",
		},
		[]string{"reason"},
	)

	// Rate limiting
	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spillway_rate_limited_total",
			Help: "Requests rejected by the limiter, by tier",
		},
		[]string{"tier"},
	)

	LimiterFailOpen = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "spillway_limiter_fail_open_total",
			Help: "Limiter checks allowed because the counter write failed",
		},
	)

	// Maintenance
	MaintenanceRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spillway_maintenance_runs_total",
			Help: "Maintenance passes by outcome",
		},
		[]string{"outcome"},
	)

	MaintenanceStepSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spillway_maintenance_step_seconds",
			Help:    "Duration of individual maintenance steps",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"step"},
	)

	MaintenanceRowsPurged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spillway_maintenance_rows_purged_total",
			Help: "Rows removed by maintenance, by step",
		},
		[]string{"step"},
	)

	// HTTP
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spillway_http_requests_total",
			Help: "API requests by method and status",
		},
		[]string{"method", "status"},
	)

	// Trackers
	TrackerAlerts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "spillway_tracker_alerts_total",
			Help: "Fingerprints that crossed the per-minute alert threshold",
		},
	)
)

func init() {
	prometheus.MustRegister(EventsReceived)
	prometheus.MustRegister(EventsPersisted)
	prometheus.MustRegister(EventsRejected)
	prometheus.MustRegister(RateLimited)
	prometheus.MustRegister(LimiterFailOpen)
	prometheus.MustRegister(MaintenanceRuns)
	prometheus.MustRegister(MaintenanceStepSeconds)
	prometheus.MustRegister(MaintenanceRowsPurged)
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(TrackerAlerts)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one API request outcome
func ObserveRequest(method string, status int) {
	HTTPRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}
