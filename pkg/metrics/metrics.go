package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors are registered on the default registry; /metrics serves them
// through promhttp.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests processed, by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds, by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	IncidentsReported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "incidents_reported_total",
		Help: "Incidents reported, by type and criticality.",
	}, []string{"incident_type", "criticality"})

	NotificationsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "incident_notifications_total",
		Help: "Incident notification dispatch outcomes, by status.",
	}, []string{"status"})
)
