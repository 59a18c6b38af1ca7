// Package metrics defines the Prometheus metric collectors used across the
// service and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	EventsIngestedTotal  prometheus.Counter
	WikipediaRequests    *prometheus.CounterVec
	EnrichmentRequests   *prometheus.CounterVec
	NotificationsTotal   *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		EventsIngestedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "events_ingested_total",
				Help: "Total historical event records persisted through ingestion.",
			},
		),
		WikipediaRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wikipedia_requests_total",
				Help: "Wikipedia summary fetches by outcome (ok, not_found, error).",
			},
			[]string{"outcome"},
		),
		EnrichmentRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "enrichment_requests_total",
				Help: "Text-generation requests by outcome (ok, error).",
			},
			[]string{"outcome"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_notifications_total",
				Help: "Kafka ingest notifications by outcome (ok, error).",
			},
			[]string{"outcome"},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.EventsIngestedTotal,
		m.WikipediaRequests,
		m.EnrichmentRequests,
		m.NotificationsTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
