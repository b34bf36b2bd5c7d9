// Package metrics provides Prometheus metrics for the hospital API:
//   - http_request_total / http_request_duration_seconds / http_request_in_flight:
//     HTTP traffic by method, route pattern and status
//   - prescription_matches_total: auto-generate outcomes (matched, no_match, no_symptoms)
//   - protocol_catalog_size and protocol_catalog_reloads_total: catalog state
//   - hospital_api_requests_total: outbound calls by endpoint and status
//   - rate_limiter_buckets_total: tracked client buckets
//
// All metrics are registered with the Prometheus default registry during package
// initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	PrescriptionMatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prescription_matches_total",
			Help: "Prescription auto-generate outcomes",
		},
		[]string{"outcome"},
	)

	CatalogSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "protocol_catalog_size",
			Help: "Number of protocols in the loaded catalog",
		},
	)

	CatalogReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "protocol_catalog_reloads_total",
			Help: "Catalog reload attempts by source and result",
		},
		[]string{"source", "result"},
	)

	HospitalAPIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hospital_api_requests_total",
			Help: "Requests sent to the hospital API",
		},
		[]string{"method", "endpoint", "status"},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen in last ~5 minutes)",
		},
	)
)

// Match outcomes
const (
	OutcomeMatched    = "matched"
	OutcomeNoMatch    = "no_match"
	OutcomeNoSymptoms = "no_symptoms"
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(PrescriptionMatches)
	prometheus.MustRegister(CatalogSize)
	prometheus.MustRegister(CatalogReloads)
	prometheus.MustRegister(HospitalAPIRequests)
	prometheus.MustRegister(RateLimiterBucketsTotal)
}
