package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// HTTP request rate by route template and status class.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight.
	HTTPRequestsInFlight prometheus.Gauge

	// aviationweather.gov calls by report kind and outcome.
	FetchCallsTotal *prometheus.CounterVec

	// Upstream latency per call.
	FetchDuration *prometheus.HistogramVec

	// Decoded reports by kind (metar, taf) and result (ok, parse_error, empty).
	ReportsDecodedTotal *prometheus.CounterVec

	// Requests rejected with 429.
	RateLimitDeniedTotal prometheus.Counter
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	FetchCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetchCallsTotal",
			Help: "Total number of aviationweather.gov calls",
		},
		[]string{"kind", "status"},
	)
	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fetchDurationSeconds",
			Help:    "aviationweather.gov latency in seconds (per call)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"kind", "status"},
	)
	ReportsDecodedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reportsDecodedTotal",
			Help: "Total number of decoded reports by kind and result",
		},
		[]string{"kind", "result"},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of requests denied by rate limiter (429)",
		},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		FetchCallsTotal, FetchDuration,
		ReportsDecodedTotal,
		RateLimitDeniedTotal,
	)
}

// RecordDecode counts one decoded report. A non-empty parse error wins over
// an empty result.
func RecordDecode(kind, parseError string, empty bool) {
	result := "ok"
	switch {
	case parseError != "":
		result = "parse_error"
	case empty:
		result = "empty"
	}
	ReportsDecodedTotal.WithLabelValues(kind, result).Inc()
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
