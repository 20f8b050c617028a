package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests served.",
		},
		[]string{"method", "endpoint", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)
	upstreamCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_upstream_calls_total",
			Help: "Total number of affiliate API calls by remote method and outcome.",
		},
		[]string{"method", "outcome"},
	)
	upstreamCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_upstream_call_duration_seconds",
			Help:    "Histogram of affiliate API call durations.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"method"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(upstreamCallsTotal)
	prometheus.MustRegister(upstreamCallDuration)
}

// Upstream call outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeTransport = "transport_error"
	OutcomeStatus    = "bad_status"
	OutcomeAPIError  = "api_error"
	OutcomeEnvelope  = "bad_envelope"
)

// RecordRequest records one served HTTP request.
func RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// RecordUpstreamCall records one call to the affiliate API.
func RecordUpstreamCall(method, outcome string, duration time.Duration) {
	upstreamCallsTotal.WithLabelValues(method, outcome).Inc()
	upstreamCallDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown"
}

// Handler exposes the registered collectors in Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
