package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeEmpty  = "empty"
	OutcomeQuota  = "quota"
	OutcomeFailed = "failed"
)

// Upstream call outcomes recorded by the gateway.
const (
	UpstreamSuccess     = "success"
	UpstreamRateLimited = "rate_limited"
	UpstreamQuota       = "quota"
	UpstreamError       = "error"
)

// Metrics holds Prometheus counters for the course builder.
type Metrics struct {
	registry         *prometheus.Registry
	requestsTotal    prometheus.Counter
	errorsTotal      prometheus.Counter
	generationsTotal *prometheus.CounterVec
	upstreamTotal    *prometheus.CounterVec
	gatewayWaitTotal prometheus.Counter
	segmentsReturned prometheus.Histogram
}

// New creates and registers Prometheus metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "course_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "course_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	generationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "course_generations_total",
		Help: "Course generation requests by outcome",
	}, []string{"outcome"})
	upstreamTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "course_upstream_requests_total",
		Help: "Outbound video provider calls by outcome",
	}, []string{"outcome"})
	gatewayWaitTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "course_gateway_wait_seconds_total",
		Help: "Total time spent waiting in the request gateway (throttle, retry-after and backoff)",
	})
	segmentsReturned := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "course_segments_returned",
		Help:    "Number of video results returned per course request",
		Buckets: []float64{0, 1, 3, 5, 10, 20, 40},
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		generationsTotal,
		upstreamTotal,
		gatewayWaitTotal,
		segmentsReturned,
	)

	return &Metrics{
		registry:         registry,
		requestsTotal:    requestsTotal,
		errorsTotal:      errorsTotal,
		generationsTotal: generationsTotal,
		upstreamTotal:    upstreamTotal,
		gatewayWaitTotal: gatewayWaitTotal,
		segmentsReturned: segmentsReturned,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// IncGeneration counts one course generation with the given outcome.
func (m *Metrics) IncGeneration(outcome string) {
	m.generationsTotal.WithLabelValues(outcome).Inc()
}

// IncUpstream counts one provider call attempt with the given outcome.
func (m *Metrics) IncUpstream(outcome string) {
	m.upstreamTotal.WithLabelValues(outcome).Inc()
}

// AddGatewayWait adds d to the gateway wait counter.
func (m *Metrics) AddGatewayWait(d time.Duration) {
	m.gatewayWaitTotal.Add(d.Seconds())
}

// ObserveSegments records how many results a course request returned.
func (m *Metrics) ObserveSegments(n int) {
	m.segmentsReturned.Observe(float64(n))
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
