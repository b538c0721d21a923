// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers HTTP and auth metrics for the whole service.
type Collector struct {
	requests       *prometheus.CounterVec
	latency        prometheus.Histogram
	authRejections *prometheus.CounterVec
	logins         prometheus.Counter
	registrations  prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cartrade_http_requests_total",
			Help: "HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cartrade_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		authRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cartrade_auth_rejections_total",
			Help: "Requests rejected by the authorization middleware, by reason.",
		}, []string{"reason"}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cartrade_logins_total",
			Help: "Successful logins.",
		}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cartrade_registrations_total",
			Help: "Successful registrations.",
		}),
	}

	reg.MustRegister(c.requests, c.latency, c.authRejections, c.logins, c.registrations)
	return c
}

// RecordRequest records one completed HTTP request.
func (c *Collector) RecordRequest(method, path string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.latency.Observe(duration.Seconds())
}

// RecordAuthRejection records a rejected request by reason.
func (c *Collector) RecordAuthRejection(reason string) {
	c.authRejections.WithLabelValues(reason).Inc()
}

// RecordLogin records a successful login.
func (c *Collector) RecordLogin() {
	c.logins.Inc()
}

// RecordRegistration records a successful registration.
func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
