// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the application metrics.
type Collector struct {
	authEvents     *prometheus.CounterVec
	mailSent       *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
	activeSessions prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_auth_events_total",
			Help: "Authentication events by event and outcome",
		}, []string{"event", "outcome"}),
		mailSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_mail_total",
			Help: "Outgoing mail by template and result",
		}, []string{"template", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_http_requests_total",
			Help: "HTTP responses by method and status code",
		}, []string{"method", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "inkwell_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "inkwell_sessions_started_minus_destroyed",
			Help: "Sessions started minus sessions destroyed since process start",
		}),
	}

	reg.MustRegister(
		c.authEvents,
		c.mailSent,
		c.httpRequests,
		c.httpLatency,
		c.activeSessions,
	)

	return c
}

// RecordAuthEvent counts one auth workflow outcome.
func (c *Collector) RecordAuthEvent(event, outcome string) {
	c.authEvents.WithLabelValues(event, outcome).Inc()
}

// RecordMail counts one mail delivery attempt.
func (c *Collector) RecordMail(template, result string) {
	c.mailSent.WithLabelValues(template, result).Inc()
}

// RecordHTTPRequest records status and latency of one response.
func (c *Collector) RecordHTTPRequest(method string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method).Observe(d.Seconds())
}

func (c *Collector) SessionStarted()   { c.activeSessions.Inc() }
func (c *Collector) SessionDestroyed() { c.activeSessions.Dec() }

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
