// Package metrics exposes Prometheus counters for requests, sign-ins and seeding.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	signIns         *prometheus.CounterVec
	seeded          *prometheus.CounterVec
	sessionsPurged  prometheus.Counter
	connsSwept      prometheus.Counter
}

// NewCollector registers every metric on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simplecms_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status_code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "simplecms_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		signIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simplecms_signin_total",
			Help: "Sign-in attempts by method and outcome.",
		}, []string{"method", "outcome"}),
		seeded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simplecms_seeded_items_total",
			Help: "Items inserted by the bootstrap seed, per list.",
		}, []string{"list"}),
		sessionsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "simplecms_sessions_purged_total",
			Help: "Expired sessions removed by the cleaner.",
		}),
		connsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "simplecms_connections_swept_total",
			Help: "Realtime connections terminated by the cleaner.",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.requestDuration,
		c.signIns,
		c.seeded,
		c.sessionsPurged,
		c.connsSwept,
	)

	return c
}

func (c *Collector) RecordRequest(route, method string, statusCode int, elapsed time.Duration) {
	c.requests.WithLabelValues(route, method, strconv.Itoa(statusCode)).Inc()
	c.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// RecordSignIn counts one attempt. outcome is success, failure or error.
func (c *Collector) RecordSignIn(method, outcome string) {
	c.signIns.WithLabelValues(method, outcome).Inc()
}

func (c *Collector) RecordSeeded(list string, count int) {
	c.seeded.WithLabelValues(list).Add(float64(count))
}

func (c *Collector) RecordSessionsPurged(count int64) {
	c.sessionsPurged.Add(float64(count))
}

func (c *Collector) RecordConnectionsSwept(count int) {
	c.connsSwept.Add(float64(count))
}

// Handler serves the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
