// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what handlers and services report to.
type Recorder interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
	RecordAuthEvent(action string)
	RecordContactsCreated(n int)
	RecordPing()
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	authEvents      *prometheus.CounterVec
	contactsCreated prometheus.Counter
	pings           prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ordo_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ordo_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ordo_auth_events_total",
			Help: "Authentication events by action.",
		}, []string{"action"}),
		contactsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ordo_contacts_created_total",
			Help: "Contacts created, single and batch.",
		}),
		pings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ordo_pings_total",
			Help: "Ping messages rendered.",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.latency,
		c.authEvents,
		c.contactsCreated,
		c.pings,
	)
	return c
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) RecordAuthEvent(action string) {
	c.authEvents.WithLabelValues(action).Inc()
}

func (c *Collector) RecordContactsCreated(n int) {
	c.contactsCreated.Add(float64(n))
}

func (c *Collector) RecordPing() {
	c.pings.Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. It is used when metrics are disabled.
type Nop struct{}

func (Nop) ObserveRequest(string, string, int, time.Duration) {}
func (Nop) RecordAuthEvent(string)                            {}
func (Nop) RecordContactsCreated(int)                         {}
func (Nop) RecordPing()                                       {}
