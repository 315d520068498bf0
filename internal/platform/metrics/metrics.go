package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the console's Prometheus metrics: HTTP surface plus the
// retention engine's lifecycle counters.
type Collector struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	deletions    *prometheus.CounterVec
	restorations prometheus.Counter
	purgedTasks  prometheus.Counter
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mpadmin",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mpadmin",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		deletions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mpadmin",
			Subsystem: "retention",
			Name:      "deletions_total",
			Help:      "Completed user deletions by reason, level and outcome.",
		}, []string{"reason", "level", "outcome"}),
		restorations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mpadmin",
			Subsystem: "retention",
			Name:      "restorations_total",
			Help:      "Completed account restorations.",
		}),
		purgedTasks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mpadmin",
			Subsystem: "retention",
			Name:      "purged_tasks_total",
			Help:      "Purge tasks completed by the sweep executor.",
		}),
	}
	c.registry.MustRegister(c.httpRequests, c.httpDuration, c.deletions, c.restorations, c.purgedTasks)
	return c
}

func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordDeletion(reason, level, outcome string) {
	c.deletions.WithLabelValues(reason, level, outcome).Inc()
}

func (c *Collector) RecordRestoration() {
	c.restorations.Inc()
}

func (c *Collector) RecordPurgedTask() {
	c.purgedTasks.Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
