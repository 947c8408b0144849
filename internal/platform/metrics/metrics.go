// Package metrics exposes Prometheus instrumentation for the HTTP surface
// and the background jobs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         prometheus.Counter

	archivalSweeps        prometheus.Counter
	archivalCyclesClosed  prometheus.Counter
	archivalRecordsClosed prometheus.Counter
	archivalFailures      prometheus.Counter
}

func New() *Collector {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	c := &Collector{registry: registry}

	c.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "talentops",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	c.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "talentops",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	c.rateLimited = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "talentops",
		Name:      "http_rate_limited_total",
		Help:      "Requests rejected by the rate limiter.",
	})

	c.archivalSweeps = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "talentops",
		Name:      "archival_sweeps_total",
		Help:      "Archival sweep runs.",
	})

	c.archivalCyclesClosed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "talentops",
		Name:      "archival_cycles_archived_total",
		Help:      "Cycles moved to Archived by the sweep.",
	})

	c.archivalRecordsClosed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "talentops",
		Name:      "archival_records_archived_total",
		Help:      "Records stamped archived by the sweep.",
	})

	c.archivalFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "talentops",
		Name:      "archival_failures_total",
		Help:      "Cycles the sweep failed to archive.",
	})

	return c
}

func (c *Collector) RecordRequest(route, method string, status int, duration time.Duration) {
	code := statusLabel(status)
	c.httpRequests.WithLabelValues(route, method, code).Inc()
	c.httpRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
	if status == http.StatusTooManyRequests {
		c.rateLimited.Inc()
	}
}

func (c *Collector) RecordSweep(archived, records, failed int) {
	c.archivalSweeps.Inc()
	c.archivalCyclesClosed.Add(float64(archived))
	c.archivalRecordsClosed.Add(float64(records))
	c.archivalFailures.Add(float64(failed))
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func statusLabel(status int) string {
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
