// Package metrics collects Prometheus metrics for token operations and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iudanet/tokenkeeper/internal/status"
)

const namespace = "tokenkeeper"

// Collector holds every metric the server exports.
type Collector struct {
	tokenOps     *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	rateLimited  prometheus.Counter
	storageUp    prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics in reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		tokenOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_operations_total",
			Help:      "Access token operations by operation and result status.",
		}, []string{"op", "status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		storageUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "storage_up",
			Help:      "1 if the last storage health check succeeded, 0 otherwise.",
		}),
	}

	reg.MustRegister(
		c.tokenOps,
		c.httpRequests,
		c.httpDuration,
		c.rateLimited,
		c.storageUp,
	)

	return c
}

// ObserveTokenOp counts one token service call. The status label is the
// numeric code, which keeps label cardinality bounded.
func (c *Collector) ObserveTokenOp(op string, st status.Status) {
	c.tokenOps.WithLabelValues(op, strconv.Itoa(st.Code())).Inc()
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method, route string, code int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// IncRateLimited counts one rejected request.
func (c *Collector) IncRateLimited() {
	c.rateLimited.Inc()
}

// SetStorageUp records the result of a storage health check.
func (c *Collector) SetStorageUp(up bool) {
	if up {
		c.storageUp.Set(1)
		return
	}
	c.storageUp.Set(0)
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
