// Package metrics records HTTP request timings for Prometheus and keeps a bounded
// in-memory sample of slow requests for the admin performance view.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sample is one request slower than the collector threshold.
type Sample struct {
	Method     string        `json:"method"`
	Route      string        `json:"route"`
	Status     int           `json:"status"`
	Duration   time.Duration `json:"-"`
	DurationMs float64       `json:"durationMs"`
	At         time.Time     `json:"at"`
}

// Snapshot is the state reported by GET /api/admin/performance.
type Snapshot struct {
	TotalRequests int64    `json:"totalRequests"`
	SlowRequests  int64    `json:"slowRequests"`
	AverageMs     float64  `json:"averageMs"`
	MaxMs         float64  `json:"maxMs"`
	ThresholdMs   int64    `json:"thresholdMs"`
	Capacity      int      `json:"capacity"`
	Samples       []Sample `json:"samples"`
}

// Collector is safe for concurrent use.
type Collector struct {
	threshold time.Duration
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec

	mu      sync.Mutex
	ring    []Sample
	next    int
	full    bool
	total   int64
	slow    int64
	sum     time.Duration
	longest time.Duration
}

// NewCollector creates a collector with its own registry. capacity bounds the
// number of slow samples kept; older samples are overwritten.
func NewCollector(threshold time.Duration, capacity int) *Collector {
	if capacity < 1 {
		capacity = 1
	}
	c := &Collector{
		threshold: threshold,
		registry:  prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trek_admin",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "trek_admin",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ring: make([]Sample, capacity),
	}
	c.registry.MustRegister(
		c.requests,
		c.durations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry exposes the collector's registry so other components can add metrics.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Observe records one finished request.
func (c *Collector) Observe(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.durations.WithLabelValues(method, route).Observe(d.Seconds())

	c.mu.Lock()
	defer c.mu.Unlock()
	c.total++
	c.sum += d
	if d > c.longest {
		c.longest = d
	}
	if d < c.threshold {
		return
	}
	c.slow++
	c.ring[c.next] = Sample{
		Method:     method,
		Route:      route,
		Status:     status,
		Duration:   d,
		DurationMs: millis(d),
		At:         time.Now().UTC(),
	}
	c.next = (c.next + 1) % len(c.ring)
	if c.next == 0 {
		c.full = true
	}
}

// Snapshot returns the totals and the kept slow samples, newest first.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.next
	if c.full {
		n = len(c.ring)
	}
	samples := make([]Sample, 0, n)
	for i := 1; i <= n; i++ {
		idx := (c.next - i + len(c.ring)) % len(c.ring)
		samples = append(samples, c.ring[idx])
	}

	snap := Snapshot{
		TotalRequests: c.total,
		SlowRequests:  c.slow,
		MaxMs:         millis(c.longest),
		ThresholdMs:   c.threshold.Milliseconds(),
		Capacity:      len(c.ring),
		Samples:       samples,
	}
	if c.total > 0 {
		snap.AverageMs = millis(c.sum / time.Duration(c.total))
	}
	return snap
}

// Reset clears the in-memory totals and samples. Prometheus counters are untouched.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ring = make([]Sample, len(c.ring))
	c.next, c.full = 0, false
	c.total, c.slow, c.sum, c.longest = 0, 0, 0, 0
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
