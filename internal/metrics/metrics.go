// Package metrics registers the Prometheus collectors for the scheduling
// core, grounded on internal/service/metrics_service.go's registration
// style but scoped to generation runs rather than generic CRUD analytics:
// the core emits duration/iteration/score histograms for each
// scheduler.Generate call plus the cache and HTTP counters the teacher's
// MetricsService also tracked.
package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector encapsulates every registered metric for one process.
type Collector struct {
	registry *prometheus.Registry
	handler  http.Handler

	generationDuration   *prometheus.HistogramVec
	generationIterations prometheus.Histogram
	generationScore      prometheus.Histogram
	generationsTotal     *prometheus.CounterVec
	unplaceableLessons   prometheus.Counter

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	cacheLatency  prometheus.Observer
	cacheWrite    prometheus.Observer
	cacheHitRatio prometheus.Gauge
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter

	cacheHitCount  uint64
	cacheMissCount uint64
}

// New registers the collector set on a fresh registry.
func New() *Collector {
	registry := prometheus.NewRegistry()

	generationDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "schedule_generation_duration_seconds",
		Help:    "Wall-clock duration of a full scheduler.Generate call",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"status"})

	generationIterations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_generation_annealer_iterations",
		Help:    "Number of annealer swap attempts performed in a generation run",
		Buckets: prometheus.ExponentialBuckets(10, 2, 12),
	})

	generationScore := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_generation_objective_score",
		Help:    "Final objective score of a generation run",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	generationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_generations_total",
		Help: "Total generation runs by outcome status",
	}, []string{"status"})

	unplaceableLessons := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_unplaceable_lessons_total",
		Help: "Total lessons the placer could not fit into any slot",
	})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for conflict-cache get operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for conflict-cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total conflict-cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total conflict-cache misses",
	})

	registry.MustRegister(
		generationDuration, generationIterations, generationScore, generationsTotal, unplaceableLessons,
		requestDuration, requestTotal,
		cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
	)

	return &Collector{
		registry:             registry,
		handler:              promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		generationDuration:   generationDuration,
		generationIterations: generationIterations,
		generationScore:      generationScore,
		generationsTotal:     generationsTotal,
		unplaceableLessons:   unplaceableLessons,
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		cacheLatency:         cacheLatency,
		cacheWrite:           cacheWrite,
		cacheHitRatio:        cacheHitRatio,
		cacheHits:            cacheHits,
		cacheMisses:          cacheMisses,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return c.handler
}

// ObserveGeneration records one completed scheduler.Generate call.
func (c *Collector) ObserveGeneration(status string, duration time.Duration, iterations int, score float64) {
	if c == nil {
		return
	}
	c.generationDuration.WithLabelValues(status).Observe(duration.Seconds())
	c.generationsTotal.WithLabelValues(status).Inc()
	c.generationIterations.Observe(float64(iterations))
	c.generationScore.Observe(score)
}

// ObserveUnplaceableLesson increments the count of lessons the placer gave
// up on for one generation run.
func (c *Collector) ObserveUnplaceableLesson(count int) {
	if c == nil || count <= 0 {
		return
	}
	c.unplaceableLessons.Add(float64(count))
}

// ObserveHTTPRequest records request latency/count metrics.
func (c *Collector) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	c.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	c.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation implements cache.MetricsRecorder.
func (c *Collector) RecordCacheOperation(hit bool, duration time.Duration) {
	if c == nil {
		return
	}
	c.cacheLatency.Observe(duration.Seconds())
	if hit {
		c.cacheHits.Inc()
		atomic.AddUint64(&c.cacheHitCount, 1)
	} else {
		c.cacheMisses.Inc()
		atomic.AddUint64(&c.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&c.cacheHitCount)
	misses := atomic.LoadUint64(&c.cacheMissCount)
	if total := hits + misses; total > 0 {
		c.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite implements cache.MetricsRecorder.
func (c *Collector) ObserveCacheWrite(duration time.Duration) {
	if c == nil {
		return
	}
	c.cacheWrite.Observe(duration.Seconds())
}
