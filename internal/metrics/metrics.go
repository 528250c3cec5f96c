// Package metrics exposes validator and cache activity to Prometheus.
package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Veraticus/petit-bac/internal/model"
)

var cachedWordsDesc = prometheus.NewDesc(
	"bac_cached_words",
	"Confirmed words held in the validation cache, by category",
	[]string{"category"},
	nil,
)

// CategoryCounter is the part of the cache store the collector reads.
type CategoryCounter interface {
	CountByCategory(ctx context.Context) (map[string]int, error)
}

// CacheCollector reads cache sizes from the store on each scrape.
type CacheCollector struct {
	store   CategoryCounter
	timeout time.Duration
}

// NewCacheCollector creates a collector over store.
func NewCacheCollector(store CategoryCounter) *CacheCollector {
	return &CacheCollector{store: store, timeout: 5 * time.Second}
}

// Describe sends the metric descriptor to the channel.
func (c *CacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- cachedWordsDesc
}

// Collect queries the store and emits one gauge per category.
func (c *CacheCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	counts, err := c.store.CountByCategory(ctx)
	if err != nil {
		slog.Error("failed to collect cache metrics", "error", err)
		return
	}
	for category, n := range counts {
		ch <- prometheus.MustNewConstMetric(
			cachedWordsDesc,
			prometheus.GaugeValue,
			float64(n),
			category,
		)
	}
}

// Recorder counts validator calls and cache writes. It satisfies the
// engine's Observer and the service's CacheWriteObserver.
type Recorder struct {
	validations *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	cacheWrites *prometheus.CounterVec
}

// NewRecorder creates a recorder and registers its metrics with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bac_validator_calls_total",
			Help: "Validator calls by source and outcome status",
		}, []string{"source", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bac_validator_duration_seconds",
			Help:    "Time spent in each validator",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		cacheWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bac_cache_writes_total",
			Help: "Attempted cache writes by category and result",
		}, []string{"category", "result"}),
	}

	for _, c := range []prometheus.Collector{r.validations, r.latency, r.cacheWrites} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveValidation records one validator call.
func (r *Recorder) ObserveValidation(source string, outcome model.ValidationOutcome, elapsed time.Duration) {
	r.validations.WithLabelValues(source, string(outcome.Status)).Inc()
	r.latency.WithLabelValues(source).Observe(elapsed.Seconds())
}

// ObserveCacheWrite records one cache write attempt.
func (r *Recorder) ObserveCacheWrite(category string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.cacheWrites.WithLabelValues(category, result).Inc()
}
