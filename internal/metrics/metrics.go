// Package metrics holds the Prometheus collectors for feed builds and store calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricFeedBuilds         = "feed_builds_total"
	MetricFeedBuildDuration  = "feed_build_duration_seconds"
	MetricFeedCandidates     = "feed_candidates"
	MetricFeedEntries        = "feed_entries"
	MetricStoreQueryDuration = "feed_store_query_duration_seconds"
)

// Build outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeNoFollowees = "no_followees"
	OutcomeUsageError  = "usage_error"
	OutcomeStoreError  = "store_error"
)

// Metrics is safe for concurrent use. A nil *Metrics records nothing.
type Metrics struct {
	builds        *prometheus.CounterVec
	buildDuration prometheus.Histogram
	candidates    prometheus.Histogram
	entries       prometheus.Histogram
	storeDuration *prometheus.HistogramVec
}

// NewMetrics creates unregistered collectors; call Register to expose them.
func NewMetrics() *Metrics {
	return &Metrics{
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricFeedBuilds,
			Help: "Total number of feed builds by outcome",
		}, []string{"outcome"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricFeedBuildDuration,
			Help:    "Feed build duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricFeedCandidates,
			Help:    "Number of candidate items fetched per feed build",
			Buckets: []float64{0, 10, 25, 50, 100, 150, 200},
		}),
		entries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricFeedEntries,
			Help:    "Number of entries returned per feed build",
			Buckets: []float64{0, 5, 10, 20, 30, 50, 100},
		}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricStoreQueryDuration,
			Help:    "Duration of graph and document store calls in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"store", "operation"}),
	}
}

func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{m.builds, m.buildDuration, m.candidates, m.entries, m.storeDuration}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveBuild(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.builds.WithLabelValues(outcome).Inc()
	m.buildDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveSizes(candidates, entries int) {
	if m == nil {
		return
	}
	m.candidates.Observe(float64(candidates))
	m.entries.Observe(float64(entries))
}

func (m *Metrics) ObserveStoreCall(store, operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.storeDuration.WithLabelValues(store, operation).Observe(d.Seconds())
}
