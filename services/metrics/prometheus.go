package metricsvc

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/kazi/core/coverage"
)

const namespace = "kazi"

// PrometheusObserver records coverage runs on its own registry.
type PrometheusObserver struct {
	registry  *prometheus.Registry
	rollups   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	discarded *prometheus.CounterVec
}

var _ coverage.Observer = (*PrometheusObserver)(nil) // interface compliance check

func NewPrometheusObserver() *PrometheusObserver {
	obs := &PrometheusObserver{
		registry: prometheus.NewRegistry(),
		rollups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coverage",
			Name:      "rollups_total",
			Help:      "Coverage rollups computed, by variant and outcome.",
		}, []string{"variant", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "coverage",
			Name:      "rollup_duration_seconds",
			Help:      "Time taken to fetch and compute a coverage rollup.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"variant"}),
		discarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coverage",
			Name:      "discarded_submissions_total",
			Help:      "Submissions shadowed by an earlier one on the same lookup key.",
		}, []string{"variant", "key"}),
	}
	obs.registry.MustRegister(
		obs.rollups,
		obs.duration,
		obs.discarded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return obs
}

func (obs *PrometheusObserver) ObserveRollup(variant, outcome string, elapsed time.Duration) {
	obs.rollups.WithLabelValues(variant, outcome).Inc()
	obs.duration.WithLabelValues(variant).Observe(elapsed.Seconds())
}

func (obs *PrometheusObserver) ObserveDiscarded(variant, key string, n int) {
	if n > 0 {
		obs.discarded.WithLabelValues(variant, key).Add(float64(n))
	}
}

// Handler serves the registry in the prometheus exposition format.
func (obs *PrometheusObserver) Handler() http.Handler {
	return promhttp.HandlerFor(obs.registry, promhttp.HandlerOpts{Registry: obs.registry})
}
