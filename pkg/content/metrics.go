package content

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// loadMetrics instruments the resolver. Built with a nil Registerer the
// collectors still count but are not exported.
type loadMetrics struct {
	loads     *prometheus.CounterVec
	cacheHits *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

func newLoadMetrics(reg prometheus.Registerer, namespace string) *loadMetrics {
	factory := promauto.With(reg)

	return &loadMetrics{
		loads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "content",
			Name:      "loads_total",
			Help:      "Content file loads by kind and result",
		}, []string{"kind", "result"}),

		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "content",
			Name:      "cache_hits_total",
			Help:      "Loads answered from the in-memory cache",
		}, []string{"kind"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "content",
			Name:      "load_duration_seconds",
			Help:      "Time spent reading and decoding content files",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"kind"}),
	}
}
