package fashion

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fashionpod"

type Metrics struct {
	Fallbacks        *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
}

// NewMetrics registers the facade metrics with reg. A nil reg keeps them
// unregistered, which is what tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Fallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ai_fallbacks_total",
				Help:      "Total number of AI calls answered from fallback data",
			},
			[]string{"operation", "reason"},
		),
		ProviderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ai_provider_duration_seconds",
				Help:      "Duration of embedding, generation and vector store calls in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider", "outcome"},
		),
	}
}
