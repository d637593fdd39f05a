package datasource

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	decompressAttempts *prometheus.CounterVec
	canonicalBytes     prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		decompressAttempts: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "profileio",
			Name:      "decompress_attempts_total",
			Help:      "Number of speculative decompression attempts by detected codec and result.",
		}, []string{"codec", "result"}),
		canonicalBytes: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: "profileio",
			Name:      "source_bytes",
			Help:      "Size of the canonical (decompressed or pass-through) source data.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 12),
		}),
	}
}
