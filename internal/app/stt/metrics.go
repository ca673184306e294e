package stt

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"subgen/internal/app/model"
)

var (
	transcriptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "subgen_transcriptions_total",
		Help: "Transcription attempts by provider and outcome.",
	}, []string{"provider", "status"})

	transcriptionSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "subgen_transcription_duration_seconds",
		Help:    "Wall-clock time spent inside a provider per request.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	}, []string{"provider"})
)

// RecordSuccess counts a completed transcription and its latency.
func RecordSuccess(p model.ProviderID, elapsed time.Duration) {
	transcriptionsTotal.WithLabelValues(p.String(), "success").Inc()
	transcriptionSeconds.WithLabelValues(p.String()).Observe(elapsed.Seconds())
}

// RecordFailure counts a failed transcription attempt.
func RecordFailure(p model.ProviderID) {
	transcriptionsTotal.WithLabelValues(p.String(), "failure").Inc()
}
