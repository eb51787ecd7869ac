package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"example.com/healthsync/internal/domain"
)

var (
	appliedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "pipeline",
		Name:      "records_applied_total",
		Help:      "Number of records upserted, grouped by collection and upsert outcome.",
	}, []string{"collection", "outcome"})

	skippedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "pipeline",
		Name:      "records_skipped_total",
		Help:      "Number of records intentionally dropped, grouped by kind and reason.",
	}, []string{"kind", "reason"})

	failedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "pipeline",
		Name:      "records_failed_total",
		Help:      "Number of records that reached storage and failed, grouped by kind and reason.",
	}, []string{"kind", "reason"})

	upsertDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "healthsync",
		Subsystem: "pipeline",
		Name:      "upsert_duration_seconds",
		Help:      "Latency of individual storage upserts per collection.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"collection", "result"})

	batchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "healthsync",
		Subsystem: "pipeline",
		Name:      "batch_duration_seconds",
		Help:      "Wall-clock duration of one batch run.",
		Buckets:   prometheus.DefBuckets,
	})

	batchSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "healthsync",
		Subsystem: "pipeline",
		Name:      "batch_size_records",
		Help:      "Raw record count per batch run.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
)

func init() {
	prometheus.MustRegister(appliedCounter, skippedCounter, failedCounter, upsertDuration, batchDuration, batchSize)
}

func recordOutcome(out RecordOutcome) {
	switch out.Status {
	case StatusApplied:
		appliedCounter.WithLabelValues(string(out.Collection), string(out.Upsert)).Inc()
	case StatusSkipped:
		skippedCounter.WithLabelValues(string(out.Kind), out.Reason).Inc()
	case StatusFailed:
		failedCounter.WithLabelValues(string(out.Kind), out.Reason).Inc()
	}
}

func observeUpsert(collection domain.Collection, elapsed time.Duration, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	upsertDuration.WithLabelValues(string(collection), result).Observe(elapsed.Seconds())
}

func observeBatch(elapsed time.Duration, records int) {
	batchDuration.Observe(elapsed.Seconds())
	batchSize.Observe(float64(records))
}
