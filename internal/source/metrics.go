package source

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	consumedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "source",
		Name:      "batches_consumed_total",
		Help:      "Number of sync batches successfully handled, grouped by source.",
	}, []string{"source"})

	handlerErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "source",
		Name:      "handler_errors_total",
		Help:      "Number of batch handler errors per topic.",
	}, []string{"topic"})

	decodeErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthsync",
		Subsystem: "source",
		Name:      "decode_errors_total",
		Help:      "Number of undecodable batch payloads per origin.",
	}, []string{"origin"})

	lastBatchGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "healthsync",
		Subsystem: "source",
		Name:      "last_batch_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successfully consumed batch per source.",
	}, []string{"source"})
)

func init() {
	prometheus.MustRegister(consumedCounter, handlerErrorCounter, decodeErrorCounter, lastBatchGauge)
}

func recordBatchConsumed(source string, ts time.Time) {
	consumedCounter.WithLabelValues(source).Inc()
	if !ts.IsZero() {
		lastBatchGauge.WithLabelValues(source).Set(float64(ts.Unix()))
	}
}

func recordHandlerError(topic string) {
	handlerErrorCounter.WithLabelValues(topic).Inc()
}

func recordDecodeError(origin string) {
	decodeErrorCounter.WithLabelValues(origin).Inc()
}
