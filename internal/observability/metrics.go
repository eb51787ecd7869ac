package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"example.com/healthsync/internal/domain"
)

var persistGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "healthsync",
	Subsystem: "persistence",
	Name:      "last_document_persisted_timestamp_seconds",
	Help:      "Unix timestamp of the most recent document persisted per collection.",
}, []string{"collection"})

func init() {
	prometheus.MustRegister(persistGauge)
}

// RecordDocumentPersisted updates the persistence watermark gauge.
func RecordDocumentPersisted(collection domain.Collection, ts time.Time) {
	if ts.IsZero() {
		return
	}
	persistGauge.WithLabelValues(string(collection)).Set(float64(ts.Unix()))
}
