package normalize

import (
	"time"

	"example.com/healthsync/internal/domain"
)

// HeartRateNormalizer maps per-day heart rate summaries. The resting heart
// rate is an optional passthrough from the source, never derived here.
type HeartRateNormalizer struct{}

// Normalize implements Normalizer.
func (n *HeartRateNormalizer) Normalize(raw RawRecord, nctx Context) (domain.Document, *Skip) {
	date, ok := raw.stringField("date")
	if !ok {
		return nil, skipMissing("date")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, &Skip{Reason: ReasonInvalidInput, Detail: "date must be YYYY-MM-DD"}
	}
	avg, ok := raw.intField("avgHeartRate")
	if !ok {
		return nil, skipMissing("avgHeartRate")
	}
	minHR, ok := raw.intField("minHeartRate")
	if !ok {
		return nil, skipMissing("minHeartRate")
	}
	maxHR, ok := raw.intField("maxHeartRate")
	if !ok {
		return nil, skipMissing("maxHeartRate")
	}

	doc := &domain.HeartRate{
		UserID: nctx.UserID,
		Date:   date,
		Avg:    avg,
		Min:    minHR,
		Max:    maxHR,
	}
	if resting, ok := raw.intField("restingHeartRate"); ok {
		doc.Resting = &resting
	}
	return doc, nil
}
