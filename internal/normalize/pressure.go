package normalize

import (
	"example.com/healthsync/internal/derive"
	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/units"
)

// BloodPressureNormalizer maps blood pressure readings and attaches the
// AHA category.
type BloodPressureNormalizer struct{}

// Normalize implements Normalizer.
func (n *BloodPressureNormalizer) Normalize(raw RawRecord, nctx Context) (domain.Document, *Skip) {
	ms, ok := raw.floatField("timeStamp")
	if !ok {
		return nil, skipMissing("timeStamp")
	}
	systolic, ok := raw.intField("systolic")
	if !ok {
		return nil, skipMissing("systolic")
	}
	diastolic, ok := raw.intField("diastolic")
	if !ok {
		return nil, skipMissing("diastolic")
	}
	pulse, ok := raw.intField("pulseRate")
	if !ok {
		return nil, skipMissing("pulseRate")
	}

	ts, err := units.EpochMillisToTime(ms)
	if err != nil {
		return nil, skipForError(err)
	}

	return &domain.BloodPressure{
		UserID:    nctx.UserID,
		Timestamp: ts,
		Systolic:  systolic,
		Diastolic: diastolic,
		PulseRate: pulse,
		Category:  derive.BPCategory(systolic, diastolic),
	}, nil
}
