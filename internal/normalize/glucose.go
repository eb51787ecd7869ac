package normalize

import (
	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/units"
)

// bgTypeLabels maps the source's integer measurement-context codes to
// canonical labels. Unrecognized codes are dropped as invalid input rather
// than stored unlabelled.
var bgTypeLabels = map[int]string{
	-1:    "unknown",
	90001: "before_meal",
	90002: "after_meal",
	90003: "fasting",
}

// BloodGlucoseNormalizer maps glucose readings. The source emits snake_case
// field names for this metric.
type BloodGlucoseNormalizer struct{}

// Normalize implements Normalizer.
func (n *BloodGlucoseNormalizer) Normalize(raw RawRecord, nctx Context) (domain.Document, *Skip) {
	ms, ok := raw.floatField("timeStamp")
	if !ok {
		return nil, skipMissing("timeStamp")
	}
	readingID, ok := raw.stringField("reading_id")
	if !ok {
		return nil, skipMissing("reading_id")
	}
	value, ok := raw.floatField("bg_value")
	if !ok {
		return nil, skipMissing("bg_value")
	}
	typeCode, ok := raw.intField("bg_type")
	if !ok {
		return nil, skipMissing("bg_type")
	}

	label, known := bgTypeLabels[typeCode]
	if !known {
		return nil, &Skip{Reason: ReasonInvalidInput, Detail: "unrecognized bg_type code"}
	}

	ts, err := units.EpochMillisToTime(ms)
	if err != nil {
		return nil, skipForError(err)
	}

	doc := &domain.BloodGlucose{
		UserID:    nctx.UserID,
		Timestamp: ts,
		ReadingID: readingID,
		Value:     value,
		TypeCode:  typeCode,
		TypeLabel: label,
	}
	if hba1c, ok := raw.floatField("hba1c"); ok {
		doc.HbA1c = &hba1c
	}
	return doc, nil
}
