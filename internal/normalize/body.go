package normalize

import (
	"example.com/healthsync/internal/derive"
	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/units"
)

// BodyCompositionNormalizer maps weight measurements. The user's profile
// height is a required collaborator input: without it BMI cannot be derived
// and the record is dropped.
type BodyCompositionNormalizer struct{}

// Normalize implements Normalizer.
func (n *BodyCompositionNormalizer) Normalize(raw RawRecord, nctx Context) (domain.Document, *Skip) {
	ms, ok := raw.floatField("timeStamp")
	if !ok {
		return nil, skipMissing("timeStamp")
	}
	weightLbs, ok := raw.floatField("weightLbs")
	if !ok {
		return nil, skipMissing("weightLbs")
	}
	if nctx.HeightMeters == 0 {
		return nil, skipMissing("height_m (profile)")
	}

	ts, err := units.EpochMillisToTime(ms)
	if err != nil {
		return nil, skipForError(err)
	}
	weightKg, err := units.PoundsToKg(weightLbs)
	if err != nil {
		return nil, skipForError(err)
	}
	bmi, err := derive.BMI(weightKg, nctx.HeightMeters)
	if err != nil {
		return nil, skipForError(err)
	}

	return &domain.BodyComposition{
		UserID:       nctx.UserID,
		Timestamp:    ts,
		WeightLbs:    weightLbs,
		WeightKg:     weightKg,
		HeightMeters: nctx.HeightMeters,
		BMI:          bmi,
		BMICategory:  derive.BMICategory(bmi),
	}, nil
}
