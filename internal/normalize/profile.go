package normalize

import (
	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/units"
)

// ProfileNormalizer maps the per-user demographic and unit preference
// record. Its derived height in meters feeds body composition
// normalization.
type ProfileNormalizer struct{}

// Normalize implements Normalizer.
func (n *ProfileNormalizer) Normalize(raw RawRecord, nctx Context) (domain.Document, *Skip) {
	age, ok := raw.intField("age")
	if !ok {
		return nil, skipMissing("age")
	}
	gender, ok := raw.stringField("gender")
	if !ok {
		return nil, skipMissing("gender")
	}
	heightCm, ok := raw.floatField("heightCm")
	if !ok {
		return nil, skipMissing("heightCm")
	}
	weightUnit, ok := raw.stringField("weightUnit")
	if !ok {
		return nil, skipMissing("weightUnit")
	}
	heightUnit, ok := raw.stringField("heightUnit")
	if !ok {
		return nil, skipMissing("heightUnit")
	}

	heightM, err := units.CmToMeters(heightCm)
	if err != nil {
		return nil, skipForError(err)
	}

	return &domain.UserProfile{
		UserID:       nctx.UserID,
		Age:          age,
		Gender:       gender,
		HeightCm:     heightCm,
		HeightMeters: heightM,
		WeightUnit:   weightUnit,
		HeightUnit:   heightUnit,
	}, nil
}
