package normalize

import (
	"example.com/healthsync/internal/derive"
	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/units"
)

// SleepNormalizer maps sleep sessions keyed by the source's session id.
type SleepNormalizer struct{}

// Normalize implements Normalizer.
func (n *SleepNormalizer) Normalize(raw RawRecord, nctx Context) (domain.Document, *Skip) {
	sleepID, ok := raw.stringField("sleepId")
	if !ok {
		return nil, skipMissing("sleepId")
	}
	startMs, ok := raw.floatField("sleepStart")
	if !ok {
		return nil, skipMissing("sleepStart")
	}
	endMs, ok := raw.floatField("sleepEnd")
	if !ok {
		return nil, skipMissing("sleepEnd")
	}

	start, err := units.EpochMillisToTime(startMs)
	if err != nil {
		return nil, skipForError(err)
	}
	end, err := units.EpochMillisToTime(endMs)
	if err != nil {
		return nil, skipForError(err)
	}
	hours, err := derive.SleepDurationHours(start, end)
	if err != nil {
		return nil, skipForError(err)
	}

	return &domain.SleepSession{
		UserID:        nctx.UserID,
		SleepID:       sleepID,
		Start:         start,
		End:           end,
		DurationHours: hours,
	}, nil
}
