package normalize

import (
	"example.com/healthsync/internal/derive"
	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/units"
)

// ActivityNormalizer maps daily activity summaries. The source emits
// camelCase field names with an epoch-millisecond timestamp.
type ActivityNormalizer struct {
	ZeroGoalAchieves bool
}

// Normalize implements Normalizer.
func (n *ActivityNormalizer) Normalize(raw RawRecord, nctx Context) (domain.Document, *Skip) {
	ms, ok := raw.floatField("timeStamp")
	if !ok {
		return nil, skipMissing("timeStamp")
	}
	steps, ok := raw.intField("dailyStepCount")
	if !ok {
		return nil, skipMissing("dailyStepCount")
	}
	goal, ok := raw.intField("dailyStepGoal")
	if !ok {
		return nil, skipMissing("dailyStepGoal")
	}
	calories, ok := raw.floatField("caloriesBurned")
	if !ok {
		return nil, skipMissing("caloriesBurned")
	}
	activeMinutes, ok := raw.intField("activeMinutes")
	if !ok {
		return nil, skipMissing("activeMinutes")
	}

	ts, err := units.EpochMillisToTime(ms)
	if err != nil {
		return nil, skipForError(err)
	}

	return &domain.Activity{
		UserID:           nctx.UserID,
		Timestamp:        ts,
		StepCount:        steps,
		StepGoal:         goal,
		Calories:         calories,
		ActiveMinutes:    activeMinutes,
		StepGoalAchieved: derive.StepGoalAchieved(steps, goal, n.ZeroGoalAchieves),
	}, nil
}
