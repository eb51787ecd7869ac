package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/healthsync/internal/derive"
	"example.com/healthsync/internal/domain"
)

var testCtx = Context{UserID: "user-1", HeightMeters: 1.75}

func activityFields() map[string]any {
	return map[string]any{
		"timeStamp":      float64(1700000000000),
		"dailyStepCount": float64(10000),
		"dailyStepGoal":  float64(10000),
		"caloriesBurned": 420.5,
		"activeMinutes":  float64(63),
	}
}

func TestActivityNormalize(t *testing.T) {
	n := &ActivityNormalizer{ZeroGoalAchieves: true}

	doc, skip := n.Normalize(RawRecord{Kind: KindActivity, Fields: activityFields()}, testCtx)
	require.Nil(t, skip)

	activity, ok := doc.(*domain.Activity)
	require.True(t, ok)
	require.Equal(t, "user-1", activity.UserID)
	require.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), activity.Timestamp)
	require.Equal(t, 10000, activity.StepCount)
	require.True(t, activity.StepGoalAchieved)
	require.Equal(t, 420.5, activity.Calories)
}

func TestActivityNormalizeStepGoalBoundary(t *testing.T) {
	n := &ActivityNormalizer{ZeroGoalAchieves: true}

	fields := activityFields()
	fields["dailyStepCount"] = float64(9999)
	doc, skip := n.Normalize(RawRecord{Kind: KindActivity, Fields: fields}, testCtx)
	require.Nil(t, skip)
	require.False(t, doc.(*domain.Activity).StepGoalAchieved)
}

func TestActivityNormalizeDropsMissingRequiredField(t *testing.T) {
	n := &ActivityNormalizer{}

	for _, field := range []string{"timeStamp", "dailyStepCount", "dailyStepGoal", "caloriesBurned", "activeMinutes"} {
		fields := activityFields()
		delete(fields, field)

		doc, skip := n.Normalize(RawRecord{Kind: KindActivity, Fields: fields}, testCtx)
		require.Nil(t, doc, "field %s", field)
		require.NotNil(t, skip, "field %s", field)
		require.Equal(t, ReasonMissingField, skip.Reason)
		require.Equal(t, field, skip.Detail)
	}
}

func TestActivityNormalizeNullFieldCountsAsMissing(t *testing.T) {
	n := &ActivityNormalizer{}

	fields := activityFields()
	fields["dailyStepCount"] = nil
	doc, skip := n.Normalize(RawRecord{Kind: KindActivity, Fields: fields}, testCtx)
	require.Nil(t, doc)
	require.Equal(t, ReasonMissingField, skip.Reason)
}

func TestActivityNormalizeRejectsNegativeTimestamp(t *testing.T) {
	n := &ActivityNormalizer{}

	fields := activityFields()
	fields["timeStamp"] = float64(-5)
	doc, skip := n.Normalize(RawRecord{Kind: KindActivity, Fields: fields}, testCtx)
	require.Nil(t, doc)
	require.Equal(t, ReasonInvalidUnit, skip.Reason)
}

func TestBloodGlucoseNormalize(t *testing.T) {
	n := &BloodGlucoseNormalizer{}

	doc, skip := n.Normalize(RawRecord{Kind: KindBloodGlucose, Fields: map[string]any{
		"timeStamp":  float64(1700000000000),
		"reading_id": "r-42",
		"bg_value":   5.4,
		"bg_type":    float64(90003),
	}}, testCtx)
	require.Nil(t, skip)

	glucose := doc.(*domain.BloodGlucose)
	require.Equal(t, "r-42", glucose.ReadingID)
	require.Equal(t, 90003, glucose.TypeCode)
	require.Equal(t, "fasting", glucose.TypeLabel)
	require.Nil(t, glucose.HbA1c)
}

func TestBloodGlucoseNormalizeLabels(t *testing.T) {
	n := &BloodGlucoseNormalizer{}

	cases := map[float64]string{
		-1:    "unknown",
		90001: "before_meal",
		90002: "after_meal",
		90003: "fasting",
	}
	for code, label := range cases {
		doc, skip := n.Normalize(RawRecord{Fields: map[string]any{
			"timeStamp":  float64(1700000000000),
			"reading_id": "r-1",
			"bg_value":   6.1,
			"bg_type":    code,
		}}, testCtx)
		require.Nil(t, skip, "code %v", code)
		require.Equal(t, label, doc.(*domain.BloodGlucose).TypeLabel)
	}
}

func TestBloodGlucoseNormalizeOptionalHbA1c(t *testing.T) {
	n := &BloodGlucoseNormalizer{}

	doc, skip := n.Normalize(RawRecord{Fields: map[string]any{
		"timeStamp":  float64(1700000000000),
		"reading_id": "r-1",
		"bg_value":   6.1,
		"bg_type":    float64(-1),
		"hba1c":      5.9,
	}}, testCtx)
	require.Nil(t, skip)
	require.NotNil(t, doc.(*domain.BloodGlucose).HbA1c)
	require.Equal(t, 5.9, *doc.(*domain.BloodGlucose).HbA1c)
}

func TestBloodGlucoseNormalizeRejectsUnknownCode(t *testing.T) {
	n := &BloodGlucoseNormalizer{}

	doc, skip := n.Normalize(RawRecord{Fields: map[string]any{
		"timeStamp":  float64(1700000000000),
		"reading_id": "r-1",
		"bg_value":   6.1,
		"bg_type":    float64(12345),
	}}, testCtx)
	require.Nil(t, doc)
	require.Equal(t, ReasonInvalidInput, skip.Reason)
}

func TestBloodPressureNormalize(t *testing.T) {
	n := &BloodPressureNormalizer{}

	doc, skip := n.Normalize(RawRecord{Fields: map[string]any{
		"timeStamp": float64(1700000000000),
		"systolic":  float64(142),
		"diastolic": float64(76),
		"pulseRate": float64(68),
	}}, testCtx)
	require.Nil(t, skip)

	pressure := doc.(*domain.BloodPressure)
	require.Equal(t, 142, pressure.Systolic)
	require.Equal(t, derive.BPHighStage2, pressure.Category)
}

func TestBodyCompositionNormalize(t *testing.T) {
	n := &BodyCompositionNormalizer{}

	doc, skip := n.Normalize(RawRecord{Fields: map[string]any{
		"timeStamp": float64(1700000000000),
		"weightLbs": 154.324,
	}}, testCtx)
	require.Nil(t, skip)

	body := doc.(*domain.BodyComposition)
	require.InDelta(t, 70.0, body.WeightKg, 0.01)
	require.InDelta(t, 22.86, body.BMI, 0.01)
	require.Equal(t, derive.BMINormal, body.BMICategory)
	require.Equal(t, 1.75, body.HeightMeters)
}

func TestBodyCompositionNormalizeRequiresProfileHeight(t *testing.T) {
	n := &BodyCompositionNormalizer{}

	doc, skip := n.Normalize(RawRecord{Fields: map[string]any{
		"timeStamp": float64(1700000000000),
		"weightLbs": 154.324,
	}}, Context{UserID: "user-1"})
	require.Nil(t, doc)
	require.Equal(t, ReasonMissingField, skip.Reason)
}

func TestHeartRateNormalize(t *testing.T) {
	n := &HeartRateNormalizer{}

	doc, skip := n.Normalize(RawRecord{Fields: map[string]any{
		"date":         "2024-03-01",
		"avgHeartRate": float64(62),
		"minHeartRate": float64(48),
		"maxHeartRate": float64(141),
	}}, testCtx)
	require.Nil(t, skip)

	hr := doc.(*domain.HeartRate)
	require.Equal(t, "2024-03-01", hr.Date)
	require.Equal(t, 62, hr.Avg)
	// Resting is a passthrough; absent in input means absent in output.
	require.Nil(t, hr.Resting)
}

func TestHeartRateNormalizeRestingPassthrough(t *testing.T) {
	n := &HeartRateNormalizer{}

	doc, skip := n.Normalize(RawRecord{Fields: map[string]any{
		"date":             "2024-03-01",
		"avgHeartRate":     float64(62),
		"minHeartRate":     float64(48),
		"maxHeartRate":     float64(141),
		"restingHeartRate": float64(51),
	}}, testCtx)
	require.Nil(t, skip)
	require.NotNil(t, doc.(*domain.HeartRate).Resting)
	require.Equal(t, 51, *doc.(*domain.HeartRate).Resting)
}

func TestHeartRateNormalizeRejectsBadDate(t *testing.T) {
	n := &HeartRateNormalizer{}

	doc, skip := n.Normalize(RawRecord{Fields: map[string]any{
		"date":         "03/01/2024",
		"avgHeartRate": float64(62),
		"minHeartRate": float64(48),
		"maxHeartRate": float64(141),
	}}, testCtx)
	require.Nil(t, doc)
	require.Equal(t, ReasonInvalidInput, skip.Reason)
}

func TestSleepNormalize(t *testing.T) {
	n := &SleepNormalizer{}

	start := time.Date(2024, 3, 1, 22, 30, 0, 0, time.UTC)
	end := start.Add(7*time.Hour + 30*time.Minute)

	doc, skip := n.Normalize(RawRecord{Fields: map[string]any{
		"sleepId":    "s-9",
		"sleepStart": float64(start.UnixMilli()),
		"sleepEnd":   float64(end.UnixMilli()),
	}}, testCtx)
	require.Nil(t, skip)

	sleep := doc.(*domain.SleepSession)
	require.Equal(t, "s-9", sleep.SleepID)
	require.InDelta(t, 7.5, sleep.DurationHours, 1e-9)
}

func TestSleepNormalizeRejectsInvertedInterval(t *testing.T) {
	n := &SleepNormalizer{}

	doc, skip := n.Normalize(RawRecord{Fields: map[string]any{
		"sleepId":    "s-9",
		"sleepStart": float64(1700000000000),
		"sleepEnd":   float64(1699990000000),
	}}, testCtx)
	require.Nil(t, doc)
	require.Equal(t, ReasonInvalidRange, skip.Reason)
}

func TestProfileNormalize(t *testing.T) {
	n := &ProfileNormalizer{}

	doc, skip := n.Normalize(RawRecord{Fields: map[string]any{
		"age":        float64(34),
		"gender":     "female",
		"heightCm":   float64(175),
		"weightUnit": "lbs",
		"heightUnit": "cm",
	}}, testCtx)
	require.Nil(t, skip)

	profile := doc.(*domain.UserProfile)
	require.Equal(t, 34, profile.Age)
	require.InDelta(t, 1.75, profile.HeightMeters, 1e-9)
}

func TestRegistryCoversEveryKind(t *testing.T) {
	registry := NewRegistry(Options{})

	for _, kind := range []Kind{
		KindActivity, KindBloodGlucose, KindBloodPressure, KindBodyComposition,
		KindHeartRate, KindSleep, KindProfile,
	} {
		_, ok := registry.Lookup(kind)
		require.True(t, ok, "kind %s", kind)
	}

	_, ok := registry.Lookup(Kind("ecg"))
	require.False(t, ok)
}
