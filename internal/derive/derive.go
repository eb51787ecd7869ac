// Package derive computes categorization and summary fields from normalized
// raw values. Every function is a pure function of its inputs so stored
// derived fields can always be recomputed from the stored raw fields.
package derive

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInput indicates a derivation precondition violation. Callers
// drop the offending record rather than surfacing the error.
var ErrInvalidInput = errors.New("invalid derivation input")

// ErrInvalidRange indicates an interval whose end does not follow its start.
var ErrInvalidRange = errors.New("invalid time range")

// Blood pressure categories per the AHA threshold rules.
const (
	BPNormal     = "normal"
	BPElevated   = "elevated"
	BPHighStage1 = "high_stage_1"
	BPHighStage2 = "high_stage_2"
)

// BPCategory classifies a blood pressure reading. The checks run in strict
// priority order because the ranges overlap at their boundaries: Stage 2
// must win over Stage 1, and Stage 1 over Elevated.
func BPCategory(systolic, diastolic int) string {
	switch {
	case systolic >= 140 || diastolic >= 90:
		return BPHighStage2
	case (systolic >= 130 && systolic <= 139) || (diastolic >= 80 && diastolic <= 89):
		return BPHighStage1
	case systolic >= 120 && systolic <= 129 && diastolic < 80:
		return BPElevated
	default:
		return BPNormal
	}
}

// BMI computes the body mass index from weight in kilograms and height in
// meters.
func BMI(weightKg, heightM float64) (float64, error) {
	if heightM <= 0 {
		return 0, fmt.Errorf("%w: height %v m", ErrInvalidInput, heightM)
	}
	return weightKg / (heightM * heightM), nil
}

// BMI categories.
const (
	BMIUnderweight = "underweight"
	BMINormal      = "normal"
	BMIOverweight  = "overweight"
	BMIObese       = "obese"
)

// BMICategory buckets a BMI value.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}

// StepGoalAchieved reports whether the daily step goal was met.
// zeroGoalAchieves controls the goal == 0 edge: when true a zero goal is
// trivially achieved.
func StepGoalAchieved(steps, goal int, zeroGoalAchieves bool) bool {
	if goal == 0 {
		return zeroGoalAchieves
	}
	return steps >= goal
}

// SleepDurationHours returns the length of a sleep interval in hours.
func SleepDurationHours(start, end time.Time) (float64, error) {
	if !end.After(start) {
		return 0, fmt.Errorf("%w: sleep end %s not after start %s", ErrInvalidRange,
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return end.Sub(start).Hours(), nil
}
