// Package units provides the pure unit conversions applied during
// normalization.
package units

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidUnit indicates a conversion input outside the accepted range.
// Callers drop the offending record rather than surfacing the error.
var ErrInvalidUnit = errors.New("invalid unit value")

const lbsPerKg = 2.20462262185

// EpochMillisToTime converts a device epoch-millisecond timestamp to UTC.
func EpochMillisToTime(ms float64) (time.Time, error) {
	if ms < 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, fmt.Errorf("%w: epoch millis %v", ErrInvalidUnit, ms)
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}

// PoundsToKg converts a weight in pounds to kilograms.
func PoundsToKg(lbs float64) (float64, error) {
	if lbs < 0 || math.IsNaN(lbs) || math.IsInf(lbs, 0) {
		return 0, fmt.Errorf("%w: pounds %v", ErrInvalidUnit, lbs)
	}
	return lbs / lbsPerKg, nil
}

// CmToMeters converts a height in centimeters to meters.
func CmToMeters(cm float64) (float64, error) {
	if cm < 0 || math.IsNaN(cm) || math.IsInf(cm, 0) {
		return 0, fmt.Errorf("%w: centimeters %v", ErrInvalidUnit, cm)
	}
	return cm / 100, nil
}
