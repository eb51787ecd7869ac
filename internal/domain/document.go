// Package domain defines the canonical health telemetry documents and their
// dedup identity.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Collection names the stored collection a document belongs to. Each
// collection maps to one Postgres table with a unique constraint over the
// dedup key columns.
type Collection string

const (
	CollectionActivity        Collection = "activity_summaries"
	CollectionBloodGlucose    Collection = "blood_glucose_readings"
	CollectionBloodPressure   Collection = "blood_pressure_readings"
	CollectionBodyComposition Collection = "body_compositions"
	CollectionHeartRate       Collection = "heart_rate_summaries"
	CollectionSleepSession    Collection = "sleep_sessions"
	CollectionUserProfile     Collection = "user_profiles"
)

// KeyField is one component of a dedup key.
type KeyField struct {
	Name  string
	Value any
}

// Key is the ordered field tuple that uniquely identifies a document within
// its collection. It is passed verbatim as the upsert match filter.
type Key []KeyField

// String renders the key in a stable form usable as a map key or worker
// routing hash input.
func (k Key) String() string {
	parts := make([]string, 0, len(k))
	for _, f := range k {
		parts = append(parts, fmt.Sprintf("%s=%v", f.Name, f.Value))
	}
	return strings.Join(parts, "|")
}

// Document is the canonical, unit-converted, derived-field-complete
// representation of one raw record, ready for storage.
type Document interface {
	Collection() Collection
	Key() Key
	// Stamp records the write timestamps. Stores call it so created_at is
	// only ever set on insert.
	Stamp(created, updated time.Time)
}

// Meta carries the write timestamps common to every stored document.
type Meta struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stamp implements Document.
func (m *Meta) Stamp(created, updated time.Time) {
	m.CreatedAt = created
	m.UpdatedAt = updated
}

// Created returns the insert timestamp.
func (m *Meta) Created() time.Time { return m.CreatedAt }

// Activity is a daily activity summary.
type Activity struct {
	UserID           string    `json:"user_id"`
	Timestamp        time.Time `json:"timestamp"`
	StepCount        int       `json:"step_count"`
	StepGoal         int       `json:"step_goal"`
	Calories         float64   `json:"calories"`
	ActiveMinutes    int       `json:"active_minutes"`
	StepGoalAchieved bool      `json:"step_goal_achieved"`
	Meta
}

func (a *Activity) Collection() Collection { return CollectionActivity }

func (a *Activity) Key() Key {
	return Key{{"user_id", a.UserID}, {"timestamp", a.Timestamp}}
}

// BloodGlucose is a single glucose reading.
type BloodGlucose struct {
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	ReadingID string    `json:"reading_id"`
	Value     float64   `json:"bg_value"`
	TypeCode  int       `json:"bg_type"`
	TypeLabel string    `json:"bg_type_label"`
	HbA1c     *float64  `json:"hba1c,omitempty"`
	Meta
}

func (g *BloodGlucose) Collection() Collection { return CollectionBloodGlucose }

func (g *BloodGlucose) Key() Key {
	return Key{{"user_id", g.UserID}, {"timestamp", g.Timestamp}}
}

// BloodPressure is a single blood pressure reading.
type BloodPressure struct {
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Systolic  int       `json:"systolic"`
	Diastolic int       `json:"diastolic"`
	PulseRate int       `json:"pulse_rate"`
	Category  string    `json:"bp_category"`
	Meta
}

func (p *BloodPressure) Collection() Collection { return CollectionBloodPressure }

func (p *BloodPressure) Key() Key {
	return Key{{"user_id", p.UserID}, {"timestamp", p.Timestamp}}
}

// BodyComposition is a weight measurement enriched with BMI derived from the
// user's profile height.
type BodyComposition struct {
	UserID       string    `json:"user_id"`
	Timestamp    time.Time `json:"timestamp"`
	WeightLbs    float64   `json:"weight_lbs"`
	WeightKg     float64   `json:"weight_kg"`
	HeightMeters float64   `json:"height_m"`
	BMI          float64   `json:"bmi"`
	BMICategory  string    `json:"bmi_category"`
	Meta
}

func (b *BodyComposition) Collection() Collection { return CollectionBodyComposition }

func (b *BodyComposition) Key() Key {
	return Key{{"user_id", b.UserID}, {"timestamp", b.Timestamp}}
}

// HeartRate is a per-day heart rate summary.
type HeartRate struct {
	UserID  string `json:"user_id"`
	Date    string `json:"date"` // YYYY-MM-DD
	Avg     int    `json:"avg_heart_rate"`
	Min     int    `json:"min_heart_rate"`
	Max     int    `json:"max_heart_rate"`
	Resting *int   `json:"resting_heart_rate,omitempty"`
	Meta
}

func (h *HeartRate) Collection() Collection { return CollectionHeartRate }

func (h *HeartRate) Key() Key {
	return Key{{"user_id", h.UserID}, {"date", h.Date}}
}

// SleepSession is one recorded sleep interval.
type SleepSession struct {
	UserID        string    `json:"user_id"`
	SleepID       string    `json:"sleep_id"`
	Start         time.Time `json:"sleep_start"`
	End           time.Time `json:"sleep_end"`
	DurationHours float64   `json:"duration_hours"`
	Meta
}

func (s *SleepSession) Collection() Collection { return CollectionSleepSession }

func (s *SleepSession) Key() Key {
	return Key{{"user_id", s.UserID}, {"sleep_id", s.SleepID}}
}

// UserProfile is the per-user demographic and unit preference document.
type UserProfile struct {
	UserID       string  `json:"user_id"`
	Age          int     `json:"age"`
	Gender       string  `json:"gender"`
	HeightCm     float64 `json:"height_cm"`
	HeightMeters float64 `json:"height_m"`
	WeightUnit   string  `json:"weight_unit"`
	HeightUnit   string  `json:"height_unit"`
	Meta
}

func (u *UserProfile) Collection() Collection { return CollectionUserProfile }

func (u *UserProfile) Key() Key {
	return Key{{"user_id", u.UserID}}
}
