// Package normalize maps raw per-metric device records into canonical
// documents. One normalizer variant exists per metric type; all implement
// the same contract and hold no mutable state across invocations.
package normalize

import (
	"errors"
	"fmt"

	"example.com/healthsync/internal/derive"
	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/units"
)

// Kind identifies the metric type of a raw record as labelled by the
// device-sync source.
type Kind string

const (
	KindActivity        Kind = "activity"
	KindBloodGlucose    Kind = "blood_glucose"
	KindBloodPressure   Kind = "blood_pressure"
	KindBodyComposition Kind = "body_composition"
	KindHeartRate       Kind = "heart_rate"
	KindSleep           Kind = "sleep"
	KindProfile         Kind = "profile"
)

// Reason classifies why a raw record was intentionally not persisted.
type Reason string

const (
	ReasonMissingField Reason = "missing_field"
	ReasonInvalidUnit  Reason = "invalid_unit"
	ReasonInvalidInput Reason = "invalid_input"
	ReasonInvalidRange Reason = "invalid_range"
	ReasonUnknownKind  Reason = "unknown_kind"
)

// Skip is the outcome for a raw record that fails required-field or
// derivation preconditions.
type Skip struct {
	Reason Reason
	Detail string
}

func (s *Skip) String() string {
	if s.Detail == "" {
		return string(s.Reason)
	}
	return fmt.Sprintf("%s: %s", s.Reason, s.Detail)
}

func skipMissing(field string) *Skip {
	return &Skip{Reason: ReasonMissingField, Detail: field}
}

// skipForError maps conversion and derivation failures onto skip reasons.
// Anything else is an invalid input.
func skipForError(err error) *Skip {
	reason := ReasonInvalidInput
	switch {
	case errors.Is(err, units.ErrInvalidUnit):
		reason = ReasonInvalidUnit
	case errors.Is(err, derive.ErrInvalidRange):
		reason = ReasonInvalidRange
	}
	return &Skip{Reason: reason, Detail: err.Error()}
}

// Context carries per-record collaborator data the raw payload does not
// contain: the owning user and, for body composition, the profile height.
type Context struct {
	UserID string
	// HeightMeters is the user's profile height; zero means unknown.
	HeightMeters float64
}

// Normalizer converts one raw record into a canonical document. Exactly one
// of the two results is non-nil; a skipped record produces no partial
// output.
type Normalizer interface {
	Normalize(raw RawRecord, nctx Context) (domain.Document, *Skip)
}

// Options tunes normalization behaviour.
type Options struct {
	// StepGoalZeroAchieves controls whether a zero step goal counts as
	// achieved.
	StepGoalZeroAchieves bool
}

// Registry selects the normalizer variant for a record kind.
type Registry struct {
	byKind map[Kind]Normalizer
}

// NewRegistry builds the full per-metric normalizer set.
func NewRegistry(opts Options) *Registry {
	return &Registry{byKind: map[Kind]Normalizer{
		KindActivity:        &ActivityNormalizer{ZeroGoalAchieves: opts.StepGoalZeroAchieves},
		KindBloodGlucose:    &BloodGlucoseNormalizer{},
		KindBloodPressure:   &BloodPressureNormalizer{},
		KindBodyComposition: &BodyCompositionNormalizer{},
		KindHeartRate:       &HeartRateNormalizer{},
		KindSleep:           &SleepNormalizer{},
		KindProfile:         &ProfileNormalizer{},
	}}
}

// Lookup returns the normalizer for the supplied kind, or false when the
// source emitted a kind this pipeline does not understand.
func (r *Registry) Lookup(kind Kind) (Normalizer, bool) {
	n, ok := r.byKind[kind]
	return n, ok
}
