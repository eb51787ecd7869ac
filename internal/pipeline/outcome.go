package pipeline

import (
	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/normalize"
	"example.com/healthsync/internal/store"
)

// Status is the terminal per-record outcome.
type Status string

const (
	StatusApplied Status = "applied"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Failure reasons reported for records that reached storage and did not
// land.
const (
	FailureUnavailable = "storage_unavailable"
	FailureConstraint  = "constraint_violation"
	FailureTimeout     = "timeout"
	FailureCanceled    = "canceled"
)

// RecordOutcome describes what happened to a single raw record.
type RecordOutcome struct {
	Status     Status
	Kind       normalize.Kind
	Collection domain.Collection
	// Reason is the skip or failure reason; empty for applied records.
	Reason string
	// Upsert reports inserted vs updated for applied records.
	Upsert store.Outcome
	Err    error
}

// ErrorDetail is one bounded diagnostics entry in a BatchResult.
type ErrorDetail struct {
	Index  int            `json:"index"`
	Kind   normalize.Kind `json:"kind"`
	Reason string         `json:"reason"`
}

// BatchResult aggregates per-record outcomes for one pipeline run.
type BatchResult struct {
	BatchID  string        `json:"batch_id"`
	UserID   string        `json:"user_id"`
	Applied  int           `json:"applied"`
	Inserted int           `json:"inserted"`
	Updated  int           `json:"updated"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Errors   []ErrorDetail `json:"errors,omitempty"`
	// ErrorsTruncated reports that more failures occurred than the bounded
	// Errors list holds.
	ErrorsTruncated bool `json:"errors_truncated,omitempty"`
}
