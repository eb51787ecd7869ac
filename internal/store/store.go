// Package store defines the storage collaborator contract: an atomic keyed
// upsert per collection and the profile height lookup normalization needs.
package store

import (
	"context"
	"errors"
	"time"

	"example.com/healthsync/internal/domain"
)

var (
	// ErrUnavailable marks a transient storage failure; the record is safe
	// to retry because the upsert is idempotent by key.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrConstraint marks a uniqueness violation outside the upsert's own
	// conflict target. It indicates a key derivation or schema bug and is
	// surfaced, never retried.
	ErrConstraint = errors.New("storage constraint violated")
	// ErrNotFound is returned by lookups with no matching document.
	ErrNotFound = errors.New("not found")
)

// Outcome reports whether an upsert created a new document or replaced the
// fields of an existing one.
type Outcome string

const (
	OutcomeInserted Outcome = "inserted"
	OutcomeUpdated  Outcome = "updated"
)

// Storage is the collaborator every upsert flows through. Upsert must be a
// single atomic conditional write: match on the document's dedup key,
// replace fields on match, insert otherwise, writing created_at only on
// insert and updated_at on every write using the supplied time.
type Storage interface {
	Upsert(ctx context.Context, doc domain.Document, now time.Time) (Outcome, error)
	// UserHeightMeters returns the height stored on the user's profile
	// document, or ErrNotFound.
	UserHeightMeters(ctx context.Context, userID string) (float64, error)
}
