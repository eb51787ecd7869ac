package pipeline

import (
	"context"
	"errors"
	"time"

	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/observability"
	"example.com/healthsync/internal/store"
)

// Coordinator applies one canonical document as an idempotent keyed upsert,
// bounded by a per-call deadline. It stamps the write time; the storage
// collaborator guarantees created_at is only ever written on insert.
type Coordinator struct {
	storage store.Storage
	timeout time.Duration
	clock   func() time.Time
}

// NewCoordinator constructs a Coordinator. A zero timeout disables the
// per-call deadline.
func NewCoordinator(storage store.Storage, timeout time.Duration) *Coordinator {
	return &Coordinator{
		storage: storage,
		timeout: timeout,
		clock:   func() time.Time { return time.Now().UTC() },
	}
}

// Apply performs the upsert and reports whether the document was inserted
// or updated.
func (c *Coordinator) Apply(ctx context.Context, doc domain.Document) (store.Outcome, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	outcome, err := c.storage.Upsert(ctx, doc, c.clock())
	observeUpsert(doc.Collection(), time.Since(start), err == nil)
	if err != nil {
		return "", err
	}

	observability.RecordDocumentPersisted(doc.Collection(), c.clock())
	return outcome, nil
}

// failureReason folds an upsert error into the reported failure taxonomy.
func failureReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	case errors.Is(err, context.Canceled):
		return FailureCanceled
	case errors.Is(err, store.ErrConstraint):
		return FailureConstraint
	default:
		return FailureUnavailable
	}
}
