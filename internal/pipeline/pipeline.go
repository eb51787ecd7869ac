// Package pipeline orchestrates raw sync batches through normalization,
// key extraction, and idempotent upserts, collecting per-record outcomes
// without aborting a batch on individual failures.
package pipeline

import (
	"context"
	"errors"
	"hash/fnv"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/normalize"
	"example.com/healthsync/internal/store"
)

const defaultMaxErrorDetails = 16

// Option configures optional behaviour for the Pipeline.
type Option func(*Pipeline)

// WithLogger overrides the logger used to report per-record failures.
func WithLogger(logger *log.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithWorkers sets the upsert worker count. Records sharing a dedup key are
// always confined to one worker so batch-arrival order is preserved.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithMaxErrorDetails bounds the diagnostics list in BatchResult.
func WithMaxErrorDetails(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxErrors = n
		}
	}
}

// Pipeline runs raw records through normalize -> key -> upsert.
type Pipeline struct {
	registry    *normalize.Registry
	coordinator *Coordinator
	storage     store.Storage
	workers     int
	maxErrors   int
	logger      *log.Logger
}

// New constructs a Pipeline. The storage collaborator is consulted directly
// only for the profile height lookup body composition normalization needs;
// all writes go through the coordinator.
func New(registry *normalize.Registry, coordinator *Coordinator, storage store.Storage, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry:    registry,
		coordinator: coordinator,
		storage:     storage,
		workers:     4,
		maxErrors:   defaultMaxErrorDetails,
		logger:      log.New(log.Writer(), "[pipeline] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type task struct {
	index int
	kind  normalize.Kind
	doc   domain.Document
}

// Run processes one user's raw batch. Every record produces exactly one
// outcome; a skip or storage failure never halts the remainder.
func (p *Pipeline) Run(ctx context.Context, userID string, records []normalize.RawRecord) BatchResult {
	start := time.Now()
	result := BatchResult{BatchID: uuid.NewString(), UserID: userID}
	outcomes := make([]RecordOutcome, len(records))

	tasks := p.normalizeAll(ctx, userID, records, outcomes)
	p.applyAll(ctx, tasks, outcomes)

	for i, out := range outcomes {
		recordOutcome(out)
		switch out.Status {
		case StatusApplied:
			result.Applied++
			if out.Upsert == store.OutcomeInserted {
				result.Inserted++
			} else {
				result.Updated++
			}
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
			if len(result.Errors) < p.maxErrors {
				result.Errors = append(result.Errors, ErrorDetail{Index: i, Kind: out.Kind, Reason: out.Reason})
			} else {
				result.ErrorsTruncated = true
			}
		}
	}

	observeBatch(time.Since(start), len(records))
	return result
}

// normalizeAll maps every raw record to either a worker task or a terminal
// skip/failure outcome. Normalization is pure and cheap, so it runs
// sequentially before the upsert workers start.
func (p *Pipeline) normalizeAll(ctx context.Context, userID string, records []normalize.RawRecord, outcomes []RecordOutcome) []task {
	nctx := normalize.Context{UserID: userID}
	heightResolved := false
	var heightErr error

	tasks := make([]task, 0, len(records))
	for i, raw := range records {
		normalizer, ok := p.registry.Lookup(raw.Kind)
		if !ok {
			outcomes[i] = RecordOutcome{
				Status: StatusSkipped,
				Kind:   raw.Kind,
				Reason: string(normalize.ReasonUnknownKind),
			}
			continue
		}

		if raw.Kind == normalize.KindBodyComposition {
			if !heightResolved {
				nctx.HeightMeters, heightErr = p.profileHeight(ctx, userID)
				heightResolved = true
			}
			if heightErr != nil {
				outcomes[i] = RecordOutcome{
					Status: StatusFailed,
					Kind:   raw.Kind,
					Reason: failureReason(heightErr),
					Err:    heightErr,
				}
				continue
			}
		}

		doc, skip := normalizer.Normalize(raw, nctx)
		if skip != nil {
			p.logger.Printf("record %d skipped (kind=%s, user=%s): %s", i, raw.Kind, userID, skip)
			outcomes[i] = RecordOutcome{
				Status: StatusSkipped,
				Kind:   raw.Kind,
				Reason: string(skip.Reason),
			}
			continue
		}
		tasks = append(tasks, task{index: i, kind: raw.Kind, doc: doc})
	}
	return tasks
}

// applyAll fans tasks out to upsert workers. Routing by key hash keeps
// records with equal dedup keys on one worker in arrival order
// (last-write-wins); distinct keys proceed in parallel.
func (p *Pipeline) applyAll(ctx context.Context, tasks []task, outcomes []RecordOutcome) {
	if len(tasks) == 0 {
		return
	}

	workers := p.workers
	if workers > len(tasks) {
		workers = len(tasks)
	}

	channels := make([]chan task, workers)
	var wg sync.WaitGroup
	for w := range channels {
		channels[w] = make(chan task)
		wg.Add(1)
		go func(ch <-chan task) {
			defer wg.Done()
			for t := range ch {
				outcomes[t.index] = p.apply(ctx, t)
			}
		}(channels[w])
	}

	for _, t := range tasks {
		channels[workerFor(t.doc.Key(), workers)] <- t
	}
	for _, ch := range channels {
		close(ch)
	}
	wg.Wait()
}

func (p *Pipeline) apply(ctx context.Context, t task) RecordOutcome {
	outcome, err := p.coordinator.Apply(ctx, t.doc)
	if err != nil {
		reason := failureReason(err)
		if reason == FailureConstraint {
			p.logger.Printf("constraint violation (collection=%s, key=%s): %v", t.doc.Collection(), t.doc.Key(), err)
		} else {
			p.logger.Printf("upsert failed (collection=%s, reason=%s): %v", t.doc.Collection(), reason, err)
		}
		return RecordOutcome{
			Status:     StatusFailed,
			Kind:       t.kind,
			Collection: t.doc.Collection(),
			Reason:     reason,
			Err:        err,
		}
	}
	return RecordOutcome{
		Status:     StatusApplied,
		Kind:       t.kind,
		Collection: t.doc.Collection(),
		Upsert:     outcome,
	}
}

// profileHeight resolves the user's stored profile height once per batch.
// A missing profile leaves the height unknown so the normalizer drops the
// record; any other storage error fails the batch's body records.
func (p *Pipeline) profileHeight(ctx context.Context, userID string) (float64, error) {
	height, err := p.storage.UserHeightMeters(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return height, nil
}

func workerFor(key domain.Key, workers int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key.String()))
	return int(h.Sum32() % uint32(workers))
}
