// Package source supplies raw sync batches to the pipeline: a Kafka
// consumer for live device-sync traffic and a blob-store poller for
// backfill.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"example.com/healthsync/internal/normalize"
)

// ErrEndOfStream signals a finite source has no further batches.
var ErrEndOfStream = errors.New("end of stream")

// RawBatch is one device-sync payload: the owning user plus their
// heterogeneous per-metric records.
type RawBatch struct {
	UserID  string                `json:"user_id"`
	Records []normalize.RawRecord `json:"records"`
}

// RawRecordSource yields raw batches until ErrEndOfStream.
type RawRecordSource interface {
	NextBatch(ctx context.Context) (*RawBatch, error)
}

// DecodeBatch parses a JSON sync payload and validates the envelope.
func DecodeBatch(data []byte) (*RawBatch, error) {
	var batch RawBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	if batch.UserID == "" {
		return nil, errors.New("batch missing user_id")
	}
	return &batch, nil
}
