// Command backfill replays raw sync batch objects from a blob-store bucket
// through the same pipeline the live ingestor uses. Re-running a backfill
// is safe: every write is an idempotent keyed upsert.
package main

import (
	"context"
	"errors"
	"log"
	"os"

	gcs "cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/healthsync/internal/config"
	"example.com/healthsync/internal/normalize"
	"example.com/healthsync/internal/pipeline"
	"example.com/healthsync/internal/source"
	"example.com/healthsync/internal/store/postgres"
)

func main() {
	cfg := config.Load()
	if cfg.BackfillBucket == "" {
		log.Fatal("BACKFILL_BUCKET is required")
	}

	ctx := context.Background()

	if err := postgres.RunMigrations(cfg.PostgresURL, cfg.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	client, err := gcs.NewClient(ctx)
	if err != nil {
		log.Fatalf("failed to create storage client: %v", err)
	}
	defer client.Close()

	storage := postgres.NewStore(pool)
	registry := normalize.NewRegistry(normalize.Options{StepGoalZeroAchieves: cfg.StepGoalZeroAchieves})
	coordinator := pipeline.NewCoordinator(storage, cfg.UpsertTimeout)
	pipe := pipeline.New(registry, coordinator, storage,
		pipeline.WithWorkers(cfg.PipelineWorkers),
		pipeline.WithMaxErrorDetails(cfg.MaxErrorDetails),
	)

	src := source.NewBucketSource(client, cfg.BackfillBucket, cfg.BackfillPrefix, nil)

	var batches, applied, skipped, failed int
	for {
		batch, err := src.NextBatch(ctx)
		if errors.Is(err, source.ErrEndOfStream) {
			break
		}
		if err != nil {
			log.Fatalf("backfill aborted: %v", err)
		}

		res := pipe.Run(ctx, batch.UserID, batch.Records)
		log.Printf("batch %s (user=%s): applied=%d (inserted=%d, updated=%d) skipped=%d failed=%d",
			res.BatchID, res.UserID, res.Applied, res.Inserted, res.Updated, res.Skipped, res.Failed)

		batches++
		applied += res.Applied
		skipped += res.Skipped
		failed += res.Failed
	}

	log.Printf("backfill complete: batches=%d applied=%d skipped=%d failed=%d", batches, applied, skipped, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
