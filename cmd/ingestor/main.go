package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/segmentio/kafka-go"

	"example.com/healthsync/internal/config"
	"example.com/healthsync/internal/normalize"
	"example.com/healthsync/internal/pipeline"
	"example.com/healthsync/internal/source"
	"example.com/healthsync/internal/store/postgres"
	httptransport "example.com/healthsync/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := postgres.RunMigrations(cfg.PostgresURL, cfg.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	storage := postgres.NewStore(pool)
	registry := normalize.NewRegistry(normalize.Options{StepGoalZeroAchieves: cfg.StepGoalZeroAchieves})
	coordinator := pipeline.NewCoordinator(storage, cfg.UpsertTimeout)
	pipe := pipeline.New(registry, coordinator, storage,
		pipeline.WithWorkers(cfg.PipelineWorkers),
		pipeline.WithMaxErrorDetails(cfg.MaxErrorDetails),
	)

	metricsSrv := httptransport.NewOpsServer(httptransport.ServerConfig{
		Address:      cfg.MetricsAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	go func() {
		log.Printf("ingestor metrics listening on %s", cfg.MetricsAddress)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()

	var wg sync.WaitGroup
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:         cfg.KafkaBrokers,
		GroupID:         cfg.ConsumerGroupID,
		Topic:           cfg.ConsumerTopic,
		MinBytes:        1e3,
		MaxBytes:        10e6,
		CommitInterval:  time.Second,
		RetentionTime:   24 * time.Hour,
		ReadLagInterval: -1,
	})

	cons := source.NewConsumer(reader, &batchHandler{pipeline: pipe})

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer reader.Close()

		log.Printf("ingestor started (topic=%s, group=%s)", cfg.ConsumerTopic, cfg.ConsumerGroupID)
		if err := cons.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("ingestor stopped with error: %v", err)
		}
	}()

	<-stop
	log.Println("ingestor shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("metrics server shutdown error: %v", err)
	}

	wg.Wait()
}

// batchHandler feeds consumed sync batches through the pipeline. A batch
// with failed records returns an error so its offset stays uncommitted and
// the batch is redelivered on restart or rebalance; the keyed upsert makes
// the retry idempotent.
type batchHandler struct {
	pipeline *pipeline.Pipeline
}

func (h *batchHandler) HandleBatch(ctx context.Context, batch *source.RawBatch) error {
	res := h.pipeline.Run(ctx, batch.UserID, batch.Records)
	log.Printf("batch %s (user=%s): applied=%d (inserted=%d, updated=%d) skipped=%d failed=%d",
		res.BatchID, res.UserID, res.Applied, res.Inserted, res.Updated, res.Skipped, res.Failed)
	if res.Failed > 0 {
		return fmt.Errorf("%d of %d records failed", res.Failed, len(batch.Records))
	}
	return nil
}
