package source

import (
	"context"
	"errors"
	"log"

	"github.com/segmentio/kafka-go"
)

// Reader exposes the minimal kafka.Reader interface needed by the consumer.
type Reader interface {
	FetchMessage(context.Context) (kafka.Message, error)
	CommitMessages(context.Context, ...kafka.Message) error
	Close() error
}

// BatchHandler receives decoded sync batches.
type BatchHandler interface {
	HandleBatch(context.Context, *RawBatch) error
}

// ConsumerOption configures optional behaviour for the Consumer.
type ConsumerOption func(*Consumer)

// WithConsumerLogger overrides the logger used to report errors.
func WithConsumerLogger(logger *log.Logger) ConsumerOption {
	return func(c *Consumer) { c.logger = logger }
}

// Consumer pulls sync batches from Kafka and dispatches them to a handler.
// Offsets are only committed after the handler succeeds; an uncommitted
// batch is redelivered on restart or rebalance, and the keyed upsert makes
// redelivery harmless.
type Consumer struct {
	reader  Reader
	handler BatchHandler
	logger  *log.Logger
}

// NewConsumer constructs a Consumer with the provided reader and handler.
func NewConsumer(reader Reader, handler BatchHandler, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		reader:  reader,
		handler: handler,
		logger:  log.New(log.Writer(), "[source] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run starts a blocking loop that processes messages until the context is
// cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			c.logger.Printf("fetch error: %v", err)
			continue
		}

		batch, decodeErr := DecodeBatch(msg.Value)
		if decodeErr != nil {
			c.logger.Printf("decode error (topic=%s, partition=%d, offset=%d): %v", msg.Topic, msg.Partition, msg.Offset, decodeErr)
			recordDecodeError(msg.Topic)
			// Commit malformed messages to avoid poison-pill loops.
			if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
				c.logger.Printf("commit error after decode failure: %v", commitErr)
			}
			continue
		}

		if handleErr := c.handler.HandleBatch(ctx, batch); handleErr != nil {
			c.logger.Printf("handler error (user=%s, records=%d): %v", batch.UserID, len(batch.Records), handleErr)
			recordHandlerError(msg.Topic)
			continue
		}

		if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
			c.logger.Printf("commit error: %v", commitErr)
		} else {
			recordBatchConsumed("kafka", msg.Time)
		}
	}
}
