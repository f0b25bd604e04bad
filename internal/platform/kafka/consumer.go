package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is one delivered record, decoupled from the franz-go types.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Timestamp time.Time
}

// Handler processes a delivered message. Returning nil commits the offset;
// returning an error leaves it uncommitted and stops commits for that
// partition for the rest of the fetch, so the record is redelivered after a
// restart or rebalance.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// ConsumerConfig describes a consumer group subscription. Every consumer
// group receives its own copy of each record, which gives independent
// services broadcast semantics on a shared topic.
type ConsumerConfig struct {
	Brokers []string
	Group   string
	Topic   string
}

// Consumer runs a consume loop for the lifetime of the process.
type Consumer struct {
	client  *kgo.Client
	handler Handler
	logger  *slog.Logger
	backoff time.Duration
	commit  func(ctx context.Context, recs ...*kgo.Record) error
}

// NewConsumer connects a consumer-group client. Auto-commit is disabled:
// offsets advance only after the handler succeeds.
func NewConsumer(cfg ConsumerConfig, handler Handler, logger *slog.Logger) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.Group),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return &Consumer{
		client:  client,
		handler: handler,
		logger:  logger,
		backoff: time.Second,
		commit:  client.CommitRecords,
	}, nil
}

// Run polls until ctx is canceled. Poll errors are logged and retried with
// backoff; the loop never terminates on its own.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.client.Close()

	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if errs := fetches.Errors(); len(errs) > 0 {
			for _, fe := range errs {
				c.logger.Error("fetch error",
					"topic", fe.Topic,
					"partition", fe.Partition,
					"error", fe.Err,
				)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff):
			}
			continue
		}

		var recs []*kgo.Record
		iter := fetches.RecordIter()
		for !iter.Done() {
			recs = append(recs, iter.Next())
		}
		c.processRecords(ctx, recs)
	}
}

type topicPartition struct {
	topic     string
	partition int32
}

// processRecords handles one fetch's records in order. Once a handler fails,
// the rest of that partition is skipped and nothing more is committed for
// it: committing a later offset would silently drop the failed record, since
// group commits cover everything below them. The skipped records come back
// with the failed one after a restart or rebalance.
//
// Commits run on a cancellation-free context so a shutdown mid-fetch does
// not turn an already-handled record into a replay.
func (c *Consumer) processRecords(ctx context.Context, recs []*kgo.Record) {
	failed := make(map[topicPartition]bool)
	for _, rec := range recs {
		tp := topicPartition{topic: rec.Topic, partition: rec.Partition}
		if failed[tp] {
			continue
		}

		msg := &Message{
			Topic:     rec.Topic,
			Partition: rec.Partition,
			Offset:    rec.Offset,
			Key:       rec.Key,
			Value:     rec.Value,
			Timestamp: rec.Timestamp,
		}
		if err := c.handler.Handle(ctx, msg); err != nil {
			failed[tp] = true
			c.logger.Error("message handling failed, offset not committed",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
			continue
		}
		if err := c.commit(context.WithoutCancel(ctx), rec); err != nil {
			c.logger.Error("offset commit failed",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
		}
	}
}
