package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Sender is the broker client owned by the publisher worker. It is satisfied
// by platform/kafka.Producer.
type Sender interface {
	Produce(ctx context.Context, topic string, key, value []byte) error
}

const (
	publishAttempts = 3
	publishTimeout  = 5 * time.Second
	retryBackoff    = 200 * time.Millisecond
)

// Publisher decouples request handling from broker I/O: Publish enqueues on
// a bounded channel and returns immediately, and a single background worker
// owns the long-lived broker client and drains the channel with retries.
// A full buffer drops the event with a logged error; publish failures never
// reach the HTTP caller.
type Publisher struct {
	sender  Sender
	topic   string
	logger  *slog.Logger
	metrics *Metrics
	queue   chan Envelope
}

// NewPublisher builds a publisher with a buffer of the given size.
// Metrics may be nil.
func NewPublisher(sender Sender, topic string, buffer int, logger *slog.Logger, metrics *Metrics) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{
		sender:  sender,
		topic:   topic,
		logger:  logger,
		metrics: metrics,
		queue:   make(chan Envelope, buffer),
	}
}

// Publish enqueues an envelope without blocking. Best-effort by contract:
// the caller's write has already committed and must not fail on broker
// trouble.
func (p *Publisher) Publish(e Envelope) {
	select {
	case p.queue <- e:
	default:
		if p.metrics != nil {
			p.metrics.Dropped.Inc()
		}
		p.logger.Error("event buffer full, dropping event",
			"event_id", e.EventID,
			"event_type", e.Type,
		)
	}
}

// Run drains the queue until ctx is canceled, then flushes whatever is still
// buffered before returning.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.drain()
			return ctx.Err()
		case e := <-p.queue:
			p.send(ctx, e)
		}
	}
}

func (p *Publisher) drain() {
	for {
		select {
		case e := <-p.queue:
			p.send(context.Background(), e)
		default:
			return
		}
	}
}

func (p *Publisher) send(ctx context.Context, e Envelope) {
	payload, err := json.Marshal(e)
	if err != nil {
		p.logger.Error("event marshal failed", "event_id", e.EventID, "error", err)
		return
	}

	var lastErr error
	for attempt := 1; attempt <= publishAttempts; attempt++ {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		lastErr = p.sender.Produce(sendCtx, p.topic, []byte(e.EventID), payload)
		cancel()
		if lastErr == nil {
			if p.metrics != nil {
				p.metrics.Published.Inc()
			}
			return
		}
		time.Sleep(retryBackoff * time.Duration(attempt))
	}

	if p.metrics != nil {
		p.metrics.Failed.Inc()
	}
	p.logger.Error("event publish failed after retries",
		"event_id", e.EventID,
		"event_type", e.Type,
		"attempts", publishAttempts,
		"error", lastErr,
	)
}
