package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is a transport-neutral view of a consumed record.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Handler processes one message. Returning an error triggers a retry; a
// handler that wants a message skipped returns nil.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// Config configures a Consumer.
type Config struct {
	Brokers    []string
	Group      string
	Topics     []string
	MaxRetries int
	RetryDelay time.Duration
}

// Consumer reads from a consumer group and commits offsets after each batch
// has been handled.
type Consumer struct {
	client     *kgo.Client
	handler    Handler
	logger     *slog.Logger
	maxRetries int
	retryDelay time.Duration
}

func New(cfg Config, handler Handler, logger *slog.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka consumer: no brokers configured")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.Group),
		kgo.ConsumeTopics(cfg.Topics...),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 500 * time.Millisecond
	}

	return &Consumer{
		client:     client,
		handler:    handler,
		logger:     logger,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}, nil
}

// Run polls until ctx is cancelled or the client is closed.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		for _, fe := range fetches.Errors() {
			c.logger.ErrorContext(ctx, "kafka fetch error",
				"topic", fe.Topic,
				"partition", fe.Partition,
				"error", fe.Err,
			)
		}

		fetches.EachRecord(func(r *kgo.Record) {
			c.handle(ctx, toMessage(r))
		})

		if err := c.client.CommitUncommittedOffsets(ctx); err != nil {
			c.logger.ErrorContext(ctx, "kafka offset commit failed", "error", err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg *Message) {
	var err error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err = c.handler.Handle(ctx, msg); err == nil {
			return
		}
		c.logger.WarnContext(ctx, "kafka message handling failed",
			"topic", msg.Topic,
			"offset", msg.Offset,
			"attempt", attempt,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.retryDelay):
		}
	}
	c.logger.ErrorContext(ctx, "kafka message skipped after retries",
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"error", err,
	)
}

func (c *Consumer) Close() {
	c.client.Close()
}

func toMessage(r *kgo.Record) *Message {
	msg := &Message{
		Topic:     r.Topic,
		Partition: r.Partition,
		Offset:    r.Offset,
		Key:       r.Key,
		Value:     r.Value,
		Timestamp: r.Timestamp,
	}
	if len(r.Headers) > 0 {
		msg.Headers = make(map[string]string, len(r.Headers))
		for _, h := range r.Headers {
			msg.Headers[h.Key] = string(h.Value)
		}
	}
	return msg
}
