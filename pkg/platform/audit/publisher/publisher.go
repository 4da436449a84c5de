// Package publisher emits audit events to a store and, optionally, streams
// them to an external sink guarded by a circuit breaker.
//
// In sync mode Emit returns once the store write completes. In async mode
// events go through a bounded buffer; Emit never blocks on a full buffer and
// Close drains whatever is queued.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	audit "finai/pkg/platform/audit"
	"finai/pkg/platform/audit/worker"
	"finai/pkg/platform/circuit"
)

var (
	ErrBufferFull = errors.New("audit buffer full")
	ErrClosed     = errors.New("audit publisher closed")
)

// Sink streams audit events outside the process, e.g. to Kafka.
type Sink interface {
	Publish(ctx context.Context, event audit.Event) error
}

type Publisher struct {
	store   audit.Store
	sink    Sink
	breaker *circuit.Breaker
	sampler *Sampler
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time

	bufferSize int
	buffer     chan audit.Event
	wg         sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to async mode with a buffer of size n.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.bufferSize = n
		}
	}
}

// WithSink streams every persisted event to sink through breaker. A nil
// breaker gets a default one.
func WithSink(sink Sink, breaker *circuit.Breaker) Option {
	return func(p *Publisher) {
		p.sink = sink
		p.breaker = breaker
	}
}

// WithSampler samples operations events. Compliance events are always kept.
func WithSampler(s *Sampler) Option {
	return func(p *Publisher) {
		p.sampler = s
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.sink != nil && p.breaker == nil {
		p.breaker = circuit.New("audit-sink")
	}
	if p.bufferSize > 0 {
		p.buffer = make(chan audit.Event, p.bufferSize)
		w := worker.NewWorker(p.persist, p.buffer)
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			_ = w.Run(context.Background())
		}()
	}
	return p
}

// Emit records an event. ID, Timestamp and Category are filled in when unset.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	event = p.normalize(event)

	if event.Category == audit.CategoryOperations && p.sampler != nil && !p.sampler.ShouldSample(event.Action) {
		p.metrics.incSampled()
		return nil
	}

	if p.buffer == nil {
		return p.persistSync(ctx, event)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	select {
	case p.buffer <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.metrics.incDropped()
		p.logger.WarnContext(ctx, "audit buffer full, dropping event",
			"action", event.Action,
			"subject", event.Subject,
		)
		return ErrBufferFull
	}
}

// ListRecent returns the most recent events from the underlying store.
func (p *Publisher) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	return p.store.ListRecent(ctx, limit)
}

// Close stops accepting events and, in async mode, waits for the buffer to drain.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.buffer != nil {
		close(p.buffer)
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Publisher) normalize(event audit.Event) audit.Event {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	event.Category = audit.AuditEvent(event.Action).Category()
	return event
}

func (p *Publisher) persist(ctx context.Context, event audit.Event) {
	_ = p.persistSync(ctx, event)
}

func (p *Publisher) persistSync(ctx context.Context, event audit.Event) error {
	if err := p.store.Append(ctx, event); err != nil {
		p.metrics.incPersistFailures()
		p.logger.ErrorContext(ctx, "audit persistence failed",
			"action", event.Action,
			"subject", event.Subject,
			"error", err,
		)
		return err
	}
	p.metrics.incEmitted(string(event.Category))
	p.stream(ctx, event)
	return nil
}

// stream forwards to the sink. Sink failures are logged and counted but never
// surface to the caller: the store is the record of truth.
func (p *Publisher) stream(ctx context.Context, event audit.Event) {
	if p.sink == nil {
		return
	}
	if !p.breaker.Allow() {
		p.metrics.incSinkSkipped()
		return
	}

	if err := p.sink.Publish(ctx, event); err != nil {
		p.metrics.incSinkFailures()
		_, change := p.breaker.RecordFailure()
		if change.Opened {
			p.metrics.setBreakerOpen(true)
			p.logger.WarnContext(ctx, "audit sink circuit opened",
				"breaker", p.breaker.Name(),
				"error", err,
			)
		}
		return
	}

	if _, change := p.breaker.RecordSuccess(); change.Closed {
		p.metrics.setBreakerOpen(false)
		p.logger.InfoContext(ctx, "audit sink circuit closed", "breaker", p.breaker.Name())
	}
}
