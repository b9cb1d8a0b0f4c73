// Package publisher writes audit events to a store, either inline or through a
// bounded buffer drained by a background goroutine.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	id "geoclock/pkg/domain"
	audit "geoclock/pkg/platform/audit"
)

// ErrBufferFull is returned by an async publisher that cannot accept more events.
var ErrBufferFull = errors.New("audit buffer full")

// ErrClosed is returned by Emit after Close.
var ErrClosed = errors.New("audit publisher closed")

// Store is the persistence side of the publisher.
type Store interface {
	Append(ctx context.Context, event audit.Event) error
	ListByDriver(ctx context.Context, driverID id.DriverID) ([]audit.Event, error)
}

type Publisher struct {
	store   Store
	logger  *slog.Logger
	sampler *Sampler
	metrics *Metrics

	mu     sync.RWMutex
	closed bool
	buffer chan audit.Event
	wg     sync.WaitGroup
}

type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to async mode with a buffer of size n.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.buffer = make(chan audit.Event, n)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithSampler thins out operations events before they reach the store.
func WithSampler(s *Sampler) Option {
	return func(p *Publisher) {
		p.sampler = s
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit stamps and records the event. In async mode it only enqueues.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	if !p.sampler.Keep(event) {
		p.metrics.incSampled()
		return nil
	}
	if p.buffer == nil {
		if err := p.store.Append(ctx, event); err != nil {
			p.metrics.incPersistFailure()
			return err
		}
		p.metrics.incEmitted(string(event.Category))
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.metrics.incDropped("closed")
		return ErrClosed
	}
	select {
	case p.buffer <- event:
		p.metrics.incEmitted(string(event.Category))
		return nil
	case <-ctx.Done():
		p.metrics.incDropped("canceled")
		return ctx.Err()
	default:
		p.metrics.incDropped("buffer_full")
		return ErrBufferFull
	}
}

func (p *Publisher) List(ctx context.Context, driverID id.DriverID) ([]audit.Event, error) {
	return p.store.ListByDriver(ctx, driverID)
}

// Close stops accepting events and waits for the buffer to drain.
func (p *Publisher) Close() {
	if p.buffer == nil {
		return
	}
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.buffer)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.buffer {
		err := p.store.Append(context.Background(), event)
		if err == nil {
			continue
		}
		p.metrics.incPersistFailure()
		if p.logger != nil {
			p.logger.Error("failed to persist audit event",
				"action", event.Action,
				"error", err,
			)
		}
	}
}
