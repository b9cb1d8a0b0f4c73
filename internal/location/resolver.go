package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"geoclock/internal/location/metrics"
)

const defaultProviderTimeout = 5 * time.Second

// Resolver walks a provider chain in order and returns the first success.
//
// Each provider gets its own timeout; there is no overall deadline beyond the
// caller's context. Only one resolution per caller is live at a time: starting
// a new one cancels the previous, which then returns ErrSuperseded.
type Resolver struct {
	chain   *Chain
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	now     func() time.Time

	mu       sync.Mutex
	inflight map[string]*flight
}

type flight struct {
	cancel context.CancelCauseFunc
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithProviderTimeout sets the per-provider budget.
func WithProviderTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(r *Resolver) {
		r.tracer = t
	}
}

// WithClock overrides the timestamp source for ResolvedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// NewResolver creates a resolver over a non-empty chain.
func NewResolver(chain *Chain, opts ...Option) (*Resolver, error) {
	if chain == nil || chain.Len() == 0 {
		return nil, ErrNoProviders
	}
	r := &Resolver{
		chain:    chain,
		timeout:  defaultProviderTimeout,
		tracer:   otel.Tracer("geoclock/location"),
		now:      time.Now,
		inflight: make(map[string]*flight),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve returns the first successful provider result for caller.
//
// Errors: ErrSuperseded if a newer Resolve for the same caller started,
// ErrLocationUnavailable (joined with every provider failure) if the chain is
// exhausted, or the caller context's error if it was cancelled.
func (r *Resolver) Resolve(ctx context.Context, caller string, hint Hint) (*Result, error) {
	ctx, release := r.begin(ctx, caller)
	defer release()

	var failures []error
	for _, p := range r.chain.Providers() {
		if err := r.interrupted(ctx); err != nil {
			return nil, err
		}

		res, err := r.attempt(ctx, p, hint)
		if err != nil {
			if stop := r.interrupted(ctx); stop != nil {
				return nil, stop
			}
			failures = append(failures, err)
			r.logWarn(ctx, "location provider failed, trying next",
				"provider", p.ID(),
				"category", string(GetCategory(err)),
				"error", err,
			)
			continue
		}

		// A result that lands after supersession is stale.
		if stop := r.interrupted(ctx); stop != nil {
			return nil, stop
		}
		r.metrics.IncResolution(res.Provider.String())
		return res, nil
	}

	r.metrics.IncResolution("none")
	r.logWarn(ctx, "all location providers failed", "caller", caller, "attempts", len(failures))
	return nil, fmt.Errorf("%w: %w", ErrLocationUnavailable, errors.Join(failures...))
}

// HealthCheck probes every provider that supports it.
func (r *Resolver) HealthCheck(ctx context.Context) map[string]error {
	out := make(map[string]error)
	for _, p := range r.chain.Providers() {
		if hc, ok := p.(HealthChecker); ok {
			out[p.ID()] = hc.Health(ctx)
		}
	}
	return out
}

// begin registers a new flight for caller, cancelling any live one.
func (r *Resolver) begin(ctx context.Context, caller string) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)
	f := &flight{cancel: cancel}

	r.mu.Lock()
	if prev, ok := r.inflight[caller]; ok {
		prev.cancel(ErrSuperseded)
		r.metrics.IncSuperseded()
	}
	r.inflight[caller] = f
	r.mu.Unlock()

	return ctx, func() {
		r.mu.Lock()
		if r.inflight[caller] == f {
			delete(r.inflight, caller)
		}
		r.mu.Unlock()
		cancel(context.Canceled)
	}
}

func (r *Resolver) interrupted(ctx context.Context) error {
	if ctx.Err() == nil {
		return nil
	}
	cause := context.Cause(ctx)
	if errors.Is(cause, ErrSuperseded) {
		return ErrSuperseded
	}
	return fmt.Errorf("resolve location: %w", cause)
}

type outcome struct {
	res *Result
	err error
}

// attempt runs one provider under its own timeout. The provider runs in its
// own goroutine so one that ignores ctx still cannot stall the chain.
func (r *Resolver) attempt(ctx context.Context, p Provider, hint Hint) (*Result, error) {
	ctx, span := r.tracer.Start(ctx, "location.provider",
		trace.WithAttributes(
			attribute.String("provider.id", p.ID()),
			attribute.String("provider.kind", p.Kind().String()),
		))
	defer span.End()

	actx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		res, err := p.Locate(actx, hint)
		done <- outcome{res: res, err: err}
	}()

	var res *Result
	var err error
	select {
	case o := <-done:
		res, err = o.res, o.err
	case <-actx.Done():
		if errors.Is(actx.Err(), context.DeadlineExceeded) {
			err = NewProviderError(ErrorTimeout, p.ID(), "provider timed out", actx.Err())
		} else {
			err = NewProviderError(ErrorInternal, p.ID(), "attempt cancelled", context.Cause(actx))
		}
	}
	if err == nil {
		res, err = r.normalize(p, res)
	}

	outcomeLabel := "success"
	if err != nil {
		outcomeLabel = string(GetCategory(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, outcomeLabel)
	}
	span.SetAttributes(attribute.String("provider.outcome", outcomeLabel))
	r.metrics.ObserveAttempt(p.ID(), outcomeLabel, time.Since(start))

	if err != nil {
		return nil, err
	}
	return res, nil
}

// normalize validates a provider answer and fills the fields every result
// must carry. Coordinate-only providers get the formatted coordinate as address.
func (r *Resolver) normalize(p Provider, res *Result) (*Result, error) {
	if res == nil {
		return nil, NewProviderError(ErrorEmptyResult, p.ID(), "provider returned no result", nil)
	}
	if err := res.Coordinate.Validate(); err != nil {
		return nil, NewProviderError(ErrorBadData, p.ID(), "provider returned invalid coordinate", err)
	}
	out := *res
	if out.Provider == "" {
		out.Provider = p.Kind()
	}
	if out.ProviderID == "" {
		out.ProviderID = p.ID()
	}
	if out.Address == "" {
		out.Address = out.Coordinate.String()
	}
	if out.ResolvedAt.IsZero() {
		out.ResolvedAt = r.now()
	}
	return &out, nil
}

func (r *Resolver) logWarn(ctx context.Context, msg string, args ...any) {
	if r.logger == nil {
		return
	}
	r.logger.WarnContext(ctx, msg, args...)
}
