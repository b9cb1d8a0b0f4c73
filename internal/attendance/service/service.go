// Package service is the clock session orchestrator: it runs the clock-in and
// clock-out sequences and owns the per-(driver, work date) state machine.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"geoclock/internal/attendance/metrics"
	"geoclock/internal/attendance/models"
	"geoclock/internal/attendance/ports"
	"geoclock/internal/location"
	"geoclock/pkg/platform/audit"
	"geoclock/pkg/requestcontext"
)

const defaultNotifyTimeout = 10 * time.Second

// Service orchestrates clock actions. Steps within one action run strictly in
// order; nothing is cached between actions.
type Service struct {
	resolver   ports.LocationResolver
	warehouses ports.WarehouseSource
	sessions   ports.SessionStore

	readiness     ports.ReadinessGate
	notifier      ports.Notifier
	auditor       ports.AuditPublisher
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	loc           *time.Location
	notifyTimeout time.Duration

	inflight sync.WaitGroup
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithReadinessGate replaces the default device-flag readiness check.
func WithReadinessGate(g ports.ReadinessGate) Option {
	return func(s *Service) {
		if g != nil {
			s.readiness = g
		}
	}
}

func WithNotifier(n ports.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithAuditPublisher(p ports.AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

// WithLocation sets the time zone that defines work dates and rule times.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithNotifyTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.notifyTimeout = d
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(resolver ports.LocationResolver, warehouses ports.WarehouseSource, sessions ports.SessionStore, opts ...Option) (*Service, error) {
	if resolver == nil {
		return nil, errors.New("location resolver is required")
	}
	if warehouses == nil {
		return nil, errors.New("warehouse source is required")
	}
	if sessions == nil {
		return nil, errors.New("session store is required")
	}

	svc := &Service{
		resolver:      resolver,
		warehouses:    warehouses,
		sessions:      sessions,
		readiness:     ports.DeviceReadiness{},
		tracer:        otel.Tracer("geoclock/attendance"),
		loc:           time.UTC,
		notifyTimeout: defaultNotifyTimeout,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// ClockResult is an accepted clock action.
type ClockResult struct {
	Action   models.Action
	Session  *models.Session
	Decision models.ClockDecision
	Location *location.Result
	At       time.Time
}

// Drain waits for in-flight notifications, bounded by ctx.
func (s *Service) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// now returns the request time in the configured zone.
func (s *Service) now(ctx context.Context) time.Time {
	return requestcontext.Now(ctx).In(s.loc)
}

// run wraps one clock action with tracing, metrics, logging and audit.
func (s *Service) run(ctx context.Context, action models.Action, req models.ClockRequest, fn func(context.Context) (*ClockResult, error)) (*ClockResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "attendance."+string(action),
		trace.WithAttributes(attribute.String("driver.id", req.DriverID.String())))
	defer span.End()

	res, err := fn(ctx)
	s.metrics.ObserveLatency(string(action), time.Since(start))

	if err != nil {
		kind := KindOf(err)
		if kind == "" {
			kind = KindPersistenceFailure
			err = newError(kind, "", err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, string(kind))
		s.metrics.IncRejection(string(action), string(kind))
		s.logRejection(ctx, action, req, err)
		s.emitAudit(ctx, rejectedEvent(action), req, nil, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("warehouse.id", res.Decision.WarehouseID.String()),
		attribute.String("attendance.status", string(res.Decision.Status)),
		attribute.Float64("geofence.distance_meters", res.Decision.DistanceMeters),
	)
	s.metrics.IncDecision(string(action), string(res.Decision.Status))
	if s.logger != nil {
		s.logger.InfoContext(ctx, "clock action accepted",
			"action", string(action),
			"driver_id", req.DriverID.String(),
			"warehouse_id", res.Decision.WarehouseID.String(),
			"distance_meters", res.Decision.DistanceMeters,
			"status", string(res.Decision.Status),
			"provider", string(res.Location.Provider),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	s.emitAudit(ctx, acceptedEvent(action), req, res, nil)
	return res, nil
}

func (s *Service) logRejection(ctx context.Context, action models.Action, req models.ClockRequest, err error) {
	if s.logger == nil {
		return
	}
	var e *Error
	errors.As(err, &e)
	level := slog.LevelWarn
	if e.Kind == KindPersistenceFailure {
		level = slog.LevelError
	}
	args := []any{
		"action", string(action),
		"driver_id", req.DriverID.String(),
		"kind", string(e.Kind),
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	}
	if e.Kind == KindOutOfGeofence {
		args = append(args, "warehouse_name", e.WarehouseName, "distance_meters", e.DistanceMeters)
	}
	s.logger.Log(ctx, level, "clock action rejected", args...)
}

func acceptedEvent(action models.Action) audit.AuditEvent {
	if action == models.ActionClockOut {
		return audit.EventClockOutAccepted
	}
	return audit.EventClockInAccepted
}

func rejectedEvent(action models.Action) audit.AuditEvent {
	if action == models.ActionClockOut {
		return audit.EventClockOutRejected
	}
	return audit.EventClockInRejected
}

func (s *Service) emitAudit(ctx context.Context, event audit.AuditEvent, req models.ClockRequest, res *ClockResult, err error) {
	if s.auditor == nil {
		return
	}
	ev := audit.Event{
		Category:  event.Category(),
		Timestamp: requestcontext.Now(ctx),
		DriverID:  req.DriverID,
		Action:    string(event),
		Platform:  requestcontext.Platform(ctx),
		RequestID: requestcontext.RequestID(ctx),
	}
	if res != nil {
		ev.WarehouseID = res.Decision.WarehouseID.String()
		ev.Decision = string(res.Decision.Status)
		ev.DistanceMeters = res.Decision.DistanceMeters
		ev.Provider = string(res.Location.Provider)
	}
	var e *Error
	if errors.As(err, &e) {
		ev.Decision = "rejected"
		ev.Reason = string(e.Kind)
		ev.DistanceMeters = e.DistanceMeters
	}
	if aerr := s.auditor.Emit(ctx, ev); aerr != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", string(event), "error", aerr)
	}
}

// notify dispatches n without blocking or failing the clock action.
func (s *Service) notify(ctx context.Context, n models.Notification) {
	if s.notifier == nil {
		return
	}
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(nctx, n); err != nil {
			s.metrics.IncNotifyFailure()
			if s.logger != nil {
				s.logger.WarnContext(nctx, "attendance notification failed",
					"kind", string(n.Kind),
					"driver_id", n.DriverID.String(),
					"session_id", n.SessionID.String(),
					"error", err,
				)
			}
			if s.auditor != nil {
				_ = s.auditor.Emit(nctx, audit.Event{
					Category:  audit.EventNotifyFailed.Category(),
					Timestamp: n.OccurredAt,
					DriverID:  n.DriverID,
					Action:    string(audit.EventNotifyFailed),
					Reason:    string(n.Kind),
					RequestID: requestcontext.RequestID(ctx),
				})
			}
		}
	}()
}
