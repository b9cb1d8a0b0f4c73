package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"geoclock/internal/attendance/models"
	"geoclock/internal/attendance/service"
	"geoclock/internal/location"
	id "geoclock/pkg/domain"
	dErrors "geoclock/pkg/domain-errors"
	"geoclock/pkg/platform/httputil"
	auth "geoclock/pkg/platform/middleware/auth"
	request "geoclock/pkg/platform/middleware/request"
	"geoclock/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the clock operations the handler exposes.
type Service interface {
	ClockIn(ctx context.Context, req models.ClockRequest) (*service.ClockResult, error)
	ClockOut(ctx context.Context, req models.ClockRequest) (*service.ClockResult, error)
	Status(ctx context.Context, driverID id.DriverID) (*service.Today, error)
}

// Throttle wraps the clock routes; see ratelimit.Limiter.
type Throttle interface {
	PerDriver(action string) func(http.Handler) http.Handler
}

// Handler serves the driver-facing attendance endpoints.
type Handler struct {
	service      Service
	logger       *slog.Logger
	jwtValidator auth.JWTValidator
	throttle     Throttle
}

type Option func(*Handler)

// WithThrottle limits clock attempts. Status reads are never throttled.
func WithThrottle(t Throttle) Option {
	return func(h *Handler) {
		h.throttle = t
	}
}

func New(svc Service, logger *slog.Logger, jwtValidator auth.JWTValidator, opts ...Option) *Handler {
	h := &Handler{
		service:      svc,
		logger:       logger,
		jwtValidator: jwtValidator,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) limit(action string) func(http.Handler) http.Handler {
	if h.throttle == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return h.throttle.PerDriver(action)
}

// Register mounts the routes under /v1/attendance behind driver auth.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1/attendance", func(r chi.Router) {
		r.Use(auth.RequireAuth(h.jwtValidator, h.logger))
		r.With(h.limit("clock_in")).Post("/clock-in", h.HandleClockIn)
		r.With(h.limit("clock_out")).Post("/clock-out", h.HandleClockOut)
		r.Get("/today", h.HandleToday)
	})
}

func (h *Handler) HandleClockIn(w http.ResponseWriter, r *http.Request) {
	h.handleClock(w, r, h.service.ClockIn)
}

func (h *Handler) HandleClockOut(w http.ResponseWriter, r *http.Request) {
	h.handleClock(w, r, h.service.ClockOut)
}

type clockFunc func(context.Context, models.ClockRequest) (*service.ClockResult, error)

func (h *Handler) handleClock(w http.ResponseWriter, r *http.Request, clock clockFunc) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	driverID, ok := h.driverID(w, ctx)
	if !ok {
		return
	}

	body, ok := httputil.DecodeAndPrepare[models.ClockRequestBody](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := clock(ctx, models.ClockRequest{
		DriverID: driverID,
		Hint: location.Hint{
			Fix:               body.DeviceFix(),
			ClientIP:          requestcontext.ClientIP(ctx),
			PermissionGranted: body.PermissionGranted,
			ServicesEnabled:   body.LocationEnabled,
		},
	})
	if err != nil {
		h.writeClockError(w, ctx, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toClockResponse(res))
}

func (h *Handler) HandleToday(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	driverID, ok := h.driverID(w, ctx)
	if !ok {
		return
	}

	today, err := h.service.Status(ctx, driverID)
	if err != nil {
		h.writeClockError(w, ctx, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.TodayResponse{
		WorkDate: today.WorkDate.String(),
		State:    today.State(),
		Session:  today.Session,
	})
}

func (h *Handler) driverID(w http.ResponseWriter, ctx context.Context) (id.DriverID, bool) {
	driverID := requestcontext.DriverID(ctx)
	if driverID.IsNil() {
		// RequireAuth always sets it; reaching here is a wiring bug.
		h.logger.ErrorContext(ctx, "driver id missing from context despite auth middleware",
			"request_id", request.GetRequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return id.DriverID{}, false
	}
	return driverID, true
}

// StatusForKind maps orchestrator error kinds to HTTP statuses.
func StatusForKind(kind service.Kind) int {
	switch kind {
	case service.KindPermissionDenied:
		return http.StatusForbidden
	case service.KindLocationUnavailable:
		return http.StatusServiceUnavailable
	case service.KindNoWarehouseAvailable, service.KindSessionConflict:
		return http.StatusConflict
	case service.KindOutOfGeofence:
		return http.StatusUnprocessableEntity
	case service.KindPersistenceFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeClockError(w http.ResponseWriter, ctx context.Context, err error) {
	var e *service.Error
	if !errors.As(err, &e) {
		h.logger.ErrorContext(ctx, "unexpected clock error",
			"error", err,
			"request_id", request.GetRequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	resp := models.ErrorResponse{
		Error:            string(e.Kind),
		ErrorDescription: e.Message,
		Retryable:        e.Retryable(),
	}
	if e.Kind == service.KindPersistenceFailure {
		resp.ErrorDescription = service.DefaultMessage(e.Kind)
	}
	if e.Kind == service.KindOutOfGeofence {
		distance := e.DistanceMeters
		resp.WarehouseName = e.WarehouseName
		resp.DistanceMeters = &distance
	}
	httputil.WriteJSON(w, StatusForKind(e.Kind), resp)
}

func toClockResponse(res *service.ClockResult) models.ClockResponse {
	resp := models.ClockResponse{
		SessionID:      res.Session.ID.String(),
		WorkDate:       res.Session.WorkDate.String(),
		Action:         res.Action,
		WarehouseID:    res.Decision.WarehouseID.String(),
		WarehouseName:  res.Decision.WarehouseName,
		DistanceMeters: res.Decision.DistanceMeters,
		WithinRange:    res.Decision.WithinRange,
		Status:         res.Decision.Status,
		At:             res.At,
	}
	if res.Location != nil {
		resp.Address = res.Location.Address
		resp.Provider = string(res.Location.Provider)
	}
	return resp
}
