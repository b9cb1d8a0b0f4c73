// Package ratelimit throttles clock attempts per driver. Every attempt can
// cost a paid geocoder lookup, so a client retrying in a tight loop is cut
// off before it reaches the resolver.
package ratelimit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"geoclock/pkg/platform/httputil"
	"geoclock/pkg/requestcontext"
)

// Result is the outcome of one Allow call.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the whole-second wait before the oldest counted attempt
// leaves the window. Never less than one second for a denied call.
func (r *Result) RetryAfter(now time.Time) int {
	secs := int(r.ResetAt.Sub(now).Round(time.Second) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

// Store counts attempts in a sliding window.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}

type exceededResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	RetryAfter       int    `json:"retry_after"`
}

type Limiter struct {
	store   Store
	limit   int
	window  time.Duration
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*Limiter)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		l.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(l *Limiter) {
		l.metrics = m
	}
}

// New limits each driver to limit attempts per window. A non-positive limit
// disables throttling.
func New(store Store, limit int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{store: store, limit: limit, window: window}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// PerDriver keys the limit on the authenticated driver, so it must run after
// RequireAuth. Store failures let the request through.
func (l *Limiter) PerDriver(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l == nil || l.limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			driverID := requestcontext.DriverID(ctx)
			if driverID.IsNil() {
				next.ServeHTTP(w, r)
				return
			}

			result, err := l.store.Allow(ctx, "clock:"+action+":"+driverID.String(), l.limit, l.window)
			if err != nil {
				if l.logger != nil {
					l.logger.ErrorContext(ctx, "rate limit check failed",
						"error", err,
						"driver_id", driverID.String(),
						"request_id", requestcontext.RequestID(ctx),
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
			if !result.Allowed {
				l.metrics.incLimited(action)
				retryAfter := result.RetryAfter(time.Now())
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				httputil.WriteJSON(w, http.StatusTooManyRequests, exceededResponse{
					Error:            "rate_limited",
					ErrorDescription: "Too many clock attempts. Please wait and try again.",
					RetryAfter:       retryAfter,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
