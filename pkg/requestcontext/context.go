// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values set by middleware and read by services.
//
//	driverID := requestcontext.DriverID(ctx)
//	now := requestcontext.Now(ctx)
//
// Tests pin the clock with requestcontext.WithTime(ctx, fixed).
package requestcontext

import (
	"context"
	"time"

	id "geoclock/pkg/domain"
)

type (
	driverIDKey    struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
	clientIPKey    struct{}
	platformKey    struct{}
)

var (
	ContextKeyDriverID    = driverIDKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
	ContextKeyClientIP    = clientIPKey{}
	ContextKeyPlatform    = platformKey{}
)

// DriverID returns the authenticated driver, or the nil id.
func DriverID(ctx context.Context) id.DriverID {
	if v, ok := ctx.Value(ContextKeyDriverID).(id.DriverID); ok {
		return v
	}
	return id.DriverID{}
}

func WithDriverID(ctx context.Context, driverID id.DriverID) context.Context {
	return context.WithValue(ctx, ContextKeyDriverID, driverID)
}

func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return v
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

func ClientIP(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyClientIP).(string); ok {
		return v
	}
	return ""
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ContextKeyClientIP, ip)
}

// Platform is the device platform derived from the User-Agent ("android", "ios", ...).
func Platform(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyPlatform).(string); ok {
		return v
	}
	return "unknown"
}

func WithPlatform(ctx context.Context, platform string) context.Context {
	return context.WithValue(ctx, ContextKeyPlatform, platform)
}

// Now returns the request time if one was pinned, otherwise the wall clock.
func Now(ctx context.Context) time.Time {
	if v, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok && !v.IsZero() {
		return v
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
