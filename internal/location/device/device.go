// Package device is the fallback location provider. It trusts the fix the
// driver's device reported with the request and yields a bare coordinate.
package device

import (
	"context"
	"time"

	"geoclock/internal/location"
)

// Provider returns the device-reported GPS fix.
type Provider struct {
	id          string
	maxAccuracy float64
	maxAge      time.Duration
	now         func() time.Time
}

type Option func(*Provider)

// WithMaxAccuracy rejects fixes whose reported accuracy radius exceeds meters.
// Zero disables the check.
func WithMaxAccuracy(meters float64) Option {
	return func(p *Provider) {
		p.maxAccuracy = meters
	}
}

// WithMaxAge rejects fixes captured longer ago than d. Zero disables the check.
func WithMaxAge(d time.Duration) Option {
	return func(p *Provider) {
		p.maxAge = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

func New(id string, opts ...Option) *Provider {
	p := &Provider{id: id, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) ID() string                  { return p.id }
func (p *Provider) Kind() location.ProviderKind { return location.ProviderDeviceGPS }

func (p *Provider) Locate(ctx context.Context, hint location.Hint) (*location.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, location.NewProviderError(location.ErrorTimeout, p.id, "context done", err)
	}
	if !hint.PermissionGranted {
		return nil, location.NewProviderError(location.ErrorPermissionDenied, p.id, "location permission not granted", nil)
	}
	if !hint.ServicesEnabled {
		return nil, location.NewProviderError(location.ErrorPermissionDenied, p.id, "location services disabled", nil)
	}
	fix := hint.Fix
	if fix == nil {
		return nil, location.NewProviderError(location.ErrorEmptyResult, p.id, "device reported no fix", nil)
	}
	if err := fix.Coordinate.Validate(); err != nil {
		return nil, location.NewProviderError(location.ErrorBadData, p.id, "device fix out of range", err)
	}
	if p.maxAccuracy > 0 && fix.AccuracyMeters > p.maxAccuracy {
		return nil, location.NewProviderError(location.ErrorBadData, p.id, "device fix too coarse", nil)
	}
	if p.maxAge > 0 && !fix.CapturedAt.IsZero() && p.now().Sub(fix.CapturedAt) > p.maxAge {
		return nil, location.NewProviderError(location.ErrorBadData, p.id, "device fix is stale", nil)
	}

	return &location.Result{
		Coordinate:     fix.Coordinate,
		Provider:       location.ProviderDeviceGPS,
		ProviderID:     p.id,
		AccuracyMeters: fix.AccuracyMeters,
	}, nil
}
