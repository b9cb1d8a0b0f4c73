package models

import (
	"math"

	"geoclock/internal/geo"
	"geoclock/internal/location"
	id "geoclock/pkg/domain"
	dErrors "geoclock/pkg/domain-errors"
)

// ClockRequest is the orchestrator input for both clock actions.
type ClockRequest struct {
	DriverID id.DriverID
	Hint     location.Hint
}

// ClockRequestBody is the JSON body of the clock-in and clock-out endpoints.
// The device fix is optional; both coordinates must be present together.
type ClockRequestBody struct {
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	AccuracyMeters    *float64 `json:"accuracy_meters,omitempty"`
	CapturedAtUnixMs  *int64   `json:"captured_at_unix_ms,omitempty"`
	PermissionGranted bool     `json:"permission_granted"`
	LocationEnabled   bool     `json:"location_enabled"`
}

func (b *ClockRequestBody) Validate() error {
	if b == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if (b.Latitude == nil) != (b.Longitude == nil) {
		return dErrors.New(dErrors.CodeValidation, "latitude and longitude must be provided together")
	}
	if b.Latitude != nil {
		if _, err := geo.NewCoordinate(*b.Latitude, *b.Longitude); err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, "coordinate out of range")
		}
	}
	if b.AccuracyMeters != nil && (*b.AccuracyMeters < 0 || math.IsNaN(*b.AccuracyMeters)) {
		return dErrors.New(dErrors.CodeValidation, "accuracy_meters must not be negative")
	}
	return nil
}

// DeviceFix returns the reported fix, or nil when none was sent.
func (b *ClockRequestBody) DeviceFix() *location.DeviceFix {
	if b.Latitude == nil || b.Longitude == nil {
		return nil
	}
	fix := &location.DeviceFix{
		Coordinate: geo.Coordinate{Latitude: *b.Latitude, Longitude: *b.Longitude},
	}
	if b.AccuracyMeters != nil {
		fix.AccuracyMeters = *b.AccuracyMeters
	}
	if b.CapturedAtUnixMs != nil {
		fix.CapturedAt = unixMilli(*b.CapturedAtUnixMs)
	}
	return fix
}
