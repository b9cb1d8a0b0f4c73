// Package location resolves a driver's current position through an ordered
// chain of providers, falling back on failure.
package location

import (
	"errors"
	"time"

	"geoclock/internal/geo"
)

// ProviderKind identifies which kind of source produced a result.
type ProviderKind string

const (
	// ProviderPrimaryGeocoder is the network locator/reverse geocoder: it knows
	// a human-readable address but needs connectivity and quota.
	ProviderPrimaryGeocoder ProviderKind = "primary_geocoder"
	// ProviderDeviceGPS is the device's own positioning fix: coordinate only.
	ProviderDeviceGPS ProviderKind = "device_gps"
)

func (k ProviderKind) String() string { return string(k) }

// Result is the outcome of one successful resolution.
type Result struct {
	Coordinate     geo.Coordinate
	Address        string
	Provider       ProviderKind
	ProviderID     string
	AccuracyMeters float64
	ResolvedAt     time.Time
}

// DeviceFix is a position reported by the driver's device for this action.
type DeviceFix struct {
	Coordinate     geo.Coordinate
	AccuracyMeters float64
	CapturedAt     time.Time
}

// Hint carries what the client knows about its own location state. Providers
// read the parts they understand.
type Hint struct {
	Fix               *DeviceFix
	ClientIP          string
	PermissionGranted bool
	ServicesEnabled   bool
}

var (
	// ErrLocationUnavailable means every provider in the chain failed.
	ErrLocationUnavailable = errors.New("location unavailable")
	// ErrSuperseded is returned to a resolution that was replaced by a newer
	// call from the same caller before it finished.
	ErrSuperseded = errors.New("location resolution superseded by a newer request")
)
