package service

import (
	"errors"
	"fmt"
)

// Kind discriminates why a clock action was rejected. Each kind has one
// user-facing message so the driver knows whether to retry, move, or call an
// administrator.
type Kind string

const (
	KindPermissionDenied     Kind = "permission_denied"
	KindLocationUnavailable  Kind = "location_unavailable"
	KindNoWarehouseAvailable Kind = "no_warehouse_available"
	KindOutOfGeofence        Kind = "out_of_geofence"
	KindSessionConflict      Kind = "session_conflict"
	KindPersistenceFailure   Kind = "persistence_failure"
)

var defaultMessages = map[Kind]string{
	KindPermissionDenied:     "Location access is required to clock in or out.",
	KindLocationUnavailable:  "We could not determine your location. Please try again.",
	KindNoWarehouseAvailable: "No warehouse is configured for attendance. Contact your administrator.",
	KindOutOfGeofence:        "You are outside the warehouse attendance area.",
	KindSessionConflict:      "This clock action does not match your attendance state for today.",
	KindPersistenceFailure:   "Your attendance could not be saved. Please try again later.",
}

// Error is a rejected clock action.
type Error struct {
	Kind    Kind
	Message string

	// WarehouseName and DistanceMeters are set for KindOutOfGeofence.
	WarehouseName  string
	DistanceMeters float64

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the driver can usefully try the same action again
// without changing anything but location or time.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindLocationUnavailable, KindOutOfGeofence:
		return true
	}
	return false
}

func newError(kind Kind, message string, err error) *Error {
	if message == "" {
		message = defaultMessages[kind]
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

func outOfGeofence(warehouseName string, distanceMeters, radiusMeters float64) *Error {
	return &Error{
		Kind: KindOutOfGeofence,
		Message: fmt.Sprintf("You are %.0f meters from %s; clock actions are allowed within %.0f meters.",
			distanceMeters, warehouseName, radiusMeters),
		WarehouseName:  warehouseName,
		DistanceMeters: distanceMeters,
	}
}

// misconfiguredRule reports a warehouse rule that cannot be evaluated. Only an
// administrator can fix it, so it shares the configuration kind.
func misconfiguredRule(warehouseName string, err error) *Error {
	return newError(KindNoWarehouseAvailable,
		fmt.Sprintf("The attendance rule for %s is misconfigured. Contact your administrator.", warehouseName), err)
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// KindOf returns the kind of err, or "" when err is not a clock rejection.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// DefaultMessage is the user-facing text for kind.
func DefaultMessage(kind Kind) string {
	return defaultMessages[kind]
}
