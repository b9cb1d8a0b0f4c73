// Package ports defines the collaborators the clock orchestrator depends on.
// Adapters live in the store, notify and location packages.
package ports

import (
	"context"

	"geoclock/internal/attendance/models"
	"geoclock/internal/location"
	warehouseModels "geoclock/internal/warehouse/models"
	id "geoclock/pkg/domain"
	"geoclock/pkg/platform/audit"
)

// Readiness is the outcome of the pre-resolution device check.
type Readiness struct {
	Ready   bool
	Message string
}

// ReadinessGate decides whether the device can be located at all. A not-ready
// answer short-circuits the clock action before any provider is called.
type ReadinessGate interface {
	CheckLocationReady(ctx context.Context, driverID id.DriverID, hint location.Hint) Readiness
}

// LocationResolver resolves the driver's position; see location.Resolver.
type LocationResolver interface {
	Resolve(ctx context.Context, caller string, hint location.Hint) (*location.Result, error)
}

// WarehouseSource supplies candidate warehouses and their time policies.
type WarehouseSource interface {
	// ListCandidateWarehouses returns every warehouse the driver may clock in at.
	ListCandidateWarehouses(ctx context.Context) ([]warehouseModels.Warehouse, error)

	// GetWarehouse returns sentinel.ErrNotFound for an unknown id.
	GetWarehouse(ctx context.Context, warehouseID id.WarehouseID) (*warehouseModels.Warehouse, error)

	// GetAttendanceRule returns nil, nil when the warehouse has no policy.
	GetAttendanceRule(ctx context.Context, warehouseID id.WarehouseID) (*warehouseModels.AttendanceRule, error)
}

// SessionStore owns per-(driver, work date) session state.
type SessionStore interface {
	// GetSession returns the day's session in any state, or sentinel.ErrNotFound.
	GetSession(ctx context.Context, driverID id.DriverID, workDate id.WorkDate) (*models.Session, error)

	// GetOpenSession returns the day's open session, or sentinel.ErrNotFound.
	GetOpenSession(ctx context.Context, driverID id.DriverID, workDate id.WorkDate) (*models.Session, error)

	// CreateClockIn opens the day's session. A session already existing for
	// the same driver and date yields sentinel.ErrConflict.
	CreateClockIn(ctx context.Context, in models.ClockIn) (*models.Session, error)

	// CloseClockOut closes an open session. false means it was not open.
	CloseClockOut(ctx context.Context, sessionID id.SessionID, out models.ClockOut) (bool, error)
}

// Notifier is told about late and early classifications. Errors are logged by
// the caller and never fail the clock action.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// AuditPublisher records accepted and rejected clock actions.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// DeviceReadiness derives readiness from the flags the device sent.
type DeviceReadiness struct{}

func (DeviceReadiness) CheckLocationReady(_ context.Context, _ id.DriverID, hint location.Hint) Readiness {
	switch {
	case !hint.PermissionGranted:
		return Readiness{Message: "Location permission is off. Allow location access for this app and try again."}
	case !hint.ServicesEnabled:
		return Readiness{Message: "Location services are disabled. Turn on GPS and try again."}
	}
	return Readiness{Ready: true}
}
