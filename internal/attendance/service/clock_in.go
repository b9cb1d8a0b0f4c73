package service

import (
	"context"
	"errors"

	"geoclock/internal/attendance/models"
	"geoclock/internal/attendance/policy"
	"geoclock/internal/location"
	"geoclock/internal/warehouse"
	id "geoclock/pkg/domain"
	"geoclock/pkg/platform/sentinel"
)

// ClockIn opens today's session for the driver at the warehouse they are
// standing in.
//
// Order: readiness gate, existing-session check, location resolution, nearest
// warehouse, geofence, classification, persistence, late notification.
func (s *Service) ClockIn(ctx context.Context, req models.ClockRequest) (*ClockResult, error) {
	return s.run(ctx, models.ActionClockIn, req, func(ctx context.Context) (*ClockResult, error) {
		return s.clockIn(ctx, req)
	})
}

func (s *Service) clockIn(ctx context.Context, req models.ClockRequest) (*ClockResult, error) {
	if err := s.checkReady(ctx, req); err != nil {
		return nil, err
	}

	now := s.now(ctx)
	workDate := id.WorkDateOf(now, s.loc)

	existing, err := s.sessions.GetSession(ctx, req.DriverID, workDate)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
	case err != nil:
		return nil, newError(KindPersistenceFailure, "", err)
	case existing == nil:
	case existing.IsOpen():
		return nil, newError(KindSessionConflict, "You are already clocked in today.", nil)
	default:
		return nil, newError(KindSessionConflict, "You have already completed attendance for today.", nil)
	}

	loc, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	candidates, err := s.warehouses.ListCandidateWarehouses(ctx)
	if err != nil {
		return nil, newError(KindPersistenceFailure, "", err)
	}
	nearest, ok := warehouse.FindNearest(loc.Coordinate, candidates)
	if !ok {
		return nil, newError(KindNoWarehouseAvailable, "", nil)
	}
	within := warehouse.IsWithinRangeAt(nearest.DistanceMeters, nearest.Warehouse)
	s.metrics.ObserveDistance(string(models.ActionClockIn), nearest.DistanceMeters, within)
	if !within {
		return nil, outOfGeofence(nearest.Warehouse.Name, nearest.DistanceMeters, nearest.Warehouse.GeofenceRadiusMeters)
	}

	rule, err := s.warehouses.GetAttendanceRule(ctx, nearest.Warehouse.ID)
	if err != nil {
		return nil, newError(KindPersistenceFailure, "", err)
	}
	status, err := policy.ClassifyClockIn(now, rule)
	if err != nil {
		return nil, misconfiguredRule(nearest.Warehouse.Name, err)
	}

	punch := models.Punch{
		At:             now,
		Coordinate:     loc.Coordinate,
		Address:        loc.Address,
		Provider:       loc.Provider,
		DistanceMeters: nearest.DistanceMeters,
		Status:         status,
	}
	session, err := s.sessions.CreateClockIn(ctx, models.ClockIn{
		SessionID:     id.NewSessionID(),
		DriverID:      req.DriverID,
		WorkDate:      workDate,
		WarehouseID:   nearest.Warehouse.ID,
		WarehouseName: nearest.Warehouse.Name,
		Punch:         punch,
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, newError(KindSessionConflict, "You are already clocked in today.", err)
		}
		return nil, newError(KindPersistenceFailure, "", err)
	}

	if status == models.StatusLate {
		s.notify(ctx, models.Notification{
			Kind:          models.NotificationLateClockIn,
			DriverID:      req.DriverID,
			SessionID:     session.ID,
			WarehouseID:   session.WarehouseID,
			WarehouseName: session.WarehouseName,
			WorkDate:      workDate,
			Status:        status,
			OccurredAt:    now,
		})
	}

	return &ClockResult{
		Action:  models.ActionClockIn,
		Session: session,
		Decision: models.ClockDecision{
			WarehouseID:    nearest.Warehouse.ID,
			WarehouseName:  nearest.Warehouse.Name,
			DistanceMeters: nearest.DistanceMeters,
			WithinRange:    true,
			Status:         status,
		},
		Location: loc,
		At:       now,
	}, nil
}

func (s *Service) checkReady(ctx context.Context, req models.ClockRequest) error {
	r := s.readiness.CheckLocationReady(ctx, req.DriverID, req.Hint)
	if r.Ready {
		return nil
	}
	return newError(KindPermissionDenied, r.Message, nil)
}

// resolve runs the provider chain keyed by driver, so a newer action from the
// same driver supersedes this one. The superseded action lost a race against
// the driver's own concurrent attempt, which owns today's state transition.
func (s *Service) resolve(ctx context.Context, req models.ClockRequest) (*location.Result, error) {
	res, err := s.resolver.Resolve(ctx, req.DriverID.String(), req.Hint)
	if err != nil {
		if errors.Is(err, location.ErrSuperseded) {
			return nil, newError(KindSessionConflict, "Another clock action for you is already in progress.", err)
		}
		return nil, newError(KindLocationUnavailable, "", err)
	}
	return res, nil
}
