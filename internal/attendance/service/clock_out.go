package service

import (
	"context"
	"errors"

	"geoclock/internal/attendance/models"
	"geoclock/internal/attendance/policy"
	"geoclock/internal/geo"
	"geoclock/internal/warehouse"
	id "geoclock/pkg/domain"
	"geoclock/pkg/platform/sentinel"
)

// ClockOut closes today's open session. The geofence is re-checked against
// the warehouse recorded at clock-in, not the nearest one now, so a driver
// cannot clock out from another site.
func (s *Service) ClockOut(ctx context.Context, req models.ClockRequest) (*ClockResult, error) {
	return s.run(ctx, models.ActionClockOut, req, func(ctx context.Context) (*ClockResult, error) {
		return s.clockOut(ctx, req)
	})
}

func (s *Service) clockOut(ctx context.Context, req models.ClockRequest) (*ClockResult, error) {
	now := s.now(ctx)
	workDate := id.WorkDateOf(now, s.loc)

	session, err := s.sessions.GetOpenSession(ctx, req.DriverID, workDate)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, newError(KindPersistenceFailure, "", err)
	}
	if !session.IsOpen() {
		return nil, newError(KindSessionConflict, "You have not clocked in today.", nil)
	}

	if err := s.checkReady(ctx, req); err != nil {
		return nil, err
	}

	loc, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	wh, err := s.warehouses.GetWarehouse(ctx, session.WarehouseID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, newError(KindNoWarehouseAvailable, "Your clock-in warehouse is no longer configured. Contact your administrator.", err)
		}
		return nil, newError(KindPersistenceFailure, "", err)
	}
	distance := geo.DistanceMeters(loc.Coordinate, wh.Coordinate)
	within := warehouse.IsWithinRangeAt(distance, *wh)
	s.metrics.ObserveDistance(string(models.ActionClockOut), distance, within)
	if !within {
		return nil, outOfGeofence(wh.Name, distance, wh.GeofenceRadiusMeters)
	}

	rule, err := s.warehouses.GetAttendanceRule(ctx, wh.ID)
	if err != nil {
		return nil, newError(KindPersistenceFailure, "", err)
	}
	status := models.StatusNormal
	if rule != nil && rule.RequireClockOut {
		status, err = policy.ClassifyClockOut(now, rule)
		if err != nil {
			return nil, misconfiguredRule(wh.Name, err)
		}
	}

	punch := models.Punch{
		At:             now,
		Coordinate:     loc.Coordinate,
		Address:        loc.Address,
		Provider:       loc.Provider,
		DistanceMeters: distance,
		Status:         status,
	}
	closed, err := s.sessions.CloseClockOut(ctx, session.ID, models.ClockOut{Punch: punch})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, newError(KindSessionConflict, "You have not clocked in today.", err)
		}
		return nil, newError(KindPersistenceFailure, "", err)
	}
	if !closed {
		return nil, newError(KindSessionConflict, "You have already clocked out today.", nil)
	}

	session.State = models.SessionClosed
	session.ClockOut = &punch

	if status == models.StatusEarly {
		s.notify(ctx, models.Notification{
			Kind:          models.NotificationEarlyClockOut,
			DriverID:      req.DriverID,
			SessionID:     session.ID,
			WarehouseID:   wh.ID,
			WarehouseName: wh.Name,
			WorkDate:      workDate,
			Status:        status,
			OccurredAt:    now,
		})
	}

	return &ClockResult{
		Action:  models.ActionClockOut,
		Session: session,
		Decision: models.ClockDecision{
			WarehouseID:    wh.ID,
			WarehouseName:  wh.Name,
			DistanceMeters: distance,
			WithinRange:    true,
			Status:         status,
		},
		Location: loc,
		At:       now,
	}, nil
}
