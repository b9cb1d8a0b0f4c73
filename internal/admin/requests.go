package admin

import (
	"geoclock/internal/geo"
	warehouse "geoclock/internal/warehouse/models"
	id "geoclock/pkg/domain"
	dErrors "geoclock/pkg/domain-errors"
)

// UpsertWarehouseRequest is the body of PUT /admin/warehouses/{id}.
type UpsertWarehouseRequest struct {
	Name                 string  `json:"name"`
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
	GeofenceRadiusMeters float64 `json:"geofence_radius_meters"`
}

func (r *UpsertWarehouseRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.GeofenceRadiusMeters <= 0 {
		return dErrors.New(dErrors.CodeValidation, "geofence_radius_meters must be positive")
	}
	if _, err := geo.NewCoordinate(r.Latitude, r.Longitude); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "coordinate out of range")
	}
	return nil
}

func (r *UpsertWarehouseRequest) toModel(warehouseID id.WarehouseID) warehouse.Warehouse {
	return warehouse.Warehouse{
		ID:                   warehouseID,
		Name:                 r.Name,
		Coordinate:           geo.Coordinate{Latitude: r.Latitude, Longitude: r.Longitude},
		GeofenceRadiusMeters: r.GeofenceRadiusMeters,
	}
}

// UpsertRuleRequest is the body of PUT /admin/warehouses/{id}/rule.
type UpsertRuleRequest struct {
	WorkStartTime         string `json:"work_start_time"`
	WorkEndTime           string `json:"work_end_time"`
	LateThresholdMinutes  int    `json:"late_threshold_minutes"`
	EarlyThresholdMinutes int    `json:"early_threshold_minutes"`
	RequireClockOut       bool   `json:"require_clock_out"`
}

func (r *UpsertRuleRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	// The warehouse id comes from the path.
	return r.toModel(id.WarehouseID{}).Validate()
}

func (r *UpsertRuleRequest) toModel(warehouseID id.WarehouseID) warehouse.AttendanceRule {
	return warehouse.AttendanceRule{
		WarehouseID:           warehouseID,
		WorkStartTime:         r.WorkStartTime,
		WorkEndTime:           r.WorkEndTime,
		LateThresholdMinutes:  r.LateThresholdMinutes,
		EarlyThresholdMinutes: r.EarlyThresholdMinutes,
		RequireClockOut:       r.RequireClockOut,
	}
}
