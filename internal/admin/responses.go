package admin

import (
	"time"

	warehouse "geoclock/internal/warehouse/models"
	audit "geoclock/pkg/platform/audit"
)

type RuleResponse struct {
	WorkStartTime         string `json:"work_start_time"`
	WorkEndTime           string `json:"work_end_time"`
	LateThresholdMinutes  int    `json:"late_threshold_minutes"`
	EarlyThresholdMinutes int    `json:"early_threshold_minutes"`
	RequireClockOut       bool   `json:"require_clock_out"`
}

type WarehouseResponse struct {
	ID                   string        `json:"id"`
	Name                 string        `json:"name"`
	Latitude             float64       `json:"latitude"`
	Longitude            float64       `json:"longitude"`
	GeofenceRadiusMeters float64       `json:"geofence_radius_meters"`
	Rule                 *RuleResponse `json:"rule,omitempty"`
}

// WarehousesListResponse wraps the warehouse list for HTTP response.
type WarehousesListResponse struct {
	Warehouses []WarehouseResponse `json:"warehouses"`
	Total      int                 `json:"total"`
}

type AuditEventResponse struct {
	Category       string    `json:"category"`
	Timestamp      time.Time `json:"timestamp"`
	Action         string    `json:"action"`
	WarehouseID    string    `json:"warehouse_id,omitempty"`
	Decision       string    `json:"decision"`
	Reason         string    `json:"reason,omitempty"`
	DistanceMeters float64   `json:"distance_meters,omitempty"`
	Provider       string    `json:"provider,omitempty"`
	Platform       string    `json:"platform,omitempty"`
	RequestID      string    `json:"request_id,omitempty"`
}

type AuditListResponse struct {
	DriverID string               `json:"driver_id"`
	Events   []AuditEventResponse `json:"events"`
}

func toWarehouseResponse(w warehouse.Warehouse, rule *warehouse.AttendanceRule) WarehouseResponse {
	resp := WarehouseResponse{
		ID:                   w.ID.String(),
		Name:                 w.Name,
		Latitude:             w.Coordinate.Latitude,
		Longitude:            w.Coordinate.Longitude,
		GeofenceRadiusMeters: w.GeofenceRadiusMeters,
	}
	if rule != nil {
		resp.Rule = &RuleResponse{
			WorkStartTime:         rule.WorkStartTime,
			WorkEndTime:           rule.WorkEndTime,
			LateThresholdMinutes:  rule.LateThresholdMinutes,
			EarlyThresholdMinutes: rule.EarlyThresholdMinutes,
			RequireClockOut:       rule.RequireClockOut,
		}
	}
	return resp
}

func toAuditEventResponse(e audit.Event) AuditEventResponse {
	return AuditEventResponse{
		Category:       string(e.Category),
		Timestamp:      e.Timestamp,
		Action:         e.Action,
		WarehouseID:    e.WarehouseID,
		Decision:       e.Decision,
		Reason:         e.Reason,
		DistanceMeters: e.DistanceMeters,
		Provider:       e.Provider,
		Platform:       e.Platform,
		RequestID:      e.RequestID,
	}
}
