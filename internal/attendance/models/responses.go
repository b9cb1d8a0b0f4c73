package models

import "time"

// ClockResponse is returned by successful clock actions.
type ClockResponse struct {
	SessionID      string    `json:"session_id"`
	WorkDate       string    `json:"work_date"`
	Action         Action    `json:"action"`
	WarehouseID    string    `json:"warehouse_id"`
	WarehouseName  string    `json:"warehouse_name"`
	DistanceMeters float64   `json:"distance_meters"`
	WithinRange    bool      `json:"within_range"`
	Status         Status    `json:"status"`
	Address        string    `json:"address"`
	Provider       string    `json:"provider"`
	At             time.Time `json:"at"`
}

// TodayResponse describes the driver's clock state for today.
type TodayResponse struct {
	WorkDate string   `json:"work_date"`
	State    string   `json:"state"`
	Session  *Session `json:"session,omitempty"`
}

// ErrorResponse is the body of a rejected clock action.
type ErrorResponse struct {
	Error            string   `json:"error"`
	ErrorDescription string   `json:"error_description"`
	Retryable        bool     `json:"retryable"`
	WarehouseName    string   `json:"warehouse_name,omitempty"`
	DistanceMeters   *float64 `json:"distance_meters,omitempty"`
}

func unixMilli(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
