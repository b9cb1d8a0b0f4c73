package models

import (
	"time"

	"geoclock/internal/geo"
	"geoclock/internal/location"
	id "geoclock/pkg/domain"
)

// Status classifies one clock event against the warehouse time policy.
type Status string

const (
	StatusNormal Status = "normal"
	StatusLate   Status = "late"
	StatusEarly  Status = "early"
	// StatusAbsent is assigned by end-of-day processing outside the clock
	// flow. The classifier never produces it.
	StatusAbsent Status = "absent"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusNormal, StatusLate, StatusEarly, StatusAbsent:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// Action names the clock operation being performed.
type Action string

const (
	ActionClockIn  Action = "clock_in"
	ActionClockOut Action = "clock_out"
)

// ClockDecision is the accepted outcome of a clock action.
type ClockDecision struct {
	WarehouseID    id.WarehouseID `json:"warehouse_id"`
	WarehouseName  string         `json:"warehouse_name"`
	DistanceMeters float64        `json:"distance_meters"`
	WithinRange    bool           `json:"within_range"`
	Status         Status         `json:"status"`
}

// SessionState is the per-day lifecycle position. "No session" is represented
// by the absence of a Session.
type SessionState string

const (
	SessionOpen   SessionState = "open"
	SessionClosed SessionState = "closed"
)

// Punch is one recorded clock event.
type Punch struct {
	At             time.Time             `json:"at"`
	Coordinate     geo.Coordinate        `json:"coordinate"`
	Address        string                `json:"address"`
	Provider       location.ProviderKind `json:"provider"`
	DistanceMeters float64               `json:"distance_meters"`
	Status         Status                `json:"status"`
}

// Session is the clock-in/clock-out pairing for one driver on one work date.
// Sessions are closed, never deleted.
type Session struct {
	ID            id.SessionID   `json:"id"`
	DriverID      id.DriverID    `json:"driver_id"`
	WorkDate      id.WorkDate    `json:"work_date"`
	WarehouseID   id.WarehouseID `json:"warehouse_id"`
	WarehouseName string         `json:"warehouse_name"`
	State         SessionState   `json:"state"`
	ClockIn       Punch          `json:"clock_in"`
	ClockOut      *Punch         `json:"clock_out,omitempty"`
}

func (s *Session) IsOpen() bool { return s != nil && s.State == SessionOpen }

// ClockIn is what the orchestrator asks the store to persist when opening a
// session.
type ClockIn struct {
	SessionID     id.SessionID
	DriverID      id.DriverID
	WorkDate      id.WorkDate
	WarehouseID   id.WarehouseID
	WarehouseName string
	Punch         Punch
}

// NewSession builds the open session a ClockIn produces.
func (c ClockIn) NewSession() *Session {
	return &Session{
		ID:            c.SessionID,
		DriverID:      c.DriverID,
		WorkDate:      c.WorkDate,
		WarehouseID:   c.WarehouseID,
		WarehouseName: c.WarehouseName,
		State:         SessionOpen,
		ClockIn:       c.Punch,
	}
}

// ClockOut is the closing punch for an open session.
type ClockOut struct {
	Punch Punch
}

// NotificationKind identifies why a notification was sent.
type NotificationKind string

const (
	NotificationLateClockIn   NotificationKind = "late_clock_in"
	NotificationEarlyClockOut NotificationKind = "early_clock_out"
)

// Notification tells downstream consumers about a non-normal classification.
type Notification struct {
	Kind          NotificationKind `json:"kind"`
	DriverID      id.DriverID      `json:"driver_id"`
	SessionID     id.SessionID     `json:"session_id"`
	WarehouseID   id.WarehouseID   `json:"warehouse_id"`
	WarehouseName string           `json:"warehouse_name"`
	WorkDate      id.WorkDate      `json:"work_date"`
	Status        Status           `json:"status"`
	OccurredAt    time.Time        `json:"occurred_at"`
}
