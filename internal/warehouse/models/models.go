package models

import (
	"fmt"
	"time"

	"geoclock/internal/geo"
	id "geoclock/pkg/domain"
	dErrors "geoclock/pkg/domain-errors"
)

// Warehouse is a physical site a driver can clock in at.
type Warehouse struct {
	ID                   id.WarehouseID `json:"id"`
	Name                 string         `json:"name"`
	Coordinate           geo.Coordinate `json:"coordinate"`
	GeofenceRadiusMeters float64        `json:"geofence_radius_meters"`
}

// Validate checks the warehouse is usable for geofencing.
func (w Warehouse) Validate() error {
	if w.ID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "warehouse id is required")
	}
	if w.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "warehouse name is required")
	}
	if err := w.Coordinate.Validate(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "warehouse coordinate is invalid")
	}
	if w.GeofenceRadiusMeters <= 0 {
		return dErrors.New(dErrors.CodeValidation, "geofence radius must be positive")
	}
	return nil
}

// Clock is a wall-clock time of day in whole minutes since midnight.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" in 24-hour form.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' || !isDigit(s[0]) || !isDigit(s[1]) || !isDigit(s[3]) || !isDigit(s[4]) {
		return Clock{}, fmt.Errorf("invalid clock %q: want HH:MM", s)
	}
	c := Clock{
		Hour:   int(s[0]-'0')*10 + int(s[1]-'0'),
		Minute: int(s[3]-'0')*10 + int(s[4]-'0'),
	}
	if c.Hour > 23 || c.Minute > 59 {
		return Clock{}, fmt.Errorf("invalid clock %q: out of range", s)
	}
	return c, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On returns this time of day on the calendar date of t, in t's location.
func (c Clock) On(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.Hour, c.Minute, 0, 0, t.Location())
}

// AttendanceRule is the per-warehouse time policy. A missing rule means every
// event is classified normal.
type AttendanceRule struct {
	WarehouseID           id.WarehouseID `json:"warehouse_id"`
	WorkStartTime         string         `json:"work_start_time"`
	WorkEndTime           string         `json:"work_end_time"`
	LateThresholdMinutes  int            `json:"late_threshold_minutes"`
	EarlyThresholdMinutes int            `json:"early_threshold_minutes"`
	RequireClockOut       bool           `json:"require_clock_out"`
}

func (r AttendanceRule) Validate() error {
	if _, err := ParseClock(r.WorkStartTime); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "work start time is invalid")
	}
	if _, err := ParseClock(r.WorkEndTime); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "work end time is invalid")
	}
	if r.LateThresholdMinutes < 0 {
		return dErrors.New(dErrors.CodeValidation, "late threshold must not be negative")
	}
	if r.EarlyThresholdMinutes < 0 {
		return dErrors.New(dErrors.CodeValidation, "early threshold must not be negative")
	}
	return nil
}

// Start is the rule's start time on the calendar date of t.
func (r AttendanceRule) Start(t time.Time) (time.Time, error) {
	c, err := ParseClock(r.WorkStartTime)
	if err != nil {
		return time.Time{}, err
	}
	return c.On(t), nil
}

// End is the rule's end time on the calendar date of t.
func (r AttendanceRule) End(t time.Time) (time.Time, error) {
	c, err := ParseClock(r.WorkEndTime)
	if err != nil {
		return time.Time{}, err
	}
	return c.On(t), nil
}
