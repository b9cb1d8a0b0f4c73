package audit

import (
	"time"

	id "geoclock/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose so stores can
// apply different retention.
type EventCategory string

const (
	// CategoryCompliance covers accepted attendance records that payroll and
	// labour-law reporting rely on.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers rejections that may indicate location spoofing
	// or clocking from the wrong site.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity that can be sampled.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category    EventCategory
	Timestamp   time.Time
	DriverID    id.DriverID
	Action      string
	WarehouseID string
	Decision    string
	Reason      string
	// DistanceMeters is the driver's distance from the evaluated warehouse,
	// zero when no warehouse was evaluated.
	DistanceMeters float64
	Provider       string
	Platform       string
	RequestID      string
}

type AuditEvent string

const (
	EventClockInAccepted  AuditEvent = "clock_in_accepted"
	EventClockInRejected  AuditEvent = "clock_in_rejected"
	EventClockOutAccepted AuditEvent = "clock_out_accepted"
	EventClockOutRejected AuditEvent = "clock_out_rejected"
	EventNotifyFailed     AuditEvent = "notification_failed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventClockInAccepted:  CategoryCompliance,
	EventClockOutAccepted: CategoryCompliance,

	EventClockInRejected:  CategorySecurity,
	EventClockOutRejected: CategorySecurity,

	EventNotifyFailed: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
