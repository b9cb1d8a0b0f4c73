// Package policy classifies clock events against a warehouse's attendance
// rule. Differences are measured in whole minutes truncated toward zero, so
// 09:15:59 is 15 minutes after 09:00.
package policy

import (
	"fmt"
	"time"

	"geoclock/internal/attendance/models"
	warehouseModels "geoclock/internal/warehouse/models"
)

// ClassifyClockIn returns late when the event is more than the late threshold
// past the rule's start time on the event's calendar date. A nil rule means no
// policy and is always normal. event must already be in the warehouse time zone.
func ClassifyClockIn(event time.Time, rule *warehouseModels.AttendanceRule) (models.Status, error) {
	if rule == nil {
		return models.StatusNormal, nil
	}
	start, err := rule.Start(event)
	if err != nil {
		return "", fmt.Errorf("classify clock-in: %w", err)
	}
	if wholeMinutes(event.Sub(start)) > rule.LateThresholdMinutes {
		return models.StatusLate, nil
	}
	return models.StatusNormal, nil
}

// ClassifyClockOut returns early when the event is more than the early
// threshold before the rule's end time on the event's calendar date.
func ClassifyClockOut(event time.Time, rule *warehouseModels.AttendanceRule) (models.Status, error) {
	if rule == nil {
		return models.StatusNormal, nil
	}
	end, err := rule.End(event)
	if err != nil {
		return "", fmt.Errorf("classify clock-out: %w", err)
	}
	if wholeMinutes(end.Sub(event)) > rule.EarlyThresholdMinutes {
		return models.StatusEarly, nil
	}
	return models.StatusNormal, nil
}

func wholeMinutes(d time.Duration) int {
	return int(d / time.Minute)
}
