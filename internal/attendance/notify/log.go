package notify

import (
	"context"
	"errors"
	"log/slog"

	"geoclock/internal/attendance/models"
	"geoclock/internal/attendance/ports"
)

// Log writes notifications to the structured log. Used in dev mode and as a
// secondary sink next to Kafka.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

func (l *Log) Notify(ctx context.Context, n models.Notification) error {
	l.logger.InfoContext(ctx, "attendance notification",
		"kind", string(n.Kind),
		"driver_id", n.DriverID.String(),
		"session_id", n.SessionID.String(),
		"warehouse_id", n.WarehouseID.String(),
		"warehouse_name", n.WarehouseName,
		"work_date", n.WorkDate.String(),
		"status", string(n.Status),
		"occurred_at", n.OccurredAt,
	)
	return nil
}

// Multi sends each notification to every notifier and joins their errors.
type Multi []ports.Notifier

func (m Multi) Notify(ctx context.Context, n models.Notification) error {
	var errs []error
	for _, notifier := range m {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
