package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "geoclock/pkg/domain"
	audit "geoclock/pkg/platform/audit"
	txcontext "geoclock/pkg/platform/tx"
)

// Store persists audit events in PostgreSQL. Appends join a transaction
// carried in the context when there is one.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Append inserts an audit event. The category is always derived from the
// action so callers cannot misfile an event.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	category := audit.AuditEvent(event.Action).Category()

	var driverID *uuid.UUID
	if !event.DriverID.IsNil() {
		d := uuid.UUID(event.DriverID)
		driverID = &d
	}

	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO audit_events (
			id, category, timestamp, driver_id, action, warehouse_id,
			decision, reason, distance_meters, provider, platform, request_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		uuid.New(),
		string(category),
		event.Timestamp,
		driverID,
		event.Action,
		event.WarehouseID,
		event.Decision,
		event.Reason,
		event.DistanceMeters,
		event.Provider,
		event.Platform,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT category, timestamp, driver_id, action, warehouse_id,
	       decision, reason, distance_meters, provider, platform, request_id
	FROM audit_events`

// ListByDriver returns a driver's events in chronological order, matching
// the in-memory store.
func (s *Store) ListByDriver(ctx context.Context, driverID id.DriverID) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+`
		WHERE driver_id = $1
		ORDER BY timestamp ASC
	`, uuid.UUID(driverID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListRecent returns the N most recent events.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+`
		ORDER BY timestamp DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event

	for rows.Next() {
		var (
			category string
			event    audit.Event
			driverID uuid.NullUUID
		)

		err := rows.Scan(
			&category,
			&event.Timestamp,
			&driverID,
			&event.Action,
			&event.WarehouseID,
			&event.Decision,
			&event.Reason,
			&event.DistanceMeters,
			&event.Provider,
			&event.Platform,
			&event.RequestID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}

		event.Category = audit.EventCategory(category)
		if driverID.Valid {
			event.DriverID = id.DriverID(driverID.UUID)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
