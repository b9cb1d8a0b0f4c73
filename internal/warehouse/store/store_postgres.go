package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"geoclock/internal/geo"
	"geoclock/internal/warehouse/models"
	id "geoclock/pkg/domain"
	"geoclock/pkg/platform/sentinel"
)

// PostgresStore reads warehouses and attendance rules from PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed warehouse source.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const warehouseColumns = `id, name, latitude, longitude, geofence_radius_meters`

func (s *PostgresStore) ListCandidateWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+warehouseColumns+`
		FROM warehouses
		WHERE active
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	var out []models.Warehouse
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) GetWarehouse(ctx context.Context, warehouseID id.WarehouseID) (*models.Warehouse, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+warehouseColumns+`
		FROM warehouses
		WHERE id = $1
	`, uuid.UUID(warehouseID))
	w, err := scanWarehouse(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

// GetAttendanceRule returns nil, nil when the warehouse has no rule.
func (s *PostgresStore) GetAttendanceRule(ctx context.Context, warehouseID id.WarehouseID) (*models.AttendanceRule, error) {
	var r models.AttendanceRule
	var wid uuid.UUID
	err := s.pool.QueryRow(ctx, `
		SELECT warehouse_id, work_start_time, work_end_time,
		       late_threshold_minutes, early_threshold_minutes, require_clock_out
		FROM attendance_rules
		WHERE warehouse_id = $1
	`, uuid.UUID(warehouseID)).Scan(
		&wid, &r.WorkStartTime, &r.WorkEndTime,
		&r.LateThresholdMinutes, &r.EarlyThresholdMinutes, &r.RequireClockOut,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attendance rule: %w", err)
	}
	r.WarehouseID = id.WarehouseID(wid)
	return &r, nil
}

// UpsertWarehouse inserts or replaces a warehouse and marks it active.
func (s *PostgresStore) UpsertWarehouse(ctx context.Context, w models.Warehouse) error {
	if err := w.Validate(); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO warehouses (id, name, latitude, longitude, geofence_radius_meters, active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			geofence_radius_meters = EXCLUDED.geofence_radius_meters,
			active = TRUE,
			updated_at = NOW()
	`, uuid.UUID(w.ID), w.Name, w.Coordinate.Latitude, w.Coordinate.Longitude, w.GeofenceRadiusMeters)
	if err != nil {
		return fmt.Errorf("upsert warehouse: %w", err)
	}
	return nil
}

// UpsertAttendanceRule inserts or replaces the rule of an existing warehouse.
func (s *PostgresStore) UpsertAttendanceRule(ctx context.Context, r models.AttendanceRule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO attendance_rules (warehouse_id, work_start_time, work_end_time,
			late_threshold_minutes, early_threshold_minutes, require_clock_out)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (warehouse_id) DO UPDATE SET
			work_start_time = EXCLUDED.work_start_time,
			work_end_time = EXCLUDED.work_end_time,
			late_threshold_minutes = EXCLUDED.late_threshold_minutes,
			early_threshold_minutes = EXCLUDED.early_threshold_minutes,
			require_clock_out = EXCLUDED.require_clock_out,
			updated_at = NOW()
	`, uuid.UUID(r.WarehouseID), r.WorkStartTime, r.WorkEndTime,
		r.LateThresholdMinutes, r.EarlyThresholdMinutes, r.RequireClockOut)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("upsert attendance rule: %w", err)
	}
	return nil
}

const foreignKeyViolation = "23503"

func scanWarehouse(row pgx.Row) (models.Warehouse, error) {
	var (
		wid      uuid.UUID
		w        models.Warehouse
		lat, lon float64
	)
	if err := row.Scan(&wid, &w.Name, &lat, &lon, &w.GeofenceRadiusMeters); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Warehouse{}, err
		}
		return models.Warehouse{}, fmt.Errorf("scan warehouse: %w", err)
	}
	w.ID = id.WarehouseID(wid)
	w.Coordinate = geo.Coordinate{Latitude: lat, Longitude: lon}
	return w, nil
}
