package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"geoclock/internal/attendance/models"
	"geoclock/internal/geo"
	"geoclock/internal/location"
	id "geoclock/pkg/domain"
	"geoclock/pkg/platform/sentinel"
	txcontext "geoclock/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists sessions in attendance_sessions. The
// (driver_id, work_date) unique constraint is the duplicate guard.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const sessionColumns = `
	id, driver_id, work_date, warehouse_id, warehouse_name, status,
	clock_in_at, clock_in_latitude, clock_in_longitude, clock_in_address,
	clock_in_provider, clock_in_distance_meters, clock_in_status,
	clock_out_at, clock_out_latitude, clock_out_longitude, clock_out_address,
	clock_out_provider, clock_out_distance_meters, clock_out_status`

func (s *PostgresStore) GetSession(ctx context.Context, driverID id.DriverID, workDate id.WorkDate) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM attendance_sessions WHERE driver_id = $1 AND work_date = $2`
	return s.querySession(ctx, query, uuid.UUID(driverID), workDate.String())
}

func (s *PostgresStore) GetOpenSession(ctx context.Context, driverID id.DriverID, workDate id.WorkDate) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM attendance_sessions
		WHERE driver_id = $1 AND work_date = $2 AND status = 'open'`
	return s.querySession(ctx, query, uuid.UUID(driverID), workDate.String())
}

func (s *PostgresStore) CreateClockIn(ctx context.Context, in models.ClockIn) (*models.Session, error) {
	query := `
		INSERT INTO attendance_sessions (
			id, driver_id, work_date, warehouse_id, warehouse_name, status,
			clock_in_at, clock_in_latitude, clock_in_longitude, clock_in_address,
			clock_in_provider, clock_in_distance_meters, clock_in_status
		) VALUES ($1, $2, $3, $4, $5, 'open', $6, $7, $8, $9, $10, $11, $12)`
	p := in.Punch
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(in.SessionID), uuid.UUID(in.DriverID), in.WorkDate.String(),
		uuid.UUID(in.WarehouseID), in.WarehouseName,
		p.At, p.Coordinate.Latitude, p.Coordinate.Longitude, p.Address,
		string(p.Provider), p.DistanceMeters, string(p.Status),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, sentinel.ErrConflict
		}
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return in.NewSession(), nil
}

// CloseClockOut locks the row so the open-state check and the update happen
// as one step.
func (s *PostgresStore) CloseClockOut(ctx context.Context, sessionID id.SessionID, out models.ClockOut) (bool, error) {
	closed := false
	err := txcontext.RunInTx(ctx, s.db, func(ctx context.Context) error {
		var status string
		err := s.execer(ctx).QueryRowContext(ctx,
			`SELECT status FROM attendance_sessions WHERE id = $1 FOR UPDATE`,
			uuid.UUID(sessionID),
		).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock session: %w", err)
		}
		if models.SessionState(status) != models.SessionOpen {
			return nil
		}
		p := out.Punch
		_, err = s.execer(ctx).ExecContext(ctx, `
			UPDATE attendance_sessions SET
				status = 'closed',
				clock_out_at = $2,
				clock_out_latitude = $3,
				clock_out_longitude = $4,
				clock_out_address = $5,
				clock_out_provider = $6,
				clock_out_distance_meters = $7,
				clock_out_status = $8,
				updated_at = NOW()
			WHERE id = $1`,
			uuid.UUID(sessionID), p.At, p.Coordinate.Latitude, p.Coordinate.Longitude,
			p.Address, string(p.Provider), p.DistanceMeters, string(p.Status),
		)
		if err != nil {
			return fmt.Errorf("close session: %w", err)
		}
		closed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return closed, nil
}

func (s *PostgresStore) querySession(ctx context.Context, query string, args ...any) (*models.Session, error) {
	var (
		sessionID, driverID, warehouseID uuid.UUID
		workDate                         sqlDate
		status                           string
		in                               punchRow
		out                              nullPunchRow
		session                          models.Session
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, args...).Scan(
		&sessionID, &driverID, &workDate, &warehouseID, &session.WarehouseName, &status,
		&in.at, &in.lat, &in.lon, &in.address, &in.provider, &in.distance, &in.status,
		&out.at, &out.lat, &out.lon, &out.address, &out.provider, &out.distance, &out.status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	session.ID = id.SessionID(sessionID)
	session.DriverID = id.DriverID(driverID)
	session.WarehouseID = id.WarehouseID(warehouseID)
	session.WorkDate = id.WorkDate(workDate)
	session.State = models.SessionState(status)
	session.ClockIn = in.punch()
	session.ClockOut = out.punch()
	return &session, nil
}

type punchRow struct {
	at       sql.NullTime
	lat, lon float64
	address  string
	provider string
	distance float64
	status   string
}

func (r punchRow) punch() models.Punch {
	return models.Punch{
		At:             r.at.Time,
		Coordinate:     geo.Coordinate{Latitude: r.lat, Longitude: r.lon},
		Address:        r.address,
		Provider:       location.ProviderKind(r.provider),
		DistanceMeters: r.distance,
		Status:         models.Status(r.status),
	}
}

type nullPunchRow struct {
	at       sql.NullTime
	lat, lon sql.NullFloat64
	address  sql.NullString
	provider sql.NullString
	distance sql.NullFloat64
	status   sql.NullString
}

func (r nullPunchRow) punch() *models.Punch {
	if !r.at.Valid {
		return nil
	}
	return &models.Punch{
		At:             r.at.Time,
		Coordinate:     geo.Coordinate{Latitude: r.lat.Float64, Longitude: r.lon.Float64},
		Address:        r.address.String,
		Provider:       location.ProviderKind(r.provider.String),
		DistanceMeters: r.distance.Float64,
		Status:         models.Status(r.status.String),
	}
}

// sqlDate scans a DATE column, which lib/pq returns as time.Time.
type sqlDate string

func (d *sqlDate) Scan(src any) error {
	var t sql.NullTime
	if err := t.Scan(src); err != nil {
		return err
	}
	if !t.Valid {
		*d = ""
		return nil
	}
	*d = sqlDate(t.Time.Format("2006-01-02"))
	return nil
}
