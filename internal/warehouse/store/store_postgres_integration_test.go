//go:build integration

package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"geoclock/internal/geo"
	"geoclock/internal/warehouse/models"
	"geoclock/internal/warehouse/store"
	id "geoclock/pkg/domain"
	dErrors "geoclock/pkg/domain-errors"
	"geoclock/pkg/platform/sentinel"
	"geoclock/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "attendance_rules", "warehouses"))
}

func warehouseAt(name string, lat, lon float64) models.Warehouse {
	return models.Warehouse{
		ID:                   id.WarehouseID(uuid.New()),
		Name:                 name,
		Coordinate:           geo.Coordinate{Latitude: lat, Longitude: lon},
		GeofenceRadiusMeters: 500,
	}
}

func (s *PostgresStoreSuite) TestUpsertAndList() {
	ctx := context.Background()
	a := warehouseAt("North Depot", 31.23, 121.47)
	b := warehouseAt("South Depot", 31.10, 121.40)
	s.Require().NoError(s.store.UpsertWarehouse(ctx, a))
	s.Require().NoError(s.store.UpsertWarehouse(ctx, b))

	list, err := s.store.ListCandidateWarehouses(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.True(list[0].ID.Less(list[1].ID), "candidates are ordered by id")

	a.Name = "North Depot 2"
	a.GeofenceRadiusMeters = 300
	s.Require().NoError(s.store.UpsertWarehouse(ctx, a))

	got, err := s.store.GetWarehouse(ctx, a.ID)
	s.Require().NoError(err)
	s.Equal("North Depot 2", got.Name)
	s.InDelta(300, got.GeofenceRadiusMeters, 1e-9)
	s.InDelta(31.23, got.Coordinate.Latitude, 1e-9)
}

func (s *PostgresStoreSuite) TestGetWarehouseNotFound() {
	_, err := s.store.GetWarehouse(context.Background(), id.WarehouseID(uuid.New()))
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *PostgresStoreSuite) TestInvalidWarehouseRejected() {
	w := warehouseAt("", 31.23, 121.47)
	err := s.store.UpsertWarehouse(context.Background(), w)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *PostgresStoreSuite) TestAttendanceRule() {
	ctx := context.Background()
	w := warehouseAt("North Depot", 31.23, 121.47)
	s.Require().NoError(s.store.UpsertWarehouse(ctx, w))

	s.Run("missing rule is nil", func() {
		rule, err := s.store.GetAttendanceRule(ctx, w.ID)
		s.Require().NoError(err)
		s.Nil(rule)
	})

	s.Run("upsert then read", func() {
		rule := models.AttendanceRule{
			WarehouseID:           w.ID,
			WorkStartTime:         "09:00",
			WorkEndTime:           "18:00",
			LateThresholdMinutes:  15,
			EarlyThresholdMinutes: 10,
			RequireClockOut:       true,
		}
		s.Require().NoError(s.store.UpsertAttendanceRule(ctx, rule))
		rule.LateThresholdMinutes = 5
		s.Require().NoError(s.store.UpsertAttendanceRule(ctx, rule))

		got, err := s.store.GetAttendanceRule(ctx, w.ID)
		s.Require().NoError(err)
		s.Require().NotNil(got)
		s.Equal(rule, *got)
	})

	s.Run("unknown warehouse", func() {
		err := s.store.UpsertAttendanceRule(ctx, models.AttendanceRule{
			WarehouseID:   id.WarehouseID(uuid.New()),
			WorkStartTime: "09:00",
			WorkEndTime:   "18:00",
		})
		s.True(errors.Is(err, sentinel.ErrNotFound))
	})
}
