package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoclock/internal/geo"
	"geoclock/internal/warehouse/models"
	id "geoclock/pkg/domain"
	"geoclock/pkg/platform/sentinel"
)

func testWarehouse(t *testing.T, raw, name string) models.Warehouse {
	t.Helper()
	wid, err := id.ParseWarehouseID(raw)
	require.NoError(t, err)
	return models.Warehouse{
		ID:                   wid,
		Name:                 name,
		Coordinate:           geo.Coordinate{Latitude: 39.9042, Longitude: 116.4074},
		GeofenceRadiusMeters: 500,
	}
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("lists candidates ordered by id", func(t *testing.T) {
		s := NewInMemoryStore()
		require.NoError(t, s.UpsertWarehouse(ctx, testWarehouse(t, "00000000-0000-0000-0000-000000000003", "C")))
		require.NoError(t, s.UpsertWarehouse(ctx, testWarehouse(t, "00000000-0000-0000-0000-000000000001", "A")))
		require.NoError(t, s.UpsertWarehouse(ctx, testWarehouse(t, "00000000-0000-0000-0000-000000000002", "B")))

		got, err := s.ListCandidateWarehouses(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"A", "B", "C"}, []string{got[0].Name, got[1].Name, got[2].Name})
	})

	t.Run("empty store lists nothing", func(t *testing.T) {
		got, err := NewInMemoryStore().ListCandidateWarehouses(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("missing rule is nil without error", func(t *testing.T) {
		s := NewInMemoryStore()
		w := testWarehouse(t, "00000000-0000-0000-0000-000000000001", "A")
		require.NoError(t, s.UpsertWarehouse(ctx, w))

		rule, err := s.GetAttendanceRule(ctx, w.ID)
		require.NoError(t, err)
		assert.Nil(t, rule)
	})

	t.Run("rule round trip", func(t *testing.T) {
		s := NewInMemoryStore()
		w := testWarehouse(t, "00000000-0000-0000-0000-000000000001", "A")
		require.NoError(t, s.UpsertWarehouse(ctx, w))
		require.NoError(t, s.UpsertAttendanceRule(ctx, models.AttendanceRule{
			WarehouseID: w.ID, WorkStartTime: "09:00", WorkEndTime: "18:00",
			LateThresholdMinutes: 15, EarlyThresholdMinutes: 10, RequireClockOut: true,
		}))

		rule, err := s.GetAttendanceRule(ctx, w.ID)
		require.NoError(t, err)
		require.NotNil(t, rule)
		assert.Equal(t, 15, rule.LateThresholdMinutes)
	})

	t.Run("rule for unknown warehouse", func(t *testing.T) {
		s := NewInMemoryStore()
		w := testWarehouse(t, "00000000-0000-0000-0000-000000000001", "A")
		err := s.UpsertAttendanceRule(ctx, models.AttendanceRule{WarehouseID: w.ID, WorkStartTime: "09:00", WorkEndTime: "18:00"})
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("unknown warehouse lookup", func(t *testing.T) {
		w := testWarehouse(t, "00000000-0000-0000-0000-000000000009", "Z")
		_, err := NewInMemoryStore().GetWarehouse(ctx, w.ID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("invalid warehouse is rejected", func(t *testing.T) {
		w := testWarehouse(t, "00000000-0000-0000-0000-000000000001", "A")
		w.GeofenceRadiusMeters = -1
		assert.Error(t, NewInMemoryStore().UpsertWarehouse(ctx, w))
	})
}
