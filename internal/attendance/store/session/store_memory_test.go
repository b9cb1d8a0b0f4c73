package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"geoclock/internal/attendance/models"
	"geoclock/internal/attendance/store/session"
	"geoclock/internal/geo"
	"geoclock/internal/location"
	id "geoclock/pkg/domain"
	"geoclock/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *session.InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = session.NewInMemoryStore()
	s.ctx = context.Background()
}

func makeClockIn(driverID id.DriverID, workDate id.WorkDate) models.ClockIn {
	return models.ClockIn{
		SessionID:     id.NewSessionID(),
		DriverID:      driverID,
		WorkDate:      workDate,
		WarehouseID:   id.WarehouseID(uuid.New()),
		WarehouseName: "Chaoyang DC",
		Punch: models.Punch{
			At:             time.Date(2024, 5, 6, 9, 10, 0, 0, time.UTC),
			Coordinate:     geo.Coordinate{Latitude: 39.9042, Longitude: 116.4074},
			Address:        "39.904200,116.407400",
			Provider:       location.ProviderPrimaryGeocoder,
			DistanceMeters: 450,
			Status:         models.StatusNormal,
		},
	}
}

func makeClockOut() models.ClockOut {
	return models.ClockOut{Punch: models.Punch{
		At:             time.Date(2024, 5, 6, 17, 50, 0, 0, time.UTC),
		Coordinate:     geo.Coordinate{Latitude: 39.9042, Longitude: 116.4074},
		Provider:       location.ProviderDeviceGPS,
		DistanceMeters: 120,
		Status:         models.StatusNormal,
	}}
}

func (s *InMemoryStoreSuite) TestCreateClockIn() {
	driverID := id.DriverID(uuid.New())
	in := makeClockIn(driverID, "2024-05-06")

	s.Run("opens a session", func() {
		created, err := s.store.CreateClockIn(s.ctx, in)
		s.Require().NoError(err)
		s.Equal(in.SessionID, created.ID)
		s.Equal(models.SessionOpen, created.State)
		s.Nil(created.ClockOut)

		got, err := s.store.GetOpenSession(s.ctx, driverID, "2024-05-06")
		s.Require().NoError(err)
		s.Equal(created, got)
	})

	s.Run("second clock-in the same day conflicts", func() {
		_, err := s.store.CreateClockIn(s.ctx, makeClockIn(driverID, "2024-05-06"))
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("a different day is independent", func() {
		_, err := s.store.CreateClockIn(s.ctx, makeClockIn(driverID, "2024-05-07"))
		s.NoError(err)
	})
}

func (s *InMemoryStoreSuite) TestGetSessionNotFound() {
	_, err := s.store.GetSession(s.ctx, id.DriverID(uuid.New()), "2024-05-06")
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.GetOpenSession(s.ctx, id.DriverID(uuid.New()), "2024-05-06")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestCloseClockOut() {
	driverID := id.DriverID(uuid.New())
	in := makeClockIn(driverID, "2024-05-06")
	_, err := s.store.CreateClockIn(s.ctx, in)
	s.Require().NoError(err)

	closed, err := s.store.CloseClockOut(s.ctx, in.SessionID, makeClockOut())
	s.Require().NoError(err)
	s.True(closed)

	got, err := s.store.GetSession(s.ctx, driverID, "2024-05-06")
	s.Require().NoError(err)
	s.Equal(models.SessionClosed, got.State)
	s.Require().NotNil(got.ClockOut)
	s.Equal(location.ProviderDeviceGPS, got.ClockOut.Provider)

	_, err = s.store.GetOpenSession(s.ctx, driverID, "2024-05-06")
	s.ErrorIs(err, sentinel.ErrNotFound, "closed sessions are not open")

	s.Run("closing twice reports not open", func() {
		closed, err := s.store.CloseClockOut(s.ctx, in.SessionID, makeClockOut())
		s.NoError(err)
		s.False(closed)
	})

	s.Run("unknown session", func() {
		_, err := s.store.CloseClockOut(s.ctx, id.NewSessionID(), makeClockOut())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestReturnedSessionsAreCopies() {
	driverID := id.DriverID(uuid.New())
	in := makeClockIn(driverID, "2024-05-06")
	created, err := s.store.CreateClockIn(s.ctx, in)
	s.Require().NoError(err)

	created.State = models.SessionClosed

	got, err := s.store.GetSession(s.ctx, driverID, "2024-05-06")
	s.Require().NoError(err)
	s.Equal(models.SessionOpen, got.State)
}

// Concurrent clock-ins for one driver and day must open exactly one session.
func (s *InMemoryStoreSuite) TestConcurrentCreateClockIn() {
	driverID := id.DriverID(uuid.New())
	const goroutines = 50

	var wg sync.WaitGroup
	var created, conflicts atomic.Int32
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.CreateClockIn(s.ctx, makeClockIn(driverID, "2024-05-06"))
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), created.Load())
	s.Equal(int32(goroutines-1), conflicts.Load())
}

func (s *InMemoryStoreSuite) TestConcurrentCloseClockOut() {
	in := makeClockIn(id.DriverID(uuid.New()), "2024-05-06")
	_, err := s.store.CreateClockIn(s.ctx, in)
	s.Require().NoError(err)

	const goroutines = 20
	var wg sync.WaitGroup
	var closedCount atomic.Int32
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			closed, err := s.store.CloseClockOut(s.ctx, in.SessionID, makeClockOut())
			if err == nil && closed {
				closedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), closedCount.Load())
}
