//go:build integration

package session_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"geoclock/internal/attendance/models"
	"geoclock/internal/attendance/store/session"
	id "geoclock/pkg/domain"
	"geoclock/pkg/platform/sentinel"
	"geoclock/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *session.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.store = session.NewRedis(s.redis.Client, session.WithSessionTTL(time.Hour))
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	driverID := id.DriverID(uuid.New())
	in := makeClockIn(driverID, "2024-05-06")

	_, err := s.store.CreateClockIn(ctx, in)
	s.Require().NoError(err)

	got, err := s.store.GetOpenSession(ctx, driverID, "2024-05-06")
	s.Require().NoError(err)
	s.Equal(in.SessionID, got.ID)
	s.Equal(in.WarehouseID, got.WarehouseID)
	s.True(in.Punch.At.Equal(got.ClockIn.At))
	s.Equal(in.Punch.Coordinate, got.ClockIn.Coordinate)

	ttl, err := s.redis.Client.TTL(ctx, "geoclock:session:"+driverID.String()+":2024-05-06").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))

	closed, err := s.store.CloseClockOut(ctx, in.SessionID, makeClockOut())
	s.Require().NoError(err)
	s.True(closed)

	got, err = s.store.GetSession(ctx, driverID, "2024-05-06")
	s.Require().NoError(err)
	s.Equal(models.SessionClosed, got.State)
	s.Require().NotNil(got.ClockOut)

	ttlAfter, err := s.redis.Client.TTL(ctx, "geoclock:session:"+driverID.String()+":2024-05-06").Result()
	s.Require().NoError(err)
	s.Greater(ttlAfter, time.Duration(0), "closing keeps the expiry")
}

func (s *RedisStoreSuite) TestDuplicateClockInConflicts() {
	ctx := context.Background()
	driverID := id.DriverID(uuid.New())

	_, err := s.store.CreateClockIn(ctx, makeClockIn(driverID, "2024-05-06"))
	s.Require().NoError(err)

	_, err = s.store.CreateClockIn(ctx, makeClockIn(driverID, "2024-05-06"))
	s.ErrorIs(err, sentinel.ErrConflict)
}

// The day key and the id index are written together: a created session is
// always closable, and a rejected duplicate leaves no index behind.
func (s *RedisStoreSuite) TestCreateWritesDayKeyAndIndexTogether() {
	ctx := context.Background()
	driverID := id.DriverID(uuid.New())
	dayKey := "geoclock:session:" + driverID.String() + ":2024-05-06"

	first := makeClockIn(driverID, "2024-05-06")
	_, err := s.store.CreateClockIn(ctx, first)
	s.Require().NoError(err)

	indexed, err := s.redis.Client.Get(ctx, "geoclock:session:id:"+first.SessionID.String()).Result()
	s.Require().NoError(err)
	s.Equal(dayKey, indexed)
	ttl, err := s.redis.Client.PTTL(ctx, "geoclock:session:id:"+first.SessionID.String()).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))

	dup := makeClockIn(driverID, "2024-05-06")
	_, err = s.store.CreateClockIn(ctx, dup)
	s.Require().ErrorIs(err, sentinel.ErrConflict)
	exists, err := s.redis.Client.Exists(ctx, "geoclock:session:id:"+dup.SessionID.String()).Result()
	s.Require().NoError(err)
	s.Zero(exists)

	closed, err := s.store.CloseClockOut(ctx, first.SessionID, makeClockOut())
	s.Require().NoError(err)
	s.True(closed)
}

func (s *RedisStoreSuite) TestCloseUnknownSession() {
	_, err := s.store.CloseClockOut(context.Background(), id.NewSessionID(), makeClockOut())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentClose verifies that WATCH lets exactly one close win.
func (s *RedisStoreSuite) TestConcurrentClose() {
	ctx := context.Background()
	in := makeClockIn(id.DriverID(uuid.New()), "2024-05-06")
	_, err := s.store.CreateClockIn(ctx, in)
	s.Require().NoError(err)

	const goroutines = 20
	var wg sync.WaitGroup
	var closedCount atomic.Int32
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			closed, err := s.store.CloseClockOut(ctx, in.SessionID, makeClockOut())
			if err == nil && closed {
				closedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), closedCount.Load())
}

func (s *RedisStoreSuite) TestConcurrentClockIn() {
	ctx := context.Background()
	driverID := id.DriverID(uuid.New())

	const goroutines = 30
	var wg sync.WaitGroup
	var created atomic.Int32
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.store.CreateClockIn(ctx, makeClockIn(driverID, "2024-05-06")); err == nil {
				created.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), created.Load())
}
