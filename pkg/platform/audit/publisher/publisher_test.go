package publisher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	id "geoclock/pkg/domain"
	audit "geoclock/pkg/platform/audit"
	"geoclock/pkg/platform/audit/store/memory"
)

// gatedStore parks every Append until release is closed, so tests can hold
// the drain goroutine and fill the buffer deterministically.
type gatedStore struct {
	entered chan struct{}
	release chan struct{}

	mu     sync.Mutex
	events []audit.Event
}

func newGatedStore() *gatedStore {
	return &gatedStore{entered: make(chan struct{}, 16), release: make(chan struct{})}
}

func (g *gatedStore) Append(_ context.Context, event audit.Event) error {
	g.entered <- struct{}{}
	<-g.release
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, event)
	return nil
}

func (g *gatedStore) ListByDriver(_ context.Context, driverID id.DriverID) ([]audit.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []audit.Event
	for _, e := range g.events {
		if e.DriverID == driverID {
			out = append(out, e)
		}
	}
	return out, nil
}

type PublisherSuite struct {
	suite.Suite
	ctx      context.Context
	driverID id.DriverID
	store    *memory.InMemoryStore
	metrics  *Metrics
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) SetupTest() {
	s.ctx = context.Background()
	s.driverID = id.DriverID(uuid.New())
	s.store = memory.NewInMemoryStore()
	s.metrics = NewMetrics(prometheus.NewRegistry())
}

func (s *PublisherSuite) event(action audit.AuditEvent) audit.Event {
	return audit.Event{
		DriverID:    s.driverID,
		Action:      string(action),
		WarehouseID: uuid.NewString(),
	}
}

// A driver's day: a rejected clock-in outside the fence, an accepted one, a
// failed late notification and an accepted clock-out. With operations events
// sampled away, the trail keeps every compliance and security record in order.
func (s *PublisherSuite) TestClockDayTrailWithOperationsSampledOut() {
	pub := NewPublisher(s.store, WithSampler(NewSampler(0)), WithMetrics(s.metrics))

	rejected := s.event(audit.EventClockInRejected)
	rejected.Reason = "out_of_geofence"
	rejected.DistanceMeters = 650
	for _, e := range []audit.Event{
		rejected,
		s.event(audit.EventClockInAccepted),
		s.event(audit.EventNotifyFailed),
		s.event(audit.EventClockOutAccepted),
	} {
		s.Require().NoError(pub.Emit(s.ctx, e))
	}

	trail, err := pub.List(s.ctx, s.driverID)
	s.Require().NoError(err)
	s.Require().Len(trail, 3)
	s.Equal(audit.CategorySecurity, trail[0].Category)
	s.Equal("out_of_geofence", trail[0].Reason)
	s.InDelta(650, trail[0].DistanceMeters, 0)
	s.Equal(string(audit.EventClockInAccepted), trail[1].Action)
	s.Equal(string(audit.EventClockOutAccepted), trail[2].Action)

	s.InDelta(1, promtest.ToFloat64(s.metrics.Sampled), 0)
	s.InDelta(2, promtest.ToFloat64(s.metrics.Emitted.WithLabelValues(string(audit.CategoryCompliance))), 0)
	s.InDelta(1, promtest.ToFloat64(s.metrics.Emitted.WithLabelValues(string(audit.CategorySecurity))), 0)
}

func (s *PublisherSuite) TestNotificationFailureKeptAtFullRate() {
	pub := NewPublisher(s.store, WithSampler(NewSampler(1)))

	s.Require().NoError(pub.Emit(s.ctx, s.event(audit.EventNotifyFailed)))

	trail, err := pub.List(s.ctx, s.driverID)
	s.Require().NoError(err)
	s.Require().Len(trail, 1)
	s.Equal(audit.CategoryOperations, trail[0].Category)
}

func (s *PublisherSuite) TestAsyncCloseDrainsBufferedClockEvents() {
	pub := NewPublisher(s.store, WithAsyncBuffer(64), WithSampler(NewSampler(0)))

	for range 10 {
		s.Require().NoError(pub.Emit(s.ctx, s.event(audit.EventClockInRejected)))
		s.Require().NoError(pub.Emit(s.ctx, s.event(audit.EventNotifyFailed)))
	}
	pub.Close()

	trail, err := s.store.ListByDriver(s.ctx, s.driverID)
	s.Require().NoError(err)
	s.Len(trail, 10, "rejections drained on close, sampled notifications never enqueued")
	for _, e := range trail {
		s.Equal(audit.CategorySecurity, e.Category)
	}
}

func (s *PublisherSuite) TestFullBufferDropsAndCounts() {
	store := newGatedStore()
	pub := NewPublisher(store, WithAsyncBuffer(1), WithMetrics(s.metrics))

	s.Require().NoError(pub.Emit(s.ctx, s.event(audit.EventClockInAccepted)))
	<-store.entered
	s.Require().NoError(pub.Emit(s.ctx, s.event(audit.EventClockOutAccepted)))

	err := pub.Emit(s.ctx, s.event(audit.EventClockOutRejected))
	s.ErrorIs(err, ErrBufferFull)

	canceled, cancel := context.WithCancel(s.ctx)
	cancel()
	s.ErrorIs(pub.Emit(canceled, s.event(audit.EventClockOutRejected)), context.Canceled)

	close(store.release)
	pub.Close()

	trail, err := store.ListByDriver(s.ctx, s.driverID)
	s.Require().NoError(err)
	s.Len(trail, 2)
	s.InDelta(1, promtest.ToFloat64(s.metrics.Dropped.WithLabelValues("buffer_full")), 0)
	s.InDelta(1, promtest.ToFloat64(s.metrics.Dropped.WithLabelValues("canceled")), 0)
}

func (s *PublisherSuite) TestEmitAfterCloseIsRejected() {
	pub := NewPublisher(s.store, WithAsyncBuffer(4), WithMetrics(s.metrics))
	pub.Close()
	pub.Close()

	s.ErrorIs(pub.Emit(s.ctx, s.event(audit.EventClockInAccepted)), ErrClosed)
	s.InDelta(1, promtest.ToFloat64(s.metrics.Dropped.WithLabelValues("closed")), 0)
}

func (s *PublisherSuite) TestTimestamps() {
	pub := NewPublisher(s.store)

	clockIn := time.Date(2024, 5, 6, 9, 10, 0, 0, time.UTC)
	stamped := s.event(audit.EventClockInAccepted)
	stamped.Timestamp = clockIn
	s.Require().NoError(pub.Emit(s.ctx, stamped))

	before := time.Now()
	s.Require().NoError(pub.Emit(s.ctx, s.event(audit.EventClockOutAccepted)))

	trail, err := pub.List(s.ctx, s.driverID)
	s.Require().NoError(err)
	s.Require().Len(trail, 2)
	s.Equal(clockIn, trail[0].Timestamp, "the clock action time is kept")
	s.False(trail[1].Timestamp.Before(before), "unset timestamps are stamped on emit")
}

func (s *PublisherSuite) TestExplicitCategoryIsKept() {
	pub := NewPublisher(s.store, WithSampler(NewSampler(0)))

	e := s.event(audit.EventNotifyFailed)
	e.Category = audit.CategorySecurity
	s.Require().NoError(pub.Emit(s.ctx, e))

	trail, err := pub.List(s.ctx, s.driverID)
	s.Require().NoError(err)
	s.Require().Len(trail, 1, "only operations events are sampled")
	s.Equal(audit.CategorySecurity, trail[0].Category)
}

func (s *PublisherSuite) TestTrailsAreScopedToDriver() {
	pub := NewPublisher(s.store)
	other := id.DriverID(uuid.New())

	s.Require().NoError(pub.Emit(s.ctx, s.event(audit.EventClockInAccepted)))
	s.Require().NoError(pub.Emit(s.ctx, audit.Event{DriverID: other, Action: string(audit.EventClockInRejected)}))

	mine, err := pub.List(s.ctx, s.driverID)
	s.Require().NoError(err)
	s.Len(mine, 1)
	theirs, err := pub.List(s.ctx, other)
	s.Require().NoError(err)
	s.Require().Len(theirs, 1)
	s.Equal(audit.CategorySecurity, theirs[0].Category)
}
