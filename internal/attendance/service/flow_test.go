package service_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"geoclock/internal/attendance/models"
	"geoclock/internal/attendance/service"
	"geoclock/internal/attendance/store/session"
	"geoclock/internal/geo"
	"geoclock/internal/location"
	locationMocks "geoclock/internal/location/mocks"
	warehouseModels "geoclock/internal/warehouse/models"
	warehouseStore "geoclock/internal/warehouse/store"
	id "geoclock/pkg/domain"
	"geoclock/pkg/platform/audit/publisher"
	auditmemory "geoclock/pkg/platform/audit/store/memory"
)

// FlowSuite runs whole clock days against the real resolver and in-memory
// stores, with only the location providers mocked.
type FlowSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	primary    *locationMocks.MockProvider
	device     *locationMocks.MockProvider
	sessions   *session.InMemoryStore
	warehouses *warehouseStore.InMemoryStore
	audit      *auditmemory.InMemoryStore
	service    *service.Service
	warehouse  warehouseModels.Warehouse
}

func TestFlowSuite(t *testing.T) {
	suite.Run(t, new(FlowSuite))
}

func (s *FlowSuite) SetupTest() {
	ctx := context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.primary = locationMocks.NewMockProvider(s.ctrl)
	s.primary.EXPECT().ID().Return("amap").AnyTimes()
	s.primary.EXPECT().Kind().Return(location.ProviderPrimaryGeocoder).AnyTimes()
	s.device = locationMocks.NewMockProvider(s.ctrl)
	s.device.EXPECT().ID().Return("device").AnyTimes()
	s.device.EXPECT().Kind().Return(location.ProviderDeviceGPS).AnyTimes()

	resolver, err := location.NewResolver(s.chain(), location.WithProviderTimeout(50*time.Millisecond))
	s.Require().NoError(err)

	s.warehouses = warehouseStore.NewInMemoryStore()
	s.warehouse = warehouseModels.Warehouse{
		ID:                   id.WarehouseID(uuid.New()),
		Name:                 "Chaoyang DC",
		Coordinate:           depot,
		GeofenceRadiusMeters: 500,
	}
	s.Require().NoError(s.warehouses.UpsertWarehouse(ctx, s.warehouse))
	s.Require().NoError(s.warehouses.UpsertAttendanceRule(ctx, warehouseModels.AttendanceRule{
		WarehouseID:           s.warehouse.ID,
		WorkStartTime:         "09:00",
		WorkEndTime:           "18:00",
		LateThresholdMinutes:  15,
		EarlyThresholdMinutes: 10,
		RequireClockOut:       true,
	}))

	s.sessions = session.NewInMemoryStore()
	s.audit = auditmemory.NewInMemoryStore()
	s.service, err = service.New(resolver, s.warehouses, s.sessions,
		service.WithLocation(cst),
		service.WithAuditPublisher(publisher.NewPublisher(s.audit)),
	)
	s.Require().NoError(err)
}

func (s *FlowSuite) chain() *location.Chain {
	chain, err := location.NewChain(s.primary, s.device)
	s.Require().NoError(err)
	return chain
}

func (s *FlowSuite) request(driverID id.DriverID) models.ClockRequest {
	return models.ClockRequest{
		DriverID: driverID,
		Hint:     location.Hint{PermissionGranted: true, ServicesEnabled: true},
	}
}

func located(c geo.Coordinate) *location.Result {
	return &location.Result{Coordinate: c}
}

func (s *FlowSuite) TestFullDay() {
	driverID := id.DriverID(uuid.New())
	s.primary.EXPECT().Locate(gomock.Any(), gomock.Any()).Return(located(geo.Destination(depot, 10, 200)), nil).Times(2)

	in, err := s.service.ClockIn(at(9, 10), s.request(driverID))
	s.Require().NoError(err)
	s.Equal(models.StatusNormal, in.Decision.Status)
	s.Equal(location.ProviderPrimaryGeocoder, in.Location.Provider)

	_, err = s.service.ClockIn(at(9, 30), s.request(driverID))
	s.True(service.IsKind(err, service.KindSessionConflict), "second clock-in is rejected before resolving")

	out, err := s.service.ClockOut(at(18, 5), s.request(driverID))
	s.Require().NoError(err)
	s.Equal(models.StatusNormal, out.Decision.Status)
	s.Equal(in.Session.ID, out.Session.ID)

	_, err = s.service.ClockOut(at(18, 6), s.request(driverID))
	s.True(service.IsKind(err, service.KindSessionConflict))

	today, err := s.service.Status(at(20, 0), driverID)
	s.Require().NoError(err)
	s.Equal("closed", today.State())

	events, err := s.audit.ListByDriver(context.Background(), driverID)
	s.Require().NoError(err)
	s.Len(events, 4)
}

// The primary geocoder stalls past its timeout; the device fix is used.
func (s *FlowSuite) TestFallbackToDeviceGPS() {
	driverID := id.DriverID(uuid.New())
	fix := geo.Coordinate{Latitude: 39.9050, Longitude: 116.4080}

	gomock.InOrder(
		s.primary.EXPECT().Locate(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, _ location.Hint) (*location.Result, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			}),
		s.device.EXPECT().Locate(gomock.Any(), gomock.Any()).Return(located(fix), nil),
	)

	res, err := s.service.ClockIn(at(9, 0), s.request(driverID))
	s.Require().NoError(err)
	s.Equal(location.ProviderDeviceGPS, res.Location.Provider)
	s.Equal("39.905000,116.408000", res.Location.Address)
	s.True(res.Decision.WithinRange)
	s.Equal(fix, res.Session.ClockIn.Coordinate)
}

func (s *FlowSuite) TestAllProvidersFail() {
	driverID := id.DriverID(uuid.New())
	s.primary.EXPECT().Locate(gomock.Any(), gomock.Any()).Return(nil, location.NewProviderError(location.ErrorProviderOutage, "amap", "503", nil))
	s.device.EXPECT().Locate(gomock.Any(), gomock.Any()).Return(nil, location.NewProviderError(location.ErrorEmptyResult, "device", "no fix", nil))

	_, err := s.service.ClockIn(at(9, 0), s.request(driverID))
	s.True(service.IsKind(err, service.KindLocationUnavailable))

	today, err := s.service.Status(at(9, 1), driverID)
	s.Require().NoError(err)
	s.Nil(today.Session, "nothing is persisted on failure")
}

func (s *FlowSuite) TestClockOutWithoutSessionSkipsProviders() {
	_, err := s.service.ClockOut(at(18, 0), s.request(id.DriverID(uuid.New())))
	s.True(service.IsKind(err, service.KindSessionConflict))
}

// Concurrent clock-ins for one driver open exactly one session and every other
// attempt is a session conflict, whether it lost at the session check, during
// location resolution or at the store.
func (s *FlowSuite) TestConcurrentClockInOpensOneSession() {
	driverID := id.DriverID(uuid.New())
	s.primary.EXPECT().Locate(gomock.Any(), gomock.Any()).Return(located(depot), nil).AnyTimes()
	s.device.EXPECT().Locate(gomock.Any(), gomock.Any()).Return(located(depot), nil).AnyTimes()

	const goroutines = 20
	var wg sync.WaitGroup
	var accepted atomic.Int32
	errs := make(chan error, goroutines)
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.ClockIn(at(9, 0), s.request(driverID))
			if err == nil {
				accepted.Add(1)
				return
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	s.Equal(int32(1), accepted.Load())
	for err := range errs {
		s.Truef(service.IsKind(err, service.KindSessionConflict), "unexpected rejection: %v", err)
	}

	today, err := s.service.Status(at(9, 1), driverID)
	s.Require().NoError(err)
	s.Equal("open", today.State())
}

// A clock-in still resolving its location when the driver's second attempt
// starts is cancelled by it and reports a conflict, not a retryable location
// failure.
func (s *FlowSuite) TestOverlappingClockInLoserGetsConflict() {
	resolver, err := location.NewResolver(s.chain(), location.WithProviderTimeout(5*time.Second))
	s.Require().NoError(err)
	svc, err := service.New(resolver, s.warehouses, s.sessions, service.WithLocation(cst))
	s.Require().NoError(err)

	driverID := id.DriverID(uuid.New())
	firstLocating := make(chan struct{})
	gomock.InOrder(
		s.primary.EXPECT().Locate(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, _ location.Hint) (*location.Result, error) {
				close(firstLocating)
				<-ctx.Done()
				return nil, ctx.Err()
			}),
		s.primary.EXPECT().Locate(gomock.Any(), gomock.Any()).Return(located(depot), nil),
	)

	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.ClockIn(at(9, 0), s.request(driverID))
		firstErr <- err
	}()
	<-firstLocating

	second, err := svc.ClockIn(at(9, 0), s.request(driverID))
	s.Require().NoError(err)
	s.Equal(models.SessionOpen, second.Session.State)

	err = <-firstErr
	s.Require().Error(err)
	s.True(service.IsKind(err, service.KindSessionConflict), "got %v", err)
	s.ErrorIs(err, location.ErrSuperseded)

	today, err := svc.Status(at(9, 1), driverID)
	s.Require().NoError(err)
	s.Equal(second.Session.ID, today.Session.ID)
}
