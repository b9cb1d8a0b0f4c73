package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"geoclock/internal/admin"
	attendanceHandler "geoclock/internal/attendance/handler"
	attendanceMetrics "geoclock/internal/attendance/metrics"
	"geoclock/internal/attendance/notify"
	"geoclock/internal/attendance/ports"
	"geoclock/internal/attendance/service"
	"geoclock/internal/attendance/store/session"
	"geoclock/internal/geo"
	"geoclock/internal/location"
	"geoclock/internal/location/device"
	"geoclock/internal/location/geocoder"
	locationMetrics "geoclock/internal/location/metrics"
	"geoclock/internal/platform/config"
	"geoclock/internal/platform/jwttoken"
	"geoclock/internal/platform/metrics"
	"geoclock/internal/platform/postgres"
	redisclient "geoclock/internal/platform/redis"
	"geoclock/internal/ratelimit"
	httptransport "geoclock/internal/transport/http"
	warehouseModels "geoclock/internal/warehouse/models"
	warehouseStore "geoclock/internal/warehouse/store"
	id "geoclock/pkg/domain"
	auditpublisher "geoclock/pkg/platform/audit/publisher"
	auditmemory "geoclock/pkg/platform/audit/store/memory"
	auditpostgres "geoclock/pkg/platform/audit/store/postgres"
	"geoclock/pkg/platform/circuit"
)

const deviceProviderID = "device"

// warehouseBackend is what both the orchestrator and the admin surface need.
type warehouseBackend interface {
	ports.WarehouseSource
	admin.WarehouseStore
}

type app struct {
	router    http.Handler
	service   *service.Service
	publisher *auditpublisher.Publisher
	db        *postgres.DB
	redis     *redisclient.Client
	kafka     *notify.Kafka
}

func build(ctx context.Context, cfg *config.Config, log *slog.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.close(log)
		}
	}()

	httpMetrics := metrics.New()

	if a.db, err = postgres.Open(ctx, cfg.Postgres); err != nil {
		return nil, err
	}
	if a.redis, err = redisclient.New(ctx, cfg.Redis); err != nil {
		return nil, err
	}

	warehouses, err := buildWarehouses(ctx, cfg, a.db)
	if err != nil {
		return nil, err
	}
	sessions, err := buildSessions(cfg, a.db, a.redis)
	if err != nil {
		return nil, err
	}

	resolver, err := buildResolver(cfg, log)
	if err != nil {
		return nil, err
	}

	a.publisher = buildAuditPublisher(cfg, a.db, log)

	notifiers := notify.Multi{notify.NewLog(log)}
	if len(cfg.Kafka.Brokers) > 0 {
		a.kafka, err = notify.NewKafka(ctx, cfg.Kafka.Brokers,
			notify.WithTopic(cfg.Kafka.Topic),
			notify.WithLogger(log),
		)
		if err != nil {
			return nil, err
		}
		if err := a.kafka.EnsureTopic(ctx, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor); err != nil {
			return nil, err
		}
		notifiers = append(notifiers, a.kafka)
	}

	a.service, err = service.New(resolver, warehouses, sessions,
		service.WithLogger(log),
		service.WithMetrics(attendanceMetrics.New()),
		service.WithLocation(cfg.TimeLocation()),
		service.WithNotifier(notifiers),
		service.WithNotifyTimeout(cfg.Attendance.NotifyTimeout),
		service.WithAuditPublisher(a.publisher),
	)
	if err != nil {
		return nil, fmt.Errorf("build attendance service: %w", err)
	}

	jwtValidator := jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(cfg.JWT.SigningKey, cfg.JWT.Issuer))

	healthOpts := []httptransport.HealthOption{httptransport.WithProviders(resolver)}
	if a.db != nil {
		healthOpts = append(healthOpts, httptransport.WithProbe("postgres", a.db.Health))
	}
	if a.redis != nil {
		healthOpts = append(healthOpts, httptransport.WithProbe("redis", a.redis.Health))
	}
	if a.kafka != nil {
		healthOpts = append(healthOpts, httptransport.WithProbe("kafka", a.kafka.Health))
	}

	a.router = httptransport.NewRouter(httptransport.RouterConfig{
		Logger:         log,
		Metrics:        httpMetrics,
		RequestTimeout: cfg.Server.RequestTimeout,
		Health:         httptransport.NewHealth(log, healthOpts...),
		Routes: []httptransport.Routes{
			attendanceHandler.New(a.service, log, jwtValidator,
				attendanceHandler.WithThrottle(buildLimiter(cfg, a.redis, log)),
			),
			admin.New(warehouses, a.publisher, log, cfg.Server.AdminToken),
		},
	})
	return a, nil
}

func buildWarehouses(ctx context.Context, cfg *config.Config, db *postgres.DB) (warehouseBackend, error) {
	var store warehouseBackend
	switch cfg.Attendance.WarehouseBackend {
	case config.BackendPostgres:
		store = warehouseStore.NewPostgres(db.Pool)
	default:
		store = warehouseStore.NewInMemoryStore()
	}
	if err := seedWarehouses(ctx, store, cfg.Warehouses); err != nil {
		return nil, err
	}
	return store, nil
}

// seedWarehouses upserts the configured warehouses so a fresh deployment can
// clock in without admin calls.
func seedWarehouses(ctx context.Context, store admin.WarehouseStore, seeds []config.WarehouseSeed) error {
	for _, seed := range seeds {
		warehouseID, err := id.ParseWarehouseID(seed.ID)
		if err != nil {
			return fmt.Errorf("warehouse seed %q: %w", seed.Name, err)
		}
		w := warehouseModels.Warehouse{
			ID:                   warehouseID,
			Name:                 seed.Name,
			Coordinate:           geo.Coordinate{Latitude: seed.Latitude, Longitude: seed.Longitude},
			GeofenceRadiusMeters: seed.GeofenceRadiusMeters,
		}
		if err := store.UpsertWarehouse(ctx, w); err != nil {
			return fmt.Errorf("seed warehouse %q: %w", seed.Name, err)
		}
		if seed.Rule == nil {
			continue
		}
		rule := warehouseModels.AttendanceRule{
			WarehouseID:           warehouseID,
			WorkStartTime:         seed.Rule.WorkStartTime,
			WorkEndTime:           seed.Rule.WorkEndTime,
			LateThresholdMinutes:  seed.Rule.LateThresholdMinutes,
			EarlyThresholdMinutes: seed.Rule.EarlyThresholdMinutes,
			RequireClockOut:       seed.Rule.RequireClockOut,
		}
		if err := store.UpsertAttendanceRule(ctx, rule); err != nil {
			return fmt.Errorf("seed rule for %q: %w", seed.Name, err)
		}
	}
	return nil
}

func buildSessions(cfg *config.Config, db *postgres.DB, rdb *redisclient.Client) (ports.SessionStore, error) {
	switch cfg.Attendance.SessionBackend {
	case config.BackendPostgres:
		return session.NewPostgres(db.SQL), nil
	case config.BackendRedis:
		return session.NewRedis(rdb.Client), nil
	case config.BackendMemory:
		return session.NewInMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown session backend %q", cfg.Attendance.SessionBackend)
}

func buildResolver(cfg *config.Config, log *slog.Logger) (*location.Resolver, error) {
	var providers []location.Provider
	if cfg.GeocoderEnabled() {
		breaker := circuit.New(cfg.Geocoder.ID,
			circuit.WithFailureThreshold(cfg.Geocoder.FailureThreshold),
			circuit.WithSuccessThreshold(cfg.Geocoder.SuccessThreshold),
			circuit.WithCooldown(cfg.Geocoder.Cooldown),
		)
		providers = append(providers, geocoder.New(cfg.Geocoder.ID, cfg.Geocoder.BaseURL, cfg.Geocoder.APIKey, cfg.Geocoder.Timeout,
			geocoder.WithBreaker(breaker),
			geocoder.WithLogger(log),
		))
	}
	providers = append(providers, device.New(deviceProviderID,
		device.WithMaxAccuracy(cfg.Location.DeviceMaxAccuracyMeters),
		device.WithMaxAge(cfg.Location.DeviceMaxAge),
	))

	chain, err := location.NewChain(providers...)
	if err != nil {
		return nil, fmt.Errorf("build provider chain: %w", err)
	}
	return location.NewResolver(chain,
		location.WithProviderTimeout(cfg.Location.ProviderTimeout),
		location.WithLogger(log),
		location.WithMetrics(locationMetrics.New()),
	)
}

func buildLimiter(cfg *config.Config, rdb *redisclient.Client, log *slog.Logger) *ratelimit.Limiter {
	var store ratelimit.Store = ratelimit.NewInMemoryStore()
	if cfg.RateLimit.Backend == config.BackendRedis && rdb != nil {
		store = ratelimit.NewRedisStore(rdb.Client)
	}
	return ratelimit.New(store, cfg.RateLimit.ClockLimit, cfg.RateLimit.Window,
		ratelimit.WithLogger(log),
		ratelimit.WithMetrics(ratelimit.NewMetrics(prometheus.DefaultRegisterer)),
	)
}

func buildAuditPublisher(cfg *config.Config, db *postgres.DB, log *slog.Logger) *auditpublisher.Publisher {
	var store auditpublisher.Store = auditmemory.NewInMemoryStore()
	if db != nil {
		store = auditpostgres.New(db.SQL)
	}
	return auditpublisher.NewPublisher(store,
		auditpublisher.WithAsyncBuffer(cfg.Attendance.AuditBuffer),
		auditpublisher.WithSampler(auditpublisher.NewSampler(cfg.Attendance.AuditOpsSampleRate)),
		auditpublisher.WithMetrics(auditpublisher.NewMetrics(prometheus.DefaultRegisterer)),
		auditpublisher.WithLogger(log),
	)
}

// close releases resources in reverse dependency order: pending notifications
// first, then the audit buffer, then the clients they write through.
func (a *app) close(log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	if a.service != nil {
		if err := a.service.Drain(ctx); err != nil {
			log.Warn("notifications still in flight at shutdown", "error", err)
		}
	}
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.kafka != nil {
		if err := a.kafka.Close(ctx); err != nil {
			log.Warn("kafka flush failed", "error", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn("redis close failed", "error", err)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
