// Package config loads process configuration from an optional YAML file with
// GEOCLOCK_* environment overrides. Keys are dotted section paths, so
// attendance.session_backend is GEOCLOCK_ATTENDANCE_SESSION_BACKEND.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	strs "geoclock/pkg/platform/strings"
)

const envPrefix = "GEOCLOCK"

// Backend names accepted by the storage selectors.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Geocoder   GeocoderConfig   `mapstructure:"geocoder"`
	Location   LocationConfig   `mapstructure:"location"`
	Attendance AttendanceConfig `mapstructure:"attendance"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Warehouses []WarehouseSeed  `mapstructure:"warehouses"`
}

type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	// AdminToken guards /admin; empty disables the admin surface.
	AdminToken string `mapstructure:"admin_token"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type PostgresConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// RedisConfig is empty-URL-means-disabled.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type KafkaConfig struct {
	Brokers           []string `mapstructure:"brokers"`
	Topic             string   `mapstructure:"topic"`
	Partitions        int32    `mapstructure:"partitions"`
	ReplicationFactor int16    `mapstructure:"replication_factor"`
}

type GeocoderConfig struct {
	ID               string        `mapstructure:"id"`
	BaseURL          string        `mapstructure:"base_url"`
	APIKey           string        `mapstructure:"api_key"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold int           `mapstructure:"failure_threshold"`
	SuccessThreshold int           `mapstructure:"success_threshold"`
	Cooldown         time.Duration `mapstructure:"cooldown"`
}

type LocationConfig struct {
	ProviderTimeout         time.Duration `mapstructure:"provider_timeout"`
	DeviceMaxAccuracyMeters float64       `mapstructure:"device_max_accuracy_meters"`
	DeviceMaxAge            time.Duration `mapstructure:"device_max_age"`
}

type AttendanceConfig struct {
	TimeZone         string        `mapstructure:"time_zone"`
	SessionBackend   string        `mapstructure:"session_backend"`
	WarehouseBackend string        `mapstructure:"warehouse_backend"`
	NotifyTimeout    time.Duration `mapstructure:"notify_timeout"`
	AuditBuffer      int           `mapstructure:"audit_buffer"`
	// AuditOpsSampleRate keeps this fraction of operations events.
	AuditOpsSampleRate float64 `mapstructure:"audit_ops_sample_rate"`
}

type JWTConfig struct {
	SigningKey string `mapstructure:"signing_key"`
	Issuer     string `mapstructure:"issuer"`
}

// RateLimitConfig throttles clock attempts per driver. ClockLimit 0 disables it.
type RateLimitConfig struct {
	Backend    string        `mapstructure:"backend"`
	ClockLimit int           `mapstructure:"clock_limit"`
	Window     time.Duration `mapstructure:"window"`
}

// WarehouseSeed is a warehouse, and optionally its rule, loaded at startup.
type WarehouseSeed struct {
	ID                   string    `mapstructure:"id"`
	Name                 string    `mapstructure:"name"`
	Latitude             float64   `mapstructure:"latitude"`
	Longitude            float64   `mapstructure:"longitude"`
	GeofenceRadiusMeters float64   `mapstructure:"geofence_radius_meters"`
	Rule                 *RuleSeed `mapstructure:"rule"`
}

type RuleSeed struct {
	WorkStartTime         string `mapstructure:"work_start_time"`
	WorkEndTime           string `mapstructure:"work_end_time"`
	LateThresholdMinutes  int    `mapstructure:"late_threshold_minutes"`
	EarlyThresholdMinutes int    `mapstructure:"early_threshold_minutes"`
	RequireClockOut       bool   `mapstructure:"require_clock_out"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_header_timeout", 5*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.admin_token", "")

	v.SetDefault("logging.level", "info")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_conns", 10)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "geoclock.attendance.notifications")
	v.SetDefault("kafka.partitions", 3)
	v.SetDefault("kafka.replication_factor", 1)

	v.SetDefault("geocoder.id", "primary_geocoder")
	v.SetDefault("geocoder.base_url", "")
	v.SetDefault("geocoder.api_key", "")
	v.SetDefault("geocoder.timeout", 5*time.Second)
	v.SetDefault("geocoder.failure_threshold", 5)
	v.SetDefault("geocoder.success_threshold", 2)
	v.SetDefault("geocoder.cooldown", 30*time.Second)

	v.SetDefault("location.provider_timeout", 5*time.Second)
	v.SetDefault("location.device_max_accuracy_meters", 200.0)
	v.SetDefault("location.device_max_age", 2*time.Minute)

	v.SetDefault("attendance.time_zone", "UTC")
	v.SetDefault("attendance.session_backend", BackendMemory)
	v.SetDefault("attendance.warehouse_backend", BackendMemory)
	v.SetDefault("attendance.notify_timeout", 10*time.Second)
	v.SetDefault("attendance.audit_buffer", 1024)
	v.SetDefault("attendance.audit_ops_sample_rate", 1.0)

	v.SetDefault("jwt.signing_key", "")
	v.SetDefault("jwt.issuer", "geoclock")

	v.SetDefault("ratelimit.backend", BackendMemory)
	v.SetDefault("ratelimit.clock_limit", 10)
	v.SetDefault("ratelimit.window", time.Minute)
}

// Load reads path when non-empty, then applies environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	// AutomaticEnv only affects Get. Every key has a default, so binding
	// AllKeys lets Unmarshal see environment overrides too.
	for _, key := range v.AllKeys() {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Kafka.Brokers = strs.NormalizeList(cfg.Kafka.Brokers)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	var errs []error
	if _, err := time.LoadLocation(c.Attendance.TimeZone); err != nil {
		errs = append(errs, fmt.Errorf("attendance.time_zone: %w", err))
	}
	switch c.Attendance.SessionBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("postgres.dsn is required for the postgres session backend"))
		}
	case BackendRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("redis.url is required for the redis session backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("attendance.session_backend: unknown backend %q", c.Attendance.SessionBackend))
	}
	switch c.Attendance.WarehouseBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("postgres.dsn is required for the postgres warehouse backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("attendance.warehouse_backend: unknown backend %q", c.Attendance.WarehouseBackend))
	}
	if c.JWT.SigningKey == "" {
		errs = append(errs, errors.New("jwt.signing_key is required"))
	}
	switch c.RateLimit.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("redis.url is required for the redis rate limit backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("ratelimit.backend: unknown backend %q", c.RateLimit.Backend))
	}
	if c.RateLimit.ClockLimit > 0 && c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("ratelimit.window must be positive"))
	}
	if c.Location.ProviderTimeout <= 0 {
		errs = append(errs, errors.New("location.provider_timeout must be positive"))
	}
	return errors.Join(errs...)
}

// TimeLocation returns the zone work dates are computed in.
func (c *Config) TimeLocation() *time.Location {
	loc, err := time.LoadLocation(c.Attendance.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GeocoderEnabled reports whether a primary geocoder is configured.
func (c *Config) GeocoderEnabled() bool {
	return c.Geocoder.BaseURL != ""
}
