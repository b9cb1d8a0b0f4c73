package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"geoclock/internal/attendance/models"
	id "geoclock/pkg/domain"
	"geoclock/pkg/platform/sentinel"
)

const (
	defaultKeyPrefix = "geoclock:session:"
	// Sessions outlive their work date by a day so late clock-outs and
	// today lookups across time zones still find them.
	defaultSessionTTL = 48 * time.Hour
	maxCloseRetries   = 3
)

// createSessionScript writes the day document and its id index together, so a
// failed create never leaves a day key that CloseClockOut cannot reach.
// Returns 0 when the day already has a session.
var createSessionScript = redis.NewScript(`
if redis.call('SET', KEYS[1], ARGV[1], 'NX', 'PX', ARGV[2]) == false then
	return 0
end
redis.call('SET', KEYS[2], KEYS[1], 'PX', ARGV[2])
return 1
`)

// RedisStore keeps each day's session as a JSON document under
// {prefix}{driver}:{date}. SET NX provides the one-session-per-day guard and
// {prefix}id:{session} points back at the day key.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

type RedisOption func(*RedisStore)

func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.keyPrefix = prefix
		}
	}
}

func WithSessionTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewRedis(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client:    client,
		keyPrefix: defaultKeyPrefix,
		ttl:       defaultSessionTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) dayKey(driverID id.DriverID, workDate id.WorkDate) string {
	return s.keyPrefix + driverID.String() + ":" + workDate.String()
}

func (s *RedisStore) idKey(sessionID id.SessionID) string {
	return s.keyPrefix + "id:" + sessionID.String()
}

func (s *RedisStore) GetSession(ctx context.Context, driverID id.DriverID, workDate id.WorkDate) (*models.Session, error) {
	return s.load(ctx, s.client, s.dayKey(driverID, workDate))
}

func (s *RedisStore) GetOpenSession(ctx context.Context, driverID id.DriverID, workDate id.WorkDate) (*models.Session, error) {
	session, err := s.GetSession(ctx, driverID, workDate)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, sentinel.ErrNotFound
	}
	return session, nil
}

func (s *RedisStore) CreateClockIn(ctx context.Context, in models.ClockIn) (*models.Session, error) {
	session := in.NewSession()
	payload, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	keys := []string{s.dayKey(in.DriverID, in.WorkDate), s.idKey(session.ID)}
	created, err := createSessionScript.Run(ctx, s.client, keys, payload, s.ttl.Milliseconds()).Int()
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if created == 0 {
		return nil, sentinel.ErrConflict
	}
	return session, nil
}

// CloseClockOut rewrites the session under WATCH so a concurrent close makes
// the transaction fail and the retry observes the closed state.
func (s *RedisStore) CloseClockOut(ctx context.Context, sessionID id.SessionID, out models.ClockOut) (bool, error) {
	key, err := s.client.Get(ctx, s.idKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, sentinel.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("resolve session key: %w", err)
	}

	for range maxCloseRetries {
		closed := false
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			session, err := s.load(ctx, tx, key)
			if err != nil {
				return err
			}
			if !session.IsOpen() {
				return nil
			}
			punch := out.Punch
			session.ClockOut = &punch
			session.State = models.SessionClosed
			payload, err := json.Marshal(session)
			if err != nil {
				return fmt.Errorf("encode session: %w", err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.SetArgs(ctx, key, payload, redis.SetArgs{KeepTTL: true})
				return nil
			})
			if err != nil {
				return err
			}
			closed = true
			return nil
		}, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return false, err
			}
			return false, fmt.Errorf("close session: %w", err)
		}
		return closed, nil
	}
	return false, fmt.Errorf("close session: %w", redis.TxFailedErr)
}

// stringGetter is satisfied by both *redis.Client and *redis.Tx.
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisStore) load(ctx context.Context, c stringGetter, key string) (*models.Session, error) {
	raw, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}
