package publisher

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "geoclock/pkg/domain"
	audit "geoclock/pkg/platform/audit"
	"geoclock/pkg/platform/audit/store/memory"
)

func TestSampler_Keep(t *testing.T) {
	ops := audit.Event{Category: audit.CategoryOperations, Action: string(audit.EventNotifyFailed)}
	security := audit.Event{Category: audit.CategorySecurity, Action: string(audit.EventClockInRejected)}

	t.Run("nil sampler keeps everything", func(t *testing.T) {
		var s *Sampler
		assert.True(t, s.Keep(ops))
	})

	t.Run("zero rate drops operations only", func(t *testing.T) {
		s := NewSampler(0)
		assert.False(t, s.Keep(ops))
		assert.True(t, s.Keep(security))
	})

	t.Run("per-action override", func(t *testing.T) {
		s := NewSampler(0)
		s.SetRate(ops.Action, 1)
		assert.True(t, s.Keep(ops))
	})

	t.Run("fractional rate uses draw", func(t *testing.T) {
		s := NewSampler(0.25)
		s.draw = func() float64 { return 0.2 }
		assert.True(t, s.Keep(ops))
		s.draw = func() float64 { return 0.3 }
		assert.False(t, s.Keep(ops))
	})

	t.Run("rates are clamped", func(t *testing.T) {
		assert.Equal(t, 1.0, NewSampler(7).defaultRate)
		assert.Equal(t, 0.0, NewSampler(-1).defaultRate)
	})
}

func TestPublisher_SamplesOperationsEvents(t *testing.T) {
	store := memory.NewInMemoryStore()
	m := NewMetrics(prometheus.NewRegistry())
	pub := NewPublisher(store, WithSampler(NewSampler(0)), WithMetrics(m))
	defer pub.Close()

	driverID := id.DriverID(uuid.New())
	ctx := context.Background()
	require.NoError(t, pub.Emit(ctx, audit.Event{DriverID: driverID, Action: string(audit.EventNotifyFailed)}))
	require.NoError(t, pub.Emit(ctx, audit.Event{DriverID: driverID, Action: string(audit.EventClockInAccepted)}))

	events, err := pub.List(ctx, driverID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.Sampled))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.Emitted.WithLabelValues(string(audit.CategoryCompliance))))
}

type failingStore struct{}

func (failingStore) Append(context.Context, audit.Event) error { return errors.New("store down") }

func (failingStore) ListByDriver(context.Context, id.DriverID) ([]audit.Event, error) {
	return nil, nil
}

func TestPublisher_CountsPersistFailures(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	pub := NewPublisher(failingStore{}, WithMetrics(m))

	err := pub.Emit(context.Background(), audit.Event{Action: string(audit.EventClockInAccepted)})

	require.Error(t, err)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.PersistFailures))
}
