package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoclock/internal/platform/metrics"
	request "geoclock/pkg/platform/middleware/request"
)

type pingRoutes struct{}

func (pingRoutes) Register(r chi.Router) {
	r.Get("/v1/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/v1/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
}

type stubProviders map[string]error

func (s stubProviders) HealthCheck(context.Context) map[string]error { return s }

func newTestRouter(health *Health) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	return NewRouter(RouterConfig{
		Logger:  logger,
		Metrics: metrics.NewWithRegistry(reg, reg),
		Health:  health,
		Routes:  []Routes{pingRoutes{}},
	})
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRouter_FeatureRoutesGetRequestID(t *testing.T) {
	router := newTestRouter(nil)

	w := serve(router, "/v1/ping")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get(request.HeaderRequestID))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestRouter_RecoversPanics(t *testing.T) {
	w := serve(newTestRouter(nil), "/v1/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRouter_Metrics(t *testing.T) {
	w := serve(newTestRouter(nil), "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("live", func(t *testing.T) {
		w := serve(newTestRouter(NewHealth(logger)), "/healthz")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ready with healthy backends and a degraded provider", func(t *testing.T) {
		health := NewHealth(logger,
			WithProbe("postgres", func(context.Context) error { return nil }),
			WithProviders(stubProviders{"amap": errors.New("circuit open"), "device": nil}),
		)

		w := serve(newTestRouter(health), "/readyz")

		assert.Equal(t, http.StatusOK, w.Code)
		var resp readyResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Backends["postgres"])
		assert.Equal(t, "circuit open", resp.Providers["amap"])
		assert.Equal(t, "ok", resp.Providers["device"])
	})

	t.Run("backend down fails readiness", func(t *testing.T) {
		health := NewHealth(logger,
			WithProbe("postgres", func(context.Context) error { return nil }),
			WithProbe("redis", func(context.Context) error { return errors.New("connection refused") }),
		)

		w := serve(newTestRouter(health), "/readyz")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var resp readyResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "unavailable", resp.Status)
		assert.Equal(t, "connection refused", resp.Backends["redis"])
	})

	t.Run("nil probes are skipped", func(t *testing.T) {
		health := NewHealth(logger, WithProbe("kafka", nil))
		w := serve(newTestRouter(health), "/readyz")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
