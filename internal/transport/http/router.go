// Package httptransport assembles the public HTTP surface: middleware stack,
// feature routes, health probes and metrics exposition.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"geoclock/internal/platform/metrics"
	"geoclock/pkg/platform/middleware/device"
	"geoclock/pkg/platform/middleware/metadata"
	request "geoclock/pkg/platform/middleware/request"
	"geoclock/pkg/platform/middleware/requesttime"
)

// Routes is implemented by feature handlers that mount their own subtree.
type Routes interface {
	Register(r chi.Router)
}

type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	RequestTimeout time.Duration
	Health         *Health
	Routes         []Routes
}

// NewRouter wires the shared middleware and mounts every feature handler.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(cfg.Logger))
	r.Use(metadata.ClientMetadata)
	r.Use(device.Platform)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(cfg.Logger, cfg.Metrics))
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}

	if cfg.Health != nil {
		r.Get("/healthz", cfg.Health.Live)
		r.Get("/readyz", cfg.Health.Ready)
	}
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(request.ContentTypeJSON)
		for _, routes := range cfg.Routes {
			routes.Register(r)
		}
	})
	return r
}
