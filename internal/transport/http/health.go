package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"geoclock/pkg/platform/httputil"
)

const defaultProbeTimeout = 2 * time.Second

// Probe checks one backend the service cannot work without.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// ProviderHealth reports the location providers. Provider failures degrade
// resolution to the next provider, so they never fail readiness.
type ProviderHealth interface {
	HealthCheck(ctx context.Context) map[string]error
}

type Health struct {
	probes    []Probe
	providers ProviderHealth
	timeout   time.Duration
	logger    *slog.Logger
}

type HealthOption func(*Health)

func WithProbe(name string, check func(ctx context.Context) error) HealthOption {
	return func(h *Health) {
		if check != nil {
			h.probes = append(h.probes, Probe{Name: name, Check: check})
		}
	}
}

func WithProviders(p ProviderHealth) HealthOption {
	return func(h *Health) {
		h.providers = p
	}
}

func WithProbeTimeout(d time.Duration) HealthOption {
	return func(h *Health) {
		if d > 0 {
			h.timeout = d
		}
	}
}

func NewHealth(logger *slog.Logger, opts ...HealthOption) *Health {
	h := &Health{timeout: defaultProbeTimeout, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type readyResponse struct {
	Status    string            `json:"status"`
	Backends  map[string]string `json:"backends"`
	Providers map[string]string `json:"providers,omitempty"`
}

// Live always answers 200 while the process serves HTTP.
func (h *Health) Live(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready probes every backend and reports provider health alongside.
func (h *Health) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := readyResponse{Status: "ok", Backends: make(map[string]string, len(h.probes))}
	status := http.StatusOK
	for _, p := range h.probes {
		if err := p.Check(ctx); err != nil {
			resp.Backends[p.Name] = err.Error()
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			if h.logger != nil {
				h.logger.WarnContext(ctx, "readiness probe failed", "backend", p.Name, "error", err)
			}
			continue
		}
		resp.Backends[p.Name] = "ok"
	}

	if h.providers != nil {
		results := h.providers.HealthCheck(ctx)
		resp.Providers = make(map[string]string, len(results))
		for providerID, err := range results {
			if err != nil {
				resp.Providers[providerID] = err.Error()
				continue
			}
			resp.Providers[providerID] = "ok"
		}
	}

	httputil.WriteJSON(w, status, resp)
}
