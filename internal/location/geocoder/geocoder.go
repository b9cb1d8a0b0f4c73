// Package geocoder is the primary location provider: an HTTP geolocation and
// reverse-geocoding service that returns a coordinate plus a street address.
package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"geoclock/internal/geo"
	"geoclock/internal/location"
	"geoclock/pkg/platform/circuit"
)

const (
	geolocatePath   = "/v1/geolocate"
	healthPath      = "/health"
	maxResponseSize = 64 << 10
)

// Provider calls the geolocation service.
type Provider struct {
	id      string
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *circuit.Breaker
	logger  *slog.Logger
}

type Option func(*Provider)

func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		if c != nil {
			p.client = c
		}
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(p *Provider) {
		p.breaker = b
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// New creates a geocoder provider. timeout bounds each HTTP round trip; the
// resolver applies its own per-provider budget on top.
func New(id, baseURL, apiKey string, timeout time.Duration, opts ...Option) *Provider {
	p := &Provider{
		id:      id,
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		breaker: circuit.New(id),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) ID() string                  { return p.id }
func (p *Provider) Kind() location.ProviderKind { return location.ProviderPrimaryGeocoder }

// Locate asks the service for the caller's position. When the device reported
// a fix it is sent along so the service can reverse-geocode it; otherwise the
// service falls back to IP geolocation.
func (p *Provider) Locate(ctx context.Context, hint location.Hint) (*location.Result, error) {
	if !p.breaker.Allow() {
		return nil, location.NewProviderError(location.ErrorCircuitOpen, p.id, "geocoder circuit open", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+geolocatePath+"?"+p.query(hint).Encode(), nil)
	if err != nil {
		return nil, location.NewProviderError(location.ErrorInternal, p.id, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		perr := classifyTransportError(p.id, err)
		p.record(ctx, perr)
		return nil, perr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		perr := location.NewProviderError(location.ErrorProviderOutage, p.id, "read response", err)
		p.record(ctx, perr)
		return nil, perr
	}

	res, err := parseGeolocateResponse(resp.StatusCode, body)
	if err != nil {
		var pe *location.ProviderError
		if errors.As(err, &pe) {
			pe.ProviderID = p.id
		}
		p.record(ctx, err)
		return nil, err
	}
	res.ProviderID = p.id
	p.record(ctx, nil)
	return res, nil
}

// Health pings the service; it does not consume geolocation quota.
func (p *Provider) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+healthPath, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoder health: status %d", resp.StatusCode)
	}
	return nil
}

func (p *Provider) query(hint location.Hint) url.Values {
	q := url.Values{}
	if p.apiKey != "" {
		q.Set("key", p.apiKey)
	}
	if hint.ClientIP != "" {
		q.Set("ip", hint.ClientIP)
	}
	if hint.Fix != nil {
		q.Set("lat", strconv.FormatFloat(hint.Fix.Coordinate.Latitude, 'f', 6, 64))
		q.Set("lon", strconv.FormatFloat(hint.Fix.Coordinate.Longitude, 'f', 6, 64))
		if hint.Fix.AccuracyMeters > 0 {
			q.Set("accuracy", strconv.FormatFloat(hint.Fix.AccuracyMeters, 'f', 1, 64))
		}
	}
	return q
}

// record feeds the breaker. Only failures that say something about the
// service's health count against it.
func (p *Provider) record(ctx context.Context, err error) {
	if p.breaker == nil {
		return
	}
	if err == nil {
		if ok, change := p.breaker.RecordSuccess(); ok && change.Closed && p.logger != nil {
			p.logger.InfoContext(ctx, "geocoder circuit closed", "provider", p.id)
		}
		return
	}
	switch location.GetCategory(err) {
	case location.ErrorTimeout, location.ErrorProviderOutage, location.ErrorRateLimited:
		if _, change := p.breaker.RecordFailure(); change.Opened && p.logger != nil {
			p.logger.WarnContext(ctx, "geocoder circuit opened", "provider", p.id, "error", err)
		}
	}
}

func classifyTransportError(providerID string, err error) *location.ProviderError {
	if errors.Is(err, context.DeadlineExceeded) {
		return location.NewProviderError(location.ErrorTimeout, providerID, "request timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return location.NewProviderError(location.ErrorTimeout, providerID, "request timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return location.NewProviderError(location.ErrorInternal, providerID, "request cancelled", err)
	}
	return location.NewProviderError(location.ErrorProviderOutage, providerID, "request failed", err)
}

type geolocateResponse struct {
	Status           string   `json:"status"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	Accuracy         float64  `json:"accuracy"`
	FormattedAddress string   `json:"formatted_address"`
	ErrorMessage     string   `json:"error_message,omitempty"`
}

const (
	statusOK          = "ok"
	statusZeroResults = "zero_results"
)

// parseGeolocateResponse maps an HTTP answer to a result or a categorised
// error. The provider ID on returned errors is filled in by the caller.
func parseGeolocateResponse(statusCode int, body []byte) (*location.Result, error) {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return nil, location.NewProviderError(location.ErrorAuthentication, "", fmt.Sprintf("status %d", statusCode), nil)
	case statusCode == http.StatusTooManyRequests:
		return nil, location.NewProviderError(location.ErrorRateLimited, "", "quota exhausted", nil)
	case statusCode >= 500:
		return nil, location.NewProviderError(location.ErrorProviderOutage, "", fmt.Sprintf("status %d", statusCode), nil)
	case statusCode != http.StatusOK:
		return nil, location.NewProviderError(location.ErrorBadData, "", fmt.Sprintf("unexpected status %d", statusCode), nil)
	}

	var payload geolocateResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, location.NewProviderError(location.ErrorBadData, "", "decode response", err)
	}
	if payload.Status == statusZeroResults {
		return nil, location.NewProviderError(location.ErrorEmptyResult, "", "no position for request", nil)
	}
	if payload.Status != "" && payload.Status != statusOK {
		return nil, location.NewProviderError(location.ErrorBadData, "", "status "+payload.Status, nil)
	}
	if payload.Latitude == nil || payload.Longitude == nil {
		return nil, location.NewProviderError(location.ErrorEmptyResult, "", "response missing coordinate", nil)
	}

	coord, err := geo.NewCoordinate(*payload.Latitude, *payload.Longitude)
	if err != nil {
		return nil, location.NewProviderError(location.ErrorBadData, "", "coordinate out of range", err)
	}
	return &location.Result{
		Coordinate:     coord,
		Address:        payload.FormattedAddress,
		Provider:       location.ProviderPrimaryGeocoder,
		AccuracyMeters: payload.Accuracy,
	}, nil
}
