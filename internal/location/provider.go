package location

import (
	"context"
	"fmt"
)

// Provider is a single source of positioning data.
type Provider interface {
	// ID is unique within a chain; it labels logs and metrics.
	ID() string

	// Kind says what sort of result the provider yields.
	Kind() ProviderKind

	// Locate resolves a position. Failures should be *ProviderError so the
	// resolver can classify them; any error moves the chain to its next provider.
	Locate(ctx context.Context, hint Hint) (*Result, error)
}

// HealthChecker is implemented by providers that can probe their backend.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Chain is an ordered, duplicate-free provider list.
type Chain struct {
	providers []Provider
	ids       map[string]struct{}
}

// NewChain builds a chain in preference order.
func NewChain(providers ...Provider) (*Chain, error) {
	c := &Chain{ids: make(map[string]struct{}, len(providers))}
	for _, p := range providers {
		if err := c.Append(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Append adds a provider at the lowest preference.
func (c *Chain) Append(p Provider) error {
	if p == nil {
		return fmt.Errorf("provider is required")
	}
	id := p.ID()
	if _, exists := c.ids[id]; exists {
		return fmt.Errorf("provider %s already registered", id)
	}
	c.ids[id] = struct{}{}
	c.providers = append(c.providers, p)
	return nil
}

// Providers returns the chain in preference order.
func (c *Chain) Providers() []Provider {
	out := make([]Provider, len(c.providers))
	copy(out, c.providers)
	return out
}

func (c *Chain) Len() int { return len(c.providers) }
