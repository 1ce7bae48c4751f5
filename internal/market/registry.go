package market

import (
	"context"
	"fmt"
	"sort"

	"CryptoNewsPublisher/internal/domain"
)

// Request carries the parameters shared by every provider.
type Request struct {
	Limit    int
	Currency string
	AssetIDs []string
}

// Provider captures a single market data strategy (CoinMarketCap, CoinGecko, etc.).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, req Request) ([]domain.MarketFact, error)
}

// Registry keeps a mapping from provider names to their implementations.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: map[string]Provider{}}
}

// Register adds or replaces a provider implementation.
func (r *Registry) Register(provider Provider) {
	if r.providers == nil {
		r.providers = map[string]Provider{}
	}
	r.providers[provider.Name()] = provider
}

// Resolve returns a provider by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Provider, error) {
	if provider, ok := r.providers[name]; ok {
		return provider, nil
	}
	return nil, fmt.Errorf("market provider %s is not registered", name)
}

// Names lists registered providers in alphabetical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
