package marketdata

import (
	"context"
	"fmt"
	"log/slog"

	"CryptoNewsPublisher/internal/config"
	"CryptoNewsPublisher/internal/domain"
	"CryptoNewsPublisher/internal/market"
	"CryptoNewsPublisher/internal/ports"
)

// Source implements ports.MarketSource via a provider resolved from the registry.
type Source struct {
	provider market.Provider
	request  market.Request
	logger   *slog.Logger
}

var _ ports.MarketSource = (*Source)(nil)

// NewSource resolves the configured provider. An unknown provider name is an error.
func NewSource(reg *market.Registry, cfg config.MarketConfig, log *slog.Logger) (*Source, error) {
	if reg == nil {
		return nil, fmt.Errorf("market registry is not configured")
	}

	provider, err := reg.Resolve(cfg.Provider)
	if err != nil {
		return nil, err
	}

	return &Source{
		provider: provider,
		request: market.Request{
			Limit:    cfg.Limit,
			Currency: cfg.Currency,
			AssetIDs: cfg.CoinGecko.AssetIDs,
		},
		logger: log,
	}, nil
}

// Fetch executes the provider and rejects empty snapshots.
func (s *Source) Fetch(ctx context.Context) ([]domain.MarketFact, error) {
	s.debug("fetch market snapshot", "provider", s.provider.Name(), "limit", s.request.Limit, "currency", s.request.Currency)

	facts, err := s.provider.Fetch(ctx, s.request)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", s.provider.Name(), err)
	}
	if len(facts) == 0 {
		return nil, fmt.Errorf("provider %s returned no assets", s.provider.Name())
	}

	s.debug("market snapshot fetched", "provider", s.provider.Name(), "assets", len(facts))
	return facts, nil
}

func (s *Source) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
