package marketdata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoNewsPublisher/internal/config"
	"CryptoNewsPublisher/internal/domain"
	"CryptoNewsPublisher/internal/logging"
	"CryptoNewsPublisher/internal/market"
)

type stubProvider struct {
	facts []domain.MarketFact
	err   error
	got   market.Request
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Fetch(_ context.Context, req market.Request) ([]domain.MarketFact, error) {
	s.got = req
	return s.facts, s.err
}

func newStubSource(t *testing.T, provider *stubProvider) *Source {
	t.Helper()

	reg := market.NewRegistry()
	reg.Register(provider)

	src, err := NewSource(reg, config.MarketConfig{
		Provider:  "stub",
		Limit:     3,
		Currency:  "USD",
		CoinGecko: config.CoinGeckoConfig{AssetIDs: []string{"bitcoin"}},
	}, logging.Discard())
	require.NoError(t, err)
	return src
}

func TestSourcePassesRequest(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{facts: []domain.MarketFact{{Headline: "Bitcoin", Detail: "x"}}}
	facts, err := newStubSource(t, provider).Fetch(context.Background())
	require.NoError(t, err)

	assert.Len(t, facts, 1)
	assert.Equal(t, market.Request{Limit: 3, Currency: "USD", AssetIDs: []string{"bitcoin"}}, provider.got)
}

func TestSourceRejectsEmptySnapshot(t *testing.T) {
	t.Parallel()

	_, err := newStubSource(t, &stubProvider{}).Fetch(context.Background())
	assert.EqualError(t, err, "provider stub returned no assets")
}

func TestSourceWrapsProviderError(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: refused")
	_, err := newStubSource(t, &stubProvider{err: cause}).Fetch(context.Background())
	assert.ErrorIs(t, err, cause)
}

func TestNewSourceUnknownProvider(t *testing.T) {
	t.Parallel()

	_, err := NewSource(market.NewRegistry(), config.MarketConfig{Provider: "kraken"}, nil)
	assert.EqualError(t, err, "market provider kraken is not registered")
}
