package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoNewsPublisher/internal/config"
	"CryptoNewsPublisher/internal/domain"
	"CryptoNewsPublisher/internal/market"
)

func TestCoinGeckoFetchKeepsConfiguredOrder(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "bitcoin,ethereum,bitcoin-cash,unknown-coin", q.Get("ids"))
		assert.Equal(t, "usd", q.Get("vs_currencies"))
		assert.Equal(t, "true", q.Get("include_24hr_change"))
		assert.Empty(t, r.Header.Get("x-cg-demo-api-key"))
		_, _ = w.Write([]byte(`{
			"ethereum": {"usd": 2224.88},
			"bitcoin": {"usd": 86275, "usd_24h_change": 2.5},
			"bitcoin-cash": {"usd": 310.1, "usd_24h_change": 0}
		}`))
	}))
	defer server.Close()

	provider := NewCoinGeckoProvider(config.CoinGeckoConfig{Endpoint: server.URL}, server.Client())
	facts, err := provider.Fetch(context.Background(), market.Request{
		Limit:    10,
		Currency: "USD",
		AssetIDs: []string{"bitcoin", "ethereum", "bitcoin-cash", "unknown-coin"},
	})
	require.NoError(t, err)

	assert.Equal(t, []domain.MarketFact{
		{Headline: "Bitcoin", Detail: "2.50% change in 24h, Current price: $86275.00"},
		{Headline: "Ethereum", Detail: "Current price: $2224.88"},
		{Headline: "Bitcoin Cash", Detail: "0.00% change in 24h, Current price: $310.10"},
	}, facts)
}

func TestCoinGeckoAppliesLimitAndKey(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "demo", r.Header.Get("x-cg-demo-api-key"))
		_, _ = w.Write([]byte(`{"bitcoin":{"eur":80000.5}}`))
	}))
	defer server.Close()

	provider := NewCoinGeckoProvider(config.CoinGeckoConfig{Endpoint: server.URL, APIKey: "demo"}, server.Client())
	facts, err := provider.Fetch(context.Background(), market.Request{Limit: 1, Currency: "EUR", AssetIDs: []string{"bitcoin", "ethereum"}})
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "Current price: $80000.50", facts[0].Detail)
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Bitcoin", displayName("bitcoin"))
	assert.Equal(t, "Shiba Inu", displayName("shiba-inu"))
	assert.Equal(t, "", displayName(""))
}
