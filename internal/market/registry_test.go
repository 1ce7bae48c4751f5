package market

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoNewsPublisher/internal/domain"
)

type namedProvider string

func (n namedProvider) Name() string { return string(n) }

func (n namedProvider) Fetch(context.Context, Request) ([]domain.MarketFact, error) {
	return nil, nil
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(namedProvider("coingecko"))
	reg.Register(namedProvider("coinmarketcap"))

	p, err := reg.Resolve("coinmarketcap")
	require.NoError(t, err)
	assert.Equal(t, "coinmarketcap", p.Name())
	assert.Equal(t, []string{"coingecko", "coinmarketcap"}, reg.Names())

	_, err = reg.Resolve("binance")
	assert.EqualError(t, err, "market provider binance is not registered")
}

func TestRegistryZeroValue(t *testing.T) {
	t.Parallel()

	var reg Registry
	reg.Register(namedProvider("coingecko"))

	_, err := reg.Resolve("coingecko")
	assert.NoError(t, err)
}

func TestFormatDetail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2.50% change in 24h, Current price: $86275.00", FormatDetail(2.5, 86275))
	assert.Equal(t, "-0.13% change in 24h, Current price: $2224.88", FormatDetail(-0.126, 2224.88))
	assert.Equal(t, "Current price: $0.50", FormatPrice(0.4999))
}
