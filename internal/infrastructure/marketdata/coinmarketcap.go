package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"CryptoNewsPublisher/internal/config"
	"CryptoNewsPublisher/internal/domain"
	"CryptoNewsPublisher/internal/infrastructure/httpjson"
	"CryptoNewsPublisher/internal/market"
)

// CoinMarketCapProvider reads the latest listings ranked by market cap.
type CoinMarketCapProvider struct {
	endpoint string
	apiKey   string
	client   *httpjson.Client
}

var _ market.Provider = (*CoinMarketCapProvider)(nil)

// NewCoinMarketCapProvider wires the listings endpoint; a nil client gets a 15s timeout.
func NewCoinMarketCapProvider(cfg config.CoinMarketCapConfig, client *http.Client) *CoinMarketCapProvider {
	return &CoinMarketCapProvider{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   httpjson.New(client, 15*time.Second),
	}
}

// Name identifies the provider inside the registry.
func (p *CoinMarketCapProvider) Name() string {
	return config.ProviderCoinMarketCap
}

// Fetch returns one fact per listed asset in provider order.
func (p *CoinMarketCapProvider) Fetch(ctx context.Context, req market.Request) ([]domain.MarketFact, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("coinmarketcap api key is not configured")
	}

	endpoint, err := listingsURL(p.endpoint, req.Limit, req.Currency)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("X-CMC_PRO_API_KEY", p.apiKey)

	var resp listingsResponse
	if err := p.client.GetJSON(ctx, endpoint, header, &resp); err != nil {
		return nil, fmt.Errorf("coinmarketcap listings: %w", err)
	}
	if resp.Status.ErrorCode != 0 {
		return nil, fmt.Errorf("coinmarketcap error %d: %s", resp.Status.ErrorCode, resp.Status.ErrorMessage)
	}

	currency := strings.ToUpper(req.Currency)
	facts := make([]domain.MarketFact, 0, len(resp.Data))
	for _, item := range resp.Data {
		quote, ok := item.Quote[currency]
		if !ok || quote.Price == nil || quote.PercentChange24h == nil {
			return nil, fmt.Errorf("coinmarketcap listing %q has no %s quote", item.Name, currency)
		}
		facts = append(facts, domain.MarketFact{
			Headline: item.Name,
			Detail:   market.FormatDetail(*quote.PercentChange24h, *quote.Price),
		})
	}

	return facts, nil
}

func listingsURL(base string, limit int, currency string) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid listings url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("limit", strconv.Itoa(limit))
	query.Set("convert", strings.ToUpper(currency))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

type listingsResponse struct {
	Data   []listing      `json:"data"`
	Status listingsStatus `json:"status"`
}

type listingsStatus struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type listing struct {
	Name   string           `json:"name"`
	Symbol string           `json:"symbol"`
	Quote  map[string]quote `json:"quote"`
}

type quote struct {
	Price            *float64 `json:"price"`
	PercentChange24h *float64 `json:"percent_change_24h"`
}
