package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"CryptoNewsPublisher/internal/config"
	"CryptoNewsPublisher/internal/domain"
	"CryptoNewsPublisher/internal/infrastructure/httpjson"
	"CryptoNewsPublisher/internal/market"
)

// CoinGeckoProvider reads spot prices for a fixed list of asset ids.
type CoinGeckoProvider struct {
	endpoint string
	apiKey   string
	client   *httpjson.Client
}

var _ market.Provider = (*CoinGeckoProvider)(nil)

// NewCoinGeckoProvider wires the simple price endpoint; the API key is optional.
func NewCoinGeckoProvider(cfg config.CoinGeckoConfig, client *http.Client) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   httpjson.New(client, 15*time.Second),
	}
}

// Name identifies the provider inside the registry.
func (p *CoinGeckoProvider) Name() string {
	return config.ProviderCoinGecko
}

// Fetch returns facts in the order of req.AssetIDs, skipping ids the feed does not know.
func (p *CoinGeckoProvider) Fetch(ctx context.Context, req market.Request) ([]domain.MarketFact, error) {
	ids := req.AssetIDs
	if req.Limit > 0 && len(ids) > req.Limit {
		ids = ids[:req.Limit]
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("coingecko: no asset ids requested")
	}

	currency := strings.ToLower(req.Currency)
	endpoint, err := simplePriceURL(p.endpoint, ids, currency)
	if err != nil {
		return nil, err
	}

	var header http.Header
	if p.apiKey != "" {
		header = http.Header{}
		header.Set("x-cg-demo-api-key", p.apiKey)
	}

	var prices map[string]map[string]float64
	if err := p.client.GetJSON(ctx, endpoint, header, &prices); err != nil {
		return nil, fmt.Errorf("coingecko simple price: %w", err)
	}

	facts := make([]domain.MarketFact, 0, len(ids))
	for _, id := range ids {
		entry, ok := prices[id]
		if !ok {
			continue
		}
		price, ok := entry[currency]
		if !ok {
			return nil, fmt.Errorf("coingecko asset %s has no %s price", id, currency)
		}

		detail := market.FormatPrice(price)
		if change, ok := entry[currency+"_24h_change"]; ok {
			detail = market.FormatDetail(change, price)
		}
		facts = append(facts, domain.MarketFact{Headline: displayName(id), Detail: detail})
	}

	return facts, nil
}

func simplePriceURL(base string, ids []string, currency string) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid simple price url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", currency)
	query.Set("include_24hr_change", "true")
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

// displayName turns "bitcoin-cash" into "Bitcoin Cash".
func displayName(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
