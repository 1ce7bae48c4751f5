package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"CryptoNewsPublisher/internal/domain"
)

// Validate reports every missing or unusable setting for the stages the
// pipeline will run. A non-nil result is a *domain.ConfigError.
func (c Config) Validate() error {
	return c.validateAt(time.Now())
}

func (c Config) validateAt(now time.Time) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if _, err := cron.ParseStandard(c.Scheduler.CronExpression); err != nil {
		add("scheduler.cronExpression %q: %v", c.Scheduler.CronExpression, err)
	}

	switch c.Market.Provider {
	case ProviderCoinMarketCap:
		if c.Market.CoinMarketCap.APIKey == "" {
			add("market.coinmarketcap.apiKey is required")
		}
	case ProviderCoinGecko:
		if len(c.Market.CoinGecko.AssetIDs) == 0 {
			add("market.coingecko.assetIds must list at least one asset")
		}
	default:
		add("market.provider %q is not supported", c.Market.Provider)
	}
	if c.Market.Limit <= 0 {
		add("market.limit must be positive")
	}
	if strings.TrimSpace(c.Market.Currency) == "" {
		add("market.currency is required")
	}

	switch c.Narrative.Backend {
	case BackendHuggingFace:
		if c.Narrative.HuggingFace.APIKey == "" {
			add("narrative.huggingface.apiKey is required")
		}
	case BackendChatGPT:
		if c.Narrative.ChatGPT.APIKey == "" {
			add("narrative.chatgpt.apiKey is required")
		}
	default:
		add("narrative.backend %q is not supported", c.Narrative.Backend)
	}

	if c.Illustration.Enabled && c.Illustration.APIKey == "" {
		add("illustration.apiKey is required when illustration is enabled")
	}

	if c.CMS.URL == "" {
		add("cms.url is required")
	}
	if c.CMS.Token == "" {
		add("cms.token is required")
	} else if exp, ok := tokenExpiry(c.CMS.Token); ok && !exp.After(now) {
		add("cms.token expired at %s", exp.UTC().Format(time.RFC3339))
	}
	if c.CMS.TitleStyle != TitleRandom && c.CMS.TitleStyle != TitleDated {
		add("cms.titleStyle %q is not supported", c.CMS.TitleStyle)
	}

	if c.Social.Enabled {
		switch c.Social.Platform {
		case PlatformMastodon:
			if c.Social.Mastodon.InstanceURL == "" || c.Social.Mastodon.AccessToken == "" {
				add("social.mastodon.instanceUrl and accessToken are required")
			}
		case PlatformTelegram:
			if c.Social.Telegram.BotToken == "" || c.Social.Telegram.ChatID == "" {
				add("social.telegram.botToken and chatId are required")
			}
		default:
			add("social.platform %q is not supported", c.Social.Platform)
		}
		if c.Social.MaxChars <= 0 {
			add("social.maxChars must be positive")
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &domain.ConfigError{Problems: problems}
}

// tokenExpiry reads the exp claim of a JWT without verifying it. Tokens that
// are not JWTs (e.g. application passwords) report ok=false.
func tokenExpiry(token string) (time.Time, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return time.Time{}, false
	}

	var claims struct {
		Exp *json.Number `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil || claims.Exp == nil {
		return time.Time{}, false
	}

	seconds, err := claims.Exp.Int64()
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(seconds, 0), true
}
