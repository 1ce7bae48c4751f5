package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoNewsPublisher/internal/domain"
)

func validConfig() Config {
	cfg := defaultConfig()
	cfg.Market.CoinMarketCap.APIKey = "cmc"
	cfg.Narrative.HuggingFace.APIKey = "hf"
	cfg.Illustration.APIKey = "starry"
	cfg.CMS.URL = "https://blog.example/wp-json/wp/v2/posts"
	cfg.CMS.Token = "wp-token"
	cfg.Social.Mastodon.InstanceURL = "https://mastodon.example"
	cfg.Social.Mastodon.AccessToken = "masto"
	return cfg
}

func jwtWithExp(exp int64) string {
	enc := base64.RawURLEncoding
	header := enc.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := enc.EncodeToString([]byte(fmt.Sprintf(`{"sub":"1","exp":%d}`, exp)))
	return header + "." + payload + ".signature"
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0 */5 * * *", cfg.Scheduler.CronExpression)
	assert.Equal(t, ProviderCoinMarketCap, cfg.Market.Provider)
	assert.Equal(t, 5, cfg.Market.Limit)
	assert.Equal(t, "USD", cfg.Market.Currency)
	assert.Equal(t, 250, cfg.Narrative.HuggingFace.MaxNewTokens)
	assert.Equal(t, 200, cfg.Social.MaxChars)
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
scheduler:
  cronExpression: "0 */4 * * *"
  timezone: Europe/Berlin
market:
  provider: coingecko
  coingecko:
    assetIds: [bitcoin, solana]
illustration:
  enabled: false
  pollInterval: 2s
cms:
  url: https://blog.example/wp-json/wp/v2/posts
  titleStyle: dated
social:
  platform: telegram
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	t.Setenv("HF_API_KEY", "hf-env")
	t.Setenv("JWT_TOKEN", "jwt-env")
	t.Setenv("TELEGRAM_CHAT_ID", "@cryptonews")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0 */4 * * *", cfg.Scheduler.CronExpression)
	assert.Equal(t, "Europe/Berlin", cfg.Scheduler.Location().String())
	assert.Equal(t, ProviderCoinGecko, cfg.Market.Provider)
	assert.Equal(t, []string{"bitcoin", "solana"}, cfg.Market.CoinGecko.AssetIDs)
	assert.Equal(t, 5, cfg.Market.Limit, "unset keys keep defaults")
	assert.False(t, cfg.Illustration.Enabled)
	assert.Equal(t, 2*time.Second, cfg.Illustration.PollInterval)
	assert.Equal(t, TitleDated, cfg.CMS.TitleStyle)
	assert.Equal(t, "hf-env", cfg.Narrative.HuggingFace.APIKey)
	assert.Equal(t, "jwt-env", cfg.CMS.Token)
	assert.Equal(t, PlatformTelegram, cfg.Social.Platform)
	assert.Equal(t, "@cryptonews", cfg.Social.Telegram.ChatID)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateListsMissingCredentials(t *testing.T) {
	cfg := defaultConfig()

	err := cfg.Validate()
	require.Error(t, err)

	var cfgErr *domain.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Problems, "market.coinmarketcap.apiKey is required")
	assert.Contains(t, cfgErr.Problems, "narrative.huggingface.apiKey is required")
	assert.Contains(t, cfgErr.Problems, "illustration.apiKey is required when illustration is enabled")
	assert.Contains(t, cfgErr.Problems, "cms.url is required")
	assert.Contains(t, cfgErr.Problems, "cms.token is required")
	assert.Contains(t, cfgErr.Problems, "social.mastodon.instanceUrl and accessToken are required")
}

func TestValidateSkipsDisabledStages(t *testing.T) {
	cfg := validConfig()
	cfg.Illustration.Enabled = false
	cfg.Illustration.APIKey = ""
	cfg.Social.Enabled = false
	cfg.Social.Mastodon = MastodonConfig{}

	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadCronAndNames(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduler.CronExpression = "every five hours"
	cfg.Narrative.Backend = "falcon"
	cfg.CMS.TitleStyle = "clever"

	var cfgErr *domain.ConfigError
	require.True(t, errors.As(cfg.Validate(), &cfgErr))
	assert.Len(t, cfgErr.Problems, 3)
}

func TestValidateExpiredJWT(t *testing.T) {
	now := time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)

	cfg := validConfig()
	cfg.CMS.Token = jwtWithExp(now.Add(-time.Hour).Unix())
	err := cfg.validateAt(now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cms.token expired at 2026-10-17T11:00:00Z")

	cfg.CMS.Token = jwtWithExp(now.Add(time.Hour).Unix())
	assert.NoError(t, cfg.validateAt(now))
}

func TestTokenExpiryIgnoresOpaqueTokens(t *testing.T) {
	_, ok := tokenExpiry("abcd efgh ijkl mnop")
	assert.False(t, ok)

	_, ok = tokenExpiry("a.b.c")
	assert.False(t, ok)
}
