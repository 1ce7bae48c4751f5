package config

import (
	"fmt"
	"log"
	"os"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"

	ConfigPathEnv         = "CRYPTONEWS_CONFIG"
	logLevelEnv           = "LOG_LEVEL"
	coinMarketCapKeyEnv   = "COINMARKETCAP_API_KEY"
	coinGeckoKeyEnv       = "COINGECKO_API_KEY"
	huggingFaceKeyEnv     = "HF_API_KEY"
	openAIKeyEnv          = "OPENAI_API_KEY"
	starryAIKeyEnv        = "STARRYAI_API_KEY"
	wordpressURLEnv       = "WORDPRESS_URL"
	wordpressTokenEnv     = "JWT_TOKEN"
	mastodonTokenEnv      = "MASTODON_ACCESS_TOKEN"
	mastodonInstanceEnv   = "MASTODON_INSTANCE_URL"
	telegramTokenEnv      = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv     = "TELEGRAM_CHAT_ID"
	narrativeBackendEnv   = "NARRATIVE_BACKEND"
	marketProviderEnv     = "MARKET_PROVIDER"
	scheduleExpressionEnv = "SCHEDULE_CRON"
)

// Provider, backend and platform names accepted in configuration.
const (
	ProviderCoinMarketCap = "coinmarketcap"
	ProviderCoinGecko     = "coingecko"

	BackendHuggingFace = "huggingface"
	BackendChatGPT     = "chatgpt"

	PlatformMastodon = "mastodon"
	PlatformTelegram = "telegram"

	TitleRandom = "random"
	TitleDated  = "dated"
)

// Config holds every setting loaded once at startup. It is treated as read-only afterwards.
type Config struct {
	Logging      LoggingConfig      `yaml:"logging"`
	Scheduler    SchedulerConfig    `yaml:"scheduler"`
	Market       MarketConfig       `yaml:"market"`
	Narrative    NarrativeConfig    `yaml:"narrative"`
	Illustration IllustrationConfig `yaml:"illustration"`
	CMS          CMSConfig          `yaml:"cms"`
	Social       SocialConfig       `yaml:"social"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SchedulerConfig defines when the pipeline should run.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	RunOnStart     bool           `yaml:"runOnStart"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// MarketConfig selects the data provider and the tracked asset set.
type MarketConfig struct {
	Provider      string              `yaml:"provider"`
	Limit         int                 `yaml:"limit"`
	Currency      string              `yaml:"currency"`
	CoinMarketCap CoinMarketCapConfig `yaml:"coinmarketcap"`
	CoinGecko     CoinGeckoConfig     `yaml:"coingecko"`
}

// CoinMarketCapConfig describes the listings feed.
type CoinMarketCapConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
}

// CoinGeckoConfig describes the simple price feed.
type CoinGeckoConfig struct {
	Endpoint string   `yaml:"endpoint"`
	APIKey   string   `yaml:"apiKey"`
	AssetIDs []string `yaml:"assetIds"`
}

// NarrativeConfig selects the text-generation backend.
type NarrativeConfig struct {
	Backend     string            `yaml:"backend"`
	HuggingFace HuggingFaceConfig `yaml:"huggingface"`
	ChatGPT     ChatGPTConfig     `yaml:"chatgpt"`
}

// HuggingFaceConfig defines how to contact the inference API.
type HuggingFaceConfig struct {
	Endpoint     string  `yaml:"endpoint"`
	Model        string  `yaml:"model"`
	APIKey       string  `yaml:"apiKey"`
	MaxNewTokens int     `yaml:"maxNewTokens"`
	Temperature  float64 `yaml:"temperature"`
}

// ChatGPTConfig defines how to contact an OpenAI-compatible API.
type ChatGPTConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// IllustrationConfig wires the image-generation service.
type IllustrationConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Endpoint     string        `yaml:"endpoint"`
	APIKey       string        `yaml:"apiKey"`
	Prompt       string        `yaml:"prompt"`
	Width        int           `yaml:"width"`
	Height       int           `yaml:"height"`
	PollAttempts int           `yaml:"pollAttempts"`
	PollInterval time.Duration `yaml:"pollInterval"`
	Timeout      time.Duration `yaml:"timeout"`
}

// CMSConfig describes the WordPress posts endpoint.
type CMSConfig struct {
	URL        string `yaml:"url"`
	Token      string `yaml:"token"`
	Status     string `yaml:"status"`
	TitleStyle string `yaml:"titleStyle"`
}

// SocialConfig encapsulates the cross-posting channel.
type SocialConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Platform string         `yaml:"platform"`
	MaxChars int            `yaml:"maxChars"`
	Mastodon MastodonConfig `yaml:"mastodon"`
	Telegram TelegramConfig `yaml:"telegram"`
}

// MastodonConfig holds the instance and access token used to post statuses.
type MastodonConfig struct {
	InstanceURL string `yaml:"instanceUrl"`
	AccessToken string `yaml:"accessToken"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Load reads YAML configuration (if a path is given or set in the environment)
// over the defaults and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	overrides := []struct {
		env    string
		target *string
	}{
		{logLevelEnv, &c.Logging.Level},
		{scheduleExpressionEnv, &c.Scheduler.CronExpression},
		{marketProviderEnv, &c.Market.Provider},
		{coinMarketCapKeyEnv, &c.Market.CoinMarketCap.APIKey},
		{coinGeckoKeyEnv, &c.Market.CoinGecko.APIKey},
		{narrativeBackendEnv, &c.Narrative.Backend},
		{huggingFaceKeyEnv, &c.Narrative.HuggingFace.APIKey},
		{openAIKeyEnv, &c.Narrative.ChatGPT.APIKey},
		{starryAIKeyEnv, &c.Illustration.APIKey},
		{wordpressURLEnv, &c.CMS.URL},
		{wordpressTokenEnv, &c.CMS.Token},
		{mastodonInstanceEnv, &c.Social.Mastodon.InstanceURL},
		{mastodonTokenEnv, &c.Social.Mastodon.AccessToken},
		{telegramTokenEnv, &c.Social.Telegram.BotToken},
		{telegramChatIDEnv, &c.Social.Telegram.ChatID},
	}

	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{
			CronExpression: "0 */5 * * *",
			Timezone:       defaultTimezone,
			RunOnStart:     true,
			location:       tz,
		},
		Market: MarketConfig{
			Provider: ProviderCoinMarketCap,
			Limit:    5,
			Currency: "USD",
			CoinMarketCap: CoinMarketCapConfig{
				Endpoint: "https://pro-api.coinmarketcap.com/v1/cryptocurrency/listings/latest",
			},
			CoinGecko: CoinGeckoConfig{
				Endpoint: "https://api.coingecko.com/api/v3/simple/price",
				AssetIDs: []string{"bitcoin", "ethereum"},
			},
		},
		Narrative: NarrativeConfig{
			Backend: BackendHuggingFace,
			HuggingFace: HuggingFaceConfig{
				Endpoint:     "https://api-inference.huggingface.co/models",
				Model:        "tiiuae/falcon-7b-instruct",
				MaxNewTokens: 250,
				Temperature:  0.8,
			},
			ChatGPT: ChatGPTConfig{
				Endpoint:     "https://api.openai.com/v1/chat/completions",
				Model:        "gpt-4o-mini",
				SystemPrompt: "You write short, neutral cryptocurrency market updates.",
			},
		},
		Illustration: IllustrationConfig{
			Enabled:      true,
			Endpoint:     "https://api.starryai.com/creations",
			Prompt:       "Futuristic crypto coin visualization",
			Width:        512,
			Height:       512,
			PollAttempts: 0,
			PollInterval: 5 * time.Second,
			Timeout:      60 * time.Second,
		},
		CMS: CMSConfig{
			Status:     "publish",
			TitleStyle: TitleRandom,
		},
		Social: SocialConfig{
			Enabled:  true,
			Platform: PlatformMastodon,
			MaxChars: 200,
		},
	}
}
