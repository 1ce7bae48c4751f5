package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"CryptoNewsPublisher/internal/config"
	"CryptoNewsPublisher/internal/domain"
	"CryptoNewsPublisher/internal/infrastructure/cms"
	"CryptoNewsPublisher/internal/infrastructure/imagegen"
	"CryptoNewsPublisher/internal/infrastructure/llm"
	"CryptoNewsPublisher/internal/infrastructure/marketdata"
	"CryptoNewsPublisher/internal/infrastructure/scheduler"
	"CryptoNewsPublisher/internal/infrastructure/social"
	"CryptoNewsPublisher/internal/logging"
	"CryptoNewsPublisher/internal/market"
	"CryptoNewsPublisher/internal/ports"
	"CryptoNewsPublisher/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	logger    *slog.Logger
}

// New builds the application from validated configuration. A nil client lets
// every adapter use its own timeout.
func New(cfg config.Config, client *http.Client, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := market.NewRegistry()
	registry.Register(marketdata.NewCoinMarketCapProvider(cfg.Market.CoinMarketCap, client))
	registry.Register(marketdata.NewCoinGeckoProvider(cfg.Market.CoinGecko, client))

	source, err := marketdata.NewSource(registry, cfg.Market, baseLogger.With("component", "market"))
	if err != nil {
		return nil, err
	}

	generator, err := newGenerator(cfg.Narrative, client)
	if err != nil {
		return nil, err
	}

	var illustrator ports.Illustrator
	if cfg.Illustration.Enabled {
		illustrator = imagegen.NewStarryAIClient(cfg.Illustration, client, baseLogger.With("component", "illustrator"))
	}

	var poster ports.SocialPoster
	if cfg.Social.Enabled {
		poster, err = newPoster(cfg.Social, client)
		if err != nil {
			return nil, err
		}
	}

	loc := cfg.Scheduler.Location()
	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:             source,
		Generator:          generator,
		Illustrator:        illustrator,
		Publisher:          cms.NewWordPressPublisher(cfg.CMS, loc, client),
		Poster:             poster,
		IllustrationPrompt: cfg.Illustration.Prompt,
		Logger:             baseLogger.With("component", "pipeline"),
	})

	driver := scheduler.NewCronScheduler(
		cfg.Scheduler.CronExpression,
		loc,
		cfg.Scheduler.RunOnStart,
		baseLogger.With("component", "scheduler"),
	)

	return &Application{
		cfg:       cfg,
		pipeline:  pipeline,
		scheduler: usecase.NewScheduler(driver, pipeline, baseLogger.With("component", "runner")),
		logger:    baseLogger,
	}, nil
}

// Run starts the scheduler and blocks until ctx is cancelled, then waits for
// the run in flight (if any) to finish.
func (a *Application) Run(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started",
		"cron", a.cfg.Scheduler.CronExpression,
		"timezone", a.cfg.Scheduler.Location().String(),
		"run_on_start", a.cfg.Scheduler.RunOnStart,
	)

	<-ctx.Done()
	a.logger.Info("shutdown requested, waiting for active run")

	if err := a.scheduler.Stop(context.Background()); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	a.logger.Info("scheduler stopped")
	return nil
}

// RunOnce executes a single pipeline run outside the schedule.
func (a *Application) RunOnce(ctx context.Context) (domain.RunReport, error) {
	return a.scheduler.Trigger(ctx, domain.TriggerImmediate)
}

func newGenerator(cfg config.NarrativeConfig, client *http.Client) (ports.NarrativeGenerator, error) {
	switch cfg.Backend {
	case config.BackendHuggingFace:
		return llm.NewHuggingFaceClient(cfg.HuggingFace, client), nil
	case config.BackendChatGPT:
		return llm.NewChatGPTClient(cfg.ChatGPT, client), nil
	default:
		return nil, fmt.Errorf("narrative backend %q is not supported", cfg.Backend)
	}
}

func newPoster(cfg config.SocialConfig, client *http.Client) (ports.SocialPoster, error) {
	switch cfg.Platform {
	case config.PlatformMastodon:
		return social.NewMastodonPoster(cfg.Mastodon, cfg.MaxChars, client), nil
	case config.PlatformTelegram:
		return social.NewTelegramPoster(cfg.Telegram, cfg.MaxChars, client), nil
	default:
		return nil, fmt.Errorf("social platform %q is not supported", cfg.Platform)
	}
}
