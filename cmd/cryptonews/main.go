package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"CryptoNewsPublisher/internal/app"
	"CryptoNewsPublisher/internal/config"
	"CryptoNewsPublisher/internal/domain"
	"CryptoNewsPublisher/internal/logging"
)

type flags struct {
	configPath string
	once       bool
	logLevel   string
}

func parseFlags() flags {
	var f flags
	pflag.StringVarP(&f.configPath, "config", "c", "", "Path to YAML configuration (defaults to $"+config.ConfigPathEnv+")")
	pflag.BoolVar(&f.once, "once", false, "Run the pipeline a single time and exit")
	pflag.StringVar(&f.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()
	return f
}

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	logger := logging.New(cfg.Logging.Level)

	if err := cfg.Validate(); err != nil {
		var cfgErr *domain.ConfigError
		if errors.As(err, &cfgErr) {
			for _, problem := range cfgErr.Problems {
				logger.Error("configuration problem", "problem", problem)
			}
		}
		logger.Error("refusing to start", "error", err)
		os.Exit(1)
	}

	application, err := app.New(cfg, nil, logger)
	if err != nil {
		logger.Error("build application", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.once {
		report, err := application.RunOnce(ctx)
		if err != nil || !report.Succeeded() {
			os.Exit(1)
		}
		return
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
