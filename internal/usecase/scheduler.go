package usecase

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"CryptoNewsPublisher/internal/domain"
	"CryptoNewsPublisher/internal/ports"
)

// Runner executes a single pipeline run.
type Runner interface {
	Run(ctx context.Context, trigger domain.Trigger) domain.RunReport
}

var _ Runner = (*Pipeline)(nil)

// Scheduler wires the cron driver with the pipeline use case and makes sure
// at most one run is in flight. Overlapping triggers are skipped, not queued.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline Runner
	guard    *semaphore.Weighted
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring jobs.
func NewScheduler(driver ports.Scheduler, pipeline Runner, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{
		driver:   driver,
		pipeline: pipeline,
		guard:    semaphore.NewWeighted(1),
		logger:   logger,
	}
}

// Start registers the guarded pipeline with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger domain.Trigger, at time.Time) {
		s.logger.Info("trigger received", "trigger", trigger, "at", at.Format(time.RFC3339))
		_, _ = s.Trigger(ctx, trigger)
	}

	return s.driver.Start(ctx, job)
}

// Trigger runs the pipeline now unless another run holds the guard, in which
// case it returns domain.ErrRunInProgress. A started run is not cancelled by ctx.
func (s *Scheduler) Trigger(ctx context.Context, trigger domain.Trigger) (domain.RunReport, error) {
	if !s.guard.TryAcquire(1) {
		s.logger.Warn("skipping trigger, previous run still in progress", "trigger", trigger)
		return domain.RunReport{}, domain.ErrRunInProgress
	}
	defer s.guard.Release(1)

	return s.pipeline.Run(context.WithoutCancel(ctx), trigger), nil
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
