package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"CryptoNewsPublisher/internal/domain"
	"CryptoNewsPublisher/internal/ports"
)

// CronScheduler fires a job on a standard five-field cron expression and,
// optionally, once right after Start.
type CronScheduler struct {
	spec       string
	location   *time.Location
	runOnStart bool
	logger     *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	stopped chan struct{}
	pending sync.WaitGroup
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler configured via cron expression string.
func NewCronScheduler(spec string, loc *time.Location, runOnStart bool, log *slog.Logger) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &CronScheduler{
		spec:       spec,
		location:   loc,
		runOnStart: runOnStart,
		logger:     log,
	}
}

// Start registers the job and begins ticking. Calling Start twice is a no-op.
// The scheduler stops on its own when ctx is cancelled.
func (c *CronScheduler) Start(ctx context.Context, job ports.Job) error {
	if job == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cron != nil {
		return nil
	}

	schedule, err := cron.ParseStandard(c.spec)
	if err != nil {
		return fmt.Errorf("parse cron expression %q: %w", c.spec, err)
	}

	logger := cronLogger{log: c.logger}
	driver := cron.New(
		cron.WithLocation(c.location),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger)),
	)
	driver.Schedule(schedule, cron.FuncJob(func() {
		job(domain.TriggerScheduled, time.Now().In(c.location))
	}))
	driver.Start()
	c.cron = driver

	c.logger.Info("scheduler started", "cron", c.spec, "timezone", c.location.String(), "next_run", schedule.Next(time.Now().In(c.location)))

	if c.runOnStart {
		c.pending.Add(1)
		go func() {
			defer c.pending.Done()
			job(domain.TriggerImmediate, time.Now().In(c.location))
		}()
	}

	go func() {
		<-ctx.Done()
		_ = c.Stop(context.Background())
	}()

	return nil
}

// Stop halts the cron driver and waits for running jobs or for ctx to expire.
// Every caller waits for the same shutdown, including after ctx cancellation
// already began it.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	if driver := c.cron; driver != nil {
		c.cron = nil
		stopped := make(chan struct{})
		c.stopped = stopped
		go func() {
			<-driver.Stop().Done()
			c.pending.Wait()
			close(stopped)
		}()
	}
	stopped := c.stopped
	c.mu.Unlock()

	if stopped == nil {
		return nil
	}

	select {
	case <-stopped:
		c.logger.Debug("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop scheduler: %w", ctx.Err())
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
