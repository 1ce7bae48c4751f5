package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoNewsPublisher/internal/domain"
)

type recorder struct {
	mu       sync.Mutex
	triggers []domain.Trigger
}

func (r *recorder) job(trigger domain.Trigger, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggers = append(r.triggers, trigger)
}

func (r *recorder) snapshot() []domain.Trigger {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Trigger(nil), r.triggers...)
}

func TestStartRunsImmediately(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	sched := NewCronScheduler("0 */5 * * *", time.UTC, true, nil)

	require.NoError(t, sched.Start(context.Background(), rec.job))
	require.NoError(t, sched.Stop(context.Background()))

	assert.Equal(t, []domain.Trigger{domain.TriggerImmediate}, rec.snapshot())
}

func TestStartWithoutRunOnStart(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	sched := NewCronScheduler("0 */5 * * *", nil, false, nil)

	require.NoError(t, sched.Start(context.Background(), rec.job))
	require.NoError(t, sched.Stop(context.Background()))

	assert.Empty(t, rec.snapshot())
}

func TestScheduledTicks(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	sched := NewCronScheduler("@every 1s", time.UTC, false, nil)
	require.NoError(t, sched.Start(context.Background(), rec.job))
	defer func() { _ = sched.Stop(context.Background()) }()

	assert.Eventually(t, func() bool {
		return len(rec.snapshot()) > 0
	}, 3*time.Second, 50*time.Millisecond)
	assert.Equal(t, domain.TriggerScheduled, rec.snapshot()[0])
}

func TestStartRejectsBadExpression(t *testing.T) {
	t.Parallel()

	sched := NewCronScheduler("every five hours", time.UTC, true, nil)
	err := sched.Start(context.Background(), func(domain.Trigger, time.Time) {})
	assert.ErrorContains(t, err, "parse cron expression")
}

func TestContextCancellationStopsScheduler(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	sched := NewCronScheduler("@every 1s", time.UTC, false, nil)
	require.NoError(t, sched.Start(ctx, func(domain.Trigger, time.Time) {}))

	cancel()
	assert.Eventually(t, func() bool {
		sched.mu.Lock()
		defer sched.mu.Unlock()
		return sched.cron == nil
	}, time.Second, 10*time.Millisecond)
}

func TestStopWaitsForImmediateJob(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	finished := make(chan struct{})
	sched := NewCronScheduler("0 */5 * * *", time.UTC, true, nil)
	require.NoError(t, sched.Start(context.Background(), func(domain.Trigger, time.Time) {
		<-release
		close(finished)
	}))

	stopCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, sched.Stop(stopCtx), "stop must not return before the job")

	close(release)
	<-finished
	require.NoError(t, sched.Stop(context.Background()))
}

func TestStopAfterCancellationStillWaits(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	sched := NewCronScheduler("0 */5 * * *", time.UTC, true, nil)
	require.NoError(t, sched.Start(ctx, func(domain.Trigger, time.Time) {
		<-release
	}))

	cancel()
	assert.Eventually(t, func() bool {
		sched.mu.Lock()
		defer sched.mu.Unlock()
		return sched.cron == nil
	}, time.Second, 10*time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer stopCancel()
	assert.Error(t, sched.Stop(stopCtx))

	close(release)
	require.NoError(t, sched.Stop(context.Background()))
}
