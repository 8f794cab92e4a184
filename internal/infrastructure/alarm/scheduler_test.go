package alarm

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/geobadge/internal/application/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_CreateFiresPeriodically(t *testing.T) {
	s := newScheduler(t, context.Background())

	var fired atomic.Int32
	s.OnAlarm(func(_ context.Context, a port.Alarm) {
		assert.Equal(t, "update-location-alarm", a.Name)
		fired.Add(1)
	})

	require.NoError(t, s.Create(context.Background(), "update-location-alarm", 10*time.Millisecond))

	assert.Eventually(t, func() bool { return fired.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_CreateReplacesExisting(t *testing.T) {
	s := newScheduler(t, context.Background())
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "a", time.Hour))
	require.NoError(t, s.Create(ctx, "a", 2*time.Hour))

	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, 2*time.Hour, all[0].Period)

	a, ok := s.Get("a")
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), a.ScheduledTime, time.Minute)
}

func TestScheduler_Clear(t *testing.T) {
	s := newScheduler(t, context.Background())
	ctx := context.Background()

	var fired atomic.Int32
	s.OnAlarm(func(context.Context, port.Alarm) { fired.Add(1) })

	assert.False(t, s.Clear(ctx, "missing"))

	require.NoError(t, s.Create(ctx, "a", 5*time.Millisecond))
	assert.True(t, s.Clear(ctx, "a"))
	after := fired.Load()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, fired.Load())
	_, ok := s.Get("a")
	assert.False(t, ok)
}

func TestScheduler_InvalidPeriod(t *testing.T) {
	s := newScheduler(t, context.Background())
	err := s.Create(context.Background(), "a", 0)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	assert.Empty(t, s.All())
}

func TestScheduler_OutlivesCreateContext(t *testing.T) {
	s := newScheduler(t, context.Background())

	var fired atomic.Int32
	s.OnAlarm(func(context.Context, port.Alarm) { fired.Add(1) })

	reqCtx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Create(reqCtx, "a", 5*time.Millisecond))
	cancel()

	assert.Eventually(t, func() bool { return fired.Load() >= 1 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_StopsWithBaseContext(t *testing.T) {
	base, cancel := context.WithCancel(context.Background())
	s := newScheduler(t, base)

	require.NoError(t, s.Create(context.Background(), "a", time.Hour))
	cancel()

	assert.Eventually(t, func() bool { return len(s.All()) == 0 }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, s.Create(context.Background(), "b", time.Hour), ErrClosed)
	s.Close()
}

func TestScheduler_ReplaceStopsPreviousJob(t *testing.T) {
	s := newScheduler(t, context.Background())
	ctx := context.Background()

	var fast atomic.Int32
	s.OnAlarm(func(_ context.Context, a port.Alarm) {
		if a.Period == 5*time.Millisecond {
			fast.Add(1)
		}
	})

	require.NoError(t, s.Create(ctx, "a", 5*time.Millisecond))
	require.Eventually(t, func() bool { return fast.Load() >= 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Create(ctx, "a", time.Hour))
	after := fast.Load()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, fast.Load())
	assert.Len(t, s.cron.Jobs(), 1)
}

func TestScheduler_PanickingHandler(t *testing.T) {
	s := newScheduler(t, context.Background())

	var fired atomic.Int32
	s.OnAlarm(func(context.Context, port.Alarm) { panic("boom") })
	s.OnAlarm(func(context.Context, port.Alarm) { fired.Add(1) })

	require.NoError(t, s.Create(context.Background(), "a", 5*time.Millisecond))
	assert.Eventually(t, func() bool { return fired.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func newScheduler(t *testing.T, ctx context.Context) *Scheduler {
	t.Helper()
	s, err := NewScheduler(ctx)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}
