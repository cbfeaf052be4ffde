package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               { m.stopped.Store(true) }

func newManualTickers() (*manualTicker, TickerFactory) {
	t := &manualTicker{ch: make(chan time.Time)}
	return t, func(time.Duration) Ticker { return t }
}

func TestScheduler_RunsImmediatelyThenOnEachTick(t *testing.T) {
	ticker, factory := newManualTickers()
	s := NewScheduler(WithTickerFactory(factory))

	var runs atomic.Int32
	s.AddJob("count", 15*time.Minute, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start()
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)

	// Unbuffered sends only complete once the job loop is waiting on the ticker.
	ticker.ch <- time.Now()
	ticker.ch <- time.Now()
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)

	s.Stop()
	assert.True(t, ticker.stopped.Load())
	final := runs.Load()
	assert.GreaterOrEqual(t, final, int32(2))
	assert.LessOrEqual(t, final, int32(3))
}

func TestScheduler_FailingJobKeepsRunning(t *testing.T) {
	ticker, factory := newManualTickers()
	s := NewScheduler(WithTickerFactory(factory))

	var runs atomic.Int32
	s.AddJob("fails", time.Minute, func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	})

	s.Start()
	ticker.ch <- time.Now()
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestScheduler_StopCancelsJobContext(t *testing.T) {
	_, factory := newManualTickers()
	s := NewScheduler(WithTickerFactory(factory))

	done := make(chan struct{})
	s.AddJob("blocks", time.Minute, func(ctx context.Context) error {
		<-ctx.Done()
		close(done)
		return ctx.Err()
	})

	s.Start()
	s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job context was not cancelled")
	}
}

func TestScheduler_StartTwiceIsNoop(t *testing.T) {
	_, factory := newManualTickers()
	s := NewScheduler(WithTickerFactory(factory))

	var runs atomic.Int32
	s.AddJob("once", time.Minute, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start()
	s.Start()
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.Stop()
	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()

	var a, b atomic.Int32
	s.AddJob("a", time.Hour, func(ctx context.Context) error { a.Add(1); return nil })
	s.AddJob("b", time.Hour, func(ctx context.Context) error { b.Add(1); return errors.New("ignored") })

	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), a.Load())
	assert.Equal(t, int32(1), b.Load())
}
