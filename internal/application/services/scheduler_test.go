package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"fx-rates-service/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualTicker solo dispara cuando el test lo pide
type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               { t.stopped.Store(true) }

type countingRefresher struct {
	calls   atomic.Int32
	ticked  chan struct{}
	ctxErrs []error
}

func newCountingRefresher() *countingRefresher {
	return &countingRefresher{ticked: make(chan struct{}, 16)}
}

func (r *countingRefresher) Refresh(ctx context.Context) *entities.RateTable {
	r.calls.Add(1)
	r.ctxErrs = append(r.ctxErrs, ctx.Err())
	r.ticked <- struct{}{}
	return sampleTable()
}

func newManualScheduler(r *countingRefresher, enabled bool) (*Scheduler, *manualTicker, *time.Duration) {
	ticker := &manualTicker{ch: make(chan time.Time)}
	var got time.Duration
	s := NewScheduler(r, 600000*time.Millisecond, enabled, WithTickerFactory(func(d time.Duration) Ticker {
		got = d
		return ticker
	}))
	return s, ticker, &got
}

func waitTick(t *testing.T, r *countingRefresher) {
	t.Helper()
	select {
	case <-r.ticked:
	case <-time.After(time.Second):
		t.Fatal("refresh was not called")
	}
}

func TestScheduler_RefreshesImmediatelyThenOnEachTick(t *testing.T) {
	r := newCountingRefresher()
	s, ticker, interval := newManualScheduler(r, true)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	// t=0: refresco inmediato, antes de cualquier tick
	waitTick(t, r)
	assert.Equal(t, int32(1), r.calls.Load())
	assert.Equal(t, 10*time.Minute, *interval)

	ticker.ch <- time.Now()
	waitTick(t, r)
	ticker.ch <- time.Now()
	waitTick(t, r)

	assert.Equal(t, int32(3), r.calls.Load())
	assert.True(t, s.Running())
}

func TestScheduler_NoRefreshBetweenTicks(t *testing.T) {
	r := newCountingRefresher()
	s, _, _ := newManualScheduler(r, true)

	require.NoError(t, s.Start(context.Background()))
	waitTick(t, r)

	select {
	case <-r.ticked:
		t.Fatal("unexpected refresh without a tick")
	case <-time.After(50 * time.Millisecond):
	}
	s.Stop()
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestScheduler_Disabled(t *testing.T) {
	r := newCountingRefresher()
	s, _, _ := newManualScheduler(r, false)

	require.NoError(t, s.Start(context.Background()))

	assert.False(t, s.Running())
	assert.Equal(t, int32(0), r.calls.Load())
	s.Stop()
}

func TestScheduler_DoubleStart(t *testing.T) {
	r := newCountingRefresher()
	s, _, _ := newManualScheduler(r, true)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerRunning)
}

func TestScheduler_StopIsIdempotentAndStopsTicker(t *testing.T) {
	r := newCountingRefresher()
	s, ticker, _ := newManualScheduler(r, true)

	require.NoError(t, s.Start(context.Background()))
	s.Stop()
	s.Stop()

	assert.False(t, s.Running())
	assert.True(t, ticker.stopped.Load())

	// se puede volver a arrancar
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
	assert.Equal(t, int32(2), r.calls.Load())
}

func TestScheduler_ParentCancelEndsLoopButNotRefresh(t *testing.T) {
	r := newCountingRefresher()
	s, ticker, _ := newManualScheduler(r, true)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	waitTick(t, r)
	cancel()

	assert.Eventually(t, ticker.stopped.Load, time.Second, 10*time.Millisecond)
	s.Stop()
	assert.NoError(t, r.ctxErrs[0], "refresh context is detached from cancellation")
}

func TestScheduler_ParentCancelAllowsRestart(t *testing.T) {
	r := newCountingRefresher()
	s, _, _ := newManualScheduler(r, true)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	waitTick(t, r)
	cancel()

	assert.Eventually(t, func() bool { return !s.Running() }, time.Second, 10*time.Millisecond)
	require.NoError(t, s.Start(context.Background()))
	waitTick(t, r)
	assert.True(t, s.Running())
	s.Stop()
	assert.False(t, s.Running())
}

// blockingRefresher retiene el primer refresh hasta que se cierra release
type blockingRefresher struct {
	entered chan struct{}
	release chan struct{}
}

func (r *blockingRefresher) Refresh(ctx context.Context) *entities.RateTable {
	r.entered <- struct{}{}
	<-r.release
	return sampleTable()
}

func TestScheduler_SlowFirstRefreshDoesNotHoldLock(t *testing.T) {
	r := &blockingRefresher{entered: make(chan struct{}, 1), release: make(chan struct{})}
	s := NewScheduler(r, time.Minute, true, WithTickerFactory(func(time.Duration) Ticker {
		return &manualTicker{ch: make(chan time.Time)}
	}))

	started := make(chan error, 1)
	go func() { started <- s.Start(context.Background()) }()
	<-r.entered

	// con el refresh colgado, Running y un segundo Start responden sin bloquear
	answered := make(chan bool, 1)
	go func() { answered <- s.Running() }()
	select {
	case running := <-answered:
		assert.True(t, running)
	case <-time.After(time.Second):
		t.Fatal("Running blocked behind the first refresh")
	}
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerRunning)

	close(r.release)
	require.NoError(t, <-started)
	s.Stop()
}

func TestNewScheduler_DefaultInterval(t *testing.T) {
	s := NewScheduler(newCountingRefresher(), 0, true)
	assert.Equal(t, 10*time.Minute, s.interval)
}
