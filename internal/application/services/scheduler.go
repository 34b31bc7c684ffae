package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"fx-rates-service/internal/domain/interfaces"
	"fx-rates-service/internal/infrastructure/logging"
)

var ErrSchedulerRunning = errors.New("scheduler already running")

// Ticker is the slice of *time.Ticker the scheduler uses.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// TickerFactory crea el ticker del loop; se reemplaza en tests
type TickerFactory func(d time.Duration) Ticker

func defaultTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// SchedulerOption configura un Scheduler
type SchedulerOption func(*Scheduler)

// WithTickerFactory overrides how the periodic ticker is built.
func WithTickerFactory(f TickerFactory) SchedulerOption {
	return func(s *Scheduler) {
		s.newTicker = f
	}
}

// Scheduler llama a Refresh una vez al arrancar y luego en cada tick.
// enabled se evalúa una sola vez, en Start.
type Scheduler struct {
	refresher interfaces.Refresher
	interval  time.Duration
	enabled   bool
	newTicker TickerFactory

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewScheduler creates a scheduler. A non-positive interval falls back to ten minutes.
func NewScheduler(refresher interfaces.Refresher, interval time.Duration, enabled bool, opts ...SchedulerOption) *Scheduler {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	s := &Scheduler{
		refresher: refresher,
		interval:  interval,
		enabled:   enabled,
		newTicker: defaultTicker,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the first refresh immediately and returns; later refreshes happen
// in a background goroutine until Stop or ctx is cancelled. When disabled it
// does nothing.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrSchedulerRunning
	}
	if !s.enabled {
		s.mu.Unlock()
		logging.Info(ctx, "Rate refresh scheduler disabled", nil)
		return nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel, s.done, s.running = cancel, done, true
	s.mu.Unlock()

	logging.Info(ctx, "Starting rate refresh scheduler", logging.Fields{
		"interval": s.interval.String(),
	})

	// el primer refresh corre sin el lock; Stop espera a done igual
	s.runOnce(loopCtx)

	ticker := s.newTicker(s.interval)
	go s.loop(loopCtx, ticker, done)
	return nil
}

func (s *Scheduler) loop(ctx context.Context, ticker Ticker, done chan struct{}) {
	defer close(done)
	defer s.exited(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			s.runOnce(ctx)
		}
	}
}

// exited baja running si el loop terminó por cancelación del ctx padre;
// un Start posterior ya tiene otro done y no se toca.
func (s *Scheduler) exited(done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == done {
		s.running = false
	}
}

// runOnce no propaga la cancelación: un fetch en vuelo termina y persiste
func (s *Scheduler) runOnce(ctx context.Context) {
	ctx = logging.EnsureRequestID(context.WithoutCancel(ctx))
	if table := s.refresher.Refresh(ctx); table == nil {
		logging.Warn(ctx, "Scheduled refresh produced no usable rates", nil)
	}
}

// Stop cancels the loop and waits for it to exit. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel, done := s.cancel, s.done
	s.running = false
	s.mu.Unlock()

	cancel()
	<-done
	logging.Info(context.Background(), "Rate refresh scheduler stopped", nil)
}

// Running reports whether the background loop is active
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
