package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/bugsnake/core"
)

// Scheduler is the fixed-interval tick source of a game
// Ticks are delivered on C(); a tick is dropped (not queued) when the consumer lags,
// and no ticks are delivered while paused
type Scheduler struct {
	tickInterval time.Duration

	ticks chan struct{}

	paused  atomic.Bool
	running atomic.Bool

	// Tick counters for debugging and metrics
	tickCount atomic.Uint64
	dropCount atomic.Uint64

	// Control channels
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler creates a stopped scheduler with the given tick interval
func NewScheduler(tickInterval time.Duration) *Scheduler {
	if tickInterval <= 0 {
		panic("engine: scheduler interval must be positive")
	}
	return &Scheduler{
		tickInterval: tickInterval,
		ticks:        make(chan struct{}, 1),
		stopChan:     make(chan struct{}),
	}
}

// C returns the tick channel
func (s *Scheduler) C() <-chan struct{} {
	return s.ticks
}

// Interval returns the configured tick interval
func (s *Scheduler) Interval() time.Duration {
	return s.tickInterval
}

// Start begins the scheduler loop
func (s *Scheduler) Start() {
	if s.running.CompareAndSwap(false, true) {
		s.wg.Add(1)
		core.Go(s.schedulerLoop)
	}
}

// Stop halts the scheduler loop, safe to call multiple times
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		if s.running.Load() {
			s.wg.Wait()
			s.running.Store(false)
		}
	})
}

// Pause suspends tick delivery
func (s *Scheduler) Pause() {
	s.paused.Store(true)
}

// Resume restarts tick delivery
func (s *Scheduler) Resume() {
	s.paused.Store(false)
}

// IsPaused returns current pause state
func (s *Scheduler) IsPaused() bool {
	return s.paused.Load()
}

// IsRunning reports whether the loop is active
func (s *Scheduler) IsRunning() bool {
	return s.running.Load()
}

// TickCount returns the number of delivered ticks
func (s *Scheduler) TickCount() uint64 {
	return s.tickCount.Load()
}

// DropCount returns the number of ticks dropped because the consumer lagged
func (s *Scheduler) DropCount() uint64 {
	return s.dropCount.Load()
}

func (s *Scheduler) schedulerLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
		}

		if s.paused.Load() {
			continue
		}

		select {
		case s.ticks <- struct{}{}:
			s.tickCount.Add(1)
		default:
			s.dropCount.Add(1)
		}
	}
}
