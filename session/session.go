// Package session drives one game engine from a single goroutine, interleaving queued input
// commands with scheduler ticks.
package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/lixenwraith/bugsnake/constants"
	"github.com/lixenwraith/bugsnake/engine"
)

var (
	ErrClosed  = errors.New("session closed")
	ErrRunning = errors.New("session already running")
)

// commandQueueSize bounds buffered input between ticks
const commandQueueSize = 16

// Config configures a Session
type Config struct {
	Grid     engine.Grid
	Interval time.Duration // Zero uses constants.TickInterval
	Store    engine.ScoreStore
	Hooks    engine.Hooks
	Rand     *rand.Rand
}

type commandKind uint8

const (
	cmdSteer commandKind = iota
	cmdRestart
	cmdPause
	cmdResume
	cmdTogglePause
	cmdRedraw
)

type command struct {
	kind commandKind
	dir  engine.Direction
}

// Session owns an engine and its scheduler
type Session struct {
	eng       *engine.Engine
	scheduler *engine.Scheduler

	commands chan command
	done     chan struct{}
	started  atomic.Bool

	mu     sync.Mutex
	latest engine.GameState

	lastOutcome atomic.Uint32
}

// snapshotRenderer records each frame before forwarding it
type snapshotRenderer struct {
	s    *Session
	next engine.Renderer
}

func (r snapshotRenderer) Render(st engine.GameState) {
	r.s.mu.Lock()
	r.s.latest = st
	r.s.mu.Unlock()
	if r.next != nil {
		r.next.Render(st)
	}
}

// New creates a session; the engine is built immediately so the first frame is available
// through Latest before Run is called
func New(cfg Config) *Session {
	interval := cfg.Interval
	if interval <= 0 {
		interval = constants.TickInterval
	}

	s := &Session{
		scheduler: engine.NewScheduler(interval),
		commands:  make(chan command, commandQueueSize),
		done:      make(chan struct{}),
	}

	hooks := cfg.Hooks
	hooks.Renderer = snapshotRenderer{s: s, next: cfg.Hooks.Renderer}
	s.eng = engine.New(cfg.Grid, cfg.Store, hooks, cfg.Rand)
	s.latest = s.eng.State()
	return s
}

// Run processes commands and ticks until ctx is cancelled
// Only one Run may be active per session
func (s *Session) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer close(s.done)

	s.scheduler.Start()
	defer s.scheduler.Stop()

	s.eng.Redraw()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-s.commands:
			s.apply(cmd)
		case <-s.scheduler.C():
			outcome := s.eng.Tick()
			s.lastOutcome.Store(uint32(outcome))
			if outcome == engine.OutcomeCrashed {
				st := s.Latest()
				glog.V(1).Infof("session game over: score=%d best=%d ticks=%d", st.Score, st.Best, s.scheduler.TickCount())
			}
		}
	}
}

func (s *Session) apply(cmd command) {
	switch cmd.kind {
	case cmdSteer:
		s.eng.Steer(cmd.dir)
	case cmdRestart:
		s.eng.Restart()
	case cmdPause:
		s.scheduler.Pause()
	case cmdResume:
		s.scheduler.Resume()
	case cmdTogglePause:
		if s.scheduler.IsPaused() {
			s.scheduler.Resume()
		} else {
			s.scheduler.Pause()
		}
		s.eng.Redraw()
	case cmdRedraw:
		s.eng.Redraw()
	}
}

// send queues a command; it blocks while the queue is full and fails once Run has returned
func (s *Session) send(cmd command) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.commands <- cmd:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// Steer queues a direction request; DirNone is ignored
func (s *Session) Steer(d engine.Direction) error {
	if d == engine.DirNone || !d.Valid() {
		return nil
	}
	return s.send(command{kind: cmdSteer, dir: d})
}

// Restart queues a restart
func (s *Session) Restart() error {
	return s.send(command{kind: cmdRestart})
}

// Pause stops tick delivery
func (s *Session) Pause() error {
	return s.send(command{kind: cmdPause})
}

// Resume restarts tick delivery
func (s *Session) Resume() error {
	return s.send(command{kind: cmdResume})
}

// TogglePause flips the pause state and redraws
func (s *Session) TogglePause() error {
	return s.send(command{kind: cmdTogglePause})
}

// Redraw queues a render of the current state
func (s *Session) Redraw() error {
	return s.send(command{kind: cmdRedraw})
}

// Paused reports whether ticks are suspended
func (s *Session) Paused() bool {
	return s.scheduler.IsPaused()
}

// Latest returns the most recently rendered state
func (s *Session) Latest() engine.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// LastOutcome returns the outcome of the most recent tick
func (s *Session) LastOutcome() engine.Outcome {
	return engine.Outcome(s.lastOutcome.Load())
}

// Ticks returns the number of ticks delivered so far
func (s *Session) Ticks() uint64 {
	return s.scheduler.TickCount()
}

// Done is closed when Run returns
func (s *Session) Done() <-chan struct{} {
	return s.done
}
