package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/bugsnake/core"
	"github.com/lixenwraith/bugsnake/engine"
)

type memStore struct {
	mu   sync.Mutex
	best int
	set  bool
}

func (m *memStore) Load() (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.best, m.set, nil
}

func (m *memStore) Save(v int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.best, m.set = v, true
	return nil
}

type countingRenderer struct {
	mu     sync.Mutex
	frames int
}

func (c *countingRenderer) Render(engine.GameState) {
	c.mu.Lock()
	c.frames++
	c.mu.Unlock()
}

func (c *countingRenderer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

type soundLog struct {
	mu     sync.Mutex
	played []core.SoundType
}

func (l *soundLog) Play(s core.SoundType) bool {
	l.mu.Lock()
	l.played = append(l.played, s)
	l.mu.Unlock()
	return true
}

func (l *soundLog) has(s core.SoundType) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.played {
		if p == s {
			return true
		}
	}
	return false
}

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}

func startSession(t *testing.T, cfg Config) (*Session, context.CancelFunc) {
	t.Helper()
	if cfg.Interval == 0 {
		cfg.Interval = 2 * time.Millisecond
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(7, 9))
	}
	s := New(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-errCh; !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled from Run, got %v", err)
		}
	})
	return s, cancel
}

// TestSessionIdleUntilSteered verifies ticks run but the snake stays put without input
func TestSessionIdleUntilSteered(t *testing.T) {
	r := &countingRenderer{}
	s, _ := startSession(t, Config{
		Grid:  engine.Grid{Cols: 30, Rows: 20},
		Hooks: engine.Hooks{Renderer: r},
	})

	waitFor(t, "idle ticks", func() bool { return s.Ticks() >= 3 })

	st := s.Latest()
	if st.Head() != (engine.Position{X: 10, Y: 10}) {
		t.Errorf("Expected head at spawn (10,10), got %v", st.Head())
	}
	if st.Direction != engine.DirNone {
		t.Errorf("Expected no direction, got %s", st.Direction)
	}
	if r.count() == 0 {
		t.Error("Expected frames forwarded to renderer")
	}
}

// TestSessionSteerToWallEndsGame verifies queued input reaches the engine and a crash is reported
func TestSessionSteerToWallEndsGame(t *testing.T) {
	sounds := &soundLog{}
	s, _ := startSession(t, Config{
		Grid:  engine.Grid{Cols: 6, Rows: 4},
		Hooks: engine.Hooks{Sound: sounds},
	})

	if err := s.Steer(engine.DirUp); err != nil {
		t.Fatalf("Steer failed: %v", err)
	}

	waitFor(t, "game over", func() bool { return s.Latest().Run == engine.GameOver })

	if !sounds.has(core.SoundGameOver) {
		t.Error("Expected game over sound")
	}
	if s.LastOutcome() != engine.OutcomeHalted && s.LastOutcome() != engine.OutcomeCrashed {
		t.Errorf("Expected crashed or halted outcome, got %s", s.LastOutcome())
	}

	if err := s.Restart(); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	waitFor(t, "restart", func() bool { return s.Latest().Run == engine.Running })
	if got := s.Latest().Length(); got != 1 {
		t.Errorf("Expected length 1 after restart, got %d", got)
	}
}

// TestSessionPauseResume verifies pausing suspends ticks
func TestSessionPauseResume(t *testing.T) {
	s, _ := startSession(t, Config{Grid: engine.Grid{Cols: 10, Rows: 10}})

	if err := s.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	waitFor(t, "pause", s.Paused)

	// Allow one in-flight tick to drain
	time.Sleep(10 * time.Millisecond)
	before := s.Ticks()
	time.Sleep(20 * time.Millisecond)
	if after := s.Ticks(); after > before+1 {
		t.Errorf("Expected ticks to stop while paused, went from %d to %d", before, after)
	}

	if err := s.TogglePause(); err != nil {
		t.Fatalf("TogglePause failed: %v", err)
	}
	waitFor(t, "resume", func() bool { return !s.Paused() })
	waitFor(t, "ticks after resume", func() bool { return s.Ticks() > before+2 })
}

// TestSessionBestScoreLoaded verifies the store seeds the best score before Run
func TestSessionBestScoreLoaded(t *testing.T) {
	store := &memStore{best: 70, set: true}
	s := New(Config{Grid: engine.Grid{Cols: 10, Rows: 10}, Store: store})
	if got := s.Latest().Best; got != 70 {
		t.Errorf("Expected best 70, got %d", got)
	}
}

// TestSessionCommandsAfterClose verifies commands fail once Run returned
func TestSessionCommandsAfterClose(t *testing.T) {
	s := New(Config{Grid: engine.Grid{Cols: 10, Rows: 10}, Interval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	if err := s.Steer(engine.DirLeft); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
	if err := s.Run(context.Background()); !errors.Is(err, ErrRunning) {
		t.Errorf("Expected ErrRunning on second Run, got %v", err)
	}
	select {
	case <-s.Done():
	default:
		t.Error("Expected Done closed")
	}
}
