package termui

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/bugsnake/core"
)

type fakeSound struct {
	mu     sync.Mutex
	muted  bool
	played []core.SoundType
}

func (f *fakeSound) Play(s core.SoundType) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.played = append(f.played, s)
	return !f.muted
}

func (f *fakeSound) ToggleMute() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.muted = !f.muted
	return !f.muted
}

func (f *fakeSound) IsMuted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.muted
}

func waitScreen(t *testing.T, screen tcell.Screen, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s; screen:\n%v", what, screenText(screen))
}

// TestRunPlaysAndQuits verifies keys drive the game from start to crash, restart and quit
func TestRunPlaysAndQuits(t *testing.T) {
	screen := newScreen(t, 80, 25)
	sound := &fakeSound{}

	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), screen, Options{
			Interval: 2 * time.Millisecond,
			Sound:    sound,
			Rand:     rand.New(rand.NewPCG(3, 4)),
		})
	}()

	waitScreen(t, screen, "idle hint", func() bool { return screenContains(screen, "WASD to start") })

	screen.InjectKey(tcell.KeyRune, 'w', tcell.ModNone)
	waitScreen(t, screen, "game over", func() bool { return screenContains(screen, "GAME OVER") })

	screen.InjectKey(tcell.KeyRune, 'm', tcell.ModNone)
	waitScreen(t, screen, "muted indicator", func() bool { return screenContains(screen, "[muted]") })

	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	waitScreen(t, screen, "restart", func() bool {
		return !screenContains(screen, "GAME OVER") && screenContains(screen, "WASD to start")
	})

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil error on quit, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Expected Run to return after q")
	}

	sound.mu.Lock()
	defer sound.mu.Unlock()
	if len(sound.played) == 0 || sound.played[len(sound.played)-1] != core.SoundGameOver {
		t.Errorf("Expected game over sound, got %v", sound.played)
	}
}

// TestRunStopsOnContext verifies cancellation ends the game loop
func TestRunStopsOnContext(t *testing.T) {
	screen := newScreen(t, 40, 15)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, screen, Options{Interval: time.Millisecond})
	}()

	waitScreen(t, screen, "first frame", func() bool { return screenContains(screen, "Score: 0") })
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil error on cancel, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Expected Run to return after cancel")
	}
}
