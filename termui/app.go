package termui

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/golang/glog"

	"github.com/lixenwraith/bugsnake/core"
	"github.com/lixenwraith/bugsnake/engine"
	"github.com/lixenwraith/bugsnake/session"
)

// Sound is the audio surface the terminal needs; ToggleMute reports whether sound is now on
type Sound interface {
	engine.SoundPlayer
	ToggleMute() bool
	IsMuted() bool
}

// Options configures a terminal game
type Options struct {
	Interval time.Duration
	Store    engine.ScoreStore
	Sound    Sound // Optional
	Rand     *rand.Rand
}

// Run plays on an initialized screen until quit or ctx ends; the caller owns Fini
func Run(ctx context.Context, screen tcell.Screen, opts Options) error {
	w, h := screen.Size()
	grid := GridFor(w, h)

	view := NewView(screen)
	hooks := engine.Hooks{Renderer: view, ScoreBoard: view}
	var muted func() bool
	if opts.Sound != nil {
		hooks.Sound = opts.Sound
		muted = opts.Sound.IsMuted
	}

	sess := session.New(session.Config{
		Grid:     grid,
		Interval: opts.Interval,
		Store:    opts.Store,
		Hooks:    hooks,
		Rand:     opts.Rand,
	})
	view.SetIndicators(sess.Paused, muted)
	glog.Infof("terminal game on %dx%d board (screen %dx%d)", grid.Cols, grid.Rows, w, h)

	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		<-sess.Done()
	}()

	core.Go(func() {
		if err := sess.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			glog.Errorf("terminal session: %v", err)
		}
	})

	events := make(chan tcell.Event, 16)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	})

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if quit := handleKey(ev, sess, opts.Sound); quit {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
				view.Draw()
			}
		}
	}
}

// handleKey applies one key press; it reports whether the game should quit
func handleKey(ev *tcell.EventKey, sess *session.Session, sound Sound) bool {
	action, dir := KeyAction(ev)
	var err error
	switch action {
	case session.ActionQuit:
		return true
	case session.ActionToggleMute:
		if sound != nil {
			on := sound.ToggleMute()
			glog.V(1).Infof("sound enabled: %v", on)
			err = sess.Redraw()
		}
	default:
		err = sess.Apply(action, dir)
	}
	return errors.Is(err, session.ErrClosed)
}
