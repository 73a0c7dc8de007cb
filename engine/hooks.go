package engine

import (
	"github.com/golang/glog"

	"github.com/lixenwraith/bugsnake/core"
)

// Renderer paints a game state; must not retain or mutate the snake slice owner
type Renderer interface {
	Render(state GameState)
}

// ScoreBoard displays the score, snake length and best score
type ScoreBoard interface {
	ShowScore(score, length, best int)
}

// SoundPlayer triggers fire-and-forget sound effects
// Returns false when the sound was not played (muted, no backend)
type SoundPlayer interface {
	Play(core.SoundType) bool
}

// ScoreStore persists the best score
// Load reports ok=false when no value was ever saved
type ScoreStore interface {
	Load() (best int, ok bool, err error)
	Save(best int) error
}

// Hooks are the optional side channels of an Engine; nil members are skipped
type Hooks struct {
	Renderer   Renderer
	ScoreBoard ScoreBoard
	Sound      SoundPlayer
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(GameState)

func (f RendererFunc) Render(state GameState) { f(state) }

// ScoreBoardFunc adapts a function to ScoreBoard
type ScoreBoardFunc func(score, length, best int)

func (f ScoreBoardFunc) ShowScore(score, length, best int) { f(score, length, best) }

// playSound triggers a sound, isolating the game from any failure of the audio side channel
func (h *Hooks) playSound(st core.SoundType) {
	if h.Sound == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			glog.Warningf("sound %s failed: %v", st, r)
		}
	}()
	h.Sound.Play(st)
}
