package window

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lixenwraith/bugsnake/engine"
	"github.com/lixenwraith/bugsnake/session"
)

type binding struct {
	key    ebiten.Key
	action session.Action
	dir    engine.Direction
}

var bindings = []binding{
	{ebiten.KeyW, session.ActionSteer, engine.DirUp},
	{ebiten.KeyArrowUp, session.ActionSteer, engine.DirUp},
	{ebiten.KeyS, session.ActionSteer, engine.DirDown},
	{ebiten.KeyArrowDown, session.ActionSteer, engine.DirDown},
	{ebiten.KeyA, session.ActionSteer, engine.DirLeft},
	{ebiten.KeyArrowLeft, session.ActionSteer, engine.DirLeft},
	{ebiten.KeyD, session.ActionSteer, engine.DirRight},
	{ebiten.KeyArrowRight, session.ActionSteer, engine.DirRight},
	{ebiten.KeySpace, session.ActionRestartIfOver, engine.DirNone},
	{ebiten.KeyR, session.ActionRestart, engine.DirNone},
	{ebiten.KeyP, session.ActionTogglePause, engine.DirNone},
	{ebiten.KeyM, session.ActionToggleMute, engine.DirNone},
	{ebiten.KeyQ, session.ActionQuit, engine.DirNone},
	{ebiten.KeyEscape, session.ActionQuit, engine.DirNone},
}

// KeyPress is one triggered binding
type KeyPress struct {
	Action session.Action
	Dir    engine.Direction
}

// pollKeys returns the bindings whose key was just pressed, in binding order
func pollKeys(justPressed func(ebiten.Key) bool) []KeyPress {
	var out []KeyPress
	for _, b := range bindings {
		if justPressed(b.key) {
			out = append(out, KeyPress{Action: b.action, Dir: b.dir})
		}
	}
	return out
}
