package termui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/bugsnake/engine"
	"github.com/lixenwraith/bugsnake/session"
)

var runeDirections = map[rune]engine.Direction{
	'w': engine.DirUp, 'W': engine.DirUp,
	's': engine.DirDown, 'S': engine.DirDown,
	'a': engine.DirLeft, 'A': engine.DirLeft,
	'd': engine.DirRight, 'D': engine.DirRight,
}

var keyDirections = map[tcell.Key]engine.Direction{
	tcell.KeyUp:    engine.DirUp,
	tcell.KeyDown:  engine.DirDown,
	tcell.KeyLeft:  engine.DirLeft,
	tcell.KeyRight: engine.DirRight,
}

// KeyAction maps a key event; the direction is set only for session.ActionSteer
func KeyAction(ev *tcell.EventKey) (session.Action, engine.Direction) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return session.ActionQuit, engine.DirNone
	case tcell.KeyRune:
	default:
		if d, ok := keyDirections[ev.Key()]; ok {
			return session.ActionSteer, d
		}
		return session.ActionNone, engine.DirNone
	}

	r := ev.Rune()
	if d, ok := runeDirections[r]; ok {
		return session.ActionSteer, d
	}
	switch r {
	case ' ':
		return session.ActionRestartIfOver, engine.DirNone
	case 'r', 'R':
		return session.ActionRestart, engine.DirNone
	case 'p', 'P':
		return session.ActionTogglePause, engine.DirNone
	case 'm', 'M':
		return session.ActionToggleMute, engine.DirNone
	case 'q', 'Q':
		return session.ActionQuit, engine.DirNone
	}
	return session.ActionNone, engine.DirNone
}
