package session

import "github.com/lixenwraith/bugsnake/engine"

// Action is a player request decoded by a frontend from a key press
type Action uint8

const (
	ActionNone Action = iota
	ActionSteer
	ActionRestartIfOver // Space: only after game over
	ActionRestart       // r: any time
	ActionTogglePause
	ActionToggleMute // Handled by the frontend's sound output
	ActionQuit       // Handled by the frontend
)

var actionNames = [...]string{"none", "steer", "restart-if-over", "restart", "toggle-pause", "toggle-mute", "quit"}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Apply performs the session part of an action; dir is used only by ActionSteer
// Mute and quit have no session effect and return nil
func (s *Session) Apply(a Action, dir engine.Direction) error {
	switch a {
	case ActionSteer:
		return s.Steer(dir)
	case ActionRestartIfOver:
		if s.Latest().Run == engine.GameOver {
			return s.Restart()
		}
	case ActionRestart:
		return s.Restart()
	case ActionTogglePause:
		return s.TogglePause()
	}
	return nil
}
