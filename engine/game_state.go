package engine

import "slices"

// RunState is the lifecycle phase of a game
type RunState uint8

const (
	Running RunState = iota
	GameOver
)

func (r RunState) String() string {
	if r == GameOver {
		return "gameover"
	}
	return "running"
}

// GameState is the complete state of one snake game
// Owned by a single Engine; renderers receive clones
type GameState struct {
	Grid Grid

	// Snake body, head first
	Snake []Position

	// Direction is the heading committed on the last tick
	Direction Direction
	// Pending is the requested heading, committed at the start of the next tick
	Pending Direction

	Food  Position
	Glyph rune

	Score int
	Best  int
	Run   RunState
}

// newGameState creates a length-1 snake at the grid spawn cell
func newGameState(grid Grid) *GameState {
	return &GameState{
		Grid:  grid,
		Snake: []Position{grid.Spawn()},
		Run:   Running,
	}
}

// Head returns the first segment
func (s GameState) Head() Position {
	return s.Snake[0]
}

// Length returns the number of segments
func (s GameState) Length() int {
	return len(s.Snake)
}

// Occupies reports whether any segment is on p
func (s GameState) Occupies(p Position) bool {
	return slices.Contains(s.Snake, p)
}

// IsRunning reports whether ticks still advance the game
func (s GameState) IsRunning() bool {
	return s.Run == Running
}

// Clone returns a deep copy safe to hand to other goroutines
func (s GameState) Clone() GameState {
	s.Snake = slices.Clone(s.Snake)
	return s
}
