package constants

// Terminal Layout Constants
const (
	// TerminalCellWidth is the number of terminal columns per grid cell
	// Keeps cells roughly square and fits double-width bug glyphs
	TerminalCellWidth = 2

	// StatusBarHeight is the number of rows reserved below the board
	StatusBarHeight = 1

	// BorderSize is the frame thickness around the board
	BorderSize = 1
)

// Overlay text
const (
	GameOverTitle = "GAME OVER"
	GameOverHint  = "press Space to restart"
	PausedTitle   = "PAUSED"
	IdleHint      = "WASD to start"
)

// Canvas colors shared by the window frontend and the embedded site
const (
	ColorBackground = 0x0d1117
	ColorSnakeHead  = 0x3a7bd5
	ColorSnakeBody  = 0x2d5fa3
	ColorFood       = 0xe5534b
)
