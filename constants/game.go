package constants

import "time"

// Game Loop Timing Constants
const (
	// TickInterval is the snake update interval (one grid step per tick)
	TickInterval = 150 * time.Millisecond
)

// Grid Constants
const (
	// CellSize is the pixel size of one grid cell on canvas frontends
	CellSize = 20

	// CanvasWidth and CanvasHeight are the desktop canvas dimensions in pixels
	CanvasWidth  = 600
	CanvasHeight = 400

	// MobileBreakpoint is the viewport width at or below which the mobile canvas is used
	MobileBreakpoint = 768

	// MobileMaxWidth caps the mobile canvas width in pixels
	MobileMaxWidth = 300

	// MobileAspect is the mobile canvas height to width ratio
	MobileAspect = 0.67

	// ContainerPadding is subtracted from the reported container width
	ContainerPadding = 20
)

// Scoring and Placement Constants
const (
	// FoodScore is the score awarded per bug eaten
	FoodScore = 10

	// MaxFoodAttempts caps random draws before falling back to a linear scan
	MaxFoodAttempts = 100

	// BestScoreKey is the storage key of the persisted best score
	BestScoreKey = "snakeBestScore"

	// MaxClientScores caps the persisted per-client best scores; later clients keep theirs in memory
	MaxClientScores = 1000
)

// BugGlyphs are the food glyphs, one is picked at random on every eat and restart
var BugGlyphs = []rune{'🐛', '🪲', '🐜', '🦗', '🪳', '🦟', '🐞'}
