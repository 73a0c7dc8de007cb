package engine

import "fmt"

// Position is a cell on the grid, X is the column and Y is the row
type Position struct {
	X, Y int
}

// Add returns the neighbouring position one step in direction d
func (p Position) Add(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Direction is the snake heading; DirNone means not moving yet
type Direction uint8

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
	directionCount
)

var directionNames = [directionCount]string{
	DirNone:  "none",
	DirUp:    "up",
	DirDown:  "down",
	DirLeft:  "left",
	DirRight: "right",
}

// Valid reports whether d is one of the defined directions
func (d Direction) Valid() bool {
	return d < directionCount
}

// Delta returns the unit vector of the direction
// Panics on an undefined direction value
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirNone:
		return 0, 0
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	panic(fmt.Sprintf("engine: invalid direction %d", d))
}

// Opposite returns the reverse heading, DirNone maps to itself
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	}
	return DirNone
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", d)
	}
	return directionNames[d]
}

// ParseDirection converts a wire name ("up", "down", "left", "right") to a Direction
func ParseDirection(s string) (Direction, bool) {
	for d := DirUp; d < directionCount; d++ {
		if directionNames[d] == s {
			return d, true
		}
	}
	return DirNone, false
}

// Grid is the board size in cells
type Grid struct {
	Cols, Rows int
}

// NewGrid derives the board from a pixel canvas and a cell size
// Always at least 1x1
func NewGrid(pixelWidth, pixelHeight, cellSize int) Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return Grid{
		Cols: max(pixelWidth/cellSize, 1),
		Rows: max(pixelHeight/cellSize, 1),
	}
}

// Contains reports whether p lies inside [0, Cols) x [0, Rows)
func (g Grid) Contains(p Position) bool {
	return p.X >= 0 && p.X < g.Cols && p.Y >= 0 && p.Y < g.Rows
}

// Cells returns the total number of cells
func (g Grid) Cells() int {
	return g.Cols * g.Rows
}

// Spawn returns the starting cell of a fresh snake
func (g Grid) Spawn() Position {
	return Position{X: g.Cols / 3, Y: g.Rows / 2}
}

// InitialFood returns the first food slot of a session
func (g Grid) InitialFood() Position {
	return Position{X: g.Cols * 6 / 10, Y: g.Rows / 2}
}
