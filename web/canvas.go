package web

import (
	"github.com/lixenwraith/bugsnake/config"
	"github.com/lixenwraith/bugsnake/constants"
)

// CanvasSize returns the board size in pixels for a client
// containerW is the width available to the game area, viewportW the window width;
// zero or negative values select the desktop canvas
func CanvasSize(g config.GameConfig, containerW, viewportW int) (width, height int) {
	if viewportW <= 0 {
		viewportW = containerW
	}
	if viewportW <= 0 || viewportW > g.MobileBreakpoint {
		return g.CanvasWidth, g.CanvasHeight
	}

	available := containerW - constants.ContainerPadding
	if containerW <= 0 {
		available = g.CanvasWidth
	}
	mobile := min(available, g.MobileMaxWidth)

	cell := g.CellSize
	width = mobile / cell * cell
	height = int(float64(mobile)*constants.MobileAspect) / cell * cell
	return max(width, cell), max(height, cell)
}
