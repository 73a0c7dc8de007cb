// Package termui plays the game in a terminal through tcell.
package termui

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/bugsnake/constants"
	"github.com/lixenwraith/bugsnake/engine"
)

var (
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHead   = tcell.StyleDefault.Foreground(tcell.NewHexColor(constants.ColorSnakeHead))
	styleBody   = tcell.StyleDefault.Foreground(tcell.NewHexColor(constants.ColorSnakeBody))
	styleFood   = tcell.StyleDefault.Foreground(tcell.NewHexColor(constants.ColorFood))
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleBanner = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true).Reverse(true)
)

// GridFor returns the board that fits a terminal of the given size, capped at the desktop board
func GridFor(width, height int) engine.Grid {
	cols := (width - 2*constants.BorderSize) / constants.TerminalCellWidth
	rows := height - 2*constants.BorderSize - constants.StatusBarHeight
	return engine.Grid{
		Cols: max(1, min(cols, constants.CanvasWidth/constants.CellSize)),
		Rows: max(1, min(rows, constants.CanvasHeight/constants.CellSize)),
	}
}

// View draws game states on a tcell screen
// Implements engine.Renderer and engine.ScoreBoard
type View struct {
	screen tcell.Screen

	mu                  sync.Mutex
	state               engine.GameState
	hasState            bool
	score, length, best int
	paused              func() bool
	muted               func() bool
}

// NewView creates a view on an initialized screen
func NewView(screen tcell.Screen) *View {
	return &View{screen: screen}
}

// SetIndicators wires the pause and mute lookups shown in the status bar; either may be nil
func (v *View) SetIndicators(paused, muted func() bool) {
	v.mu.Lock()
	v.paused, v.muted = paused, muted
	v.mu.Unlock()
}

// Render implements engine.Renderer
func (v *View) Render(st engine.GameState) {
	v.mu.Lock()
	v.state, v.hasState = st, true
	v.mu.Unlock()
	v.Draw()
}

// ShowScore implements engine.ScoreBoard
func (v *View) ShowScore(score, length, best int) {
	v.mu.Lock()
	v.score, v.length, v.best = score, length, best
	v.mu.Unlock()
}

// Draw repaints the last rendered state
func (v *View) Draw() {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := v.screen
	s.Clear()
	if !v.hasState {
		s.Show()
		return
	}

	st := v.state
	w, h := st.Grid.Cols*constants.TerminalCellWidth, st.Grid.Rows
	v.drawBorder(w, h)

	for i, p := range st.Snake {
		style := styleBody
		if i == 0 {
			style = styleHead
		}
		v.fillCell(p, '█', style)
	}
	x, y := cellOrigin(st.Food)
	s.SetContent(x, y, st.Glyph, nil, styleFood)

	paused := v.paused != nil && v.paused()
	muted := v.muted != nil && v.muted()

	switch {
	case st.Run == engine.GameOver:
		v.drawBanner(w, h, constants.GameOverTitle, constants.GameOverHint)
	case paused:
		v.drawBanner(w, h, constants.PausedTitle, "press p to resume")
	case st.Direction == engine.DirNone && st.Pending == engine.DirNone:
		v.drawBanner(w, h, constants.IdleHint, "")
	}

	status := fmt.Sprintf(" Score: %d  Length: %d  Best: %d", v.score, v.length, v.best)
	if muted {
		status += "  [muted]"
	}
	status += "  r restart  p pause  m mute  q quit"
	drawText(s, 0, h+2*constants.BorderSize, status, styleStatus)

	s.Show()
}

func cellOrigin(p engine.Position) (int, int) {
	return constants.BorderSize + p.X*constants.TerminalCellWidth, constants.BorderSize + p.Y
}

func (v *View) fillCell(p engine.Position, r rune, style tcell.Style) {
	x, y := cellOrigin(p)
	for i := 0; i < constants.TerminalCellWidth; i++ {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (v *View) drawBorder(w, h int) {
	s := v.screen
	right, bottom := w+1, h+1
	for x := 1; x < right; x++ {
		s.SetContent(x, 0, '─', nil, styleBorder)
		s.SetContent(x, bottom, '─', nil, styleBorder)
	}
	for y := 1; y < bottom; y++ {
		s.SetContent(0, y, '│', nil, styleBorder)
		s.SetContent(right, y, '│', nil, styleBorder)
	}
	s.SetContent(0, 0, '┌', nil, styleBorder)
	s.SetContent(right, 0, '┐', nil, styleBorder)
	s.SetContent(0, bottom, '└', nil, styleBorder)
	s.SetContent(right, bottom, '┘', nil, styleBorder)
}

// drawBanner centers a title and optional hint over the board
func (v *View) drawBanner(w, h int, title, hint string) {
	mid := constants.BorderSize + h/2
	drawCentered(v.screen, w, mid, " "+title+" ", styleBanner)
	if hint != "" && mid+1 <= h {
		drawCentered(v.screen, w, mid+1, hint, styleStatus)
	}
}

func drawCentered(s tcell.Screen, w, y int, text string, style tcell.Style) {
	n := len([]rune(text))
	x := constants.BorderSize + max(0, (w-n)/2)
	drawText(s, x, y, text, style)
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
