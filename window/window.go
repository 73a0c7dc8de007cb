// Package window plays the game in a desktop window through ebiten.
package window

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lixenwraith/bugsnake/constants"
	"github.com/lixenwraith/bugsnake/core"
	"github.com/lixenwraith/bugsnake/engine"
	"github.com/lixenwraith/bugsnake/session"
)

const (
	// statusHeight is the strip below the board for score text
	statusHeight = 20
	// debugCharWidth is the advance of the ebitenutil debug font
	debugCharWidth = 6
	windowTitle    = "bugsnake"
)

var (
	colorBackground = core.HexRGB(constants.ColorBackground)
	colorHead       = core.HexRGB(constants.ColorSnakeHead)
	colorBody       = core.HexRGB(constants.ColorSnakeBody)
	colorFood       = core.HexRGB(constants.ColorFood)
	colorGrid       = colorBackground.Blend(core.RGBWhite, 0.04)
)

// Sound is the audio surface the window needs; ToggleMute reports whether sound is now on
type Sound interface {
	engine.SoundPlayer
	ToggleMute() bool
	IsMuted() bool
}

// Options configures a window game
type Options struct {
	CellSize int
	Width    int // Board width in pixels
	Height   int // Board height in pixels
	Interval time.Duration
	Scale    int // Window scale factor, at least 1
	Store    engine.ScoreStore
	Sound    Sound // Optional
	Rand     *rand.Rand
}

// Game implements ebiten.Game over a session
// Update and Draw run on the ebiten goroutine; the session ticks on its own
type Game struct {
	sess     *session.Session
	sound    Sound
	grid     engine.Grid
	cellSize int

	ctx  context.Context
	quit bool

	justPressed func(ebiten.Key) bool
}

// NewGame builds the session for a board of opts.Width x opts.Height pixels
func NewGame(ctx context.Context, opts Options) *Game {
	cell := max(1, opts.CellSize)
	grid := engine.NewGrid(opts.Width, opts.Height, cell)

	hooks := engine.Hooks{}
	if opts.Sound != nil {
		hooks.Sound = opts.Sound
	}
	return &Game{
		sess: session.New(session.Config{
			Grid:     grid,
			Interval: opts.Interval,
			Store:    opts.Store,
			Hooks:    hooks,
			Rand:     opts.Rand,
		}),
		sound:       opts.Sound,
		grid:        grid,
		cellSize:    cell,
		ctx:         ctx,
		justPressed: inpututil.IsKeyJustPressed,
	}
}

// Session returns the game session
func (g *Game) Session() *session.Session {
	return g.sess
}

// Update applies key presses; ebiten calls it at its fixed TPS
func (g *Game) Update() error {
	if g.quit || g.ctx.Err() != nil {
		return ebiten.Termination
	}
	for _, kp := range pollKeys(g.justPressed) {
		g.apply(kp)
	}
	if g.quit {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) apply(kp KeyPress) {
	var err error
	switch kp.Action {
	case session.ActionQuit:
		g.quit = true
	case session.ActionToggleMute:
		if g.sound != nil {
			glog.V(1).Infof("sound enabled: %v", g.sound.ToggleMute())
		}
	default:
		err = g.sess.Apply(kp.Action, kp.Dir)
	}
	if errors.Is(err, session.ErrClosed) {
		g.quit = true
	}
}

// Draw paints the latest snapshot
func (g *Game) Draw(screen *ebiten.Image) {
	st := g.sess.Latest()
	paused := g.sess.Paused()

	dim := 1.0
	if paused || st.Run == engine.GameOver {
		dim = 0.5
	}

	screen.Fill(colorBackground.RGBA())
	bw, bh := g.boardSize()
	vector.StrokeRect(screen, 0.5, 0.5, float32(bw)-1, float32(bh)-1, 1, colorGrid.RGBA(), false)

	// Food
	cx, cy := g.cellCenter(st.Food)
	vector.DrawFilledCircle(screen, cx, cy, float32(g.cellSize)*0.4, colorFood.Scale(dim).RGBA(), true)

	// Snake, tail first so the head stays on top
	for i := len(st.Snake) - 1; i >= 0; i-- {
		x, y, size := g.cellRect(st.Snake[i])
		c := segmentColor(i, len(st.Snake)).Scale(dim)
		vector.DrawFilledRect(screen, x, y, size, size, c.RGBA(), false)
	}

	switch {
	case st.Run == engine.GameOver:
		g.drawBanner(screen, constants.GameOverTitle, constants.GameOverHint)
	case paused:
		g.drawBanner(screen, constants.PausedTitle, "")
	case st.Direction == engine.DirNone && st.Pending == engine.DirNone:
		g.drawBanner(screen, constants.IdleHint, "")
	}

	ebitenutil.DebugPrintAt(screen, g.statusLine(st), 4, bh+2)
}

// Layout keeps the logical screen at board size plus the status strip
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.boardSize()
	return w, h + statusHeight
}

func (g *Game) boardSize() (int, int) {
	return g.grid.Cols * g.cellSize, g.grid.Rows * g.cellSize
}

// cellRect returns the inset square of a cell
func (g *Game) cellRect(p engine.Position) (x, y, size float32) {
	cs := float32(g.cellSize)
	inset := float32(1)
	if g.cellSize < 4 {
		inset = 0
	}
	return float32(p.X)*cs + inset, float32(p.Y)*cs + inset, cs - 2*inset
}

func (g *Game) cellCenter(p engine.Position) (float32, float32) {
	cs := float32(g.cellSize)
	return float32(p.X)*cs + cs/2, float32(p.Y)*cs + cs/2
}

func (g *Game) drawBanner(screen *ebiten.Image, title, hint string) {
	bw, bh := g.boardSize()
	y := bh/2 - 8
	drawCentered(screen, title, bw, y)
	if hint != "" {
		drawCentered(screen, hint, bw, y+16)
	}
}

func (g *Game) statusLine(st engine.GameState) string {
	line := fmt.Sprintf("Score: %d  Length: %d  Best: %d", st.Score, st.Length(), st.Best)
	if g.sound != nil && g.sound.IsMuted() {
		line += "  [muted]"
	}
	return line
}

func drawCentered(screen *ebiten.Image, text string, width, y int) {
	ebitenutil.DebugPrintAt(screen, text, (width-len(text)*debugCharWidth)/2, y)
}

// segmentColor fades from the head color to the body color along the snake
func segmentColor(i, n int) core.RGB {
	if i == 0 {
		return colorHead
	}
	if n <= 2 {
		return colorBody
	}
	return colorHead.Blend(colorBody, float64(i)/float64(n-1))
}

// Run opens the window and plays until it is closed, quit or ctx ends
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	g := NewGame(ctx, opts)
	defer func() {
		cancel()
		<-g.sess.Done()
	}()

	core.Go(func() {
		if err := g.sess.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			glog.Errorf("window session: %v", err)
		}
	})

	w, h := g.Layout(0, 0)
	scale := max(1, opts.Scale)
	ebiten.SetWindowSize(w*scale, h*scale)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	glog.Infof("window game on %dx%d board", g.grid.Cols, g.grid.Rows)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}
