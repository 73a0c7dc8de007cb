package engine

import (
	"fmt"
	"math/rand/v2"

	"github.com/golang/glog"

	"github.com/lixenwraith/bugsnake/constants"
	"github.com/lixenwraith/bugsnake/core"
)

// Outcome describes what a single Tick did
type Outcome uint8

const (
	OutcomeIdle    Outcome = iota // Running but no direction yet
	OutcomeHalted                 // Game over, tick ignored
	OutcomeMoved                  // Simple move, length unchanged
	OutcomeAte                    // Food eaten, snake grew
	OutcomeCrashed                // Wall or self collision, game over
)

var outcomeNames = [...]string{"idle", "halted", "moved", "ate", "crashed"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("Outcome(%d)", o)
}

// Engine advances a GameState one tick at a time
// Not safe for concurrent use; drive it from a single goroutine (see session.Session)
type Engine struct {
	state *GameState
	hooks Hooks
	store ScoreStore
	rng   *rand.Rand

	// persist is false once the store failed; best score is then memory-only
	persist   bool
	boardFull bool
}

// New creates a game on grid with the best score loaded from store
// store and rng may be nil; a nil rng seeds a fresh PCG source
func New(grid Grid, store ScoreStore, hooks Hooks, rng *rand.Rand) *Engine {
	if grid.Cols < 1 || grid.Rows < 1 {
		panic(fmt.Sprintf("engine: grid must be at least 1x1, got %dx%d", grid.Cols, grid.Rows))
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	e := &Engine{
		state:   newGameState(grid),
		hooks:   hooks,
		store:   store,
		rng:     rng,
		persist: store != nil,
	}
	e.loadBest()

	e.state.Glyph = e.pickGlyph()
	if slot := grid.InitialFood(); !e.state.Occupies(slot) {
		e.state.Food = slot
	} else {
		e.placeFood()
	}

	e.updateDisplays()
	return e
}

// State returns a clone of the current game state
func (e *Engine) State() GameState {
	return e.state.Clone()
}

// Best returns the best score seen, including persisted history
func (e *Engine) Best() int {
	return e.state.Best
}

// Persistent reports whether the best score is still backed by the store
func (e *Engine) Persistent() bool {
	return e.persist
}

// BoardFull reports whether the last food placement found no free cell
func (e *Engine) BoardFull() bool {
	return e.boardFull
}

// Steer requests a heading for the next tick
// Rejected when the game is over, for DirNone, and for an exact reversal of the committed
// heading; the last accepted request before a tick wins
func (e *Engine) Steer(d Direction) bool {
	if !d.Valid() {
		panic(fmt.Sprintf("engine: invalid direction %d", d))
	}
	s := e.state
	if d == DirNone || s.Run == GameOver {
		return false
	}
	if d == s.Direction.Opposite() {
		return false
	}
	s.Pending = d
	return true
}

// Tick advances the game by one step
func (e *Engine) Tick() Outcome {
	s := e.state
	if s.Run == GameOver {
		return OutcomeHalted
	}

	if s.Pending != DirNone {
		s.Direction = s.Pending
		s.Pending = DirNone
	}
	if s.Direction == DirNone {
		e.render()
		return OutcomeIdle
	}

	head := s.Head().Add(s.Direction)

	if !s.Grid.Contains(head) || e.hitsBody(head) {
		e.gameOver(head)
		return OutcomeCrashed
	}

	s.Snake = append(s.Snake, Position{})
	copy(s.Snake[1:], s.Snake)
	s.Snake[0] = head

	outcome := OutcomeMoved
	if head == s.Food {
		s.Score += constants.FoodScore
		s.Glyph = e.pickGlyph()
		e.placeFood()
		e.updateDisplays()
		e.hooks.playSound(core.SoundEat)
		glog.V(2).Infof("ate at %v, score=%d length=%d next food=%v", head, s.Score, len(s.Snake), s.Food)
		// Out-of-band redraw so the new food shows immediately, then the regular tick frame
		e.render()
		outcome = OutcomeAte
	} else {
		s.Snake = s.Snake[:len(s.Snake)-1]
	}

	e.render()
	return outcome
}

// Restart resets snake, heading, score and food; the best score is kept
func (e *Engine) Restart() {
	s := e.state
	s.Snake = append(s.Snake[:0], s.Grid.Spawn())
	s.Direction = DirNone
	s.Pending = DirNone
	s.Score = 0
	s.Run = Running
	s.Glyph = e.pickGlyph()
	e.placeFood()
	e.updateDisplays()
	e.render()
}

// Redraw renders the current state without advancing it
func (e *Engine) Redraw() {
	e.render()
}

// hitsBody checks head against every segment except the tail, which is vacated this tick
func (e *Engine) hitsBody(head Position) bool {
	body := e.state.Snake
	n := len(body)
	if n > 1 {
		n--
	}
	for _, p := range body[:n] {
		if p == head {
			return true
		}
	}
	return false
}

func (e *Engine) gameOver(at Position) {
	s := e.state
	s.Run = GameOver
	e.updateBest()
	glog.V(2).Infof("game over moving %s into %v, score=%d best=%d", s.Direction, at, s.Score, s.Best)
	e.hooks.playSound(core.SoundGameOver)
	e.render()
}

func (e *Engine) placeFood() {
	food, full := placeFood(e.rng, e.state.Grid, e.state.Snake)
	if full && !e.boardFull {
		glog.Infof("board full at length %d, food placed on an occupied cell", len(e.state.Snake))
	}
	e.boardFull = full
	e.state.Food = food
}

func (e *Engine) pickGlyph() rune {
	return constants.BugGlyphs[e.rng.IntN(len(constants.BugGlyphs))]
}

// updateDisplays refreshes the score board, raising the best score first
func (e *Engine) updateDisplays() {
	e.updateBest()
	if e.hooks.ScoreBoard != nil {
		s := e.state
		e.hooks.ScoreBoard.ShowScore(s.Score, len(s.Snake), s.Best)
	}
}

func (e *Engine) updateBest() {
	s := e.state
	if s.Score <= s.Best {
		return
	}
	s.Best = s.Score
	e.saveBest()
}

func (e *Engine) loadBest() {
	if !e.persist {
		return
	}
	best, ok, err := e.store.Load()
	if err != nil {
		glog.Warningf("best score unavailable, keeping it in memory: %v", err)
		e.persist = false
		return
	}
	if ok && best > 0 {
		e.state.Best = best
	}
}

func (e *Engine) saveBest() {
	if !e.persist {
		return
	}
	if err := e.store.Save(e.state.Best); err != nil {
		glog.Warningf("saving best score failed, keeping it in memory: %v", err)
		e.persist = false
	}
}

func (e *Engine) render() {
	if e.hooks.Renderer != nil {
		e.hooks.Renderer.Render(e.state.Clone())
	}
}
