package engine

import (
	"errors"
	"math/rand/v2"

	"github.com/lixenwraith/bugsnake/core"
)

var errMockStore = errors.New("mock store failure")

// MockScoreStore records saves and can be told to fail
type MockScoreStore struct {
	value    int
	present  bool
	loadErr  error
	saveErr  error
	saves    []int
	loadCall int
}

func (m *MockScoreStore) Load() (int, bool, error) {
	m.loadCall++
	if m.loadErr != nil {
		return 0, false, m.loadErr
	}
	return m.value, m.present, nil
}

func (m *MockScoreStore) Save(best int) error {
	m.saves = append(m.saves, best)
	if m.saveErr != nil {
		return m.saveErr
	}
	m.value = best
	m.present = true
	return nil
}

// MockSoundPlayer records played sounds
type MockSoundPlayer struct {
	played []core.SoundType
	panics bool
}

func (m *MockSoundPlayer) Play(st core.SoundType) bool {
	m.played = append(m.played, st)
	if m.panics {
		panic("audio backend exploded")
	}
	return true
}

// MockRenderer keeps every rendered frame
type MockRenderer struct {
	frames []GameState
}

func (m *MockRenderer) Render(state GameState) {
	m.frames = append(m.frames, state)
}

func (m *MockRenderer) last() GameState {
	return m.frames[len(m.frames)-1]
}

// testRand returns a deterministic source so placement is reproducible
func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// newTestEngine creates a 10x10 engine with mock hooks
func newTestEngine(store ScoreStore) (*Engine, *MockRenderer, *MockSoundPlayer) {
	r := &MockRenderer{}
	snd := &MockSoundPlayer{}
	e := New(Grid{Cols: 10, Rows: 10}, store, Hooks{Renderer: r, Sound: snd}, testRand())
	return e, r, snd
}

// setSnake places the snake and heading directly, moving food out of the way
func setSnake(e *Engine, dir Direction, body ...Position) {
	e.state.Snake = append([]Position(nil), body...)
	e.state.Direction = dir
	e.state.Pending = DirNone
	e.state.Food = Position{X: e.state.Grid.Cols - 1, Y: e.state.Grid.Rows - 1}
}
