package web

import (
	"github.com/lixenwraith/bugsnake/engine"
)

// Server to client message types
const (
	msgHello = "hello"
	msgFrame = "frame"
	msgSound = "sound"
	msgError = "error"
)

// Client to server message types
const (
	msgSteer   = "steer"
	msgRestart = "restart"
	msgPause   = "pause"
	msgResume  = "resume"
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// serverMessage is the envelope of every message sent to the browser
type serverMessage struct {
	Type string `json:"type"`

	// hello
	Session  string `json:"session,omitempty"`
	Client   string `json:"client,omitempty"`
	Cols     int    `json:"cols,omitempty"`
	Rows     int    `json:"rows,omitempty"`
	CellSize int    `json:"cellSize,omitempty"`

	// frame
	Frame *frame `json:"frame,omitempty"`

	// sound
	Sound string `json:"sound,omitempty"`

	// error
	Error string `json:"error,omitempty"`
}

type frame struct {
	Snake   []point `json:"snake"`
	Food    point   `json:"food"`
	Glyph   string  `json:"glyph"`
	Score   int     `json:"score"`
	Length  int     `json:"length"`
	Best    int     `json:"best"`
	Running bool    `json:"running"`
	Paused  bool    `json:"paused"`
}

// clientMessage is a browser command
type clientMessage struct {
	Type string `json:"type"`
	Dir  string `json:"dir,omitempty"`
}

func newFrame(st engine.GameState, paused bool) *frame {
	snake := make([]point, len(st.Snake))
	for i, p := range st.Snake {
		snake[i] = point{X: p.X, Y: p.Y}
	}
	return &frame{
		Snake:   snake,
		Food:    point{X: st.Food.X, Y: st.Food.Y},
		Glyph:   string(st.Glyph),
		Score:   st.Score,
		Length:  len(st.Snake),
		Best:    st.Best,
		Running: st.IsRunning(),
		Paused:  paused,
	}
}
