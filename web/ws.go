package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lixenwraith/bugsnake/core"
	"github.com/lixenwraith/bugsnake/engine"
	"github.com/lixenwraith/bugsnake/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512
	outboxSize     = 64
)

// snakeConn bridges one websocket to one game session
// The session goroutine produces messages, a single writer goroutine owns the connection writes
type snakeConn struct {
	conn    *websocket.Conn
	sess    *session.Session
	out     chan serverMessage
	id      string
	client  string
	dropped atomic.Uint64
}

// Render implements engine.Renderer
func (c *snakeConn) Render(st engine.GameState) {
	c.send(serverMessage{Type: msgFrame, Frame: newFrame(st, c.sess.Paused())})
}

// Play implements engine.SoundPlayer; the browser synthesizes the sound
func (c *snakeConn) Play(st core.SoundType) bool {
	return c.send(serverMessage{Type: msgSound, Sound: st.String()})
}

// send queues m without blocking; a full outbox drops the message
func (c *snakeConn) send(m serverMessage) bool {
	select {
	case c.out <- m:
		return true
	default:
		if n := c.dropped.Add(1); n == 1 || n%100 == 0 {
			glog.V(1).Infof("snake session %s: client too slow, %d messages dropped", c.id, n)
		}
		return false
	}
}

// clientID keeps a valid client uuid in canonical form, or issues a new one
func clientID(raw string) string {
	if id, err := uuid.Parse(raw); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}

// handleSnake upgrades to a websocket and runs a game for its lifetime
func (s *Server) handleSnake(w http.ResponseWriter, r *http.Request) {
	client := clientID(r.URL.Query().Get("client"))
	width, height := CanvasSize(s.cfg.Game, queryInt(r, "w"), queryInt(r, "vw"))

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		glog.Warningf("websocket upgrade from %s: %v", r.RemoteAddr, err)
		return
	}

	s.sessions.Add(1)
	defer s.sessions.Done()
	s.active.Add(1)
	defer s.active.Add(-1)

	grid := engine.NewGrid(width, height, s.cfg.Game.CellSize)
	c := &snakeConn{
		conn:   conn,
		out:    make(chan serverMessage, outboxSize),
		id:     uuid.NewString(),
		client: client,
	}
	c.sess = session.New(session.Config{
		Grid:     grid,
		Interval: s.cfg.Game.TickInterval.Duration,
		Store:    s.scores(client),
		Hooks:    engine.Hooks{Renderer: c, Sound: c},
	})

	c.send(serverMessage{
		Type:     msgHello,
		Session:  c.id,
		Client:   client,
		Cols:     grid.Cols,
		Rows:     grid.Rows,
		CellSize: s.cfg.Game.CellSize,
	})
	glog.Infof("snake session %s opened: client=%s grid=%dx%d", c.id, client, grid.Cols, grid.Rows)

	ctx, cancel := context.WithCancel(s.ctx)
	var wg sync.WaitGroup
	wg.Add(2)
	core.Go(func() {
		defer wg.Done()
		c.sess.Run(ctx)
	})
	core.Go(func() {
		defer wg.Done()
		c.writeLoop(ctx)
	})

	c.readLoop(ctx)
	cancel()
	wg.Wait()

	st := c.sess.Latest()
	glog.Infof("snake session %s closed: score=%d best=%d ticks=%d", c.id, st.Score, st.Best, c.sess.Ticks())
}

// writeLoop drains the outbox and keeps the connection alive; it closes the connection on exit
func (c *snakeConn) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closing"))
			return
		case m := <-c.out:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(m); err != nil {
				glog.V(1).Infof("snake session %s write: %v", c.id, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop applies client commands until the connection fails or ctx ends
func (c *snakeConn) readLoop(ctx context.Context) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for ctx.Err() == nil {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				glog.V(1).Infof("snake session %s read: %v", c.id, err)
			}
			return
		}

		var m clientMessage
		if err := json.Unmarshal(data, &m); err != nil {
			c.send(serverMessage{Type: msgError, Error: "malformed message"})
			continue
		}
		if err := c.dispatch(m); err != nil {
			return
		}
	}
}

// dispatch forwards one command; only a closed session is an error
func (c *snakeConn) dispatch(m clientMessage) error {
	switch m.Type {
	case msgSteer:
		d, ok := engine.ParseDirection(m.Dir)
		if !ok {
			c.send(serverMessage{Type: msgError, Error: "unknown direction " + strconv.Quote(m.Dir)})
			return nil
		}
		return c.sess.Steer(d)
	case msgRestart:
		return c.sess.Restart()
	case msgPause:
		return c.sess.Pause()
	case msgResume:
		return c.sess.Resume()
	default:
		c.send(serverMessage{Type: msgError, Error: "unknown message type " + strconv.Quote(m.Type)})
		return nil
	}
}
