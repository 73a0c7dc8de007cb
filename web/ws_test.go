package web

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lixenwraith/bugsnake/config"
	"github.com/lixenwraith/bugsnake/engine"
	"github.com/lixenwraith/bugsnake/storage"
)

func dialSnake(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/snake?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads messages until match returns true
func readUntil(t *testing.T, conn *websocket.Conn, what string, match func(serverMessage) bool) serverMessage {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		var m serverMessage
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("Waiting for %s: %v", what, err)
		}
		if match(m) {
			return m
		}
	}
}

func fastConfig() *config.Config {
	cfg := config.Default()
	cfg.Game.TickInterval = config.Duration{Duration: 5 * time.Millisecond}
	return cfg
}

// TestSnakeSessionPlaysOverWebsocket verifies hello, steering into a wall, the crash sound and restart
func TestSnakeSessionPlaysOverWebsocket(t *testing.T) {
	kv := storage.NewMemoryKV()
	scores := func(client string) engine.ScoreStore {
		return storage.NewBestScore(kv, storage.ScopedKey("snakeBestScore", client))
	}
	srv, err := NewServer(fastConfig(), testSite(), scores)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	defer srv.Close()

	client := uuid.NewString()
	conn := dialSnake(t, ts, "w=400&vw=400&client="+client)

	hello := readUntil(t, conn, "hello", func(m serverMessage) bool { return m.Type == msgHello })
	if hello.Client != client {
		t.Errorf("Expected client id echoed, got %s", hello.Client)
	}
	if _, err := uuid.Parse(hello.Session); err != nil {
		t.Errorf("Expected uuid session id, got %q", hello.Session)
	}
	if hello.Cols != 15 || hello.Rows != 10 || hello.CellSize != 20 {
		t.Errorf("Expected 15x10 grid of 20px cells, got %dx%d/%d", hello.Cols, hello.Rows, hello.CellSize)
	}

	first := readUntil(t, conn, "first frame", func(m serverMessage) bool { return m.Type == msgFrame })
	if head := first.Frame.Snake[0]; head != (point{X: 5, Y: 5}) {
		t.Errorf("Expected spawn at (5,5), got %v", head)
	}
	if !first.Frame.Running || first.Frame.Glyph == "" {
		t.Errorf("Expected running frame with a glyph, got %+v", first.Frame)
	}
	if srv.ActiveSessions() != 1 {
		t.Errorf("Expected 1 active session, got %d", srv.ActiveSessions())
	}

	conn.WriteJSON(clientMessage{Type: msgSteer, Dir: "sideways"})
	readUntil(t, conn, "error reply", func(m serverMessage) bool { return m.Type == msgError })

	conn.WriteJSON(clientMessage{Type: msgSteer, Dir: "up"})
	readUntil(t, conn, "game over sound", func(m serverMessage) bool {
		return m.Type == msgSound && m.Sound == "gameover"
	})
	over := readUntil(t, conn, "game over frame", func(m serverMessage) bool {
		return m.Type == msgFrame && !m.Frame.Running
	})
	if over.Frame.Snake[0] != (point{X: 5, Y: 0}) {
		t.Errorf("Expected head stopped at the top wall, got %v", over.Frame.Snake[0])
	}

	conn.WriteJSON(clientMessage{Type: msgRestart})
	restarted := readUntil(t, conn, "restart frame", func(m serverMessage) bool {
		return m.Type == msgFrame && m.Frame.Running
	})
	if restarted.Frame.Length != 1 || restarted.Frame.Score != 0 {
		t.Errorf("Expected fresh game, got %+v", restarted.Frame)
	}
}

// TestSnakeIssuesClientID verifies an invalid client id is replaced by a new uuid
func TestSnakeIssuesClientID(t *testing.T) {
	srv, err := NewServer(fastConfig(), testSite(), nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	defer srv.Close()

	conn := dialSnake(t, ts, "client=not-a-uuid")
	hello := readUntil(t, conn, "hello", func(m serverMessage) bool { return m.Type == msgHello })
	if _, err := uuid.Parse(hello.Client); err != nil || hello.Client == "not-a-uuid" {
		t.Errorf("Expected issued uuid, got %q", hello.Client)
	}
	if hello.Cols != 30 || hello.Rows != 20 {
		t.Errorf("Expected desktop 30x20 grid, got %dx%d", hello.Cols, hello.Rows)
	}
}

// TestSnakeBestScoreRestored verifies a returning client sees its stored best score
func TestSnakeBestScoreRestored(t *testing.T) {
	kv := storage.NewMemoryKV()
	client := uuid.NewString()
	storage.NewBestScore(kv, storage.ScopedKey("snakeBestScore", client)).Save(130)

	scores := func(c string) engine.ScoreStore {
		return storage.NewBestScore(kv, storage.ScopedKey("snakeBestScore", c))
	}
	srv, err := NewServer(fastConfig(), testSite(), scores)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	defer srv.Close()

	conn := dialSnake(t, ts, "client="+client)
	m := readUntil(t, conn, "frame", func(m serverMessage) bool { return m.Type == msgFrame })
	if m.Frame.Best != 130 {
		t.Errorf("Expected best 130, got %d", m.Frame.Best)
	}

	other := dialSnake(t, ts, "client="+uuid.NewString())
	m = readUntil(t, other, "frame", func(m serverMessage) bool { return m.Type == msgFrame })
	if m.Frame.Best != 0 {
		t.Errorf("Expected other client best 0, got %d", m.Frame.Best)
	}
}

// TestServerCloseEndsSessions verifies Close disconnects clients
func TestServerCloseEndsSessions(t *testing.T) {
	srv, err := NewServer(fastConfig(), testSite(), nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dialSnake(t, ts, "")
	readUntil(t, conn, "hello", func(m serverMessage) bool { return m.Type == msgHello })

	srv.Close()
	if srv.ActiveSessions() != 0 {
		t.Errorf("Expected no active sessions after Close, got %d", srv.ActiveSessions())
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway) {
				t.Errorf("Expected going-away close, got %v", err)
			}
			return
		}
	}
}
