// Package web serves the portfolio site, its project data and live Snake sessions over
// websockets.
package web

import (
	"bufio"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/websocket"

	"github.com/lixenwraith/bugsnake/config"
	"github.com/lixenwraith/bugsnake/engine"
)

var ErrNoIndex = errors.New("site has no index.html")

//go:embed site
var embeddedSite embed.FS

// SiteFS returns the site rooted at dir, or the embedded default site when dir is empty
// The site holds index.html and a public/ directory of static assets
func SiteFS(dir string) (fs.FS, error) {
	if dir == "" {
		return fs.Sub(embeddedSite, "site")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("site root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("site root %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

// ScoreStores returns the best-score store for a client id
type ScoreStores func(client string) engine.ScoreStore

// Server routes site, API and game requests
type Server struct {
	cfg    *config.Config
	site   fs.FS
	static fs.FS
	scores ScoreStores

	upgrader websocket.Upgrader
	mux      *http.ServeMux

	// Sessions run under ctx; Close cancels it and waits for them
	ctx      context.Context
	cancel   context.CancelFunc
	sessions sync.WaitGroup
	active   atomic.Int64
}

// NewServer creates a server for site; scores may be nil for memory-only best scores
func NewServer(cfg *config.Config, site fs.FS, scores ScoreStores) (*Server, error) {
	if _, err := fs.Stat(site, "index.html"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoIndex, err)
	}
	static, err := fs.Sub(site, "public")
	if err != nil {
		return nil, err
	}
	if scores == nil {
		scores = func(string) engine.ScoreStore { return nil }
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:    cfg,
		site:   site,
		static: static,
		scores: scores,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.Server.AllowedOrigins),
		},
		mux:    http.NewServeMux(),
		ctx:    ctx,
		cancel: cancel,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	files := http.FileServerFS(s.static)

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/projects", s.handleProjects)
	s.mux.HandleFunc("GET /ws/snake", s.handleSnake)
	s.mux.Handle("GET /images/", files)
	s.mux.Handle("GET /videos/", files)
	s.mux.Handle("GET /", files)
}

// Handler returns the routed handler wrapped in request logging
func (s *Server) Handler() http.Handler {
	return logRequests(s.mux)
}

// ActiveSessions returns the number of open game sessions
func (s *Server) ActiveSessions() int {
	return int(s.active.Load())
}

// Close ends all game sessions and waits for them
func (s *Server) Close() {
	s.cancel()
	s.sessions.Wait()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, s.site, "index.html")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.ActiveSessions(),
	})
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects := s.cfg.Projects
	if projects == nil {
		projects = []config.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		glog.Errorf("write json response: %v", err)
	}
}

// originChecker allows the listed origins ("*" for any); an empty list keeps the
// same-host default of the upgrader
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	wildcard := slices.Contains(allowed, "*")
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || wildcard || slices.Contains(allowed, origin)
	}
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades through the recorder
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		if rec.status >= http.StatusInternalServerError {
			glog.Errorf("%s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, elapsed)
			return
		}
		glog.V(1).Infof("%s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, elapsed)
	})
}
