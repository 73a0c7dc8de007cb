package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/lixenwraith/bugsnake/config"
	"github.com/lixenwraith/bugsnake/core"
	"github.com/lixenwraith/bugsnake/engine"
	"github.com/lixenwraith/bugsnake/storage"
)

const defaultShutdownTimeout = 5 * time.Second

// WebService runs the HTTP server as a Service
type WebService struct {
	cfg     *config.Config
	storage *storage.StorageService

	mu       sync.Mutex
	server   *Server
	httpSrv  *http.Server
	listener net.Listener
	done     chan struct{}
}

// NewService creates a web service
func NewService() *WebService {
	return &WebService{}
}

// Name implements Service
func (s *WebService) Name() string {
	return "web"
}

// Dependencies implements Service
func (s *WebService) Dependencies() []string {
	return []string{"storage"}
}

// Init implements Service
// args[0]: *config.Config (required)
// args[1]: *storage.StorageService (optional; best scores stay in memory without it)
func (s *WebService) Init(args ...any) error {
	if len(args) == 0 {
		return errors.New("web: missing *config.Config argument")
	}
	cfg, ok := args[0].(*config.Config)
	if !ok || cfg == nil {
		return fmt.Errorf("web: expected *config.Config, got %T", args[0])
	}
	s.cfg = cfg

	if len(args) > 1 {
		st, ok := args[1].(*storage.StorageService)
		if !ok {
			return fmt.Errorf("web: expected *storage.StorageService, got %T", args[1])
		}
		s.storage = st
	}
	return nil
}

// Start implements Service
// The listener is opened synchronously so address errors fail the start
func (s *WebService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	site, err := SiteFS(s.cfg.Server.Root)
	if err != nil {
		return err
	}

	var scores ScoreStores
	if s.storage != nil {
		scores = func(client string) engine.ScoreStore {
			return s.storage.ScoreStore(client)
		}
	}

	server, err := NewServer(s.cfg, site, scores)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Server.Addr, err)
	}

	s.server = server
	s.listener = ln
	s.httpSrv = &http.Server{Handler: server.Handler()}
	s.done = make(chan struct{})

	httpSrv, done := s.httpSrv, s.done
	core.Go(func() {
		defer close(done)
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			glog.Errorf("http server: %v", err)
		}
	})

	source := "embedded site"
	if s.cfg.Server.Root != "" {
		source = s.cfg.Server.Root
	}
	glog.Infof("serving %s on http://%s", source, ln.Addr())
	return nil
}

// Stop implements Service
func (s *WebService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpSrv == nil {
		return nil
	}

	timeout := s.cfg.Server.ShutdownTimeout.Duration
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := s.httpSrv.Shutdown(ctx)
	s.server.Close()
	<-s.done

	s.httpSrv = nil
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Addr returns the bound listener address, nil before Start
func (s *WebService) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Done is closed once the server stopped serving
func (s *WebService) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}
