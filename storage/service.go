package storage

import (
	"fmt"
	"sync"

	"github.com/golang/glog"

	"github.com/lixenwraith/bugsnake/config"
)

// StorageService wraps a KV as a Service
// A file store that cannot be read at Start falls back to memory
// Per-client scores go through a BoundedKV capped at cfg.MaxClients
type StorageService struct {
	mu      sync.RWMutex
	cfg     config.StorageConfig
	kv      ListKV
	clients *BoundedKV
}

// NewService creates a storage service
func NewService() *StorageService {
	return &StorageService{}
}

// Name implements Service
func (s *StorageService) Name() string {
	return "storage"
}

// Dependencies implements Service
func (s *StorageService) Dependencies() []string {
	return nil
}

// Init implements Service
// args[0]: config.StorageConfig (defaults: memory store, key snakeBestScore)
func (s *StorageService) Init(args ...any) error {
	cfg := config.Default().Storage
	if len(args) > 0 {
		c, ok := args[0].(config.StorageConfig)
		if !ok {
			return fmt.Errorf("storage: expected config.StorageConfig, got %T", args[0])
		}
		cfg = c
	}
	if cfg.Key == "" {
		return fmt.Errorf("storage: %w", ErrEmptyKey)
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return nil
}

// Start implements Service
func (s *StorageService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.kv = s.open()
	s.clients = NewBoundedKV(s.kv, ScopedKey(s.cfg.Key, "")+"/", s.cfg.MaxClients)
	if n, err := s.clients.Len(); err == nil {
		glog.Infof("%d of at most %d client best scores stored", n, s.cfg.MaxClients)
	}
	return nil
}

func (s *StorageService) open() ListKV {
	if s.cfg.Path == "" {
		glog.Info("best scores kept in memory")
		return NewMemoryKV()
	}

	file := NewFileKV(s.cfg.Path)
	if _, _, err := file.Get(s.cfg.Key); err != nil {
		glog.Warningf("score file %s unusable, keeping best scores in memory: %v", s.cfg.Path, err)
		return NewMemoryKV()
	}
	glog.Infof("best scores stored in %s", s.cfg.Path)
	return file
}

// Stop implements Service
func (s *StorageService) Stop() error {
	return nil
}

// ScoreStore returns the best-score store for a client scope; an empty scope is the shared key
// Scoped stores fail with ErrFull once the client limit is reached, which the engine treats as
// a storage failure and keeps that client's best in memory
func (s *StorageService) ScoreStore(scope string) *BestScore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var kv KV = s.kv
	if kv == nil {
		kv = NewMemoryKV()
	} else if scope != "" {
		kv = s.clients
	}
	return NewBestScore(kv, ScopedKey(s.cfg.Key, scope))
}
