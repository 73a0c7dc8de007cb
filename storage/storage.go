// Package storage persists small string values: the best score of each player scope.
package storage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

var (
	// ErrUnavailable marks a failed or corrupt read/write; callers degrade to memory
	ErrUnavailable = errors.New("storage unavailable")
	ErrEmptyKey    = errors.New("empty storage key")
	// ErrFull rejects a new key once a bounded prefix holds its limit
	ErrFull = errors.New("storage key limit reached")
)

// KV is a string key-value store
type KV interface {
	// Get returns the value and whether it was present
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// ListKV is a KV that can enumerate its keys
type ListKV interface {
	KV
	// Keys returns the keys starting with prefix, in no particular order
	Keys(prefix string) ([]string, error)
}

// MemoryKV is a process-local KV
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV creates an empty in-memory store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Keys(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// BestScore stores one non-negative integer under a key as decimal text
// Implements engine.ScoreStore
type BestScore struct {
	kv  KV
	key string
}

// NewBestScore binds a key of kv
func NewBestScore(kv KV, key string) *BestScore {
	return &BestScore{kv: kv, key: key}
}

// Key returns the bound key
func (b *BestScore) Key() string {
	return b.key
}

// Load returns the stored score; absent keys report ok=false
func (b *BestScore) Load() (int, bool, error) {
	raw, ok, err := b.kv.Get(b.key)
	if err != nil {
		return 0, false, fmt.Errorf("%w: load %s: %w", ErrUnavailable, b.key, err)
	}
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false, fmt.Errorf("%w: corrupt value for %s: %q", ErrUnavailable, b.key, raw)
	}
	if v < 0 {
		return 0, false, fmt.Errorf("%w: negative value for %s: %d", ErrUnavailable, b.key, v)
	}
	return v, true, nil
}

// Save writes the score
func (b *BestScore) Save(score int) error {
	if score < 0 {
		return fmt.Errorf("%w: refusing negative score %d", ErrUnavailable, score)
	}
	if err := b.kv.Set(b.key, strconv.Itoa(score)); err != nil {
		return fmt.Errorf("%w: save %s: %w", ErrUnavailable, b.key, err)
	}
	return nil
}

// ScopedKey joins a base key and a client scope, "base/scope"; an empty scope returns base
func ScopedKey(base, scope string) string {
	if scope == "" {
		return base
	}
	return base + "/" + scope
}
