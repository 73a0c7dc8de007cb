package storage

import (
	"fmt"
	"strings"
	"sync"
)

// BoundedKV caps how many keys may exist under a prefix
// Updates of existing keys and keys outside the prefix pass through; a new prefixed key past
// the limit fails with ErrFull. The count is taken from the backend on first use and then
// tracked locally
type BoundedKV struct {
	kv     ListKV
	prefix string
	limit  int

	mu      sync.Mutex
	count   int
	counted bool
}

// NewBoundedKV wraps kv; a limit of zero or less rejects every new prefixed key
func NewBoundedKV(kv ListKV, prefix string, limit int) *BoundedKV {
	return &BoundedKV{kv: kv, prefix: prefix, limit: max(limit, 0)}
}

func (b *BoundedKV) Get(key string) (string, bool, error) {
	return b.kv.Get(key)
}

func (b *BoundedKV) Set(key, value string) error {
	if !strings.HasPrefix(key, b.prefix) {
		return b.kv.Set(key, value)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	_, exists, err := b.kv.Get(key)
	if err != nil {
		return err
	}
	if exists {
		return b.kv.Set(key, value)
	}

	if !b.counted {
		keys, err := b.kv.Keys(b.prefix)
		if err != nil {
			return err
		}
		b.count, b.counted = len(keys), true
	}
	if b.count >= b.limit {
		return fmt.Errorf("%w: %d keys under %q", ErrFull, b.limit, b.prefix)
	}

	if err := b.kv.Set(key, value); err != nil {
		return err
	}
	b.count++
	return nil
}

func (b *BoundedKV) Keys(prefix string) ([]string, error) {
	return b.kv.Keys(prefix)
}

// Len returns the tracked number of prefixed keys, counting the backend if needed
func (b *BoundedKV) Len() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.counted {
		keys, err := b.kv.Keys(b.prefix)
		if err != nil {
			return 0, err
		}
		b.count, b.counted = len(keys), true
	}
	return b.count, nil
}
