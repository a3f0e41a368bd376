package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// ErrDropped is returned when the cache refuses to admit an entry.
var ErrDropped = errors.New("state write dropped")

type MemoryConfig struct {
	MaxKeys int64
	// MaxBytes bounds the total size of values stored with a ttl.
	MaxBytes int64
}

// Memory is a process-local Store for single-instance deployments and tests.
// Entries with a ttl live in a ristretto cache and may be evicted under
// memory pressure before they expire. Entries without a ttl are pinned and
// only go away on Delete.
type Memory struct {
	cache *ristretto.Cache[string, []byte]

	mu     sync.RWMutex
	pinned map[string][]byte
}

func NewMemory(cfg MemoryConfig) (*Memory, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters:        max(cfg.MaxKeys, 1) * 10,
		MaxCost:            max(cfg.MaxBytes, 1),
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create state cache: %w", err)
	}

	return &Memory{
		cache:  c,
		pinned: make(map[string][]byte),
	}, nil
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	val, ok := m.pinned[key]
	m.mu.RUnlock()
	if ok {
		return val, nil
	}

	val, ok = m.cache.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return val, nil
}

func (m *Memory) Put(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	cp := make([]byte, len(val))
	copy(cp, val)

	if ttl <= 0 {
		m.mu.Lock()
		m.pinned[key] = cp
		m.mu.Unlock()
		m.cache.Del(key)
		return nil
	}

	m.mu.Lock()
	delete(m.pinned, key)
	m.mu.Unlock()

	if !m.cache.SetWithTTL(key, cp, int64(max(len(cp), 1)), ttl) {
		return fmt.Errorf("put %s: %w", key, ErrDropped)
	}
	m.cache.Wait()

	// the admission policy may still reject the entry once the buffer drains
	if _, ok := m.cache.Get(key); !ok {
		return fmt.Errorf("put %s: %w", key, ErrDropped)
	}

	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.pinned, key)
	m.mu.Unlock()

	m.cache.Del(key)
	return nil
}

func (m *Memory) Close() error {
	m.cache.Close()
	return nil
}
